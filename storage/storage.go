// Package storage holds the image blob store behind the attachment rows.
// Blob operations are never part of a relational transaction: deletes are
// best-effort side effects issued after row commit.
package storage

import (
	"context"
	"io"
	"log"
	"os"
	"sync"
)

// ImageStore stores and deletes image blobs addressed by (kind, name).
type ImageStore interface {
	// Save writes the blob and returns its public URL.
	Save(ctx context.Context, kind, name string, r io.Reader, contentType string) (string, error)
	// Delete removes the blob. Deleting a blob that is already gone is not
	// an error.
	Delete(ctx context.Context, kind, name string) error
}

var (
	defaultStore ImageStore
	defaultOnce  sync.Once
)

// Default returns the process-wide image store: GCS when running on Google
// Cloud (or USE_GCS is set), local disk otherwise.
func Default() ImageStore {
	defaultOnce.Do(func() {
		useGCS := os.Getenv("USE_GCS") == "true" ||
			os.Getenv("GOOGLE_APPLICATION_CREDENTIALS") != "" ||
			os.Getenv("K_SERVICE") != "" // Cloud Run indicator

		if useGCS {
			gcs, err := NewGCSStore(context.Background(), os.Getenv("GCS_BUCKET"))
			if err != nil {
				log.Fatalf("could not initialise GCS image store: %v", err)
			}
			defaultStore = gcs
			return
		}
		local, err := NewLocalStore(localUploadDir)
		if err != nil {
			log.Fatalf("could not initialise local image store: %v", err)
		}
		defaultStore = local
	})
	return defaultStore
}
