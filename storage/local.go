package storage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
)

const localUploadDir = "./uploads" // Local directory for image storage

// LocalStore keeps image blobs on the local filesystem, for development runs
// without GCS credentials. Files land under {root}/{kind}/{name} and are
// served by the /uploads/ static route.
type LocalStore struct {
	root string
}

func NewLocalStore(root string) (*LocalStore, error) {
	if err := os.MkdirAll(root, 0755); err != nil {
		return nil, fmt.Errorf("failed to create upload directory: %w", err)
	}
	return &LocalStore{root: root}, nil
}

func (s *LocalStore) path(kind, name string) string {
	return filepath.Join(s.root, kind, name)
}

func (s *LocalStore) Save(ctx context.Context, kind, name string, r io.Reader, contentType string) (string, error) {
	if err := os.MkdirAll(filepath.Join(s.root, kind), 0755); err != nil {
		return "", fmt.Errorf("failed to create kind directory: %w", err)
	}

	dst, err := os.Create(s.path(kind, name))
	if err != nil {
		return "", fmt.Errorf("failed to create file: %w", err)
	}
	defer dst.Close()

	if _, err := io.Copy(dst, r); err != nil {
		return "", fmt.Errorf("failed to save file: %w", err)
	}

	// In production you'd use your domain. For dev, a relative path works.
	return fmt.Sprintf("/uploads/%s/%s", kind, name), nil
}

func (s *LocalStore) Delete(ctx context.Context, kind, name string) error {
	err := os.Remove(s.path(kind, name))
	if errors.Is(err, fs.ErrNotExist) {
		return nil
	}
	return err
}
