package handlers

import (
	"fmt"
	"net/http"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	"p9e.in/sweep/models"
	"p9e.in/sweep/storage"
)

// UploadImage stores a photo in the configured image store (GCS in
// production, local disk in development) and returns the URL plus the object
// name. The client submits both on the attachment payload; the object name is
// what a later hard delete uses to remove the blob.
func UploadImage(w http.ResponseWriter, r *http.Request) {
	// Parse the multipart form (max 50MB)
	if err := r.ParseMultipartForm(50 << 20); err != nil {
		http.Error(w, "bad multipart form: "+err.Error(), http.StatusBadRequest)
		return
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		http.Error(w, "missing file field: "+err.Error(), http.StatusBadRequest)
		return
	}
	defer file.Close()

	kind := r.FormValue("kind")
	if kind == "" {
		kind = models.ImageKindReport
	}

	// Unique object name: timestamp prefix keeps listings readable, the uuid
	// avoids collisions.
	name := fmt.Sprintf("%s-%s%s",
		time.Now().Format("20060102-150405"),
		uuid.New().String(),
		filepath.Ext(header.Filename),
	)

	url, err := storage.Default().Save(r.Context(), kind, name, file, header.Header.Get("Content-Type"))
	if err != nil {
		http.Error(w, "failed to save file: "+err.Error(), http.StatusInternalServerError)
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{
		"url":  url,
		"name": name,
		"kind": kind,
	})
}
