package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/google/uuid"
	"github.com/gorilla/mux"
	"p9e.in/sweep/models"
	"p9e.in/sweep/store"
)

// AddAttachment adds a single attachment to an existing report
func AddAttachment(w http.ResponseWriter, r *http.Request) {
	userID, ok := actingUser(r)
	if !ok {
		http.Error(w, "not authenticated", http.StatusUnauthorized)
		return
	}

	vars := mux.Vars(r)
	reportID, err := uuid.Parse(vars["id"])
	if err != nil {
		http.Error(w, "invalid report id", http.StatusBadRequest)
		return
	}

	var payload models.AttachmentPayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		http.Error(w, "invalid JSON", http.StatusBadRequest)
		return
	}

	// The parent must exist; attachments never dangle.
	svc := NewReportService()
	if _, err := svc.reports.GetByIDDetached(r.Context(), nil, reportID); err != nil {
		writeServiceError(w, err)
		return
	}

	att, err := svc.attachments.Add(r.Context(), nil, reportID, payload, userID)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, map[string]interface{}{
		"message":    "Attachment added successfully",
		"attachment": models.AttachmentToPayload(*att),
	})
}

// GetReportAttachments lists all attachments of a report, cancelled included
func GetReportAttachments(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	reportID, err := uuid.Parse(vars["id"])
	if err != nil {
		http.Error(w, "invalid report id", http.StatusBadRequest)
		return
	}

	atts, err := NewAttachmentService().GetByReportID(r.Context(), reportID)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	payloads := make([]models.AttachmentPayload, 0, len(atts))
	for _, a := range atts {
		payloads = append(payloads, models.AttachmentToPayload(a))
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"attachments": payloads,
		"count":       len(payloads),
	})
}

// DeleteAttachment cancels one attachment (soft delete, blob kept)
func DeleteAttachment(w http.ResponseWriter, r *http.Request) {
	userID, ok := actingUser(r)
	if !ok {
		http.Error(w, "not authenticated", http.StatusUnauthorized)
		return
	}

	vars := mux.Vars(r)
	attID, err := uuid.Parse(vars["id"])
	if err != nil {
		http.Error(w, "invalid attachment id", http.StatusBadRequest)
		return
	}

	if err := NewAttachmentService().SoftDelete(r.Context(), nil, attID, userID); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			http.Error(w, "attachment not found", http.StatusNotFound)
			return
		}
		writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{
		"message": "Attachment cancelled successfully",
	})
}

// PurgeAttachment irreversibly removes an attachment row and its image blob.
// Admin only; this is the single path that deletes blobs.
func PurgeAttachment(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	attID, err := uuid.Parse(vars["id"])
	if err != nil {
		http.Error(w, "invalid attachment id", http.StatusBadRequest)
		return
	}

	if err := NewAttachmentService().HardDelete(r.Context(), attID); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			http.Error(w, "attachment not found", http.StatusNotFound)
			return
		}
		writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{
		"message": "Attachment purged successfully",
	})
}
