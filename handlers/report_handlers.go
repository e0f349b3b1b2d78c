package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/google/uuid"
	"github.com/gorilla/mux"
	"p9e.in/sweep/middleware"
	"p9e.in/sweep/models"
	"p9e.in/sweep/store"
)

// writeJSON is the standard success response shape.
func writeJSON(w http.ResponseWriter, status int, body interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(body)
}

// writeServiceError maps service errors onto HTTP statuses: not-found and
// version conflicts are expected outcomes, everything else is a 500.
func writeServiceError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, store.ErrNotFound):
		http.Error(w, "report not found", http.StatusNotFound)
	case errors.Is(err, store.ErrVersionConflict):
		http.Error(w, err.Error(), http.StatusConflict)
	case errors.Is(err, errInvalidPayload):
		http.Error(w, err.Error(), http.StatusBadRequest)
	default:
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}

func actingUser(r *http.Request) (uuid.UUID, bool) {
	id, err := uuid.Parse(middleware.GetUserID(r))
	return id, err == nil
}

func reportListResponse(reports []models.Report) map[string]interface{} {
	payloads := make([]models.ReportPayload, 0, len(reports))
	for i := range reports {
		payloads = append(payloads, models.ReportToPayload(&reports[i]))
	}
	return map[string]interface{}{
		"reports": payloads,
		"count":   len(payloads),
	}
}

// CreateReport creates a report together with its initial attachments
func CreateReport(w http.ResponseWriter, r *http.Request) {
	userID, ok := actingUser(r)
	if !ok {
		http.Error(w, "not authenticated", http.StatusUnauthorized)
		return
	}

	var payload models.ReportPayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		http.Error(w, "invalid JSON", http.StatusBadRequest)
		return
	}
	if payload.Title == "" {
		http.Error(w, "title is required", http.StatusBadRequest)
		return
	}

	report, err := NewReportService().Add(r.Context(), payload, userID)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, map[string]interface{}{
		"message": "Report created successfully",
		"report":  models.ReportToPayload(report),
	})
}

// UpdateReport applies root field changes and reconciles the attachment set
// against the submitted snapshot
func UpdateReport(w http.ResponseWriter, r *http.Request) {
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

	var payload models.ReportPayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		http.Error(w, "invalid JSON", http.StatusBadRequest)
		return
	}
	payload.ID = &reportID

	report, err := NewReportService().Update(r.Context(), payload, userID)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"message": "Report updated successfully",
		"report":  models.ReportToPayload(report),
	})
}

// DeleteReport cancels the report and all of its live attachments
func DeleteReport(w http.ResponseWriter, r *http.Request) {
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

	if err := NewReportService().Delete(r.Context(), reportID, userID); err != nil {
		writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{
		"message": "Report cancelled successfully",
	})
}

// GetReport fetches one report with its live attachments
func GetReport(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	reportID, err := uuid.Parse(vars["id"])
	if err != nil {
		http.Error(w, "invalid report id", http.StatusBadRequest)
		return
	}

	report, err := NewReportService().Get(r.Context(), reportID)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"report": models.ReportToPayload(report),
	})
}

// GetReports lists reports, optionally filtered by status or owner:
//
//	GET /reports                   -> all
//	GET /reports?status=new        -> status filter
//	GET /reports?status=active     -> everything not cancelled
//	GET /reports?owner={userId}    -> owner filter
func GetReports(w http.ResponseWriter, r *http.Request) {
	svc := NewReportService()
	ctx := r.Context()

	if owner := r.URL.Query().Get("owner"); owner != "" {
		ownerID, err := uuid.Parse(owner)
		if err != nil {
			http.Error(w, "invalid owner id", http.StatusBadRequest)
			return
		}
		reports, err := svc.GetByOwner(ctx, ownerID)
		if err != nil {
			writeServiceError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, reportListResponse(reports))
		return
	}

	var (
		reports []models.Report
		err     error
	)
	switch r.URL.Query().Get("status") {
	case "":
		reports, err = svc.GetAll(ctx)
	case "new":
		reports, err = svc.GetNew(ctx)
	case "cleaned":
		reports, err = svc.GetCleaned(ctx)
	case "cancelled":
		reports, err = svc.GetCancelled(ctx)
	case "active":
		reports, err = svc.GetNotCancelled(ctx)
	default:
		http.Error(w, "unknown status filter", http.StatusBadRequest)
		return
	}
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, reportListResponse(reports))
}

// GetNearbyReports lists active reports photographed near a point
func GetNearbyReports(w http.ResponseWriter, r *http.Request) {
	lat, err1 := strconv.ParseFloat(r.URL.Query().Get("lat"), 64)
	lng, err2 := strconv.ParseFloat(r.URL.Query().Get("lng"), 64)
	if err1 != nil || err2 != nil {
		http.Error(w, "lat and lng are required", http.StatusBadRequest)
		return
	}
	radius := 1000.0
	if raw := r.URL.Query().Get("radius_m"); raw != "" {
		if radius, err1 = strconv.ParseFloat(raw, 64); err1 != nil {
			http.Error(w, "invalid radius_m", http.StatusBadRequest)
			return
		}
	}

	reports, err := NewReportService().GetNearby(r.Context(), lat, lng, radius)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, reportListResponse(reports))
}
