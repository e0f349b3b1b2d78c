package routes

import (
	"net/http"

	"github.com/gorilla/mux"
	"p9e.in/sweep/handlers"
	"p9e.in/sweep/middleware"
)

// RegisterReportRoutes registers the report and attachment routes using Mux
func RegisterReportRoutes(api *mux.Router) {
	// Reports
	api.HandleFunc("/reports", handlers.CreateReport).Methods("POST")
	api.HandleFunc("/reports", handlers.GetReports).Methods("GET")
	api.HandleFunc("/reports/nearby", handlers.GetNearbyReports).Methods("GET")
	api.HandleFunc("/reports/export/excel", handlers.ExportReportsToExcel).Methods("GET")
	api.HandleFunc("/reports/export/csv", handlers.ExportReportsToCSV).Methods("GET")
	api.HandleFunc("/reports/{id}", handlers.GetReport).Methods("GET")
	api.HandleFunc("/reports/{id}", handlers.UpdateReport).Methods("PUT")
	api.HandleFunc("/reports/{id}", handlers.DeleteReport).Methods("DELETE")

	// Attachments
	api.HandleFunc("/reports/{id}/attachments", handlers.AddAttachment).Methods("POST")
	api.HandleFunc("/reports/{id}/attachments", handlers.GetReportAttachments).Methods("GET")
	api.HandleFunc("/attachments/{id}", handlers.DeleteAttachment).Methods("DELETE")

	// Hard delete purges the row and its image blob; admins only
	api.Handle("/attachments/{id}/purge",
		middleware.RequireRole([]string{"admin"},
			http.HandlerFunc(handlers.PurgeAttachment))).Methods("DELETE")

	// Photo upload
	api.HandleFunc("/files", handlers.UploadImage).Methods("POST")
}
