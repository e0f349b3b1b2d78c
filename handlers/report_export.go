package handlers

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/xuri/excelize/v2"
	"p9e.in/sweep/models"
)

var exportHeader = []string{
	"ID", "Title", "Status", "Owner", "Tags", "Attachments", "Created At", "Updated At",
}

func exportRow(r *models.Report) []string {
	owner := r.OwnerID.String()
	if r.Owner != nil {
		owner = r.Owner.Name
	}
	return []string{
		r.ID.String(),
		r.Title,
		string(r.Status),
		owner,
		strings.Join(r.Tags, ", "),
		strconv.Itoa(len(r.Attachments)),
		r.CreatedAt.Format(time.RFC3339),
		r.UpdatedAt.Format(time.RFC3339),
	}
}

// ExportReportsToExcel exports the report listing to Excel format
func ExportReportsToExcel(w http.ResponseWriter, r *http.Request) {
	reports, err := NewReportService().GetAll(r.Context())
	if err != nil {
		writeServiceError(w, err)
		return
	}

	excelFile, err := createReportsWorkbook(reports)
	if err != nil {
		http.Error(w, "Failed to generate Excel file", http.StatusInternalServerError)
		return
	}

	buffer, err := excelFile.WriteToBuffer()
	if err != nil {
		http.Error(w, "Failed to write Excel file", http.StatusInternalServerError)
		return
	}

	filename := fmt.Sprintf("reports_%s.xlsx", time.Now().Format("20060102_150405"))
	w.Header().Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%s", filename))
	w.Header().Set("Content-Length", fmt.Sprintf("%d", buffer.Len()))

	w.WriteHeader(http.StatusOK)
	w.Write(buffer.Bytes())
}

// ExportReportsToCSV exports the report listing to CSV format
func ExportReportsToCSV(w http.ResponseWriter, r *http.Request) {
	reports, err := NewReportService().GetAll(r.Context())
	if err != nil {
		writeServiceError(w, err)
		return
	}

	var buf bytes.Buffer
	cw := csv.NewWriter(&buf)
	if err := cw.Write(exportHeader); err != nil {
		http.Error(w, "Failed to generate CSV file", http.StatusInternalServerError)
		return
	}
	for i := range reports {
		if err := cw.Write(exportRow(&reports[i])); err != nil {
			http.Error(w, "Failed to generate CSV file", http.StatusInternalServerError)
			return
		}
	}
	cw.Flush()
	if err := cw.Error(); err != nil {
		http.Error(w, "Failed to generate CSV file", http.StatusInternalServerError)
		return
	}

	filename := fmt.Sprintf("reports_%s.csv", time.Now().Format("20060102_150405"))
	w.Header().Set("Content-Type", "text/csv")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%s", filename))
	w.WriteHeader(http.StatusOK)
	w.Write(buf.Bytes())
}

func createReportsWorkbook(reports []models.Report) (*excelize.File, error) {
	f := excelize.NewFile()
	const sheet = "Reports"
	index, err := f.NewSheet(sheet)
	if err != nil {
		return nil, err
	}
	f.SetActiveSheet(index)
	f.DeleteSheet("Sheet1")

	for col, title := range exportHeader {
		cell, err := excelize.CoordinatesToCellName(col+1, 1)
		if err != nil {
			return nil, err
		}
		if err := f.SetCellValue(sheet, cell, title); err != nil {
			return nil, err
		}
	}

	for rowIdx := range reports {
		for col, value := range exportRow(&reports[rowIdx]) {
			cell, err := excelize.CoordinatesToCellName(col+1, rowIdx+2)
			if err != nil {
				return nil, err
			}
			if err := f.SetCellValue(sheet, cell, value); err != nil {
				return nil, err
			}
		}
	}
	return f, nil
}
