package models

import (
	"testing"

	"github.com/google/uuid"
)

func TestReportRoundTrip(t *testing.T) {
	attID := uuid.New()
	report := &Report{
		ID:          uuid.New(),
		Title:       "blocked drain",
		Description: "drain on 4th street",
		Status:      ReportStatusNew,
		Tags:        []string{"drain"},
		Version:     3,
		OwnerID:     uuid.New(),
		Owner:       &User{Name: "Asha"},
		Attachments: []ReportAttachment{{
			ID:        attID,
			ImageURL:  "/uploads/report/d.jpg",
			ImageName: "d.jpg",
			Latitude:  17.4,
			Longitude: 78.5,
		}},
	}

	p := ReportToPayload(report)
	if p.ID == nil || *p.ID != report.ID {
		t.Fatal("payload id mismatch")
	}
	if p.OwnerName != "Asha" {
		t.Errorf("owner name = %q", p.OwnerName)
	}
	if p.Version != 3 {
		t.Errorf("version = %d", p.Version)
	}
	if len(p.Attachments) != 1 || p.Attachments[0].ID == nil || *p.Attachments[0].ID != attID {
		t.Fatal("attachment payload mismatch")
	}

	back := ReportFromPayload(p)
	if back.ID != report.ID || back.Title != report.Title || back.Version != 3 {
		t.Errorf("round trip lost root fields: %+v", back)
	}
}

func TestAttachmentFromPayloadNilID(t *testing.T) {
	a := AttachmentFromPayload(AttachmentPayload{ImageName: "x.jpg", Latitude: 17.4, Longitude: 78.5})
	if a.ID != uuid.Nil {
		t.Errorf("id = %s, want nil uuid for unsaved payloads", a.ID)
	}

	id := uuid.New()
	a = AttachmentFromPayload(AttachmentPayload{ID: &id})
	if a.ID != id {
		t.Errorf("id = %s, want %s", a.ID, id)
	}
}
