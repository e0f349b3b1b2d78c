package models

import (
	"encoding/json"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

// AttachmentPayload is the wire shape of an attachment inside a submitted
// report snapshot. A nil ID means "not yet persisted": the update
// reconciliation creates a row for it. A non-nil ID keeps the existing row
// untouched; persisted rows whose id is absent from the snapshot are purged.
type AttachmentPayload struct {
	ID            *uuid.UUID      `json:"id,omitempty"`
	ImageURL      string          `json:"imageUrl"`
	ImageName     string          `json:"imageName"`
	ImageKind     string          `json:"imageKind,omitempty"`
	StreetAddress string          `json:"streetAddress"`
	City          string          `json:"city"`
	Region        string          `json:"region"`
	PostalCode    string          `json:"postalCode"`
	Country       string          `json:"country"`
	Latitude      float64         `json:"latitude"`
	Longitude     float64         `json:"longitude"`
	Metadata      json.RawMessage `json:"metadata,omitempty"`
	Cancelled     bool            `json:"cancelled,omitempty"`
}

// ReportPayload is the full wire shape of a report: root fields plus the
// complete attachment snapshot. OwnerName is a denormalized display field,
// populated on the way out only.
type ReportPayload struct {
	ID          *uuid.UUID          `json:"id,omitempty"`
	Title       string              `json:"title"`
	Description string              `json:"description"`
	Status      ReportStatus        `json:"status,omitempty"`
	Tags        []string            `json:"tags,omitempty"`
	Version     int64               `json:"version,omitempty"`
	OwnerID     uuid.UUID           `json:"ownerId,omitempty"`
	OwnerName   string              `json:"ownerName,omitempty"`
	Attachments []AttachmentPayload `json:"attachments"`
}

// AttachmentFromPayload maps a wire attachment to a row. The caller sets the
// parent report id and audit fields.
func AttachmentFromPayload(p AttachmentPayload) *ReportAttachment {
	a := &ReportAttachment{
		ImageURL:      p.ImageURL,
		ImageName:     p.ImageName,
		ImageKind:     p.ImageKind,
		StreetAddress: p.StreetAddress,
		City:          p.City,
		Region:        p.Region,
		PostalCode:    p.PostalCode,
		Country:       p.Country,
		Latitude:      p.Latitude,
		Longitude:     p.Longitude,
	}
	if p.ID != nil {
		a.ID = *p.ID
	}
	if len(p.Metadata) > 0 {
		a.Metadata = datatypes.JSON(p.Metadata)
	}
	return a
}

// AttachmentToPayload maps a row back to the wire shape.
func AttachmentToPayload(a ReportAttachment) AttachmentPayload {
	id := a.ID
	return AttachmentPayload{
		ID:            &id,
		ImageURL:      a.ImageURL,
		ImageName:     a.ImageName,
		ImageKind:     a.ImageKind,
		StreetAddress: a.StreetAddress,
		City:          a.City,
		Region:        a.Region,
		PostalCode:    a.PostalCode,
		Country:       a.Country,
		Latitude:      a.Latitude,
		Longitude:     a.Longitude,
		Metadata:      json.RawMessage(a.Metadata),
		Cancelled:     a.Cancelled,
	}
}

// ReportFromPayload maps the root fields of a submitted report. Attachments
// are handled separately by the reconciliation.
func ReportFromPayload(p ReportPayload) *Report {
	r := &Report{
		Title:       p.Title,
		Description: p.Description,
		Status:      p.Status,
		Tags:        p.Tags,
		Version:     p.Version,
	}
	if p.ID != nil {
		r.ID = *p.ID
	}
	return r
}

// ReportToPayload maps a report and its loaded attachments to the wire shape.
func ReportToPayload(r *Report) ReportPayload {
	id := r.ID
	p := ReportPayload{
		ID:          &id,
		Title:       r.Title,
		Description: r.Description,
		Status:      r.Status,
		Tags:        r.Tags,
		Version:     r.Version,
		OwnerID:     r.OwnerID,
		Attachments: make([]AttachmentPayload, 0, len(r.Attachments)),
	}
	if r.Owner != nil {
		p.OwnerName = r.Owner.Name
	}
	for _, a := range r.Attachments {
		p.Attachments = append(p.Attachments, AttachmentToPayload(a))
	}
	return p
}
