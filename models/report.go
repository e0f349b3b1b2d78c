package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"gorm.io/gorm"
)

// ReportStatus defines the workflow status of a cleanup report
type ReportStatus string

const (
	ReportStatusNew       ReportStatus = "new"
	ReportStatusCleaned   ReportStatus = "cleaned"
	ReportStatusCancelled ReportStatus = "cancelled"
)

// Report is the aggregate root: a reported litter/dump site owned by a user,
// with zero or more photo attachments.
type Report struct {
	ID          uuid.UUID      `gorm:"type:uuid;primaryKey" json:"id"`
	Title       string         `gorm:"size:200;not null" json:"title"`
	Description string         `gorm:"type:text" json:"description"`
	Status      ReportStatus   `gorm:"size:20;not null;default:'new';index" json:"status"`
	OwnerID     uuid.UUID      `gorm:"type:uuid;not null;index" json:"ownerId"`
	Owner       *User          `gorm:"foreignKey:OwnerID" json:"owner,omitempty"`
	Tags        pq.StringArray `gorm:"type:text[]" json:"tags"`

	// Version is checked-and-incremented on every update; stale writers are
	// rejected instead of silently overwriting each other.
	Version int64 `gorm:"not null;default:1" json:"version"`

	CreatedBy     uuid.UUID `gorm:"type:uuid" json:"createdBy"`
	LastUpdatedBy uuid.UUID `gorm:"type:uuid" json:"lastUpdatedBy"`
	CreatedAt     time.Time `json:"createdAt"`
	UpdatedAt     time.Time `json:"updatedAt"`

	Attachments []ReportAttachment `gorm:"foreignKey:ReportID" json:"attachments"`
}

func (r *Report) BeforeCreate(tx *gorm.DB) (err error) {
	if r.ID == uuid.Nil {
		r.ID = uuid.New()
	}
	if r.Status == "" {
		r.Status = ReportStatusNew
	}
	if r.Version == 0 {
		r.Version = 1
	}
	return
}
