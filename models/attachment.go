package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// ImageKindReport is the blob-store kind under which report photos are stored.
const ImageKindReport = "report"

// ReportAttachment is a photo attached to a report. The image bytes live in
// the image store; the row keeps the public URL, the object name used for
// deletion, and where the photo was taken.
//
// Cancelled marks a logically deleted row that is still physically present;
// only a hard delete removes the row and its blob.
type ReportAttachment struct {
	ID       uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	ReportID uuid.UUID `gorm:"type:uuid;not null;index" json:"reportId"`

	ImageURL  string `gorm:"size:500" json:"imageUrl"`
	ImageName string `gorm:"size:255" json:"imageName"`
	ImageKind string `gorm:"size:50;not null;default:'report'" json:"imageKind"`

	StreetAddress string  `gorm:"size:255" json:"streetAddress"`
	City          string  `gorm:"size:100" json:"city"`
	Region        string  `gorm:"size:100" json:"region"`
	PostalCode    string  `gorm:"size:20" json:"postalCode"`
	Country       string  `gorm:"size:100" json:"country"`
	Latitude      float64 `json:"latitude"`
	Longitude     float64 `json:"longitude"`

	Cancelled bool `gorm:"not null;default:false;index" json:"cancelled"`

	// Capture-device extras (EXIF, accuracy, client app version, ...)
	Metadata datatypes.JSON `gorm:"type:jsonb" json:"metadata,omitempty"`

	CreatedBy     uuid.UUID `gorm:"type:uuid" json:"createdBy"`
	LastUpdatedBy uuid.UUID `gorm:"type:uuid" json:"lastUpdatedBy"`
	CreatedAt     time.Time `json:"createdAt"`
	UpdatedAt     time.Time `json:"updatedAt"`
}

func (a *ReportAttachment) BeforeCreate(tx *gorm.DB) (err error) {
	if a.ID == uuid.Nil {
		a.ID = uuid.New()
	}
	if a.ImageKind == "" {
		a.ImageKind = ImageKindReport
	}
	return
}
