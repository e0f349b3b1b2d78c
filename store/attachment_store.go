package store

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"p9e.in/sweep/models"
)

// GormAttachmentStore is the postgres-backed AttachmentStore.
type GormAttachmentStore struct {
	Repository[models.ReportAttachment]
}

func NewAttachmentStore(db *gorm.DB) *GormAttachmentStore {
	return &GormAttachmentStore{Repository: NewRepository[models.ReportAttachment](db)}
}

func (s *GormAttachmentStore) FindByReportID(ctx context.Context, tx *gorm.DB, reportID uuid.UUID) ([]models.ReportAttachment, error) {
	return s.Find(ctx, tx, "report_id = ?", reportID)
}
