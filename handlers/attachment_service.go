package handlers

import (
	"context"
	"fmt"
	"log"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"p9e.in/sweep/config"
	"p9e.in/sweep/models"
	"p9e.in/sweep/storage"
	"p9e.in/sweep/store"
	"p9e.in/sweep/utils"
)

// AttachmentService owns the lifecycle of a single report attachment row.
// It never opens a transaction itself: mutations that need a scope run inside
// one opened by the caller (ReportService), passed in as tx.
type AttachmentService struct {
	attachments store.AttachmentStore
	images      storage.ImageStore
}

// NewAttachmentService creates an AttachmentService over the shared DB and
// the configured image store.
func NewAttachmentService() *AttachmentService {
	return &AttachmentService{
		attachments: store.NewAttachmentStore(config.DB),
		images:      storage.Default(),
	}
}

// Add persists a new attachment row for the given report inside the caller's
// scope (tx may be nil for a standalone add) and returns the row with its
// assigned id.
func (s *AttachmentService) Add(ctx context.Context, tx *gorm.DB, reportID uuid.UUID, p models.AttachmentPayload, actingUserID uuid.UUID) (*models.ReportAttachment, error) {
	if err := utils.ValidateCoordinate(p.Latitude, p.Longitude); err != nil {
		return nil, fmt.Errorf("%w: %v", errInvalidPayload, err)
	}

	att := models.AttachmentFromPayload(p)
	att.ID = uuid.Nil // ids are assigned by the store, never taken from the wire
	att.ReportID = reportID
	att.CreatedBy = actingUserID
	att.LastUpdatedBy = actingUserID

	if err := s.attachments.Add(ctx, tx, att); err != nil {
		return nil, fmt.Errorf("failed to create attachment: %w", err)
	}
	return att, nil
}

// SoftDelete marks the attachment cancelled. The row and its blob stay in
// place; store.ErrNotFound comes back when the id does not exist, which
// callers may treat as "already gone".
func (s *AttachmentService) SoftDelete(ctx context.Context, tx *gorm.DB, id, actingUserID uuid.UUID) error {
	att, err := s.attachments.GetByID(ctx, tx, id)
	if err != nil {
		return err
	}
	att.Cancelled = true
	att.LastUpdatedBy = actingUserID
	return s.attachments.Update(ctx, tx, att)
}

// HardDelete irreversibly removes the row and then its image blob. This is
// the only path that touches the image store. The blob delete runs after the
// row delete and outside any transaction; a blob-side failure is logged, not
// surfaced, and never undoes the row purge.
func (s *AttachmentService) HardDelete(ctx context.Context, id uuid.UUID) error {
	att, err := s.attachments.GetByID(ctx, nil, id)
	if err != nil {
		return err
	}
	if _, err := s.attachments.DeleteByID(ctx, nil, id); err != nil {
		return fmt.Errorf("failed to delete attachment %s: %w", id, err)
	}
	s.deleteImage(ctx, att)
	return nil
}

// hardDeleteRow purges only the row, inside the caller's scope. Used by the
// update reconciliation, which fires the blob deletes itself after commit.
func (s *AttachmentService) hardDeleteRow(ctx context.Context, tx *gorm.DB, id uuid.UUID) error {
	count, err := s.attachments.DeleteByID(ctx, tx, id)
	if err != nil {
		return err
	}
	if count == 0 {
		return store.ErrNotFound
	}
	return nil
}

// deleteImage is the best-effort blob delete behind hard deletes.
func (s *AttachmentService) deleteImage(ctx context.Context, att *models.ReportAttachment) {
	if s.images == nil || att.ImageName == "" {
		return
	}
	if err := s.images.Delete(ctx, att.ImageKind, att.ImageName); err != nil {
		log.Printf("image delete failed for attachment %s (%s/%s): %v",
			att.ID, att.ImageKind, att.ImageName, err)
	}
}

// GetByReportID returns every attachment row for the report, cancelled rows
// included; callers filter as needed.
func (s *AttachmentService) GetByReportID(ctx context.Context, reportID uuid.UUID) ([]models.ReportAttachment, error) {
	return s.findByReportID(ctx, nil, reportID)
}

func (s *AttachmentService) findByReportID(ctx context.Context, tx *gorm.DB, reportID uuid.UUID) ([]models.ReportAttachment, error) {
	return s.attachments.FindByReportID(ctx, tx, reportID)
}
