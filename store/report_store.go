package store

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"p9e.in/sweep/models"
)

// GormReportStore is the postgres-backed ReportStore. Reads always include
// the live attachment set and the owner; there is no lazy-loaded report shape.
type GormReportStore struct {
	Repository[models.Report]
}

func NewReportStore(db *gorm.DB) *GormReportStore {
	return &GormReportStore{Repository: NewRepository[models.Report](db)}
}

func (s *GormReportStore) withIncludes(ctx context.Context, tx *gorm.DB) *gorm.DB {
	return s.session(ctx, tx).
		Preload("Attachments", "cancelled = ?", false).
		Preload("Owner")
}

func (s *GormReportStore) GetByID(ctx context.Context, tx *gorm.DB, id uuid.UUID) (*models.Report, error) {
	var report models.Report
	if err := s.withIncludes(ctx, tx).First(&report, "id = ?", id).Error; err != nil {
		return nil, translateErr(err)
	}
	return &report, nil
}

func (s *GormReportStore) GetByIDDetached(ctx context.Context, tx *gorm.DB, id uuid.UUID) (*models.Report, error) {
	var report models.Report
	err := s.session(ctx, tx).
		Session(&gorm.Session{NewDB: true}).
		First(&report, "id = ?", id).Error
	if err != nil {
		return nil, translateErr(err)
	}
	return &report, nil
}

func (s *GormReportStore) FindAll(ctx context.Context, tx *gorm.DB) ([]models.Report, error) {
	var reports []models.Report
	err := s.withIncludes(ctx, tx).Order("created_at DESC").Find(&reports).Error
	return reports, err
}

func (s *GormReportStore) FindByStatus(ctx context.Context, tx *gorm.DB, status models.ReportStatus) ([]models.Report, error) {
	var reports []models.Report
	err := s.withIncludes(ctx, tx).
		Where("status = ?", status).
		Order("created_at DESC").
		Find(&reports).Error
	return reports, err
}

func (s *GormReportStore) FindNotCancelled(ctx context.Context, tx *gorm.DB) ([]models.Report, error) {
	var reports []models.Report
	err := s.withIncludes(ctx, tx).
		Where("status <> ?", models.ReportStatusCancelled).
		Order("created_at DESC").
		Find(&reports).Error
	return reports, err
}

func (s *GormReportStore) FindByOwner(ctx context.Context, tx *gorm.DB, ownerID uuid.UUID) ([]models.Report, error) {
	var reports []models.Report
	err := s.withIncludes(ctx, tx).
		Where("owner_id = ?", ownerID).
		Order("created_at DESC").
		Find(&reports).Error
	return reports, err
}

func (s *GormReportStore) UpdateFields(ctx context.Context, tx *gorm.DB, id uuid.UUID, expectedVersion int64, fields map[string]interface{}) error {
	res := s.session(ctx, tx).
		Model(&models.Report{}).
		Where("id = ? AND version = ?", id, expectedVersion).
		Updates(fields)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrVersionConflict
	}
	return nil
}
