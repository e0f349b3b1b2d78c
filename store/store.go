// Package store is the persistence boundary: typed row stores over gorm plus
// an explicit transaction scope. Services depend on the interfaces here, so
// tests can swap in in-memory fakes.
package store

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"p9e.in/sweep/models"
)

var (
	// ErrNotFound is the non-exceptional "nothing there" signal. Callers
	// treat it as local control flow, never as a system failure.
	ErrNotFound = errors.New("record not found")

	// ErrVersionConflict rejects a report update whose submitted version no
	// longer matches the persisted row.
	ErrVersionConflict = errors.New("report was modified by another editor")
)

// TxManager opens one transaction scope per aggregate mutation. The scope is
// the tx handle passed to fn, never shared struct state; fn returning an
// error (or panicking, or the context being cancelled) rolls the scope back.
type TxManager interface {
	WithTransaction(ctx context.Context, fn func(tx *gorm.DB) error) error
}

// ReportStore persists report rows. The tx argument is the open transaction
// scope to run in; nil means "outside any scope" and implementations fall
// back to their base handle.
type ReportStore interface {
	// GetByID loads the report with its live (non-cancelled) attachments and
	// owner eagerly included.
	GetByID(ctx context.Context, tx *gorm.DB, id uuid.UUID) (*models.Report, error)
	// GetByIDDetached is a plain existence read: no preloads, fresh session.
	GetByIDDetached(ctx context.Context, tx *gorm.DB, id uuid.UUID) (*models.Report, error)
	FindAll(ctx context.Context, tx *gorm.DB) ([]models.Report, error)
	FindByStatus(ctx context.Context, tx *gorm.DB, status models.ReportStatus) ([]models.Report, error)
	FindNotCancelled(ctx context.Context, tx *gorm.DB) ([]models.Report, error)
	FindByOwner(ctx context.Context, tx *gorm.DB, ownerID uuid.UUID) ([]models.Report, error)
	Add(ctx context.Context, tx *gorm.DB, report *models.Report) error
	// UpdateFields applies the given column updates iff the persisted version
	// still equals expectedVersion; otherwise ErrVersionConflict. The fields
	// map must include the incremented "version".
	UpdateFields(ctx context.Context, tx *gorm.DB, id uuid.UUID, expectedVersion int64, fields map[string]interface{}) error
}

// AttachmentStore persists attachment rows.
type AttachmentStore interface {
	GetByID(ctx context.Context, tx *gorm.DB, id uuid.UUID) (*models.ReportAttachment, error)
	// FindByReportID returns all rows for the parent, cancelled included.
	FindByReportID(ctx context.Context, tx *gorm.DB, reportID uuid.UUID) ([]models.ReportAttachment, error)
	Add(ctx context.Context, tx *gorm.DB, attachment *models.ReportAttachment) error
	Update(ctx context.Context, tx *gorm.DB, attachment *models.ReportAttachment) error
	DeleteByID(ctx context.Context, tx *gorm.DB, id uuid.UUID) (int64, error)
}

// UserStore is the small read surface auth and seeding need.
type UserStore interface {
	GetByPhone(ctx context.Context, phone string) (*models.User, error)
	Add(ctx context.Context, user *models.User) error
}

func translateErr(err error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ErrNotFound
	}
	return err
}
