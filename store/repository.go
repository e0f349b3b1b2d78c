package store

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Repository is the generic row-level CRUD base shared by the typed stores.
type Repository[T any] struct {
	db *gorm.DB
}

// NewRepository creates a repository over the given base handle.
func NewRepository[T any](db *gorm.DB) Repository[T] {
	return Repository[T]{db: db}
}

// session picks the open transaction scope when there is one, otherwise the
// base handle, and binds the request context to it.
func (r Repository[T]) session(ctx context.Context, tx *gorm.DB) *gorm.DB {
	if tx != nil {
		return tx.WithContext(ctx)
	}
	return r.db.WithContext(ctx)
}

func (r Repository[T]) GetByID(ctx context.Context, tx *gorm.DB, id uuid.UUID) (*T, error) {
	var row T
	if err := r.session(ctx, tx).First(&row, "id = ?", id).Error; err != nil {
		return nil, translateErr(err)
	}
	return &row, nil
}

func (r Repository[T]) Find(ctx context.Context, tx *gorm.DB, conds ...interface{}) ([]T, error) {
	var rows []T
	if err := r.session(ctx, tx).Find(&rows, conds...).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

func (r Repository[T]) Add(ctx context.Context, tx *gorm.DB, row *T) error {
	return r.session(ctx, tx).Create(row).Error
}

func (r Repository[T]) Update(ctx context.Context, tx *gorm.DB, row *T) error {
	return r.session(ctx, tx).Save(row).Error
}

// DeleteByID hard-deletes the row and reports how many rows went away, so
// callers can tell a purge from a no-op.
func (r Repository[T]) DeleteByID(ctx context.Context, tx *gorm.DB, id uuid.UUID) (int64, error) {
	var row T
	res := r.session(ctx, tx).Unscoped().Delete(&row, "id = ?", id)
	return res.RowsAffected, res.Error
}
