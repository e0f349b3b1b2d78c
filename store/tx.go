package store

import (
	"context"

	"gorm.io/gorm"
)

// GormTxManager runs transaction scopes on a gorm handle.
type GormTxManager struct {
	db *gorm.DB
}

func NewGormTxManager(db *gorm.DB) *GormTxManager {
	return &GormTxManager{db: db}
}

// WithTransaction begins a scope, runs fn, and commits. Any error from fn
// (including queries failing because ctx was cancelled) rolls the whole scope
// back before the error is returned, so a cancelled call never half-commits.
func (m *GormTxManager) WithTransaction(ctx context.Context, fn func(tx *gorm.DB) error) error {
	return m.db.WithContext(ctx).Transaction(fn)
}
