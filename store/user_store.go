package store

import (
	"context"

	"gorm.io/gorm"
	"p9e.in/sweep/models"
)

// GormUserStore is the postgres-backed UserStore.
type GormUserStore struct {
	Repository[models.User]
}

func NewUserStore(db *gorm.DB) *GormUserStore {
	return &GormUserStore{Repository: NewRepository[models.User](db)}
}

func (s *GormUserStore) GetByPhone(ctx context.Context, phone string) (*models.User, error) {
	var user models.User
	if err := s.session(ctx, nil).First(&user, "phone = ?", phone).Error; err != nil {
		return nil, translateErr(err)
	}
	return &user, nil
}

func (s *GormUserStore) Add(ctx context.Context, user *models.User) error {
	return s.Repository.Add(ctx, nil, user)
}
