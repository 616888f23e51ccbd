package participation

import (
	"context"

	"simasosial-backend/internal/database"
	"simasosial-backend/internal/models"

	"gorm.io/gorm"
)

type Store struct {
	db *gorm.DB
}

func NewStore(db *gorm.DB) *Store {
	return &Store{db: db}
}

func (s *Store) FindActivity(ctx context.Context, id uint) (*models.Activity, error) {
	var a models.Activity
	if err := s.db.WithContext(ctx).Select("id", "tipe", "status").First(&a, "id = ?", id).Error; err != nil {
		return nil, database.Classify(err)
	}
	return &a, nil
}

func (s *Store) CreateRegistration(ctx context.Context, r *models.ActivityRegistration) error {
	return database.Classify(s.db.WithContext(ctx).Create(r).Error)
}

func (s *Store) CreateDonation(ctx context.Context, d *models.Donation) error {
	return database.Classify(s.db.WithContext(ctx).Create(d).Error)
}
