package dashboard

import (
	"context"

	"simasosial-backend/internal/models"

	"gorm.io/gorm"
)

type Store struct {
	db *gorm.DB
}

func NewStore(db *gorm.DB) *Store {
	return &Store{db: db}
}

func (s *Store) CountRegistrations(ctx context.Context, userID uint) (int64, error) {
	var n int64
	err := s.db.WithContext(ctx).Model(&models.ActivityRegistration{}).
		Where("user_id = ?", userID).
		Count(&n).Error
	return n, err
}

func (s *Store) SumDonations(ctx context.Context, userID uint) (float64, error) {
	var total float64
	err := s.db.WithContext(ctx).Model(&models.Donation{}).
		Where("user_id = ?", userID).
		Select("COALESCE(SUM(jumlah), 0)").
		Scan(&total).Error
	return total, err
}

func (s *Store) RecentActivities(ctx context.Context, userID uint, limit int) ([]RegisteredActivity, error) {
	var rows []RegisteredActivity
	err := s.db.WithContext(ctx).
		Table("activities AS act").
		Select("act.id, act.judul, act.tipe, act.tanggal_mulai").
		Joins("JOIN activity_registrations AS reg ON act.id = reg.activity_id").
		Where("reg.user_id = ?", userID).
		Order("act.tanggal_mulai DESC").
		Limit(limit).
		Scan(&rows).Error
	return rows, err
}
