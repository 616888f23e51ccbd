// Package dashboard serves the signed-in user's personal overview.
package dashboard

import (
	"context"
	"fmt"
	"time"

	"simasosial-backend/internal/auth"
	"simasosial-backend/internal/models"
)

// recentLimit is how many registered activities "my activities" shows.
const recentLimit = 5

type RegisteredActivity struct {
	ID           uint                `json:"id"`
	Judul        string              `json:"judul"`
	Tipe         models.ActivityType `json:"tipe"`
	TanggalMulai time.Time           `json:"tanggal_mulai"`
}

// Summary is the dashboard card set. JamKontribusi and Sertifikat have no
// backing table yet and are always zero.
type Summary struct {
	Nama          string  `json:"nama"`
	TotalKegiatan int64   `json:"totalKegiatan"`
	JamKontribusi int     `json:"jamKontribusi"`
	TotalDonasi   float64 `json:"totalDonasi"`
	Sertifikat    int     `json:"sertifikat"`
}

type Repository interface {
	CountRegistrations(ctx context.Context, userID uint) (int64, error)
	SumDonations(ctx context.Context, userID uint) (float64, error)
	RecentActivities(ctx context.Context, userID uint, limit int) ([]RegisteredActivity, error)
}

type Service struct {
	repo Repository
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

func (s *Service) Summary(ctx context.Context, who auth.Identity) (*Summary, error) {
	total, err := s.repo.CountRegistrations(ctx, who.UserID)
	if err != nil {
		return nil, fmt.Errorf("count registrations: %w", err)
	}
	donasi, err := s.repo.SumDonations(ctx, who.UserID)
	if err != nil {
		return nil, fmt.Errorf("sum donations: %w", err)
	}
	return &Summary{
		Nama:          who.Nama,
		TotalKegiatan: total,
		TotalDonasi:   donasi,
	}, nil
}

func (s *Service) MyActivities(ctx context.Context, who auth.Identity) ([]RegisteredActivity, error) {
	list, err := s.repo.RecentActivities(ctx, who.UserID, recentLimit)
	if err != nil {
		return nil, err
	}
	if list == nil {
		list = []RegisteredActivity{}
	}
	return list, nil
}
