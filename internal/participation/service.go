// Package participation records volunteer registrations and donations made
// by signed-in users.
package participation

import (
	"context"
	"errors"
	"math"

	"simasosial-backend/internal/apperr"
	"simasosial-backend/internal/auth"
	"simasosial-backend/internal/database"
	"simasosial-backend/internal/models"

	"go.uber.org/zap"
)

const (
	msgActivityNotFound = "Kegiatan tidak ditemukan."
	msgAlreadyJoined    = "Anda sudah terdaftar pada kegiatan ini."
	msgJoinFailed       = "Gagal mendaftar kegiatan."
	msgBadAmount        = "Jumlah donasi harus lebih dari 0."
	msgNotDonation      = "Kegiatan ini tidak menerima donasi."
	msgDonateFailed     = "Gagal mencatat donasi."
	msgDatabaseFailed   = "Kesalahan server database."
)

type Repository interface {
	FindActivity(ctx context.Context, id uint) (*models.Activity, error)
	CreateRegistration(ctx context.Context, r *models.ActivityRegistration) error
	CreateDonation(ctx context.Context, d *models.Donation) error
}

type Service struct {
	repo Repository
	log  *zap.Logger
}

func NewService(repo Repository, log *zap.Logger) *Service {
	return &Service{repo: repo, log: log}
}

func (s *Service) activity(ctx context.Context, id uint) (*models.Activity, error) {
	a, err := s.repo.FindActivity(ctx, id)
	if err != nil {
		if errors.Is(err, database.ErrNotFound) {
			return nil, apperr.NotFound(msgActivityNotFound)
		}
		return nil, apperr.Server(msgDatabaseFailed, err)
	}
	return a, nil
}

// Join registers the caller for an activity. A second registration for the
// same pair is rejected by the unique index and reported as a duplicate.
func (s *Service) Join(ctx context.Context, who auth.Identity, activityID uint) (*models.ActivityRegistration, error) {
	if _, err := s.activity(ctx, activityID); err != nil {
		return nil, err
	}

	reg := &models.ActivityRegistration{ActivityID: activityID, UserID: who.UserID}
	if err := s.repo.CreateRegistration(ctx, reg); err != nil {
		if errors.Is(err, database.ErrDuplicate) {
			return nil, apperr.Duplicate(msgAlreadyJoined)
		}
		return nil, apperr.Server(msgJoinFailed, err)
	}

	s.log.Info("activity registration",
		zap.Uint("activity_id", activityID),
		zap.Uint("user_id", who.UserID))
	return reg, nil
}

func (s *Service) Donate(ctx context.Context, who auth.Identity, activityID uint, jumlah float64) (*models.Donation, error) {
	if !(jumlah > 0) || math.IsInf(jumlah, 0) {
		return nil, apperr.Validation(msgBadAmount)
	}

	a, err := s.activity(ctx, activityID)
	if err != nil {
		return nil, err
	}
	if a.Tipe != models.ActivityDonasi {
		return nil, apperr.Validation(msgNotDonation)
	}

	d := &models.Donation{ActivityID: activityID, UserID: who.UserID, Jumlah: jumlah}
	if err := s.repo.CreateDonation(ctx, d); err != nil {
		return nil, apperr.Server(msgDonateFailed, err)
	}

	s.log.Info("donation recorded",
		zap.Uint("activity_id", activityID),
		zap.Uint("user_id", who.UserID),
		zap.Float64("jumlah", jumlah))
	return d, nil
}
