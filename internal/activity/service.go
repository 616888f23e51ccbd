package activity

import (
	"context"
	"errors"
	"fmt"
	"math"
	"mime/multipart"
	"strconv"
	"strings"
	"time"

	"simasosial-backend/internal/apperr"
	"simasosial-backend/internal/audit"
	"simasosial-backend/internal/auth"
	"simasosial-backend/internal/database"
	"simasosial-backend/internal/models"
	"simasosial-backend/internal/upload"

	"go.uber.org/zap"
)

const (
	msgRequired       = "Judul, Tipe, dan Tanggal Mulai wajib diisi."
	msgBadDate        = "Format tanggal mulai tidak valid."
	msgBadTarget      = "Target harus berupa angka positif."
	msgNotFound       = "Kegiatan tidak ditemukan."
	msgCreateFailed   = "Gagal menyimpan kegiatan ke database."
	msgUpdateFailed   = "Gagal mengupdate kegiatan."
	msgDeleteFailed   = "Gagal menghapus kegiatan."
	msgUploadFailed   = "Gagal menyimpan gambar kegiatan."
	msgNotImage       = "File gambar harus berupa JPG, PNG, GIF, atau WEBP."
	msgDatabaseFailed = "Kesalahan server database."
)

const entityType = "activity"

// Purger is the transactional view used by Delete. Every call runs inside
// the same database transaction.
type Purger interface {
	DeleteRegistrations(ctx context.Context, activityID uint) (int64, error)
	DeleteDonations(ctx context.Context, activityID uint) (int64, error)
	// ImageRef returns database.ErrNotFound when the activity does not exist.
	ImageRef(ctx context.Context, activityID uint) (*string, error)
	DeleteActivity(ctx context.Context, activityID uint) (int64, error)
}

type Repository interface {
	Create(ctx context.Context, a *models.Activity) error
	// Update writes the editable columns of a; gambar_url only when withImage.
	Update(ctx context.Context, a *models.Activity, withImage bool) (int64, error)
	FindByID(ctx context.Context, id uint) (*models.Activity, error)
	List(ctx context.Context) ([]models.Activity, error)
	ListPublished(ctx context.Context) ([]models.Activity, error)
	Summaries(ctx context.Context) ([]Summary, error)
	InTx(ctx context.Context, fn func(Purger) error) error
}

type FileStore interface {
	Save(fh *multipart.FileHeader) (string, error)
	Remove(ref string) error
}

type Auditor interface {
	Record(ctx context.Context, opts audit.LogOptions)
}

// Summary is an activity with its participation totals, used by the export.
type Summary struct {
	models.Activity
	JumlahPeserta int64   `json:"jumlah_peserta"`
	TotalDonasi   float64 `json:"total_donasi"`
}

// Input is the raw form submitted by the admin panel. Targets arrive as
// strings and are parsed according to Tipe.
type Input struct {
	Judul         string
	Tipe          string
	Deskripsi     string
	Lokasi        string
	TanggalMulai  string
	TargetDonasi  string
	TargetPeserta string
	Gambar        *multipart.FileHeader
}

// DeleteResult reports how many dependent rows went with the activity.
type DeleteResult struct {
	Registrations int64
	Donations     int64
}

type Service struct {
	repo  Repository
	files FileStore
	audit Auditor
	log   *zap.Logger
}

func NewService(repo Repository, files FileStore, auditor Auditor, log *zap.Logger) *Service {
	return &Service{repo: repo, files: files, audit: auditor, log: log}
}

func (s *Service) Get(ctx context.Context, id uint) (*models.Activity, error) {
	a, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, database.ErrNotFound) {
			return nil, apperr.NotFound(msgNotFound)
		}
		return nil, apperr.Server(msgDatabaseFailed, err)
	}
	return a, nil
}

func (s *Service) List(ctx context.Context) ([]models.Activity, error) {
	list, err := s.repo.List(ctx)
	if err != nil {
		return nil, apperr.Server(msgDatabaseFailed, err)
	}
	return list, nil
}

func (s *Service) ListPublished(ctx context.Context) ([]models.Activity, error) {
	list, err := s.repo.ListPublished(ctx)
	if err != nil {
		return nil, apperr.Server(msgDatabaseFailed, err)
	}
	return list, nil
}

func (s *Service) Summaries(ctx context.Context) ([]Summary, error) {
	rows, err := s.repo.Summaries(ctx)
	if err != nil {
		return nil, apperr.Server(msgDatabaseFailed, err)
	}
	return rows, nil
}

func (s *Service) saveImage(fh *multipart.FileHeader) (string, error) {
	ref, err := s.files.Save(fh)
	if err != nil {
		if errors.Is(err, upload.ErrNotImage) {
			return "", apperr.Validation(msgNotImage)
		}
		return "", apperr.Server(msgUploadFailed, err)
	}
	return ref, nil
}

func (s *Service) Create(ctx context.Context, actor auth.Identity, in Input) (*models.Activity, error) {
	a, err := parseInput(in)
	if err != nil {
		return nil, err
	}
	a.Status = models.ActivityStatusPublished

	if in.Gambar != nil {
		ref, err := s.saveImage(in.Gambar)
		if err != nil {
			return nil, err
		}
		a.GambarURL = &ref
	}

	if err := s.repo.Create(ctx, a); err != nil {
		s.discard(a.GambarURL)
		return nil, apperr.Server(msgCreateFailed, err)
	}

	s.audit.Record(ctx, audit.LogOptions{
		UserID:      actor.UserID,
		UserName:    actor.Nama,
		EntityType:  entityType,
		EntityID:    a.ID,
		Action:      models.AuditActionCreate,
		Description: fmt.Sprintf("Kegiatan ditambahkan: %s", a.Judul),
		After:       a,
	})
	return a, nil
}

// Update overwrites the text fields and targets. The stored image is only
// replaced when a new file is supplied; the old file is then removed.
func (s *Service) Update(ctx context.Context, actor auth.Identity, id uint, in Input) (*models.Activity, error) {
	a, err := parseInput(in)
	if err != nil {
		return nil, err
	}

	before, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, database.ErrNotFound) {
			return nil, apperr.NotFound(msgNotFound)
		}
		return nil, apperr.Server(msgUpdateFailed, err)
	}

	a.ID = id
	a.Status = before.Status
	a.CreatedAt = before.CreatedAt
	a.GambarURL = before.GambarURL

	withImage := in.Gambar != nil
	if withImage {
		ref, err := s.saveImage(in.Gambar)
		if err != nil {
			return nil, err
		}
		a.GambarURL = &ref
	}

	n, err := s.repo.Update(ctx, a, withImage)
	if err != nil || n == 0 {
		if withImage {
			s.discard(a.GambarURL)
		}
		if err != nil {
			return nil, apperr.Server(msgUpdateFailed, err)
		}
		return nil, apperr.NotFound(msgNotFound)
	}

	if withImage {
		s.discard(before.GambarURL)
	}

	s.audit.Record(ctx, audit.LogOptions{
		UserID:      actor.UserID,
		UserName:    actor.Nama,
		EntityType:  entityType,
		EntityID:    id,
		Action:      models.AuditActionUpdate,
		Description: fmt.Sprintf("Kegiatan diperbarui: %s", a.Judul),
		Before:      before,
		After:       a,
	})
	return a, nil
}

// Delete removes the activity together with its registrations and donations
// in one transaction. The image file is removed after commit; a failure
// there is logged and does not fail the call.
func (s *Service) Delete(ctx context.Context, actor auth.Identity, id uint) (*DeleteResult, error) {
	var (
		res DeleteResult
		ref *string
	)

	err := s.repo.InTx(ctx, func(tx Purger) error {
		var err error
		if res.Registrations, err = tx.DeleteRegistrations(ctx, id); err != nil {
			return fmt.Errorf("delete registrations: %w", err)
		}
		if res.Donations, err = tx.DeleteDonations(ctx, id); err != nil {
			return fmt.Errorf("delete donations: %w", err)
		}
		if ref, err = tx.ImageRef(ctx, id); err != nil {
			return err
		}
		n, err := tx.DeleteActivity(ctx, id)
		if err != nil {
			return fmt.Errorf("delete activity: %w", err)
		}
		if n == 0 {
			return database.ErrNotFound
		}
		return nil
	})
	if err != nil {
		if errors.Is(err, database.ErrNotFound) {
			return nil, apperr.NotFound(msgNotFound)
		}
		return nil, apperr.Server(msgDeleteFailed, err)
	}

	s.discard(ref)

	s.audit.Record(ctx, audit.LogOptions{
		UserID:      actor.UserID,
		UserName:    actor.Nama,
		EntityType:  entityType,
		EntityID:    id,
		Action:      models.AuditActionDelete,
		Description: fmt.Sprintf("Kegiatan dihapus (%d pendaftaran, %d donasi)", res.Registrations, res.Donations),
		Before: map[string]any{
			"id":            id,
			"gambar_url":    ref,
			"registrations": res.Registrations,
			"donations":     res.Donations,
		},
	})
	return &res, nil
}

// discard removes an image best-effort.
func (s *Service) discard(ref *string) {
	if ref == nil || *ref == "" {
		return
	}
	if err := s.files.Remove(*ref); err != nil {
		s.log.Warn("activity image not removed", zap.String("ref", *ref), zap.Error(err))
	}
}

// parseInput validates the required fields and keeps only the target that
// applies to the activity type; the other one is stored as zero.
func parseInput(in Input) (*models.Activity, error) {
	judul := strings.TrimSpace(in.Judul)
	tipe := strings.TrimSpace(in.Tipe)
	tanggal := strings.TrimSpace(in.TanggalMulai)
	if judul == "" || tipe == "" || tanggal == "" {
		return nil, apperr.Validation(msgRequired)
	}

	start, err := ParseDate(tanggal)
	if err != nil {
		return nil, apperr.Validation(msgBadDate)
	}

	a := &models.Activity{
		Judul:        judul,
		Tipe:         models.ActivityType(tipe),
		Deskripsi:    optional(in.Deskripsi),
		Lokasi:       optional(in.Lokasi),
		TanggalMulai: start,
	}

	switch a.Tipe {
	case models.ActivityDonasi:
		if a.TargetDonasi, err = parseAmount(in.TargetDonasi); err != nil {
			return nil, err
		}
	case models.ActivityVolunteer:
		if a.TargetPeserta, err = parseCount(in.TargetPeserta); err != nil {
			return nil, err
		}
	}
	return a, nil
}

// ParseDate accepts "2006-01-02" as sent by date inputs, or a full RFC 3339
// timestamp.
func ParseDate(v string) (time.Time, error) {
	if t, err := time.Parse(time.DateOnly, v); err == nil {
		return t, nil
	}
	return time.Parse(time.RFC3339, v)
}

func parseAmount(v string) (float64, error) {
	v = strings.TrimSpace(v)
	if v == "" {
		return 0, nil
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil || f < 0 || math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, apperr.Validation(msgBadTarget)
	}
	return f, nil
}

func parseCount(v string) (int, error) {
	v = strings.TrimSpace(v)
	if v == "" {
		return 0, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil || n < 0 {
		return 0, apperr.Validation(msgBadTarget)
	}
	return n, nil
}

func optional(v string) *string {
	v = strings.TrimSpace(v)
	if v == "" {
		return nil
	}
	return &v
}
