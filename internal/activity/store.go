package activity

import (
	"context"
	"time"

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

func (s *Store) Create(ctx context.Context, a *models.Activity) error {
	return database.Classify(s.db.WithContext(ctx).Create(a).Error)
}

func (s *Store) Update(ctx context.Context, a *models.Activity, withImage bool) (int64, error) {
	a.UpdatedAt = time.Now()
	fields := map[string]interface{}{
		"judul":          a.Judul,
		"tipe":           a.Tipe,
		"deskripsi":      a.Deskripsi,
		"lokasi":         a.Lokasi,
		"tanggal_mulai":  a.TanggalMulai,
		"target_donasi":  a.TargetDonasi,
		"target_peserta": a.TargetPeserta,
		"updated_at":     a.UpdatedAt,
	}
	if withImage {
		fields["gambar_url"] = a.GambarURL
	}

	res := s.db.WithContext(ctx).Model(&models.Activity{}).Where("id = ?", a.ID).Updates(fields)
	return res.RowsAffected, database.Classify(res.Error)
}

func (s *Store) FindByID(ctx context.Context, id uint) (*models.Activity, error) {
	var a models.Activity
	if err := s.db.WithContext(ctx).First(&a, "id = ?", id).Error; err != nil {
		return nil, database.Classify(err)
	}
	return &a, nil
}

func (s *Store) List(ctx context.Context) ([]models.Activity, error) {
	var list []models.Activity
	err := s.db.WithContext(ctx).Order("created_at DESC").Find(&list).Error
	return list, err
}

func (s *Store) ListPublished(ctx context.Context) ([]models.Activity, error) {
	var list []models.Activity
	err := s.db.WithContext(ctx).
		Where("status = ?", models.ActivityStatusPublished).
		Order("created_at DESC").
		Find(&list).Error
	return list, err
}

func (s *Store) Summaries(ctx context.Context) ([]Summary, error) {
	var rows []Summary
	err := s.db.WithContext(ctx).Model(&models.Activity{}).
		Select(`activities.*,
			(SELECT COUNT(*) FROM activity_registrations r WHERE r.activity_id = activities.id) AS jumlah_peserta,
			(SELECT COALESCE(SUM(d.jumlah), 0) FROM donations d WHERE d.activity_id = activities.id) AS total_donasi`).
		Order("activities.created_at DESC").
		Scan(&rows).Error
	return rows, err
}

func (s *Store) InTx(ctx context.Context, fn func(Purger) error) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&txPurger{db: tx})
	})
}

type txPurger struct {
	db *gorm.DB
}

func (p *txPurger) DeleteRegistrations(ctx context.Context, activityID uint) (int64, error) {
	res := p.db.WithContext(ctx).Where("activity_id = ?", activityID).Delete(&models.ActivityRegistration{})
	return res.RowsAffected, res.Error
}

func (p *txPurger) DeleteDonations(ctx context.Context, activityID uint) (int64, error) {
	res := p.db.WithContext(ctx).Where("activity_id = ?", activityID).Delete(&models.Donation{})
	return res.RowsAffected, res.Error
}

func (p *txPurger) ImageRef(ctx context.Context, activityID uint) (*string, error) {
	var a models.Activity
	err := p.db.WithContext(ctx).Select("id", "gambar_url").First(&a, "id = ?", activityID).Error
	if err != nil {
		return nil, database.Classify(err)
	}
	return a.GambarURL, nil
}

func (p *txPurger) DeleteActivity(ctx context.Context, activityID uint) (int64, error) {
	res := p.db.WithContext(ctx).Where("id = ?", activityID).Delete(&models.Activity{})
	return res.RowsAffected, res.Error
}
