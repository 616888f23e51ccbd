package models

import "time"

type ActivityType string

const (
	ActivityDonasi    ActivityType = "donasi"
	ActivityVolunteer ActivityType = "volunteer"
)

const ActivityStatusPublished = "published"

type Activity struct {
	ID           uint         `gorm:"primaryKey" json:"id"`
	Judul        string       `gorm:"size:255;not null" json:"judul"`
	Tipe         ActivityType `gorm:"size:50;not null;index" json:"tipe"`
	Deskripsi    *string      `gorm:"type:text" json:"deskripsi"`
	Lokasi       *string      `gorm:"size:255" json:"lokasi"`
	TanggalMulai time.Time    `gorm:"type:date;not null" json:"tanggal_mulai"`
	Status       string       `gorm:"size:20;not null;default:'published'" json:"status"`
	// Only meaningful for "donasi"; zero otherwise.
	TargetDonasi float64 `gorm:"type:decimal(15,2);not null;default:0" json:"target_donasi"`
	// Only meaningful for "volunteer"; zero otherwise.
	TargetPeserta int       `gorm:"not null;default:0" json:"target_peserta"`
	GambarURL     *string   `gorm:"size:255" json:"gambar_url"` // relative path, e.g. uploads/1700000000000-poster.jpg
	CreatedAt     time.Time `gorm:"index" json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}
