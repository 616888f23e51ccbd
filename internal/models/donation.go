package models

import "time"

type Donation struct {
	ID         uint      `gorm:"primaryKey" json:"id"`
	ActivityID uint      `gorm:"not null;index" json:"activity_id"`
	UserID     uint      `gorm:"not null;index" json:"user_id"`
	Jumlah     float64   `gorm:"type:decimal(15,2);not null" json:"jumlah"`
	CreatedAt  time.Time `json:"created_at"`
}
