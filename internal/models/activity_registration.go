package models

import "time"

// ActivityRegistration records a user's participation in an activity.
type ActivityRegistration struct {
	ID         uint      `gorm:"primaryKey" json:"id"`
	ActivityID uint      `gorm:"not null;uniqueIndex:idx_registration_activity_user" json:"activity_id"`
	UserID     uint      `gorm:"not null;uniqueIndex:idx_registration_activity_user;index" json:"user_id"`
	CreatedAt  time.Time `json:"created_at"`
}
