package models

import "time"

type UserRole string

const (
	RoleAdmin     UserRole = "admin"
	RoleMahasiswa UserRole = "mahasiswa"
)

func (r UserRole) Valid() bool {
	return r == RoleAdmin || r == RoleMahasiswa
}

type User struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	NamaLengkap string    `gorm:"size:100;not null" json:"nama_lengkap"`
	NIM         string    `gorm:"column:nim;size:20;uniqueIndex;not null" json:"nim"`
	Jurusan     string    `gorm:"size:100" json:"jurusan"`
	Angkatan    *string   `gorm:"size:4" json:"angkatan"` // "20" + first two digits of the NIM
	NoTelepon   string    `gorm:"size:20" json:"no_telepon"`
	Email       string    `gorm:"size:100;uniqueIndex;not null" json:"email"`
	Password    string    `gorm:"size:255;not null" json:"-"` // bcrypt hash
	Role        UserRole  `gorm:"size:20;not null;default:'mahasiswa'" json:"role"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}
