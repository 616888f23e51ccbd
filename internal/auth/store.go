package auth

import (
	"context"

	"simasosial-backend/internal/database"
	"simasosial-backend/internal/models"

	"gorm.io/gorm"
)

// UserStore is the gorm-backed users table. It serves both the auth service
// and admin user management.
type UserStore struct {
	db *gorm.DB
}

func NewUserStore(db *gorm.DB) *UserStore {
	return &UserStore{db: db}
}

func (s *UserStore) CreateUser(ctx context.Context, u *models.User) error {
	return database.Classify(s.db.WithContext(ctx).Create(u).Error)
}

func (s *UserStore) FindUserByEmail(ctx context.Context, email string) (*models.User, error) {
	var u models.User
	if err := s.db.WithContext(ctx).Where("email = ?", email).First(&u).Error; err != nil {
		return nil, database.Classify(err)
	}
	return &u, nil
}

func (s *UserStore) FindUserByID(ctx context.Context, id uint) (*models.User, error) {
	var u models.User
	if err := s.db.WithContext(ctx).First(&u, "id = ?", id).Error; err != nil {
		return nil, database.Classify(err)
	}
	return &u, nil
}

func (s *UserStore) ListUsers(ctx context.Context) ([]models.User, error) {
	var users []models.User
	if err := s.db.WithContext(ctx).Order("created_at DESC").Find(&users).Error; err != nil {
		return nil, err
	}
	return users, nil
}

func (s *UserStore) CountByRole(ctx context.Context, role models.UserRole) (int64, error) {
	var count int64
	err := s.db.WithContext(ctx).Model(&models.User{}).Where("role = ?", role).Count(&count).Error
	return count, err
}

func (s *UserStore) UpdateRole(ctx context.Context, id uint, role models.UserRole) (int64, error) {
	res := s.db.WithContext(ctx).Model(&models.User{}).Where("id = ?", id).Update("role", role)
	return res.RowsAffected, database.Classify(res.Error)
}

// ProfileFields are the self-editable columns of a user.
type ProfileFields struct {
	NamaLengkap string
	Jurusan     string
	NoTelepon   string
	Email       string
}

func (s *UserStore) UpdateProfile(ctx context.Context, id uint, f ProfileFields) (int64, error) {
	res := s.db.WithContext(ctx).Model(&models.User{}).Where("id = ?", id).Updates(map[string]interface{}{
		"nama_lengkap": f.NamaLengkap,
		"jurusan":      f.Jurusan,
		"no_telepon":   f.NoTelepon,
		"email":        f.Email,
	})
	return res.RowsAffected, database.Classify(res.Error)
}
