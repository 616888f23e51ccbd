// Package admin holds user role management and the admin's own profile.
package admin

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"simasosial-backend/internal/apperr"
	"simasosial-backend/internal/audit"
	"simasosial-backend/internal/auth"
	"simasosial-backend/internal/database"
	"simasosial-backend/internal/models"
)

const (
	msgBadRole         = "Role tidak valid. Gunakan 'admin' atau 'mahasiswa'."
	msgSelfRole        = "Anda tidak dapat mengubah role akun Anda sendiri."
	msgUserNotFound    = "Pengguna tidak ditemukan."
	msgRoleFailed      = "Gagal mengubah role pengguna."
	msgProfileRequired = "Nama dan email wajib diisi."
	msgEmailTaken      = "Email sudah digunakan oleh akun lain."
	msgProfileFailed   = "Gagal memperbarui profil."
	msgDatabaseFailed  = "Kesalahan server database."
)

const entityTypeUser = "user"

// UserRepository is satisfied by auth.UserStore.
type UserRepository interface {
	ListUsers(ctx context.Context) ([]models.User, error)
	FindUserByID(ctx context.Context, id uint) (*models.User, error)
	UpdateRole(ctx context.Context, id uint, role models.UserRole) (int64, error)
	UpdateProfile(ctx context.Context, id uint, f auth.ProfileFields) (int64, error)
}

type Auditor interface {
	Record(ctx context.Context, opts audit.LogOptions)
}

type ProfileInput struct {
	Nama    string `json:"nama"`
	Jurusan string `json:"jurusan"`
	Telepon string `json:"telepon"`
	Email   string `json:"email"`
}

type RoleInput struct {
	Role models.UserRole `json:"role"`
}

type Service struct {
	users UserRepository
	audit Auditor
}

func NewService(users UserRepository, auditor Auditor) *Service {
	return &Service{users: users, audit: auditor}
}

func (s *Service) ListUsers(ctx context.Context) ([]models.User, error) {
	users, err := s.users.ListUsers(ctx)
	if err != nil {
		return nil, apperr.Server(msgDatabaseFailed, err)
	}
	if users == nil {
		users = []models.User{}
	}
	return users, nil
}

// ChangeRole sets the role of another account; an admin's own role is
// never changed here.
func (s *Service) ChangeRole(ctx context.Context, actor auth.Identity, targetID uint, role models.UserRole) error {
	if !role.Valid() {
		return apperr.Validation(msgBadRole)
	}
	if targetID == actor.UserID {
		return apperr.Authorization(msgSelfRole)
	}

	target, err := s.users.FindUserByID(ctx, targetID)
	if err != nil {
		if errors.Is(err, database.ErrNotFound) {
			return apperr.NotFound(msgUserNotFound)
		}
		return apperr.Server(msgRoleFailed, err)
	}

	n, err := s.users.UpdateRole(ctx, targetID, role)
	if err != nil {
		return apperr.Server(msgRoleFailed, err)
	}
	if n == 0 {
		return apperr.NotFound(msgUserNotFound)
	}

	s.audit.Record(ctx, audit.LogOptions{
		UserID:      actor.UserID,
		UserName:    actor.Nama,
		EntityType:  entityTypeUser,
		EntityID:    targetID,
		Action:      models.AuditActionRoleChange,
		Description: fmt.Sprintf("Role %s diubah: %s -> %s", target.Email, target.Role, role),
		Before:      map[string]any{"role": target.Role},
		After:       map[string]any{"role": role},
	})
	return nil
}

func (s *Service) Profile(ctx context.Context, actor auth.Identity) (*models.User, error) {
	u, err := s.users.FindUserByID(ctx, actor.UserID)
	if err != nil {
		if errors.Is(err, database.ErrNotFound) {
			return nil, apperr.NotFound(msgUserNotFound)
		}
		return nil, apperr.Server(msgDatabaseFailed, err)
	}
	return u, nil
}

func (s *Service) UpdateProfile(ctx context.Context, actor auth.Identity, in ProfileInput) (*models.User, error) {
	fields := auth.ProfileFields{
		NamaLengkap: strings.TrimSpace(in.Nama),
		Jurusan:     strings.TrimSpace(in.Jurusan),
		NoTelepon:   strings.TrimSpace(in.Telepon),
		Email:       auth.NormalizeEmail(in.Email),
	}
	if fields.NamaLengkap == "" || fields.Email == "" {
		return nil, apperr.Validation(msgProfileRequired)
	}

	before, err := s.Profile(ctx, actor)
	if err != nil {
		return nil, err
	}

	n, err := s.users.UpdateProfile(ctx, actor.UserID, fields)
	if err != nil {
		if errors.Is(err, database.ErrDuplicate) {
			return nil, apperr.Duplicate(msgEmailTaken)
		}
		return nil, apperr.Server(msgProfileFailed, err)
	}
	if n == 0 {
		return nil, apperr.NotFound(msgUserNotFound)
	}

	after := *before
	after.NamaLengkap = fields.NamaLengkap
	after.Jurusan = fields.Jurusan
	after.NoTelepon = fields.NoTelepon
	after.Email = fields.Email

	s.audit.Record(ctx, audit.LogOptions{
		UserID:      actor.UserID,
		UserName:    actor.Nama,
		EntityType:  entityTypeUser,
		EntityID:    actor.UserID,
		Action:      models.AuditActionUpdate,
		Description: "Profil admin diperbarui",
		Before:      before,
		After:       &after,
	})
	return &after, nil
}
