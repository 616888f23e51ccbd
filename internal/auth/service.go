package auth

import (
	"context"
	"errors"
	"strings"

	"simasosial-backend/internal/apperr"
	"simasosial-backend/internal/database"
	"simasosial-backend/internal/models"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

const (
	msgRegisterRequired = "Email, password, nama, dan NIM wajib diisi."
	msgRegisterDup      = "Email atau NIM sudah terdaftar."
	msgRegisterFailed   = "Gagal mendaftar, terjadi kesalahan server."
	msgPasswordTooLong  = "Password terlalu panjang (maksimal 72 byte)."
	msgLoginRequired    = "Email dan password wajib diisi."
	msgBadCredentials   = "Email atau password salah."
	msgLoginFailed      = "Kesalahan server database."
	msgTokenFailed      = "Kesalahan server saat login."
)

type UserRepository interface {
	CreateUser(ctx context.Context, u *models.User) error
	FindUserByEmail(ctx context.Context, email string) (*models.User, error)
	CountByRole(ctx context.Context, role models.UserRole) (int64, error)
	UpdateRole(ctx context.Context, id uint, role models.UserRole) (int64, error)
}

type Service struct {
	users  UserRepository
	tokens *TokenIssuer
	log    *zap.Logger
}

func NewService(users UserRepository, tokens *TokenIssuer, log *zap.Logger) *Service {
	return &Service{users: users, tokens: tokens, log: log}
}

type RegisterInput struct {
	Nama     string `json:"nama"`
	NIM      string `json:"nim"`
	Jurusan  string `json:"jurusan"`
	Telepon  string `json:"telepon"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

type LoginInput struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type LoginResult struct {
	Token string          `json:"token"`
	Role  models.UserRole `json:"role"`
}

// Cohort derives the enrollment year from the first two characters of a
// NIM: "22010099" -> "2022". NIMs shorter than two characters have none.
func Cohort(nim string) *string {
	r := []rune(nim)
	if len(r) < 2 {
		return nil
	}
	angkatan := "20" + string(r[:2])
	return &angkatan
}

func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func (s *Service) Register(ctx context.Context, in RegisterInput) (*models.User, error) {
	in.Nama = strings.TrimSpace(in.Nama)
	in.NIM = strings.TrimSpace(in.NIM)
	in.Email = NormalizeEmail(in.Email)

	if in.Nama == "" || in.NIM == "" || in.Email == "" || in.Password == "" {
		return nil, apperr.Validation(msgRegisterRequired)
	}

	hash, err := HashPassword(in.Password)
	if err != nil {
		if errors.Is(err, bcrypt.ErrPasswordTooLong) {
			return nil, apperr.Validation(msgPasswordTooLong)
		}
		return nil, apperr.Server(msgRegisterFailed, err)
	}

	user := &models.User{
		NamaLengkap: in.Nama,
		NIM:         in.NIM,
		Jurusan:     strings.TrimSpace(in.Jurusan),
		Angkatan:    Cohort(in.NIM),
		NoTelepon:   strings.TrimSpace(in.Telepon),
		Email:       in.Email,
		Password:    hash,
		Role:        models.RoleMahasiswa,
	}

	if err := s.users.CreateUser(ctx, user); err != nil {
		if errors.Is(err, database.ErrDuplicate) {
			return nil, apperr.Duplicate(msgRegisterDup)
		}
		return nil, apperr.Server(msgRegisterFailed, err)
	}

	s.log.Info("user registered", zap.Uint("user_id", user.ID))
	return user, nil
}

// Login answers unknown email and wrong password identically.
func (s *Service) Login(ctx context.Context, in LoginInput) (*LoginResult, error) {
	in.Email = NormalizeEmail(in.Email)
	if in.Email == "" || in.Password == "" {
		return nil, apperr.Validation(msgLoginRequired)
	}

	user, err := s.users.FindUserByEmail(ctx, in.Email)
	if err != nil {
		if errors.Is(err, database.ErrNotFound) {
			return nil, apperr.Auth(fiber.StatusUnauthorized, msgBadCredentials)
		}
		return nil, apperr.Server(msgLoginFailed, err)
	}

	if !CheckPassword(user.Password, in.Password) {
		return nil, apperr.Auth(fiber.StatusUnauthorized, msgBadCredentials)
	}

	token, err := s.tokens.GenerateToken(user)
	if err != nil {
		return nil, apperr.Server(msgTokenFailed, err)
	}

	return &LoginResult{Token: token, Role: user.Role}, nil
}

// EnsureAdmin promotes the account registered under email when no admin
// exists yet. Without it the first admin could never be created, since roles
// are only changed by admins.
func (s *Service) EnsureAdmin(ctx context.Context, email string) error {
	email = NormalizeEmail(email)
	if email == "" {
		return nil
	}

	count, err := s.users.CountByRole(ctx, models.RoleAdmin)
	if err != nil {
		return err
	}
	if count > 0 {
		return nil
	}

	user, err := s.users.FindUserByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, database.ErrNotFound) {
			s.log.Warn("ADMIN_EMAIL has no registered account yet", zap.String("email", email))
			return nil
		}
		return err
	}

	if _, err := s.users.UpdateRole(ctx, user.ID, models.RoleAdmin); err != nil {
		return err
	}
	s.log.Info("bootstrap admin promoted", zap.Uint("user_id", user.ID))
	return nil
}
