package auth

import (
	"strings"

	"simasosial-backend/internal/apperr"
	"simasosial-backend/internal/models"

	"github.com/gofiber/fiber/v2"
)

const (
	CtxUserIDKey   = "user_id"
	CtxUserNameKey = "user_name"
	CtxUserRoleKey = "user_role"
)

const (
	msgTokenMissing = "Akses ditolak. Token tidak ada."
	msgTokenInvalid = "Token tidak valid."
	msgAdminOnly    = "Akses ditolak. Hanya untuk admin."
)

// Identity is what a verified token asserts about the caller. Handlers trust
// it as-is; the role is not re-read from the database.
type Identity struct {
	UserID uint
	Nama   string
	Role   models.UserRole
}

// JWTMiddleware takes the second whitespace-separated field of the
// Authorization header as the token. No token is 401, any verification
// failure is 403.
func JWTMiddleware(tokens *TokenIssuer) fiber.Handler {
	return func(c *fiber.Ctx) error {
		fields := strings.Fields(c.Get(fiber.HeaderAuthorization))
		if len(fields) < 2 {
			return apperr.Auth(fiber.StatusUnauthorized, msgTokenMissing)
		}

		claims, err := tokens.ParseToken(fields[1])
		if err != nil {
			return apperr.Auth(fiber.StatusForbidden, msgTokenInvalid)
		}

		c.Locals(CtxUserIDKey, claims.UserID)
		c.Locals(CtxUserNameKey, claims.Nama)
		c.Locals(CtxUserRoleKey, claims.Role)

		return c.Next()
	}
}

// RequireRole runs after JWTMiddleware.
func RequireRole(allowedRoles ...models.UserRole) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, ok := CurrentIdentity(c)
		if !ok {
			return apperr.Auth(fiber.StatusUnauthorized, msgTokenMissing)
		}
		if !HasRole(id, allowedRoles...) {
			return apperr.Authorization(msgAdminOnly)
		}
		return c.Next()
	}
}

// HasRole is the allow/deny predicate behind RequireRole.
func HasRole(id Identity, allowedRoles ...models.UserRole) bool {
	for _, r := range allowedRoles {
		if r == id.Role {
			return true
		}
	}
	return false
}

func CurrentIdentity(c *fiber.Ctx) (Identity, bool) {
	userID, ok := c.Locals(CtxUserIDKey).(uint)
	if !ok {
		return Identity{}, false
	}
	role, _ := c.Locals(CtxUserRoleKey).(models.UserRole)
	nama, _ := c.Locals(CtxUserNameKey).(string)
	return Identity{UserID: userID, Nama: nama, Role: role}, true
}

// MustIdentity is for handlers mounted behind JWTMiddleware.
func MustIdentity(c *fiber.Ctx) (Identity, error) {
	id, ok := CurrentIdentity(c)
	if !ok {
		return Identity{}, apperr.Auth(fiber.StatusUnauthorized, msgTokenMissing)
	}
	return id, nil
}
