package admin

import (
	"strconv"

	"simasosial-backend/internal/apperr"
	"simasosial-backend/internal/auth"

	"github.com/gofiber/fiber/v2"
)

const msgBadBody = "Format permintaan tidak valid."

// GET /api/admin/users
func ListUsersHandler(svc *Service) fiber.Handler {
	return func(c *fiber.Ctx) error {
		users, err := svc.ListUsers(c.UserContext())
		if err != nil {
			return err
		}
		return c.JSON(users)
	}
}

// PUT /api/admin/users/:id/role  {"role": "admin"}
func ChangeRoleHandler(svc *Service) fiber.Handler {
	return func(c *fiber.Ctx) error {
		actor, err := auth.MustIdentity(c)
		if err != nil {
			return err
		}

		id, err := strconv.ParseUint(c.Params("id"), 10, 64)
		if err != nil || id == 0 {
			return apperr.NotFound(msgUserNotFound)
		}

		var body RoleInput
		if err := c.BodyParser(&body); err != nil {
			return apperr.Validation(msgBadBody)
		}

		if err := svc.ChangeRole(c.UserContext(), actor, uint(id), body.Role); err != nil {
			return err
		}
		return c.JSON(fiber.Map{"message": "Role pengguna berhasil diperbarui!"})
	}
}

// GET /api/admin/profile
func GetProfileHandler(svc *Service) fiber.Handler {
	return func(c *fiber.Ctx) error {
		actor, err := auth.MustIdentity(c)
		if err != nil {
			return err
		}
		u, err := svc.Profile(c.UserContext(), actor)
		if err != nil {
			return err
		}
		return c.JSON(u)
	}
}

// PUT /api/admin/profile
func UpdateProfileHandler(svc *Service) fiber.Handler {
	return func(c *fiber.Ctx) error {
		actor, err := auth.MustIdentity(c)
		if err != nil {
			return err
		}

		var body ProfileInput
		if err := c.BodyParser(&body); err != nil {
			return apperr.Validation(msgBadBody)
		}

		u, err := svc.UpdateProfile(c.UserContext(), actor, body)
		if err != nil {
			return err
		}
		return c.JSON(fiber.Map{
			"message": "Profil berhasil diperbarui!",
			"user":    u,
		})
	}
}
