package auth

import (
	"simasosial-backend/internal/apperr"

	"github.com/gofiber/fiber/v2"
)

const msgBadBody = "Format permintaan tidak valid."

// POST /api/register
func RegisterHandler(svc *Service) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var body RegisterInput
		if err := c.BodyParser(&body); err != nil {
			return apperr.Validation(msgBadBody)
		}

		if _, err := svc.Register(c.UserContext(), body); err != nil {
			return err
		}

		return c.Status(fiber.StatusCreated).JSON(fiber.Map{
			"message": "Registrasi berhasil!",
		})
	}
}

// POST /api/login
func LoginHandler(svc *Service) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var body LoginInput
		if err := c.BodyParser(&body); err != nil {
			return apperr.Validation(msgBadBody)
		}

		res, err := svc.Login(c.UserContext(), body)
		if err != nil {
			return err
		}

		return c.JSON(fiber.Map{
			"message": "Login berhasil!",
			"token":   res.Token,
			"role":    res.Role,
		})
	}
}
