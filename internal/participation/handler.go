package participation

import (
	"simasosial-backend/internal/activity"
	"simasosial-backend/internal/apperr"
	"simasosial-backend/internal/auth"

	"github.com/gofiber/fiber/v2"
)

const msgBadBody = "Format permintaan tidak valid."

type DonationInput struct {
	Jumlah float64 `json:"jumlah"`
}

// POST /api/activities/:id/registrations
func JoinHandler(svc *Service) fiber.Handler {
	return func(c *fiber.Ctx) error {
		who, err := auth.MustIdentity(c)
		if err != nil {
			return err
		}
		id, err := activity.ParseID(c)
		if err != nil {
			return err
		}

		reg, err := svc.Join(c.UserContext(), who, id)
		if err != nil {
			return err
		}
		return c.Status(fiber.StatusCreated).JSON(fiber.Map{
			"message":        "Pendaftaran kegiatan berhasil!",
			"registrationId": reg.ID,
		})
	}
}

// POST /api/activities/:id/donations  {"jumlah": 50000}
func DonateHandler(svc *Service) fiber.Handler {
	return func(c *fiber.Ctx) error {
		who, err := auth.MustIdentity(c)
		if err != nil {
			return err
		}
		id, err := activity.ParseID(c)
		if err != nil {
			return err
		}

		var body DonationInput
		if err := c.BodyParser(&body); err != nil {
			return apperr.Validation(msgBadBody)
		}

		d, err := svc.Donate(c.UserContext(), who, id, body.Jumlah)
		if err != nil {
			return err
		}
		return c.Status(fiber.StatusCreated).JSON(fiber.Map{
			"message":    "Donasi berhasil dicatat!",
			"donationId": d.ID,
		})
	}
}
