package dashboard

import (
	"simasosial-backend/internal/apperr"
	"simasosial-backend/internal/auth"

	"github.com/gofiber/fiber/v2"
)

const msgDatabaseFailed = "Kesalahan server database."

// GET /api/dashboard-data
func SummaryHandler(svc *Service) fiber.Handler {
	return func(c *fiber.Ctx) error {
		who, err := auth.MustIdentity(c)
		if err != nil {
			return err
		}
		sum, err := svc.Summary(c.UserContext(), who)
		if err != nil {
			return apperr.Server(msgDatabaseFailed, err)
		}
		return c.JSON(sum)
	}
}

// GET /api/my-activities
func MyActivitiesHandler(svc *Service) fiber.Handler {
	return func(c *fiber.Ctx) error {
		who, err := auth.MustIdentity(c)
		if err != nil {
			return err
		}
		list, err := svc.MyActivities(c.UserContext(), who)
		if err != nil {
			return apperr.Server(msgDatabaseFailed, err)
		}
		return c.JSON(list)
	}
}
