package audit

import (
	"context"

	"simasosial-backend/internal/apperr"
	"simasosial-backend/internal/models"

	"github.com/gofiber/fiber/v2"
)

type AuditLogResponse struct {
	ID          uint               `json:"id"`
	CreatedAt   string             `json:"created_at"`
	UserID      uint               `json:"user_id"`
	UserName    string             `json:"user_name"`
	EntityType  string             `json:"entity_type"`
	EntityID    uint               `json:"entity_id"`
	Action      models.AuditAction `json:"action"`
	Description string             `json:"description"`
}

type Lister interface {
	List(ctx context.Context, f Filter) ([]models.AuditLog, error)
}

// GET /api/admin/audit-logs?entity_type=activity&entity_id=1&user_id=2
func ListAuditLogsHandler(svc Lister) fiber.Handler {
	return func(c *fiber.Ctx) error {
		f := Filter{
			EntityType: c.Query("entity_type"),
			EntityID:   queryUint(c, "entity_id"),
			UserID:     queryUint(c, "user_id"),
			Limit:      c.QueryInt("limit", maxListLimit),
		}

		logs, err := svc.List(c.UserContext(), f)
		if err != nil {
			return apperr.Server("Log audit tidak dapat dimuat.", err)
		}

		resp := make([]AuditLogResponse, 0, len(logs))
		for _, l := range logs {
			resp = append(resp, AuditLogResponse{
				ID:          l.ID,
				CreatedAt:   l.CreatedAt.Format("2006-01-02 15:04:05"),
				UserID:      l.UserID,
				UserName:    l.UserName,
				EntityType:  l.EntityType,
				EntityID:    l.EntityID,
				Action:      l.Action,
				Description: l.Description,
			})
		}
		return c.JSON(resp)
	}
}

func queryUint(c *fiber.Ctx, key string) uint {
	if v := c.QueryInt(key, 0); v > 0 {
		return uint(v)
	}
	return 0
}
