package main

import (
	"context"

	"simasosial-backend/internal/activity"
	"simasosial-backend/internal/admin"
	"simasosial-backend/internal/apperr"
	"simasosial-backend/internal/audit"
	"simasosial-backend/internal/auth"
	"simasosial-backend/internal/dashboard"
	"simasosial-backend/internal/database"
	"simasosial-backend/internal/logger"
	"simasosial-backend/internal/models"
	"simasosial-backend/internal/participation"
	"simasosial-backend/internal/upload"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

const bodyLimit = 10 * 1024 * 1024

type services struct {
	tokens        *auth.TokenIssuer
	auth          *auth.Service
	activity      *activity.Service
	participation *participation.Service
	dashboard     *dashboard.Service
	admin         *admin.Service
	audit         *audit.Service
	files         *upload.Store
	ping          func(ctx context.Context) error
}

func newServices(db *gorm.DB, files *upload.Store, tokens *auth.TokenIssuer, log *zap.Logger) services {
	users := auth.NewUserStore(db)
	auditSvc := audit.NewService(db, log)
	return services{
		tokens:        tokens,
		auth:          auth.NewService(users, tokens, log),
		activity:      activity.NewService(activity.NewStore(db), files, auditSvc, log),
		participation: participation.NewService(participation.NewStore(db), log),
		dashboard:     dashboard.NewService(dashboard.NewStore(db)),
		admin:         admin.NewService(users, auditSvc),
		audit:         auditSvc,
		files:         files,
		ping:          func(ctx context.Context) error { return database.Ping(ctx, db) },
	}
}

func newApp(svc services, log *zap.Logger, allowedOrigins string) *fiber.App {
	app := fiber.New(fiber.Config{
		ErrorHandler: apperr.Handler(log),
		BodyLimit:    bodyLimit,
	})

	app.Use(recover.New())
	app.Use(cors.New(cors.Config{
		AllowOrigins: allowedOrigins,
		AllowHeaders: "Origin, Content-Type, Accept, Authorization",
		AllowMethods: "GET,POST,PUT,DELETE,OPTIONS",
	}))
	app.Use(logger.RequestLogger(log))

	app.Static("/"+upload.PublicPrefix, svc.files.Dir())

	app.Get("/", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"message": "Halo! Ini adalah backend SIMASOSIAL FST."})
	})
	app.Get("/healthz", func(c *fiber.Ctx) error {
		if err := svc.ping(c.UserContext()); err != nil {
			return apperr.Server("Database tidak tersedia.", err)
		}
		return c.JSON(fiber.Map{"status": "ok"})
	})

	registerRoutes(app, svc)
	return app
}

// registerRoutes mounts the API. The JWT gate is attached per route rather
// than with Use so unmatched paths still fall through to 404.
func registerRoutes(app *fiber.App, svc services) {
	api := app.Group("/api")
	signedIn := auth.JWTMiddleware(svc.tokens)

	// Public
	api.Post("/register", auth.RegisterHandler(svc.auth))
	api.Post("/login", auth.LoginHandler(svc.auth))
	api.Get("/activities", activity.ListPublishedHandler(svc.activity))
	api.Get("/activities/:id", activity.GetHandler(svc.activity))

	// Signed-in users
	api.Get("/dashboard-data", signedIn, dashboard.SummaryHandler(svc.dashboard))
	api.Get("/my-activities", signedIn, dashboard.MyActivitiesHandler(svc.dashboard))
	api.Post("/activities/:id/registrations", signedIn, participation.JoinHandler(svc.participation))
	api.Post("/activities/:id/donations", signedIn, participation.DonateHandler(svc.participation))

	// Admin
	adminRoutes := api.Group("/admin", signedIn, auth.RequireRole(models.RoleAdmin))
	adminRoutes.Get("/activities", activity.ListHandler(svc.activity))
	adminRoutes.Get("/activities/export", activity.ExportHandler(svc.activity))
	adminRoutes.Post("/activities", activity.CreateHandler(svc.activity))
	adminRoutes.Put("/activities/:id", activity.UpdateHandler(svc.activity))
	adminRoutes.Delete("/activities/:id", activity.DeleteHandler(svc.activity))

	adminRoutes.Get("/users", admin.ListUsersHandler(svc.admin))
	adminRoutes.Put("/users/:id/role", admin.ChangeRoleHandler(svc.admin))
	adminRoutes.Get("/profile", admin.GetProfileHandler(svc.admin))
	adminRoutes.Put("/profile", admin.UpdateProfileHandler(svc.admin))
	adminRoutes.Get("/audit-logs", audit.ListAuditLogsHandler(svc.audit))
}
