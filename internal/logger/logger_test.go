package logger

import (
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func TestRequestLoggerRecordsFinalStatus(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	app := fiber.New(fiber.Config{
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			return c.Status(fiber.StatusTeapot).JSON(fiber.Map{"message": err.Error()})
		},
	})
	app.Use(RequestLogger(zap.New(core)))
	app.Get("/ok", func(c *fiber.Ctx) error { return c.SendString("ok") })
	app.Get("/fail", func(c *fiber.Ctx) error { return fiber.ErrBadRequest })

	for _, path := range []string{"/ok", "/fail"} {
		if _, err := app.Test(httptest.NewRequest("GET", path, nil)); err != nil {
			t.Fatalf("app.Test(%s): %v", path, err)
		}
	}

	entries := logs.All()
	if len(entries) != 2 {
		t.Fatalf("got %d log entries, want 2", len(entries))
	}
	if got := entries[0].ContextMap()["status"]; got != int64(200) {
		t.Fatalf("ok status = %v", got)
	}
	failed := entries[1]
	if failed.Level != zapcore.InfoLevel || failed.ContextMap()["status"] != int64(fiber.StatusTeapot) {
		t.Fatalf("fail entry = %v %v", failed.Level, failed.ContextMap())
	}
}

func TestNewByEnvironment(t *testing.T) {
	for _, env := range []string{"development", "production"} {
		log, err := New(env)
		if err != nil {
			t.Fatalf("New(%q): %v", env, err)
		}
		dev := log.Core().Enabled(zapcore.DebugLevel)
		if dev != (env == "development") {
			t.Fatalf("New(%q) debug enabled = %v", env, dev)
		}
	}
}
