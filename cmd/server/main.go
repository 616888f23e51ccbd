package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"simasosial-backend/internal/auth"
	"simasosial-backend/internal/config"
	"simasosial-backend/internal/database"
	"simasosial-backend/internal/logger"
	"simasosial-backend/internal/upload"

	"go.uber.org/zap"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	zlog, err := logger.New(cfg.AppEnv)
	if err != nil {
		log.Fatalf("logger: %v", err)
	}
	defer zlog.Sync()

	for _, w := range cfg.Warnings {
		zlog.Warn(w)
	}

	db, err := database.Open(cfg, zlog)
	if err != nil {
		zlog.Fatal("database", zap.Error(err))
	}

	files, err := upload.NewStore(cfg.UploadDir)
	if err != nil {
		zlog.Fatal("upload dir", zap.Error(err))
	}

	svc := newServices(db, files, auth.NewTokenIssuer(cfg.JWTSecret, cfg.TokenTTL), zlog)

	if err := svc.auth.EnsureAdmin(context.Background(), cfg.AdminEmail); err != nil {
		zlog.Error("bootstrap admin", zap.Error(err))
	}

	app := newApp(svc, zlog, cfg.AllowedOrigins())

	go func() {
		quit := make(chan os.Signal, 1)
		signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
		<-quit
		zlog.Info("shutting down")
		if err := app.ShutdownWithTimeout(10 * time.Second); err != nil {
			zlog.Error("shutdown", zap.Error(err))
		}
	}()

	zlog.Info("server listening", zap.String("port", cfg.HTTPPort), zap.String("driver", cfg.DBDriver))
	if err := app.Listen(":" + cfg.HTTPPort); err != nil {
		zlog.Fatal("listen", zap.Error(err))
	}
}
