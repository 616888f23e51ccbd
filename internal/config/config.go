package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

const (
	DriverPostgres = "postgres"
	DriverMySQL    = "mysql"

	defaultPostgresDSN = "host=localhost user=postgres password=postgres dbname=simasosial_db port=5432 sslmode=disable"
	defaultMySQLDSN    = "root:@tcp(localhost:3306)/simasosial_db?parseTime=true&charset=utf8mb4"
	defaultCORSOrigins = "http://localhost:5173"
)

type Config struct {
	AppEnv      string
	HTTPPort    string
	DBDriver    string
	DatabaseDSN string
	JWTSecret   string
	TokenTTL    time.Duration
	CORSOrigins string
	UploadDir   string // activity images, served under /uploads
	AdminEmail  string

	// Warnings are logged by main once the logger exists.
	Warnings []string
}

// Load reads configuration from the environment. A .env file in the working
// directory is loaded first when present; real environment variables win.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("config: load .env: %w", err)
	}

	cfg := &Config{
		AppEnv:      getEnv("APP_ENV", "development"),
		HTTPPort:    getEnv("HTTP_PORT", "8000"),
		DBDriver:    strings.ToLower(getEnv("DB_DRIVER", DriverPostgres)),
		JWTSecret:   getEnv("JWT_SECRET", ""),
		CORSOrigins: getEnv("CORS_ALLOWED_ORIGINS", defaultCORSOrigins),
		UploadDir:   getEnv("UPLOAD_DIR", "uploads"),
		AdminEmail:  strings.ToLower(strings.TrimSpace(getEnv("ADMIN_EMAIL", ""))),
	}

	switch cfg.DBDriver {
	case DriverPostgres:
		cfg.DatabaseDSN = getEnv("DATABASE_DSN", defaultPostgresDSN)
	case DriverMySQL:
		cfg.DatabaseDSN = getEnv("DATABASE_DSN", defaultMySQLDSN)
	default:
		return nil, fmt.Errorf("config: unsupported DB_DRIVER %q", cfg.DBDriver)
	}

	ttl, err := time.ParseDuration(getEnv("TOKEN_TTL", "1h"))
	if err != nil || ttl <= 0 {
		return nil, fmt.Errorf("config: invalid TOKEN_TTL %q", os.Getenv("TOKEN_TTL"))
	}
	cfg.TokenTTL = ttl

	if cfg.JWTSecret == "" {
		return nil, errors.New("config: JWT_SECRET is required")
	}
	if !cfg.IsDevelopment() && len(cfg.JWTSecret) < 32 {
		return nil, errors.New("config: JWT_SECRET must be at least 32 characters outside development")
	}

	if cfg.DatabaseDSN == defaultPostgresDSN || cfg.DatabaseDSN == defaultMySQLDSN {
		cfg.Warnings = append(cfg.Warnings, "DATABASE_DSN not set, using the local default")
	}
	if cfg.CORSOrigins == defaultCORSOrigins {
		cfg.Warnings = append(cfg.Warnings, "CORS_ALLOWED_ORIGINS not set, allowing "+defaultCORSOrigins)
	}

	return cfg, nil
}

func (c *Config) IsDevelopment() bool {
	return c.AppEnv == "development"
}

// AllowedOrigins returns CORS_ALLOWED_ORIGINS as a trimmed, comma-joined list.
func (c *Config) AllowedOrigins() string {
	origins := strings.Split(c.CORSOrigins, ",")
	for i := range origins {
		origins[i] = strings.TrimSpace(origins[i])
	}
	return strings.Join(origins, ",")
}

func getEnv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}
