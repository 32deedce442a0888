// Package config assembles the process configuration from .env and the environment.
package config

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"

	"suggestion_box/internal/platform/audit"
	"suggestion_box/internal/platform/db"
	jwtmw "suggestion_box/internal/platform/jwt"
	"suggestion_box/internal/platform/redis"
)

// ErrMissingSecret is returned when SECRET_KEY is unset.
var ErrMissingSecret = errors.New("SECRET_KEY is not set")

// Config is built once at startup and only read afterwards.
type Config struct {
	HTTPAddr      string
	LogLevel      slog.Level
	Token         jwtmw.Config
	DB            db.Config
	RunMigrations bool
	Redis         redis.Config
	// AuditRedisTimeout bounds each push to the Redis security event mirror.
	AuditRedisTimeout time.Duration
}

// Load reads .env if present and then the environment.
func Load() (Config, error) {
	if err := godotenv.Load(".env"); err != nil {
		slog.Info(".env not found; using system environment variables")
	}
	return FromEnv()
}

// FromEnv validates and returns the configuration held in the environment.
func FromEnv() (Config, error) {
	cfg := Config{
		HTTPAddr:          getenv("HTTP_ADDR", ":8080"),
		DB:                db.LoadConfigFromEnv(),
		Redis:             redis.LoadConfigFromEnv(),
		AuditRedisTimeout: audit.DefaultRedisPushTimeout,
	}

	secret := os.Getenv("SECRET_KEY")
	if secret == "" {
		return Config{}, ErrMissingSecret
	}
	if len(secret) < jwtmw.MinSecretLength {
		return Config{}, fmt.Errorf("SECRET_KEY must be at least %d bytes", jwtmw.MinSecretLength)
	}
	cfg.Token.Secret = secret

	alg := strings.ToUpper(getenv("ALGORITHM", "HS256"))
	switch alg {
	case "HS256", "HS384", "HS512":
		cfg.Token.Algorithm = alg
	default:
		return Config{}, fmt.Errorf("ALGORITHM must be HS256, HS384 or HS512, got %q", alg)
	}

	minutes, err := strconv.Atoi(getenv("ACCESS_TOKEN_EXPIRE_MINUTES", "30"))
	if err != nil || minutes <= 0 {
		return Config{}, fmt.Errorf("ACCESS_TOKEN_EXPIRE_MINUTES must be a positive integer")
	}
	cfg.Token.TTL = time.Duration(minutes) * time.Minute

	switch cfg.DB.Driver {
	case db.DriverPostgres, db.DriverSQLite:
	default:
		return Config{}, fmt.Errorf("DB_DRIVER must be %q or %q, got %q", db.DriverPostgres, db.DriverSQLite, cfg.DB.Driver)
	}

	cfg.RunMigrations, err = strconv.ParseBool(getenv("RUN_MIGRATIONS", "true"))
	if err != nil {
		return Config{}, fmt.Errorf("RUN_MIGRATIONS: %w", err)
	}

	if v := os.Getenv("AUDIT_REDIS_TIMEOUT_MS"); v != "" {
		ms, err := strconv.Atoi(v)
		if err != nil || ms <= 0 {
			return Config{}, fmt.Errorf("AUDIT_REDIS_TIMEOUT_MS must be a positive integer")
		}
		cfg.AuditRedisTimeout = time.Duration(ms) * time.Millisecond
	}

	if err := cfg.LogLevel.UnmarshalText([]byte(getenv("LOG_LEVEL", "info"))); err != nil {
		return Config{}, fmt.Errorf("LOG_LEVEL: %w", err)
	}

	return cfg, nil
}

func getenv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
