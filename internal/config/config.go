package config

import (
	"errors"
	"log/slog"
	"os"
	"strconv"
	"time"
)

const defaultJWTSecret = "dev-secret-change-in-production"

var ErrDefaultSecretInProduction = errors.New("JWT_SECRET must be set in production environment")

// Config holds the API server settings.
type Config struct {
	Port            string
	Env             string
	DBDriver        string
	DatabaseDSN     string
	JWTSecret       string
	AccessTokenTTL  time.Duration
	RefreshTokenTTL time.Duration
	AuthRateRPS     float64
	AuthRateBurst   int
}

// Load reads the server configuration from the environment.
func Load() (Config, error) {
	cfg := Config{
		Port:            getEnv("PORT", "8080"),
		Env:             getEnv("ENV", "development"),
		DBDriver:        getEnv("DB_DRIVER", "sqlite"),
		DatabaseDSN:     getEnv("DATABASE_DSN", "file:postboard.db"),
		JWTSecret:       getEnv("JWT_SECRET", defaultJWTSecret),
		AccessTokenTTL:  getEnvDuration("ACCESS_TOKEN_TTL", 15*time.Minute),
		RefreshTokenTTL: getEnvDuration("REFRESH_TOKEN_TTL", 30*24*time.Hour),
		AuthRateRPS:     getEnvFloat("AUTH_RATE_LIMIT_RPS", 5),
		AuthRateBurst:   getEnvInt("AUTH_RATE_LIMIT_BURST", 10),
	}

	if cfg.Env == "production" && cfg.JWTSecret == defaultJWTSecret {
		return Config{}, ErrDefaultSecretInProduction
	}

	return cfg, nil
}

// IsProduction reports whether ENV is "production".
func (c Config) IsProduction() bool { return c.Env == "production" }

// SeedConfig holds the activity generator settings.
type SeedConfig struct {
	BaseURL         string
	Users           int
	MaxPostsPerUser int
	MaxLikesPerUser int
}

// LoadSeed reads the activity generator configuration from the environment.
func LoadSeed() SeedConfig {
	return SeedConfig{
		BaseURL:         getEnv("SEED_BASE_URL", "http://localhost:8080/api/v1"),
		Users:           getEnvInt("SEED_USERS", 10),
		MaxPostsPerUser: getEnvInt("SEED_MAX_POSTS_PER_USER", 5),
		MaxLikesPerUser: getEnvInt("SEED_MAX_LIKES_PER_USER", 10),
	}
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		slog.Warn("invalid integer in environment, using default", "key", key, "value", v, "default", fallback)
		return fallback
	}
	return n
}

func getEnvFloat(key string, fallback float64) float64 {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		slog.Warn("invalid number in environment, using default", "key", key, "value", v, "default", fallback)
		return fallback
	}
	return f
}

func getEnvDuration(key string, fallback time.Duration) time.Duration {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		slog.Warn("invalid duration in environment, using default", "key", key, "value", v, "default", fallback)
		return fallback
	}
	return d
}
