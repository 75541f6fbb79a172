package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config holds everything the API process needs at start.
type Config struct {
	Port           string
	Environment    string
	DBDriver       string
	DBDSN          string
	JWTSecret      string
	JWTTTL         time.Duration
	AllowedOrigins []string
	RateLimitRPS   float64
	RateLimitBurst int
	FCMCredentials string
}

var ErrMissingJWTSecret = errors.New("JWT_SECRET is required")

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

// Load reads .env (if present) and then the process environment.
func Load() (*Config, error) {
	_ = godotenv.Load() // .env is optional outside development

	cfg := &Config{
		Port:           getEnv("PORT", "8080"),
		Environment:    strings.ToLower(getEnv("APP_ENV", "development")),
		DBDriver:       strings.ToLower(getEnv("DB_DRIVER", "mysql")),
		DBDSN:          os.Getenv("DB_DSN"),
		JWTSecret:      os.Getenv("JWT_SECRET"),
		FCMCredentials: os.Getenv("FCM_CREDENTIALS_FILE"),
	}

	if cfg.JWTSecret == "" {
		return nil, ErrMissingJWTSecret
	}

	switch cfg.DBDriver {
	case "mysql", "postgres", "sqlite":
	default:
		return nil, fmt.Errorf("unsupported DB_DRIVER %q", cfg.DBDriver)
	}
	if cfg.DBDSN == "" {
		if cfg.DBDriver != "sqlite" {
			return nil, fmt.Errorf("DB_DSN is required for driver %s", cfg.DBDriver)
		}
		cfg.DBDSN = "dermacare.db"
	}

	ttl, err := time.ParseDuration(getEnv("JWT_TTL", "24h"))
	if err != nil {
		return nil, fmt.Errorf("invalid JWT_TTL: %w", err)
	}
	cfg.JWTTTL = ttl

	rps, err := strconv.ParseFloat(getEnv("RATE_LIMIT_RPS", "5"), 64)
	if err != nil {
		return nil, fmt.Errorf("invalid RATE_LIMIT_RPS: %w", err)
	}
	burst, err := strconv.Atoi(getEnv("RATE_LIMIT_BURST", "10"))
	if err != nil {
		return nil, fmt.Errorf("invalid RATE_LIMIT_BURST: %w", err)
	}
	cfg.RateLimitRPS = rps
	cfg.RateLimitBurst = burst

	for _, o := range strings.Split(getEnv("CORS_ALLOWED_ORIGINS", "http://localhost:5173"), ",") {
		if o = strings.TrimSpace(o); o != "" {
			cfg.AllowedOrigins = append(cfg.AllowedOrigins, o)
		}
	}

	return cfg, nil
}

func (c *Config) IsProduction() bool {
	return c.Environment == "production"
}
