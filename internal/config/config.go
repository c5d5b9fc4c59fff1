package config

import (
	"log/slog"
	"os"
	"time"
)

const defaultJWTSecret = "dev-secret-change-in-production"

type Config struct {
	Port         string
	Env          string
	DatabasePath string
	JWTSecret    string
	JWTExpiry    time.Duration
}

func Load() Config {
	cfg := Config{
		Port:         getEnv("PORT", "8080"),
		Env:          getEnv("ENV", "development"),
		DatabasePath: getEnv("DATABASE_PATH", "data/growthboard.db"),
		JWTSecret:    getEnv("JWT_SECRET", defaultJWTSecret),
		JWTExpiry:    24 * time.Hour,
	}

	// The token service must keep working on the fallback secret; running
	// production on it is a deployment mistake worth shouting about, not a
	// reason to refuse to start.
	if cfg.IsProduction() && cfg.JWTSecret == defaultJWTSecret {
		slog.Warn("JWT_SECRET not set in production, using default secret")
	}

	return cfg
}

// IsProduction reports whether the process runs in a production-designated environment.
func (c Config) IsProduction() bool {
	return c.Env == "production"
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
