// Package config builds runtime configuration from the environment so main
// stays lean.
package config

import (
	"os"
	"strconv"
	"time"
)

// Config captures everything the server needs at startup.
type Config struct {
	Addr        string
	MetricsAddr string

	// DatabaseURL empty means in-memory stores (local development).
	DatabaseURL string
	// RedisURL empty means the in-process lockout counter.
	RedisURL string

	JWTSigningKey  string
	JWTIssuer      string
	JWTAudience    string
	AccessTokenTTL time.Duration

	BcryptCost         int
	LockoutMaxFailures int64
	LockoutWindow      time.Duration

	ShutdownTimeout time.Duration
}

// FromEnv builds a Config from environment variables with development
// defaults.
func FromEnv() Config {
	jwtSigningKey := os.Getenv("JWT_SIGNING_KEY")
	if jwtSigningKey == "" {
		// Use a default for development - should be overridden in production
		jwtSigningKey = "dev-secret-key-change-in-production"
	}

	return Config{
		Addr:               envString("TAXFILL_ADDR", ":8080"),
		MetricsAddr:        envString("TAXFILL_METRICS_ADDR", ":9090"),
		DatabaseURL:        os.Getenv("DATABASE_URL"),
		RedisURL:           os.Getenv("REDIS_URL"),
		JWTSigningKey:      jwtSigningKey,
		JWTIssuer:          envString("TAXFILL_JWT_ISSUER", "taxfill"),
		JWTAudience:        envString("TAXFILL_JWT_AUDIENCE", "taxfill-api"),
		AccessTokenTTL:     envDuration("TAXFILL_ACCESS_TOKEN_TTL", time.Hour),
		BcryptCost:         envInt("TAXFILL_BCRYPT_COST", 12),
		LockoutMaxFailures: int64(envInt("TAXFILL_LOCKOUT_MAX_FAILURES", 5)),
		LockoutWindow:      envDuration("TAXFILL_LOCKOUT_WINDOW", 15*time.Minute),
		ShutdownTimeout:    envDuration("TAXFILL_SHUTDOWN_TIMEOUT", 10*time.Second),
	}
}

func envString(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return fallback
}

func envDuration(key string, fallback time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return fallback
}
