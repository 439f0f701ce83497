package config

import (
	"log"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

type Config struct {
	Port          string
	CORSOrigin    string
	JWTSecret     string
	SessionTTLHrs int
	SecureCookies bool
}

// Load reads configuration from a .env file (if present) and
// environment variables, applying defaults when values are missing.
func Load() Config {
	// Ignore error so the app still starts when .env is absent in production.
	_ = godotenv.Load()

	return Config{
		Port:          envOr("PORT", "8080"),
		CORSOrigin:    envOr("CORS_ORIGIN", "*"),
		JWTSecret:     envOr("JWT_SECRET", "mathhero-dev-signing-key"),
		SessionTTLHrs: envIntOr("SESSION_TTL_HOURS", 24*7),
		SecureCookies: envBoolOr("SECURE_COOKIES", false),
	}
}

func envOr(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func envIntOr(key string, def int) int {
	if v := os.Getenv(key); v != "" {
		if i, err := strconv.Atoi(v); err == nil {
			return i
		}
		log.Printf("invalid value for %s=%q, using default %d", key, v, def)
	}
	return def
}

func envBoolOr(key string, def bool) bool {
	if v := os.Getenv(key); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			return b
		}
		log.Printf("invalid value for %s=%q, using default %t", key, v, def)
	}
	return def
}
