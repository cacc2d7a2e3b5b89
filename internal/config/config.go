// Package config loads server configuration from the environment so main
// stays lean.
package config

import (
	"os"
	"time"
)

// Config captures everything the server needs at startup.
type Config struct {
	// Addr is the listen address, e.g. ":8080".
	Addr string

	// StoreBackend selects the persistence adapter: "sqlite" or "memory".
	// The memory backend loses everything on restart; it exists for
	// development and tests.
	StoreBackend string

	// DBPath is the SQLite database file (sqlite backend only).
	DBPath string

	// JWTSecret signs both session tokens and password reset tokens.
	JWTSecret string

	// TokenTTL is how long session tokens stay valid.
	TokenTTL time.Duration

	// ResetTokenTTL is how long password reset links stay valid.
	ResetTokenTTL time.Duration

	// BaseURL is the public origin used in password reset links.
	BaseURL string

	// MailFrom is the verified SES sender identity. Empty disables real
	// delivery; reset mail then goes to the log.
	MailFrom string

	// AWSRegion is the region for the SES client.
	AWSRegion string
}

// FromEnv builds a Config from environment variables with development
// defaults.
func FromEnv() Config {
	return Config{
		Addr:          getEnv("ADDR", ":8080"),
		StoreBackend:  getEnv("STORE_BACKEND", "sqlite"),
		DBPath:        getEnv("DB_PATH", "./data/giftster.db"),
		JWTSecret:     getEnv("JWT_SECRET", "dev-secret-change-in-production"),
		TokenTTL:      getDuration("TOKEN_TTL", 24*time.Hour),
		ResetTokenTTL: getDuration("RESET_TOKEN_TTL", time.Hour),
		BaseURL:       getEnv("BASE_URL", "http://localhost:8080"),
		MailFrom:      os.Getenv("MAIL_FROM"),
		AWSRegion:     getEnv("AWS_REGION", "eu-west-1"),
	}
}

func getEnv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

func getDuration(key string, fallback time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return fallback
}
