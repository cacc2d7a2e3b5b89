package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestFromEnv_Defaults(t *testing.T) {
	for _, key := range []string{"ADDR", "STORE_BACKEND", "DB_PATH", "TOKEN_TTL", "RESET_TOKEN_TTL", "MAIL_FROM"} {
		t.Setenv(key, "")
	}

	cfg := FromEnv()

	assert.Equal(t, ":8080", cfg.Addr)
	assert.Equal(t, "sqlite", cfg.StoreBackend)
	assert.Equal(t, "./data/giftster.db", cfg.DBPath)
	assert.Equal(t, 24*time.Hour, cfg.TokenTTL)
	assert.Equal(t, time.Hour, cfg.ResetTokenTTL)
	assert.Empty(t, cfg.MailFrom)
}

func TestFromEnv_Overrides(t *testing.T) {
	t.Setenv("ADDR", ":9090")
	t.Setenv("STORE_BACKEND", "memory")
	t.Setenv("TOKEN_TTL", "30m")
	t.Setenv("MAIL_FROM", "noreply@giftster.app")

	cfg := FromEnv()

	assert.Equal(t, ":9090", cfg.Addr)
	assert.Equal(t, "memory", cfg.StoreBackend)
	assert.Equal(t, 30*time.Minute, cfg.TokenTTL)
	assert.Equal(t, "noreply@giftster.app", cfg.MailFrom)
}

func TestFromEnv_BadDurationFallsBack(t *testing.T) {
	t.Setenv("TOKEN_TTL", "not-a-duration")

	cfg := FromEnv()
	assert.Equal(t, 24*time.Hour, cfg.TokenTTL)
}
