package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("ENVIRONMENT", "")
	t.Setenv("JWT_EXPIRES_IN", "")
	t.Setenv("MAIL_TRANSPORT", "")
	t.Setenv("RESET_DB", "")

	cfg := Load()

	assert.Equal(t, "development", cfg.Environment)
	assert.False(t, cfg.IsProduction())
	assert.Equal(t, time.Hour, cfg.JWTExpiresIn)
	assert.Equal(t, MailTransportOutbox, cfg.MailTransport)
	assert.False(t, cfg.ResetDB)
}

func TestLoad_Overrides(t *testing.T) {
	t.Setenv("ENVIRONMENT", "production")
	t.Setenv("SERVER_PORT", "9090")
	t.Setenv("JWT_EXPIRES_IN", "15m")
	t.Setenv("QUESTION_CACHE_TTL", "30s")
	t.Setenv("REDIS_DB", "3")
	t.Setenv("RESET_DB", "true")
	t.Setenv("MAIL_TRANSPORT", "")

	cfg := Load()

	assert.True(t, cfg.IsProduction())
	assert.Equal(t, "9090", cfg.ServerPort)
	assert.Equal(t, 15*time.Minute, cfg.JWTExpiresIn)
	assert.Equal(t, 30*time.Second, cfg.QuestionCacheTTL)
	assert.Equal(t, 3, cfg.RedisDB)
	assert.True(t, cfg.ResetDB)
	assert.Equal(t, MailTransportMailgun, cfg.MailTransport)
}

func TestLoad_InvalidValuesFallBack(t *testing.T) {
	t.Setenv("JWT_EXPIRES_IN", "forever")
	t.Setenv("REDIS_DB", "zero")
	t.Setenv("EMAIL_MX_CHECK", "maybe")

	cfg := Load()

	assert.Equal(t, time.Hour, cfg.JWTExpiresIn)
	assert.Equal(t, 0, cfg.RedisDB)
	assert.False(t, cfg.EmailMXCheck)
}

func TestLoad_ExplicitTransportWinsInProduction(t *testing.T) {
	t.Setenv("ENVIRONMENT", "production")
	t.Setenv("MAIL_TRANSPORT", MailTransportOutbox)

	cfg := Load()

	assert.True(t, cfg.IsProduction())
	assert.Equal(t, MailTransportOutbox, cfg.MailTransport)
}
