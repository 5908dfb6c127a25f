package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func clearEnv(t *testing.T) {
	for _, k := range []string{
		"APP_ENV", "HTTP_PORT", "PORT", "DATABASE_URL", "REDIS_ADDR", "SESSION_SECRET",
		"ADMIN_PASSWORD", "SESSION_TTL", "RATE_LIMIT_PER_MIN",
	} {
		t.Setenv(k, "")
	}
}

func TestLoadDefaults(t *testing.T) {
	clearEnv(t)
	cfg := Load()

	assert.Equal(t, "dev", cfg.Env)
	assert.Equal(t, "5000", cfg.HTTPPort)
	assert.Equal(t, "app.db", cfg.DatabaseURL)
	assert.Equal(t, DefaultAdminPassword, cfg.AdminPassword)
	assert.Equal(t, 12*time.Hour, cfg.SessionTTL)
	assert.Equal(t, 120, cfg.RateLimitPerMin)
	assert.ElementsMatch(t, []string{"SESSION_SECRET", "ADMIN_PASSWORD"}, cfg.InsecureDefaults())
	assert.NoError(t, cfg.Validate(), "defaults are fine outside production")
}

func TestLoadOverrides(t *testing.T) {
	clearEnv(t)
	t.Setenv("PORT", "9000")
	t.Setenv("SESSION_TTL", "30m")
	t.Setenv("RATE_LIMIT_PER_MIN", "nope")

	cfg := Load()
	assert.Equal(t, "9000", cfg.HTTPPort)
	assert.Equal(t, 30*time.Minute, cfg.SessionTTL)
	assert.Equal(t, 120, cfg.RateLimitPerMin)

	t.Setenv("HTTP_PORT", "8080")
	assert.Equal(t, "8080", Load().HTTPPort)
}

func TestValidateProduction(t *testing.T) {
	clearEnv(t)
	t.Setenv("APP_ENV", "production")

	err := Load().Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "ADMIN_PASSWORD")

	t.Setenv("SESSION_SECRET", "s3cr3t-value")
	t.Setenv("ADMIN_PASSWORD", "front-desk-pass")
	cfg := Load()
	assert.True(t, cfg.Production())
	assert.Empty(t, cfg.InsecureDefaults())
	assert.NoError(t, cfg.Validate())
}
