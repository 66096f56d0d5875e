package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadRequiresJWTSecret(t *testing.T) {
	t.Setenv("JWT_SECRET", "")
	_, err := Load()
	assert.Error(t, err)
}

func TestLoadDefaults(t *testing.T) {
	t.Setenv("JWT_SECRET", "test-secret")
	t.Setenv("PORT", "")
	t.Setenv("ALLOWED_ORIGINS", "")
	t.Setenv("REMINDER_SWEEP_INTERVAL", "")
	t.Setenv("SUGGESTION_INTERVAL", "")
	t.Setenv("CACHE_TTL", "")
	t.Setenv("ENCRYPTION_KEY", "")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "8080", cfg.Port)
	assert.Equal(t, []string{"*"}, cfg.AllowedOrigins)
	assert.Equal(t, time.Minute, cfg.ReminderSweepInterval)
	assert.Equal(t, time.Hour, cfg.SuggestionInterval)
	assert.Equal(t, 5*time.Minute, cfg.CacheTTL)
}

func TestLoadRejectsShortEncryptionKey(t *testing.T) {
	t.Setenv("JWT_SECRET", "test-secret")
	t.Setenv("ENCRYPTION_KEY", "short")

	_, err := Load()
	assert.Error(t, err)
}

func TestGetEnvList(t *testing.T) {
	t.Setenv("ALLOWED_ORIGINS", "https://a.example, https://b.example ,")
	assert.Equal(t,
		[]string{"https://a.example", "https://b.example"},
		getEnvList("ALLOWED_ORIGINS", []string{"*"}))
}

func TestGetEnvDuration(t *testing.T) {
	t.Setenv("CACHE_TTL", "90s")
	assert.Equal(t, 90*time.Second, getEnvDuration("CACHE_TTL", time.Minute))

	t.Setenv("CACHE_TTL", "45")
	assert.Equal(t, 45*time.Second, getEnvDuration("CACHE_TTL", time.Minute), "bare numbers are seconds")

	t.Setenv("CACHE_TTL", "whenever")
	assert.Equal(t, time.Minute, getEnvDuration("CACHE_TTL", time.Minute))
}
