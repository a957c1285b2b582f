package config

import (
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func clearEnv(t *testing.T) {
	t.Helper()
	for _, k := range []string{
		"TASKBOOK_DB_HOST", "TASKBOOK_DB_PORT", "TASKBOOK_DB_NAME",
		"TASKBOOK_DB_USER", "TASKBOOK_DB_PASSWORD", "TASKBOOK_LISTEN_HOST",
		"TASKBOOK_LISTEN_PORT", "TASKBOOK_SESSION_EXPIRY_DAYS", "TASKBOOK_CORS_ORIGINS",
	} {
		require.NoError(t, os.Unsetenv(k))
	}
}

func TestLoadDefaultsAndRequired(t *testing.T) {
	clearEnv(t)
	t.Setenv("TASKBOOK_DB_HOST", "localhost")
	t.Setenv("TASKBOOK_DB_NAME", "taskbook")
	t.Setenv("TASKBOOK_DB_USER", "taskbook")
	t.Setenv("TASKBOOK_DB_PASSWORD", "secret")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, 5432, cfg.DBPort)
	assert.Equal(t, "0.0.0.0", cfg.ListenHost)
	assert.Equal(t, 8080, cfg.ListenPort)
	assert.Equal(t, 30, cfg.SessionExpiryDays)
	assert.Equal(t, "0.0.0.0:8080", cfg.ListenAddr())
}

func TestLoadMissingRequiredFails(t *testing.T) {
	clearEnv(t)
	_, err := Load()
	require.Error(t, err)
}

func TestCORSOriginsParsedAsList(t *testing.T) {
	clearEnv(t)
	t.Setenv("TASKBOOK_DB_HOST", "localhost")
	t.Setenv("TASKBOOK_DB_NAME", "taskbook")
	t.Setenv("TASKBOOK_DB_USER", "taskbook")
	t.Setenv("TASKBOOK_DB_PASSWORD", "secret")
	t.Setenv("TASKBOOK_CORS_ORIGINS", "https://a.example.com,https://b.example.com")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, []string{"https://a.example.com", "https://b.example.com"}, cfg.CORSOrigins)
}
