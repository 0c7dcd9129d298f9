package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("BACKEND_BASE_URL", "https://api.example.test/api/")
	t.Setenv("DB_HOST", "")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "https://api.example.test/api", cfg.Backend.BaseURL)
	assert.Equal(t, 30*time.Second, cfg.Backend.Timeout)
	assert.Equal(t, 12*time.Hour, cfg.Session.SessionTTL)
	assert.Equal(t, 720*time.Hour, cfg.Session.RememberTTL)
	assert.Equal(t, time.Duration(0), cfg.Worker.SyncInterval)
	assert.False(t, cfg.DB.Enabled())
	assert.Contains(t, cfg.CORSAllowedHosts, "localhost:3000")
}

func TestLoad_RequiresBackendURL(t *testing.T) {
	t.Setenv("BACKEND_BASE_URL", "")

	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "BACKEND_BASE_URL")
}

func TestLoad_RejectsRelativeBackendURL(t *testing.T) {
	t.Setenv("BACKEND_BASE_URL", "/api")

	_, err := Load()
	require.Error(t, err)
}

func TestLoad_InvalidDuration(t *testing.T) {
	t.Setenv("BACKEND_BASE_URL", "https://api.example.test")
	t.Setenv("SESSION_TTL", "forever")

	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "SESSION_TTL")
}

func TestLoad_PartialDatabase(t *testing.T) {
	t.Setenv("BACKEND_BASE_URL", "https://api.example.test")
	t.Setenv("DB_HOST", "db")
	t.Setenv("DB_USER", "")
	t.Setenv("DB_NAME", "")

	_, err := Load()
	require.Error(t, err)
}

func TestSplitList(t *testing.T) {
	assert.Equal(t, []string{"a.test", "b.test:3000"}, splitList(" A.test, ,b.test:3000 "))
	assert.Nil(t, splitList(""))
}
