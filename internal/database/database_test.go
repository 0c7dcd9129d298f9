package database

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/GTDGit/gtd_portal/internal/config"
)

func TestDSN_EscapesCredentials(t *testing.T) {
	dsn := DSN(&config.DatabaseConfig{
		Host: "db", Port: "5432", User: "portal", Password: "p@ss/word", Name: "gtd", SSLMode: "disable",
	})
	assert.Equal(t, "postgres://portal:p%40ss%2Fword@db:5432/gtd?sslmode=disable", dsn)
}

func TestConnect_Disabled(t *testing.T) {
	_, err := Connect(&config.DatabaseConfig{})
	require.Error(t, err)
}

func TestBackoff(t *testing.T) {
	assert.Equal(t, 500*time.Millisecond, backoff(1))
	assert.Equal(t, 2*time.Second, backoff(3))
	assert.Equal(t, 5*time.Second, backoff(5))
}
