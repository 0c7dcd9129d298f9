package config

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config holds all portal configuration loaded from environment variables.
// It is the single source of truth for runtime parameters.
type Config struct {
	Port string
	Env  string

	Backend BackendConfig
	DB      DatabaseConfig
	Redis   RedisConfig
	Session SessionConfig
	Worker  WorkerConfig

	CORSAllowedHosts []string
}

// BackendConfig describes the PPOB backend API the portal talks to.
type BackendConfig struct {
	BaseURL      string
	Timeout      time.Duration
	ServiceToken string // used only by the background sync worker
}

// DatabaseConfig contains PostgreSQL connection parameters. An empty Host
// disables the sync history store.
type DatabaseConfig struct {
	Host     string
	Port     string
	User     string
	Password string
	Name     string
	SSLMode  string
}

// Enabled reports whether a database has been configured.
func (c DatabaseConfig) Enabled() bool {
	return c.Host != ""
}

// RedisConfig contains Redis connection parameters.
type RedisConfig struct {
	Host     string
	Port     string
	Password string
	DB       int
}

// SessionConfig controls credential slot lifetimes and per-session views.
type SessionConfig struct {
	SessionTTL  time.Duration // session-scoped slot
	RememberTTL time.Duration // upper bound for the "remember me" slot
	ViewIdleTTL time.Duration
	CookieName  string
	Secure      bool
}

// WorkerConfig contains interval configuration for background workers.
type WorkerConfig struct {
	SyncInterval time.Duration
}

// Load reads configuration from environment variables. If a .env file exists
// in the working directory, it will be loaded first.
func Load() (*Config, error) {
	// Missing .env is fine; production relies on real environment variables.
	_ = godotenv.Load()

	cfg := &Config{}

	cfg.Port = getEnv("PORT", "8080")
	cfg.Env = getEnv("ENV", "development")

	cfg.Backend = BackendConfig{
		BaseURL:      strings.TrimSuffix(getEnv("BACKEND_BASE_URL", ""), "/"),
		ServiceToken: getEnv("BACKEND_SERVICE_TOKEN", ""),
	}

	cfg.DB = DatabaseConfig{
		Host:     getEnv("DB_HOST", ""),
		Port:     getEnv("DB_PORT", "5432"),
		User:     getEnv("DB_USER", ""),
		Password: getEnv("DB_PASSWORD", ""),
		Name:     getEnv("DB_NAME", ""),
		SSLMode:  getEnv("DB_SSLMODE", "disable"),
	}

	cfg.Redis = RedisConfig{
		Host:     getEnv("REDIS_HOST", "redis"),
		Port:     getEnv("REDIS_PORT", "6379"),
		Password: getEnv("REDIS_PASSWORD", ""),
		DB:       getEnvInt("REDIS_DB", 0),
	}

	cfg.Session = SessionConfig{
		CookieName: getEnv("SESSION_COOKIE", "gtd_session"),
		Secure:     cfg.Env == "production",
	}

	cfg.CORSAllowedHosts = splitList(getEnv("CORS_ALLOWED_HOSTS", "localhost:3000,127.0.0.1:3000"))

	var err error
	if cfg.Backend.Timeout, err = parseDurationEnv("BACKEND_TIMEOUT", "30s"); err != nil {
		return nil, fmt.Errorf("invalid BACKEND_TIMEOUT: %w", err)
	}
	if cfg.Session.SessionTTL, err = parseDurationEnv("SESSION_TTL", "12h"); err != nil {
		return nil, fmt.Errorf("invalid SESSION_TTL: %w", err)
	}
	if cfg.Session.RememberTTL, err = parseDurationEnv("REMEMBER_TTL", "720h"); err != nil {
		return nil, fmt.Errorf("invalid REMEMBER_TTL: %w", err)
	}
	if cfg.Session.ViewIdleTTL, err = parseDurationEnv("VIEW_IDLE_TTL", "30m"); err != nil {
		return nil, fmt.Errorf("invalid VIEW_IDLE_TTL: %w", err)
	}
	if cfg.Worker.SyncInterval, err = parseDurationEnv("SYNC_INTERVAL", "0s"); err != nil {
		return nil, fmt.Errorf("invalid SYNC_INTERVAL: %w", err)
	}

	if cfg.Backend.BaseURL == "" {
		return nil, errors.New("BACKEND_BASE_URL must be set")
	}
	if u, err := url.Parse(cfg.Backend.BaseURL); err != nil || u.Scheme == "" || u.Host == "" {
		return nil, fmt.Errorf("BACKEND_BASE_URL is not an absolute URL: %q", cfg.Backend.BaseURL)
	}

	// A partially configured database is almost always a deployment mistake.
	if cfg.DB.Enabled() && (cfg.DB.User == "" || cfg.DB.Name == "") {
		return nil, errors.New("database configuration incomplete: ensure DB_USER and DB_NAME are set with DB_HOST")
	}

	return cfg, nil
}

// getEnv returns the value of an environment variable or a default if empty.
func getEnv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

// getEnvInt returns the value of an environment variable as an integer or a default if empty/invalid.
func getEnvInt(key string, def int) int {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	i, err := strconv.Atoi(v)
	if err != nil {
		return def
	}
	return i
}

// parseDurationEnv reads an environment variable and parses it as time.Duration.
// If the variable is empty, it falls back to the provided default value.
func parseDurationEnv(key, def string) (time.Duration, error) {
	raw := getEnv(key, def)
	d, err := time.ParseDuration(raw)
	if err != nil {
		return 0, err
	}
	if d < 0 {
		return 0, fmt.Errorf("duration must be >= 0")
	}
	return d, nil
}

func splitList(raw string) []string {
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, strings.ToLower(p))
		}
	}
	return out
}
