package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestLoadDefaults(t *testing.T) {
	cfg := Load()

	assert.Equal(t, "8080", cfg.Port)
	assert.Equal(t, "development", cfg.Env)
	assert.Equal(t, "http://localhost:8081", cfg.BackendBaseURL)
	assert.Equal(t, 10*time.Second, cfg.BackendTimeout)
	assert.Equal(t, "portal_session", cfg.SessionCookieName)
	assert.Equal(t, time.Duration(0), cfg.SessionTTL)
	assert.Equal(t, 30*time.Minute, cfg.RegistrationTTL)
	assert.Empty(t, cfg.CORSAllowedOrigins)
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("BACKEND_BASE_URL", "https://clinic.example.com/")
	t.Setenv("SESSION_TTL", "24h")
	t.Setenv("CORS_ALLOWED_ORIGINS", "https://app.example.com, https://staging.example.com")

	cfg := Load()

	assert.Equal(t, "https://clinic.example.com", cfg.BackendBaseURL, "trailing slash is stripped")
	assert.Equal(t, 24*time.Hour, cfg.SessionTTL)
	assert.Equal(t, []string{"https://app.example.com", "https://staging.example.com"}, cfg.CORSAllowedOrigins)
}
