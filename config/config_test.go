package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfigDefaults(t *testing.T) {
	t.Setenv("JWT_SECRET", "secret")

	cfg := LoadConfig()

	assert.Equal(t, 8080, cfg.ServerPort)
	assert.Equal(t, "localhost", cfg.Database.Host)
	assert.Equal(t, 5432, cfg.Database.Port)
	assert.False(t, cfg.Database.UseSSL)
	assert.Equal(t, BackendNone, cfg.Events.Backend)
	assert.Equal(t, BackendNone, cfg.Storage.Backend)
	assert.Equal(t, 24*time.Hour, cfg.Auth.TokenTTL)
	require.NoError(t, cfg.Validate())
}

func TestLoadConfigOverrides(t *testing.T) {
	t.Setenv("JWT_SECRET", "secret")
	t.Setenv("SERVER_PORT", "9090")
	t.Setenv("DB_USE_SSL", "true")
	t.Setenv("EVENTS_BACKEND", "RabbitMQ")
	t.Setenv("JWT_TOKEN_TTL", "90m")
	t.Setenv("AUTH_REQUIRED_ROLE", " user ")

	cfg := LoadConfig()

	assert.Equal(t, 9090, cfg.ServerPort)
	assert.True(t, cfg.Database.UseSSL)
	assert.Equal(t, BackendRabbitMQ, cfg.Events.Backend)
	assert.Equal(t, 90*time.Minute, cfg.Auth.TokenTTL)
	assert.Equal(t, "user", cfg.Auth.RequiredRole)
}

func TestValidateCollectsAllProblems(t *testing.T) {
	cfg := Config{
		ServerPort: 0,
		Events:     EventsConfig{Backend: "kafka"},
		Storage:    StorageConfig{Backend: "s3"},
	}

	err := cfg.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid server port")
	assert.Contains(t, err.Error(), "JWT_SECRET is required")
	assert.Contains(t, err.Error(), `unknown events backend "kafka"`)
	assert.Contains(t, err.Error(), `unknown storage backend "s3"`)
}
