package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("PASETO_KEY", "0123456789abcdef0123456789abcdef")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "8080", cfg.Server.Port)
	assert.True(t, cfg.Server.IsDevelopment())
	assert.Equal(t, 6, cfg.Auth.PasswordMinLength)
	assert.Contains(t, cfg.Database.ConnectionString(), "dbname=loginsystem")
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("PASETO_KEY", "0123456789abcdef0123456789abcdef")
	t.Setenv("SERVER_PORT", "9090")
	t.Setenv("SERVER_ENV", "prod")
	t.Setenv("PASSWORD_MIN_LENGTH", "10")
	t.Setenv("DB_SSLMODE", "require")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "9090", cfg.Server.Port)
	assert.False(t, cfg.Server.IsDevelopment())
	assert.Equal(t, 10, cfg.Auth.PasswordMinLength)
	assert.Contains(t, cfg.Database.ConnectionString(), "sslmode=require")
}

func TestLoadRejectsBadPasetoKey(t *testing.T) {
	t.Setenv("PASETO_KEY", "too-short")

	_, err := Load()
	assert.Error(t, err)
}
