package main

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"verm_airdrop/internal/ratelimit"
	"verm_airdrop/internal/repository"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfig_Defaults(t *testing.T) {
	cfg, err := LoadConfig(t.TempDir())
	require.NoError(t, err)

	assert.Equal(t, repository.DriverPgx, cfg.Database.Driver)
	assert.Equal(t, "3001", cfg.Server.Port)
	assert.Equal(t, ratelimit.Rule{Window: 15 * time.Minute, Max: 5}, cfg.RateLimit.Registration)
	assert.Equal(t, ratelimit.Rule{Window: 5 * time.Minute, Max: 10}, cfg.RateLimit.Verification)
	assert.Equal(t, ratelimit.Rule{Window: time.Minute, Max: 30}, cfg.RateLimit.General)
	assert.Equal(t, time.Minute, cfg.RateLimit.PurgeInterval)
	assert.False(t, cfg.IsProduction())
}

func TestLoadConfig_FileAndEnv(t *testing.T) {
	dir := t.TempDir()
	yaml := `
environment: production
pingMessage: gm
database:
  driver: memory
rateLimit:
  registration:
    window: 1m
    max: 2
`
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.yaml"), []byte(yaml), 0o600))
	t.Setenv("APP_SERVER_PORT", "8080")
	t.Setenv("APP_RATELIMIT_GENERAL_MAX", "100")

	cfg, err := LoadConfig(dir)
	require.NoError(t, err)

	assert.True(t, cfg.IsProduction())
	assert.Equal(t, "gm", cfg.PingMessage)
	assert.Equal(t, repository.DriverMemory, cfg.Database.Driver)
	assert.Equal(t, "8080", cfg.Server.Port)
	assert.Equal(t, ratelimit.Rule{Window: time.Minute, Max: 2}, cfg.RateLimit.Registration)
	assert.Equal(t, 100, cfg.RateLimit.General.Max)
}
