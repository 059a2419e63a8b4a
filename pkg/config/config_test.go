package config

import (
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func chdirTemp(t *testing.T) {
	t.Helper()
	wd, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(t.TempDir()))
	t.Cleanup(func() { _ = os.Chdir(wd) })
}

func TestLoadDefaultsWithoutEnvFile(t *testing.T) {
	chdirTemp(t)

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, EnvDevelopment, cfg.Env)
	assert.Equal(t, 8080, cfg.Port)
	assert.Equal(t, "/api/v1", cfg.APIPrefix)
	assert.False(t, cfg.Cache.Enabled)
	assert.Equal(t, 2*time.Minute, cfg.Cache.TTL)
	assert.Equal(t, 2*time.Hour, cfg.Sessions.IdleTTL)
	assert.Equal(t, 100, cfg.Sessions.GestureBurst)
	assert.Equal(t, 1, cfg.Jobs.Workers)
	assert.True(t, cfg.Metrics.Enabled)
	assert.Empty(t, cfg.Schedule.SeedFile)
}

func TestLoadReadsEnvironment(t *testing.T) {
	chdirTemp(t)
	t.Setenv("PORT", "9090")
	t.Setenv("ALLOWED_ORIGINS", "http://a.test, http://b.test ,")
	t.Setenv("SESSION_IDLE_TTL", "15m")
	t.Setenv("GRID_CACHE_TTL", "not-a-duration")
	t.Setenv("SCHEDULE_SEED_FILE", "/etc/timetable/seed.json")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, 9090, cfg.Port)
	assert.Equal(t, []string{"http://a.test", "http://b.test"}, cfg.CORS.AllowedOrigins)
	assert.Equal(t, 15*time.Minute, cfg.Sessions.IdleTTL)
	assert.Equal(t, 2*time.Minute, cfg.Cache.TTL)
	assert.Equal(t, "/etc/timetable/seed.json", cfg.Schedule.SeedFile)
}

func TestLoadReadsDotEnvFile(t *testing.T) {
	chdirTemp(t)
	require.NoError(t, os.WriteFile(".env", []byte("ENV=production\nLOG_FORMAT=console\n"), 0o600))
	t.Cleanup(func() {
		_ = os.Unsetenv("ENV")
		_ = os.Unsetenv("LOG_FORMAT")
	})

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, EnvProduction, cfg.Env)
	assert.Equal(t, "console", cfg.Log.Format)
}
