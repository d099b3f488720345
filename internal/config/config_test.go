package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	t.Chdir(t.TempDir())

	cfg, err := Load()
	require.NoError(t, err)
	require.Equal(t, "Campus Activity Portal", cfg.AppName)
	require.Equal(t, ":8080", cfg.HTTPAddress())
	require.Equal(t, "sqlite:campus.db", cfg.DatabaseURL)
	require.Equal(t, 30*time.Second, cfg.TrendingCacheTTL)
	require.Equal(t, []string{"*"}, cfg.CORSOrigins)
	require.Equal(t, "campus.notifications", cfg.NATSSubject)
	require.False(t, cfg.SeedDemo)
	require.Empty(t, cfg.RedisURL)
}

func TestLoadFromEnvironment(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv("CAMPUS_APP_PORT", ":9090")
	t.Setenv("CAMPUS_DATABASE_URL", "postgres://campus@localhost/campus")
	t.Setenv("CAMPUS_TRENDING_CACHE_TTL", "2m")
	t.Setenv("CAMPUS_SEED_DEMO", "true")
	t.Setenv("CAMPUS_CORS_ORIGINS", "https://a.edu, https://b.edu")
	t.Setenv("CAMPUS_RATELIMIT_MAX", "0")
	t.Setenv("CAMPUS_LOG_LEVEL", "DEBUG")

	cfg, err := Load()
	require.NoError(t, err)
	require.Equal(t, ":9090", cfg.HTTPAddress())
	require.Equal(t, "postgres://campus@localhost/campus", cfg.DatabaseURL)
	require.Equal(t, 2*time.Minute, cfg.TrendingCacheTTL)
	require.True(t, cfg.SeedDemo)
	require.Equal(t, []string{"https://a.edu", "https://b.edu"}, cfg.CORSOrigins)
	require.Equal(t, 30, cfg.RateLimitMax)
	require.Equal(t, "debug", cfg.LogLevel)
}

func TestLoadRejectsBadDuration(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv("CAMPUS_TRENDING_CACHE_TTL", "soon")

	_, err := Load()
	require.Error(t, err)
}
