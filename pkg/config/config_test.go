package config

import (
	"os"
	"testing"
	"time"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaults(t *testing.T) {
	v := viper.New()
	setDefaults(v)

	cfg := fromViper(v)

	assert.Equal(t, EnvDevelopment, cfg.Env)
	assert.Equal(t, 8080, cfg.Port)
	assert.Equal(t, "/api/v1", cfg.APIPrefix)
	assert.Equal(t, 30*time.Second, cfg.Upstream.Timeout)
	assert.Equal(t, "/match-scheduler/generate-matches", cfg.Upstream.ManualSchedulePath)
	assert.Equal(t, 2*time.Hour, cfg.Wizard.SessionTTL)
	assert.Equal(t, 5*time.Minute, cfg.Wizard.SweepInterval)
	assert.False(t, cfg.MatchCache.Enabled)
	assert.Equal(t, time.Minute, cfg.MatchCache.TTL)
	assert.Equal(t, 2, cfg.RunHistory.Workers)
	assert.Equal(t, 24*time.Hour, cfg.Export.LinkTTL)
	assert.Empty(t, cfg.JWT.Audience)
}

func TestEnvironmentOverrides(t *testing.T) {
	t.Setenv("PORT", "9090")
	t.Setenv("UPSTREAM_BASE_URL", "https://tournament.example.org/api/")
	t.Setenv("UPSTREAM_TIMEOUT", "5s")
	t.Setenv("WIZARD_SESSION_TTL", "not-a-duration")
	t.Setenv("ALLOWED_ORIGINS", "https://a.example.org, ,https://b.example.org")
	t.Setenv("JWT_AUDIENCE", "scheduler")
	t.Setenv("ENABLE_MATCH_CACHE", "true")

	v := viper.New()
	v.AutomaticEnv()
	setDefaults(v)
	cfg := fromViper(v)

	assert.Equal(t, 9090, cfg.Port)
	assert.Equal(t, "https://tournament.example.org/api", cfg.Upstream.BaseURL)
	assert.Equal(t, 5*time.Second, cfg.Upstream.Timeout)
	assert.Equal(t, 2*time.Hour, cfg.Wizard.SessionTTL)
	assert.Equal(t, []string{"https://a.example.org", "https://b.example.org"}, cfg.CORS.AllowedOrigins)
	assert.Equal(t, []string{"scheduler"}, cfg.JWT.Audience)
	assert.True(t, cfg.MatchCache.Enabled)
}

func TestLoadWithoutEnvFile(t *testing.T) {
	wd, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(t.TempDir()))
	t.Cleanup(func() { _ = os.Chdir(wd) })

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "/api/v1", cfg.APIPrefix)
}
