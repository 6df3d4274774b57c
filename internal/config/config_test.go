package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "https://generativelanguage.googleapis.com/v1beta", cfg.Gemini.BaseURL)
	assert.Equal(t, "gemini-3-flash-preview", cfg.Gemini.Model)
	assert.InDelta(t, 2.0, cfg.Gemini.RateLimit, 0.001)
	assert.Equal(t, "gemini", cfg.Outreach.Provider)
	assert.Equal(t, 1024, cfg.Outreach.MaxTokens)
	assert.Equal(t, 15, cfg.Maps.Zoom)
	assert.Equal(t, "pt", cfg.Maps.Locale)
	assert.Equal(t, "sqlite", cfg.Store.Driver)
	assert.Equal(t, "prospect.db", cfg.Store.DatabaseURL)
	assert.Equal(t, 8080, cfg.Server.Port)
	assert.Equal(t, []string{"*"}, cfg.Server.AllowedOrigins)
	assert.Equal(t, "light", cfg.Theme.Default)
	assert.Equal(t, "info", cfg.Log.Level)
	assert.Equal(t, "json", cfg.Log.Format)
}

func TestLoad_EnvOverrides(t *testing.T) {
	t.Setenv("PROSPECT_GEMINI_KEY", "env-key")
	t.Setenv("PROSPECT_GEMINI_MODEL", "gemini-other")
	t.Setenv("PROSPECT_OUTREACH_PROVIDER", "anthropic")
	t.Setenv("PROSPECT_STORE_DRIVER", "postgres")
	t.Setenv("PROSPECT_SERVER_PORT", "9090")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "env-key", cfg.Gemini.Key)
	assert.Equal(t, "gemini-other", cfg.Gemini.Model)
	assert.Equal(t, "anthropic", cfg.Outreach.Provider)
	assert.Equal(t, "postgres", cfg.Store.Driver)
	assert.Equal(t, 9090, cfg.Server.Port)
}

func TestInitLogger(t *testing.T) {
	require.NoError(t, InitLogger(LogConfig{Level: "debug", Format: "console"}))
	require.NoError(t, InitLogger(LogConfig{Level: "info", Format: "json"}))

	err := InitLogger(LogConfig{Level: "shouting", Format: "json"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "parse log level")
}
