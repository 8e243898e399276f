package config

import (
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func chdirTemp(t *testing.T) {
	t.Helper()
	// Change to temp dir so no config.yaml is found.
	dir := t.TempDir()
	origDir, _ := os.Getwd()
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() { os.Chdir(origDir) })
}

func TestLoadDefaults(t *testing.T) {
	chdirTemp(t)

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "sqlite", cfg.Store.Driver)
	assert.Equal(t, "policyqa.db", cfg.Store.DatabaseURL)
	assert.Equal(t, 8000, cfg.Server.Port)
	assert.InDelta(t, 20.0, cfg.Server.RateLimit, 0.001)
	assert.Equal(t, 40, cfg.Server.RateBurst)
	assert.Equal(t, "documents", cfg.Agent.DocsDir)
	assert.Equal(t, 3, cfg.Agent.TopK)
	assert.InDelta(t, 0.65, cfg.Agent.MinConfidence, 0.001)
	assert.Equal(t, "info", cfg.Log.Level)
	assert.Equal(t, "json", cfg.Log.Format)
}

func TestLoadFromYAML(t *testing.T) {
	chdirTemp(t)

	yaml := `
store:
  driver: postgres
  database_url: postgres://localhost/policyqa
agent:
  docs_dir: /srv/policies
  top_k: 5
log:
  level: debug
  format: console
`
	require.NoError(t, os.WriteFile("config.yaml", []byte(yaml), 0o644))

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "postgres", cfg.Store.Driver)
	assert.Equal(t, "postgres://localhost/policyqa", cfg.Store.DatabaseURL)
	assert.Equal(t, "/srv/policies", cfg.Agent.DocsDir)
	assert.Equal(t, 5, cfg.Agent.TopK)
	// Unset keys keep their defaults.
	assert.InDelta(t, 0.65, cfg.Agent.MinConfidence, 0.001)
	assert.Equal(t, "debug", cfg.Log.Level)
}

func TestLoadFromEnv(t *testing.T) {
	chdirTemp(t)
	t.Setenv("POLICYQA_SERVER_PORT", "9001")
	t.Setenv("POLICYQA_AGENT_MIN_CONFIDENCE", "0.8")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 9001, cfg.Server.Port)
	assert.InDelta(t, 0.8, cfg.Agent.MinConfidence, 0.001)
}

func TestInitLogger(t *testing.T) {
	require.NoError(t, InitLogger(LogConfig{Level: "debug", Format: "console"}))
	assert.NotNil(t, zap.L())

	require.Error(t, InitLogger(LogConfig{Level: "nope", Format: "json"}))
}
