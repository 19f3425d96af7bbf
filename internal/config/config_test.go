package config

// Test Plan for configuration loading:
// - Defaults carry the analyzer vocabularies and history settings
// - An explicit config file overrides defaults; a missing explicit file
//   is an error, while a missing search-path file is not
// - CORTEX_REFACTOR_* environment variables override file values

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefault(t *testing.T) {
	t.Parallel()

	cfg := Default()
	assert.False(t, cfg.Naming.AllowUnderscorePrefix)
	assert.Contains(t, cfg.Analysis.Builtins, "len")
	assert.NotContains(t, cfg.Analysis.Builtins, "self")
	assert.Contains(t, cfg.Analysis.SideEffectCalls, "print")
	assert.True(t, cfg.History.Enabled)
	assert.NotEmpty(t, cfg.History.Path)
}

func TestLoad_NoFileUsesDefaults(t *testing.T) {
	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, Default().Analysis.SideEffectCalls, cfg.Analysis.SideEffectCalls)
}

func TestLoad_ExplicitFile(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "config.yml")
	content := `naming:
  allow_underscore_prefix: true
analysis:
  side_effect_calls:
    - print
    - send_email
history:
  enabled: false
  path: /tmp/custom.db
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.True(t, cfg.Naming.AllowUnderscorePrefix)
	assert.Equal(t, []string{"print", "send_email"}, cfg.Analysis.SideEffectCalls)
	assert.False(t, cfg.History.Enabled)
	assert.Equal(t, "/tmp/custom.db", cfg.History.Path)

	// Sections the file does not mention keep their defaults.
	assert.Contains(t, cfg.Analysis.Builtins, "len")
}

func TestLoad_MissingExplicitFile(t *testing.T) {
	t.Parallel()

	_, err := Load(filepath.Join(t.TempDir(), "nope.yml"))
	assert.Error(t, err)
}

func TestLoad_EnvOverride(t *testing.T) {
	t.Setenv("CORTEX_REFACTOR_NAMING_ALLOW_UNDERSCORE_PREFIX", "true")
	t.Setenv("CORTEX_REFACTOR_HISTORY_PATH", "/tmp/env.db")

	cfg, err := Load("")
	require.NoError(t, err)
	assert.True(t, cfg.Naming.AllowUnderscorePrefix)
	assert.Equal(t, "/tmp/env.db", cfg.History.Path)
}
