package cli_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rshade/carbonchallenge/internal/config"
)

// TestConfigInit_CreatesDefaultFile verifies that "config init" writes the
// defaults into CARBON_HOME and refuses to overwrite without --force.
func TestConfigInit_CreatesDefaultFile(t *testing.T) {
	home := setupCLITest(t)
	path := filepath.Join(home, "config.yaml")

	out, _, err := executeRoot(t, "config", "init")
	require.NoError(t, err)
	assert.Contains(t, out, "Configuration initialized successfully")
	assert.Contains(t, out, path)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "end_year: 2100")
	assert.NotContains(t, string(data), "current_year")

	_, _, err = executeRoot(t, "config", "init")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "already exists")

	_, _, err = executeRoot(t, "config", "init", "--force", "--magic")
	require.NoError(t, err)
	data, err = os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "magic_mode: true")
}

// TestConfigInit_ExplicitPath writes to --config instead of CARBON_HOME.
func TestConfigInit_ExplicitPath(t *testing.T) {
	setupCLITest(t)
	path := filepath.Join(t.TempDir(), "nested", "carbon.yaml")

	_, _, err := executeRoot(t, "config", "init", "--config", path)
	require.NoError(t, err)
	assert.FileExists(t, path)
}

// TestConfigInit_IgnoresBrokenFile verifies init can replace a config file
// that would fail to load.
func TestConfigInit_IgnoresBrokenFile(t *testing.T) {
	home := setupCLITest(t)
	path := filepath.Join(home, "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("output:\n  default_format: xml\n"), 0o600))

	_, _, err := executeRoot(t, "simulate")
	require.Error(t, err)

	_, _, err = executeRoot(t, "config", "init", "--force")
	require.NoError(t, err)

	_, _, err = executeRoot(t, "simulate")
	require.NoError(t, err)
}

func TestConfigValidate(t *testing.T) {
	t.Run("defaults are valid", func(t *testing.T) {
		setupCLITest(t)
		out, _, err := executeRoot(t, "config", "validate", "--verbose")
		require.NoError(t, err)
		assert.Contains(t, out, "Configuration is valid")
		assert.Contains(t, out, "Simulation window:")
		assert.Contains(t, out, "Output format: table")
	})

	t.Run("reports invalid file", func(t *testing.T) {
		home := setupCLITest(t)
		path := filepath.Join(home, "config.yaml")
		require.NoError(t, os.WriteFile(path, []byte("simulation:\n  end_year: 1990\n"), 0o600))

		_, _, err := executeRoot(t, "config", "validate")
		require.Error(t, err)
		assert.Contains(t, err.Error(), "configuration validation failed")
	})

	t.Run("reports malformed environment", func(t *testing.T) {
		setupCLITest(t)
		t.Setenv(config.EnvMagicMode, "perhaps")

		_, _, err := executeRoot(t, "config", "validate")
		require.Error(t, err)
		assert.Contains(t, err.Error(), config.EnvMagicMode)
	})
}

func TestConfigShow(t *testing.T) {
	setupCLITest(t)
	t.Setenv(config.EnvEndYear, "2090")

	out, _, err := executeRoot(t, "config", "show", "--year", "2030")
	require.NoError(t, err)
	assert.Contains(t, out, "current_year: 2030")
	assert.Contains(t, out, "end_year: 2090")
	assert.Contains(t, out, "custom_policies: true")
}
