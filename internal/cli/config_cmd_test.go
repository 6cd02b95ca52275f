package cli_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/carbonflow/carbonflow/internal/cli"
	"github.com/carbonflow/carbonflow/internal/config"
)

func TestConfigInit_Project(t *testing.T) {
	_, project := setupCLITest(t)

	out, _, err := execute(t, "config", "init")
	require.NoError(t, err)
	assert.Contains(t, out, "Configuration written to")

	configPath := filepath.Join(project, config.DirName, config.ConfigFileName)
	cfg, err := config.Load(configPath)
	require.NoError(t, err)
	assert.Equal(t, config.Defaults().LCA, cfg.LCA)

	gitignore, err := os.ReadFile(filepath.Join(project, config.DirName, ".gitignore"))
	require.NoError(t, err)
	assert.Equal(t, config.GitignoreContent(), string(gitignore))
}

func TestConfigInit_ExistingRequiresForce(t *testing.T) {
	_, project := setupCLITest(t)

	_, _, err := execute(t, "config", "init")
	require.NoError(t, err)

	gitignorePath := filepath.Join(project, config.DirName, ".gitignore")
	require.NoError(t, os.WriteFile(gitignorePath, []byte("custom\n"), 0o600))

	_, _, err = execute(t, "config", "init")
	require.ErrorIs(t, err, cli.ErrConfigExists)

	_, _, err = execute(t, "config", "init", "--force")
	require.NoError(t, err)

	data, err := os.ReadFile(gitignorePath)
	require.NoError(t, err)
	assert.Equal(t, "custom\n", string(data), ".gitignore is never overwritten")
}

func TestConfigInit_Global(t *testing.T) {
	home, project := setupCLITest(t)

	_, _, err := execute(t, "config", "init", "--global")
	require.NoError(t, err)

	_, err = os.Stat(filepath.Join(home, config.ConfigFileName))
	require.NoError(t, err)
	_, err = os.Stat(filepath.Join(project, config.DirName))
	assert.True(t, os.IsNotExist(err), "global init leaves the project alone")
}

func TestConfigValidate(t *testing.T) {
	home, _ := setupCLITest(t)

	out, _, err := execute(t, "config", "validate")
	require.NoError(t, err)
	assert.Contains(t, out, "is valid")

	require.NoError(t, os.WriteFile(filepath.Join(home, config.ConfigFileName),
		[]byte("lca:\n  preset: bespoke\n"), 0o600))
	config.SetGlobalConfig(nil)

	_, _, err = execute(t, "config", "validate")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "lca.preset")
}

func TestConfigPresets(t *testing.T) {
	setupCLITest(t)

	out, _, err := execute(t, "config", "presets")
	require.NoError(t, err)
	for _, name := range []string{"basic", "professional", "research", "carbon_footprint"} {
		assert.Contains(t, out, name)
	}
	assert.Contains(t, out, "10000")
}

func TestConfigShow_ProjectOverlay(t *testing.T) {
	_, project := setupCLITest(t)
	dir := filepath.Join(project, config.DirName)
	require.NoError(t, os.MkdirAll(dir, 0o750))
	require.NoError(t, os.WriteFile(filepath.Join(dir, config.ConfigFileName),
		[]byte("lca:\n  preset: research\n  similarity_threshold: 0.7\n"), 0o600))

	out, _, err := execute(t, "config", "show")
	require.NoError(t, err)
	assert.Contains(t, out, "preset: research")
	assert.Contains(t, out, "default_format: table")
}

func TestEnvPresetOverridesConfig(t *testing.T) {
	setupCLITest(t)
	t.Setenv(config.EnvPreset, "carbon_footprint")

	out, _, err := execute(t, "config", "show", "-o", "json")
	require.NoError(t, err)
	assert.Contains(t, out, `"preset": "carbon_footprint"`)
}
