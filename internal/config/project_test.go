package config_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/carbonflow/carbonflow/internal/config"
)

// isolateHome points the global config at an empty temp directory.
func isolateHome(t *testing.T) string {
	t.Helper()
	home := t.TempDir()
	t.Setenv(config.EnvHome, filepath.Join(home, ".carbonflow"))
	t.Setenv(config.EnvConfigPath, "")
	t.Setenv(config.EnvProjectDir, "")
	t.Setenv(config.EnvLogLevel, "")
	t.Setenv(config.EnvLogFormat, "")
	t.Setenv(config.EnvPreset, "")
	t.Setenv(config.EnvSeed, "")
	return home
}

func TestResolveProjectDir_FlagOverride(t *testing.T) {
	isolateHome(t)
	flagDir := t.TempDir()

	got := config.ResolveProjectDir(context.Background(), flagDir, "/does/not/matter")

	assert.Equal(t, filepath.Join(flagDir, ".carbonflow"), got)
	assert.True(t, filepath.IsAbs(got), "returned path must be absolute")
}

func TestResolveProjectDir_FlagOverridesEnv(t *testing.T) {
	isolateHome(t)
	envDir := t.TempDir()
	flagDir := t.TempDir()
	t.Setenv(config.EnvProjectDir, envDir)

	got := config.ResolveProjectDir(context.Background(), flagDir, "/does/not/matter")

	assert.Equal(t, filepath.Join(flagDir, ".carbonflow"), got)
}

func TestResolveProjectDir_EnvVarOverride(t *testing.T) {
	isolateHome(t)
	envDir := t.TempDir()
	t.Setenv(config.EnvProjectDir, filepath.Join(envDir, ".carbonflow"))

	got := config.ResolveProjectDir(context.Background(), "", "/does/not/matter")

	assert.Equal(t, filepath.Join(envDir, ".carbonflow"), got, "no double append")
}

func TestResolveProjectDir_WalkUp(t *testing.T) {
	isolateHome(t)
	root := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(root, ".carbonflow"), 0o750))
	subDir := filepath.Join(root, "a", "b", "c")
	require.NoError(t, os.MkdirAll(subDir, 0o750))

	got := config.ResolveProjectDir(context.Background(), "", subDir)

	assert.Equal(t, filepath.Join(root, ".carbonflow"), got)
}

func TestResolveProjectDir_NoProject(t *testing.T) {
	isolateHome(t)

	got := config.ResolveProjectDir(context.Background(), "", t.TempDir())

	assert.Empty(t, got)
}

func TestNewWithProjectDir(t *testing.T) {
	isolateHome(t)
	projectDir := filepath.Join(t.TempDir(), ".carbonflow")
	require.NoError(t, os.MkdirAll(projectDir, 0o750))
	require.NoError(t, os.WriteFile(filepath.Join(projectDir, "config.yaml"), []byte(`
lca:
  preset: professional
  similarity_threshold: 0.7
  batch_size: 5
  concurrency: 2
`), 0o600))

	cfg := config.NewWithProjectDir(context.Background(), projectDir)

	assert.Equal(t, "professional", cfg.LCA.Preset)
	assert.InDelta(t, 0.7, cfg.LCA.SimilarityThreshold, 1e-9)
	assert.Equal(t, config.FormatTable, cfg.Output.DefaultFormat, "absent sections keep defaults")
	assert.Equal(t, filepath.Join(projectDir, "mappings.yaml"), cfg.MappingsPath())
}

func TestNewWithProjectDir_BrokenOverlay(t *testing.T) {
	isolateHome(t)
	projectDir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(projectDir, "config.yaml"), []byte("lca: [broken"), 0o600))

	cfg := config.NewWithProjectDir(context.Background(), projectDir)

	assert.Equal(t, "basic", cfg.LCA.Preset)
}
