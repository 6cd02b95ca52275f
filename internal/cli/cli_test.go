package cli_test

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/carbonflow/carbonflow/internal/cli"
	"github.com/carbonflow/carbonflow/internal/config"
)

const widgetYAML = `
name: widget
functionalUnit: {value: 1, unit: piece}
nodes:
  - id: widget
    data: {label: Widget assembly, lifecycleStage: manufacturing, isMainProduct: true, carbonFootprint: 10}
`

const lighterWidgetYAML = `
name: light widget
functionalUnit: {value: 1, unit: piece}
nodes:
  - id: widget
    data: {label: Widget assembly, lifecycleStage: manufacturing, isMainProduct: true, carbonFootprint: 6}
`

const orphanYAML = `
name: orphan
nodes:
  - id: part
    data: {lifecycleStage: manufacturing, carbonFootprint: 1}
`

const catalogYAML = `
products:
  - name: small
    functionalUnit: {value: 1, unit: piece}
    nodes:
      - id: s
        data: {lifecycleStage: manufacturing, isMainProduct: true, carbonFootprint: 2}
  - name: large
    functionalUnit: {value: 1, unit: piece}
    nodes:
      - id: l
        data: {lifecycleStage: manufacturing, isMainProduct: true, carbonFootprint: 20}
  - name: broken
    nodes:
      - id: b
        data: {lifecycleStage: manufacturing, carbonFootprint: 5}
`

// setupCLITest isolates the global and project configuration directories
// and resets process-wide state after the test.
func setupCLITest(t *testing.T) (home, project string) {
	t.Helper()
	home = t.TempDir()
	project = t.TempDir()
	t.Setenv(config.EnvHome, home)
	t.Setenv(config.EnvConfigPath, "")
	t.Setenv(config.EnvProjectDir, project)
	t.Setenv(config.EnvLogLevel, "error")
	t.Setenv(config.EnvPreset, "")
	t.Setenv(config.EnvSeed, "")
	t.Cleanup(func() {
		config.SetGlobalConfig(nil)
		config.SetResolvedProjectDir("")
	})
	return home, project
}

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

// execute runs the root command and returns stdout and stderr.
func execute(t *testing.T, args ...string) (string, string, error) {
	t.Helper()
	var stdout, stderr bytes.Buffer
	cmd := cli.NewRootCmd("test")
	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return stdout.String(), stderr.String(), err
}

func TestAssess_Table(t *testing.T) {
	setupCLITest(t)
	path := writeFile(t, "widget.yaml", widgetYAML)

	out, _, err := execute(t, "assess", path, "--steps")
	require.NoError(t, err)

	assert.Contains(t, out, "LCA RESULT: widget")
	assert.Contains(t, out, "IMPACTS")
	assert.Contains(t, out, "CONTRIBUTION BY STAGE")
	assert.Contains(t, out, "Widget assembly")
}

func TestAssess_JSON(t *testing.T) {
	setupCLITest(t)
	path := writeFile(t, "widget.yaml", widgetYAML)

	out, _, err := execute(t, "assess", path, "-o", "json")
	require.NoError(t, err)

	var res struct {
		SystemInfo struct {
			ProductName       string  `json:"product_name"`
			ConfigName        string  `json:"config_name"`
			PerFunctionalUnit float64 `json:"gwp_per_functional_unit"`
		} `json:"system_info"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &res), out)
	assert.Equal(t, "widget", res.SystemInfo.ProductName)
	assert.Equal(t, "basic", res.SystemInfo.ConfigName)
	assert.InDelta(t, 10, res.SystemInfo.PerFunctionalUnit, 1e-9)
}

func TestAssess_Errors(t *testing.T) {
	setupCLITest(t)

	_, _, err := execute(t, "assess", filepath.Join(t.TempDir(), "missing.yaml"))
	require.Error(t, err)

	_, _, err = execute(t, "assess", writeFile(t, "orphan.yaml", orphanYAML))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "main product")

	_, _, err = execute(t, "assess", writeFile(t, "w.yaml", widgetYAML), "--preset", "nope")
	require.Error(t, err)

	_, _, err = execute(t, "assess", writeFile(t, "w.yaml", widgetYAML), "-o", "xml")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown output format")
}

func TestFootprint(t *testing.T) {
	setupCLITest(t)
	path := writeFile(t, "widget.yaml", widgetYAML)

	out, _, err := execute(t, "footprint", path, "--iterations", "200", "--seed", "7")
	require.NoError(t, err)
	assert.Contains(t, out, "CARBON FOOTPRINT")
	assert.Contains(t, out, "UNCERTAINTY")
}

func TestCompare(t *testing.T) {
	setupCLITest(t)
	baseline := writeFile(t, "widget.yaml", widgetYAML)
	alt := writeFile(t, "light.yaml", lighterWidgetYAML)

	out, _, err := execute(t, "compare", baseline, alt, "-o", "json")
	require.NoError(t, err)

	var cmp struct {
		Alternatives []struct {
			Name            string  `json:"name"`
			MeanImprovement float64 `json:"mean_improvement"`
		} `json:"alternatives"`
		DominatingAlternative string `json:"dominating_alternative"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &cmp), out)
	require.Len(t, cmp.Alternatives, 1)
	assert.Equal(t, "light widget", cmp.Alternatives[0].Name)
	assert.InDelta(t, 40, cmp.Alternatives[0].MeanImprovement, 1e-9)
	assert.Equal(t, "light widget", cmp.DominatingAlternative)

	_, _, err = execute(t, "compare", baseline)
	require.Error(t, err, "needs at least one alternative")
}

func TestBatch_SortedAndPaged(t *testing.T) {
	setupCLITest(t)
	catalog := writeFile(t, "catalog.yaml", catalogYAML)

	out, _, err := execute(t, "batch", catalog, "--sort", "gwp:desc", "--limit", "2", "-o", "json")
	require.NoError(t, err)

	var report struct {
		Items []struct {
			Name  string `json:"name"`
			Error string `json:"error"`
		} `json:"items"`
		Succeeded  int `json:"succeeded"`
		Failed     int `json:"failed"`
		Pagination struct {
			TotalItems int  `json:"total_items"`
			HasNext    bool `json:"has_next"`
		} `json:"pagination"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &report), out)
	assert.Equal(t, 2, report.Succeeded)
	assert.Equal(t, 1, report.Failed)
	require.Len(t, report.Items, 2)
	assert.Equal(t, "large", report.Items[0].Name)
	assert.Equal(t, "small", report.Items[1].Name)
	assert.Equal(t, 3, report.Pagination.TotalItems)
	assert.True(t, report.Pagination.HasNext)
}

func TestBatch_InvalidPaging(t *testing.T) {
	setupCLITest(t)
	catalog := writeFile(t, "catalog.yaml", catalogYAML)

	_, _, err := execute(t, "batch", catalog, "--page", "2")
	require.Error(t, err)

	_, _, err = execute(t, "batch", catalog, "--sort", "weight")
	require.Error(t, err)
}

func TestBatch_Table(t *testing.T) {
	setupCLITest(t)
	catalog := writeFile(t, "catalog.yaml", catalogYAML)

	out, _, err := execute(t, "batch", catalog)
	require.NoError(t, err)
	assert.Contains(t, out, "BATCH ASSESSMENT")
	assert.Contains(t, out, "broken")
	assert.Contains(t, out, "main product")
}

func TestHotspots(t *testing.T) {
	setupCLITest(t)
	path := writeFile(t, "widget.yaml", widgetYAML)

	out, _, err := execute(t, "hotspots", path, "--top", "1", "-o", "yaml")
	require.NoError(t, err)
	assert.Contains(t, out, "hotspots:")
	assert.Contains(t, out, "dimension: process")
}

func TestQuality(t *testing.T) {
	setupCLITest(t)
	path := writeFile(t, "widget.yaml", widgetYAML)

	out, _, err := execute(t, "quality", path)
	require.NoError(t, err)
	assert.Contains(t, out, "DATA QUALITY")
	assert.Contains(t, out, "reliability")
}

func TestValidate(t *testing.T) {
	setupCLITest(t)

	out, _, err := execute(t, "validate", writeFile(t, "widget.yaml", widgetYAML))
	require.NoError(t, err)
	assert.Contains(t, out, "valid")

	out, _, err = execute(t, "validate", writeFile(t, "orphan.yaml", orphanYAML))
	require.ErrorIs(t, err, cli.ErrInvalidInput)
	assert.Contains(t, out, "invalid")
	assert.Contains(t, out, "ERRORS")
}

func TestMatch(t *testing.T) {
	home, _ := setupCLITest(t)

	out, _, err := execute(t, "match", "Carbon dioxide", "-o", "json")
	require.NoError(t, err)
	var res struct {
		Status           string  `json:"status"`
		Source           string  `json:"source"`
		Confidence       float64 `json:"confidence"`
		MatchedSubstance string  `json:"matched_substance"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &res), out)
	assert.Equal(t, "perfect_match", res.Status)
	assert.Equal(t, "co2", res.MatchedSubstance)
	assert.Positive(t, res.Confidence)

	out, _, err = execute(t, "match", "my special gas", "--save", "methane", "-o", "json")
	require.NoError(t, err)
	require.NoError(t, json.Unmarshal([]byte(out), &res), out)
	assert.Equal(t, "user_mapping", res.Source)
	assert.Equal(t, "ch4", res.MatchedSubstance)

	data, err := os.ReadFile(filepath.Join(home, config.MappingsFile))
	require.NoError(t, err)
	assert.Contains(t, string(data), "my_special_gas")

	config.SetGlobalConfig(nil)
	out, _, err = execute(t, "match", "my special gas", "-o", "json")
	require.NoError(t, err)
	require.NoError(t, json.Unmarshal([]byte(out), &res), out)
	assert.Equal(t, "user_mapping", res.Source, "saved mapping is reloaded")
}
