package lcaconfig

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/carbonflow/carbonflow/internal/factors"
	"github.com/carbonflow/carbonflow/internal/model"
)

func TestPresets(t *testing.T) {
	tests := []struct {
		name       string
		table      string
		categories int
		stages     int
		cutoff     float64
		iterations int
	}{
		{PresetBasic, factors.TableBasic, 1, 2, 0.01, 0},
		{PresetProfessional, factors.TableProfessional, 4, 5, 0.005, 10000},
		{PresetResearch, factors.TableResearch, 6, 5, 0.001, 50000},
		{PresetCarbonFootprint, factors.TableCarbon, 1, 5, 0.01, 1000},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			cfg, err := Preset(tc.name)
			require.NoError(t, err)

			assert.Equal(t, tc.name, cfg.Name)
			assert.Equal(t, MethodologyISO, cfg.Methodology)
			require.NotNil(t, cfg.Factors)
			assert.Equal(t, tc.table, cfg.Factors.Name())
			assert.Len(t, cfg.ImpactCategories, tc.categories)
			assert.Len(t, cfg.Boundary.Stages, tc.stages)
			assert.InDelta(t, tc.cutoff, cfg.Cutoff.Mass, 1e-12)
			assert.Equal(t, tc.iterations, cfg.Uncertainty.Iterations)
			assert.Equal(t, AttributeEmissions, cfg.StageAttribution)

			result := ValidateConfig(cfg)
			assert.True(t, result.Valid, result.Errors)
			assert.NoError(t, result.Err())
		})
	}
}

func TestPresetIsFreshCopy(t *testing.T) {
	first, err := Preset(PresetProfessional)
	require.NoError(t, err)
	first.Boundary.Stages[0] = model.StageUse
	first.ImpactCategories = append(first.ImpactCategories[:0], factors.AbioticDepletion)

	second, err := Preset(PresetProfessional)
	require.NoError(t, err)
	assert.Equal(t, model.StageRawMaterial, second.Boundary.Stages[0])
	assert.Equal(t, factors.GWP, second.ImpactCategories[0])
}

func TestPresetUnknown(t *testing.T) {
	_, err := Preset("platinum")
	require.ErrorIs(t, err, ErrUnknownPreset)
}

func TestCreateCustomConfig(t *testing.T) {
	t.Run("overrides replace non-zero fields", func(t *testing.T) {
		cfg, err := CreateCustomConfig(PresetBasic, CalculationConfig{
			Cutoff:      CutoffCriteria{Mass: 0.05},
			Uncertainty: UncertaintyConfig{Enabled: true, Iterations: 500, Seed: 7},
			Boundary:    SystemBoundary{Stages: []model.LifecycleStage{model.StageUse}},
		})
		require.NoError(t, err)

		assert.Equal(t, "basic+custom", cfg.Name)
		assert.InDelta(t, 0.05, cfg.Cutoff.Mass, 1e-12)
		assert.InDelta(t, 0.01, cfg.Cutoff.Energy, 1e-12, "untouched fields keep the preset value")
		assert.True(t, cfg.Uncertainty.Enabled)
		assert.Equal(t, 500, cfg.Uncertainty.Iterations)
		assert.Equal(t, uint64(7), cfg.Uncertainty.Seed)
		assert.InDelta(t, DefaultConfidenceLevel, cfg.Uncertainty.ConfidenceLevel, 1e-12)
		assert.Equal(t, []model.LifecycleStage{model.StageUse}, cfg.Boundary.Stages)
		assert.Equal(t, CradleToGate, cfg.Boundary.Type)
		assert.Equal(t, factors.TableBasic, cfg.Factors.Name())
	})

	t.Run("factor table by name", func(t *testing.T) {
		cfg, err := CreateCustomConfig(PresetBasic, CalculationConfig{
			Name:        "regional",
			FactorTable: factors.TableResearch,
		})
		require.NoError(t, err)
		assert.Equal(t, "regional", cfg.Name)
		assert.Equal(t, factors.TableResearch, cfg.Factors.Name())
	})

	t.Run("explicit factor table", func(t *testing.T) {
		table, err := factors.NewTable("tiny", []factors.Factor{{Substance: "co2", Category: factors.GWP, Value: 1}})
		require.NoError(t, err)

		cfg, err := CreateCustomConfig(PresetProfessional, CalculationConfig{Factors: table})
		require.NoError(t, err)
		assert.Same(t, table, cfg.Factors)
		assert.Equal(t, "tiny", cfg.FactorTable)
	})

	t.Run("unknown base", func(t *testing.T) {
		_, err := CreateCustomConfig("nope", CalculationConfig{})
		require.ErrorIs(t, err, ErrUnknownPreset)
	})

	t.Run("unknown factor table", func(t *testing.T) {
		_, err := CreateCustomConfig(PresetBasic, CalculationConfig{FactorTable: "nope"})
		require.ErrorIs(t, err, factors.ErrUnknownTable)
	})
}

func TestWithoutUncertainty(t *testing.T) {
	cfg, err := Preset(PresetResearch)
	require.NoError(t, err)

	off := WithoutUncertainty(cfg)
	assert.False(t, off.Uncertainty.Active())
	assert.True(t, cfg.Uncertainty.Active())
}

func TestValidateConfig(t *testing.T) {
	valid := func(t *testing.T) CalculationConfig {
		t.Helper()
		cfg, err := Preset(PresetProfessional)
		require.NoError(t, err)
		return cfg
	}

	tests := []struct {
		name      string
		mutate    func(*CalculationConfig)
		wantError string
		wantWarn  string
	}{
		{
			name:      "missing impact method",
			mutate:    func(c *CalculationConfig) { c.ImpactMethod = "" },
			wantError: "impact method is required",
		},
		{
			name:      "empty boundary",
			mutate:    func(c *CalculationConfig) { c.Boundary.Stages = nil },
			wantError: "system boundary must include",
		},
		{
			name:      "cutoff above one",
			mutate:    func(c *CalculationConfig) { c.Cutoff.Energy = 1.5 },
			wantError: "energy cutoff",
		},
		{
			name:      "negative cutoff",
			mutate:    func(c *CalculationConfig) { c.Cutoff.Mass = -0.1 },
			wantError: "mass cutoff",
		},
		{
			name:      "confidence too low",
			mutate:    func(c *CalculationConfig) { c.Uncertainty.ConfidenceLevel = 0.4 },
			wantError: "confidence level",
		},
		{
			name:      "allocation factor zero",
			mutate:    func(c *CalculationConfig) { c.Allocation.Factor = 0 },
			wantError: "allocation factor",
		},
		{
			name:      "missing factor table",
			mutate:    func(c *CalculationConfig) { c.Factors = nil },
			wantError: "factor table is not set",
		},
		{
			name:      "unknown category",
			mutate:    func(c *CalculationConfig) { c.ImpactCategories = []factors.ImpactCategory{"noise"} },
			wantError: `unknown impact category "noise"`,
		},
		{
			name:     "few iterations",
			mutate:   func(c *CalculationConfig) { c.Uncertainty.Iterations = 50 },
			wantWarn: "Monte Carlo iterations 50",
		},
		{
			name: "table without GWP",
			mutate: func(c *CalculationConfig) {
				c.Factors, _ = factors.NewTable("acid", []factors.Factor{
					{Substance: "so2", Category: factors.Acidification, Value: 1},
				})
			},
			wantWarn: "has no GWP factors",
		},
		{
			name:     "legacy stage attribution",
			mutate:   func(c *CalculationConfig) { c.StageAttribution = AttributeNodeCount },
			wantWarn: "node count",
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			cfg := valid(t)
			tc.mutate(&cfg)

			r := ValidateConfig(cfg)

			if tc.wantError != "" {
				assert.False(t, r.Valid)
				require.NotEmpty(t, r.Errors)
				assert.Contains(t, r.Errors[0], tc.wantError)

				var cfgErr *ConfigurationError
				require.ErrorAs(t, r.Err(), &cfgErr)
				assert.Contains(t, cfgErr.Error(), tc.wantError)
			} else {
				assert.True(t, r.Valid, r.Errors)
			}
			if tc.wantWarn != "" {
				joined := ""
				for _, w := range r.Warnings {
					joined += w + "\n"
				}
				assert.Contains(t, joined, tc.wantWarn)
			}
		})
	}
}

func TestSystemBoundary(t *testing.T) {
	b := SystemBoundary{Type: CradleToGate, Stages: []model.LifecycleStage{model.StageRawMaterial, model.StageManufacture}}
	assert.Equal(t, "cradle_to_gate (raw_material, manufacturing)", b.String())
	assert.True(t, b.Includes(model.StageManufacture))
	assert.False(t, b.Includes(model.StageUse))
}

func TestLoadOverrides(t *testing.T) {
	path := filepath.Join(t.TempDir(), "overrides.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
name: site-study
impact_categories: [gwp, acidification]
uncertainty:
  iterations: 2000
  seed: 42
stage_attribution: node_count
`), 0o600))

	overrides, err := LoadOverrides(path)
	require.NoError(t, err)

	cfg, err := CreateCustomConfig(PresetProfessional, overrides)
	require.NoError(t, err)
	assert.Equal(t, "site-study", cfg.Name)
	assert.Equal(t, []factors.ImpactCategory{factors.GWP, factors.Acidification}, cfg.ImpactCategories)
	assert.Equal(t, 2000, cfg.Uncertainty.Iterations)
	assert.Equal(t, AttributeNodeCount, cfg.StageAttribution)

	_, err = LoadOverrides(filepath.Join(t.TempDir(), "missing.yaml"))
	require.Error(t, err)
}
