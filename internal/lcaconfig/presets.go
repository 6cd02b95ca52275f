package lcaconfig

import (
	"fmt"

	"dario.cat/mergo"

	"github.com/carbonflow/carbonflow/internal/factors"
	"github.com/carbonflow/carbonflow/internal/model"
)

// Preset names.
const (
	PresetBasic           = "basic"
	PresetProfessional    = "professional"
	PresetResearch        = "research"
	PresetCarbonFootprint = "carbon_footprint"
)

// Defaults shared by every preset.
const (
	DefaultConfidenceLevel = 0.95
	DefaultPerturbation    = 0.1
	DefaultAllocation      = 1.0
)

// ErrUnknownPreset indicates a preset name that does not exist.
var ErrUnknownPreset = constError("unknown configuration preset")

// constError is an immutable error type for sentinel errors.
type constError string

func (e constError) Error() string { return string(e) }

// PresetNames lists the presets from least to most rigorous, then the
// carbon-only preset.
func PresetNames() []string {
	return []string{PresetBasic, PresetProfessional, PresetResearch, PresetCarbonFootprint}
}

// Preset builds a fresh copy of a named preset, including its own factor
// table. Mutating the result never affects later calls.
func Preset(name string) (CalculationConfig, error) {
	var cfg CalculationConfig
	switch name {
	case PresetBasic:
		cfg = CalculationConfig{
			Description:      "Screening assessment: GWP only, cradle-to-gate, no uncertainty analysis",
			ImpactMethod:     "IPCC 2013 GWP100",
			FactorTable:      factors.TableBasic,
			ImpactCategories: []factors.ImpactCategory{factors.GWP},
			Boundary: SystemBoundary{
				Type:   CradleToGate,
				Stages: []model.LifecycleStage{model.StageRawMaterial, model.StageManufacture},
			},
			Cutoff:     CutoffCriteria{Mass: 0.01, Energy: 0.01, Environmental: 0.01},
			Allocation: AllocationConfig{Method: AllocationMass, Factor: DefaultAllocation},
			Uncertainty: UncertaintyConfig{
				ConfidenceLevel: DefaultConfidenceLevel,
				Perturbation:    DefaultPerturbation,
			},
		}
	case PresetProfessional:
		cfg = CalculationConfig{
			Description:  "Full assessment: four CML categories, cradle-to-grave, 10,000 Monte Carlo iterations",
			ImpactMethod: "CML-IA baseline",
			FactorTable:  factors.TableProfessional,
			ImpactCategories: []factors.ImpactCategory{
				factors.GWP, factors.Acidification, factors.Eutrophication, factors.OzoneDepletion,
			},
			Boundary:   SystemBoundary{Type: CradleToGrave, Stages: model.AllStages()},
			Cutoff:     CutoffCriteria{Mass: 0.005, Energy: 0.005, Environmental: 0.005},
			Allocation: AllocationConfig{Method: AllocationEconomic, Factor: DefaultAllocation},
			Uncertainty: UncertaintyConfig{
				Enabled:         true,
				Iterations:      10000,
				ConfidenceLevel: DefaultConfidenceLevel,
				Perturbation:    DefaultPerturbation,
			},
		}
	case PresetResearch:
		cfg = CalculationConfig{
			Description:  "Research grade: all six categories, cradle-to-grave, 50,000 Monte Carlo iterations",
			ImpactMethod: "CML-IA baseline",
			FactorTable:  factors.TableResearch,
			ImpactCategories: []factors.ImpactCategory{
				factors.GWP, factors.Acidification, factors.Eutrophication, factors.OzoneDepletion,
				factors.PhotochemicalOxidation, factors.AbioticDepletion,
			},
			Boundary:   SystemBoundary{Type: CradleToGrave, Stages: model.AllStages()},
			Cutoff:     CutoffCriteria{Mass: 0.001, Energy: 0.001, Environmental: 0.001},
			Allocation: AllocationConfig{Method: AllocationPhysical, Factor: DefaultAllocation},
			Uncertainty: UncertaintyConfig{
				Enabled:         true,
				Iterations:      50000,
				ConfidenceLevel: DefaultConfidenceLevel,
				Perturbation:    DefaultPerturbation,
			},
		}
	case PresetCarbonFootprint:
		cfg = CalculationConfig{
			Description:      "Product carbon footprint (ISO 14067): extended GWP factors, cradle-to-grave",
			ImpactMethod:     "IPCC 2013 GWP100",
			FactorTable:      factors.TableCarbon,
			ImpactCategories: []factors.ImpactCategory{factors.GWP},
			Boundary:         SystemBoundary{Type: CradleToGrave, Stages: model.AllStages()},
			Cutoff:           CutoffCriteria{Mass: 0.01, Energy: 0.01, Environmental: 0.01},
			Allocation:       AllocationConfig{Method: AllocationMass, Factor: DefaultAllocation},
			Uncertainty: UncertaintyConfig{
				Enabled:         true,
				Iterations:      1000,
				ConfidenceLevel: DefaultConfidenceLevel,
				Perturbation:    DefaultPerturbation,
			},
		}
	default:
		return CalculationConfig{}, fmt.Errorf("%w: %q", ErrUnknownPreset, name)
	}

	cfg.Name = name
	cfg.Methodology = MethodologyISO
	cfg.StageAttribution = AttributeEmissions
	table, err := factors.Builtin(cfg.FactorTable)
	if err != nil {
		return CalculationConfig{}, err
	}
	cfg.Factors = table
	return cfg, nil
}

// CreateCustomConfig merges overrides over the named preset. Every
// non-zero field of overrides replaces the preset's; slices are replaced
// whole. A different FactorTable name loads that built-in table unless
// overrides also carries its own Factors.
func CreateCustomConfig(base string, overrides CalculationConfig) (CalculationConfig, error) {
	cfg, err := Preset(base)
	if err != nil {
		return CalculationConfig{}, err
	}

	table := overrides.Factors
	overrides.Factors = nil
	if err = mergo.Merge(&cfg, overrides, mergo.WithOverride); err != nil {
		return CalculationConfig{}, fmt.Errorf("merging overrides into %s: %w", base, err)
	}

	switch {
	case table != nil:
		cfg.Factors = table
		cfg.FactorTable = table.Name()
	case overrides.FactorTable != "" && overrides.FactorTable != cfg.Factors.Name():
		if cfg.Factors, err = factors.Builtin(overrides.FactorTable); err != nil {
			return CalculationConfig{}, err
		}
	}
	if overrides.Name == "" {
		cfg.Name = base + "+custom"
	}
	return cfg, nil
}

// WithoutUncertainty returns cfg with Monte Carlo disabled. Zero values
// never override in CreateCustomConfig, so disabling needs its own call.
func WithoutUncertainty(cfg CalculationConfig) CalculationConfig {
	cfg.Uncertainty.Enabled = false
	cfg.Uncertainty.Iterations = 0
	return cfg
}
