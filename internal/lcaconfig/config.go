// Package lcaconfig builds the calculation configurations the engine
// consumes: four presets of increasing rigor, custom configurations
// merged over a preset, and validation that collects problems instead of
// failing on the first one.
package lcaconfig

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/carbonflow/carbonflow/internal/factors"
	"github.com/carbonflow/carbonflow/internal/model"
)

// MethodologyISO is the only supported LCA framework.
const MethodologyISO = "ISO 14040/14044"

// BoundaryType names the life-cycle scope of a study.
type BoundaryType string

// Boundary types.
const (
	CradleToGate   BoundaryType = "cradle_to_gate"
	CradleToGrave  BoundaryType = "cradle_to_grave"
	GateToGate     BoundaryType = "gate_to_gate"
	CradleToCradle BoundaryType = "cradle_to_cradle"
)

// AllocationMethod names how shared burdens are split between co-products.
type AllocationMethod string

// Allocation methods.
const (
	AllocationNone     AllocationMethod = "none"
	AllocationMass     AllocationMethod = "mass"
	AllocationEconomic AllocationMethod = "economic"
	AllocationPhysical AllocationMethod = "physical"
	AllocationCausal   AllocationMethod = "causal"
)

// StageAttribution selects how the lifecycle-stage breakdown is computed.
type StageAttribution string

const (
	// AttributeEmissions sums the GWP of each stage's nodes.
	AttributeEmissions StageAttribution = "emissions"
	// AttributeNodeCount weights stages by nodeCount/10, kept for
	// comparability with results produced by the legacy tool.
	AttributeNodeCount StageAttribution = "node_count"
)

// SystemBoundary is the set of stages a study includes.
type SystemBoundary struct {
	Type   BoundaryType           `json:"type" yaml:"type"`
	Stages []model.LifecycleStage `json:"stages" yaml:"stages"`
}

// String renders "cradle_to_gate (raw_material, manufacturing)".
func (b SystemBoundary) String() string {
	s := string(b.Type)
	for i, st := range b.Stages {
		if i == 0 {
			s += " ("
		} else {
			s += ", "
		}
		s += string(st)
	}
	if len(b.Stages) > 0 {
		s += ")"
	}
	return s
}

// Includes reports whether stage is inside the boundary.
func (b SystemBoundary) Includes(stage model.LifecycleStage) bool {
	for _, s := range b.Stages {
		if s == stage {
			return true
		}
	}
	return false
}

// CutoffCriteria are fractions of the respective totals below which an
// input may be excluded.
type CutoffCriteria struct {
	Mass          float64 `json:"mass" yaml:"mass"`
	Energy        float64 `json:"energy" yaml:"energy"`
	Environmental float64 `json:"environmental" yaml:"environmental"`
}

// AllocationConfig applies one factor uniformly to the inventory.
type AllocationConfig struct {
	Method AllocationMethod `json:"method" yaml:"method"`
	Factor float64          `json:"factor" yaml:"factor"`
}

// UncertaintyConfig configures Monte Carlo analysis.
type UncertaintyConfig struct {
	Enabled         bool    `json:"enabled" yaml:"enabled"`
	Iterations      int     `json:"iterations" yaml:"iterations"`
	ConfidenceLevel float64 `json:"confidence_level" yaml:"confidence_level"`
	// Perturbation is the half-width of the uniform noise applied to each
	// node's footprint, as a fraction (0.1 = ±10%).
	Perturbation float64 `json:"perturbation" yaml:"perturbation"`
	// Seed makes runs reproducible; 0 picks a random seed.
	Seed    uint64 `json:"seed" yaml:"seed"`
	Workers int    `json:"workers" yaml:"workers"`
}

// Active reports whether Monte Carlo should run.
func (u UncertaintyConfig) Active() bool {
	return u.Enabled && u.Iterations > 0
}

// CalculationConfig is everything the engine needs besides the product system.
type CalculationConfig struct {
	Name             string                   `json:"name" yaml:"name"`
	Description      string                   `json:"description,omitempty" yaml:"description,omitempty"`
	Methodology      string                   `json:"methodology" yaml:"methodology"`
	ImpactMethod     string                   `json:"impact_method" yaml:"impact_method"`
	FactorTable      string                   `json:"factor_table" yaml:"factor_table"`
	ImpactCategories []factors.ImpactCategory `json:"impact_categories" yaml:"impact_categories"`
	Boundary         SystemBoundary           `json:"boundary" yaml:"boundary"`
	Cutoff           CutoffCriteria           `json:"cutoff" yaml:"cutoff"`
	Allocation       AllocationConfig         `json:"allocation" yaml:"allocation"`
	Uncertainty      UncertaintyConfig        `json:"uncertainty" yaml:"uncertainty"`
	StageAttribution StageAttribution         `json:"stage_attribution" yaml:"stage_attribution"`

	// Factors is the characterization factor table; never serialized.
	Factors *factors.Table `json:"-" yaml:"-"`
}

// LoadOverrides reads a partial CalculationConfig from a YAML file for
// use with CreateCustomConfig.
func LoadOverrides(path string) (CalculationConfig, error) {
	var cfg CalculationConfig
	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("reading overrides: %w", err)
	}
	if err = yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("parsing overrides %s: %w", path, err)
	}
	return cfg, nil
}
