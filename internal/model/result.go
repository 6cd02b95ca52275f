package model

import (
	"time"

	"github.com/carbonflow/carbonflow/internal/factors"
)

// Quality score bounds: 1 is best, 5 is worst.
const (
	MinQualityScore = 1
	MaxQualityScore = 5
)

// SystemInfo identifies the study a result belongs to.
type SystemInfo struct {
	StudyID           string    `json:"study_id" yaml:"study_id"`
	ProductName       string    `json:"product_name,omitempty" yaml:"product_name,omitempty"`
	FunctionalUnit    string    `json:"functional_unit" yaml:"functional_unit"`
	SystemBoundary    string    `json:"system_boundary" yaml:"system_boundary"`
	ImpactMethod      string    `json:"impact_method" yaml:"impact_method"`
	ConfigName        string    `json:"config_name" yaml:"config_name"`
	Timestamp         time.Time `json:"timestamp" yaml:"timestamp"`
	PerFunctionalUnit float64   `json:"gwp_per_functional_unit" yaml:"gwp_per_functional_unit"`
	Warnings          []string  `json:"warnings,omitempty" yaml:"warnings,omitempty"`
}

// InventoryEntry is one resolved flow of one process.
type InventoryEntry struct {
	NodeID      string         `json:"node_id" yaml:"node_id"`
	FlowID      string         `json:"flow_id" yaml:"flow_id"`
	Name        string         `json:"name" yaml:"name"`
	Substance   string         `json:"substance" yaml:"substance"`
	Category    FlowCategory   `json:"category" yaml:"category"`
	Direction   Direction      `json:"direction" yaml:"direction"`
	Stage       LifecycleStage `json:"stage" yaml:"stage"`
	Quantity    float64        `json:"quantity" yaml:"quantity"`
	Unit        string         `json:"unit" yaml:"unit"`
	Synthesized bool           `json:"synthesized,omitempty" yaml:"synthesized,omitempty"`
	BelowCutoff bool           `json:"below_cutoff,omitempty" yaml:"below_cutoff,omitempty"`
}

// InventoryResult is the life-cycle inventory of the whole system.
type InventoryResult struct {
	Entries          []InventoryEntry `json:"entries" yaml:"entries"`
	TotalMass        float64          `json:"total_mass" yaml:"total_mass"`
	MassUnit         string           `json:"mass_unit" yaml:"mass_unit"`
	TotalEnergy      float64          `json:"total_energy" yaml:"total_energy"`
	EnergyUnit       string           `json:"energy_unit" yaml:"energy_unit"`
	AllocationFactor float64          `json:"allocation_factor" yaml:"allocation_factor"`
}

// Emissions returns the emission entries.
func (r InventoryResult) Emissions() []InventoryEntry {
	return r.byCategory(FlowEmission)
}

// Materials returns material and resource entries.
func (r InventoryResult) Materials() []InventoryEntry {
	return append(r.byCategory(FlowMaterial), r.byCategory(FlowResource)...)
}

// Energy returns the energy entries.
func (r InventoryResult) Energy() []InventoryEntry {
	return r.byCategory(FlowEnergy)
}

func (r InventoryResult) byCategory(c FlowCategory) []InventoryEntry {
	var out []InventoryEntry
	for _, e := range r.Entries {
		if e.Category == c {
			out = append(out, e)
		}
	}
	return out
}

// ImpactResult is the characterized result of one impact category.
type ImpactResult struct {
	Category            factors.ImpactCategory `json:"category" yaml:"category"`
	Name                string                 `json:"name" yaml:"name"`
	Value               float64                `json:"value" yaml:"value"`
	Unit                string                 `json:"unit" yaml:"unit"`
	Contributions       map[string]float64     `json:"contributions" yaml:"contributions"`
	NodeContributions   map[string]float64     `json:"node_contributions" yaml:"node_contributions"`
	UnmatchedSubstances []string               `json:"unmatched_substances,omitempty" yaml:"unmatched_substances,omitempty"`
}

// ContributionEntry is one ranked row of a breakdown.
type ContributionEntry struct {
	Key                  string  `json:"key" yaml:"key"`
	Label                string  `json:"label" yaml:"label"`
	AbsoluteValue        float64 `json:"absolute_value" yaml:"absolute_value"`
	RelativeContribution float64 `json:"relative_contribution" yaml:"relative_contribution"`
	Unit                 string  `json:"unit" yaml:"unit"`
	Rank                 int     `json:"rank" yaml:"rank"`
}

// Breakdown is a ranked list of contributions; empty when the total is zero.
type Breakdown []ContributionEntry

// Top returns at most n leading entries.
func (b Breakdown) Top(n int) Breakdown {
	if n < 0 || n >= len(b) {
		return b
	}
	return b[:n]
}

// ContributionResult holds the four independent breakdowns.
type ContributionResult struct {
	ByStage    Breakdown `json:"by_stage" yaml:"by_stage"`
	ByProcess  Breakdown `json:"by_process" yaml:"by_process"`
	ByMaterial Breakdown `json:"by_material" yaml:"by_material"`
	ByEnergy   Breakdown `json:"by_energy" yaml:"by_energy"`
}

// UncertaintyResult summarizes the Monte Carlo distribution of the total
// carbon footprint.
type UncertaintyResult struct {
	Iterations             int     `json:"iterations" yaml:"iterations"`
	Mean                   float64 `json:"mean" yaml:"mean"`
	StdDev                 float64 `json:"std_dev" yaml:"std_dev"`
	ConfidenceLevel        float64 `json:"confidence_level" yaml:"confidence_level"`
	LowerBound             float64 `json:"lower_bound" yaml:"lower_bound"`
	UpperBound             float64 `json:"upper_bound" yaml:"upper_bound"`
	P5                     float64 `json:"p5" yaml:"p5"`
	P95                    float64 `json:"p95" yaml:"p95"`
	CoefficientOfVariation float64 `json:"coefficient_of_variation" yaml:"coefficient_of_variation"`
	Unit                   string  `json:"unit" yaml:"unit"`
}

// DataQualityResult holds the five pedigree dimensions and their mean.
type DataQualityResult struct {
	Reliability              int     `json:"reliability" yaml:"reliability"`
	Completeness             int     `json:"completeness" yaml:"completeness"`
	TemporalCorrelation      int     `json:"temporal_correlation" yaml:"temporal_correlation"`
	GeographicalCorrelation  int     `json:"geographical_correlation" yaml:"geographical_correlation"`
	TechnologicalCorrelation int     `json:"technological_correlation" yaml:"technological_correlation"`
	OverallScore             float64 `json:"overall_score" yaml:"overall_score"`
	VerifiedRatio            float64 `json:"verified_ratio" yaml:"verified_ratio"`
	CompletenessRatio        float64 `json:"completeness_ratio" yaml:"completeness_ratio"`
}

// Dimensions returns the five scores keyed by dimension name, in a fixed order.
func (d DataQualityResult) Dimensions() []DimensionScore {
	return []DimensionScore{
		{Name: "reliability", Score: d.Reliability},
		{Name: "completeness", Score: d.Completeness},
		{Name: "temporal_correlation", Score: d.TemporalCorrelation},
		{Name: "geographical_correlation", Score: d.GeographicalCorrelation},
		{Name: "technological_correlation", Score: d.TechnologicalCorrelation},
	}
}

// DimensionScore is a named data-quality score.
type DimensionScore struct {
	Name  string `json:"name" yaml:"name"`
	Score int    `json:"score" yaml:"score"`
}

// LCAResult is the complete output of a calculation session.
type LCAResult struct {
	SystemInfo    SystemInfo         `json:"system_info" yaml:"system_info"`
	Inventory     InventoryResult    `json:"inventory" yaml:"inventory"`
	Impacts       []ImpactResult     `json:"impacts" yaml:"impacts"`
	Contributions ContributionResult `json:"contributions" yaml:"contributions"`
	Uncertainty   *UncertaintyResult `json:"uncertainty,omitempty" yaml:"uncertainty,omitempty"`
	DataQuality   DataQualityResult  `json:"data_quality" yaml:"data_quality"`
}

// Impact returns the result for a category.
func (r *LCAResult) Impact(c factors.ImpactCategory) (ImpactResult, bool) {
	for _, i := range r.Impacts {
		if i.Category == c {
			return i, true
		}
	}
	return ImpactResult{}, false
}

// GWP returns the global warming potential total, zero when not assessed.
func (r *LCAResult) GWP() float64 {
	i, _ := r.Impact(factors.GWP)
	return i.Value
}
