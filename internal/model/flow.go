// Package model defines the product-system inputs (flows, process nodes,
// edges, functional unit) and the result types produced by the LCA engine.
package model

import "fmt"

// FlowCategory classifies a flow crossing a process boundary.
type FlowCategory string

// Flow categories.
const (
	FlowMaterial    FlowCategory = "material"
	FlowEnergy      FlowCategory = "energy"
	FlowEmission    FlowCategory = "emission"
	FlowWaste       FlowCategory = "waste"
	FlowService     FlowCategory = "service"
	FlowResource    FlowCategory = "resource"
	FlowInformation FlowCategory = "information"
)

// Valid reports whether c is a known flow category.
func (c FlowCategory) Valid() bool {
	switch c {
	case FlowMaterial, FlowEnergy, FlowEmission, FlowWaste,
		FlowService, FlowResource, FlowInformation:
		return true
	default:
		return false
	}
}

// Direction tells whether a flow enters or leaves a process.
type Direction string

// Flow directions.
const (
	DirectionInput  Direction = "input"
	DirectionOutput Direction = "output"
)

// DataQualityScores holds the five pedigree sub-scores of a flow.
// Every score is on the 1 (best) to 5 (worst) scale; zero means unset.
type DataQualityScores struct {
	Reliability              int `json:"reliability" yaml:"reliability"`
	Completeness             int `json:"completeness" yaml:"completeness"`
	TemporalCorrelation      int `json:"temporal_correlation" yaml:"temporal_correlation"`
	GeographicalCorrelation  int `json:"geographical_correlation" yaml:"geographical_correlation"`
	TechnologicalCorrelation int `json:"technological_correlation" yaml:"technological_correlation"`
}

// Validate checks that every set score lies in 1..5.
func (d DataQualityScores) Validate() error {
	scores := []DimensionScore{
		{Name: "reliability", Score: d.Reliability},
		{Name: "completeness", Score: d.Completeness},
		{Name: "temporal_correlation", Score: d.TemporalCorrelation},
		{Name: "geographical_correlation", Score: d.GeographicalCorrelation},
		{Name: "technological_correlation", Score: d.TechnologicalCorrelation},
	}
	for _, s := range scores {
		if s.Score != 0 && (s.Score < MinQualityScore || s.Score > MaxQualityScore) {
			return fmt.Errorf("%s score %d outside %d..%d", s.Name, s.Score, MinQualityScore, MaxQualityScore)
		}
	}
	return nil
}

// Flow is a typed quantity crossing a process boundary; the basic
// accounting unit of the inventory.
type Flow struct {
	ID        string       `json:"id" yaml:"id"`
	Name      string       `json:"name" yaml:"name"`
	Category  FlowCategory `json:"category" yaml:"category"`
	Direction Direction    `json:"direction" yaml:"direction"`
	Quantity  Number       `json:"quantity" yaml:"quantity"`
	Unit      string       `json:"unit" yaml:"unit"`

	// Substance is the characterization key; Name is used when empty.
	Substance string `json:"substance,omitempty" yaml:"substance,omitempty"`

	// Compartment is the receiving environment of an emission (air, water, soil).
	Compartment string `json:"compartment,omitempty" yaml:"compartment,omitempty"`

	DataQuality *DataQualityScores `json:"data_quality,omitempty" yaml:"data_quality,omitempty"`

	// PinnedFactorIDs are factor ids chosen by hand in the flow manager.
	PinnedFactorIDs []string `json:"pinned_factor_ids,omitempty" yaml:"pinned_factor_ids,omitempty"`
}

// SubstanceName returns the characterization key of the flow.
func (f Flow) SubstanceName() string {
	if f.Substance != "" {
		return f.Substance
	}
	return f.Name
}

// FlowRegistry maps flow ids to flows.
type FlowRegistry map[string]Flow
