package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/carbonflow/carbonflow/internal/factors"
	"github.com/carbonflow/carbonflow/internal/greenops"
	"github.com/carbonflow/carbonflow/internal/lcaconfig"
	"github.com/carbonflow/carbonflow/internal/model"
)

// Recommendation thresholds.
const (
	dominantShare      = 0.5
	highVariation      = 0.2
	poorQualityOverall = 3.0
)

// CarbonFootprint is the GWP-only view of an assessment.
type CarbonFootprint struct {
	Total             float64                  `json:"total" yaml:"total"`
	Unit              string                   `json:"unit" yaml:"unit"`
	PerFunctionalUnit float64                  `json:"per_functional_unit" yaml:"per_functional_unit"`
	FunctionalUnit    string                   `json:"functional_unit" yaml:"functional_unit"`
	ByStage           model.Breakdown          `json:"by_stage" yaml:"by_stage"`
	ByProcess         model.Breakdown          `json:"by_process" yaml:"by_process"`
	Uncertainty       *model.UncertaintyResult `json:"uncertainty,omitempty" yaml:"uncertainty,omitempty"`
	Equivalencies     greenops.Equivalencies   `json:"equivalencies" yaml:"equivalencies"`
	Recommendations   []string                 `json:"recommendations,omitempty" yaml:"recommendations,omitempty"`
	Result            *model.LCAResult         `json:"-" yaml:"-"`
}

// CalculateCarbonFootprint assesses with the carbon_footprint preset,
// merged with overrides when given.
func (s *Service) CalculateCarbonFootprint(
	ctx context.Context,
	sys model.ProductSystem,
	overrides *lcaconfig.CalculationConfig,
) (*CarbonFootprint, error) {
	res, err := s.assessPreset(ctx, sys, lcaconfig.PresetCarbonFootprint, overrides)
	if err != nil {
		return nil, err
	}
	return FootprintOf(res)
}

// FootprintOf derives the carbon footprint view of a result.
func FootprintOf(res *model.LCAResult) (*CarbonFootprint, error) {
	fp := &CarbonFootprint{
		Total:             res.GWP(),
		Unit:              greenops.CarbonUnit,
		PerFunctionalUnit: res.SystemInfo.PerFunctionalUnit,
		FunctionalUnit:    res.SystemInfo.FunctionalUnit,
		ByStage:           res.Contributions.ByStage,
		ByProcess:         res.Contributions.ByProcess,
		Uncertainty:       res.Uncertainty,
		Result:            res,
	}

	if fp.Total >= 0 {
		eq, err := greenops.CalculateKg(fp.Total)
		if err != nil {
			return nil, fmt.Errorf("calculating equivalencies: %w", err)
		}
		fp.Equivalencies = eq
	}
	fp.Recommendations = footprintRecommendations(res)
	return fp, nil
}

// footprintRecommendations derives rule-based advice from a result.
func footprintRecommendations(res *model.LCAResult) []string {
	var recs []string
	c := res.Contributions

	if len(c.ByStage) > 0 {
		top := c.ByStage[0]
		recs = append(recs, fmt.Sprintf("The %s stage contributes %s of the footprint; prioritize reductions there",
			top.Label, greenops.FormatPercent(top.RelativeContribution*100)))
	}
	if len(c.ByProcess) > 1 && c.ByProcess[0].RelativeContribution >= dominantShare {
		top := c.ByProcess[0]
		recs = append(recs, fmt.Sprintf("Process %s dominates with %s; look for lower-carbon suppliers or materials",
			top.Label, greenops.FormatPercent(top.RelativeContribution*100)))
	}
	for _, e := range c.ByEnergy {
		if strings.Contains(e.Key, "electricity") && !strings.Contains(e.Key, "renewable") {
			recs = append(recs, "Switch grid electricity to renewable supply to cut energy-related emissions")
			break
		}
	}
	if u := res.Uncertainty; u != nil && u.CoefficientOfVariation > highVariation {
		recs = append(recs, fmt.Sprintf("Results vary by %s; collect primary data for the largest contributors",
			greenops.FormatPercent(u.CoefficientOfVariation*100)))
	}
	if res.DataQuality.OverallScore > poorQualityOverall {
		recs = append(recs, "Data quality is below average; verify process data and record data sources")
	}
	if gwp, ok := res.Impact(factors.GWP); ok && len(gwp.UnmatchedSubstances) > 0 {
		recs = append(recs, fmt.Sprintf("No GWP factor was applied to %s; add user mappings to include them",
			strings.Join(gwp.UnmatchedSubstances, ", ")))
	}
	return recs
}
