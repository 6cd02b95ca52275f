package service

import (
	"context"
	"fmt"
	"maps"
	"slices"

	"github.com/carbonflow/carbonflow/internal/engine"
	"github.com/carbonflow/carbonflow/internal/lcaconfig"
	"github.com/carbonflow/carbonflow/internal/model"
)

// InputValidation is the outcome of ValidateInputData.
type InputValidation struct {
	Valid    bool     `json:"valid" yaml:"valid"`
	Errors   []string `json:"errors,omitempty" yaml:"errors,omitempty"`
	Warnings []string `json:"warnings,omitempty" yaml:"warnings,omitempty"`
}

// ValidateInputData runs the checks a calculation would fail on, plus
// the configuration checks and flow matching, without starting a
// session. Unmatched flows are warnings, not errors.
func (s *Service) ValidateInputData(
	ctx context.Context,
	sys model.ProductSystem,
	cfg lcaconfig.CalculationConfig,
) InputValidation {
	var v InputValidation

	if sys.ReferenceFlow == (model.FunctionalUnit{}) {
		sys.ReferenceFlow = sys.FunctionalUnit
	}
	for _, err := range engine.CheckStructure(engine.NewCalculationContext(sys, cfg)) {
		v.Errors = append(v.Errors, err.Error())
	}

	cv := lcaconfig.ValidateConfig(cfg)
	v.Errors = append(v.Errors, cv.Errors...)
	v.Warnings = append(v.Warnings, cv.Warnings...)

	for _, n := range sys.Nodes {
		for _, id := range n.Data.LCAFlows.All() {
			if _, ok := sys.Flows[id]; !ok {
				v.Errors = append(v.Errors, fmt.Sprintf("process %s references flow %s missing from the flow registry", n.ID, id))
			}
		}
		for _, id := range slices.Sorted(maps.Keys(n.Data.FlowOverrides)) {
			if ov := n.Data.FlowOverrides[id]; ov.Quantity != nil && ov.Quantity.Float() < 0 {
				v.Errors = append(v.Errors, fmt.Sprintf("process %s overrides flow %s with a negative quantity", n.ID, id))
			}
		}
		if n.Data.LCAFlows.Empty() && n.Footprint() == 0 {
			v.Warnings = append(v.Warnings, fmt.Sprintf("process %s has no flows and no carbon footprint", n.ID))
		}
	}
	for _, id := range slices.Sorted(maps.Keys(sys.Flows)) {
		f := sys.Flows[id]
		if !f.Category.Valid() {
			v.Errors = append(v.Errors, fmt.Sprintf("flow %s has unknown category %q", id, f.Category))
		}
		if f.DataQuality != nil {
			if err := f.DataQuality.Validate(); err != nil {
				v.Errors = append(v.Errors, fmt.Sprintf("flow %s: %v", id, err))
			}
		}
	}

	if cfg.Factors != nil {
		matcher := s.Matcher(cfg)
		for _, n := range sys.Nodes {
			summary := matcher.BatchMatchNodeFlows(ctx, n, sys.Flows)
			for _, sug := range summary.Suggestions {
				v.Warnings = append(v.Warnings, fmt.Sprintf("process %s: %s", n.ID, sug))
			}
		}
	}

	v.Valid = len(v.Errors) == 0
	return v
}
