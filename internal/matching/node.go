package matching

import (
	"context"
	"fmt"

	"github.com/carbonflow/carbonflow/internal/greenops"
	"github.com/carbonflow/carbonflow/internal/model"
)

// Suffixes of synthesized flow ids.
const (
	LegacyEmissionSuffix = "#emission"
	LegacyInputSuffix    = "#input"
)

// CarbonSubstance is the substance synthesized emissions are expressed in.
const CarbonSubstance = "co2"

// NodeMatchSummary aggregates the matches of every flow of one node.
type NodeMatchSummary struct {
	NodeID        string            `json:"node_id" yaml:"node_id"`
	Total         int               `json:"total" yaml:"total"`
	Matched       int               `json:"matched" yaml:"matched"`
	LowConfidence int               `json:"low_confidence" yaml:"low_confidence"`
	Unmatched     int               `json:"unmatched" yaml:"unmatched"`
	Synthesized   bool              `json:"synthesized,omitempty" yaml:"synthesized,omitempty"`
	Results       []FlowMatchResult `json:"results" yaml:"results"`
	Suggestions   []string          `json:"suggestions,omitempty" yaml:"suggestions,omitempty"`
}

// NodeContextOf returns the matching hints of a node.
func NodeContextOf(node model.Node) *NodeContext {
	return &NodeContext{
		LifecycleStage: string(node.Data.LifecycleStage),
		EmissionType:   node.Data.EmissionType,
	}
}

// BatchMatchNodeFlows matches every flow the node references across its
// material, energy, emission, waste and service buckets. References
// missing from the registry count as unmatched. A node without references
// is matched through the flows CreateFlowsFromNode synthesizes.
func (s *Service) BatchMatchNodeFlows(ctx context.Context, node model.Node, registry model.FlowRegistry) NodeMatchSummary {
	summary := NodeMatchSummary{NodeID: node.ID}
	nc := NodeContextOf(node)

	var flows []model.Flow
	var missing []string
	if node.Data.LCAFlows.Empty() {
		flows = CreateFlowsFromNode(node)
		summary.Synthesized = len(flows) > 0
	} else {
		for _, id := range node.Data.LCAFlows.All() {
			f, ok := registry[id]
			if !ok {
				missing = append(missing, id)
				continue
			}
			flows = append(flows, f)
		}
	}

	for _, f := range flows {
		r := s.MatchFlowFactors(ctx, f, nc)
		summary.Results = append(summary.Results, r)
		switch {
		case !r.Matched():
			summary.Unmatched++
		case r.LowConfidence():
			summary.Matched++
			summary.LowConfidence++
		default:
			summary.Matched++
		}
	}
	for _, id := range missing {
		summary.Results = append(summary.Results, FlowMatchResult{
			FlowID:          id,
			Status:          StatusNone,
			Recommendations: []string{fmt.Sprintf("Flow %q is referenced by node %q but missing from the flow registry", id, node.ID)},
		})
		summary.Unmatched++
	}
	summary.Total = len(summary.Results)

	if summary.Unmatched > 0 {
		summary.Suggestions = append(summary.Suggestions,
			fmt.Sprintf("%d of %d flows have no characterization factor; add user mappings or a custom factor table",
				summary.Unmatched, summary.Total))
	}
	if summary.LowConfidence > 0 {
		summary.Suggestions = append(summary.Suggestions,
			fmt.Sprintf("%d flows matched with confidence below %.0f%%; review the suggested factors",
				summary.LowConfidence, LowConfidenceThreshold*100))
	}
	return summary
}

// CreateFlowsFromNode synthesizes flows for a legacy node that carries
// only emissionType, quantity and carbonFactor. It returns nil when the
// node references flows or has nothing to synthesize from.
//
// The emission flow is the node's footprint in kg CO2e. When the node's
// unit is a mass or energy unit, an input flow of the emission type is
// added for the inventory totals.
func CreateFlowsFromNode(node model.Node) []model.Flow {
	if !node.Data.LCAFlows.Empty() {
		return nil
	}

	var flows []model.Flow
	if fp := node.Footprint(); fp != 0 {
		flows = append(flows, model.Flow{
			ID:        node.ID + LegacyEmissionSuffix,
			Name:      emissionName(node),
			Category:  model.FlowEmission,
			Direction: model.DirectionOutput,
			Quantity:  model.Number(fp),
			Unit:      greenops.MassUnit,
			Substance: CarbonSubstance,
		})
	}

	qty := node.Data.Quantity.Float()
	if qty == 0 || node.Data.EmissionType == "" {
		return flows
	}
	var category model.FlowCategory
	switch greenops.Classify(node.Data.Unit) {
	case greenops.UnitMass:
		category = model.FlowMaterial
	case greenops.UnitEnergy:
		category = model.FlowEnergy
	default:
		return flows
	}
	return append(flows, model.Flow{
		ID:        node.ID + LegacyInputSuffix,
		Name:      node.Data.EmissionType,
		Category:  category,
		Direction: model.DirectionInput,
		Quantity:  model.Number(qty),
		Unit:      node.Data.Unit,
	})
}

func emissionName(node model.Node) string {
	if node.Data.EmissionType != "" {
		return node.Data.EmissionType + " (CO2-eq)"
	}
	return node.DisplayName() + " (CO2-eq)"
}
