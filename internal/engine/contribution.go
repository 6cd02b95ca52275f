package engine

import (
	"context"
	"sort"

	"github.com/carbonflow/carbonflow/internal/greenops"
	"github.com/carbonflow/carbonflow/internal/lcaconfig"
	"github.com/carbonflow/carbonflow/internal/model"
)

// legacyStageWeight is the per-node weight of the node_count attribution.
const legacyStageWeight = 0.1

func stepContribution(_ context.Context, r *run) (any, error) {
	r.contrib = model.ContributionResult{
		ByStage:    stageBreakdown(r),
		ByProcess:  processBreakdown(r),
		ByMaterial: flowBreakdown(r.inventory.Materials(), greenops.MassUnit),
		ByEnergy:   flowBreakdown(r.inventory.Energy(), greenops.EnergyUnit),
	}
	return &r.contrib, nil
}

func processBreakdown(r *run) model.Breakdown {
	labels := make(map[string]string, len(r.in.Nodes))
	for _, n := range r.in.Nodes {
		labels[n.ID] = n.DisplayName()
	}
	return NewBreakdown(r.nodeGWP, labels, greenops.CarbonUnit)
}

func stageBreakdown(r *run) model.Breakdown {
	values := make(map[string]float64)
	labels := make(map[string]string)
	unit := greenops.CarbonUnit

	for _, n := range r.in.Nodes {
		st := n.Data.LifecycleStage
		key := string(st)
		if st == model.StageUnknown {
			key = st.Label()
		}
		labels[key] = st.Label()
		if r.in.Config.StageAttribution == lcaconfig.AttributeNodeCount {
			values[key] += legacyStageWeight
			unit = "nodes/10"
			continue
		}
		values[key] += r.nodeGWP[n.ID]
	}
	return NewBreakdown(values, labels, unit)
}

// flowBreakdown aggregates entries by name. Entries not in the canonical
// unit are left out.
func flowBreakdown(entries []model.InventoryEntry, unit string) model.Breakdown {
	values := make(map[string]float64)
	for _, e := range entries {
		if e.Unit != unit {
			continue
		}
		name := e.Name
		if name == "" {
			name = e.Substance
		}
		values[name] += e.Quantity
	}
	return NewBreakdown(values, nil, unit)
}

// NewBreakdown ranks positive values by size. Relative contributions are
// shares of the positive total; the breakdown is empty when that total is
// zero. Missing labels default to the key.
func NewBreakdown(values map[string]float64, labels map[string]string, unit string) model.Breakdown {
	var total float64
	keys := make([]string, 0, len(values))
	for k, v := range values {
		if v > 0 {
			total += v
			keys = append(keys, k)
		}
	}
	if total <= 0 {
		return model.Breakdown{}
	}

	sort.Slice(keys, func(i, j int) bool {
		vi, vj := values[keys[i]], values[keys[j]]
		if vi != vj {
			return vi > vj
		}
		return keys[i] < keys[j]
	})

	out := make(model.Breakdown, len(keys))
	for i, k := range keys {
		label := labels[k]
		if label == "" {
			label = k
		}
		out[i] = model.ContributionEntry{
			Key:                  k,
			Label:                label,
			AbsoluteValue:        values[k],
			RelativeContribution: values[k] / total,
			Unit:                 unit,
			Rank:                 i + 1,
		}
	}
	return out
}
