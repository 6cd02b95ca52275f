package engine

import (
	"context"
	"sort"

	"github.com/carbonflow/carbonflow/internal/factors"
	"github.com/carbonflow/carbonflow/internal/matching"
	"github.com/carbonflow/carbonflow/internal/model"
)

func stepImpact(ctx context.Context, r *run) (any, error) {
	// Match every emission once; the result serves all categories.
	matches := make(map[int]matching.FlowMatchResult)
	for i, it := range r.items {
		if it.entry.Category != model.FlowEmission {
			continue
		}
		matches[i] = r.matcher.MatchFlowFactors(ctx, it.flow, matching.NodeContextOf(it.node))
	}

	cats := r.in.Config.ImpactCategories
	r.impacts = make([]model.ImpactResult, 0, len(cats))
	for ci, c := range cats {
		info, err := factors.Info(c)
		if err != nil {
			return nil, computationErrorf(StepImpactAssessment, err, "impact category %s", c)
		}
		res := model.ImpactResult{
			Category:          c,
			Name:              info.Name,
			Unit:              info.Unit,
			Contributions:     make(map[string]float64),
			NodeContributions: make(map[string]float64),
		}
		unmatched := make(map[string]bool)
		for i, it := range r.items {
			m, ok := matches[i]
			if !ok {
				continue
			}
			f, found := factorFor(m, c)
			if !found {
				unmatched[it.entry.Substance] = true
				continue
			}
			v := it.entry.Quantity * f.Value
			res.Value += v
			res.Contributions[f.Substance] += v
			res.NodeContributions[it.entry.NodeID] += v
		}
		for s := range unmatched {
			res.UnmatchedSubstances = append(res.UnmatchedSubstances, s)
		}
		sort.Strings(res.UnmatchedSubstances)
		r.impacts = append(r.impacts, res)
		r.progress(float64(ci+1) / float64(len(cats)))
	}

	r.nodeGWP = nodeFootprints(r)
	return r.impacts, nil
}

func factorFor(m matching.FlowMatchResult, c factors.ImpactCategory) (factors.Factor, bool) {
	if !m.Usable() {
		return factors.Factor{}, false
	}
	return m.Factor(c)
}

// nodeFootprints returns each node's GWP contribution. Without a GWP
// assessment the node's declared footprint is used.
func nodeFootprints(r *run) map[string]float64 {
	for _, imp := range r.impacts {
		if imp.Category == factors.GWP {
			return imp.NodeContributions
		}
	}
	out := make(map[string]float64, len(r.in.Nodes))
	for _, n := range r.in.Nodes {
		out[n.ID] += n.Footprint()
	}
	return out
}
