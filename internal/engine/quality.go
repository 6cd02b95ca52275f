package engine

import (
	"context"
	"math"

	"github.com/carbonflow/carbonflow/internal/model"
)

// placeholderScore is used for a correlation dimension no flow scores.
const placeholderScore = 3

// ScoreRatio maps a ratio in [0,1], higher being better, to the 1 (best)
// to 5 (worst) pedigree scale.
func ScoreRatio(ratio float64) int {
	switch {
	case ratio >= 0.9:
		return 1
	case ratio >= 0.75:
		return 2
	case ratio >= 0.5:
		return 3
	case ratio >= 0.25:
		return 4
	default:
		return 5
	}
}

func stepDataQuality(_ context.Context, r *run) (any, error) {
	r.quality = assessQuality(r.in.Nodes, r.items)
	return &r.quality, nil
}

func assessQuality(nodes []model.Node, items []inventoryItem) model.DataQualityResult {
	var verified, filled, required int
	for _, n := range nodes {
		if n.Verified() {
			verified++
		}
		f, t := nodeFieldFill(n)
		filled += f
		required += t
	}

	q := model.DataQualityResult{}
	if len(nodes) > 0 {
		q.VerifiedRatio = float64(verified) / float64(len(nodes))
	}
	if required > 0 {
		q.CompletenessRatio = float64(filled) / float64(required)
	}
	q.Reliability = ScoreRatio(q.VerifiedRatio)
	q.Completeness = ScoreRatio(q.CompletenessRatio)

	var temporal, geo, tech []int
	for _, it := range items {
		dq := it.flow.DataQuality
		if dq == nil {
			continue
		}
		temporal = appendScore(temporal, dq.TemporalCorrelation)
		geo = appendScore(geo, dq.GeographicalCorrelation)
		tech = appendScore(tech, dq.TechnologicalCorrelation)
	}
	q.TemporalCorrelation = meanScore(temporal)
	q.GeographicalCorrelation = meanScore(geo)
	q.TechnologicalCorrelation = meanScore(tech)

	var sum int
	for _, d := range q.Dimensions() {
		sum += d.Score
	}
	q.OverallScore = float64(sum) / float64(len(q.Dimensions()))
	return q
}

// nodeFieldFill counts filled and required fields of a node: the shared
// fields every process needs plus those of its stage details.
func nodeFieldFill(n model.Node) (filled, total int) {
	d := n.Data
	shared := []bool{
		d.Label != "",
		d.LifecycleStage.Valid(),
		d.CarbonFootprint.Float() > 0 || d.CarbonFactor.Float() > 0 || !d.LCAFlows.Empty(),
		d.DataSource != "",
		d.VerificationStatus != "",
	}
	for _, ok := range shared {
		total++
		if ok {
			filled++
		}
	}
	if d.Details != nil {
		for _, ok := range d.Details.RequiredFields() {
			total++
			if ok {
				filled++
			}
		}
	}
	return filled, total
}

func appendScore(scores []int, s int) []int {
	if s >= model.MinQualityScore && s <= model.MaxQualityScore {
		return append(scores, s)
	}
	return scores
}

func meanScore(scores []int) int {
	if len(scores) == 0 {
		return placeholderScore
	}
	var sum int
	for _, s := range scores {
		sum += s
	}
	return int(math.Round(float64(sum) / float64(len(scores))))
}
