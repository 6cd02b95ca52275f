package matching

import "strings"

// Contextual confidences. All stay below LowConfidenceThreshold so a
// heuristic guess is always flagged for review.
const (
	confidenceKeywordInName     = 0.75
	confidenceKeywordInEmission = 0.65
	confidenceStageDefault      = 0.5
)

//nolint:gochecknoglobals // Static keyword table.
var keywordRules = []struct {
	keyword   string
	substance string
}{
	{"steel", "steel_primary"},
	{"钢", "steel_primary"},
	{"alumin", "aluminum_primary"},
	{"铝", "aluminum_primary"},
	{"cement", "cement"},
	{"concrete", "concrete"},
	{"copper", "copper"},
	{"glass", "glass"},
	{"paper", "paper"},
	{"cardboard", "paper"},
	{"plastic", "plastic_pe"},
	{"塑", "plastic_pe"},
	{"electric", "electricity_grid"},
	{"power", "electricity_grid"},
	{"kwh", "electricity_grid"},
	{"电", "electricity_grid"},
	{"solar", "electricity_renewable"},
	{"wind", "electricity_renewable"},
	{"gas", "natural_gas"},
	{"diesel", "diesel"},
	{"truck", "diesel"},
	{"transport", "diesel"},
	{"运输", "diesel"},
	{"petrol", "gasoline"},
	{"coal", "coal"},
	{"carbon", "co2"},
	{"co2", "co2"},
	{"碳", "co2"},
	{"methane", "ch4"},
	{"landfill", "waste_landfill"},
	{"incinerat", "waste_incineration"},
	{"waste", "waste_landfill"},
}

//nolint:gochecknoglobals // Static stage defaults.
var stageDefaults = map[string]string{
	"manufacturing": "electricity_grid",
	"distribution":  "diesel",
	"use":           "electricity_grid",
	"end_of_life":   "waste_landfill",
}

// contextualCandidates infers substances from keywords in the query and
// the node's emission type, then from the node's lifecycle stage.
func contextualCandidates(key string, nc *NodeContext) []Candidate {
	var out []Candidate
	for _, rule := range keywordRules {
		if key != "" && strings.Contains(key, rule.keyword) {
			out = append(out, Candidate{
				Substance: rule.substance, Confidence: confidenceKeywordInName, Source: SourceContextual,
			})
		}
	}
	if nc == nil {
		return out
	}

	emission := Normalize(nc.EmissionType)
	for _, rule := range keywordRules {
		if emission != "" && strings.Contains(emission, rule.keyword) {
			out = append(out, Candidate{
				Substance: rule.substance, Confidence: confidenceKeywordInEmission, Source: SourceContextual,
			})
		}
	}
	if substance, ok := stageDefaults[Normalize(nc.LifecycleStage)]; ok {
		out = append(out, Candidate{
			Substance: substance, Confidence: confidenceStageDefault, Source: SourceContextual,
		})
	}
	return out
}
