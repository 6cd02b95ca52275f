// Package matching resolves free-text flow substances to characterization
// factors.
//
// Resolution runs in a fixed order: factors pinned on the flow, user
// mappings, the alias dictionary, an exact table hit, and finally fuzzy
// matching that merges contextual heuristics with edit-distance
// similarity. Every result carries a confidence in [0,1]; only a
// perfect_match has confidence 1.0. A no_match is a valid outcome, not an
// error.
package matching

import "github.com/carbonflow/carbonflow/internal/factors"

// MatchStatus is the outcome class of a match.
type MatchStatus string

// Match statuses.
const (
	StatusPerfect        MatchStatus = "perfect_match"
	StatusPartial        MatchStatus = "partial_match"
	StatusNone           MatchStatus = "no_match"
	StatusManualOverride MatchStatus = "manual_override"
)

// Source tells which resolution rule produced a candidate.
type Source string

// Candidate sources.
const (
	SourcePinned      Source = "pinned"
	SourceUserMapping Source = "user_mapping"
	SourceAlias       Source = "alias"
	SourceExact       Source = "exact"
	SourceContextual  Source = "contextual"
	SourceSimilarity  Source = "similarity"
)

// Confidence levels of the deterministic rules.
const (
	ConfidencePerfect        = 1.0
	ConfidenceManualOverride = 0.95
	// MaxFuzzyConfidence keeps fuzzy results strictly below a perfect match.
	MaxFuzzyConfidence = 0.99
	// LowConfidenceThreshold marks matches that deserve review.
	LowConfidenceThreshold = 0.8
	// DefaultSimilarityThreshold is the minimum similarity for a fuzzy candidate.
	DefaultSimilarityThreshold = 0.6
	// MaxAlternatives caps FlowMatchResult.Alternatives.
	MaxAlternatives = 3
)

// Candidate is one substance a flow could resolve to.
type Candidate struct {
	Substance  string   `json:"substance" yaml:"substance"`
	Confidence float64  `json:"confidence" yaml:"confidence"`
	Source     Source   `json:"source" yaml:"source"`
	FactorIDs  []string `json:"factor_ids" yaml:"factor_ids"`
}

// FlowMatchResult is the outcome of matching one flow.
type FlowMatchResult struct {
	FlowID string `json:"flow_id" yaml:"flow_id"`
	// Query is the normalized substance that was looked up.
	Query            string           `json:"query" yaml:"query"`
	Status           MatchStatus      `json:"status" yaml:"status"`
	Confidence       float64          `json:"confidence" yaml:"confidence"`
	Source           Source           `json:"source,omitempty" yaml:"source,omitempty"`
	MatchedSubstance string           `json:"matched_substance,omitempty" yaml:"matched_substance,omitempty"`
	Factors          []factors.Factor `json:"factors,omitempty" yaml:"factors,omitempty"`
	Alternatives     []Candidate      `json:"alternatives,omitempty" yaml:"alternatives,omitempty"`
	Recommendations  []string         `json:"recommendations,omitempty" yaml:"recommendations,omitempty"`
}

// Matched reports whether the flow resolved to at least one factor.
func (r FlowMatchResult) Matched() bool {
	return r.Status != StatusNone && len(r.Factors) > 0
}

// LowConfidence reports a match that resolved but below LowConfidenceThreshold.
func (r FlowMatchResult) LowConfidence() bool {
	return r.Matched() && r.Confidence < LowConfidenceThreshold
}

// Usable reports whether the match is trusted for characterization:
// resolved and not low-confidence.
func (r FlowMatchResult) Usable() bool {
	return r.Matched() && !r.LowConfidence()
}

// Factor returns the matched factor of a category.
func (r FlowMatchResult) Factor(c factors.ImpactCategory) (factors.Factor, bool) {
	for _, f := range r.Factors {
		if f.Category == c {
			return f, true
		}
	}
	return factors.Factor{}, false
}

// NodeContext carries the hints a process node gives about its flows.
type NodeContext struct {
	LifecycleStage string
	EmissionType   string
}
