package matching

import (
	"context"
	"fmt"
	"sort"

	"github.com/agext/levenshtein"

	"github.com/carbonflow/carbonflow/internal/factors"
	"github.com/carbonflow/carbonflow/internal/logging"
	"github.com/carbonflow/carbonflow/internal/model"
)

// constError is an immutable error type for sentinel errors.
type constError string

func (e constError) Error() string { return string(e) }

// Sentinel errors.
var (
	// ErrEmptySubstance indicates a blank original or mapped name.
	ErrEmptySubstance = constError("substance name is empty")

	// ErrUnknownSubstance indicates a mapping target with no factors in the table.
	ErrUnknownSubstance = constError("substance has no characterization factors")
)

// Service is the flow matching service. It reads the factor table and
// alias dictionary without mutating them; user mappings live in a
// MappingStore that may be shared.
type Service struct {
	table     *factors.Table
	aliases   map[string]string
	mappings  *MappingStore
	threshold float64
}

// Option configures a Service.
type Option func(*Service)

// WithAliases replaces the alias dictionary. Keys and values are normalized.
func WithAliases(aliases map[string]string) Option {
	return func(s *Service) {
		s.aliases = make(map[string]string, len(aliases))
		for k, v := range aliases {
			s.aliases[Normalize(k)] = Normalize(v)
		}
	}
}

// WithMappingStore shares a user mapping store between services.
func WithMappingStore(store *MappingStore) Option {
	return func(s *Service) {
		if store != nil {
			s.mappings = store
		}
	}
}

// WithSimilarityThreshold sets the minimum similarity of fuzzy candidates.
func WithSimilarityThreshold(threshold float64) Option {
	return func(s *Service) {
		if threshold > 0 && threshold <= 1 {
			s.threshold = threshold
		}
	}
}

// NewService builds a matcher over the given factor table.
func NewService(table *factors.Table, opts ...Option) *Service {
	s := &Service{
		table:     table,
		aliases:   DefaultAliases(),
		mappings:  NewMappingStore(),
		threshold: DefaultSimilarityThreshold,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Table returns the factor table the service matches against.
func (s *Service) Table() *factors.Table { return s.table }

// Mappings returns the user mapping store.
func (s *Service) Mappings() *MappingStore { return s.mappings }

// MatchFlowFactors resolves a flow's substance to characterization factors.
// nc may be nil.
func (s *Service) MatchFlowFactors(ctx context.Context, flow model.Flow, nc *NodeContext) FlowMatchResult {
	query := Normalize(flow.SubstanceName())
	result := FlowMatchResult{FlowID: flow.ID, Query: query}

	if r, ok := s.matchPinned(flow, result); ok {
		return r
	}

	if mapped, ok := s.mappings.Lookup(query); ok && s.table.Has(mapped) {
		return s.perfect(result, mapped, SourceUserMapping)
	}

	if query != "" && s.table.Has(query) {
		return s.perfect(result, query, SourceExact)
	}

	key := query
	if canonical, ok := s.aliases[query]; ok {
		key = canonical
		if s.table.Has(key) {
			return s.perfect(result, key, SourceAlias)
		}
	}

	candidates := s.fuzzyCandidates(key, nc)
	if len(candidates) > 0 {
		top := candidates[0]
		result.Status = StatusPartial
		result.Confidence = top.Confidence
		result.Source = top.Source
		result.MatchedSubstance = top.Substance
		result.Factors = s.table.FactorsFor(top.Substance)
		rest := candidates[1:]
		if len(rest) > MaxAlternatives {
			rest = rest[:MaxAlternatives]
		}
		result.Alternatives = rest
		if top.Confidence < LowConfidenceThreshold {
			result.Recommendations = append(result.Recommendations,
				fmt.Sprintf("Confirm %q as the factor for %q or save a user mapping", top.Substance, flow.SubstanceName()))
		}
		logging.FromContext(ctx).Debug().Ctx(ctx).
			Str("component", "matching").
			Str("query", query).
			Str("matched", top.Substance).
			Float64("confidence", top.Confidence).
			Str("source", string(top.Source)).
			Msg("fuzzy match")
		return result
	}

	result.Status = StatusNone
	result.Recommendations = s.noMatchRecommendations(flow)
	logging.FromContext(ctx).Debug().Ctx(ctx).
		Str("component", "matching").
		Str("query", query).
		Msg("no characterization factor found")
	return result
}

func (s *Service) matchPinned(flow model.Flow, result FlowMatchResult) (FlowMatchResult, bool) {
	if len(flow.PinnedFactorIDs) == 0 {
		return result, false
	}
	for _, id := range flow.PinnedFactorIDs {
		if f, ok := s.table.ByID(id); ok {
			result.Factors = append(result.Factors, f)
		}
	}
	if len(result.Factors) == 0 {
		return result, false
	}
	result.Status = StatusManualOverride
	result.Confidence = ConfidenceManualOverride
	result.Source = SourcePinned
	result.MatchedSubstance = result.Factors[0].Substance
	return result, true
}

func (s *Service) perfect(result FlowMatchResult, substance string, source Source) FlowMatchResult {
	result.Status = StatusPerfect
	result.Confidence = ConfidencePerfect
	result.Source = source
	result.MatchedSubstance = substance
	result.Factors = s.table.FactorsFor(substance)
	return result
}

// fuzzyCandidates merges contextual and similarity candidates, keeps the
// best confidence per substance and sorts by confidence descending.
func (s *Service) fuzzyCandidates(key string, nc *NodeContext) []Candidate {
	best := make(map[string]Candidate)
	add := func(c Candidate) {
		if !s.table.Has(c.Substance) {
			return
		}
		if prev, ok := best[c.Substance]; ok && prev.Confidence >= c.Confidence {
			return
		}
		best[c.Substance] = c
	}

	for _, c := range contextualCandidates(key, nc) {
		add(c)
	}
	if key != "" {
		for _, substance := range s.table.Substances() {
			if sim := similarity(key, substance); sim >= s.threshold {
				add(Candidate{Substance: substance, Confidence: sim, Source: SourceSimilarity})
			}
		}
		for alias, target := range s.aliases {
			if sim := similarity(key, alias); sim >= s.threshold {
				add(Candidate{Substance: target, Confidence: sim, Source: SourceSimilarity})
			}
		}
	}

	out := make([]Candidate, 0, len(best))
	for _, c := range best {
		for _, f := range s.table.FactorsFor(c.Substance) {
			c.FactorIDs = append(c.FactorIDs, f.ID)
		}
		out = append(out, c)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Confidence != out[j].Confidence {
			return out[i].Confidence > out[j].Confidence
		}
		return out[i].Substance < out[j].Substance
	})
	return out
}

// similarity is the normalized Levenshtein similarity, capped below a
// perfect match.
func similarity(a, b string) float64 {
	sim := levenshtein.Similarity(a, b, nil)
	if sim > MaxFuzzyConfidence {
		sim = MaxFuzzyConfidence
	}
	return sim
}

func (s *Service) noMatchRecommendations(flow model.Flow) []string {
	name := flow.SubstanceName()
	recs := []string{
		fmt.Sprintf("Check the spelling of %q or use a standard substance name", name),
		fmt.Sprintf("Save a user mapping from %q to a known substance", name),
	}
	if flow.Category == model.FlowEmission {
		recs = append(recs, "Use an elementary flow name such as co2, ch4 or n2o for emissions")
	}
	recs = append(recs, fmt.Sprintf("Load a factor table that covers %q", name))
	return recs
}

// SaveUserMapping records a manual override so that later lookups of
// original resolve to mapped as a perfect match.
func (s *Service) SaveUserMapping(ctx context.Context, original, mapped string) error {
	key, target := Normalize(original), Normalize(mapped)
	if key == "" || target == "" {
		return ErrEmptySubstance
	}
	if canonical, ok := s.aliases[target]; ok && !s.table.Has(target) {
		target = canonical
	}
	if !s.table.Has(target) {
		return fmt.Errorf("%w: %q", ErrUnknownSubstance, mapped)
	}
	s.mappings.Set(key, target)
	logging.FromContext(ctx).Info().Ctx(ctx).
		Str("component", "matching").
		Str("original", key).
		Str("mapped", target).
		Msg("user mapping saved")
	return nil
}

// ResolveFactor returns the factor a flow contributes to category c.
// Low-confidence fuzzy matches are not used for characterization.
func (s *Service) ResolveFactor(
	ctx context.Context,
	flow model.Flow,
	nc *NodeContext,
	c factors.ImpactCategory,
) (factors.Factor, bool) {
	r := s.MatchFlowFactors(ctx, flow, nc)
	if !r.Usable() {
		return factors.Factor{}, false
	}
	return r.Factor(c)
}
