// Package engine runs LCA calculation sessions. A session executes eight
// steps strictly in order (validation, goal and scope, inventory, impact
// assessment, contribution analysis, uncertainty analysis, data quality,
// finalization) and either completes with an LCAResult or fails on the
// first step error, keeping no partial result.
package engine

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/oklog/ulid/v2"

	"github.com/carbonflow/carbonflow/internal/engine/cache"
	"github.com/carbonflow/carbonflow/internal/factors"
	"github.com/carbonflow/carbonflow/internal/lcaconfig"
	"github.com/carbonflow/carbonflow/internal/logging"
	"github.com/carbonflow/carbonflow/internal/matching"
	"github.com/carbonflow/carbonflow/internal/model"
)

// Engine owns the session store. Sessions run concurrently, each in its
// own goroutine; the store is safe for concurrent use.
type Engine struct {
	sessions  *cache.Store[*Session]
	mappings  *matching.MappingStore
	threshold float64
	now       cache.Clock
}

// Option configures an Engine.
type Option func(*Engine)

// WithClock replaces the time source for sessions and cleanup.
func WithClock(c cache.Clock) Option {
	return func(e *Engine) {
		if c != nil {
			e.now = c
		}
	}
}

// WithMappingStore shares user substance mappings with the engine's matchers.
func WithMappingStore(store *matching.MappingStore) Option {
	return func(e *Engine) {
		if store != nil {
			e.mappings = store
		}
	}
}

// WithSimilarityThreshold sets the fuzzy matching threshold of every
// session's matcher.
func WithSimilarityThreshold(threshold float64) Option {
	return func(e *Engine) {
		e.threshold = threshold
	}
}

// New creates an engine with an empty session store.
func New(opts ...Option) *Engine {
	e := &Engine{
		mappings: matching.NewMappingStore(),
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(e)
	}
	e.sessions = cache.NewStore[*Session](cache.WithClock(e.now))
	return e
}

// Mappings returns the user mapping store used by every session.
func (e *Engine) Mappings() *matching.MappingStore { return e.mappings }

// Matcher builds a flow matcher over table with the engine's mappings and
// similarity threshold.
func (e *Engine) Matcher(table *factors.Table) *matching.Service {
	return matching.NewService(table,
		matching.WithMappingStore(e.mappings),
		matching.WithSimilarityThreshold(e.threshold))
}

// StartCalculation validates the configuration, registers a new session
// and runs it in the background. A configuration with errors is rejected
// with a *lcaconfig.ConfigurationError before any session exists.
//
// Cancelling ctx aborts the session at the next step boundary.
func (e *Engine) StartCalculation(ctx context.Context, in CalculationContext) (*Session, error) {
	if err := lcaconfig.ValidateConfig(in.Config).Err(); err != nil {
		return nil, err
	}

	id := ulid.Make().String()
	s := newSession(id, in, e.now())
	if err := e.sessions.Set(id, s); err != nil {
		return nil, fmt.Errorf("storing session: %w", err)
	}

	logging.FromContext(ctx).Info().Ctx(ctx).
		Str("component", "engine").
		Str("session_id", id).
		Str("config", in.Config.Name).
		Int("nodes", len(in.Nodes)).
		Msg("calculation started")

	go e.run(ctx, s)
	return s, nil
}

// GetSession returns a session by id.
func (e *Engine) GetSession(id string) (*Session, error) {
	s, err := e.sessions.Get(id)
	if errors.Is(err, cache.ErrNotFound) {
		return nil, fmt.Errorf("%w: %s", ErrSessionNotFound, id)
	}
	return s, err
}

// GetAllSessions returns every stored session, oldest first.
func (e *Engine) GetAllSessions() []*Session {
	return e.sessions.Values()
}

// CleanupCompletedSessions removes completed sessions that finished more
// than olderThan ago and returns their ids. Failed and running sessions
// are kept. Nothing calls this automatically.
func (e *Engine) CleanupCompletedSessions(olderThan time.Duration) []string {
	cutoff := e.now().Add(-olderThan)
	return e.sessions.Sweep(cache.PolicyFunc[*Session](func(_ time.Time, entry *cache.Entry[*Session]) bool {
		return entry.Value.completedBefore(cutoff)
	}))
}

// stepFunc is one pipeline step; it may record results on the run.
type stepFunc func(ctx context.Context, r *run) (any, error)

func (e *Engine) steps() []stepFunc {
	return []stepFunc{
		stepValidate,
		stepGoalScope,
		stepInventory,
		stepImpact,
		stepContribution,
		stepUncertainty,
		stepDataQuality,
		e.stepFinalize,
	}
}

func (e *Engine) run(ctx context.Context, s *Session) {
	log := logging.FromContext(ctx)
	start := e.now()
	s.setStatus(StatusRunning)

	r := newRun(s, e.Matcher(s.input.Config.Factors))
	for i, step := range e.steps() {
		name := s.steps[i].Name
		if err := ctx.Err(); err != nil {
			e.abort(ctx, s, i, fmt.Errorf("%w before %s: %w", ErrCancelled, name, err))
			return
		}

		s.startStep(i, e.now())
		r.stepIndex = i
		log.Debug().Ctx(ctx).
			Str("component", "engine").
			Str("session_id", s.id).
			Str("step", string(name)).
			Msg("step started")

		result, err := step(ctx, r)
		if err != nil {
			e.abort(ctx, s, i, err)
			return
		}
		s.completeStep(i, result, e.now())
	}

	s.complete(r.result, e.now())
	log.Info().Ctx(ctx).
		Str("component", "engine").
		Str("session_id", s.id).
		Float64("gwp", r.result.GWP()).
		Int("warnings", len(r.result.SystemInfo.Warnings)).
		Dur("duration_ms", e.now().Sub(start)).
		Msg("calculation completed")
}

func (e *Engine) abort(ctx context.Context, s *Session, i int, err error) {
	s.fail(i, err, e.now())
	logging.FromContext(ctx).Error().Ctx(ctx).
		Str("component", "engine").
		Str("session_id", s.id).
		Str("step", string(s.steps[i].Name)).
		Err(err).
		Msg("calculation failed")
}

// run carries intermediate results between the steps of one session.
type run struct {
	session   *Session
	in        CalculationContext
	matcher   *matching.Service
	stepIndex int

	items       []inventoryItem
	inventory   model.InventoryResult
	impacts     []model.ImpactResult
	nodeGWP     map[string]float64
	contrib     model.ContributionResult
	uncertainty *model.UncertaintyResult
	quality     model.DataQualityResult
	result      *model.LCAResult
}

func newRun(s *Session, matcher *matching.Service) *run {
	return &run{
		session: s,
		in:      s.input,
		matcher: matcher,
	}
}

func (r *run) warn(ctx context.Context, msg string) {
	r.session.addWarnings(msg)
	logging.FromContext(ctx).Warn().Ctx(ctx).
		Str("component", "engine").
		Str("session_id", r.session.id).
		Msg(msg)
}

func (r *run) progress(p float64) {
	r.session.setStepProgress(r.stepIndex, p)
}
