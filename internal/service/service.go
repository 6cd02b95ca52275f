// Package service is the product-level facade over the calculation
// engine: assessments with a preset, product comparison, carbon
// footprints with equivalencies, batch runs, and hotspot and data-quality
// reports.
package service

import (
	"context"
	"fmt"

	"github.com/carbonflow/carbonflow/internal/engine"
	"github.com/carbonflow/carbonflow/internal/engine/batch"
	"github.com/carbonflow/carbonflow/internal/lcaconfig"
	"github.com/carbonflow/carbonflow/internal/logging"
	"github.com/carbonflow/carbonflow/internal/matching"
	"github.com/carbonflow/carbonflow/internal/model"
)

// constError is an immutable error type for sentinel errors.
type constError string

func (e constError) Error() string { return string(e) }

// Sentinel errors.
var (
	// ErrSessionNotCompleted indicates a report requested for a running or failed session.
	ErrSessionNotCompleted = constError("calculation session has not completed")

	// ErrNoAlternatives indicates a comparison without alternatives.
	ErrNoAlternatives = constError("comparison needs at least one alternative")
)

// Service runs assessments on an engine. It is safe for concurrent use.
type Service struct {
	engine      *engine.Engine
	batchSize   int
	concurrency int
}

// Option configures a Service.
type Option func(*Service)

// WithBatchSize sets how many products BatchCalculation runs per batch.
func WithBatchSize(n int) Option {
	return func(s *Service) {
		if n >= batch.MinBatchSize && n <= batch.MaxBatchSize {
			s.batchSize = n
		}
	}
}

// WithConcurrency bounds the products calculated at once.
func WithConcurrency(n int) Option {
	return func(s *Service) {
		if n > 0 {
			s.concurrency = n
		}
	}
}

// New creates a service. A nil engine gets a fresh one.
func New(eng *engine.Engine, opts ...Option) *Service {
	if eng == nil {
		eng = engine.New()
	}
	s := &Service{
		engine:      eng,
		batchSize:   batch.DefaultBatchSize,
		concurrency: batch.DefaultConcurrency,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Engine returns the underlying engine.
func (s *Service) Engine() *engine.Engine { return s.engine }

// Matcher returns a flow matcher over the configuration's factor table
// sharing the engine's user mappings.
func (s *Service) Matcher(cfg lcaconfig.CalculationConfig) *matching.Service {
	return s.engine.Matcher(cfg.Factors)
}

// Start begins a calculation and returns the session without waiting.
// An empty reference flow defaults to the functional unit.
func (s *Service) Start(
	ctx context.Context,
	sys model.ProductSystem,
	cfg lcaconfig.CalculationConfig,
) (*engine.Session, error) {
	if sys.ReferenceFlow == (model.FunctionalUnit{}) {
		sys.ReferenceFlow = sys.FunctionalUnit
	}
	return s.engine.StartCalculation(ctx, engine.NewCalculationContext(sys, cfg))
}

// Assess runs a calculation with cfg and blocks until it finishes.
func (s *Service) Assess(
	ctx context.Context,
	sys model.ProductSystem,
	cfg lcaconfig.CalculationConfig,
) (*model.LCAResult, error) {
	session, err := s.Start(ctx, sys, cfg)
	if err != nil {
		return nil, err
	}
	return s.WaitForCompletion(ctx, session)
}

// QuickAssessment assesses with the basic preset, merged with overrides
// when given.
func (s *Service) QuickAssessment(
	ctx context.Context,
	sys model.ProductSystem,
	overrides *lcaconfig.CalculationConfig,
) (*model.LCAResult, error) {
	return s.assessPreset(ctx, sys, lcaconfig.PresetBasic, overrides)
}

// ProfessionalAssessment assesses with the professional preset, merged
// with overrides when given.
func (s *Service) ProfessionalAssessment(
	ctx context.Context,
	sys model.ProductSystem,
	overrides *lcaconfig.CalculationConfig,
) (*model.LCAResult, error) {
	return s.assessPreset(ctx, sys, lcaconfig.PresetProfessional, overrides)
}

func (s *Service) assessPreset(
	ctx context.Context,
	sys model.ProductSystem,
	preset string,
	overrides *lcaconfig.CalculationConfig,
) (*model.LCAResult, error) {
	cfg, err := ResolveConfig(preset, overrides)
	if err != nil {
		return nil, err
	}
	return s.Assess(ctx, sys, cfg)
}

// ResolveConfig returns a preset, or the preset merged with overrides.
func ResolveConfig(preset string, overrides *lcaconfig.CalculationConfig) (lcaconfig.CalculationConfig, error) {
	if overrides == nil {
		return lcaconfig.Preset(preset)
	}
	return lcaconfig.CreateCustomConfig(preset, *overrides)
}

// WaitForCompletion blocks until the session completes or fails, or ctx
// is done. The engine signals completion directly; nothing polls.
func (s *Service) WaitForCompletion(ctx context.Context, session *engine.Session) (*model.LCAResult, error) {
	res, err := session.Wait(ctx)
	if err != nil {
		logging.FromContext(ctx).Debug().Ctx(ctx).
			Str("component", "service").
			Str("session_id", session.ID()).
			Err(err).
			Msg("assessment did not complete")
		return nil, err
	}
	return res, nil
}

// completedResult returns the result of a completed session.
func (s *Service) completedResult(sessionID string) (*model.LCAResult, error) {
	session, err := s.engine.GetSession(sessionID)
	if err != nil {
		return nil, err
	}
	snap := session.Snapshot()
	if snap.Status != engine.StatusCompleted || snap.FinalResult == nil {
		return nil, fmt.Errorf("%w: %s is %s", ErrSessionNotCompleted, sessionID, snap.Status)
	}
	return snap.FinalResult, nil
}
