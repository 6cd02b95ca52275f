package engine

import (
	"context"
	"sync"
	"time"

	"github.com/carbonflow/carbonflow/internal/model"
)

// StepName identifies one of the eight calculation steps.
type StepName string

// Steps in execution order.
const (
	StepValidation           StepName = "validation"
	StepGoalScope            StepName = "goal_scope"
	StepInventoryAnalysis    StepName = "inventory_analysis"
	StepImpactAssessment     StepName = "impact_assessment"
	StepContributionAnalysis StepName = "contribution_analysis"
	StepUncertaintyAnalysis  StepName = "uncertainty_analysis"
	StepDataQuality          StepName = "data_quality"
	StepFinalization         StepName = "finalization"
)

// StepNames returns the steps in execution order.
func StepNames() []StepName {
	return []StepName{
		StepValidation, StepGoalScope, StepInventoryAnalysis, StepImpactAssessment,
		StepContributionAnalysis, StepUncertaintyAnalysis, StepDataQuality, StepFinalization,
	}
}

// StepStatus is the state of one step.
type StepStatus string

// Step states.
const (
	StepPending   StepStatus = "pending"
	StepRunning   StepStatus = "running"
	StepCompleted StepStatus = "completed"
	StepError     StepStatus = "error"
)

// Status is the state of a session.
type Status string

// Session states: initializing -> running -> completed | failed.
const (
	StatusInitializing Status = "initializing"
	StatusRunning      Status = "running"
	StatusCompleted    Status = "completed"
	StatusFailed       Status = "failed"
)

// Finished reports whether the status is terminal.
func (s Status) Finished() bool {
	return s == StatusCompleted || s == StatusFailed
}

// Step is the record of one calculation step.
type Step struct {
	Name        StepName   `json:"name" yaml:"name"`
	Status      StepStatus `json:"status" yaml:"status"`
	Progress    float64    `json:"progress" yaml:"progress"`
	Result      any        `json:"result,omitempty" yaml:"result,omitempty"`
	Error       string     `json:"error,omitempty" yaml:"error,omitempty"`
	StartedAt   time.Time  `json:"started_at,omitzero" yaml:"started_at,omitempty"`
	CompletedAt time.Time  `json:"completed_at,omitzero" yaml:"completed_at,omitempty"`
}

// Session is one calculation run. Its state is mutated only by the
// engine goroutine running it; readers go through Snapshot or Wait.
type Session struct {
	id        string
	input     CalculationContext
	createdAt time.Time

	mu          sync.RWMutex
	status      Status
	steps       []Step
	warnings    []string
	result      *model.LCAResult
	err         error
	completedAt time.Time

	done chan struct{}
}

func newSession(id string, input CalculationContext, now time.Time) *Session {
	names := StepNames()
	steps := make([]Step, len(names))
	for i, n := range names {
		steps[i] = Step{Name: n, Status: StepPending}
	}
	return &Session{
		id:        id,
		input:     input,
		createdAt: now,
		status:    StatusInitializing,
		steps:     steps,
		done:      make(chan struct{}),
	}
}

// ID returns the session id.
func (s *Session) ID() string { return s.id }

// Input returns the calculation context the session was started with.
func (s *Session) Input() CalculationContext { return s.input }

// Done is closed when the session completes or fails.
func (s *Session) Done() <-chan struct{} { return s.done }

// Status returns the current status.
func (s *Session) Status() Status {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.status
}

// Wait blocks until the session finishes or ctx is done. It returns the
// final result, or the error that aborted the session.
func (s *Session) Wait(ctx context.Context) (*model.LCAResult, error) {
	select {
	case <-s.done:
	case <-ctx.Done():
		return nil, ctx.Err()
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.result, s.err
}

// SessionSnapshot is a consistent copy of a session's state.
type SessionSnapshot struct {
	ID          string           `json:"session_id" yaml:"session_id"`
	Status      Status           `json:"status" yaml:"status"`
	Steps       []Step           `json:"steps" yaml:"steps"`
	Warnings    []string         `json:"warnings,omitempty" yaml:"warnings,omitempty"`
	FinalResult *model.LCAResult `json:"final_result,omitempty" yaml:"final_result,omitempty"`
	Error       string           `json:"error,omitempty" yaml:"error,omitempty"`
	CreatedAt   time.Time        `json:"created_at" yaml:"created_at"`
	CompletedAt time.Time        `json:"completed_at,omitzero" yaml:"completed_at,omitempty"`
}

// Progress returns the fraction of steps completed.
func (s SessionSnapshot) Progress() float64 {
	if len(s.Steps) == 0 {
		return 0
	}
	done := 0
	for _, st := range s.Steps {
		if st.Status == StepCompleted {
			done++
		}
	}
	return float64(done) / float64(len(s.Steps))
}

// Step returns the record of a step.
func (s SessionSnapshot) Step(name StepName) (Step, bool) {
	for _, st := range s.Steps {
		if st.Name == name {
			return st, true
		}
	}
	return Step{}, false
}

// Snapshot returns a copy of the session state.
func (s *Session) Snapshot() SessionSnapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()

	snap := SessionSnapshot{
		ID:          s.id,
		Status:      s.status,
		Steps:       append([]Step(nil), s.steps...),
		Warnings:    append([]string(nil), s.warnings...),
		FinalResult: s.result,
		CreatedAt:   s.createdAt,
		CompletedAt: s.completedAt,
	}
	if s.err != nil {
		snap.Error = s.err.Error()
	}
	return snap
}

// completedBefore reports a completed session finished before cutoff.
func (s *Session) completedBefore(cutoff time.Time) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.status == StatusCompleted && s.completedAt.Before(cutoff)
}

func (s *Session) setStatus(st Status) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.status = st
}

func (s *Session) startStep(i int, now time.Time) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.steps[i].Status = StepRunning
	s.steps[i].StartedAt = now
}

func (s *Session) setStepProgress(i int, p float64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.steps[i].Progress = p
}

func (s *Session) completeStep(i int, result any, now time.Time) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.steps[i].Status = StepCompleted
	s.steps[i].Progress = 1
	s.steps[i].Result = result
	s.steps[i].CompletedAt = now
}

func (s *Session) addWarnings(w ...string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.warnings = append(s.warnings, w...)
}

func (s *Session) warningsCopy() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]string(nil), s.warnings...)
}

// fail marks step i as errored, drops every step result and closes done.
func (s *Session) fail(i int, err error, now time.Time) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if i >= 0 {
		s.steps[i].Status = StepError
		s.steps[i].Error = err.Error()
		s.steps[i].CompletedAt = now
	}
	for j := range s.steps {
		s.steps[j].Result = nil
	}
	s.status = StatusFailed
	s.err = err
	s.completedAt = now
	close(s.done)
}

func (s *Session) complete(result *model.LCAResult, now time.Time) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.status = StatusCompleted
	s.result = result
	s.completedAt = now
	close(s.done)
}
