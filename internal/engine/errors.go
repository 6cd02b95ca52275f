package engine

import "fmt"

// constError is an immutable error type for sentinel errors.
type constError string

func (e constError) Error() string { return string(e) }

// Sentinel errors.
var (
	// ErrValidation classifies every *ValidationError.
	ErrValidation = constError("validation failed")

	// ErrComputation classifies every *ComputationError.
	ErrComputation = constError("computation failed")

	// ErrSessionNotFound indicates an unknown session id.
	ErrSessionNotFound = constError("calculation session not found")

	// ErrCancelled indicates a session aborted through its context.
	ErrCancelled = constError("calculation cancelled")
)

// ValidationError aborts a session before any inventory work: a missing
// or duplicate main product, or an incomplete functional unit.
type ValidationError struct {
	Step    StepName
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Step, e.Message)
}

// Unwrap lets errors.Is match ErrValidation.
func (e *ValidationError) Unwrap() error { return ErrValidation }

// ComputationError aborts a session mid-pipeline, for example on a
// dangling flow reference.
type ComputationError struct {
	Step    StepName
	Message string
	Err     error
}

func (e *ComputationError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Step, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Step, e.Message)
}

// Unwrap lets errors.Is match ErrComputation and the underlying cause.
func (e *ComputationError) Unwrap() []error {
	if e.Err != nil {
		return []error{ErrComputation, e.Err}
	}
	return []error{ErrComputation}
}

func validationErrorf(step StepName, format string, args ...any) error {
	return &ValidationError{Step: step, Message: fmt.Sprintf(format, args...)}
}

func computationErrorf(step StepName, err error, format string, args ...any) error {
	return &ComputationError{Step: step, Message: fmt.Sprintf(format, args...), Err: err}
}
