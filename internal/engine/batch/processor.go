package batch

import (
	"context"
	"errors"
	"fmt"

	"golang.org/x/sync/errgroup"
)

// Default processing configuration.
const (
	// DefaultBatchSize is the default number of items per batch.
	DefaultBatchSize = 10

	// MinBatchSize is the minimum allowed batch size.
	MinBatchSize = 1

	// MaxBatchSize is the maximum allowed batch size.
	MaxBatchSize = 1000

	// DefaultConcurrency is the default number of items processed at once.
	DefaultConcurrency = 4
)

// Common processing errors.
var (
	ErrInvalidBatchSize = errors.New("batch size must be between 1 and 1000")
	ErrNilFunc          = errors.New("item function cannot be nil")
	ErrEmptyItems       = errors.New("items slice cannot be empty")
)

// ItemFunc processes one item. index is the item's position in the input.
type ItemFunc[T, R any] func(ctx context.Context, index int, item T) (R, error)

// ProgressCallback is invoked after each batch with a progress snapshot.
type ProgressCallback func(snapshot ProgressSnapshot)

// Outcome is the result of one item.
type Outcome[R any] struct {
	Index int
	Value R
	Err   error
}

// OK reports whether the item succeeded.
func (o Outcome[R]) OK() bool { return o.Err == nil }

// Processor splits items into batches and processes each batch with at
// most concurrency items in flight. Batches run one after another.
type Processor[T, R any] struct {
	batchSize   int
	concurrency int
	onProgress  ProgressCallback
}

// NewProcessor creates a processor with the given batch size.
func NewProcessor[T, R any](batchSize int) (*Processor[T, R], error) {
	if batchSize < MinBatchSize || batchSize > MaxBatchSize {
		return nil, fmt.Errorf("%w: got %d", ErrInvalidBatchSize, batchSize)
	}
	return &Processor[T, R]{batchSize: batchSize, concurrency: DefaultConcurrency}, nil
}

// NewProcessorWithDefaults creates a processor with the default batch size.
func NewProcessorWithDefaults[T, R any]() *Processor[T, R] {
	return &Processor[T, R]{batchSize: DefaultBatchSize, concurrency: DefaultConcurrency}
}

// WithConcurrency sets how many items of a batch run at once. Values
// below 1 mean sequential.
func (p *Processor[T, R]) WithConcurrency(n int) *Processor[T, R] {
	if n < 1 {
		n = 1
	}
	p.concurrency = n
	return p
}

// WithProgressCallback sets a progress callback.
func (p *Processor[T, R]) WithProgressCallback(callback ProgressCallback) *Processor[T, R] {
	p.onProgress = callback
	return p
}

// Run processes every item and returns one Outcome per item, in input
// order. Item errors are recorded in their Outcome. Run returns an error
// only for empty input, a nil function, or a cancelled context; in the
// last case the outcomes of batches already finished are still returned.
func (p *Processor[T, R]) Run(ctx context.Context, items []T, fn ItemFunc[T, R]) ([]Outcome[R], error) {
	if len(items) == 0 {
		return nil, ErrEmptyItems
	}
	if fn == nil {
		return nil, ErrNilFunc
	}

	batches := p.CalculateBatches(len(items))
	progress := NewProgress(len(items), len(batches), p.batchSize)
	outcomes := make([]Outcome[R], 0, len(items))

	for _, bounds := range batches {
		if err := ctx.Err(); err != nil {
			return outcomes, err
		}

		start, end := bounds[0], bounds[1]
		batch := make([]Outcome[R], end-start)

		// Plain Group, not WithContext: one failed item must not cancel its siblings.
		var g errgroup.Group
		g.SetLimit(p.concurrency)
		for i := start; i < end; i++ {
			g.Go(func() error {
				v, err := fn(ctx, i, items[i])
				batch[i-start] = Outcome[R]{Index: i, Value: v, Err: err}
				return nil
			})
		}
		_ = g.Wait()

		failed := 0
		for _, o := range batch {
			if o.Err != nil {
				failed++
			}
		}
		outcomes = append(outcomes, batch...)
		progress.AddProcessed(len(batch), failed)

		if p.onProgress != nil {
			p.onProgress(progress.Snapshot())
		}
	}
	return outcomes, nil
}

// GetBatchSize returns the configured batch size.
func (p *Processor[T, R]) GetBatchSize() int {
	return p.batchSize
}

// CalculateBatches returns [start, end) index pairs covering totalItems.
func (p *Processor[T, R]) CalculateBatches(totalItems int) [][2]int {
	n := totalItems / p.batchSize
	if totalItems%p.batchSize > 0 {
		n++
	}
	batches := make([][2]int, n)
	for i := range n {
		start := i * p.batchSize
		end := min(start+p.batchSize, totalItems)
		batches[i] = [2]int{start, end}
	}
	return batches
}

// Errors collects the errors of failed outcomes, annotated with their index.
func Errors[R any](outcomes []Outcome[R]) []error {
	var errs []error
	for _, o := range outcomes {
		if o.Err != nil {
			errs = append(errs, fmt.Errorf("item %d: %w", o.Index, o.Err))
		}
	}
	return errs
}
