package batch

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestProcessor_Run(t *testing.T) {
	items := make([]int, 25)
	for i := range items {
		items[i] = i
	}

	t.Run("OutcomesInInputOrder", func(t *testing.T) {
		p, err := NewProcessor[int, int](10)
		require.NoError(t, err)

		outcomes, err := p.WithConcurrency(3).Run(context.Background(), items,
			func(_ context.Context, _ int, item int) (int, error) { return item * item, nil })

		require.NoError(t, err)
		require.Len(t, outcomes, 25)
		for i, o := range outcomes {
			assert.Equal(t, i, o.Index)
			assert.Equal(t, i*i, o.Value)
			assert.True(t, o.OK())
		}
	})

	t.Run("FailuresDoNotAbort", func(t *testing.T) {
		p := NewProcessorWithDefaults[int, string]()
		boom := errors.New("boom")

		outcomes, err := p.Run(context.Background(), items,
			func(_ context.Context, i int, _ int) (string, error) {
				if i%5 == 0 {
					return "", boom
				}
				return "ok", nil
			})

		require.NoError(t, err)
		require.Len(t, outcomes, 25)
		errs := Errors(outcomes)
		assert.Len(t, errs, 5)
		assert.ErrorIs(t, errs[0], boom)
		assert.Contains(t, errs[1].Error(), "item 5")
	})

	t.Run("BoundedConcurrency", func(t *testing.T) {
		p, _ := NewProcessor[int, struct{}](25)
		var inFlight, peak int32
		var mu sync.Mutex

		_, err := p.WithConcurrency(2).Run(context.Background(), items,
			func(_ context.Context, _ int, _ int) (struct{}, error) {
				n := atomic.AddInt32(&inFlight, 1)
				mu.Lock()
				if n > peak {
					peak = n
				}
				mu.Unlock()
				atomic.AddInt32(&inFlight, -1)
				return struct{}{}, nil
			})

		require.NoError(t, err)
		assert.LessOrEqual(t, peak, int32(2))
	})

	t.Run("Progress", func(t *testing.T) {
		p, _ := NewProcessor[int, int](10)
		var snapshots []ProgressSnapshot
		p.WithProgressCallback(func(s ProgressSnapshot) { snapshots = append(snapshots, s) })

		_, err := p.Run(context.Background(), items, func(_ context.Context, i int, _ int) (int, error) {
			if i == 24 {
				return 0, errors.New("last one fails")
			}
			return i, nil
		})

		require.NoError(t, err)
		require.Len(t, snapshots, 3)
		last := snapshots[2]
		assert.True(t, last.IsComplete())
		assert.InDelta(t, 100.0, last.PercentComplete, 1e-9)
		assert.Equal(t, 1, last.FailedItems)
		assert.Equal(t, 24, last.Succeeded())
		assert.Equal(t, 3, last.ProcessedBatches)
	})

	t.Run("Cancelled", func(t *testing.T) {
		p, _ := NewProcessor[int, int](10)
		ctx, cancel := context.WithCancel(context.Background())

		outcomes, err := p.Run(ctx, items, func(_ context.Context, i int, _ int) (int, error) {
			if i == 9 {
				cancel()
			}
			return i, nil
		})

		require.ErrorIs(t, err, context.Canceled)
		assert.Len(t, outcomes, 10)
	})

	t.Run("InvalidCalls", func(t *testing.T) {
		p := NewProcessorWithDefaults[int, int]()
		_, err := p.Run(context.Background(), nil, func(context.Context, int, int) (int, error) { return 0, nil })
		assert.ErrorIs(t, err, ErrEmptyItems)

		_, err = p.Run(context.Background(), items, nil)
		assert.ErrorIs(t, err, ErrNilFunc)

		_, err = NewProcessor[int, int](0)
		assert.ErrorIs(t, err, ErrInvalidBatchSize)
		_, err = NewProcessor[int, int](2000)
		assert.ErrorIs(t, err, ErrInvalidBatchSize)
	})
}

func TestProcessor_CalculateBatches(t *testing.T) {
	p, _ := NewProcessor[int, int](10)
	batches := p.CalculateBatches(25)
	require.Len(t, batches, 3)
	assert.Equal(t, [2]int{0, 10}, batches[0])
	assert.Equal(t, [2]int{10, 20}, batches[1])
	assert.Equal(t, [2]int{20, 25}, batches[2])
	assert.Equal(t, 10, p.GetBatchSize())
}

func TestProgressSnapshot(t *testing.T) {
	p := NewProgress(100, 10, 10)
	snap := p.Snapshot()
	assert.Zero(t, snap.PercentComplete)
	assert.False(t, snap.IsComplete())

	p.AddProcessed(50, 2)
	snap = p.Snapshot()
	assert.InDelta(t, 50.0, snap.PercentComplete, 1e-9)
	assert.Equal(t, 48, snap.Succeeded())
	assert.Equal(t, 1, snap.ProcessedBatches)
}
