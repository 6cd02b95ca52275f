package batch

import (
	"sync"
	"time"
)

// percentMultiplier converts a ratio to a percentage.
const percentMultiplier = 100

// Progress tracks a run. Safe for concurrent use.
type Progress struct {
	totalItems       int
	processedItems   int
	failedItems      int
	totalBatches     int
	processedBatches int
	batchSize        int
	startTime        time.Time
	lastUpdateTime   time.Time

	mu sync.RWMutex
}

// NewProgress creates a progress tracker.
func NewProgress(totalItems, totalBatches, batchSize int) *Progress {
	now := time.Now()
	return &Progress{
		totalItems:     totalItems,
		totalBatches:   totalBatches,
		batchSize:      batchSize,
		startTime:      now,
		lastUpdateTime: now,
	}
}

// AddProcessed records one finished batch of processed items, failed of
// which returned an error.
func (p *Progress) AddProcessed(processed, failed int) {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.processedItems += processed
	p.failedItems += failed
	p.processedBatches++
	p.lastUpdateTime = time.Now()
}

// Snapshot returns a copy of the current state.
func (p *Progress) Snapshot() ProgressSnapshot {
	p.mu.RLock()
	defer p.mu.RUnlock()

	elapsed := time.Since(p.startTime)
	snap := ProgressSnapshot{
		TotalItems:       p.totalItems,
		ProcessedItems:   p.processedItems,
		FailedItems:      p.failedItems,
		TotalBatches:     p.totalBatches,
		ProcessedBatches: p.processedBatches,
		BatchSize:        p.batchSize,
		StartTime:        p.startTime,
		LastUpdateTime:   p.lastUpdateTime,
		ElapsedTime:      elapsed,
	}
	if p.totalItems > 0 {
		snap.PercentComplete = float64(p.processedItems) / float64(p.totalItems) * percentMultiplier
	}
	if secs := elapsed.Seconds(); secs > 0 {
		snap.ItemsPerSecond = float64(p.processedItems) / secs
	}
	if p.processedItems > 0 && p.processedItems < p.totalItems {
		perItem := elapsed / time.Duration(p.processedItems)
		snap.EstimatedRemaining = perItem * time.Duration(p.totalItems-p.processedItems)
	}
	return snap
}

// ProgressSnapshot is an immutable view of a Progress.
type ProgressSnapshot struct {
	TotalItems         int
	ProcessedItems     int
	FailedItems        int
	TotalBatches       int
	ProcessedBatches   int
	BatchSize          int
	StartTime          time.Time
	LastUpdateTime     time.Time
	PercentComplete    float64
	ElapsedTime        time.Duration
	ItemsPerSecond     float64
	EstimatedRemaining time.Duration
}

// IsComplete reports whether every item has been processed.
func (s ProgressSnapshot) IsComplete() bool {
	return s.ProcessedItems >= s.TotalItems
}

// Succeeded returns the number of processed items without error.
func (s ProgressSnapshot) Succeeded() int {
	return s.ProcessedItems - s.FailedItems
}
