package cache

import "time"

// Entry is one stored value with its bookkeeping timestamps.
type Entry[V any] struct {
	// Key identifies the entry in its store.
	Key string

	// Value is the stored value.
	Value V

	// CreatedAt is when the key was first stored.
	CreatedAt time.Time

	// UpdatedAt is when the value was last replaced.
	UpdatedAt time.Time

	// AccessedAt is when the entry was last read or written.
	AccessedAt time.Time
}

// Age returns how long ago the entry was created.
func (e *Entry[V]) Age(now time.Time) time.Duration {
	return now.Sub(e.CreatedAt)
}

// Idle returns how long the entry has gone without access.
func (e *Entry[V]) Idle(now time.Time) time.Duration {
	return now.Sub(e.AccessedAt)
}

// EvictionPolicy decides which entries a sweep removes.
type EvictionPolicy[V any] interface {
	ShouldEvict(now time.Time, e *Entry[V]) bool
}

// PolicyFunc adapts a function to EvictionPolicy.
type PolicyFunc[V any] func(now time.Time, e *Entry[V]) bool

// ShouldEvict implements EvictionPolicy.
func (f PolicyFunc[V]) ShouldEvict(now time.Time, e *Entry[V]) bool {
	return f(now, e)
}

// OlderThan evicts entries created more than maxAge ago.
func OlderThan[V any](maxAge time.Duration) EvictionPolicy[V] {
	return PolicyFunc[V](func(now time.Time, e *Entry[V]) bool {
		return e.Age(now) > maxAge
	})
}

// IdleFor evicts entries not accessed for longer than d.
func IdleFor[V any](d time.Duration) EvictionPolicy[V] {
	return PolicyFunc[V](func(now time.Time, e *Entry[V]) bool {
		return e.Idle(now) > d
	})
}

// All evicts an entry only when every policy agrees. With no policies it
// evicts nothing.
func All[V any](policies ...EvictionPolicy[V]) EvictionPolicy[V] {
	return PolicyFunc[V](func(now time.Time, e *Entry[V]) bool {
		if len(policies) == 0 {
			return false
		}
		for _, p := range policies {
			if !p.ShouldEvict(now, e) {
				return false
			}
		}
		return true
	})
}

// Any evicts an entry when at least one policy does.
func Any[V any](policies ...EvictionPolicy[V]) EvictionPolicy[V] {
	return PolicyFunc[V](func(now time.Time, e *Entry[V]) bool {
		for _, p := range policies {
			if p.ShouldEvict(now, e) {
				return true
			}
		}
		return false
	})
}
