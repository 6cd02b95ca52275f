package cache

import (
	"errors"
	"sort"
	"sync"
	"time"
)

// Common store errors.
var (
	ErrNotFound   = errors.New("cache entry not found")
	ErrInvalidKey = errors.New("cache key cannot be empty")
)

// Clock returns the current time.
type Clock func() time.Time

// Store is a thread-safe in-memory map of entries.
type Store[V any] struct {
	// entries maps key to entry.
	entries map[string]*Entry[V]

	// now is the time source, replaceable in tests.
	now Clock

	// mu protects entries.
	mu sync.RWMutex
}

// StoreOption configures a Store.
type StoreOption func(*storeOptions)

type storeOptions struct {
	clock Clock
}

// WithClock replaces the time source.
func WithClock(c Clock) StoreOption {
	return func(o *storeOptions) {
		if c != nil {
			o.clock = c
		}
	}
}

// NewStore creates an empty store.
func NewStore[V any](opts ...StoreOption) *Store[V] {
	o := storeOptions{clock: time.Now}
	for _, opt := range opts {
		opt(&o)
	}
	return &Store[V]{
		entries: make(map[string]*Entry[V]),
		now:     o.clock,
	}
}

// Set stores value under key, keeping the original creation time when
// the key already exists.
func (s *Store[V]) Set(key string, value V) error {
	if key == "" {
		return ErrInvalidKey
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	if e, ok := s.entries[key]; ok {
		e.Value = value
		e.UpdatedAt = now
		e.AccessedAt = now
		return nil
	}
	s.entries[key] = &Entry[V]{Key: key, Value: value, CreatedAt: now, UpdatedAt: now, AccessedAt: now}
	return nil
}

// Get returns the value under key and records the access.
func (s *Store[V]) Get(key string) (V, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	e, ok := s.entries[key]
	if !ok {
		var zero V
		return zero, ErrNotFound
	}
	e.AccessedAt = s.now()
	return e.Value, nil
}

// Peek returns a copy of the entry without recording an access.
func (s *Store[V]) Peek(key string) (Entry[V], bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	e, ok := s.entries[key]
	if !ok {
		return Entry[V]{}, false
	}
	return *e, true
}

// Delete removes key. Deleting a missing key is not an error.
func (s *Store[V]) Delete(key string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.entries, key)
}

// Len returns the number of entries.
func (s *Store[V]) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.entries)
}

// Values returns every value ordered by creation time, then key.
func (s *Store[V]) Values() []V {
	entries := s.snapshot()
	out := make([]V, len(entries))
	for i, e := range entries {
		out[i] = e.Value
	}
	return out
}

// Keys returns every key ordered by creation time, then key.
func (s *Store[V]) Keys() []string {
	entries := s.snapshot()
	out := make([]string, len(entries))
	for i, e := range entries {
		out[i] = e.Key
	}
	return out
}

// Sweep removes every entry the policy selects and returns their keys,
// ordered by creation time.
func (s *Store[V]) Sweep(policy EvictionPolicy[V]) []string {
	if policy == nil {
		return nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	var evicted []*Entry[V]
	for key, e := range s.entries {
		if policy.ShouldEvict(now, e) {
			evicted = append(evicted, e)
			delete(s.entries, key)
		}
	}
	sortEntries(evicted)

	keys := make([]string, len(evicted))
	for i, e := range evicted {
		keys[i] = e.Key
	}
	return keys
}

// Clear removes every entry.
func (s *Store[V]) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.entries = make(map[string]*Entry[V])
}

func (s *Store[V]) snapshot() []*Entry[V] {
	s.mu.RLock()
	out := make([]*Entry[V], 0, len(s.entries))
	for _, e := range s.entries {
		c := *e
		out = append(out, &c)
	}
	s.mu.RUnlock()

	sortEntries(out)
	return out
}

func sortEntries[V any](entries []*Entry[V]) {
	sort.Slice(entries, func(i, j int) bool {
		if !entries[i].CreatedAt.Equal(entries[j].CreatedAt) {
			return entries[i].CreatedAt.Before(entries[j].CreatedAt)
		}
		return entries[i].Key < entries[j].Key
	})
}
