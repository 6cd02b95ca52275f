package matching

import (
	"sort"
	"sync"
)

// MappingStore holds user-defined substance mappings. It is shared by
// every Service built with it, so an override saved once applies to all
// later lookups. Safe for concurrent use.
type MappingStore struct {
	mu       sync.RWMutex
	mappings map[string]string
}

// NewMappingStore returns an empty store.
func NewMappingStore() *MappingStore {
	return &MappingStore{mappings: make(map[string]string)}
}

// Set records original -> mapped. Both are normalized.
func (s *MappingStore) Set(original, mapped string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.mappings[Normalize(original)] = Normalize(mapped)
}

// Lookup returns the mapped substance for an already-normalized key.
func (s *MappingStore) Lookup(key string) (string, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	v, ok := s.mappings[key]
	return v, ok
}

// Delete removes a mapping and reports whether it existed.
func (s *MappingStore) Delete(original string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	key := Normalize(original)
	_, ok := s.mappings[key]
	delete(s.mappings, key)
	return ok
}

// Len returns the number of mappings.
func (s *MappingStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.mappings)
}

// Mapping is one stored override.
type Mapping struct {
	Original string `json:"original" yaml:"original"`
	Mapped   string `json:"mapped" yaml:"mapped"`
}

// All returns every mapping sorted by original.
func (s *MappingStore) All() []Mapping {
	s.mu.RLock()
	out := make([]Mapping, 0, len(s.mappings))
	for k, v := range s.mappings {
		out = append(out, Mapping{Original: k, Mapped: v})
	}
	s.mu.RUnlock()

	sort.Slice(out, func(i, j int) bool { return out[i].Original < out[j].Original })
	return out
}
