package store

import (
	"sort"
	"sync"

	"github.com/fastmatch/fastmatch/pkg/types"
)

// MemoryStore implements Store with in-memory data structures.
type MemoryStore struct {
	mu      sync.RWMutex
	matches map[string][]*types.Match // keyed by source
}

// NewMemory creates a new in-memory store.
func NewMemory() *MemoryStore {
	return &MemoryStore{matches: make(map[string][]*types.Match)}
}

// AddMatch stores one match record under a source tag.
func (s *MemoryStore) AddMatch(source string, m *types.Match) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	cp := *m
	s.matches[source] = append(s.matches[source], &cp)
	return nil
}

// GetMatches retrieves the records stored under a source tag.
func (s *MemoryStore) GetMatches(source string) ([]*types.Match, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	stored := s.matches[source]
	result := make([]*types.Match, len(stored))
	copy(result, stored)
	return result, nil
}

// Sources lists the distinct source tags with stored records.
func (s *MemoryStore) Sources() ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]string, 0, len(s.matches))
	for source := range s.matches {
		out = append(out, source)
	}
	sort.Strings(out)
	return out, nil
}

// Count returns the total number of stored records.
func (s *MemoryStore) Count() (int64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var n int64
	for _, ms := range s.matches {
		n += int64(len(ms))
	}
	return n, nil
}

// Close is a no-op for the in-memory store.
func (s *MemoryStore) Close() error { return nil }
