package passagedb

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/0xcro3dile/companyqa/internal/domain/entities"
)

// MemoryStore is an in-memory passage store for tests and throwaway runs.
// Same contract as the persistent backends, no durability.
type MemoryStore struct {
	mu        sync.RWMutex
	passages  []entities.Passage
	dimension int
}

// NewMemoryStore creates a new in-memory passage store.
func NewMemoryStore(dimension int) *MemoryStore {
	return &MemoryStore{dimension: dimension}
}

// ResetAndLoad replaces all stored passages with the given set.
func (s *MemoryStore) ResetAndLoad(ctx context.Context, passages []entities.Passage) (int, error) {
	for _, p := range passages {
		if len(p.Embedding) != s.dimension {
			return 0, fmt.Errorf("%w: passage %q has %d dimensions, store expects %d",
				entities.ErrDimensionMismatch, p.Name, len(p.Embedding), s.dimension)
		}
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	stored := make([]entities.Passage, len(passages))
	for i, p := range passages {
		p.ID = int64(i + 1)
		stored[i] = p
	}
	s.passages = stored
	return len(stored), nil
}

// Nearest returns up to k passages by ascending L2 distance, ties by id.
func (s *MemoryStore) Nearest(ctx context.Context, vector []float32, k int) ([]entities.Match, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var matches []entities.Match
	for _, p := range s.passages {
		if len(p.Embedding) != len(vector) {
			return nil, fmt.Errorf("%w: stored passage %d has %d dimensions, query has %d",
				entities.ErrDimensionMismatch, p.ID, len(p.Embedding), len(vector))
		}
		matches = append(matches, entities.Match{
			Passage:  p,
			Distance: l2Distance(vector, p.Embedding),
		})
	}

	// Stable sort preserves insertion (id) order among equal distances.
	sort.SliceStable(matches, func(i, j int) bool {
		return matches[i].Distance < matches[j].Distance
	})

	if len(matches) > k {
		matches = matches[:k]
	}
	return matches, nil
}

// Count returns the number of stored passages.
func (s *MemoryStore) Count(ctx context.Context) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.passages), nil
}

// Close is a no-op for the in-memory store.
func (s *MemoryStore) Close() error { return nil }
