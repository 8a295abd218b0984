// Package memory provides an in-memory vector store using brute-force cosine
// similarity. Primarily for tests and local development.
package memory

import (
	"context"
	"fmt"
	"math"
	"sort"
	"sync"

	"dialograg/internal/domain"
)

// Store keeps units in insertion order so equal scores rank deterministically.
type Store struct {
	mu        sync.RWMutex
	dimension int
	units     []domain.DialogueUnit
	index     map[string]int // id -> position in units
}

// NewStore creates an in-memory store. A dimension of 0 adopts the length of
// the first upserted vector as the established dimension.
func NewStore(dimension int) *Store {
	return &Store{dimension: dimension, index: make(map[string]int)}
}

// Upsert writes a unit, replacing any prior record with the same id in place
// so its original insertion rank is preserved.
func (s *Store) Upsert(_ context.Context, unit domain.DialogueUnit) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.dimension == 0 {
		if len(unit.Vector) == 0 {
			return fmt.Errorf("%w: empty vector", domain.ErrDimensionMismatch)
		}
		s.dimension = len(unit.Vector)
	}
	if len(unit.Vector) != s.dimension {
		return fmt.Errorf("%w: got %d, store expects %d", domain.ErrDimensionMismatch, len(unit.Vector), s.dimension)
	}
	if pos, ok := s.index[unit.ID]; ok {
		s.units[pos] = unit
		return nil
	}
	s.index[unit.ID] = len(s.units)
	s.units = append(s.units, unit)
	return nil
}

// Query returns up to k units ranked by cosine similarity, ties broken by
// insertion order.
func (s *Store) Query(_ context.Context, vector []float32, k int) (domain.RetrievalResult, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if k < 1 {
		k = 1
	}
	if s.dimension != 0 && len(vector) != s.dimension {
		return nil, fmt.Errorf("%w: got %d, store expects %d", domain.ErrDimensionMismatch, len(vector), s.dimension)
	}
	results := make(domain.RetrievalResult, 0, len(s.units))
	for _, u := range s.units {
		results = append(results, domain.ScoredUnit{Unit: u, Score: cosine(u.Vector, vector)})
	}
	sort.SliceStable(results, func(i, j int) bool { return results[i].Score > results[j].Score })
	if k > len(results) {
		k = len(results)
	}
	return results[:k], nil
}

// Count reports the number of stored units.
func (s *Store) Count(_ context.Context) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.units), nil
}

func cosine(a, b []float32) float64 {
	n := len(a)
	if len(b) < n {
		n = len(b)
	}
	var dot, na, nb float64
	for i := 0; i < n; i++ {
		dot += float64(a[i]) * float64(b[i])
		na += float64(a[i]) * float64(a[i])
		nb += float64(b[i]) * float64(b[i])
	}
	if na == 0 || nb == 0 {
		return 0
	}
	return dot / (math.Sqrt(na) * math.Sqrt(nb))
}
