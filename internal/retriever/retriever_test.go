package retriever

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"dialograg/internal/domain"
)

type stubEmbedder struct {
	vec []float32
	err error
}

func (s *stubEmbedder) Name() string   { return "stub" }
func (s *stubEmbedder) Dimension() int { return len(s.vec) }
func (s *stubEmbedder) Embed(context.Context, string) ([]float32, error) {
	return s.vec, s.err
}

type stubStore struct {
	result domain.RetrievalResult
	errs   []error // consumed one per Query call
	calls  int
	gotK   []int
}

func (s *stubStore) Upsert(context.Context, domain.DialogueUnit) error { return nil }
func (s *stubStore) Count(context.Context) (int, error)                { return len(s.result), nil }
func (s *stubStore) Query(_ context.Context, _ []float32, k int) (domain.RetrievalResult, error) {
	s.calls++
	s.gotK = append(s.gotK, k)
	if len(s.errs) > 0 {
		err := s.errs[0]
		s.errs = s.errs[1:]
		if err != nil {
			return nil, err
		}
	}
	return s.result, nil
}

func TestRetrieveClampsKToDefault(t *testing.T) {
	store := &stubStore{}
	r := New(&stubEmbedder{vec: []float32{1}}, store, 3)

	if _, err := r.Retrieve(context.Background(), "question", 0); err != nil {
		t.Fatal(err)
	}
	if store.gotK[0] != 3 {
		t.Errorf("k=0 should clamp to default 3, store saw %d", store.gotK[0])
	}
}

func TestRetrievePropagatesEmbeddingFailure(t *testing.T) {
	store := &stubStore{}
	r := New(&stubEmbedder{err: fmt.Errorf("%w: model unreachable", domain.ErrEmbedding)}, store, 3)

	_, err := r.Retrieve(context.Background(), "question", 2)
	if !errors.Is(err, domain.ErrEmbedding) {
		t.Fatalf("expected ErrEmbedding, got %v", err)
	}
	if store.calls != 0 {
		t.Error("store must not be queried when embedding fails")
	}
}

func TestRetrieveRetriesTransientStoreFailureOnce(t *testing.T) {
	store := &stubStore{
		result: domain.RetrievalResult{{Unit: domain.DialogueUnit{ID: "u1"}, Score: 0.8}},
		errs:   []error{fmt.Errorf("%w: connection reset", domain.ErrStoreUnavailable)},
	}
	r := New(&stubEmbedder{vec: []float32{1}}, store, 3)

	res, err := r.Retrieve(context.Background(), "question", 1)
	if err != nil {
		t.Fatalf("expected success after one retry, got %v", err)
	}
	if store.calls != 2 {
		t.Errorf("expected exactly 2 query attempts, got %d", store.calls)
	}
	if len(res) != 1 || res[0].Unit.ID != "u1" {
		t.Errorf("unexpected result: %+v", res)
	}
}

func TestRetrieveGivesUpAfterBoundedRetry(t *testing.T) {
	unavailable := fmt.Errorf("%w: connection reset", domain.ErrStoreUnavailable)
	store := &stubStore{errs: []error{unavailable, unavailable, unavailable}}
	r := New(&stubEmbedder{vec: []float32{1}}, store, 3)

	_, err := r.Retrieve(context.Background(), "question", 1)
	if !errors.Is(err, domain.ErrStoreUnavailable) {
		t.Fatalf("expected ErrStoreUnavailable, got %v", err)
	}
	if store.calls != 2 {
		t.Errorf("expected 2 attempts (initial + one retry), got %d", store.calls)
	}
}

func TestRetrieveNeverRetriesDimensionMismatch(t *testing.T) {
	store := &stubStore{errs: []error{fmt.Errorf("%w: got 2, store expects 3", domain.ErrDimensionMismatch)}}
	r := New(&stubEmbedder{vec: []float32{1, 0}}, store, 3)

	_, err := r.Retrieve(context.Background(), "question", 1)
	if !errors.Is(err, domain.ErrDimensionMismatch) {
		t.Fatalf("expected ErrDimensionMismatch, got %v", err)
	}
	if store.calls != 1 {
		t.Errorf("a data-integrity error must not be retried, got %d attempts", store.calls)
	}
}

func TestRetrieveReturnsAllWhenStoreSmallerThanK(t *testing.T) {
	store := &stubStore{result: domain.RetrievalResult{
		{Unit: domain.DialogueUnit{ID: "u1"}, Score: 0.9},
		{Unit: domain.DialogueUnit{ID: "u2"}, Score: 0.5},
	}}
	r := New(&stubEmbedder{vec: []float32{1}}, store, 3)

	res, err := r.Retrieve(context.Background(), "question", 10)
	if err != nil {
		t.Fatal(err)
	}
	if len(res) != 2 {
		t.Errorf("expected all available units without padding, got %d", len(res))
	}
}
