// Package qdrant implements the vector store as a minimal REST client to
// Qdrant. The collection is created with cosine distance if missing.
package qdrant

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/google/uuid"

	"dialograg/internal/domain"
)

// Store implements domain.VectorStore against a Qdrant collection.
type Store struct {
	url        string
	apiKey     string
	collection string
	dimension  int
	client     *http.Client
}

// Config configures the Qdrant store.
type Config struct {
	URL        string
	APIKey     string
	Collection string
	Dimension  int
	Timeout    time.Duration
}

// New creates a Qdrant store and ensures the collection exists with cosine
// distance and the configured dimension.
func New(ctx context.Context, cfg Config) (*Store, error) {
	if cfg.URL == "" {
		return nil, fmt.Errorf("qdrant URL is required")
	}
	if cfg.Collection == "" {
		cfg.Collection = "dialogues"
	}
	if cfg.Dimension <= 0 {
		return nil, fmt.Errorf("qdrant store requires a positive vector dimension")
	}
	timeout := cfg.Timeout
	if timeout == 0 {
		timeout = 15 * time.Second
	}
	s := &Store{
		url:        cfg.URL,
		apiKey:     cfg.APIKey,
		collection: cfg.Collection,
		dimension:  cfg.Dimension,
		client:     &http.Client{Timeout: timeout},
	}
	body := map[string]any{
		"vectors": map[string]any{
			"size":     cfg.Dimension,
			"distance": "Cosine",
		},
	}
	// Qdrant returns 200 OK if the collection already exists with this schema.
	if err := s.putJSON(ctx, fmt.Sprintf("%s/collections/%s", s.url, s.collection), body); err != nil {
		return nil, err
	}
	return s, nil
}

// pointID maps a unit id to the UUID Qdrant requires for point ids. The
// mapping is deterministic so re-indexing the same file replaces its point.
func pointID(unitID string) string {
	return uuid.NewSHA1(uuid.NameSpaceOID, []byte(unitID)).String()
}

// Upsert writes a unit as a single point, replacing any point with the same id.
// Qdrant only accepts UUID or unsigned-integer point ids, so the unit id is
// carried in the payload and the point id is derived from it.
func (s *Store) Upsert(ctx context.Context, unit domain.DialogueUnit) error {
	if len(unit.Vector) != s.dimension {
		return fmt.Errorf("%w: got %d, store expects %d", domain.ErrDimensionMismatch, len(unit.Vector), s.dimension)
	}
	body := map[string]any{
		"points": []map[string]any{{
			"id":     pointID(unit.ID),
			"vector": unit.Vector,
			"payload": map[string]any{
				"unit_id":    unit.ID,
				"text":       unit.Text,
				"source":     unit.Source,
				"first_turn": unit.Turns.First,
				"last_turn":  unit.Turns.Last,
			},
		}},
	}
	return s.putJSON(ctx, fmt.Sprintf("%s/collections/%s/points?wait=true", s.url, s.collection), body)
}

// Query returns up to k units ranked by cosine similarity to vector.
func (s *Store) Query(ctx context.Context, vector []float32, k int) (domain.RetrievalResult, error) {
	if len(vector) != s.dimension {
		return nil, fmt.Errorf("%w: got %d, store expects %d", domain.ErrDimensionMismatch, len(vector), s.dimension)
	}
	if k < 1 {
		k = 1
	}
	req := map[string]any{
		"vector":       vector,
		"limit":        k,
		"with_payload": true,
	}
	var resp struct {
		Result []struct {
			ID      any            `json:"id"`
			Score   float64        `json:"score"`
			Payload map[string]any `json:"payload"`
		} `json:"result"`
	}
	if err := s.postJSON(ctx, fmt.Sprintf("%s/collections/%s/points/search", s.url, s.collection), req, &resp); err != nil {
		return nil, err
	}
	results := make(domain.RetrievalResult, 0, len(resp.Result))
	for _, r := range resp.Result {
		su := domain.ScoredUnit{Score: r.Score}
		if v, ok := r.Payload["unit_id"].(string); ok {
			su.Unit.ID = v
		}
		if v, ok := r.Payload["text"].(string); ok {
			su.Unit.Text = v
		}
		if v, ok := r.Payload["source"].(string); ok {
			su.Unit.Source = v
		}
		if v, ok := r.Payload["first_turn"].(float64); ok {
			su.Unit.Turns.First = int(v)
		}
		if v, ok := r.Payload["last_turn"].(float64); ok {
			su.Unit.Turns.Last = int(v)
		}
		results = append(results, su)
	}
	return results, nil
}

// Count reports the number of stored units.
func (s *Store) Count(ctx context.Context) (int, error) {
	var resp struct {
		Result struct {
			Count int `json:"count"`
		} `json:"result"`
	}
	err := s.postJSON(ctx, fmt.Sprintf("%s/collections/%s/points/count", s.url, s.collection), map[string]any{"exact": true}, &resp)
	if err != nil {
		return 0, err
	}
	return resp.Result.Count, nil
}

func (s *Store) putJSON(ctx context.Context, url string, body any) error {
	data, _ := json.Marshal(body)
	req, err := http.NewRequestWithContext(ctx, http.MethodPut, url, bytes.NewReader(data))
	if err != nil {
		return fmt.Errorf("%w: %v", domain.ErrStoreUnavailable, err)
	}
	req.Header.Set("Content-Type", "application/json")
	if s.apiKey != "" {
		req.Header.Set("api-key", s.apiKey)
	}
	resp, err := s.client.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %v", domain.ErrStoreUnavailable, err)
	}
	defer resp.Body.Close()
	if resp.StatusCode >= 300 {
		return fmt.Errorf("%w: qdrant PUT %s: %s", domain.ErrStoreUnavailable, url, resp.Status)
	}
	return nil
}

func (s *Store) postJSON(ctx context.Context, url string, body any, out any) error {
	data, _ := json.Marshal(body)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(data))
	if err != nil {
		return fmt.Errorf("%w: %v", domain.ErrStoreUnavailable, err)
	}
	req.Header.Set("Content-Type", "application/json")
	if s.apiKey != "" {
		req.Header.Set("api-key", s.apiKey)
	}
	resp, err := s.client.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %v", domain.ErrStoreUnavailable, err)
	}
	defer resp.Body.Close()
	if resp.StatusCode >= 300 {
		return fmt.Errorf("%w: qdrant POST %s: %s", domain.ErrStoreUnavailable, url, resp.Status)
	}
	if out != nil {
		return json.NewDecoder(resp.Body).Decode(out)
	}
	return nil
}
