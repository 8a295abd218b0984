package domain

import "context"

// Embedder converts free text into a fixed-dimension vector representation.
// Embed is deterministic for identical input under the same model version.
// Failures wrap ErrEmbedding.
type Embedder interface {
	Name() string
	// Dimension reports the output vector length. Remote implementations may
	// return 0 until the first successful Embed call.
	Dimension() int
	Embed(ctx context.Context, text string) ([]float32, error)
}

// VectorStore persists dialogue units and answers nearest-neighbor queries
// using a single fixed similarity metric (cosine).
type VectorStore interface {
	// Upsert writes a unit, replacing any prior record with the same id
	// entirely. A vector whose length differs from the store's established
	// dimension fails with ErrDimensionMismatch and leaves the store unchanged.
	Upsert(ctx context.Context, unit DialogueUnit) error
	// Query returns up to k units ranked by similarity to vector. An empty
	// result is success; connection or query failures wrap ErrStoreUnavailable.
	Query(ctx context.Context, vector []float32, k int) (RetrievalResult, error)
	// Count reports the number of stored units.
	Count(ctx context.Context) (int, error)
}

// Generator produces a grounded answer from a question and an assembled
// context. Failures wrap ErrGeneration.
type Generator interface {
	Generate(ctx context.Context, question string, assembled AssembledContext) (string, error)
}
