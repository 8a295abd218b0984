package domain

import "errors"

// Failure kinds of the retrieval and generation pipeline. Stage code wraps
// these with %w so callers can classify with errors.Is.
var (
	// ErrEmbedding: the embedding model is unreachable or rejected the input.
	ErrEmbedding = errors.New("embedding failed")
	// ErrDimensionMismatch: a vector length is inconsistent with the store's
	// established dimension. Data-integrity error, never retried.
	ErrDimensionMismatch = errors.New("vector dimension mismatch")
	// ErrStoreUnavailable: the backing store cannot be reached or the query
	// failed. Distinct from an empty (successful) result.
	ErrStoreUnavailable = errors.New("vector store unavailable")
	// ErrGeneration: the generation service is unreachable or returned a
	// malformed response. Retrieval results remain usable.
	ErrGeneration = errors.New("generation failed")
)
