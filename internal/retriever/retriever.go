// Package retriever embeds an incoming question and runs the top-K
// nearest-neighbor query against the vector store.
package retriever

import (
	"context"
	"errors"

	"github.com/cenkalti/backoff/v4"

	"dialograg/internal/domain"
)

// DefaultTopK is the reference number of units retrieved per question.
const DefaultTopK = 3

// Retriever wires an embedder to a vector store.
type Retriever struct {
	embedder domain.Embedder
	store    domain.VectorStore
	defaultK int
}

// New creates a retriever. defaultK is used when a caller passes k < 1.
func New(embedder domain.Embedder, store domain.VectorStore, defaultK int) *Retriever {
	if defaultK < 1 {
		defaultK = DefaultTopK
	}
	return &Retriever{embedder: embedder, store: store, defaultK: defaultK}
}

// Retrieve embeds the question and returns up to k units ranked by
// similarity, unmodified from the store. Embedding and store failures
// propagate unmasked; a transient store failure is retried once with backoff.
// If the store holds fewer than k units, all of them are returned.
func (r *Retriever) Retrieve(ctx context.Context, question string, k int) (domain.RetrievalResult, error) {
	if k < 1 {
		k = r.defaultK
	}
	vec, err := r.embedder.Embed(ctx, question)
	if err != nil {
		return nil, err
	}

	var result domain.RetrievalResult
	op := func() error {
		res, err := r.store.Query(ctx, vec, k)
		if err != nil {
			if errors.Is(err, domain.ErrStoreUnavailable) {
				return err
			}
			return backoff.Permanent(err)
		}
		result = res
		return nil
	}
	policy := backoff.WithContext(backoff.WithMaxRetries(backoff.NewExponentialBackOff(), 1), ctx)
	if err := backoff.Retry(op, policy); err != nil {
		return nil, err
	}
	return result, nil
}
