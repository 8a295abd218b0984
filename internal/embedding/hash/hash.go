// Package hash provides a deterministic, offline feature-hashing embedder.
// It is a coarse stand-in for a real embedding model, intended for local
// development and tests where no model server is reachable.
package hash

import (
	"context"
	"fmt"
	"hash/fnv"
	"math"
	"regexp"
	"strings"

	"dialograg/internal/domain"
)

var wordRe = regexp.MustCompile(`\p{L}+(?:['’]\p{L}+)*`)

// Embedder hashes lowercased word tokens into a fixed number of signed
// buckets and L2-normalizes the result, so dot product equals cosine.
type Embedder struct {
	dimension int
}

// NewEmbedder creates a hashing embedder with the given output dimension.
func NewEmbedder(dimension int) *Embedder {
	if dimension <= 0 {
		dimension = 256
	}
	return &Embedder{dimension: dimension}
}

// Name returns the identifier of this embedder implementation.
func (e *Embedder) Name() string { return "hash" }

// Dimension returns the fixed output vector length.
func (e *Embedder) Dimension() int { return e.dimension }

// Embed returns a normalized bag-of-words hash vector for the given text.
func (e *Embedder) Embed(_ context.Context, text string) ([]float32, error) {
	if text == "" {
		return nil, fmt.Errorf("%w: empty input", domain.ErrEmbedding)
	}
	vec := make([]float32, e.dimension)
	tokens := wordRe.FindAllString(strings.ToLower(text), -1)
	for _, tok := range tokens {
		h := fnv.New32a()
		h.Write([]byte(tok))
		sum := h.Sum32()
		idx := int(sum % uint32(e.dimension))
		if sum&0x80000000 != 0 {
			vec[idx]--
		} else {
			vec[idx]++
		}
	}
	normalize(vec)
	return vec, nil
}

func normalize(vec []float32) {
	var sum float64
	for _, v := range vec {
		sum += float64(v) * float64(v)
	}
	if sum == 0 {
		return
	}
	norm := math.Sqrt(sum)
	for i := range vec {
		vec[i] = float32(float64(vec[i]) / norm)
	}
}
