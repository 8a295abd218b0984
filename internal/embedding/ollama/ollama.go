// Package ollama provides an embedder backed by a local Ollama server.
package ollama

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"sync/atomic"
	"time"

	"github.com/ollama/ollama/api"

	"dialograg/internal/domain"
)

// Client implements domain.Embedder using the Ollama embeddings API.
// A single Client is shared across concurrent indexer workers.
type Client struct {
	client  *api.Client
	model   string
	timeout time.Duration

	// Captured from the first successful Embed call; atomic because
	// concurrent Embed calls may race to set it.
	dimension atomic.Int64
}

// Config configures the Ollama embeddings client.
type Config struct {
	// Host of the Ollama server. Empty uses OLLAMA_HOST or the local default.
	Host    string
	Model   string
	Timeout time.Duration
}

// NewClient creates a new Ollama embeddings client.
func NewClient(cfg Config) (*Client, error) {
	var client *api.Client
	if cfg.Host == "" {
		var err error
		client, err = api.ClientFromEnvironment()
		if err != nil {
			return nil, fmt.Errorf("ollama client init: %w", err)
		}
	} else {
		u, err := url.Parse(cfg.Host)
		if err != nil {
			return nil, fmt.Errorf("invalid ollama host %q: %w", cfg.Host, err)
		}
		client = api.NewClient(u, http.DefaultClient)
	}
	if cfg.Model == "" {
		cfg.Model = "nomic-embed-text"
	}
	t := cfg.Timeout
	if t == 0 {
		t = 30 * time.Second
	}
	return &Client{client: client, model: cfg.Model, timeout: t}, nil
}

// Name returns the identifier of this embedder implementation.
func (c *Client) Name() string { return "ollama" }

// Dimension returns the dimensionality of the produced embedding vectors.
// The dimension is captured lazily from the first successful Embed call.
func (c *Client) Dimension() int { return int(c.dimension.Load()) }

// Embed returns an embedding vector for the given text.
func (c *Client) Embed(ctx context.Context, text string) ([]float32, error) {
	if text == "" {
		return nil, fmt.Errorf("%w: empty input", domain.ErrEmbedding)
	}
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	resp, err := c.client.Embeddings(ctx, &api.EmbeddingRequest{
		Model:  c.model,
		Prompt: text,
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrEmbedding, err)
	}
	if len(resp.Embedding) == 0 {
		return nil, fmt.Errorf("%w: no embedding returned", domain.ErrEmbedding)
	}
	vec := make([]float32, len(resp.Embedding))
	for i, v := range resp.Embedding {
		vec[i] = float32(v)
	}
	c.dimension.CompareAndSwap(0, int64(len(vec)))
	return vec, nil
}
