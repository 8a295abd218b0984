// Package app wires configuration to concrete embedder and vector store
// implementations. Both binaries build their pipeline through it.
package app

import (
	"context"
	"fmt"
	"os"
	"time"

	"dialograg/internal/config"
	"dialograg/internal/domain"
	"dialograg/internal/embedding/hash"
	"dialograg/internal/embedding/ollama"
	"dialograg/internal/embedding/openai"
	"dialograg/internal/vectorstore/memory"
	"dialograg/internal/vectorstore/pgvector"
	"dialograg/internal/vectorstore/qdrant"
)

// BuildEmbedder constructs the embedder selected by cfg.Embedder.Type.
func BuildEmbedder(cfg *config.AppConfig) (domain.Embedder, error) {
	switch cfg.Embedder.Type {
	case "openai", "":
		o := cfg.Embedder.OpenAI
		if o == nil {
			return nil, fmt.Errorf("openai embedder config missing")
		}
		return openai.NewClient(openai.Config{
			BaseURL:   o.BaseURL,
			APIKeyEnv: o.APIKeyEnv,
			Model:     o.Model,
			Timeout:   time.Duration(o.TimeoutSecs) * time.Second,
		})
	case "ollama":
		o := cfg.Embedder.Ollama
		if o == nil {
			return nil, fmt.Errorf("ollama embedder config missing")
		}
		return ollama.NewClient(ollama.Config{
			Host:    o.Host,
			Model:   o.Model,
			Timeout: time.Duration(o.TimeoutSecs) * time.Second,
		})
	case "hash":
		dim := 0
		if cfg.Embedder.Hash != nil {
			dim = cfg.Embedder.Hash.Dimension
		}
		return hash.NewEmbedder(dim), nil
	default:
		return nil, fmt.Errorf("unknown embedder: %s", cfg.Embedder.Type)
	}
}

// BuildStore constructs the vector store selected by cfg.VectorStore.Type.
func BuildStore(ctx context.Context, cfg *config.AppConfig) (domain.VectorStore, error) {
	switch cfg.VectorStore.Type {
	case "pgvector", "":
		p := cfg.VectorStore.PGVector
		if p == nil {
			return nil, fmt.Errorf("pgvector config missing")
		}
		dsn := os.Getenv(p.DSNEnv)
		if dsn == "" {
			return nil, fmt.Errorf("missing connection string in env %s", p.DSNEnv)
		}
		return pgvector.New(ctx, pgvector.Config{
			DSN:       dsn,
			Table:     p.Table,
			Dimension: p.Dimension,
			Timeout:   time.Duration(p.TimeoutSecs) * time.Second,
		})
	case "qdrant":
		q := cfg.VectorStore.Qdrant
		if q == nil {
			return nil, fmt.Errorf("qdrant config missing")
		}
		return qdrant.New(ctx, qdrant.Config{
			URL:        q.URL,
			APIKey:     os.Getenv(q.APIKeyEnv),
			Collection: q.Collection,
			Dimension:  q.Dimension,
			Timeout:    time.Duration(q.TimeoutSecs) * time.Second,
		})
	case "memory":
		return memory.NewStore(0), nil
	default:
		return nil, fmt.Errorf("unknown vector store: %s", cfg.VectorStore.Type)
	}
}
