package config

import (
	"path/filepath"
	"testing"
)

func TestLoadMissingFileReturnsDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Embedder.Type != "openai" {
		t.Errorf("default embedder should be openai, got %q", cfg.Embedder.Type)
	}
	if cfg.VectorStore.Type != "pgvector" {
		t.Errorf("default store should be pgvector, got %q", cfg.VectorStore.Type)
	}
	if cfg.VectorStore.PGVector.Table != "dialogues" {
		t.Errorf("default table should be dialogues, got %q", cfg.VectorStore.PGVector.Table)
	}
	if cfg.VectorStore.PGVector.TimeoutSecs != 15 {
		t.Errorf("default store timeout should be 15s, got %d", cfg.VectorStore.PGVector.TimeoutSecs)
	}
	if cfg.Retrieval.TopK != 3 {
		t.Errorf("default top_k should be 3, got %d", cfg.Retrieval.TopK)
	}
	if cfg.Retrieval.ContextBudget != 4000 {
		t.Errorf("default context budget should be 4000, got %d", cfg.Retrieval.ContextBudget)
	}
	if cfg.Generator.BaseURL != "https://api.groq.com/openai/v1" {
		t.Errorf("unexpected default generator URL %q", cfg.Generator.BaseURL)
	}
	if cfg.Generator.Model != "llama-3.3-70b-versatile" {
		t.Errorf("unexpected default generator model %q", cfg.Generator.Model)
	}
}

func TestSaveLoadRoundtrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	in := &AppConfig{
		Embedder: EmbedderConfig{Type: "hash", Hash: &HashEmbedderConfig{Dimension: 128}},
		VectorStore: VectorStoreConfig{
			Type:   "qdrant",
			Qdrant: &QdrantConfig{URL: "http://localhost:6333", Collection: "corpus", Dimension: 128},
		},
		Retrieval: RetrievalConfig{TopK: 5, ContextBudget: 2000},
	}
	if err := Save(path, in); err != nil {
		t.Fatal(err)
	}
	out, err := Load(path)
	if err != nil {
		t.Fatal(err)
	}
	if out.Embedder.Type != "hash" || out.Embedder.Hash.Dimension != 128 {
		t.Errorf("embedder config lost in roundtrip: %+v", out.Embedder)
	}
	if out.VectorStore.Qdrant.Collection != "corpus" {
		t.Errorf("store config lost in roundtrip: %+v", out.VectorStore)
	}
	if out.Retrieval.TopK != 5 || out.Retrieval.ContextBudget != 2000 {
		t.Errorf("retrieval config lost in roundtrip: %+v", out.Retrieval)
	}
}

func TestApplyDefaultsFillsPartialConfig(t *testing.T) {
	cfg := &AppConfig{Embedder: EmbedderConfig{Type: "ollama"}}
	applyConfigDefaults(cfg)
	if cfg.Embedder.Ollama == nil || cfg.Embedder.Ollama.Model != "nomic-embed-text" {
		t.Errorf("ollama defaults not applied: %+v", cfg.Embedder.Ollama)
	}
	if cfg.Indexer.Concurrency != 4 {
		t.Errorf("indexer concurrency default not applied: %d", cfg.Indexer.Concurrency)
	}
	if cfg.Generator.TimeoutSecs != 60 {
		t.Errorf("generator timeout default not applied: %d", cfg.Generator.TimeoutSecs)
	}
}
