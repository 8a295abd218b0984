package indexer

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/rs/zerolog"

	"dialograg/internal/embedding/hash"
	"dialograg/internal/vectorstore/memory"
)

func writeCorpus(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	files := map[string]string{
		"appel-001.txt": "1. hôtesse : UBS bonjour, je vous écoute\n2. client : je voudrais des informations sur un stage\n",
		"appel-002.txt": "1. hôtesse : nous transférons vers le service formation\n",
		"vide.txt":      "   \n\n",
		"notes.md":      "pas un transcript",
	}
	for name, content := range files {
		if err := os.WriteFile(filepath.Join(dir, name), []byte(content), 0o644); err != nil {
			t.Fatal(err)
		}
	}
	return dir
}

func TestRunIsolatesPerDocumentFailures(t *testing.T) {
	dir := writeCorpus(t)
	store := memory.NewStore(0)
	ix := New(hash.NewEmbedder(64), store, 2, false, zerolog.Nop())

	report, err := ix.Run(context.Background(), []string{filepath.Join(dir, "*.txt")})
	if err != nil {
		t.Fatalf("a malformed document must not abort the batch: %v", err)
	}
	if report.Succeeded != 2 {
		t.Errorf("expected 2 indexed transcripts, got %d", report.Succeeded)
	}
	if report.Failed != 1 {
		t.Errorf("expected 1 failure, got %d", report.Failed)
	}
	if len(report.FailedSources) != 1 || filepath.Base(report.FailedSources[0]) != "vide.txt" {
		t.Errorf("unexpected failed sources: %v", report.FailedSources)
	}
	n, _ := store.Count(context.Background())
	if n != 2 {
		t.Errorf("expected 2 stored units, got %d", n)
	}
}

func TestRunIsIdempotent(t *testing.T) {
	dir := writeCorpus(t)
	store := memory.NewStore(0)
	emb := hash.NewEmbedder(64)
	ix := New(emb, store, 1, false, zerolog.Nop())
	ctx := context.Background()
	patterns := []string{filepath.Join(dir, "*.txt")}

	if _, err := ix.Run(ctx, patterns); err != nil {
		t.Fatal(err)
	}
	first, _ := store.Count(ctx)

	if _, err := ix.Run(ctx, patterns); err != nil {
		t.Fatal(err)
	}
	second, _ := store.Count(ctx)

	if first != second {
		t.Errorf("re-indexing an unchanged corpus changed the record count: %d -> %d", first, second)
	}
}

func TestRunStoresUnitsUnderFilenameDerivedIDs(t *testing.T) {
	dir := writeCorpus(t)
	store := memory.NewStore(0)
	emb := hash.NewEmbedder(64)
	ix := New(emb, store, 1, false, zerolog.Nop())
	ctx := context.Background()

	if _, err := ix.Run(ctx, []string{filepath.Join(dir, "appel-001.txt")}); err != nil {
		t.Fatal(err)
	}
	vec, err := emb.Embed(ctx, "hôtesse : UBS bonjour, je vous écoute\nclient : je voudrais des informations sur un stage")
	if err != nil {
		t.Fatal(err)
	}
	res, err := store.Query(ctx, vec, 1)
	if err != nil {
		t.Fatal(err)
	}
	if len(res) != 1 || res[0].Unit.ID != "appel-001" {
		t.Fatalf("expected unit id appel-001, got %+v", res)
	}
	if res[0].Unit.Turns.First != 1 || res[0].Unit.Turns.Last != 2 {
		t.Errorf("expected turn range 1-2, got %+v", res[0].Unit.Turns)
	}
}

func TestRunWithNoTranscripts(t *testing.T) {
	dir := t.TempDir()
	ix := New(hash.NewEmbedder(64), memory.NewStore(0), 1, false, zerolog.Nop())
	if _, err := ix.Run(context.Background(), []string{filepath.Join(dir, "*.txt")}); err == nil {
		t.Error("expected an error when no transcripts match")
	}
}
