// Package indexer is the batch producer of the corpus: it reads raw
// transcript files, normalizes them into retrievable units (one unit per
// document), embeds them, and writes them to the vector store. It shares no
// in-process state with the query path; they communicate only through the
// persisted store.
package indexer

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"dialograg/internal/domain"
)

// Indexer loads a transcript corpus into a vector store.
type Indexer struct {
	embedder    domain.Embedder
	store       domain.VectorStore
	concurrency int
	keepMarkers bool
	log         zerolog.Logger
}

// Report summarizes a batch run. One malformed document never aborts the
// batch; its source ends up here instead.
type Report struct {
	Succeeded     int
	Failed        int
	FailedSources []string
}

// New creates an indexer writing through the given embedder and store.
func New(embedder domain.Embedder, store domain.VectorStore, concurrency int, keepMarkers bool, log zerolog.Logger) *Indexer {
	if concurrency < 1 {
		concurrency = 1
	}
	return &Indexer{
		embedder:    embedder,
		store:       store,
		concurrency: concurrency,
		keepMarkers: keepMarkers,
		log:         log,
	}
}

// Run indexes every .txt file matched by the given paths or glob patterns.
// Documents are processed by a bounded worker pool; per-document failures are
// collected into the report rather than failing the run.
func (ix *Indexer) Run(ctx context.Context, patterns []string) (*Report, error) {
	paths, err := expand(patterns)
	if err != nil {
		return nil, err
	}
	if len(paths) == 0 {
		return nil, fmt.Errorf("no .txt transcripts found")
	}

	var (
		mu     sync.Mutex
		report Report
	)
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(ix.concurrency)
	for _, path := range paths {
		g.Go(func() error {
			err := ix.indexFile(ctx, path)
			mu.Lock()
			defer mu.Unlock()
			if err != nil {
				ix.log.Warn().Str("source", path).Err(err).Msg("transcript skipped")
				report.Failed++
				report.FailedSources = append(report.FailedSources, path)
				return nil
			}
			report.Succeeded++
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	sort.Strings(report.FailedSources)
	ix.log.Info().
		Int("succeeded", report.Succeeded).
		Int("failed", report.Failed).
		Msg("corpus indexed")
	return &report, nil
}

func (ix *Indexer) indexFile(ctx context.Context, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	text, turns := Normalize(string(data), ix.keepMarkers)
	if text == "" {
		return fmt.Errorf("no prose content after normalization")
	}
	vec, err := ix.embedder.Embed(ctx, text)
	if err != nil {
		return err
	}
	unit := domain.DialogueUnit{
		ID:     UnitID(path),
		Text:   text,
		Vector: vec,
		Source: path,
		Turns:  turns,
	}
	return ix.store.Upsert(ctx, unit)
}

func expand(patterns []string) ([]string, error) {
	var paths []string
	seen := make(map[string]struct{})
	for _, p := range patterns {
		matches, err := filepath.Glob(p)
		if err != nil {
			return nil, fmt.Errorf("bad pattern %q: %w", p, err)
		}
		if matches == nil {
			matches = []string{p}
		}
		for _, m := range matches {
			if !strings.HasSuffix(strings.ToLower(m), ".txt") {
				continue
			}
			if _, ok := seen[m]; ok {
				continue
			}
			seen[m] = struct{}{}
			paths = append(paths, m)
		}
	}
	sort.Strings(paths)
	return paths, nil
}
