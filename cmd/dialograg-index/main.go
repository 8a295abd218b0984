// Command dialograg-index is the batch corpus loader. It reads annotated
// transcript files, normalizes and embeds them, and writes dialogue units to
// the same vector store the chat binary queries.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"

	"dialograg/internal/app"
	"dialograg/internal/config"
	"dialograg/internal/indexer"
)

func main() {
	_ = godotenv.Load()

	var cfgPath string
	flag.StringVar(&cfgPath, "config", "", "Path to YAML config file (optional; uses ~/.config/dialograg/config.yaml if not provided)")
	flag.Parse()
	inputs := flag.Args()
	if len(inputs) == 0 {
		fmt.Println("Usage: dialograg-index [--config=config.yaml] dialogue1.txt [dialogues/*.txt ...]")
		os.Exit(1)
	}

	log := zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).With().Timestamp().Logger()

	var cfg *config.AppConfig
	var err error
	if cfgPath == "" {
		cfg, _, err = config.LoadDefault()
	} else {
		cfg, err = config.Load(cfgPath)
	}
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load config")
	}

	ctx := context.Background()

	emb, err := app.BuildEmbedder(cfg)
	if err != nil {
		log.Fatal().Err(err).Msg("embedder init failed")
	}
	st, err := app.BuildStore(ctx, cfg)
	if err != nil {
		log.Fatal().Err(err).Msg("vector store init failed")
	}

	ix := indexer.New(emb, st, cfg.Indexer.Concurrency, cfg.Indexer.KeepTurnMarkers, log)
	report, err := ix.Run(ctx, inputs)
	if err != nil {
		log.Fatal().Err(err).Msg("indexing failed")
	}
	for _, src := range report.FailedSources {
		log.Warn().Str("source", src).Msg("not indexed")
	}
	if report.Succeeded == 0 {
		log.Fatal().Msg("no transcript could be indexed")
	}
}
