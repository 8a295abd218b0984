package main

import (
	"context"
	"flag"
	"os"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/joho/godotenv"
	"github.com/rs/zerolog"

	"dialograg/internal/app"
	"dialograg/internal/config"
	"dialograg/internal/generator"
	"dialograg/internal/retriever"
	"dialograg/internal/service"
	"dialograg/internal/tui"
)

func main() {
	_ = godotenv.Load()

	var cfgPath string
	var topK int
	flag.StringVar(&cfgPath, "config", "", "Path to YAML config file (optional; uses ~/.config/dialograg/config.yaml if not provided)")
	flag.IntVar(&topK, "k", 0, "Number of dialogues to retrieve per question (overrides config)")
	flag.Parse()

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
	if topK < 1 {
		topK = cfg.Retrieval.TopK
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

	gen, err := generator.NewClient(generator.Config{
		BaseURL:     cfg.Generator.BaseURL,
		APIKeyEnv:   cfg.Generator.APIKeyEnv,
		Model:       cfg.Generator.Model,
		Temperature: cfg.Generator.Temperature,
		MaxTokens:   cfg.Generator.MaxTokens,
		Timeout:     time.Duration(cfg.Generator.TimeoutSecs) * time.Second,
	})
	if err != nil {
		log.Fatal().Err(err).Msg("generator init failed")
	}

	count, err := st.Count(ctx)
	if err != nil {
		log.Fatal().Err(err).Msg("corpus unreachable - run dialograg-index first")
	}

	ret := retriever.New(emb, st, topK)
	svc := service.New(ret, gen, cfg.Retrieval.ContextBudget, log)

	m := tui.New(svc, count, topK)
	if _, err := tea.NewProgram(m, tea.WithAltScreen()).Run(); err != nil {
		log.Fatal().Err(err).Msg("tui failed")
	}
}
