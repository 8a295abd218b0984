// Package service orchestrates the stateless ask pipeline:
// embed → store-query → assemble → generate.
package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/rs/zerolog"

	"dialograg/internal/assembler"
	"dialograg/internal/domain"
)

// Retriever is the service-facing retrieval port.
type Retriever interface {
	Retrieve(ctx context.Context, question string, k int) (domain.RetrievalResult, error)
}

// AskResult carries the grounded answer plus the full retrieval result that
// produced it, so callers can render source previews even when generation
// failed.
type AskResult struct {
	Answer    domain.GroundedAnswer
	Retrieved domain.RetrievalResult
}

// AskService answers questions grounded in the dialogue corpus.
type AskService struct {
	retriever Retriever
	generator domain.Generator
	budget    int
	log       zerolog.Logger
}

// New creates an AskService. budget is the context size budget in runes.
func New(retriever Retriever, generator domain.Generator, budget int, log zerolog.Logger) *AskService {
	if budget <= 0 {
		budget = assembler.DefaultBudget
	}
	return &AskService{retriever: retriever, generator: generator, budget: budget, log: log}
}

// Ask runs one independent request. Retrieval-stage failures abort before any
// generation call. A generation-stage failure does not discard the retrieval
// results already computed: the returned AskResult still carries citations
// and retrieved units alongside the wrapped domain.ErrGeneration.
func (s *AskService) Ask(ctx context.Context, question string, k int) (*AskResult, error) {
	question = strings.TrimSpace(question)
	if question == "" {
		return nil, fmt.Errorf("empty question")
	}

	result, err := s.retriever.Retrieve(ctx, question, k)
	if err != nil {
		return nil, err
	}
	s.log.Debug().Int("results", len(result)).Str("question", question).Msg("retrieval done")
	if len(result) == 0 {
		return &AskResult{}, nil
	}

	assembled := assembler.Assemble(result, s.budget)
	answer, err := s.generator.Generate(ctx, question, assembled)
	if err != nil {
		s.log.Warn().Err(err).Msg("generation failed, returning sources only")
		return &AskResult{
			Answer:    domain.GroundedAnswer{Citations: assembled.Included},
			Retrieved: result,
		}, err
	}
	return &AskResult{
		Answer:    domain.GroundedAnswer{AnswerText: answer, Citations: assembled.Included},
		Retrieved: result,
	}, nil
}
