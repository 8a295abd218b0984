// Package generator builds the grounded prompt and calls the generation
// service once per request. The client speaks the OpenAI chat-completions
// protocol; the default target is Groq's compatible endpoint.
package generator

import (
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/openai/openai-go/v2"
	"github.com/openai/openai-go/v2/option"
	"github.com/openai/openai-go/v2/shared"

	"dialograg/internal/domain"
)

// Client implements domain.Generator over an OpenAI-compatible chat API.
type Client struct {
	client      *openai.Client
	model       string
	temperature float64
	maxTokens   int
	timeout     time.Duration
}

// Config configures the generation client.
type Config struct {
	BaseURL     string
	APIKeyEnv   string
	Model       string
	Temperature float64
	MaxTokens   int
	Timeout     time.Duration
}

// NewClient creates a generation client using the provided configuration.
func NewClient(cfg Config) (*Client, error) {
	key := os.Getenv(cfg.APIKeyEnv)
	if key == "" {
		return nil, fmt.Errorf("missing API key in env %s", cfg.APIKeyEnv)
	}
	if cfg.Model == "" {
		cfg.Model = "llama-3.3-70b-versatile"
	}
	if cfg.Temperature == 0 {
		cfg.Temperature = 0.7
	}
	if cfg.MaxTokens == 0 {
		cfg.MaxTokens = 500
	}
	t := cfg.Timeout
	if t == 0 {
		t = 60 * time.Second
	}
	opts := []option.RequestOption{option.WithAPIKey(key)}
	if cfg.BaseURL != "" {
		opts = append(opts, option.WithBaseURL(cfg.BaseURL))
	}
	client := openai.NewClient(opts...)
	return &Client{
		client:      &client,
		model:       cfg.Model,
		temperature: cfg.Temperature,
		maxTokens:   cfg.MaxTokens,
		timeout:     t,
	}, nil
}

// Generate asks the generation service for an answer grounded in the
// assembled context. One chat completion per request, no multi-turn state; a
// transient service failure is retried once with backoff.
func (c *Client) Generate(ctx context.Context, question string, assembled domain.AssembledContext) (string, error) {
	prompt := buildPrompt(question, assembled.Text)

	var answer string
	op := func() error {
		callCtx, cancel := context.WithTimeout(ctx, c.timeout)
		defer cancel()
		resp, err := c.client.Chat.Completions.New(callCtx, openai.ChatCompletionNewParams{
			Model: shared.ChatModel(c.model),
			Messages: []openai.ChatCompletionMessageParamUnion{
				openai.UserMessage(prompt),
			},
			Temperature: openai.Float(c.temperature),
			MaxTokens:   openai.Int(int64(c.maxTokens)),
		})
		if err != nil {
			return fmt.Errorf("%w: %v", domain.ErrGeneration, err)
		}
		if len(resp.Choices) == 0 {
			return backoff.Permanent(fmt.Errorf("%w: no choices returned", domain.ErrGeneration))
		}
		answer = resp.Choices[0].Message.Content
		return nil
	}
	policy := backoff.WithContext(backoff.WithMaxRetries(backoff.NewExponentialBackOff(), 1), ctx)
	if err := backoff.Retry(op, policy); err != nil {
		return "", err
	}
	return answer, nil
}

// buildPrompt instructs the model to answer only from the supplied dialogues,
// embeds the context verbatim, and appends the literal question.
func buildPrompt(question, context string) string {
	var sb strings.Builder
	sb.WriteString("Tu es un assistant intelligent qui répond aux questions en te basant sur des dialogues de conversations téléphoniques.\n\n")
	sb.WriteString("Contexte (extraits de dialogues):\n")
	sb.WriteString(context)
	sb.WriteString("\n\nQuestion: ")
	sb.WriteString(question)
	sb.WriteString("\n\nRéponds de manière claire et concise en français, en t'appuyant uniquement sur les informations contenues dans les dialogues ci-dessus. ")
	sb.WriteString("Cite les identifiants des dialogues (par exemple [Dialogue 1]) qui appuient ta réponse. ")
	sb.WriteString("Si les dialogues ne contiennent pas d'information pertinente, dis-le clairement.")
	return sb.String()
}
