package tui

import (
	"context"
	"testing"

	"dialograg/internal/service"
)

type captureAsk struct {
	ctx context.Context
}

func (c *captureAsk) Ask(ctx context.Context, question string, k int) (*service.AskResult, error) {
	c.ctx = ctx
	return &service.AskResult{}, nil
}

func TestAskCommandCarriesDeadline(t *testing.T) {
	stub := &captureAsk{}
	m := New(stub, 0, 3)

	msg := m.ask("Comment l'hôtesse accueille-t-elle le client ?")()

	if _, ok := msg.(answerMsg); !ok {
		t.Fatalf("expected answerMsg, got %T", msg)
	}
	if stub.ctx == nil {
		t.Fatal("ask service was not called")
	}
	if _, ok := stub.ctx.Deadline(); !ok {
		t.Error("question round trip must run under a deadline")
	}
}
