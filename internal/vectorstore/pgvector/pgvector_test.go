package pgvector

import (
	"context"
	"strings"
	"testing"
	"time"
)

func TestConfigValidation(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		config Config
		errMsg string
	}{
		{
			name:   "missing connection string returns error",
			config: Config{},
			errMsg: "connection string is required",
		},
		{
			name:   "invalid connection string format returns error",
			config: Config{DSN: "not a connection string"},
			errMsg: "parse connection string",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := New(context.Background(), tt.config)
			if err == nil {
				t.Fatal("expected an error")
			}
			if !strings.Contains(err.Error(), tt.errMsg) {
				t.Errorf("expected error containing %q, got %q", tt.errMsg, err.Error())
			}
		})
	}
}

func TestConfigDefaultsIncludeStatementTimeout(t *testing.T) {
	t.Parallel()

	cfg := Config{}.withDefaults()
	if cfg.Table != "dialogues" {
		t.Errorf("default table should be dialogues, got %q", cfg.Table)
	}
	if cfg.Dimension != 1536 {
		t.Errorf("default dimension should be 1536, got %d", cfg.Dimension)
	}
	if cfg.Timeout != 15*time.Second {
		t.Errorf("every statement must carry a timeout, got %v", cfg.Timeout)
	}

	cfg = Config{Timeout: 3 * time.Second}.withDefaults()
	if cfg.Timeout != 3*time.Second {
		t.Errorf("configured timeout must be kept, got %v", cfg.Timeout)
	}
}
