package nutrition

import (
	"context"
	"time"
)

// Model produces free-form text for a prompt.
type Model interface {
	Generate(ctx context.Context, prompt string) (string, error)
}

type Config struct {
	APIKey          string
	Model           string
	Temperature     float32
	TopP            float32
	TopK            int32
	MaxOutputTokens int32
	Timeout         time.Duration
}

const DefaultModel = "gemini-1.5-flash"
