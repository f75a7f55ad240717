package nutrition

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"
)

const ErrorMarker = "Error generating response"

var (
	ErrNoItems       = errors.New("no food items to analyze")
	ErrEmptyResponse = errors.New("empty response from model")
)

type Generator struct {
	model  Model
	logger *slog.Logger
}

func NewGenerator(model Model, logger *slog.Logger) *Generator {
	if logger == nil {
		logger = slog.Default()
	}
	return &Generator{
		model:  model,
		logger: logger.With("component", "nutrition-generator"),
	}
}

func (g *Generator) Generate(ctx context.Context, items []string) (string, error) {
	if len(items) == 0 {
		return "", ErrNoItems
	}

	prompt := BuildPrompt(items)
	start := time.Now()

	text, err := g.model.Generate(ctx, prompt)
	if err != nil {
		g.logger.Error("generation failed", "error", err, "items", len(items))
		return "", err
	}

	text = strings.TrimSpace(text)
	if text == "" {
		return "", ErrEmptyResponse
	}

	g.logger.Debug("generation complete",
		"items", len(items),
		"prompt_len", len(prompt),
		"response_len", len(text),
		"duration_ms", time.Since(start).Milliseconds())

	return text, nil
}

// ErrorText renders a generation failure as user-facing text carrying ErrorMarker.
func ErrorText(err error) string {
	if err == nil {
		return ""
	}
	return fmt.Sprintf("%s: %v", ErrorMarker, err)
}
