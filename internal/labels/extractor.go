package labels

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/eleven-am/calorie-advisor/internal/shared"
)

const Placeholder = "Unable to detect specific food items."

const ErrorPrefix = "Error detecting food items"

var DefaultKeywords = []string{"food", "fruit", "vegetable"}

var ErrEmptyImage = fmt.Errorf("%w: empty image", shared.ErrInvalidInput)

type Extractor struct {
	detector Detector
	keywords []string
	minScore float32
	logger   *slog.Logger
}

func NewExtractor(detector Detector, cfg Config, logger *slog.Logger) *Extractor {
	if logger == nil {
		logger = slog.Default()
	}
	keywords := cfg.Keywords
	if len(keywords) == 0 {
		keywords = DefaultKeywords
	}
	return &Extractor{
		detector: detector,
		keywords: normalizeKeywords(keywords),
		minScore: cfg.MinScore,
		logger:   logger.With("component", "label-extractor"),
	}
}

// Extract detects labels for image and keeps the food-related descriptions.
// When nothing matches, FoodItems holds only Placeholder and Matched is false.
func (e *Extractor) Extract(ctx context.Context, image []byte) (*Extraction, error) {
	if len(image) == 0 {
		return nil, ErrEmptyImage
	}

	detected, err := e.detector.DetectLabels(ctx, image)
	if err != nil {
		e.logger.Error("label detection failed", "error", err, "image_bytes", len(image))
		return nil, fmt.Errorf("detect labels: %w", err)
	}

	kept := make([]Label, 0, len(detected))
	for _, l := range detected {
		if l.Score < e.minScore {
			continue
		}
		kept = append(kept, l)
	}

	ext := &Extraction{Labels: kept}
	ext.FoodItems = MatchFood(ext.Descriptions(), e.keywords)
	ext.Matched = len(ext.FoodItems) > 0
	if !ext.Matched {
		ext.FoodItems = []string{Placeholder}
	}

	e.logger.Debug("labels extracted",
		"detected", len(detected),
		"kept", len(kept),
		"food_items", len(ext.FoodItems),
		"matched", ext.Matched)

	return ext, nil
}

// FilterFood applies the default keyword set and falls back to Placeholder.
func FilterFood(descriptions []string) []string {
	items := MatchFood(descriptions, DefaultKeywords)
	if len(items) == 0 {
		return []string{Placeholder}
	}
	return items
}

// MatchFood returns, in order, every description containing one of keywords
// case-insensitively. Keywords are expected in lower case.
func MatchFood(descriptions []string, keywords []string) []string {
	var items []string
	for _, d := range descriptions {
		lower := strings.ToLower(d)
		for _, k := range keywords {
			if strings.Contains(lower, k) {
				items = append(items, d)
				break
			}
		}
	}
	return items
}

// ErrorText renders a detection failure as user-facing text.
func ErrorText(err error) string {
	if err == nil {
		return ""
	}
	return ErrorPrefix + ": " + err.Error()
}

func IsInvalidInput(err error) bool {
	return errors.Is(err, shared.ErrInvalidInput)
}

func normalizeKeywords(keywords []string) []string {
	out := make([]string, 0, len(keywords))
	for _, k := range keywords {
		k = strings.ToLower(strings.TrimSpace(k))
		if k != "" {
			out = append(out, k)
		}
	}
	return out
}
