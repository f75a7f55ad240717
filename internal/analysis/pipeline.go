package analysis

import (
	"context"
	"log/slog"

	"github.com/eleven-am/calorie-advisor/internal/labels"
	"github.com/eleven-am/calorie-advisor/internal/nutrition"
)

type LabelExtractor interface {
	Extract(ctx context.Context, image []byte) (*labels.Extraction, error)
}

type ReportGenerator interface {
	Generate(ctx context.Context, items []string) (string, error)
}

// Pipeline runs label extraction followed by report generation for one image.
// It holds no per-request state.
type Pipeline struct {
	extractor LabelExtractor
	generator ReportGenerator
	logger    *slog.Logger
}

func NewPipeline(extractor LabelExtractor, generator ReportGenerator, logger *slog.Logger) *Pipeline {
	if logger == nil {
		logger = slog.Default()
	}
	return &Pipeline{
		extractor: extractor,
		generator: generator,
		logger:    logger.With("component", "pipeline"),
	}
}

func (p *Pipeline) Run(ctx context.Context, image []byte) Result {
	if len(image) == 0 {
		return Fail(KindInvalidInput, labels.ErrEmptyImage)
	}

	ext, err := p.extractor.Extract(ctx, image)
	if err != nil {
		if labels.IsInvalidInput(err) {
			return Fail(KindInvalidInput, err)
		}
		p.logger.Warn("label extraction failed", "text", labels.ErrorText(err))
		return Fail(KindLabelDetection, err)
	}

	res := Result{
		Labels:    ext.Labels,
		FoodItems: ext.FoodItems,
		Matched:   ext.Matched,
	}
	if !ext.Matched {
		p.logger.Info("no food labels detected", "labels", len(ext.Labels))
	}

	report, err := p.generator.Generate(ctx, ext.FoodItems)
	if err != nil {
		p.logger.Warn("report generation failed", "text", nutrition.ErrorText(err))
		res.Failure = &Failure{Kind: KindGeneration, Message: err.Error()}
		return res
	}

	res.Report = report
	return res
}
