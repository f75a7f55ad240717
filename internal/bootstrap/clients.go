package bootstrap

import (
	"context"
	"io"
	"log/slog"

	"github.com/eleven-am/calorie-advisor/internal/analysis"
	"github.com/eleven-am/calorie-advisor/internal/archive"
	"github.com/eleven-am/calorie-advisor/internal/labels"
	"github.com/eleven-am/calorie-advisor/internal/nutrition"
	"go.uber.org/fx"
)

func closeOnStop(lc fx.Lifecycle, c io.Closer) {
	lc.Append(fx.Hook{
		OnStop: func(ctx context.Context) error {
			return c.Close()
		},
	})
}

// NewDetector builds the label detector selected by LABEL_PROVIDER.
func NewDetector(ctx context.Context, cfg *Config) (labels.Detector, error) {
	if cfg.LabelProvider == labels.ProviderRekognition {
		return labels.NewRekognitionDetector(ctx, cfg.RekognitionConfig())
	}
	return labels.NewGoogleDetector(ctx, cfg.GoogleVisionConfig())
}

func ProvideDetector(lc fx.Lifecycle, cfg *Config) (labels.Detector, error) {
	detector, err := NewDetector(context.Background(), cfg)
	if err != nil {
		return nil, err
	}
	if c, ok := detector.(io.Closer); ok {
		closeOnStop(lc, c)
	}
	return detector, nil
}

func ProvideGenerationModel(lc fx.Lifecycle, cfg *Config, logger *slog.Logger) (nutrition.Model, error) {
	model, err := nutrition.NewGeminiModel(context.Background(), cfg.GenerationConfig())
	if err != nil {
		return nil, err
	}
	closeOnStop(lc, model)
	logger.Info("generation model configured", "model", model.Name())
	return model, nil
}

// ProvideArchiver returns nil when no bucket is configured.
func ProvideArchiver(cfg *Config, logger *slog.Logger) (analysis.Archiver, error) {
	if cfg.S3Bucket == "" {
		logger.Info("image archive disabled")
		return nil, nil
	}
	a, err := archive.NewS3Archiver(context.Background(), archive.Config{
		Bucket: cfg.S3Bucket,
		Region: cfg.AWSRegion,
		Prefix: cfg.S3Prefix,
	})
	if err != nil {
		return nil, err
	}
	return a, nil
}

// NewPipeline wires extraction and generation around the given backends.
func NewPipeline(cfg *Config, detector labels.Detector, model nutrition.Model, logger *slog.Logger) *analysis.Pipeline {
	return analysis.NewPipeline(
		labels.NewExtractor(detector, cfg.LabelConfig(), logger),
		nutrition.NewGenerator(model, logger),
		logger,
	)
}

var ClientsModule = fx.Options(
	fx.Provide(
		ProvideDetector,
		ProvideGenerationModel,
		ProvideArchiver,
		NewPipeline,
	),
)
