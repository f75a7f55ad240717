package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"strings"

	"github.com/eleven-am/calorie-advisor/internal/analysis"
	"github.com/eleven-am/calorie-advisor/internal/bootstrap"
	"github.com/eleven-am/calorie-advisor/internal/nutrition"
)

func main() {
	if len(os.Args) != 2 {
		fmt.Fprintln(os.Stderr, "usage: analyze <image-path>")
		os.Exit(2)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := run(ctx, os.Args[1], os.Stdout); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run(ctx context.Context, path string, out io.Writer) error {
	cfg, err := bootstrap.LoadConfig()
	if err != nil {
		return err
	}

	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: slog.LevelWarn,
	}))

	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read image: %w", err)
	}
	if _, err := analysis.ValidateImage(data, cfg.MaxUploadBytes); err != nil {
		return err
	}

	detector, err := bootstrap.NewDetector(ctx, cfg)
	if err != nil {
		return err
	}
	if c, ok := detector.(io.Closer); ok {
		defer c.Close()
	}

	model, err := nutrition.NewGeminiModel(ctx, cfg.GenerationConfig())
	if err != nil {
		return err
	}
	defer model.Close()

	res := bootstrap.NewPipeline(cfg, detector, model, logger).Run(ctx, data)
	return render(out, res)
}

func render(out io.Writer, res analysis.Result) error {
	if res.Kind() != analysis.KindLabelDetection && res.Kind() != analysis.KindInvalidInput {
		fmt.Fprintf(out, "Detected food items: %s\n\n", strings.Join(res.FoodItems, ", "))
	}

	fmt.Fprintln(out, "Nutritional Analysis")
	fmt.Fprintln(out, strings.Repeat("=", len("Nutritional Analysis")))
	fmt.Fprintln(out, res.Text())

	if !res.OK() {
		return fmt.Errorf("analysis failed: %s", res.Kind())
	}
	return nil
}
