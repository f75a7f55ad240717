package analysis

import (
	"context"
	"io"
	"log/slog"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/eleven-am/calorie-advisor/internal/labels"
	"github.com/eleven-am/calorie-advisor/internal/nutrition"
	"github.com/redis/go-redis/v9"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

var (
	pngImage  = []byte("\x89PNG\r\n\x1a\n\x00\x00\x00\rIHDR\x00\x00\x00\x01\x00\x00\x00\x01")
	jpegImage = []byte("\xff\xd8\xff\xe0\x00\x10JFIF\x00\x01\x01\x00\x00\x01\x00\x01\x00\x00")
)

type fakeDetector struct {
	labels []labels.Label
	err    error
	calls  int
}

func (f *fakeDetector) DetectLabels(ctx context.Context, image []byte) ([]labels.Label, error) {
	f.calls++
	return f.labels, f.err
}

type fakeModel struct {
	response string
	err      error
	prompts  []string
}

func (f *fakeModel) Generate(ctx context.Context, prompt string) (string, error) {
	f.prompts = append(f.prompts, prompt)
	return f.response, f.err
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func newTestPipeline(d *fakeDetector, m *fakeModel) *Pipeline {
	log := discardLogger()
	return NewPipeline(
		labels.NewExtractor(d, labels.Config{}, log),
		nutrition.NewGenerator(m, log),
		log,
	)
}

func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("failed to open test database: %v", err)
	}
	return db
}

func setupTestStore(t *testing.T) *Store {
	t.Helper()
	store := NewStore(setupTestDB(t))
	if err := store.Migrate(); err != nil {
		t.Fatalf("Migrate() error = %v", err)
	}
	return store
}

func setupTestRedis(t *testing.T) (*miniredis.Miniredis, *redis.Client) {
	t.Helper()
	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("failed to start miniredis: %v", err)
	}
	t.Cleanup(mr.Close)

	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { client.Close() })
	return mr, client
}

func foodLabels() []labels.Label {
	return []labels.Label{
		{Description: "Food", Score: 0.97},
		{Description: "Fruit", Score: 0.93},
		{Description: "Tableware", Score: 0.8},
	}
}
