package analysis

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/eleven-am/calorie-advisor/internal/shared"
)

// Archiver copies an uploaded image to long-term storage and returns its key.
type Archiver interface {
	Archive(ctx context.Context, id string, data []byte, contentType string) (string, error)
}

type Config struct {
	MaxUploadBytes int64
	CacheTTL       time.Duration
}

type Service struct {
	pipeline *Pipeline
	store    *Store
	cache    *Cache
	metrics  *Metrics
	archiver Archiver
	maxBytes int64
	logger   *slog.Logger
}

type ServiceParams struct {
	Pipeline *Pipeline
	Store    *Store
	Cache    *Cache
	Metrics  *Metrics
	Archiver Archiver
	Config   Config
	Logger   *slog.Logger
}

func NewService(p ServiceParams) *Service {
	logger := p.Logger
	if logger == nil {
		logger = slog.Default()
	}
	maxBytes := p.Config.MaxUploadBytes
	if maxBytes <= 0 {
		maxBytes = DefaultMaxUploadBytes
	}
	return &Service{
		pipeline: p.Pipeline,
		store:    p.Store,
		cache:    p.Cache,
		metrics:  p.Metrics,
		archiver: p.Archiver,
		maxBytes: maxBytes,
		logger:   logger.With("component", "analysis-service"),
	}
}

func (s *Service) MaxUploadBytes() int64 {
	return s.maxBytes
}

// Analyze validates the upload and returns the analysis record. Invalid
// uploads return an error wrapping shared.ErrInvalidInput; pipeline failures
// are reported on the record. Persistence, cache, archive and metrics errors
// are logged only.
func (s *Service) Analyze(ctx context.Context, up Upload) (*Record, error) {
	contentType, err := ValidateImage(up.Data, s.maxBytes)
	if err != nil {
		return nil, err
	}
	up.ContentType = contentType

	start := time.Now()
	hash := ImageHash(up.Data)

	res, cached := s.lookup(ctx, hash)
	if !cached {
		res = s.pipeline.Run(ctx, up.Data)
		if s.cache != nil {
			if err := s.cache.Set(ctx, hash, res); err != nil {
				s.logger.Warn("failed to cache result", "error", err, "image_hash", hash)
			}
		}
	}

	rec := newRecord(shared.NewID("ana_"), up, hash, res)
	rec.Cached = cached
	rec.LatencyMs = time.Since(start).Milliseconds()

	if s.archiver != nil {
		key, err := s.archiver.Archive(ctx, rec.ID, up.Data, contentType)
		if err != nil {
			s.logger.Warn("failed to archive image", "error", err, "analysis_id", rec.ID)
		} else {
			rec.ArchiveKey = key
		}
	}

	if s.store != nil {
		if err := s.store.Create(ctx, rec); err != nil {
			s.logger.Error("failed to persist analysis", "error", err, "analysis_id", rec.ID)
		}
	}

	if s.metrics != nil {
		if err := s.metrics.Record(ctx, res, cached, rec.LatencyMs); err != nil {
			s.logger.Warn("failed to record metrics", "error", err)
		}
	}

	s.logger.Info("analysis complete",
		"analysis_id", rec.ID,
		"status", rec.Status,
		"failure_kind", rec.FailureKind,
		"cached", cached,
		"food_items", len(rec.FoodItems),
		"latency_ms", rec.LatencyMs)

	return rec, nil
}

func (s *Service) lookup(ctx context.Context, hash string) (Result, bool) {
	if s.cache == nil {
		return Result{}, false
	}
	res, err := s.cache.Get(ctx, hash)
	if err != nil {
		if !errors.Is(err, shared.ErrNotFound) {
			s.logger.Warn("cache lookup failed", "error", err, "image_hash", hash)
		}
		return Result{}, false
	}
	return *res, true
}
