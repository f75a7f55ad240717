package apikey

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/eleven-am/calorie-advisor/internal/shared"
	"github.com/labstack/echo/v4"
	"golang.org/x/time/rate"
)

const contextKey = "api_key"

type Validator interface {
	Validate(ctx context.Context, secret string) (*APIKey, error)
}

// Auth rejects requests without a valid key in the Authorization bearer or
// X-API-Key header.
func Auth(v Validator) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			secret := extractKey(c.Request())
			if secret == "" {
				return shared.Unauthorized("missing_api_key", "missing api key")
			}

			key, err := v.Validate(c.Request().Context(), secret)
			if err != nil {
				if errors.Is(err, shared.ErrUnauthorized) {
					return shared.Unauthorized("api_key_expired", "api key has expired")
				}
				return shared.Unauthorized("invalid_api_key", "invalid api key")
			}

			c.Set(contextKey, key)
			return next(c)
		}
	}
}

func FromContext(c echo.Context) *APIKey {
	if key, ok := c.Get(contextKey).(*APIKey); ok {
		return key
	}
	return nil
}

func extractKey(r *http.Request) string {
	if auth := r.Header.Get("Authorization"); strings.HasPrefix(auth, "Bearer ") {
		return strings.TrimPrefix(auth, "Bearer ")
	}
	return r.Header.Get("X-API-Key")
}

type RateLimiterConfig struct {
	RequestsPerSecond float64
	Burst             int
	IdleTimeout       time.Duration
}

func DefaultRateLimiterConfig() RateLimiterConfig {
	return RateLimiterConfig{
		RequestsPerSecond: 1,
		Burst:             5,
		IdleTimeout:       10 * time.Minute,
	}
}

type limiterEntry struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

type limiterStore struct {
	mu       sync.Mutex
	limiters map[string]*limiterEntry
	config   RateLimiterConfig
}

func newLimiterStore(cfg RateLimiterConfig) *limiterStore {
	return &limiterStore{
		limiters: make(map[string]*limiterEntry),
		config:   cfg,
	}
}

func (s *limiterStore) allow(key string, now time.Time) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.evict(now)

	entry, ok := s.limiters[key]
	if !ok {
		entry = &limiterEntry{
			limiter: rate.NewLimiter(rate.Limit(s.config.RequestsPerSecond), s.config.Burst),
		}
		s.limiters[key] = entry
	}
	entry.lastSeen = now
	return entry.limiter.AllowN(now, 1)
}

// evict drops limiters idle for longer than the configured timeout. Callers
// hold s.mu.
func (s *limiterStore) evict(now time.Time) {
	if s.config.IdleTimeout <= 0 {
		return
	}
	for key, entry := range s.limiters {
		if now.Sub(entry.lastSeen) > s.config.IdleTimeout {
			delete(s.limiters, key)
		}
	}
}

// RateLimiter throttles requests per API key, or per client IP when the
// request carries no key. A non-positive rate disables limiting.
func RateLimiter(cfg RateLimiterConfig) echo.MiddlewareFunc {
	if cfg.RequestsPerSecond <= 0 {
		return func(next echo.HandlerFunc) echo.HandlerFunc { return next }
	}
	if cfg.Burst <= 0 {
		cfg.Burst = 1
	}
	store := newLimiterStore(cfg)

	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			key := "ip:" + c.RealIP()
			if k := FromContext(c); k != nil {
				key = "key:" + k.ID
			}

			if !store.allow(key, time.Now()) {
				return shared.NewAPIError("rate_limit_exceeded", "too many requests").ToHTTP(http.StatusTooManyRequests)
			}
			return next(c)
		}
	}
}
