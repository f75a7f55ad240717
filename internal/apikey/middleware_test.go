package apikey

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/eleven-am/calorie-advisor/internal/shared"
	"github.com/labstack/echo/v4"
)

type mockValidator struct {
	key     *APIKey
	err     error
	secrets []string
}

func (m *mockValidator) Validate(ctx context.Context, secret string) (*APIKey, error) {
	m.secrets = append(m.secrets, secret)
	return m.key, m.err
}

func okHandler(c echo.Context) error {
	return c.String(http.StatusOK, "success")
}

func TestAuth(t *testing.T) {
	tests := []struct {
		name     string
		header   string
		value    string
		key      *APIKey
		err      error
		wantCode int
	}{
		{"missing key", "", "", nil, nil, http.StatusUnauthorized},
		{"unknown key", "Authorization", "Bearer sk-cal-bad", nil, shared.ErrNotFound, http.StatusUnauthorized},
		{"expired key", "X-API-Key", "sk-cal-old", nil, shared.ErrUnauthorized, http.StatusUnauthorized},
		{"bearer key", "Authorization", "Bearer sk-cal-good", &APIKey{ID: "key_1"}, nil, http.StatusOK},
		{"header key", "X-API-Key", "sk-cal-good", &APIKey{ID: "key_1"}, nil, http.StatusOK},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := echo.New()
			req := httptest.NewRequest(http.MethodGet, "/v1/analyses", nil)
			if tt.header != "" {
				req.Header.Set(tt.header, tt.value)
			}
			rec := httptest.NewRecorder()
			c := e.NewContext(req, rec)

			v := &mockValidator{key: tt.key, err: tt.err}
			err := Auth(v)(okHandler)(c)

			if tt.wantCode != http.StatusOK {
				he, ok := err.(*echo.HTTPError)
				if !ok {
					t.Fatalf("expected *echo.HTTPError, got %T", err)
				}
				if he.Code != tt.wantCode {
					t.Errorf("error code = %d, want %d", he.Code, tt.wantCode)
				}
				return
			}

			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if v.secrets[0] != "sk-cal-good" {
				t.Errorf("validated %q, want sk-cal-good", v.secrets[0])
			}
			if FromContext(c) != tt.key {
				t.Error("expected key to be stored on the context")
			}
		})
	}
}

func TestFromContext_Missing(t *testing.T) {
	e := echo.New()
	c := e.NewContext(httptest.NewRequest(http.MethodGet, "/", nil), httptest.NewRecorder())
	if FromContext(c) != nil {
		t.Error("expected nil key")
	}
}

func TestRateLimiter(t *testing.T) {
	e := echo.New()
	mw := RateLimiter(RateLimiterConfig{RequestsPerSecond: 0.001, Burst: 2})
	handler := mw(okHandler)

	call := func(ip string) error {
		req := httptest.NewRequest(http.MethodPost, "/v1/analyses", nil)
		req.Header.Set(echo.HeaderXRealIP, ip)
		c := e.NewContext(req, httptest.NewRecorder())
		return handler(c)
	}

	for i := 0; i < 2; i++ {
		if err := call("10.0.0.1"); err != nil {
			t.Fatalf("request %d: unexpected error %v", i, err)
		}
	}

	err := call("10.0.0.1")
	he, ok := err.(*echo.HTTPError)
	if !ok || he.Code != http.StatusTooManyRequests {
		t.Errorf("expected 429, got %v", err)
	}

	if err := call("10.0.0.2"); err != nil {
		t.Errorf("other clients should not be limited: %v", err)
	}
}

func TestRateLimiter_Disabled(t *testing.T) {
	e := echo.New()
	handler := RateLimiter(RateLimiterConfig{})(okHandler)

	for i := 0; i < 10; i++ {
		c := e.NewContext(httptest.NewRequest(http.MethodGet, "/", nil), httptest.NewRecorder())
		if err := handler(c); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
	}
}

func TestLimiterStore_Evict(t *testing.T) {
	s := newLimiterStore(RateLimiterConfig{RequestsPerSecond: 1, Burst: 1, IdleTimeout: time.Minute})
	now := time.Now()

	s.allow("a", now)
	s.allow("b", now.Add(2*time.Minute))

	if _, ok := s.limiters["a"]; ok {
		t.Error("idle limiter should be evicted")
	}
	if _, ok := s.limiters["b"]; !ok {
		t.Error("active limiter should be kept")
	}
}
