package health

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/eleven-am/calorie-advisor/internal/analysis"
	"github.com/labstack/echo/v4"
	"github.com/redis/go-redis/v9"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

type fakeCounter map[analysis.Status]int64

func (f fakeCounter) CountByStatus(ctx context.Context, status analysis.Status) (int64, error) {
	return f[status], nil
}

type failingCounter struct{}

func (failingCounter) CountByStatus(ctx context.Context, status analysis.Status) (int64, error) {
	return 0, errors.New("no such table: analyses")
}

func setupDeps(t *testing.T) (*gorm.DB, *redis.Client, *miniredis.Miniredis) {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("failed to open test database: %v", err)
	}

	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("failed to start miniredis: %v", err)
	}
	t.Cleanup(mr.Close)

	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { client.Close() })
	return db, client, mr
}

func TestHandler_RegisterRoutes(t *testing.T) {
	h := NewHandler(nil, nil, nil, Providers{}, "test")
	e := echo.New()
	h.RegisterRoutes(e)

	paths := make(map[string]bool)
	for _, r := range e.Routes() {
		paths[r.Path] = true
	}
	for _, p := range []string{"/health", "/health/ready"} {
		if !paths[p] {
			t.Errorf("expected route %s to be registered", p)
		}
	}
}

func TestHandler_Liveness(t *testing.T) {
	h := NewHandler(nil, nil, nil, Providers{}, "test")
	e := echo.New()
	rec := httptest.NewRecorder()
	c := e.NewContext(httptest.NewRequest(http.MethodGet, "/health", nil), rec)

	if err := h.Liveness(c); err != nil {
		t.Fatalf("Liveness() error = %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Errorf("expected status 200, got %d", rec.Code)
	}
}

func TestHandler_Readiness_Healthy(t *testing.T) {
	db, client, _ := setupDeps(t)
	counter := fakeCounter{analysis.StatusSucceeded: 4, analysis.StatusFailed: 1}
	providers := Providers{Labels: "google", Model: "gemini-1.5-flash"}
	h := NewHandler(db, client, counter, providers, "1.2.3")

	e := echo.New()
	rec := httptest.NewRecorder()
	c := e.NewContext(httptest.NewRequest(http.MethodGet, "/health/ready", nil), rec)

	if err := h.Middleware(h.Readiness)(c); err != nil {
		t.Fatalf("Readiness() error = %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", rec.Code)
	}

	var resp HealthResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if resp.Status != StatusHealthy {
		t.Errorf("expected healthy, got %s", resp.Status)
	}
	if resp.Version != "1.2.3" {
		t.Errorf("unexpected version %s", resp.Version)
	}
	if resp.Providers != providers {
		t.Errorf("unexpected providers %+v", resp.Providers)
	}
	if resp.Stats.Analyses.Succeeded != 4 || resp.Stats.Analyses.Failed != 1 {
		t.Errorf("unexpected analysis stats %+v", resp.Stats.Analyses)
	}
	if resp.Stats.Requests.TotalRequests != 1 || resp.Stats.Requests.InFlight != 1 {
		t.Errorf("unexpected request stats %+v", resp.Stats.Requests)
	}
	for _, name := range []string{"database", "redis"} {
		if resp.Components[name].Status != StatusHealthy {
			t.Errorf("expected %s healthy, got %+v", name, resp.Components[name])
		}
	}
}

func TestHandler_Readiness_CountFailure(t *testing.T) {
	db, client, _ := setupDeps(t)
	h := NewHandler(db, client, failingCounter{}, Providers{}, "test")

	e := echo.New()
	rec := httptest.NewRecorder()
	c := e.NewContext(httptest.NewRequest(http.MethodGet, "/health/ready", nil), rec)

	if err := h.Readiness(c); err != nil {
		t.Fatalf("Readiness() error = %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", rec.Code)
	}

	var resp HealthResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if resp.Status != StatusDegraded {
		t.Errorf("expected degraded, got %s", resp.Status)
	}
	if resp.Stats.Analyses.Error == "" {
		t.Error("expected analysis stats error to be reported")
	}
}

func TestHandler_Readiness_RedisDown(t *testing.T) {
	db, client, mr := setupDeps(t)
	mr.Close()
	h := NewHandler(db, client, nil, Providers{}, "test")

	e := echo.New()
	rec := httptest.NewRecorder()
	c := e.NewContext(httptest.NewRequest(http.MethodGet, "/health/ready", nil), rec)

	if err := h.Readiness(c); err != nil {
		t.Fatalf("Readiness() error = %v", err)
	}
	if rec.Code != http.StatusServiceUnavailable {
		t.Errorf("expected status 503, got %d", rec.Code)
	}
}

func TestHandler_Readiness_NotConfigured(t *testing.T) {
	h := NewHandler(nil, nil, nil, Providers{}, "test")

	e := echo.New()
	rec := httptest.NewRecorder()
	c := e.NewContext(httptest.NewRequest(http.MethodGet, "/health/ready", nil), rec)

	if err := h.Readiness(c); err != nil {
		t.Fatalf("Readiness() error = %v", err)
	}

	var resp HealthResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if resp.Components["database"].Error != "database not configured" {
		t.Errorf("unexpected database status %+v", resp.Components["database"])
	}
	if resp.Status != StatusUnhealthy {
		t.Errorf("expected unhealthy, got %s", resp.Status)
	}
}

func TestComputeOverallStatus(t *testing.T) {
	tests := []struct {
		name       string
		components map[string]ComponentStatus
		want       Status
	}{
		{"empty", map[string]ComponentStatus{}, StatusHealthy},
		{"healthy", map[string]ComponentStatus{"database": {Status: StatusHealthy}}, StatusHealthy},
		{"degraded", map[string]ComponentStatus{"database": {Status: StatusDegraded}, "redis": {Status: StatusHealthy}}, StatusDegraded},
		{"unhealthy", map[string]ComponentStatus{"database": {Status: StatusDegraded}, "redis": {Status: StatusUnhealthy}}, StatusUnhealthy},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := computeOverallStatus(tt.components); got != tt.want {
				t.Errorf("computeOverallStatus() = %s, want %s", got, tt.want)
			}
		})
	}
}
