package analysis

import (
	"errors"
	"io"
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/eleven-am/calorie-advisor/internal/dto"
	"github.com/eleven-am/calorie-advisor/internal/shared"
	"github.com/labstack/echo/v4"
)

const (
	defaultMetricsHours = 24
	maxMetricsHours     = 168
)

type Handler struct {
	service *Service
	store   *Store
	metrics *Metrics
	logger  *slog.Logger
}

func NewHandler(service *Service, store *Store, metrics *Metrics, logger *slog.Logger) *Handler {
	if logger == nil {
		logger = slog.Default()
	}
	return &Handler{
		service: service,
		store:   store,
		metrics: metrics,
		logger:  logger,
	}
}

func (h *Handler) RegisterRoutes(g *echo.Group) {
	g.POST("/analyses", h.Create)
	g.GET("/analyses", h.List)
	g.GET("/analyses/:id", h.Get)
	g.GET("/metrics", h.GetMetrics)
}

func recordToResponse(rec *Record) dto.AnalysisResponse {
	res := rec.Result()

	resp := dto.AnalysisResponse{
		ID:            rec.ID,
		Status:        string(rec.Status),
		DetectedItems: strings.Join(rec.FoodItems, ", "),
		FoodItems:     rec.FoodItems,
		Matched:       res.Matched,
		Labels:        make([]dto.LabelResponse, 0, len(res.Labels)),
		Report:        rec.Report,
		Text:          res.Text(),
		Cached:        rec.Cached,
		LatencyMs:     rec.LatencyMs,
		ArchiveKey:    rec.ArchiveKey,
		CreatedAt:     rec.CreatedAt.UTC().Format(time.RFC3339),
	}
	if resp.FoodItems == nil {
		resp.FoodItems = []string{}
	}
	for _, l := range res.Labels {
		resp.Labels = append(resp.Labels, dto.LabelResponse{
			Description: l.Description,
			Score:       l.Score,
		})
	}
	if res.Failure != nil {
		resp.Failure = &dto.FailureResponse{
			Kind:    string(res.Failure.Kind),
			Message: res.Failure.Message,
		}
	}
	return resp
}

// Create godoc
// @Summary      Analyze a food photo
// @Description  Detects food items in the uploaded JPEG or PNG image and generates a nutritional breakdown
// @Tags         analyses
// @Accept       multipart/form-data
// @Produce      json
// @Param        image  formData  file  true  "Food photo (JPEG or PNG)"
// @Success      201    {object}  dto.AnalysisResponse
// @Failure      400    {object}  shared.APIError
// @Failure      413    {object}  shared.APIError
// @Failure      500    {object}  shared.APIError
// @Security     APIKeyAuth
// @Router       /analyses [post]
func (h *Handler) Create(c echo.Context) error {
	fh, err := c.FormFile("image")
	if err != nil {
		return shared.BadRequest("missing_image", "image file is required")
	}

	f, err := fh.Open()
	if err != nil {
		return shared.BadRequest("invalid_image", "failed to read image")
	}
	defer f.Close()

	data, err := io.ReadAll(io.LimitReader(f, h.service.MaxUploadBytes()+1))
	if err != nil {
		return shared.BadRequest("invalid_image", "failed to read image")
	}

	rec, err := h.service.Analyze(c.Request().Context(), Upload{
		Data:     data,
		Filename: fh.Filename,
	})
	if err != nil {
		if errors.Is(err, ErrTooLarge) {
			return shared.NewAPIError("image_too_large", "image exceeds maximum upload size").
				WithDetails(map[string]int64{"max_bytes": h.service.MaxUploadBytes()}).
				ToHTTP(http.StatusRequestEntityTooLarge)
		}
		if errors.Is(err, shared.ErrInvalidInput) {
			return shared.BadRequest("invalid_image", err.Error())
		}
		h.logger.Error("analysis failed", "error", err)
		return shared.InternalError("analysis_failed", "failed to analyze image")
	}

	return c.JSON(http.StatusCreated, recordToResponse(rec))
}

// List godoc
// @Summary      List analyses
// @Description  Returns the most recent analyses, newest first
// @Tags         analyses
// @Produce      json
// @Param        limit  query     int  false  "Maximum number of analyses (1-100)"
// @Success      200    {object}  dto.AnalysisListResponse
// @Failure      500    {object}  shared.APIError
// @Security     APIKeyAuth
// @Router       /analyses [get]
func (h *Handler) List(c echo.Context) error {
	limit := defaultListLimit
	if v := c.QueryParam("limit"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			limit = n
		}
	}

	recs, err := h.store.List(c.Request().Context(), limit)
	if err != nil {
		h.logger.Error("failed to list analyses", "error", err)
		return shared.InternalError("list_failed", "failed to list analyses")
	}

	response := make([]dto.AnalysisResponse, len(recs))
	for i, rec := range recs {
		response[i] = recordToResponse(rec)
	}

	return c.JSON(http.StatusOK, dto.AnalysisListResponse{
		Total:    len(response),
		Analyses: response,
	})
}

// Get godoc
// @Summary      Get an analysis
// @Tags         analyses
// @Produce      json
// @Param        id   path      string  true  "Analysis ID"
// @Success      200  {object}  dto.AnalysisResponse
// @Failure      404  {object}  shared.APIError
// @Failure      500  {object}  shared.APIError
// @Security     APIKeyAuth
// @Router       /analyses/{id} [get]
func (h *Handler) Get(c echo.Context) error {
	id := c.Param("id")

	rec, err := h.store.GetByID(c.Request().Context(), id)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return shared.NotFound("analysis_not_found", "analysis not found")
		}
		h.logger.Error("failed to get analysis", "error", err, "analysis_id", id)
		return shared.InternalError("get_failed", "failed to get analysis")
	}

	return c.JSON(http.StatusOK, recordToResponse(rec))
}

// GetMetrics godoc
// @Summary      Hourly analysis metrics
// @Tags         metrics
// @Produce      json
// @Param        hours  query     int  false  "Hours to look back (1-168)"
// @Success      200    {object}  dto.MetricsListResponse
// @Failure      500    {object}  shared.APIError
// @Security     APIKeyAuth
// @Router       /metrics [get]
func (h *Handler) GetMetrics(c echo.Context) error {
	hours := defaultMetricsHours
	if v := c.QueryParam("hours"); v != "" {
		if hr, err := strconv.Atoi(v); err == nil && hr > 0 && hr <= maxMetricsHours {
			hours = hr
		}
	}

	metrics, err := h.metrics.Get(c.Request().Context(), hours)
	if err != nil {
		h.logger.Error("failed to get metrics", "error", err)
		return shared.InternalError("get_metrics_failed", "failed to get metrics")
	}

	response := make([]dto.MetricsResponse, len(metrics))
	for i, m := range metrics {
		byKind := make(map[string]int64, len(m.FailuresByKind))
		for k, v := range m.FailuresByKind {
			byKind[string(k)] = v
		}
		response[i] = dto.MetricsResponse{
			Date:           m.Date,
			Hour:           m.Hour,
			Analyses:       m.Analyses,
			Failures:       m.Failures,
			CacheHits:      m.CacheHits,
			AvgLatencyMs:   m.AvgLatencyMs,
			FailuresByKind: byKind,
		}
	}

	return c.JSON(http.StatusOK, dto.MetricsListResponse{
		Hours:   hours,
		Metrics: response,
	})
}
