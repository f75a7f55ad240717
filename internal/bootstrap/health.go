package bootstrap

import (
	"github.com/eleven-am/calorie-advisor/internal/analysis"
	"github.com/eleven-am/calorie-advisor/internal/health"
	"github.com/labstack/echo/v4"
	"github.com/redis/go-redis/v9"
	"go.uber.org/fx"
	"gorm.io/gorm"
)

const version = "1.0.0"

func ProvideHealthHandler(db *gorm.DB, redis *redis.Client, store *analysis.Store, cfg *Config) *health.Handler {
	return health.NewHandler(db, redis, store, health.Providers{
		Labels:  cfg.LabelProvider,
		Model:   cfg.GenerationModel,
		Archive: cfg.S3Bucket != "",
	}, version)
}

func RegisterHealthRoutes(e *echo.Echo, h *health.Handler) {
	e.Use(h.Middleware)
	h.RegisterRoutes(e)
}

var HealthModule = fx.Options(
	fx.Provide(ProvideHealthHandler),
	fx.Invoke(RegisterHealthRoutes),
)
