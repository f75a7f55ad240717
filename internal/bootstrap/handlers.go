package bootstrap

import (
	"log/slog"
	"os"

	"github.com/eleven-am/calorie-advisor/internal/analysis"
	"github.com/eleven-am/calorie-advisor/internal/apikey"
	"github.com/labstack/echo/v4"
	echoSwagger "github.com/swaggo/echo-swagger"
	"go.uber.org/fx"

	_ "github.com/eleven-am/calorie-advisor/docs"
)

type HandlerParams struct {
	fx.In

	AnalysisHandler *analysis.Handler
	APIKeyStore     *apikey.Store
	Config          *Config
	Logger          *slog.Logger
}

func RegisterRoutes(e *echo.Echo, params HandlerParams) {
	api := e.Group("/v1")
	if params.Config.RequireAPIKey {
		api.Use(apikey.Auth(params.APIKeyStore))
	} else {
		params.Logger.Warn("api key authentication disabled")
	}
	api.Use(apikey.RateLimiter(apikey.RateLimiterConfig{
		RequestsPerSecond: params.Config.RateLimitRPS,
		Burst:             params.Config.RateLimitBurst,
		IdleTimeout:       apikey.DefaultRateLimiterConfig().IdleTimeout,
	}))
	params.AnalysisHandler.RegisterRoutes(api)

	e.GET("/swagger/*", echoSwagger.EchoWrapHandlerV3())

	e.Static("/assets", params.Config.StaticDir)
	e.GET("/", func(c echo.Context) error {
		return c.File(params.Config.IndexHTML)
	})
}

func parseLogLevel(level string) slog.Level {
	switch level {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

func ProvideLogger(cfg *Config) *slog.Logger {
	return slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: parseLogLevel(cfg.LogLevel),
	}))
}

func ProvideAnalysisHandler(service *analysis.Service, store *analysis.Store, metrics *analysis.Metrics, logger *slog.Logger) *analysis.Handler {
	return analysis.NewHandler(service, store, metrics, logger.With("handler", "analysis"))
}

var HandlersModule = fx.Options(
	fx.Provide(
		ProvideLogger,
		ProvideAnalysisHandler,
	),
	fx.Invoke(RegisterRoutes),
)
