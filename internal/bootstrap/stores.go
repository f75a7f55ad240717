package bootstrap

import (
	"log/slog"

	"github.com/eleven-am/calorie-advisor/internal/analysis"
	"github.com/eleven-am/calorie-advisor/internal/apikey"
	"github.com/redis/go-redis/v9"
	"go.uber.org/fx"
	"gorm.io/gorm"
)

func ProvideAnalysisStore(db *gorm.DB) *analysis.Store {
	return analysis.NewStore(db)
}

func ProvideAPIKeyStore(db *gorm.DB) *apikey.Store {
	return apikey.NewStore(db)
}

func ProvideResultCache(redisClient *redis.Client, cfg *Config) *analysis.Cache {
	return analysis.NewCache(redisClient, cfg.CacheTTL)
}

func ProvideAnalysisMetrics(redisClient *redis.Client) *analysis.Metrics {
	return analysis.NewMetrics(redisClient)
}

type ServiceParams struct {
	fx.In

	Pipeline *analysis.Pipeline
	Store    *analysis.Store
	Cache    *analysis.Cache
	Metrics  *analysis.Metrics
	Archiver analysis.Archiver `optional:"true"`
	Config   *Config
	Logger   *slog.Logger
}

func ProvideAnalysisService(p ServiceParams) *analysis.Service {
	return analysis.NewService(analysis.ServiceParams{
		Pipeline: p.Pipeline,
		Store:    p.Store,
		Cache:    p.Cache,
		Metrics:  p.Metrics,
		Archiver: p.Archiver,
		Config:   p.Config.AnalysisConfig(),
		Logger:   p.Logger,
	})
}

func RunMigrations(analysisStore *analysis.Store, apiKeyStore *apikey.Store) error {
	if err := analysisStore.Migrate(); err != nil {
		return err
	}
	return apiKeyStore.Migrate()
}

var StoresModule = fx.Options(
	fx.Provide(
		ProvideAnalysisStore,
		ProvideAPIKeyStore,
		ProvideResultCache,
		ProvideAnalysisMetrics,
		ProvideAnalysisService,
	),
	fx.Invoke(RunMigrations),
)
