package bootstrap

import (
	"context"

	"github.com/redis/go-redis/v9"
	"go.uber.org/fx"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func ProvideRedisClient(lc fx.Lifecycle, cfg *Config) *redis.Client {
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPassword,
		DB:       cfg.RedisDB,
	})
	lc.Append(fx.Hook{
		OnStop: func(ctx context.Context) error {
			return client.Close()
		},
	})
	return client
}

func openDialector(cfg *Config) gorm.Dialector {
	if cfg.DatabaseDriver == "sqlite" {
		dsn := cfg.DatabaseDSN
		if dsn == "" {
			dsn = "calorie-advisor.db"
		}
		return sqlite.Open(dsn)
	}
	return postgres.Open(cfg.DatabaseDSN)
}

func ProvideDatabase(cfg *Config) (*gorm.DB, error) {
	return gorm.Open(openDialector(cfg), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
}

var InfrastructureModule = fx.Options(
	fx.Provide(
		ProvideRedisClient,
		ProvideDatabase,
	),
)
