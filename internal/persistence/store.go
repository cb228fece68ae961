package persistence

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
	goredis "github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"example.com/exerciserx/internal/config"
	"example.com/exerciserx/internal/domain"
	"example.com/exerciserx/internal/persistence/postgres"
	"example.com/exerciserx/internal/persistence/redis"
)

// Open builds the repository selected by cfg.StoreBackend. The returned close function releases
// any connections and is never nil.
func Open(ctx context.Context, cfg config.Config, logger *zap.Logger) (domain.Repository, func(), error) {
	switch cfg.StoreBackend {
	case config.StoreMemory, "":
		logger.Warn("using in-memory prescription store; data is lost on restart")
		return NewInMemoryRepository(), func() {}, nil

	case config.StorePostgres:
		pool, err := pgxpool.New(ctx, cfg.PostgresURL)
		if err != nil {
			return nil, nil, fmt.Errorf("connect to postgres: %w", err)
		}
		if err := postgres.Migrate(ctx, pool); err != nil {
			pool.Close()
			return nil, nil, fmt.Errorf("migrate postgres: %w", err)
		}
		logger.Info("using postgres prescription store")
		return postgres.NewRepository(pool), pool.Close, nil

	case config.StoreRedis:
		client := goredis.NewClient(&goredis.Options{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
			DB:       cfg.RedisDB,
		})
		if err := client.Ping(ctx).Err(); err != nil {
			_ = client.Close()
			return nil, nil, fmt.Errorf("connect to redis: %w", err)
		}
		logger.Info("using redis prescription store", zap.String("addr", cfg.RedisAddr), zap.Duration("ttl", cfg.RedisTTL))
		return redis.NewRepository(client, cfg.RedisKeyPrefix, cfg.RedisTTL), func() { _ = client.Close() }, nil

	default:
		return nil, nil, fmt.Errorf("unknown store backend %q", cfg.StoreBackend)
	}
}
