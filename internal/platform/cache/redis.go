package cache

import (
	"context"
	"fmt"

	"codetrek/internal/platform/config"
	"codetrek/internal/platform/logger"

	"github.com/redis/go-redis/v9"
)

// ConnectRedis returns nil (and no error) when REDIS_ADDR is unset.
func ConnectRedis(ctx context.Context, cfg *config.Config, log *logger.Logger) (*redis.Client, error) {
	if cfg.RedisAddr == "" {
		log.Info("Redis disabled, token lookups go straight to the database")
		return nil, nil
	}
	rdb := redis.NewClient(&redis.Options{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPassword,
		DB:       cfg.RedisDB,
	})

	if _, err := rdb.Ping(ctx).Result(); err != nil {
		rdb.Close()
		return nil, fmt.Errorf("could not connect to Redis: %w", err)
	}
	log.Info("Connected to Redis", "addr", cfg.RedisAddr)
	return rdb, nil
}
