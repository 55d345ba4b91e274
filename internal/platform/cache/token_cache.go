package cache

import (
	"context"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
)

const tokenKeyPrefix = "auth:token:"

// TokenCache remembers which user a live token id belongs to.
type TokenCache interface {
	Get(ctx context.Context, tokenID string) (userID string, ok bool, err error)
	Set(ctx context.Context, tokenID, userID string, ttl time.Duration) error
	Delete(ctx context.Context, tokenID string) error
}

type redisTokenCache struct {
	rdb *redis.Client
}

// NewTokenCache returns a Redis-backed cache, or a no-op one when rdb is nil.
func NewTokenCache(rdb *redis.Client) TokenCache {
	if rdb == nil {
		return NopTokenCache{}
	}
	return &redisTokenCache{rdb: rdb}
}

func (c *redisTokenCache) Get(ctx context.Context, tokenID string) (string, bool, error) {
	userID, err := c.rdb.Get(ctx, tokenKeyPrefix+tokenID).Result()
	if errors.Is(err, redis.Nil) {
		return "", false, nil
	}
	if err != nil {
		return "", false, err
	}
	return userID, true, nil
}

func (c *redisTokenCache) Set(ctx context.Context, tokenID, userID string, ttl time.Duration) error {
	if ttl <= 0 {
		return nil
	}
	return c.rdb.Set(ctx, tokenKeyPrefix+tokenID, userID, ttl).Err()
}

func (c *redisTokenCache) Delete(ctx context.Context, tokenID string) error {
	return c.rdb.Del(ctx, tokenKeyPrefix+tokenID).Err()
}

// NopTokenCache never hits, so every lookup falls through to the token store.
type NopTokenCache struct{}

func (NopTokenCache) Get(context.Context, string) (string, bool, error) { return "", false, nil }
func (NopTokenCache) Set(context.Context, string, string, time.Duration) error { return nil }
func (NopTokenCache) Delete(context.Context, string) error { return nil }
