package xcache

import (
	"context"
	"errors"
	"time"

	"github.com/pokeleague/backend/pkg/xredis"
)

type redisCache struct {
	redisClient xredis.Client
}

func NewRedisCache(redisClient xredis.Client) *redisCache {
	return &redisCache{redisClient: redisClient}
}

func (c *redisCache) Get(ctx context.Context, key string, v any) (bool, error) {
	err := c.redisClient.GetObj(ctx, key, v)
	if errors.Is(err, xredis.ErrNotFound) {
		return false, nil
	}

	if err != nil {
		return false, err
	}

	return true, nil
}

func (c *redisCache) Put(ctx context.Context, key string, value any, ttl time.Duration) error {
	return c.redisClient.SetObj(ctx, key, value, ttl)
}

func (c *redisCache) Forget(ctx context.Context, key string) error {
	return c.redisClient.Del(ctx, key)
}

func (c *redisCache) Has(ctx context.Context, key string) (bool, error) {
	return c.redisClient.Exist(ctx, key)
}

func (c *redisCache) Increment(ctx context.Context, key string) (int64, error) {
	return c.redisClient.Incr(ctx, key)
}
