// Package ranking caches the ranking views. Every key embeds a generation number, and
// invalidating bumps the generation, so no populated key has to be tracked.
package ranking

import (
	"context"

	"github.com/pokeleague/backend/internal/model"
	"github.com/pokeleague/backend/pkg/xcache"
	"github.com/pokeleague/backend/pkg/xcontext"
)

type Cache struct {
	cache xcache.Cache
}

func NewCache(cache xcache.Cache) *Cache {
	return &Cache{cache: cache}
}

func (c *Cache) Generation(ctx context.Context) (int64, error) {
	var generation int64
	if _, err := c.cache.Get(ctx, generationKey, &generation); err != nil {
		return 0, err
	}

	return generation, nil
}

// Invalidate makes every cached view unreachable. Stale entries expire by their TTL.
func (c *Cache) Invalidate(ctx context.Context) error {
	_, err := c.cache.Increment(ctx, generationKey)
	return err
}

func (c *Cache) FullRanking(
	ctx context.Context, load func(context.Context) ([]model.RankedTrainer, error),
) ([]model.RankedTrainer, error) {
	return remember(ctx, c, fullRankingKey, load)
}

func (c *Cache) TopTrainers(
	ctx context.Context, count int, load func(context.Context) ([]model.RankedTrainer, error),
) ([]model.RankedTrainer, error) {
	return remember(ctx, c, topTrainersKey(count), load)
}

// MonthlyStats caches statistics of a month, identified as dateutil.MonthValue does.
func (c *Cache) MonthlyStats(
	ctx context.Context, month string, load func(context.Context) (model.MonthlyStats, error),
) (model.MonthlyStats, error) {
	return remember(ctx, c, monthlyStatsKey(month), load)
}

// remember reads the value of the current generation, or loads and stores it. A failing cache
// never fails the read.
func remember[T any](
	ctx context.Context, c *Cache, keyFunc func(int64) string, load func(context.Context) (T, error),
) (T, error) {
	generation, err := c.Generation(ctx)
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot get ranking generation: %v", err)
		return load(ctx)
	}

	key := keyFunc(generation)

	var value T
	ok, err := c.cache.Get(ctx, key, &value)
	if err != nil {
		xcontext.Logger(ctx).Warnf("Cannot get %s from cache: %v", key, err)
	} else if ok {
		return value, nil
	}

	value, err = load(ctx)
	if err != nil {
		return value, err
	}

	ttl := xcontext.Configs(ctx).Ranking.CacheTTL
	if err := c.cache.Put(ctx, key, value, ttl); err != nil {
		xcontext.Logger(ctx).Warnf("Cannot put %s to cache: %v", key, err)
	}

	return value, nil
}
