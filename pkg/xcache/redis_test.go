package xcache

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/pokeleague/backend/pkg/testutil"
	"github.com/pokeleague/backend/pkg/xredis"
	"github.com/stretchr/testify/require"
)

func TestRedisCache_GetMissingKey(t *testing.T) {
	cache := NewRedisCache(&testutil.MockRedisClient{
		GetObjFunc: func(ctx context.Context, key string, v any) error {
			return xredis.ErrNotFound
		},
	})

	var v []cachedTrainer
	ok, err := cache.Get(context.Background(), "ranking", &v)
	require.NoError(t, err)
	require.False(t, ok)
}

func TestRedisCache_GetError(t *testing.T) {
	cache := NewRedisCache(&testutil.MockRedisClient{
		GetObjFunc: func(ctx context.Context, key string, v any) error {
			return errors.New("i/o timeout")
		},
	})

	var v []cachedTrainer
	ok, err := cache.Get(context.Background(), "ranking", &v)
	require.Error(t, err)
	require.False(t, ok)
}

func TestRedisCache_PutThenGet(t *testing.T) {
	store := map[string][]byte{}
	var storedTTL time.Duration
	cache := NewRedisCache(&testutil.MockRedisClient{
		SetObjFunc: func(ctx context.Context, key string, obj any, ttl time.Duration) error {
			b, err := json.Marshal(obj)
			if err != nil {
				return err
			}
			store[key] = b
			storedTTL = ttl
			return nil
		},
		GetObjFunc: func(ctx context.Context, key string, v any) error {
			b, ok := store[key]
			if !ok {
				return xredis.ErrNotFound
			}
			return json.Unmarshal(b, v)
		},
	})

	ctx := context.Background()
	want := []cachedTrainer{{ID: "t1", Points: 12}}
	require.NoError(t, cache.Put(ctx, "ranking", want, 10*time.Minute))
	require.Equal(t, 10*time.Minute, storedTTL)

	var got []cachedTrainer
	ok, err := cache.Get(ctx, "ranking", &got)
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, want, got)
}

func TestRedisCache_Increment(t *testing.T) {
	var counter int64
	cache := NewRedisCache(&testutil.MockRedisClient{
		IncrFunc: func(ctx context.Context, key string) (int64, error) {
			counter++
			return counter, nil
		},
	})

	n, err := cache.Increment(context.Background(), "ranking:generation")
	require.NoError(t, err)
	require.Equal(t, int64(1), n)
}
