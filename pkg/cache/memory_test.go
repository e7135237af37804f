package cache

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryCacheSetGet(t *testing.T) {
	mc := NewMemoryCache()
	ctx := context.Background()

	type payload struct {
		Name  string
		Score float64
	}

	require.NoError(t, mc.Set(ctx, "k", payload{Name: "btc", Score: 61.5}, time.Minute))

	var got payload
	require.NoError(t, mc.Get(ctx, "k", &got))
	assert.Equal(t, "btc", got.Name)
	assert.Equal(t, 61.5, got.Score)
}

func TestMemoryCacheMiss(t *testing.T) {
	mc := NewMemoryCache()

	var got string
	err := mc.Get(context.Background(), "absent", &got)
	assert.ErrorIs(t, err, ErrCacheMiss)
}

func TestMemoryCacheExpiry(t *testing.T) {
	mc := NewMemoryCache()
	ctx := context.Background()

	require.NoError(t, mc.Set(ctx, "k", "v", 10*time.Millisecond))
	time.Sleep(25 * time.Millisecond)

	var got string
	err := mc.Get(ctx, "k", &got)
	assert.ErrorIs(t, err, ErrCacheMiss)

	// Expired entries stay gone.
	err = mc.Get(ctx, "k", &got)
	assert.ErrorIs(t, err, ErrCacheMiss)
}

func TestMemoryCacheTypeMismatch(t *testing.T) {
	mc := NewMemoryCache()
	ctx := context.Background()

	require.NoError(t, mc.Set(ctx, "k", 42, time.Minute))

	var got string
	err := mc.Get(ctx, "k", &got)
	assert.Error(t, err)
	assert.NotErrorIs(t, err, ErrCacheMiss)
}

func TestMemoryCacheDelete(t *testing.T) {
	mc := NewMemoryCache()
	ctx := context.Background()

	require.NoError(t, mc.Set(ctx, "a", 1, time.Minute))
	require.NoError(t, mc.Set(ctx, "b", 2, time.Minute))
	require.NoError(t, mc.Delete(ctx, "a"))

	var got int
	assert.ErrorIs(t, mc.Get(ctx, "a", &got), ErrCacheMiss)
	assert.NoError(t, mc.Get(ctx, "b", &got))
}

func TestMemoryCacheDeleteByPattern(t *testing.T) {
	mc := NewMemoryCache()
	ctx := context.Background()

	require.NoError(t, mc.Set(ctx, "history:btc:30", 1, time.Minute))
	require.NoError(t, mc.Set(ctx, "history:spy:30", 2, time.Minute))
	require.NoError(t, mc.Set(ctx, "latest_price:btc", 3, time.Minute))

	require.NoError(t, mc.DeleteByPattern(ctx, BuildPattern("history:")))

	var got int
	assert.ErrorIs(t, mc.Get(ctx, "history:btc:30", &got), ErrCacheMiss)
	assert.ErrorIs(t, mc.Get(ctx, "history:spy:30", &got), ErrCacheMiss)
	assert.NoError(t, mc.Get(ctx, "latest_price:btc", &got))
}

func TestMemoryCacheLRUEviction(t *testing.T) {
	mc := NewMemoryCache(WithMemoryMaxSize(2))
	ctx := context.Background()

	require.NoError(t, mc.Set(ctx, "a", 1, time.Minute))
	require.NoError(t, mc.Set(ctx, "b", 2, time.Minute))

	// Touch "a" so "b" becomes the eviction candidate.
	var got int
	require.NoError(t, mc.Get(ctx, "a", &got))

	require.NoError(t, mc.Set(ctx, "c", 3, time.Minute))

	assert.NoError(t, mc.Get(ctx, "a", &got))
	assert.ErrorIs(t, mc.Get(ctx, "b", &got), ErrCacheMiss)
	assert.NoError(t, mc.Get(ctx, "c", &got))
}
