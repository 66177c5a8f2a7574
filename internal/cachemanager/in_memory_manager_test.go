package cachemanager

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

type screenKey string

type renderedScreen struct {
	Width, Height int
	Body          string
}

func newScreens() *InMemoryCacheManager[screenKey, renderedScreen] {
	return NewInMemoryCacheManager[screenKey, renderedScreen]("screens", DefaultExpiration, DefaultCleanupInterval)
}

func TestInMemoryCacheManager_GetExistingValue(t *testing.T) {
	cache := newScreens()
	want := renderedScreen{Width: 80, Height: 24, Body: "help"}
	cache.Set(context.Background(), "80x24", want, DefaultExpiration)

	got, ok := cache.Get(context.Background(), "80x24")
	require.True(t, ok)
	require.Equal(t, want, got)
}

func TestInMemoryCacheManager_GetMissing(t *testing.T) {
	cache := newScreens()

	got, ok := cache.Get(context.Background(), "80x24")
	require.False(t, ok)
	require.Empty(t, got)
}

func TestInMemoryCacheManager_GetWrongType(t *testing.T) {
	cache := newScreens()
	cache.cache.Set("80x24", 123, DefaultExpiration)

	got, ok := cache.Get(context.Background(), "80x24")
	require.False(t, ok)
	require.Empty(t, got)
}

func TestInMemoryCacheManager_Expiry(t *testing.T) {
	cache := newScreens()
	cache.Set(context.Background(), "80x24", renderedScreen{Body: "x"}, time.Nanosecond)
	time.Sleep(time.Millisecond)

	_, ok := cache.Get(context.Background(), "80x24")
	require.False(t, ok)
}

func TestInMemoryCacheManager_GetWithRefresh(t *testing.T) {
	cache := newScreens()

	_, ok := cache.GetWithRefresh(context.Background(), "80x24", time.Hour)
	require.False(t, ok)

	cache.Set(context.Background(), "80x24", renderedScreen{Body: "x"}, time.Minute)
	got, ok := cache.GetWithRefresh(context.Background(), "80x24", time.Hour)
	require.True(t, ok)
	require.Equal(t, "x", got.Body)

	_, exp, found := cache.cache.GetWithExpiration("80x24")
	require.True(t, found)
	require.True(t, time.Until(exp) > time.Minute, "ttl extended")
}

func TestInMemoryCacheManager_DeleteAndFlush(t *testing.T) {
	cache := newScreens()
	ctx := context.Background()
	require.NoError(t, cache.Delete(ctx))

	cache.Set(ctx, "a", renderedScreen{}, DefaultExpiration)
	cache.Set(ctx, "b", renderedScreen{}, DefaultExpiration)
	require.NoError(t, cache.Delete(ctx, "a"))
	_, ok := cache.Get(ctx, "a")
	require.False(t, ok)
	_, ok = cache.Get(ctx, "b")
	require.True(t, ok)

	require.NoError(t, cache.Flush(ctx))
	_, ok = cache.Get(ctx, "b")
	require.False(t, ok)
}
