package cache

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryCacheSetGet(t *testing.T) {
	ctx := context.Background()
	mc := NewMemoryCache()
	defer mc.Close()

	_, err := mc.Get(ctx, "missing")
	assert.ErrorIs(t, err, ErrCacheMiss)

	require.NoError(t, mc.Set(ctx, "k", "hola", time.Minute))
	v, err := mc.Get(ctx, "k")
	require.NoError(t, err)
	assert.Equal(t, "hola", v)

	require.NoError(t, mc.Delete(ctx, "k"))
	_, err = mc.Get(ctx, "k")
	assert.ErrorIs(t, err, ErrCacheMiss)
}

func TestMemoryCacheExpiration(t *testing.T) {
	ctx := context.Background()
	mc := NewMemoryCache()
	defer mc.Close()

	now := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)
	mc.now = func() time.Time { return now }

	require.NoError(t, mc.Set(ctx, "k", "v", time.Minute))
	now = now.Add(2 * time.Minute)

	_, err := mc.Get(ctx, "k")
	assert.ErrorIs(t, err, ErrCacheMiss)
	assert.Equal(t, 0, mc.Len())
}

func TestMemoryCacheEvictsLeastRecentlyUsed(t *testing.T) {
	ctx := context.Background()
	mc := NewMemoryCache(WithMemoryMaxSize(2))
	defer mc.Close()

	now := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)
	mc.now = func() time.Time { return now }

	require.NoError(t, mc.Set(ctx, "a", "1", 0))
	now = now.Add(time.Second)
	require.NoError(t, mc.Set(ctx, "b", "2", 0))
	now = now.Add(time.Second)
	_, err := mc.Get(ctx, "a")
	require.NoError(t, err)
	now = now.Add(time.Second)
	require.NoError(t, mc.Set(ctx, "c", "3", 0))

	_, err = mc.Get(ctx, "b")
	assert.ErrorIs(t, err, ErrCacheMiss)
	_, err = mc.Get(ctx, "a")
	assert.NoError(t, err)
	assert.Equal(t, 2, mc.Len())
}

type failingService struct{ sets int }

func (f *failingService) Get(context.Context, string) (string, error) { return "", ErrCacheMiss }
func (f *failingService) Set(context.Context, string, string, time.Duration) error {
	f.sets++
	return errors.New("remote down")
}
func (f *failingService) Delete(context.Context, ...string) error { return nil }
func (f *failingService) Close() error                            { return nil }

func TestLayeredCachePromotesAndWritesThrough(t *testing.T) {
	ctx := context.Background()
	remote := NewMemoryCache()
	require.NoError(t, remote.Set(ctx, "k", "remote", time.Minute))

	lc := NewLayeredCache(remote)
	defer lc.Close()

	v, err := lc.Get(ctx, "k")
	require.NoError(t, err)
	assert.Equal(t, "remote", v)

	require.NoError(t, remote.Delete(ctx, "k"))
	v, err = lc.Get(ctx, "k")
	require.NoError(t, err)
	assert.Equal(t, "remote", v, "L1 should keep the promoted value")

	broken := &failingService{}
	lc2 := NewLayeredCache(broken)
	defer lc2.Close()
	assert.Error(t, lc2.Set(ctx, "x", "y", time.Minute))
	assert.Equal(t, 1, broken.sets)
	_, err = lc2.Get(ctx, "x")
	assert.ErrorIs(t, err, ErrCacheMiss)
}

func TestGenerateKeyWithParams(t *testing.T) {
	assert.Equal(t, "tr:en:es:abc", GenerateKeyWithParams("tr", "en", "es", "abc"))
	assert.Len(t, HashKey("hello"), 64)
	assert.NotEqual(t, HashKey("a"), HashKey("b"))
}
