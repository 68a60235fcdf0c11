package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type cachedDoctor struct {
	Name string `json:"name"`
	Room string `json:"room"`
}

func newTestCache(t *testing.T) (*CollectionCache, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = rdb.Close() })
	return NewCollectionCache(rdb, logrus.New(), time.Minute, nil), mr
}

func TestRemember_LoadsOnceThenHits(t *testing.T) {
	cache, mr := newTestCache(t)
	ctx := context.Background()

	calls := 0
	load := func(context.Context) ([]cachedDoctor, error) {
		calls++
		return []cachedDoctor{{Name: "Dr. Lin", Room: "201"}}, nil
	}

	first, err := Remember(ctx, cache, CollectionDoctors, "med:cardio", load)
	require.NoError(t, err)
	second, err := Remember(ctx, cache, CollectionDoctors, "med:cardio", load)
	require.NoError(t, err)

	assert.Equal(t, 1, calls)
	assert.Equal(t, first, second)
	assert.True(t, mr.Exists("opd:display:doctors:med:cardio"))

	mr.FastForward(2 * time.Minute)
	_, err = Remember(ctx, cache, CollectionDoctors, "med:cardio", load)
	require.NoError(t, err)
	assert.Equal(t, 2, calls)
}

func TestRemember_LoadErrorIsNotCached(t *testing.T) {
	cache, mr := newTestCache(t)
	boom := errors.New("db down")

	_, err := Remember(context.Background(), cache, CollectionDepartments, "all", func(context.Context) ([]string, error) {
		return nil, boom
	})
	assert.ErrorIs(t, err, boom)
	assert.False(t, mr.Exists("opd:display:departments:all"))
}

func TestRemember_RedisDownFallsBackToLoader(t *testing.T) {
	cache, mr := newTestCache(t)
	mr.Close()

	got, err := Remember(context.Background(), cache, CollectionDepartments, "all", func(context.Context) ([]string, error) {
		return []string{"internal medicine"}, nil
	})
	require.NoError(t, err)
	assert.Equal(t, []string{"internal medicine"}, got)
}

func TestRemember_NilCacheLoads(t *testing.T) {
	var cache *CollectionCache
	got, err := Remember(context.Background(), cache, CollectionCalendar, "x", func(context.Context) (int, error) {
		return 7, nil
	})
	require.NoError(t, err)
	assert.Equal(t, 7, got)
	cache.Invalidate(context.Background(), CollectionCalendar, "")
}

func TestInvalidate_ByPrefix(t *testing.T) {
	cache, mr := newTestCache(t)
	ctx := context.Background()

	for _, key := range []string{"doc-a:2025-01-20", "doc-a:2025-01-21", "doc-b:2025-01-20"} {
		_, err := Remember(ctx, cache, CollectionCalendar, key, func(context.Context) (int, error) { return 1, nil })
		require.NoError(t, err)
	}
	_, err := Remember(ctx, cache, CollectionDepartments, "all", func(context.Context) (int, error) { return 1, nil })
	require.NoError(t, err)

	cache.Invalidate(ctx, CollectionCalendar, "doc-a:")
	assert.False(t, mr.Exists("opd:display:calendar:doc-a:2025-01-20"))
	assert.False(t, mr.Exists("opd:display:calendar:doc-a:2025-01-21"))
	assert.True(t, mr.Exists("opd:display:calendar:doc-b:2025-01-20"))

	cache.Invalidate(ctx, CollectionCalendar, "")
	assert.False(t, mr.Exists("opd:display:calendar:doc-b:2025-01-20"))
	assert.True(t, mr.Exists("opd:display:departments:all"))
}
