package service

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"outpatient-registration/internal/observability/metrics"

	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
)

const displayCachePrefix = "opd:display:"

// Display collections held in the cache.
const (
	CollectionDepartments = "departments"
	CollectionDoctors     = "doctors"
	CollectionCalendar    = "calendar"
)

// CollectionCache is a read-through Redis cache for the read-mostly
// collections shown to patients. Redis failures never fail a request; the
// loader is used instead.
type CollectionCache struct {
	rdb     *redis.Client
	log     *logrus.Logger
	ttl     time.Duration
	metrics *metrics.RegistrationMetrics
}

func NewCollectionCache(rdb *redis.Client, log *logrus.Logger, ttl time.Duration, m *metrics.RegistrationMetrics) *CollectionCache {
	return &CollectionCache{
		rdb:     rdb,
		log:     log,
		ttl:     ttl,
		metrics: m,
	}
}

func cacheKey(collection, key string) string {
	return displayCachePrefix + collection + ":" + key
}

// Remember returns the cached value of collection/key, or calls load and
// caches its result. A nil cache always loads.
func Remember[T any](ctx context.Context, c *CollectionCache, collection, key string, load func(context.Context) (T, error)) (T, error) {
	if c == nil || c.rdb == nil {
		return load(ctx)
	}

	fullKey := cacheKey(collection, key)
	raw, err := c.rdb.Get(ctx, fullKey).Bytes()
	switch {
	case err == nil:
		var cached T
		if jsonErr := json.Unmarshal(raw, &cached); jsonErr == nil {
			c.metrics.ObserveCacheLookup(collection, metrics.CacheHit)
			return cached, nil
		}
		c.log.Warnf("Discarding undecodable cache entry %s", fullKey)
		c.metrics.ObserveCacheLookup(collection, metrics.CacheError)
	case errors.Is(err, redis.Nil):
		c.metrics.ObserveCacheLookup(collection, metrics.CacheMiss)
	default:
		c.log.Warnf("Cache read %s failed: %v", fullKey, err)
		c.metrics.ObserveCacheLookup(collection, metrics.CacheError)
	}

	value, err := load(ctx)
	if err != nil {
		return value, err
	}

	payload, err := json.Marshal(value)
	if err != nil {
		c.log.Warnf("Cache encode %s failed: %v", fullKey, err)
		return value, nil
	}
	if err := c.rdb.Set(ctx, fullKey, payload, c.ttl).Err(); err != nil {
		c.log.Warnf("Cache write %s failed: %v", fullKey, err)
	}
	return value, nil
}

// Invalidate drops every entry of collection whose key starts with keyPrefix
// ("" drops the whole collection).
func (c *CollectionCache) Invalidate(ctx context.Context, collection, keyPrefix string) {
	if c == nil || c.rdb == nil {
		return
	}

	pattern := cacheKey(collection, keyPrefix) + "*"
	var (
		cursor  uint64
		deleted int64
	)
	for {
		keys, next, err := c.rdb.Scan(ctx, cursor, pattern, 100).Result()
		if err != nil {
			c.log.Warnf("Cache invalidation of %s failed: %v", pattern, err)
			return
		}
		if len(keys) > 0 {
			n, err := c.rdb.Del(ctx, keys...).Result()
			if err != nil {
				c.log.Warnf("Cache invalidation of %s failed: %v", pattern, err)
				return
			}
			deleted += n
		}
		cursor = next
		if cursor == 0 {
			break
		}
	}
	c.log.Debugf("Invalidated %d cache entries matching %s", deleted, pattern)
}
