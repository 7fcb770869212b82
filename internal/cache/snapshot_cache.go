package cache

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
)

// SnapshotCacheStats tracks cache performance counters.
type SnapshotCacheStats struct {
	Hits   int64 `json:"hits"`
	Misses int64 `json:"misses"`
	Sets   int64 `json:"sets"`
	mu     sync.RWMutex
}

// SnapshotCache is a short-TTL Redis cache for aggregate query responses.
// Aggregates are recomputed from a full store scan on every query, so the
// cache only smooths repeated dashboard polling; uploads invalidate it.
// A nil Redis client degrades to a pass-through (every Get is a miss).
type SnapshotCache struct {
	redis  *redis.Client
	ttl    time.Duration
	stats  *SnapshotCacheStats
	prefix string
}

func NewSnapshotCache(redisClient *redis.Client, ttl time.Duration) *SnapshotCache {
	return &SnapshotCache{
		redis:  redisClient,
		ttl:    ttl,
		stats:  &SnapshotCacheStats{},
		prefix: "snapshot:",
	}
}

// Get unmarshals the cached payload for key into dest, reporting whether a
// usable entry was found.
func (c *SnapshotCache) Get(ctx context.Context, key string, dest interface{}) bool {
	if c.redis == nil {
		c.recordMiss()
		return false
	}

	data, err := c.redis.Get(ctx, c.prefix+key).Result()
	if err == redis.Nil {
		c.recordMiss()
		return false
	}
	if err != nil {
		logrus.WithError(err).WithField("key", key).Warn("Snapshot cache read failed")
		c.recordMiss()
		return false
	}

	if err := json.Unmarshal([]byte(data), dest); err != nil {
		logrus.WithError(err).WithField("key", key).Warn("Snapshot cache entry corrupt")
		c.recordMiss()
		return false
	}

	c.stats.mu.Lock()
	c.stats.Hits++
	c.stats.mu.Unlock()
	return true
}

// Set stores value under key for the cache TTL. Failures are logged and
// swallowed; a cold cache is never an error.
func (c *SnapshotCache) Set(ctx context.Context, key string, value interface{}) {
	if c.redis == nil {
		return
	}

	data, err := json.Marshal(value)
	if err != nil {
		logrus.WithError(err).WithField("key", key).Warn("Failed to marshal snapshot cache entry")
		return
	}

	if err := c.redis.Set(ctx, c.prefix+key, string(data), c.ttl).Err(); err != nil {
		logrus.WithError(err).WithField("key", key).Warn("Snapshot cache write failed")
		return
	}

	c.stats.mu.Lock()
	c.stats.Sets++
	c.stats.mu.Unlock()
}

// Invalidate drops the given keys; called after an upload changes the store.
func (c *SnapshotCache) Invalidate(ctx context.Context, keys ...string) {
	if c.redis == nil || len(keys) == 0 {
		return
	}

	prefixed := make([]string, len(keys))
	for i, key := range keys {
		prefixed[i] = c.prefix + key
	}
	if err := c.redis.Del(ctx, prefixed...).Err(); err != nil {
		logrus.WithError(err).Warn("Snapshot cache invalidation failed")
	}
}

// InvalidatePrefix drops every entry whose key starts with prefix; used for
// parameterized snapshots such as per-topK recommendation reports.
func (c *SnapshotCache) InvalidatePrefix(ctx context.Context, prefix string) {
	if c.redis == nil {
		return
	}

	iter := c.redis.Scan(ctx, 0, c.prefix+prefix+"*", 0).Iterator()
	var keys []string
	for iter.Next(ctx) {
		keys = append(keys, iter.Val())
	}
	if err := iter.Err(); err != nil {
		logrus.WithError(err).Warn("Snapshot cache scan failed")
		return
	}
	if len(keys) == 0 {
		return
	}
	if err := c.redis.Del(ctx, keys...).Err(); err != nil {
		logrus.WithError(err).Warn("Snapshot cache invalidation failed")
	}
}

// Stats returns a copy of the current counters.
func (c *SnapshotCache) Stats() SnapshotCacheStats {
	c.stats.mu.RLock()
	defer c.stats.mu.RUnlock()
	return SnapshotCacheStats{Hits: c.stats.Hits, Misses: c.stats.Misses, Sets: c.stats.Sets}
}

func (c *SnapshotCache) recordMiss() {
	c.stats.mu.Lock()
	c.stats.Misses++
	c.stats.mu.Unlock()
}
