package service

import (
	"context"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// RedisResponseCache stores rendered generation responses in Redis so
// repeated identical requests skip the engine. A nil client disables it.
type RedisResponseCache struct {
	client  *redis.Client
	metrics *MetricsService
	logger  *zap.Logger
}

// NewRedisResponseCache constructs a response cache. metrics and logger may
// be nil.
func NewRedisResponseCache(client *redis.Client, metrics *MetricsService, logger *zap.Logger) *RedisResponseCache {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &RedisResponseCache{client: client, metrics: metrics, logger: logger}
}

// Get returns the cached payload and whether the lookup hit.
func (c *RedisResponseCache) Get(ctx context.Context, key string) ([]byte, bool) {
	if c == nil || c.client == nil {
		return nil, false
	}
	start := time.Now()
	payload, err := c.client.Get(ctx, key).Bytes()
	duration := time.Since(start)
	if err != nil {
		if c.metrics != nil {
			c.metrics.RecordCacheOperation(false, duration)
		}
		if !errors.Is(err, redis.Nil) {
			c.logger.Warn("cache get failed", zap.String("key", key), zap.Error(err))
		}
		return nil, false
	}
	if c.metrics != nil {
		c.metrics.RecordCacheOperation(true, duration)
	}
	return payload, true
}

// Set stores the payload with the given TTL. Failures are logged, not
// surfaced; the cache is best-effort.
func (c *RedisResponseCache) Set(ctx context.Context, key string, value []byte, ttl time.Duration) {
	if c == nil || c.client == nil || ttl <= 0 {
		return
	}
	if err := c.client.Set(ctx, key, value, ttl).Err(); err != nil {
		c.logger.Warn("cache set failed", zap.String("key", key), zap.Error(err))
	}
}
