package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"preorder-shopify-layer/internal/domain"
	"preorder-shopify-layer/internal/ports"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
)

// RedisViewCache caches resolved storefront views in Redis with a short TTL.
// It is fail-open: any Redis error behaves like a cache miss so the proxy
// path never depends on cache availability.
type RedisViewCache struct {
	rdb    *redis.Client
	ttl    time.Duration
	logger zerolog.Logger
}

// NewRedisViewCache creates a view cache backed by the given Redis client.
func NewRedisViewCache(rdb *redis.Client, ttl time.Duration, logger zerolog.Logger) ports.ViewCache {
	return &RedisViewCache{rdb: rdb, ttl: ttl, logger: logger}
}

func cacheKey(key domain.ConfigKey) string {
	variant := "-"
	if key.VariantID != nil {
		variant = *key.VariantID
	}
	return fmt.Sprintf("preorder:view:%s:%s:%s", key.Shop, key.ProductID, variant)
}

// Get retrieves a cached view; (nil, false) on miss or error.
func (c *RedisViewCache) Get(ctx context.Context, key domain.ConfigKey) (*domain.ResolvedView, bool) {
	raw, err := c.rdb.Get(ctx, cacheKey(key)).Result()
	if err == redis.Nil {
		return nil, false
	}
	if err != nil {
		c.logger.Debug().Err(err).Str("shop", key.Shop).Msg("View cache read failed")
		return nil, false
	}

	var view domain.ResolvedView
	if err := json.Unmarshal([]byte(raw), &view); err != nil {
		c.logger.Debug().Err(err).Str("shop", key.Shop).Msg("View cache entry malformed")
		return nil, false
	}
	return &view, true
}

// Set stores a view; errors are logged and dropped.
func (c *RedisViewCache) Set(ctx context.Context, key domain.ConfigKey, view *domain.ResolvedView) {
	raw, err := json.Marshal(view)
	if err != nil {
		return
	}
	if err := c.rdb.Set(ctx, cacheKey(key), raw, c.ttl).Err(); err != nil {
		c.logger.Debug().Err(err).Str("shop", key.Shop).Msg("View cache write failed")
	}
}

// Invalidate drops the cached view for a key after an admin save or delete.
func (c *RedisViewCache) Invalidate(ctx context.Context, key domain.ConfigKey) {
	if err := c.rdb.Del(ctx, cacheKey(key)).Err(); err != nil {
		c.logger.Debug().Err(err).Str("shop", key.Shop).Msg("View cache invalidation failed")
	}
}

// NoopViewCache is used when no Redis address is configured.
type NoopViewCache struct{}

// NewNoopViewCache returns a cache that never hits.
func NewNoopViewCache() ports.ViewCache { return NoopViewCache{} }

func (NoopViewCache) Get(ctx context.Context, key domain.ConfigKey) (*domain.ResolvedView, bool) {
	return nil, false
}
func (NoopViewCache) Set(ctx context.Context, key domain.ConfigKey, view *domain.ResolvedView) {}
func (NoopViewCache) Invalidate(ctx context.Context, key domain.ConfigKey)                     {}
