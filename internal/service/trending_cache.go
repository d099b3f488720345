package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"github.com/campus-portal/campus-api/internal/dto"
	"github.com/campus-portal/campus-api/internal/observability"
)

const trendingVersionKey = "campus:trending:version"

// TrendingCache stores trending results in Redis under a versioned key. Any
// write that changes registration counts bumps the version, so stale entries
// are never read and simply expire. A nil client disables caching.
type TrendingCache struct {
	client *redis.Client
	ttl    time.Duration
	logger zerolog.Logger
}

// NewTrendingCache constructs the cache.
func NewTrendingCache(client *redis.Client, ttl time.Duration, logger zerolog.Logger) *TrendingCache {
	if ttl <= 0 {
		ttl = 30 * time.Second
	}
	return &TrendingCache{
		client: client,
		ttl:    ttl,
		logger: logger.With().Str("component", "trending_cache").Logger(),
	}
}

// Get returns cached trending events for limit. On a miss it returns the key
// of the version it looked at; pass that key to Set so that a result read
// before a concurrent Invalidate lands on the abandoned version. An empty key
// means the result must not be cached.
func (c *TrendingCache) Get(ctx context.Context, limit int) ([]dto.EventResponse, string, bool) {
	if c == nil || c.client == nil {
		return nil, "", false
	}

	key, err := c.key(ctx, limit)
	if err != nil {
		c.logger.Warn().Err(err).Msg("failed to read trending cache version")
		observability.TrendingCache().WithLabelValues("error").Inc()
		return nil, "", false
	}

	cached, err := c.client.Get(ctx, key).Result()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			c.logger.Warn().Err(err).Msg("failed to read trending cache")
		}
		observability.TrendingCache().WithLabelValues("miss").Inc()
		return nil, key, false
	}

	var items []dto.EventResponse
	if err := json.Unmarshal([]byte(cached), &items); err != nil {
		observability.TrendingCache().WithLabelValues("miss").Inc()
		return nil, key, false
	}
	observability.TrendingCache().WithLabelValues("hit").Inc()
	return items, key, true
}

// Set stores trending events under a key previously returned by Get.
func (c *TrendingCache) Set(ctx context.Context, key string, items []dto.EventResponse) {
	if c == nil || c.client == nil || key == "" {
		return
	}

	payload, err := json.Marshal(items)
	if err != nil {
		return
	}
	if err := c.client.Set(ctx, key, payload, c.ttl).Err(); err != nil {
		c.logger.Warn().Err(err).Msg("failed to write trending cache")
	}
}

// Invalidate bumps the cache version.
func (c *TrendingCache) Invalidate(ctx context.Context) {
	if c == nil || c.client == nil {
		return
	}
	if err := c.client.Incr(ctx, trendingVersionKey).Err(); err != nil {
		c.logger.Warn().Err(err).Msg("failed to bump trending cache version")
	}
}

func (c *TrendingCache) key(ctx context.Context, limit int) (string, error) {
	version, err := c.client.Get(ctx, trendingVersionKey).Int64()
	if err != nil && !errors.Is(err, redis.Nil) {
		return "", err
	}
	return fmt.Sprintf("campus:trending:v%d:%d", version, limit), nil
}
