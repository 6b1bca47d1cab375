package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"starmap-service/internal/domain"
	"starmap-service/internal/ports"
)

const (
	routeKeyPrefix  = "route:"
	defaultRouteTTL = 24 * time.Hour
)

// RedisRouteCache stores computed route plans in Redis with a TTL, so stale
// plans age out on their own after a sector reimport.
type RedisRouteCache struct {
	Client *redis.Client
	TTL    time.Duration
}

func NewRedisRouteCache(client *redis.Client, ttl time.Duration) *RedisRouteCache {
	if ttl <= 0 {
		ttl = defaultRouteTTL
	}
	return &RedisRouteCache{Client: client, TTL: ttl}
}

// Fetch a cached plan. A missing key is a miss, not an error.
func (c *RedisRouteCache) Get(
	ctx context.Context,
	key ports.RouteCacheKey,
) (*domain.RoutePlan, bool, error) {
	if c.Client == nil {
		return nil, false, errors.New("route cache: redis client is nil")
	}

	raw, err := c.Client.Get(ctx, routeKeyPrefix+key.String()).Result()
	if errors.Is(err, redis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("get route cache: redis get: %w", err)
	}

	var plan domain.RoutePlan
	if err := json.Unmarshal([]byte(raw), &plan); err != nil {
		return nil, false, fmt.Errorf("get route cache: decode plan: %w", err)
	}

	return &plan, true, nil
}

// Store a computed plan under the cache key with the configured TTL.
func (c *RedisRouteCache) Put(
	ctx context.Context,
	key ports.RouteCacheKey,
	plan *domain.RoutePlan,
) error {
	if c.Client == nil {
		return errors.New("route cache: redis client is nil")
	}
	if plan == nil {
		return errors.New("insert route cache: nil plan")
	}

	raw, err := json.Marshal(plan)
	if err != nil {
		return fmt.Errorf("insert route cache: encode plan: %w", err)
	}

	if err := c.Client.Set(ctx, routeKeyPrefix+key.String(), raw, c.TTL).Err(); err != nil {
		return fmt.Errorf("insert route cache key=%q: redis set: %w", key.String(), err)
	}

	return nil
}
