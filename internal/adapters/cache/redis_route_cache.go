package cache

import (
	"context"
	"delivery-network-service/internal/domain"
	"delivery-network-service/internal/platform/obs"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// RedisRouteCache stores routing results in Redis. Keys carry the network
// version, so entries for an older network are never read again and simply
// expire.
type RedisRouteCache struct {
	Client *redis.Client
	TTL    time.Duration
}

func NewRedisRouteCache(client *redis.Client, ttl time.Duration) *RedisRouteCache {
	return &RedisRouteCache{Client: client, TTL: ttl}
}

func (c *RedisRouteCache) GetPath(
	ctx context.Context,
	version string,
	start, end domain.PointID,
) (_ *domain.PathResult, _ bool, err error) {
	defer obs.Time(ctx, "route.cache.GetPath")(&err)

	var res domain.PathResult
	ok, err := c.get(ctx, pathKey(version, start, end), &res)
	if err != nil || !ok {
		return nil, false, err
	}
	return &res, true, nil
}

func (c *RedisRouteCache) PutPath(
	ctx context.Context,
	version string,
	start, end domain.PointID,
	res *domain.PathResult,
) (err error) {
	defer obs.Time(ctx, "route.cache.PutPath")(&err)
	return c.put(ctx, pathKey(version, start, end), res)
}

func (c *RedisRouteCache) GetOrder(
	ctx context.Context,
	version string,
	start domain.PointID,
) (_ *domain.OrderResult, _ bool, err error) {
	defer obs.Time(ctx, "route.cache.GetOrder")(&err)

	var res domain.OrderResult
	ok, err := c.get(ctx, orderKey(version, start), &res)
	if err != nil || !ok {
		return nil, false, err
	}
	return &res, true, nil
}

func (c *RedisRouteCache) PutOrder(
	ctx context.Context,
	version string,
	start domain.PointID,
	res *domain.OrderResult,
) (err error) {
	defer obs.Time(ctx, "route.cache.PutOrder")(&err)
	return c.put(ctx, orderKey(version, start), res)
}

func (c *RedisRouteCache) get(ctx context.Context, key string, dst any) (bool, error) {
	if c.Client == nil {
		return false, errors.New("route cache: client is nil")
	}

	raw, err := c.Client.Get(ctx, key).Bytes()
	if errors.Is(err, redis.Nil) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("route cache: get %q: %w", key, err)
	}

	if err := json.Unmarshal(raw, dst); err != nil {
		return false, fmt.Errorf("route cache: decode %q: %w", key, err)
	}
	return true, nil
}

func (c *RedisRouteCache) put(ctx context.Context, key string, value any) error {
	if c.Client == nil {
		return errors.New("route cache: client is nil")
	}
	raw, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("route cache: encode %q: %w", key, err)
	}

	if err := c.Client.Set(ctx, key, raw, c.TTL).Err(); err != nil {
		return fmt.Errorf("route cache: set %q: %w", key, err)
	}
	return nil
}
