package cache

import (
	"context"
	"delivery-network-service/internal/domain"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
)

func newTestCache(t *testing.T) (*RedisRouteCache, *miniredis.Miniredis) {
	t.Helper()

	srv := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: srv.Addr()})
	t.Cleanup(func() { _ = client.Close() })

	return NewRedisRouteCache(client, time.Minute), srv
}

func TestRedisRouteCachePathRoundTrip(t *testing.T) {
	ctx := context.Background()
	c, srv := newTestCache(t)

	if _, ok, err := c.GetPath(ctx, "e.1", 1, 2); err != nil || ok {
		t.Fatalf("empty cache: ok=%v err=%v, want miss", ok, err)
	}

	want := &domain.PathResult{
		Points:        []domain.Point{{ID: 1, X: 0, Y: 0}, {ID: 2, X: 1, Y: 0}},
		TotalTime:     0.5,
		TotalDistance: 1,
	}
	if err := c.PutPath(ctx, "e.1", 1, 2, want); err != nil {
		t.Fatalf("put: %v", err)
	}

	if !srv.Exists("network:e.1:path:1:2") {
		t.Fatalf("expected key network:e.1:path:1:2, have %v", srv.Keys())
	}
	if ttl := srv.TTL("network:e.1:path:1:2"); ttl != time.Minute {
		t.Fatalf("ttl = %s, want 1m", ttl)
	}

	got, ok, err := c.GetPath(ctx, "e.1", 1, 2)
	if err != nil || !ok {
		t.Fatalf("get: ok=%v err=%v", ok, err)
	}
	if got.TotalTime != want.TotalTime || len(got.Points) != 2 || got.Points[1] != want.Points[1] {
		t.Fatalf("got %+v, want %+v", got, want)
	}

	if _, ok, _ := c.GetPath(ctx, "e.2", 1, 2); ok {
		t.Fatalf("a newer version must miss")
	}
}

func TestRedisRouteCacheOrderRoundTrip(t *testing.T) {
	ctx := context.Background()
	c, _ := newTestCache(t)

	want := &domain.OrderResult{
		Start: domain.Point{ID: 1},
		Stops: []domain.OrderStop{
			{Point: domain.Point{ID: 2, X: 1}, MinTime: 1, LegTime: 1, LegDistance: 1},
		},
		TotalTime:     1,
		TotalDistance: 1,
	}
	if err := c.PutOrder(ctx, "e.4", 1, want); err != nil {
		t.Fatalf("put: %v", err)
	}

	got, ok, err := c.GetOrder(ctx, "e.4", 1)
	if err != nil || !ok {
		t.Fatalf("get: ok=%v err=%v", ok, err)
	}
	if len(got.Stops) != 1 || got.Stops[0] != want.Stops[0] || got.Start.ID != 1 {
		t.Fatalf("got %+v, want %+v", got, want)
	}
}

func TestRedisRouteCacheExpiry(t *testing.T) {
	ctx := context.Background()
	c, srv := newTestCache(t)

	if err := c.PutOrder(ctx, "e.1", 1, &domain.OrderResult{}); err != nil {
		t.Fatalf("put: %v", err)
	}
	srv.FastForward(2 * time.Minute)

	if _, ok, err := c.GetOrder(ctx, "e.1", 1); err != nil || ok {
		t.Fatalf("after ttl: ok=%v err=%v, want miss", ok, err)
	}
}

func TestRedisRouteCacheCorruptEntry(t *testing.T) {
	ctx := context.Background()
	c, srv := newTestCache(t)

	if err := srv.Set("network:e.1:order:1", "not json"); err != nil {
		t.Fatalf("seed: %v", err)
	}
	if _, ok, err := c.GetOrder(ctx, "e.1", 1); err == nil || ok {
		t.Fatalf("corrupt entry: ok=%v err=%v, want decode error", ok, err)
	}
}

func TestRedisRouteCacheServerDown(t *testing.T) {
	ctx := context.Background()
	c, srv := newTestCache(t)
	srv.Close()

	if _, _, err := c.GetPath(ctx, "e.1", 1, 2); err == nil {
		t.Fatalf("expected error when redis is unavailable")
	}
	if err := c.PutPath(ctx, "e.1", 1, 2, &domain.PathResult{}); err == nil {
		t.Fatalf("expected error when redis is unavailable")
	}
}
