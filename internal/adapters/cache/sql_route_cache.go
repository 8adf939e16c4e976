package cache

import (
	"context"
	"database/sql"
	"delivery-network-service/internal/domain"
	"delivery-network-service/internal/platform/db"
	"delivery-network-service/internal/platform/obs"
	"encoding/json"
	"errors"
	"fmt"
	"time"
)

// SQLRouteCache keeps routing results in the route_cache table of the
// network database. Used when no Redis is available.
type SQLRouteCache struct {
	DB      *sql.DB
	dialect db.Dialect
	ttl     time.Duration
	now     func() time.Time
}

func NewSQLRouteCache(conn *sql.DB, dialect db.Dialect, ttl time.Duration) *SQLRouteCache {
	return &SQLRouteCache{DB: conn, dialect: dialect, ttl: ttl, now: time.Now}
}

func (s *SQLRouteCache) GetPath(
	ctx context.Context,
	version string,
	start, end domain.PointID,
) (_ *domain.PathResult, _ bool, err error) {
	defer obs.Time(ctx, "route.cache.sql.GetPath")(&err)

	var res domain.PathResult
	ok, err := s.get(ctx, pathKey(version, start, end), &res)
	if err != nil || !ok {
		return nil, false, err
	}
	return &res, true, nil
}

func (s *SQLRouteCache) PutPath(
	ctx context.Context,
	version string,
	start, end domain.PointID,
	res *domain.PathResult,
) (err error) {
	defer obs.Time(ctx, "route.cache.sql.PutPath")(&err)
	return s.put(ctx, pathKey(version, start, end), res)
}

func (s *SQLRouteCache) GetOrder(
	ctx context.Context,
	version string,
	start domain.PointID,
) (_ *domain.OrderResult, _ bool, err error) {
	defer obs.Time(ctx, "route.cache.sql.GetOrder")(&err)

	var res domain.OrderResult
	ok, err := s.get(ctx, orderKey(version, start), &res)
	if err != nil || !ok {
		return nil, false, err
	}
	return &res, true, nil
}

func (s *SQLRouteCache) PutOrder(
	ctx context.Context,
	version string,
	start domain.PointID,
	res *domain.OrderResult,
) (err error) {
	defer obs.Time(ctx, "route.cache.sql.PutOrder")(&err)
	return s.put(ctx, orderKey(version, start), res)
}

// Prune deletes expired entries and returns how many were removed.
func (s *SQLRouteCache) Prune(ctx context.Context) (_ int64, err error) {
	defer obs.Time(ctx, "route.cache.sql.Prune")(&err)

	if s.DB == nil {
		return 0, errors.New("route cache: db is nil")
	}

	q := fmt.Sprintf(`
	DELETE FROM route_cache
	WHERE expires_at <= %s;
	`, s.dialect.Placeholder(1))

	res, err := s.DB.ExecContext(ctx, q, s.now().UnixMilli())
	if err != nil {
		return 0, fmt.Errorf("prune route cache: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("prune route cache: rows affected: %w", err)
	}
	return n, nil
}

func (s *SQLRouteCache) get(ctx context.Context, key string, dst any) (bool, error) {
	if s.DB == nil {
		return false, errors.New("route cache: db is nil")
	}

	ph := s.dialect.Placeholder
	q := fmt.Sprintf(`
	SELECT payload
	FROM route_cache
	WHERE cache_key = %s
		AND expires_at > %s;
	`, ph(1), ph(2))

	var payload string
	err := s.DB.QueryRowContext(ctx, q, key, s.now().UnixMilli()).Scan(&payload)
	if errors.Is(err, sql.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("route cache: get %q: %w", key, err)
	}

	if err := json.Unmarshal([]byte(payload), dst); err != nil {
		return false, fmt.Errorf("route cache: decode %q: %w", key, err)
	}
	return true, nil
}

func (s *SQLRouteCache) put(ctx context.Context, key string, value any) error {
	if s.DB == nil {
		return errors.New("route cache: db is nil")
	}

	raw, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("route cache: encode %q: %w", key, err)
	}

	ph := s.dialect.Placeholder
	q := fmt.Sprintf(`
	INSERT INTO route_cache (cache_key, payload, expires_at)
	VALUES (%s, %s, %s)
	ON CONFLICT (cache_key) DO UPDATE
	SET payload = EXCLUDED.payload,
		expires_at = EXCLUDED.expires_at;
	`, ph(1), ph(2), ph(3))

	expires := s.now().Add(s.ttl).UnixMilli()
	if _, err := s.DB.ExecContext(ctx, q, key, string(raw), expires); err != nil {
		return fmt.Errorf("route cache: set %q: %w", key, err)
	}
	return nil
}
