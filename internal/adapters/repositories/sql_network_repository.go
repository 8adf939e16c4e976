package repositories

import (
	"context"
	"database/sql"
	"delivery-network-service/internal/domain"
	"delivery-network-service/internal/platform/db"
	"delivery-network-service/internal/platform/obs"
	"errors"
	"fmt"
)

// SQL-backed implementation of the NetworkRepository port. Works against
// PostgreSQL (pgx) and SQLite; only the bind markers and column types differ.
type SQLNetworkRepository struct {
	DB      *sql.DB
	dialect db.Dialect
}

func NewSQLNetworkRepository(conn *sql.DB, dialect db.Dialect) (*SQLNetworkRepository, error) {
	if conn == nil {
		return nil, errors.New("sql network repository: DB is nil")
	}
	if !dialect.Valid() {
		return nil, fmt.Errorf("sql network repository: unknown dialect %q", dialect)
	}
	return &SQLNetworkRepository{DB: conn, dialect: dialect}, nil
}

// Return all stored points and routes, ordered by id.
func (s *SQLNetworkRepository) LoadNetwork(ctx context.Context) (_ []domain.Point, _ []domain.Route, err error) {
	defer obs.Time(ctx, "repo.sql.LoadNetwork")(&err)

	pointsQuery := `
	SELECT
		point_id,
		x,
		y
	FROM points
	ORDER BY point_id;
	`
	rows, err := s.DB.QueryContext(ctx, pointsQuery)
	if err != nil {
		return nil, nil, fmt.Errorf("load network: query points table: %w", err)
	}
	defer rows.Close()

	points := make([]domain.Point, 0, 64)
	for rows.Next() {
		var p domain.Point
		if err := rows.Scan(&p.ID, &p.X, &p.Y); err != nil {
			return nil, nil, fmt.Errorf("load network: scan point row: %w", err)
		}
		points = append(points, p)
	}
	if err := rows.Err(); err != nil {
		return nil, nil, fmt.Errorf("load network: point row iteration: %w", err)
	}

	routesQuery := `
	SELECT
		from_id,
		to_id,
		distance,
		speed_limit
	FROM routes
	ORDER BY from_id, to_id;
	`
	routeRows, err := s.DB.QueryContext(ctx, routesQuery)
	if err != nil {
		return nil, nil, fmt.Errorf("load network: query routes table: %w", err)
	}
	defer routeRows.Close()

	routes := make([]domain.Route, 0, len(points)*len(points))
	for routeRows.Next() {
		var r domain.Route
		if err := routeRows.Scan(&r.FromID, &r.ToID, &r.Distance, &r.SpeedLimit); err != nil {
			return nil, nil, fmt.Errorf("load network: scan route row: %w", err)
		}
		routes = append(routes, r)
	}
	if err := routeRows.Err(); err != nil {
		return nil, nil, fmt.Errorf("load network: route row iteration: %w", err)
	}

	return points, routes, nil
}

// Store a point and all of its routes in one transaction.
func (s *SQLNetworkRepository) SavePoint(ctx context.Context, p domain.Point, routes []domain.Route) (err error) {
	defer obs.Time(ctx, "repo.sql.SavePoint")(&err)

	tx, err := s.DB.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("save point: begin tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	ph := s.dialect.Placeholder
	pointQuery := fmt.Sprintf(`
	INSERT INTO points (
		point_id,
		x,
		y
	)
	VALUES (%s, %s, %s);
	`, ph(1), ph(2), ph(3))

	if _, err := tx.ExecContext(ctx, pointQuery, int64(p.ID), p.X, p.Y); err != nil {
		return fmt.Errorf("save point: insert point_id=%d: %w", p.ID, err)
	}

	if len(routes) > 0 {
		routeQuery := fmt.Sprintf(`
		INSERT INTO routes (
			from_id,
			to_id,
			distance,
			speed_limit
		)
		VALUES (%s, %s, %s, %s);
		`, ph(1), ph(2), ph(3), ph(4))

		stmt, err := tx.PrepareContext(ctx, routeQuery)
		if err != nil {
			return fmt.Errorf("save point: prepare route insert: %w", err)
		}
		defer stmt.Close()

		for _, r := range routes {
			if _, err := stmt.ExecContext(ctx, int64(r.FromID), int64(r.ToID), r.Distance, r.SpeedLimit); err != nil {
				return fmt.Errorf("save point: insert route %d->%d: %w", r.FromID, r.ToID, err)
			}
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("save point: commit tx: %w", err)
	}
	return nil
}

// Delete a point and every route touching it.
func (s *SQLNetworkRepository) DeletePoint(ctx context.Context, id domain.PointID) (err error) {
	defer obs.Time(ctx, "repo.sql.DeletePoint")(&err)

	tx, err := s.DB.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("delete point: begin tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	ph := s.dialect.Placeholder
	routesQuery := fmt.Sprintf(`
	DELETE FROM routes
	WHERE from_id = %s
		OR to_id = %s;
	`, ph(1), ph(2))
	if _, err := tx.ExecContext(ctx, routesQuery, int64(id), int64(id)); err != nil {
		return fmt.Errorf("delete point: delete routes of point_id=%d: %w", id, err)
	}

	pointQuery := fmt.Sprintf(`
	DELETE FROM points
	WHERE point_id = %s;
	`, ph(1))
	res, err := tx.ExecContext(ctx, pointQuery, int64(id))
	if err != nil {
		return fmt.Errorf("delete point: delete point_id=%d: %w", id, err)
	}

	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete point: rows affected: %w", err)
	}
	if n == 0 {
		return fmt.Errorf("delete point: point_id=%d: %w", id, domain.ErrNotFound)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("delete point: commit tx: %w", err)
	}
	return nil
}

func (s *SQLNetworkRepository) DeleteAll(ctx context.Context) (err error) {
	defer obs.Time(ctx, "repo.sql.DeleteAll")(&err)

	tx, err := s.DB.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("delete all: begin tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	for _, stmt := range []string{"DELETE FROM routes;", "DELETE FROM points;"} {
		if _, err := tx.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("delete all: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("delete all: commit tx: %w", err)
	}
	return nil
}

func (s *SQLNetworkRepository) Dialect() db.Dialect {
	return s.dialect
}

func (s *SQLNetworkRepository) Close() error {
	return s.DB.Close()
}
