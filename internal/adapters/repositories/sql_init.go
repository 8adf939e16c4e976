package repositories

import (
	"database/sql"
	"delivery-network-service/internal/platform/db"
	"errors"
	"fmt"
)

// Initialize the network schema. Safe to run on every start.
func InitSchema(conn *sql.DB, dialect db.Dialect) error {
	if conn == nil {
		return errors.New("init schema: DB is nil")
	}
	if !dialect.Valid() {
		return fmt.Errorf("init schema: unknown dialect %q", dialect)
	}

	realType := "REAL"
	if dialect == db.DialectPostgres {
		realType = "DOUBLE PRECISION"
	}

	tx, err := conn.Begin()
	if err != nil {
		return fmt.Errorf("init schema: begin tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	createPointsQuery := fmt.Sprintf(`
	CREATE TABLE IF NOT EXISTS points (
		point_id BIGINT PRIMARY KEY,
		x %[1]s NOT NULL,
		y %[1]s NOT NULL,
		UNIQUE (x, y)
	);
	`, realType)

	createRoutesQuery := fmt.Sprintf(`
	CREATE TABLE IF NOT EXISTS routes (
		from_id BIGINT NOT NULL REFERENCES points(point_id) ON DELETE CASCADE,
		to_id BIGINT NOT NULL REFERENCES points(point_id) ON DELETE CASCADE,
		distance %[1]s NOT NULL,
		speed_limit %[1]s NOT NULL,
		PRIMARY KEY (from_id, to_id)
	);
	`, realType)

	createIndexQuery := `
	CREATE INDEX IF NOT EXISTS idx_routes_to_id
	ON routes(to_id);
	`

	createRouteCacheQuery := `
	CREATE TABLE IF NOT EXISTS route_cache (
		cache_key TEXT PRIMARY KEY,
		payload TEXT NOT NULL,
		expires_at BIGINT NOT NULL
	);
	`

	createRouteCacheIndexQuery := `
	CREATE INDEX IF NOT EXISTS idx_route_cache_expires_at
	ON route_cache(expires_at);
	`

	statements := []string{
		createPointsQuery,
		createRoutesQuery,
		createIndexQuery,
		createRouteCacheQuery,
		createRouteCacheIndexQuery,
	}

	for i, stmt := range statements {
		if _, err := tx.Exec(stmt); err != nil {
			return fmt.Errorf("init schema: exec statement #%d: %w", i+1, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("init schema: commit tx: %w", err)
	}

	return nil
}
