package repositories

import (
	"context"
	"delivery-network-service/internal/config"
	"delivery-network-service/internal/platform/db"
	"delivery-network-service/internal/platform/graphdb"
	"delivery-network-service/internal/ports"
	"fmt"
	"os"
	"path/filepath"
)

// Open connects the repository for the configured backend and prepares its
// schema. The memory backend has no repository and returns nil.
func Open(ctx context.Context, cfg config.StoreConfig) (ports.NetworkRepository, error) {
	switch cfg.Backend {
	case config.BackendMemory:
		return nil, nil

	case config.BackendPostgres:
		return openSQL(db.DriverPostgres, cfg.DatabaseURL, db.DialectPostgres)

	case config.BackendSQLite:
		if dir := filepath.Dir(cfg.SQLitePath); dir != "." {
			if err := os.MkdirAll(dir, 0o755); err != nil {
				return nil, fmt.Errorf("open repository: create %q: %w", dir, err)
			}
		}
		return openSQL(db.DriverSQLite, db.SQLiteDSN(cfg.SQLitePath), db.DialectSQLite)

	case config.BackendNeo4j:
		client, err := graphdb.NewNeo4jClient(ctx, graphdb.Options{
			URI:      cfg.Neo4jURI,
			Database: cfg.Neo4jDatabase,
			Username: cfg.Neo4jUsername,
			Password: cfg.Neo4jPassword,
		})
		if err != nil {
			return nil, fmt.Errorf("open repository: %w", err)
		}

		repo, err := NewNeo4jNetworkRepository(client)
		if err != nil {
			_ = client.Close(ctx)
			return nil, fmt.Errorf("open repository: %w", err)
		}
		if err := repo.EnsureConstraints(ctx); err != nil {
			_ = repo.Close()
			return nil, fmt.Errorf("open repository: %w", err)
		}
		return repo, nil

	default:
		return nil, fmt.Errorf("open repository: unknown backend %q", cfg.Backend)
	}
}

func openSQL(driver, dsn string, dialect db.Dialect) (ports.NetworkRepository, error) {
	conn, err := db.Open(driver, dsn)
	if err != nil {
		return nil, fmt.Errorf("open repository: %w", err)
	}

	if err := InitSchema(conn, dialect); err != nil {
		_ = conn.Close()
		return nil, fmt.Errorf("open repository: %w", err)
	}

	repo, err := NewSQLNetworkRepository(conn, dialect)
	if err != nil {
		_ = conn.Close()
		return nil, fmt.Errorf("open repository: %w", err)
	}
	return repo, nil
}
