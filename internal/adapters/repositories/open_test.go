package repositories

import (
	"context"
	"delivery-network-service/internal/config"
	"delivery-network-service/internal/domain"
	"path/filepath"
	"testing"
)

func TestOpenMemoryBackendHasNoRepository(t *testing.T) {
	repo, err := Open(context.Background(), config.StoreConfig{Backend: config.BackendMemory})
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	if repo != nil {
		t.Fatalf("repo = %T, want nil", repo)
	}
}

func TestOpenSQLiteBackendCreatesSchema(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "nested", "network.db")

	repo, err := Open(ctx, config.StoreConfig{Backend: config.BackendSQLite, SQLitePath: path})
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	defer repo.Close()

	if err := repo.SavePoint(ctx, domain.Point{ID: 1, X: 1, Y: 2}, nil); err != nil {
		t.Fatalf("save: %v", err)
	}
	points, _, err := repo.LoadNetwork(ctx)
	if err != nil || len(points) != 1 {
		t.Fatalf("load = %v, %v; want one point", points, err)
	}
}

func TestOpenUnknownBackend(t *testing.T) {
	if _, err := Open(context.Background(), config.StoreConfig{Backend: "mongo"}); err == nil {
		t.Fatalf("expected error for unknown backend")
	}
}
