package main

import (
	"context"
	"delivery-network-service/internal/adapters/memory"
	"delivery-network-service/internal/adapters/repositories"
	"delivery-network-service/internal/config"
	"delivery-network-service/internal/domain"
	"delivery-network-service/internal/ports"
	"delivery-network-service/internal/services"
	"errors"
	"path/filepath"
	"testing"
)

// openBrokenStore returns a sqlite repository holding two points and no routes.
func openBrokenStore(t *testing.T) ports.NetworkRepository {
	t.Helper()

	ctx := context.Background()
	repo, err := repositories.Open(ctx, config.StoreConfig{
		Backend:    config.BackendSQLite,
		SQLitePath: filepath.Join(t.TempDir(), "network.db"),
	})
	if err != nil {
		t.Fatalf("open repository: %v", err)
	}
	t.Cleanup(func() { _ = repo.Close() })

	for _, p := range []domain.Point{{ID: 1, X: 0, Y: 0}, {ID: 2, X: 3, Y: 4}} {
		if err := repo.SavePoint(ctx, p, nil); err != nil {
			t.Fatalf("save point %d: %v", p.ID, err)
		}
	}
	return repo
}

func TestPrepareWithoutResetRejectsBrokenStore(t *testing.T) {
	repo := openBrokenStore(t)
	svc := services.NewNetworkService(memory.NewGraphStore(), services.WithRepository(repo))

	if err := prepare(context.Background(), svc, false); !errors.Is(err, domain.ErrInvariant) {
		t.Fatalf("err = %v, want ErrInvariant", err)
	}
}

func TestPrepareResetRepairsBrokenStore(t *testing.T) {
	ctx := context.Background()
	repo := openBrokenStore(t)
	svc := services.NewNetworkService(memory.NewGraphStore(), services.WithRepository(repo))

	if err := prepare(ctx, svc, true); err != nil {
		t.Fatalf("prepare: %v", err)
	}

	points, routes, err := repo.LoadNetwork(ctx)
	if err != nil {
		t.Fatalf("load network: %v", err)
	}
	if len(points) != 0 || len(routes) != 0 {
		t.Fatalf("stored network = %d points %d routes, want empty", len(points), len(routes))
	}

	created, err := svc.Seed(ctx, []services.InsertPointRequest{
		{X: 0, Y: 0, SpeedLimit: 1},
		{X: 3, Y: 4, SpeedLimit: 1},
	})
	if err != nil {
		t.Fatalf("seed: %v", err)
	}
	if created != 2 {
		t.Fatalf("created = %d, want 2", created)
	}
}
