package main

import (
	"context"
	"delivery-network-service/internal/adapters/memory"
	"delivery-network-service/internal/adapters/repositories"
	"delivery-network-service/internal/config"
	"delivery-network-service/internal/services"
	"flag"
	"fmt"
	"log"

	"github.com/joho/godotenv"
)

// dbtool prepares the configured storage backend and loads seed points into it.
func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found (using environment variables)")
	}

	reset := flag.Bool("reset", false, "delete every stored point before seeding")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("load config: %v", err)
	}
	if cfg.Store.Backend == config.BackendMemory {
		log.Fatal("dbtool needs a persistent STORE_BACKEND (postgres, sqlite or neo4j)")
	}

	ctx := context.Background()

	log.Println("Initializing storage schema...")
	repo, err := repositories.Open(ctx, cfg.Store)
	if err != nil {
		log.Fatalf("schema initialization failed: %v", err)
	}
	defer repo.Close()
	log.Println("Schema ready.")

	svc := services.NewNetworkService(memory.NewGraphStore(), services.WithRepository(repo))
	if err := prepare(ctx, svc, *reset); err != nil {
		log.Fatal(err)
	}

	seedPath := config.Get("SEED_PATH", cfg.Store.SeedPath)
	log.Println("Seeding network...")
	seeds, err := repositories.SeedFromJSON(seedPath)
	if err != nil {
		log.Fatalf("seeding failed: %v", err)
	}

	reqs := make([]services.InsertPointRequest, 0, len(seeds))
	for _, s := range seeds {
		reqs = append(reqs, services.InsertPointRequest{X: s.X, Y: s.Y, SpeedLimit: s.SpeedLimit})
	}

	created, err := svc.Seed(ctx, reqs)
	if err != nil {
		log.Fatalf("seeding failed: %v", err)
	}

	stats, _ := svc.Stats(ctx)
	log.Printf("Seeding complete. created=%d points=%d routes=%d", created, stats.Points, stats.Routes)
}

// prepare loads the stored network into svc. With reset the stored network is
// deleted first, so a snapshot that fails to restore can still be replaced.
func prepare(ctx context.Context, svc *services.NetworkService, reset bool) error {
	if reset {
		log.Println("Deleting stored points...")
		if err := svc.DeleteAll(ctx); err != nil {
			return fmt.Errorf("reset failed: %w", err)
		}
	}
	if err := svc.Restore(ctx); err != nil {
		return fmt.Errorf("restore failed: %w", err)
	}
	return nil
}
