package main

import (
	"context"
	"delivery-network-service/internal/adapters/cache"
	"delivery-network-service/internal/adapters/memory"
	"delivery-network-service/internal/adapters/repositories"
	"delivery-network-service/internal/api"
	"delivery-network-service/internal/config"
	"delivery-network-service/internal/ports"
	"delivery-network-service/internal/services"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"
)

// main is the application composition root.
// It wires the in-memory network, the configured storage backend and the
// optional Redis cache behind ports, then serves HTTP until signalled.
func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found (using environment variables)")
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("load config: %v", err)
	}

	if err := run(cfg); err != nil {
		log.Fatal(err)
	}
}

func run(cfg config.Config) error {
	ctx := context.Background()

	repo, err := repositories.Open(ctx, cfg.Store)
	if err != nil {
		return err
	}
	if repo != nil {
		defer func() {
			if err := repo.Close(); err != nil {
				log.Printf("close repository failed: %v", err)
			}
		}()
	}
	log.Printf("Storage backend=%s", cfg.Store.Backend)

	opts := []services.Option{}
	if repo != nil {
		opts = append(opts, services.WithRepository(repo))
	}

	routeCache, closeCache := openRouteCache(ctx, cfg.Cache, repo)
	defer closeCache()
	if routeCache != nil {
		opts = append(opts, services.WithRouteCache(routeCache))
	}

	svc := services.NewNetworkService(memory.NewGraphStore(), opts...)

	if err := svc.Restore(ctx); err != nil {
		return fmt.Errorf("restore network: %w", err)
	}
	if err := seedIfEmpty(ctx, svc, cfg.Store.SeedPath); err != nil {
		return err
	}

	router := api.NewRouter(svc, api.RouterOptions{Metrics: cfg.Metrics.Enabled})

	srv := &http.Server{
		Addr:              ":" + cfg.HTTP.Port,
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       cfg.HTTP.ReadTimeout,
		WriteTimeout:      cfg.HTTP.WriteTimeout,
		IdleTimeout:       cfg.HTTP.IdleTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Printf("Server listening addr=:%s", cfg.HTTP.Port)
		errCh <- srv.ListenAndServe()
	}()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	select {
	case sig := <-sigCh:
		log.Printf("Received shutdown signal=%s", sig)
	case err := <-errCh:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("server stopped unexpectedly: %w", err)
		}
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.HTTP.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Printf("graceful shutdown failed: %v", err)
	}
	log.Println("Server stopped")
	return nil
}

// Returns nil when caching is off. An unreachable Redis disables caching
// rather than stopping the server.
func openRouteCache(ctx context.Context, cfg config.CacheConfig, repo ports.NetworkRepository) (ports.RouteCache, func()) {
	switch cfg.Backend {
	case config.CacheRedis:
		return openRedisCache(ctx, cfg)
	case config.CacheSQL:
		sqlRepo, ok := repo.(*repositories.SQLNetworkRepository)
		if !ok {
			log.Printf("route cache disabled: sql cache needs a sql store")
			return nil, func() {}
		}
		c := cache.NewSQLRouteCache(sqlRepo.DB, sqlRepo.Dialect(), cfg.TTL)
		if n, err := c.Prune(ctx); err != nil {
			log.Printf("route cache prune failed: %v", err)
		} else {
			log.Printf("Route cache enabled backend=sql ttl=%s pruned=%d", cfg.TTL, n)
		}
		// The connection belongs to the repository.
		return c, func() {}
	default:
		return nil, func() {}
	}
}

func openRedisCache(ctx context.Context, cfg config.CacheConfig) (ports.RouteCache, func()) {
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPassword,
		DB:       cfg.RedisDB,
	})

	pingCtx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()

	if err := client.Ping(pingCtx).Err(); err != nil {
		log.Printf("route cache disabled: redis addr=%s err=%v", cfg.RedisAddr, err)
		_ = client.Close()
		return nil, func() {}
	}

	log.Printf("Route cache enabled backend=redis addr=%s ttl=%s", cfg.RedisAddr, cfg.TTL)
	return cache.NewRedisRouteCache(client, cfg.TTL), func() {
		if err := client.Close(); err != nil {
			log.Printf("close redis failed: %v", err)
		}
	}
}

// Seed demo points on first start. A missing seed file is not an error.
func seedIfEmpty(ctx context.Context, svc *services.NetworkService, seedPath string) error {
	stats, err := svc.Stats(ctx)
	if err != nil {
		return err
	}
	if stats.Points > 0 || seedPath == "" {
		return nil
	}
	if _, err := os.Stat(seedPath); errors.Is(err, os.ErrNotExist) {
		return nil
	}

	seeds, err := repositories.SeedFromJSON(seedPath)
	if err != nil {
		return fmt.Errorf("seed network: %w", err)
	}

	reqs := make([]services.InsertPointRequest, 0, len(seeds))
	for _, s := range seeds {
		reqs = append(reqs, services.InsertPointRequest{X: s.X, Y: s.Y, SpeedLimit: s.SpeedLimit})
	}

	created, err := svc.Seed(ctx, reqs)
	if err != nil {
		return fmt.Errorf("seed network: %w", err)
	}
	log.Printf("Seeded network points=%d path=%s", created, seedPath)
	return nil
}
