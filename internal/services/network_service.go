package services

import (
	"context"
	"delivery-network-service/internal/domain"
	"delivery-network-service/internal/platform/metrics"
	"delivery-network-service/internal/platform/obs"
	"delivery-network-service/internal/ports"
	"errors"
	"fmt"
	"log"

	"github.com/google/uuid"
)

// NetworkService is the entry point for the request layer.
//
// Mutations run through the Mesh Builder inside one store critical section
// and, when a repository is configured, are written through in the same
// section. Routing queries are pure reads over the current snapshot, optionally
// served from a cache keyed by network version.
type NetworkService struct {
	store ports.GraphStore
	repo  ports.NetworkRepository
	cache ports.RouteCache
	// Distinguishes this process's revisions from those of earlier runs
	// sharing the same cache.
	epoch string
}

type Option func(*NetworkService)

// WithRepository writes every mutation through to durable storage.
func WithRepository(repo ports.NetworkRepository) Option {
	return func(s *NetworkService) { s.repo = repo }
}

// WithRouteCache serves repeated routing queries from a cache.
func WithRouteCache(cache ports.RouteCache) Option {
	return func(s *NetworkService) { s.cache = cache }
}

func NewNetworkService(store ports.GraphStore, opts ...Option) *NetworkService {
	s := &NetworkService{store: store, epoch: uuid.NewString()}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

type InsertPointRequest struct {
	X          float64
	Y          float64
	SpeedLimit float64
}

type NetworkStats struct {
	Points   int
	Routes   int
	Revision uint64
}

// Restore replaces the in-memory network with the repository snapshot.
// A snapshot that is not a complete mesh is rejected.
func (s *NetworkService) Restore(ctx context.Context) (err error) {
	defer obs.Time(ctx, "network.Restore")(&err)

	if s.repo == nil {
		return nil
	}

	points, routes, err := s.repo.LoadNetwork(ctx)
	if err != nil {
		return fmt.Errorf("restore network: load: %w", err)
	}

	return s.store.Update(func(w ports.GraphWriter) (err error) {
		w.Clear()
		// A rejected snapshot leaves an empty network, never a partial one.
		defer func() {
			if err != nil {
				w.Clear()
			}
		}()

		for _, p := range points {
			if err := w.PutPoint(p); err != nil {
				return fmt.Errorf("restore network: %w", err)
			}
		}
		for _, r := range routes {
			if err := w.AddRoute(r.FromID, r.ToID, r.Distance, r.SpeedLimit); err != nil {
				return fmt.Errorf("restore network: %w", err)
			}
		}
		if err := CheckMesh(w); err != nil {
			return fmt.Errorf("restore network: %w", err)
		}

		metrics.SetNetworkSize(w.PointCount(), w.RouteCount())
		log.Printf("network restored points=%d routes=%d", w.PointCount(), w.RouteCount())
		return nil
	})
}

func (s *NetworkService) ListPoints(ctx context.Context) ([]domain.Point, error) {
	var points []domain.Point
	err := s.store.View(func(r ports.GraphReader) error {
		points = r.ListPoints()
		return nil
	})
	return points, err
}

func (s *NetworkService) Stats(ctx context.Context) (NetworkStats, error) {
	var st NetworkStats
	err := s.store.View(func(r ports.GraphReader) error {
		st = NetworkStats{Points: r.PointCount(), Routes: r.RouteCount(), Revision: r.Revision()}
		return nil
	})
	return st, err
}

// InsertPoint creates a point and its full set of mesh routes.
// On any failure the network is left exactly as it was.
func (s *NetworkService) InsertPoint(ctx context.Context, req InsertPointRequest) (_ domain.Point, err error) {
	defer obs.Time(ctx, "network.InsertPoint")(&err)

	var created domain.Point
	err = s.store.Update(func(w ports.GraphWriter) error {
		p, routes, err := InsertPoint(w, req.X, req.Y, req.SpeedLimit)
		if err != nil {
			return err
		}

		if s.repo != nil {
			if err := s.repo.SavePoint(ctx, p, routes); err != nil {
				if undoErr := w.RemovePoint(p.ID); undoErr != nil {
					return fmt.Errorf("persist point %d: %w (undo failed: %v)", p.ID, err, undoErr)
				}
				return fmt.Errorf("persist point %d: %w", p.ID, err)
			}
		}

		created = p
		metrics.SetNetworkSize(w.PointCount(), w.RouteCount())
		return nil
	})
	if err != nil {
		return domain.Point{}, fmt.Errorf("network insert point: %w", err)
	}

	return created, nil
}

// DeletePoint removes a point and its routes. Storage is updated first so a
// failed write leaves memory untouched.
func (s *NetworkService) DeletePoint(ctx context.Context, id domain.PointID) (err error) {
	defer obs.Time(ctx, "network.DeletePoint")(&err)

	err = s.store.Update(func(w ports.GraphWriter) error {
		if _, ok := w.Point(id); !ok {
			return fmt.Errorf("point %d: %w", id, domain.ErrNotFound)
		}

		if s.repo != nil {
			if err := s.repo.DeletePoint(ctx, id); err != nil {
				return fmt.Errorf("persist delete of point %d: %w", id, err)
			}
		}

		if err := DeletePoint(w, id); err != nil {
			return err
		}

		metrics.SetNetworkSize(w.PointCount(), w.RouteCount())
		return nil
	})
	if err != nil {
		return fmt.Errorf("network delete point: %w", err)
	}
	return nil
}

// DeleteAll removes every point and route. Calling it on an empty network is a no-op.
func (s *NetworkService) DeleteAll(ctx context.Context) (err error) {
	defer obs.Time(ctx, "network.DeleteAll")(&err)

	err = s.store.Update(func(w ports.GraphWriter) error {
		if s.repo != nil {
			if err := s.repo.DeleteAll(ctx); err != nil {
				return fmt.Errorf("persist delete all: %w", err)
			}
		}

		DeleteAll(w)
		metrics.SetNetworkSize(0, 0)
		return nil
	})
	if err != nil {
		return fmt.Errorf("network delete all: %w", err)
	}
	return nil
}

// Seed inserts each request in order. Requests whose coordinates are already
// taken are skipped, so seeding twice is harmless. Returns how many points
// were created.
func (s *NetworkService) Seed(ctx context.Context, reqs []InsertPointRequest) (created int, err error) {
	defer obs.Time(ctx, "network.Seed")(&err)

	for i, req := range reqs {
		if _, err := s.InsertPoint(ctx, req); err != nil {
			if errors.Is(err, domain.ErrDuplicateCoordinate) {
				continue
			}
			return created, fmt.Errorf("seed point #%d: %w", i+1, err)
		}
		created++
	}
	return created, nil
}

// ShortestPath returns the minimum-time path between two points.
func (s *NetworkService) ShortestPath(ctx context.Context, start, end domain.PointID) (_ *domain.PathResult, err error) {
	defer obs.Time(ctx, "network.ShortestPath")(&err)

	if s.cache != nil {
		if res, ok := s.cachedPath(ctx, start, end); ok {
			metrics.RouteQueries.WithLabelValues("path", "cached").Inc()
			return res, nil
		}
	}

	var (
		res     *domain.PathResult
		version string
	)
	err = s.store.View(func(r ports.GraphReader) error {
		version = s.versionOf(r.Revision())
		var err error
		res, err = ShortestPath(r, start, end)
		return err
	})
	metrics.RouteQueries.WithLabelValues("path", outcome(err)).Inc()
	if err != nil {
		return nil, fmt.Errorf("network shortest path: %w", err)
	}

	if s.cache != nil {
		if err := s.cache.PutPath(ctx, version, start, end, res); err != nil {
			log.Printf("req_id=%s route cache put path failed: %v", obs.RequestID(ctx), err)
		}
	}
	return res, nil
}

// OrderByTime returns every other point in ascending order of minimal travel time from start.
func (s *NetworkService) OrderByTime(ctx context.Context, start domain.PointID) (_ *domain.OrderResult, err error) {
	defer obs.Time(ctx, "network.OrderByTime")(&err)

	if s.cache != nil {
		if res, ok := s.cachedOrder(ctx, start); ok {
			metrics.RouteQueries.WithLabelValues("order", "cached").Inc()
			return res, nil
		}
	}

	var (
		res     *domain.OrderResult
		version string
	)
	err = s.store.View(func(r ports.GraphReader) error {
		version = s.versionOf(r.Revision())
		var err error
		res, err = OrderByTime(r, start)
		return err
	})
	metrics.RouteQueries.WithLabelValues("order", outcome(err)).Inc()
	if err != nil {
		return nil, fmt.Errorf("network order by time: %w", err)
	}

	if s.cache != nil {
		if err := s.cache.PutOrder(ctx, version, start, res); err != nil {
			log.Printf("req_id=%s route cache put order failed: %v", obs.RequestID(ctx), err)
		}
	}
	return res, nil
}

func (s *NetworkService) versionOf(revision uint64) string {
	return fmt.Sprintf("%s.%d", s.epoch, revision)
}

// version identifies the current network contents for cache keys.
func (s *NetworkService) version() string {
	var rev uint64
	_ = s.store.View(func(r ports.GraphReader) error {
		rev = r.Revision()
		return nil
	})
	return s.versionOf(rev)
}

// Cache failures never fail a query; the result is recomputed instead.
func (s *NetworkService) cachedPath(ctx context.Context, start, end domain.PointID) (*domain.PathResult, bool) {
	res, ok, err := s.cache.GetPath(ctx, s.version(), start, end)
	if err != nil {
		metrics.CacheLookups.WithLabelValues("path", "error").Inc()
		log.Printf("req_id=%s route cache get path failed: %v", obs.RequestID(ctx), err)
		return nil, false
	}
	if !ok {
		metrics.CacheLookups.WithLabelValues("path", "miss").Inc()
		return nil, false
	}
	metrics.CacheLookups.WithLabelValues("path", "hit").Inc()
	return res, true
}

func (s *NetworkService) cachedOrder(ctx context.Context, start domain.PointID) (*domain.OrderResult, bool) {
	res, ok, err := s.cache.GetOrder(ctx, s.version(), start)
	if err != nil {
		metrics.CacheLookups.WithLabelValues("order", "error").Inc()
		log.Printf("req_id=%s route cache get order failed: %v", obs.RequestID(ctx), err)
		return nil, false
	}
	if !ok {
		metrics.CacheLookups.WithLabelValues("order", "miss").Inc()
		return nil, false
	}
	metrics.CacheLookups.WithLabelValues("order", "hit").Inc()
	return res, true
}

func outcome(err error) string {
	switch {
	case err == nil:
		return "ok"
	case errors.Is(err, domain.ErrInvariant):
		return "invariant"
	case errors.Is(err, domain.ErrNotFound):
		return "not_found"
	case errors.Is(err, domain.ErrNoPath):
		return "no_path"
	default:
		return "error"
	}
}
