package memory

import (
	"delivery-network-service/internal/domain"
	"delivery-network-service/internal/ports"
	"fmt"
	"sync"

	"github.com/tidwall/btree"
)

// GraphStore is the in-memory implementation of the GraphStore port.
//
// All mutations are serialized behind a single readers-writer lock; an Update
// callback is one critical section, so a multi-step change (a point plus its
// mesh routes) is never observed half-done. The GraphWriter handed to a
// callback must not be retained after it returns.
type GraphStore struct {
	mu sync.RWMutex
	g  *graph
}

func NewGraphStore() *GraphStore {
	return &GraphStore{g: newGraph()}
}

// View runs fn with a shared lock held.
func (s *GraphStore) View(fn func(r ports.GraphReader) error) error {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return fn(s.g)
}

// Update runs fn with the exclusive lock held.
func (s *GraphStore) Update(fn func(w ports.GraphWriter) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return fn(s.g)
}

// graph holds the unlocked state. Points are indexed by id and by coordinate;
// adjacency trees are keyed by destination id so Neighbors is ordered.
type graph struct {
	byID     *btree.BTreeG[domain.Point]
	byCoord  *btree.BTreeG[domain.Point]
	adj      map[domain.PointID]*btree.BTreeG[domain.Route]
	routes   int
	nextID   domain.PointID
	revision uint64
}

func newGraph() *graph {
	return &graph{
		byID:    btree.NewBTreeG[domain.Point](pointIDLess),
		byCoord: btree.NewBTreeG[domain.Point](pointCoordLess),
		adj:     make(map[domain.PointID]*btree.BTreeG[domain.Route]),
		nextID:  1,
	}
}

func pointIDLess(a, b domain.Point) bool { return a.ID < b.ID }

func pointCoordLess(a, b domain.Point) bool {
	if a.X != b.X {
		return a.X < b.X
	}
	return a.Y < b.Y
}

func routeToLess(a, b domain.Route) bool { return a.ToID < b.ToID }

func (g *graph) Point(id domain.PointID) (domain.Point, bool) {
	return g.byID.Get(domain.Point{ID: id})
}

func (g *graph) ListPoints() []domain.Point {
	out := make([]domain.Point, 0, g.byID.Len())
	g.byID.Scan(func(p domain.Point) bool {
		out = append(out, p)
		return true
	})
	return out
}

func (g *graph) Neighbors(id domain.PointID) ([]domain.Edge, error) {
	if _, ok := g.Point(id); !ok {
		return nil, fmt.Errorf("neighbors: point %d: %w", id, domain.ErrNotFound)
	}

	tree := g.adj[id]
	if tree == nil {
		return []domain.Edge{}, nil
	}

	out := make([]domain.Edge, 0, tree.Len())
	tree.Scan(func(r domain.Route) bool {
		out = append(out, r.Edge())
		return true
	})
	return out, nil
}

func (g *graph) Route(from, to domain.PointID) (domain.Route, bool) {
	tree := g.adj[from]
	if tree == nil {
		return domain.Route{}, false
	}
	return tree.Get(domain.Route{ToID: to})
}

func (g *graph) Routes() []domain.Route {
	out := make([]domain.Route, 0, g.routes)
	g.byID.Scan(func(p domain.Point) bool {
		if tree := g.adj[p.ID]; tree != nil {
			tree.Scan(func(r domain.Route) bool {
				out = append(out, r)
				return true
			})
		}
		return true
	})
	return out
}

func (g *graph) PointCount() int  { return g.byID.Len() }
func (g *graph) RouteCount() int  { return g.routes }
func (g *graph) Revision() uint64 { return g.revision }

func (g *graph) AddPoint(x, y float64) (domain.Point, error) {
	if !domain.Finite(x, y) {
		return domain.Point{}, fmt.Errorf("add point: coordinates (%v, %v): %w", x, y, domain.ErrInvalidArgument)
	}
	if existing, ok := g.byCoord.Get(domain.Point{X: x, Y: y}); ok {
		return domain.Point{}, fmt.Errorf(
			"add point: (%v, %v) already used by point %d: %w",
			x, y, existing.ID, domain.ErrDuplicateCoordinate,
		)
	}

	p := domain.Point{ID: g.nextID, X: x, Y: y}
	g.nextID++
	g.insert(p)
	return p, nil
}

func (g *graph) PutPoint(p domain.Point) error {
	if p.ID <= 0 {
		return fmt.Errorf("put point: id %d: %w", p.ID, domain.ErrInvalidArgument)
	}
	if !domain.Finite(p.X, p.Y) {
		return fmt.Errorf("put point %d: coordinates (%v, %v): %w", p.ID, p.X, p.Y, domain.ErrInvalidArgument)
	}
	if _, ok := g.Point(p.ID); ok {
		return fmt.Errorf("put point: id %d already exists: %w", p.ID, domain.ErrInvalidArgument)
	}
	if existing, ok := g.byCoord.Get(p); ok {
		return fmt.Errorf(
			"put point %d: (%v, %v) already used by point %d: %w",
			p.ID, p.X, p.Y, existing.ID, domain.ErrDuplicateCoordinate,
		)
	}

	if p.ID >= g.nextID {
		g.nextID = p.ID + 1
	}
	g.insert(p)
	return nil
}

func (g *graph) insert(p domain.Point) {
	g.byID.Set(p)
	g.byCoord.Set(p)
	g.revision++
}

func (g *graph) RemovePoint(id domain.PointID) error {
	p, ok := g.Point(id)
	if !ok {
		return fmt.Errorf("remove point %d: %w", id, domain.ErrNotFound)
	}

	if tree := g.adj[id]; tree != nil {
		g.routes -= tree.Len()
		delete(g.adj, id)
	}
	for _, tree := range g.adj {
		if _, removed := tree.Delete(domain.Route{ToID: id}); removed {
			g.routes--
		}
	}

	g.byID.Delete(p)
	g.byCoord.Delete(p)
	g.revision++
	return nil
}

func (g *graph) Clear() {
	g.byID.Clear()
	g.byCoord.Clear()
	g.adj = make(map[domain.PointID]*btree.BTreeG[domain.Route])
	g.routes = 0
	g.revision++
}

func (g *graph) AddRoute(from, to domain.PointID, distance, speedLimit float64) error {
	if _, ok := g.Point(from); !ok {
		return fmt.Errorf("add route %d -> %d: origin: %w", from, to, domain.ErrNotFound)
	}
	if _, ok := g.Point(to); !ok {
		return fmt.Errorf("add route %d -> %d: destination: %w", from, to, domain.ErrNotFound)
	}
	if from == to {
		return fmt.Errorf("add route %d -> %d: endpoints must differ: %w", from, to, domain.ErrInvalidArgument)
	}

	tree := g.adj[from]
	if tree == nil {
		tree = btree.NewBTreeG[domain.Route](routeToLess)
		g.adj[from] = tree
	}

	r := domain.Route{FromID: from, ToID: to, Distance: distance, SpeedLimit: speedLimit}
	if _, replaced := tree.Set(r); !replaced {
		g.routes++
	}
	g.revision++
	return nil
}
