package ports

import "delivery-network-service/internal/domain"

// Read access to a consistent snapshot of the delivery network.
type GraphReader interface {
	// Return the live point with the given id.
	Point(id domain.PointID) (domain.Point, bool)
	// Return every live point. Order is ascending id but callers must not rely on it.
	ListPoints() []domain.Point
	// Return all outgoing edges of a point, ascending by destination id.
	Neighbors(id domain.PointID) ([]domain.Edge, error)
	// Return the directed route between two points.
	Route(from, to domain.PointID) (domain.Route, bool)
	// Return every live route.
	Routes() []domain.Route
	PointCount() int
	RouteCount() int
	// Return a counter that changes on every mutation.
	Revision() uint64
}

// Mutation primitives of the graph store. It knows nothing about routing:
// keeping the mesh complete is the caller's job.
type GraphWriter interface {
	GraphReader
	// Create a point with a fresh id. Fails with ErrDuplicateCoordinate.
	AddPoint(x, y float64) (domain.Point, error)
	// Insert a point that already has an id, e.g. when restoring a snapshot.
	PutPoint(p domain.Point) error
	// Remove a point together with every route touching it.
	RemovePoint(id domain.PointID) error
	// Remove all points and routes.
	Clear()
	// Create or overwrite the directed route from -> to.
	AddRoute(from, to domain.PointID, distance, speedLimit float64) error
}

// Port: the authoritative in-memory network. Update callbacks run under an
// exclusive lock, View callbacks under a shared one.
type GraphStore interface {
	View(fn func(r GraphReader) error) error
	Update(fn func(w GraphWriter) error) error
}
