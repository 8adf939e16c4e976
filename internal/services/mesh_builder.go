package services

import (
	"delivery-network-service/internal/domain"
	"delivery-network-service/internal/ports"
	"errors"
	"fmt"

	"gonum.org/v1/gonum/spatial/r2"
)

// InsertPoint adds a point and connects it to every existing point.
//
// One caller-supplied speed limit governs both directions of every route
// touching the new point; routes between older points are left untouched.
// Must run inside a single GraphStore.Update so no reader sees the point
// without its full set of routes.
func InsertPoint(
	w ports.GraphWriter,
	x, y, speedLimit float64,
) (domain.Point, []domain.Route, error) {
	if !domain.Finite(x, y) {
		return domain.Point{}, nil, fmt.Errorf("insert point: coordinates must be finite: %w", domain.ErrInvalidArgument)
	}
	if !domain.Finite(speedLimit) || speedLimit <= 0 {
		return domain.Point{}, nil, fmt.Errorf(
			"insert point: speed_limit must be a positive finite number, got %v: %w",
			speedLimit, domain.ErrInvalidArgument,
		)
	}

	others := w.ListPoints()

	p, err := w.AddPoint(x, y)
	if err != nil {
		return domain.Point{}, nil, err
	}

	// Distances first so a bad distance fails before any route exists.
	origin := r2.Vec{X: x, Y: y}
	distances := make([]float64, len(others))
	for i, o := range others {
		d := r2.Norm(r2.Sub(origin, r2.Vec{X: o.X, Y: o.Y}))
		switch {
		case d == 0:
			return domain.Point{}, nil, undoInsert(w, p.ID, fmt.Errorf(
				"insert point: (%v, %v) coincides with point %d: %w",
				x, y, o.ID, domain.ErrDuplicateCoordinate,
			))
		case !domain.Finite(d, d/speedLimit):
			return domain.Point{}, nil, undoInsert(w, p.ID, fmt.Errorf(
				"insert point: route to point %d overflows (distance %v, speed_limit %v): %w",
				o.ID, d, speedLimit, domain.ErrInvalidArgument,
			))
		}
		distances[i] = d
	}

	routes := make([]domain.Route, 0, 2*len(others))
	for i, o := range others {
		out := domain.Route{FromID: p.ID, ToID: o.ID, Distance: distances[i], SpeedLimit: speedLimit}
		in := domain.Route{FromID: o.ID, ToID: p.ID, Distance: distances[i], SpeedLimit: speedLimit}

		for _, r := range [2]domain.Route{out, in} {
			// Both endpoints are live under the write lock, so this cannot fail
			// unless the store itself is broken.
			if err := w.AddRoute(r.FromID, r.ToID, r.Distance, r.SpeedLimit); err != nil {
				return domain.Point{}, nil, undoInsert(w, p.ID, fmt.Errorf(
					"insert point: add route %d -> %d: %w: %w",
					r.FromID, r.ToID, domain.ErrInvariant, err,
				))
			}
			routes = append(routes, r)
		}
	}

	return p, routes, nil
}

// undoInsert removes a half-inserted point and returns cause. A failed undo
// leaves the store inconsistent and is reported as an invariant violation.
func undoInsert(w ports.GraphWriter, id domain.PointID, cause error) error {
	if err := w.RemovePoint(id); err != nil {
		return fmt.Errorf("insert point: undo point %d: %w: %w", id, domain.ErrInvariant, errors.Join(cause, err))
	}
	return cause
}

// DeletePoint removes a point and every route touching it.
func DeletePoint(w ports.GraphWriter, id domain.PointID) error {
	if err := w.RemovePoint(id); err != nil {
		return fmt.Errorf("delete point: %w", err)
	}
	return nil
}

// DeleteAll removes every point and route.
func DeleteAll(w ports.GraphWriter) {
	w.Clear()
}

// CheckMesh verifies that every ordered pair of live points has a route.
func CheckMesh(r ports.GraphReader) error {
	points := r.ListPoints()
	for _, a := range points {
		for _, b := range points {
			if a.ID == b.ID {
				continue
			}
			if _, ok := r.Route(a.ID, b.ID); !ok {
				return fmt.Errorf("check mesh: missing route %d -> %d: %w", a.ID, b.ID, domain.ErrInvariant)
			}
		}
	}
	return nil
}
