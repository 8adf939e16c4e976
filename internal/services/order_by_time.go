package services

import (
	"cmp"
	"delivery-network-service/internal/domain"
	"delivery-network-service/internal/ports"
	"fmt"
	"maps"
	"slices"
)

// OrderByTime ranks every other point by its minimal travel time from start.
//
// A single Dijkstra run gives each point's minimal time; points are visited in
// ascending order of it, ties broken by ascending id. The route returned is the
// chain of direct routes between consecutive stops, not a re-optimised tour,
// and the totals are summed over those direct legs.
// Points that cannot be reached at all are left out.
func OrderByTime(r ports.GraphReader, start domain.PointID) (*domain.OrderResult, error) {
	startPoint, ok := r.Point(start)
	if !ok {
		return nil, fmt.Errorf("order by time: start point %d: %w", start, domain.ErrNotFound)
	}

	labels, err := dijkstra(r, start, 0)
	if err != nil {
		return nil, fmt.Errorf("order by time from %d: %w", start, err)
	}

	ids := slices.Sorted(maps.Keys(labels))
	stops := make([]domain.OrderStop, 0, len(ids))
	for _, id := range ids {
		if id == start {
			continue
		}
		p, ok := r.Point(id)
		if !ok {
			return nil, fmt.Errorf("order by time: point %d vanished: %w", id, domain.ErrInvariant)
		}
		stops = append(stops, domain.OrderStop{Point: p, MinTime: labels[id].time})
	}

	// Exact times, then id. A tolerant comparison is not transitive.
	slices.SortStableFunc(stops, func(a, b domain.OrderStop) int {
		if c := cmp.Compare(a.MinTime, b.MinTime); c != 0 {
			return c
		}
		return cmp.Compare(a.Point.ID, b.Point.ID)
	})

	res := &domain.OrderResult{Start: startPoint, Stops: stops}

	prev := start
	for i := range res.Stops {
		next := res.Stops[i].Point.ID
		route, ok := r.Route(prev, next)
		if !ok {
			return nil, fmt.Errorf("order by time: no direct route %d -> %d: %w", prev, next, domain.ErrInvariant)
		}

		res.Stops[i].LegTime = route.Time()
		res.Stops[i].LegDistance = route.Distance
		res.TotalTime += route.Time()
		res.TotalDistance += route.Distance
		prev = next
	}

	return res, nil
}
