package services

import (
	"delivery-network-service/internal/domain"
	"delivery-network-service/internal/ports"
	"fmt"
)

// ShortestPath returns the minimum-time path from start to end.
//
// Among paths of equal time the one with fewer routes wins, then the one whose
// first hop from start has the lowest id, then the lowest predecessor id.
func ShortestPath(r ports.GraphReader, start, end domain.PointID) (*domain.PathResult, error) {
	startPoint, ok := r.Point(start)
	if !ok {
		return nil, fmt.Errorf("shortest path: start point %d: %w", start, domain.ErrNotFound)
	}
	if _, ok := r.Point(end); !ok {
		return nil, fmt.Errorf("shortest path: end point %d: %w", end, domain.ErrNotFound)
	}

	if start == end {
		return &domain.PathResult{Points: []domain.Point{startPoint}}, nil
	}

	labels, err := dijkstra(r, start, end)
	if err != nil {
		return nil, fmt.Errorf("shortest path %d -> %d: %w", start, end, err)
	}

	target, ok := labels[end]
	if !ok {
		return nil, fmt.Errorf("shortest path: %d is unreachable from %d: %w", end, start, domain.ErrNoPath)
	}

	// Walk predecessors back to the start, then reverse.
	ids := make([]domain.PointID, 0, target.hops+1)
	for current := end; ; {
		ids = append(ids, current)
		if current == start {
			break
		}
		current = labels[current].prev
	}

	points := make([]domain.Point, 0, len(ids))
	for i := len(ids) - 1; i >= 0; i-- {
		p, ok := r.Point(ids[i])
		if !ok {
			return nil, fmt.Errorf("shortest path: point %d on path vanished: %w", ids[i], domain.ErrInvariant)
		}
		points = append(points, p)
	}

	return &domain.PathResult{
		Points:        points,
		TotalTime:     target.time,
		TotalDistance: target.distance,
	}, nil
}
