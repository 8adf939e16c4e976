package services

import (
	"delivery-network-service/internal/adapters/memory"
	"delivery-network-service/internal/domain"
	"delivery-network-service/internal/ports"
	"testing"
)

type pointDef struct {
	x, y, speed float64
}

// buildNetwork inserts points through the mesh builder in the given order.
func buildNetwork(t *testing.T, defs ...pointDef) (*memory.GraphStore, []domain.Point) {
	t.Helper()

	store := memory.NewGraphStore()
	points := make([]domain.Point, 0, len(defs))
	for _, sp := range defs {
		err := store.Update(func(w ports.GraphWriter) error {
			p, _, err := InsertPoint(w, sp.x, sp.y, sp.speed)
			if err != nil {
				return err
			}
			points = append(points, p)
			return nil
		})
		if err != nil {
			t.Fatalf("insert (%v, %v): %v", sp.x, sp.y, err)
		}
	}
	return store, points
}

func view(t *testing.T, s ports.GraphStore, fn func(r ports.GraphReader)) {
	t.Helper()
	if err := s.View(func(r ports.GraphReader) error { fn(r); return nil }); err != nil {
		t.Fatalf("view: %v", err)
	}
}

func ids(points []domain.Point) []domain.PointID {
	out := make([]domain.PointID, 0, len(points))
	for _, p := range points {
		out = append(out, p.ID)
	}
	return out
}

func equalIDs(a, b []domain.PointID) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

func almostEqual(a, b float64) bool {
	return compareTime(a, b) == 0
}
