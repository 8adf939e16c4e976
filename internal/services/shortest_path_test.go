package services

import (
	"delivery-network-service/internal/domain"
	"delivery-network-service/internal/ports"
	"errors"
	"math"
	"testing"

	"gonum.org/v1/gonum/graph/path"
	"gonum.org/v1/gonum/graph/simple"
)

func TestShortestPathDirectRoute(t *testing.T) {
	store, pts := buildNetwork(t,
		pointDef{0, 0, 1},
		pointDef{3, 0, 1},
		pointDef{3, 4, 1},
	)
	a, c := pts[0], pts[2]

	view(t, store, func(r ports.GraphReader) {
		res, err := ShortestPath(r, a.ID, c.ID)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		want := []domain.PointID{a.ID, c.ID}
		if !equalIDs(res.IDs(), want) {
			t.Fatalf("path = %v, want %v", res.IDs(), want)
		}
		if res.TotalTime != 5 {
			t.Fatalf("time = %v, want 5", res.TotalTime)
		}
		if res.TotalDistance != 5 {
			t.Fatalf("distance = %v, want 5", res.TotalDistance)
		}
	})
}

func TestShortestPathTakesFasterRelay(t *testing.T) {
	// E is slow to reach directly; R is inserted later with a fast limit.
	store, pts := buildNetwork(t,
		pointDef{0, 0, 1},
		pointDef{2, 0, 0.1},
		pointDef{1, 1, 10},
	)
	a, e, r := pts[0], pts[1], pts[2]

	view(t, store, func(rd ports.GraphReader) {
		res, err := ShortestPath(rd, a.ID, e.ID)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		want := []domain.PointID{a.ID, r.ID, e.ID}
		if !equalIDs(res.IDs(), want) {
			t.Fatalf("path = %v, want %v", res.IDs(), want)
		}
		if !almostEqual(res.TotalTime, 2*math.Sqrt2/10) {
			t.Fatalf("time = %v, want %v", res.TotalTime, 2*math.Sqrt2/10)
		}
	})
}

func TestShortestPathTakesRelayFasterByLessThanNanosecond(t *testing.T) {
	// A->C takes 1e-9; A->B->C takes about 5.005e-10 thanks to B's fast limit.
	store, pts := buildNetwork(t,
		pointDef{0, 0, 1},
		pointDef{5e-10, 0, 1000},
		pointDef{1e-9, 0, 1},
	)
	a, b, c := pts[0], pts[1], pts[2]

	view(t, store, func(r ports.GraphReader) {
		res, err := ShortestPath(r, a.ID, c.ID)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		want := []domain.PointID{a.ID, b.ID, c.ID}
		if !equalIDs(res.IDs(), want) {
			t.Fatalf("path = %v, want %v", res.IDs(), want)
		}
		if res.TotalTime >= 1e-9 {
			t.Fatalf("time = %v, want less than the direct 1e-9", res.TotalTime)
		}
	})
}

func TestShortestPathPrefersFewerRoutesOnTie(t *testing.T) {
	// A->B->C and A->C both take 2.
	store, pts := buildNetwork(t,
		pointDef{0, 0, 1},
		pointDef{1, 0, 1},
		pointDef{2, 0, 1},
	)

	view(t, store, func(r ports.GraphReader) {
		res, err := ShortestPath(r, pts[0].ID, pts[2].ID)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		want := []domain.PointID{pts[0].ID, pts[2].ID}
		if !equalIDs(res.IDs(), want) {
			t.Fatalf("path = %v, want %v", res.IDs(), want)
		}
	})
}

func TestShortestPathPrefersLowestFirstHopOnTie(t *testing.T) {
	// Two mirror-image relays give identical times and hop counts.
	store, pts := buildNetwork(t,
		pointDef{0, 0, 1},
		pointDef{2, 0, 0.1},
		pointDef{1, 1, 10},
		pointDef{1, -1, 10},
	)
	a, e, r1 := pts[0], pts[1], pts[2]

	view(t, store, func(r ports.GraphReader) {
		for i := 0; i < 5; i++ {
			res, err := ShortestPath(r, a.ID, e.ID)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			want := []domain.PointID{a.ID, r1.ID, e.ID}
			if !equalIDs(res.IDs(), want) {
				t.Fatalf("run %d: path = %v, want %v", i, res.IDs(), want)
			}
		}
	})
}

func TestShortestPathUnknownPoint(t *testing.T) {
	store, pts := buildNetwork(t, pointDef{0, 0, 1}, pointDef{1, 0, 1})

	view(t, store, func(r ports.GraphReader) {
		if _, err := ShortestPath(r, 999, pts[0].ID); !errors.Is(err, domain.ErrNotFound) {
			t.Fatalf("missing start err = %v, want ErrNotFound", err)
		}
		if _, err := ShortestPath(r, pts[0].ID, 999); !errors.Is(err, domain.ErrNotFound) {
			t.Fatalf("missing end err = %v, want ErrNotFound", err)
		}
	})
}

func TestShortestPathSamePoint(t *testing.T) {
	store, pts := buildNetwork(t, pointDef{4, 4, 1})

	view(t, store, func(r ports.GraphReader) {
		res, err := ShortestPath(r, pts[0].ID, pts[0].ID)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if len(res.Points) != 1 || res.TotalTime != 0 {
			t.Fatalf("result = %+v, want single point with zero time", res)
		}
	})
}

func TestShortestPathNoPath(t *testing.T) {
	store, _ := buildNetwork(t)

	var a, b domain.Point
	_ = store.Update(func(w ports.GraphWriter) error {
		a, _ = w.AddPoint(0, 0)
		b, _ = w.AddPoint(1, 0)
		return nil
	})

	view(t, store, func(r ports.GraphReader) {
		if _, err := ShortestPath(r, a.ID, b.ID); !errors.Is(err, domain.ErrNoPath) {
			t.Fatalf("err = %v, want ErrNoPath", err)
		}
	})
}

func TestShortestPathMatchesReferenceDijkstra(t *testing.T) {
	store, pts := buildNetwork(t,
		pointDef{0, 0, 3},
		pointDef{4, 1, 0.5},
		pointDef{-2, 3, 7},
		pointDef{6, -4, 1},
		pointDef{1, 8, 12},
		pointDef{-5, -5, 0.2},
		pointDef{3, 3, 2},
		pointDef{9, 9, 5},
	)

	view(t, store, func(r ports.GraphReader) {
		ref := simple.NewWeightedDirectedGraph(0, math.Inf(1))
		for _, route := range r.Routes() {
			ref.SetWeightedEdge(ref.NewWeightedEdge(
				simple.Node(route.FromID), simple.Node(route.ToID), route.Time(),
			))
		}

		for _, a := range pts {
			shortest := path.DijkstraFrom(simple.Node(a.ID), ref)
			for _, b := range pts {
				if a.ID == b.ID {
					continue
				}

				res, err := ShortestPath(r, a.ID, b.ID)
				if err != nil {
					t.Fatalf("%d -> %d: %v", a.ID, b.ID, err)
				}

				want := shortest.WeightTo(int64(b.ID))
				if math.Abs(res.TotalTime-want) > 1e-6 {
					t.Fatalf("%d -> %d time = %v, reference = %v", a.ID, b.ID, res.TotalTime, want)
				}

				// Every consecutive pair is a live route and the times add up.
				var sum float64
				for i := 1; i < len(res.Points); i++ {
					route, ok := r.Route(res.Points[i-1].ID, res.Points[i].ID)
					if !ok {
						t.Fatalf("path %v uses missing route %d -> %d", res.IDs(), res.Points[i-1].ID, res.Points[i].ID)
					}
					sum += route.Time()
				}
				if !almostEqual(sum, res.TotalTime) {
					t.Fatalf("path %v: edge sum %v != reported %v", res.IDs(), sum, res.TotalTime)
				}
				if res.Points[0].ID != a.ID || res.Points[len(res.Points)-1].ID != b.ID {
					t.Fatalf("path %v does not run %d -> %d", res.IDs(), a.ID, b.ID)
				}
			}
		}
	})
}
