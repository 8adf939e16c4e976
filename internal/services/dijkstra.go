package services

import (
	"container/heap"
	"delivery-network-service/internal/domain"
	"delivery-network-service/internal/ports"
	"fmt"
	"math"
)

// Path times whose relative difference is within timeTolerance are treated as
// equal, so equal-cost paths summed in a different order still tie. The bound
// is relative so that short or fast routes are never merged with slower ones.
const timeTolerance = 1e-12

func compareTime(a, b float64) int {
	if a == b || math.Abs(a-b) <= timeTolerance*math.Max(math.Abs(a), math.Abs(b)) {
		return 0
	}
	if a < b {
		return -1
	}
	return 1
}

func compareID(a, b domain.PointID) int {
	if a < b {
		return -1
	}
	if a > b {
		return 1
	}
	return 0
}

// label is the best known way to reach a point.
// Labels order by time, then hop count, then the first hop taken from the
// start, then the predecessor. All four are deterministic for a fixed snapshot.
type label struct {
	time     float64
	distance float64
	hops     int
	first    domain.PointID
	prev     domain.PointID
}

func (l label) compare(o label) int {
	if c := compareTime(l.time, o.time); c != 0 {
		return c
	}
	if l.hops != o.hops {
		if l.hops < o.hops {
			return -1
		}
		return 1
	}
	if c := compareID(l.first, o.first); c != 0 {
		return c
	}
	return compareID(l.prev, o.prev)
}

type pqItem struct {
	id    domain.PointID
	label label
}

type priorityQueue []*pqItem

func (pq priorityQueue) Len() int { return len(pq) }
func (pq priorityQueue) Less(i, j int) bool {
	if c := pq[i].label.compare(pq[j].label); c != 0 {
		return c < 0
	}
	return pq[i].id < pq[j].id
}
func (pq priorityQueue) Swap(i, j int) { pq[i], pq[j] = pq[j], pq[i] }

func (pq *priorityQueue) Push(x any) {
	*pq = append(*pq, x.(*pqItem))
}

func (pq *priorityQueue) Pop() any {
	old := *pq
	n := len(old)
	item := old[n-1]
	*pq = old[:n-1]
	return item
}

// dijkstra settles points in order of their label starting from start.
// When stop is non-zero the search ends as soon as stop is settled.
// The returned map holds final labels for settled points only.
func dijkstra(r ports.GraphReader, start, stop domain.PointID) (map[domain.PointID]label, error) {
	settled := make(map[domain.PointID]label)
	best := map[domain.PointID]label{start: {}}

	pq := &priorityQueue{}
	heap.Init(pq)
	heap.Push(pq, &pqItem{id: start})

	for pq.Len() > 0 {
		item := heap.Pop(pq).(*pqItem)
		current := item.id
		if _, done := settled[current]; done {
			continue
		}
		cur := item.label
		settled[current] = cur

		if stop != 0 && current == stop {
			break
		}

		edges, err := r.Neighbors(current)
		if err != nil {
			return nil, fmt.Errorf("dijkstra: settled point %d vanished: %w: %w", current, domain.ErrInvariant, err)
		}

		for _, e := range edges {
			if _, done := settled[e.ToID]; done {
				continue
			}
			if _, ok := r.Point(e.ToID); !ok {
				return nil, fmt.Errorf("dijkstra: route %d -> %d has no destination: %w", current, e.ToID, domain.ErrInvariant)
			}

			first := cur.first
			if current == start {
				first = e.ToID
			}
			cand := label{
				time:     cur.time + e.Time,
				distance: cur.distance + e.Distance,
				hops:     cur.hops + 1,
				first:    first,
				prev:     current,
			}

			if old, ok := best[e.ToID]; !ok || cand.compare(old) < 0 {
				best[e.ToID] = cand
				heap.Push(pq, &pqItem{id: e.ToID, label: cand})
			}
		}
	}

	return settled, nil
}
