package domain

// Represents the minimum-time path between two points.
// Points runs from the start to the end inclusive.
type PathResult struct {
	Points        []Point
	TotalTime     float64
	TotalDistance float64
}

// IDs returns the path as a sequence of point ids.
func (p *PathResult) IDs() []PointID {
	ids := make([]PointID, 0, len(p.Points))
	for _, pt := range p.Points {
		ids = append(ids, pt.ID)
	}
	return ids
}

// Represents a single stop of a time ordering.
// MinTime is the true minimal travel time from the start point, while LegTime
// and LegDistance describe the direct route from the previous stop.
type OrderStop struct {
	Point       Point
	MinTime     float64
	LegTime     float64
	LegDistance float64
}

// Represents the visiting order produced by a time ordering query.
// It is a nearest-time ordering, not an optimised tour. Totals are the sums
// over the direct legs actually traversed between consecutive stops.
type OrderResult struct {
	Start         Point
	Stops         []OrderStop
	TotalTime     float64
	TotalDistance float64
}

// VisitOrder returns the ids of the stops in visiting order, excluding the start.
func (o *OrderResult) VisitOrder() []PointID {
	ids := make([]PointID, 0, len(o.Stops))
	for _, s := range o.Stops {
		ids = append(ids, s.Point.ID)
	}
	return ids
}
