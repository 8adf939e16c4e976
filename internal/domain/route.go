package domain

// Represents a directed connection between two delivery points.
// Distance is fixed when the route is created; points never move, so it is
// never recomputed. Travel time is always derived from Distance and SpeedLimit.
type Route struct {
	FromID     PointID
	ToID       PointID
	Distance   float64
	SpeedLimit float64
}

// Time is the edge weight used by every routing query.
func (r Route) Time() float64 {
	return r.Distance / r.SpeedLimit
}

// Edge is an outgoing route as seen from its origin.
type Edge struct {
	ToID     PointID
	Time     float64
	Distance float64
}

// Edge returns the route as an outgoing edge of FromID.
func (r Route) Edge() Edge {
	return Edge{ToID: r.ToID, Time: r.Time(), Distance: r.Distance}
}
