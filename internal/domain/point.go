package domain

import "math"

// PointID identifies a delivery point. Ids are assigned by the graph store at
// creation time and are never derived from coordinates.
type PointID int64

// Represents a delivery location on the plane.
type Point struct {
	ID PointID
	X  float64
	Y  float64
}

// SameCoordinates reports whether p sits exactly on (x, y).
func (p Point) SameCoordinates(x, y float64) bool {
	return p.X == x && p.Y == y
}

// Finite reports whether every value is a usable real number.
func Finite(values ...float64) bool {
	for _, v := range values {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return false
		}
	}
	return true
}
