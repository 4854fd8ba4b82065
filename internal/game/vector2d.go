package game

import "math"

// Vec2 is a point or displacement on the table, in table units.
type Vec2 struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

func (v Vec2) Magnitude() float64 {
	return math.Hypot(v.X, v.Y)
}

// between reports whether lo <= n <= hi.
func between(n, lo, hi float64) bool {
	return n >= lo && n <= hi
}

// clamp limits n to [lo, hi].
func clamp(n, lo, hi float64) float64 {
	return math.Min(math.Max(n, lo), hi)
}
