// Package montecarlo provides the sampling core for geometric PI estimation.
//
// Points are drawn uniformly from the square [0, radius) x [0, radius) and
// reduced to their distance from the origin. The fraction of distances that
// fall within the inscribed quarter circle approximates PI/4.
package montecarlo

import "math"

// Point is a sampled integer coordinate pair.
type Point struct {
	X int
	Y int
}

// Distance returns the Euclidean distance of p from the origin.
//
// Distance is pure and safe for unrestricted concurrent use.
func Distance(p Point) float64 {
	return math.Sqrt(float64(p.X*p.X + p.Y*p.Y))
}

// Circle classifies sample distances against a radius.
type Circle struct {
	Radius int
}

// IsInside reports whether a sample distance lies within the circle.
// Points exactly on the circumference count as inside.
func (c Circle) IsInside(distance float64) bool {
	return distance <= float64(c.Radius)
}

// Contains is shorthand for IsInside(Distance(p)).
func (c Circle) Contains(p Point) bool {
	return c.IsInside(Distance(p))
}
