package common

import (
	"errors"
	"fmt"
	"math"
	"math/rand"
)

// ErrNoIntersection is returned when two circles cannot intersect:
// they are disjoint, one contains the other, or their centers coincide.
var ErrNoIntersection = errors.New("circles do not intersect")

// Point represents a position in the 2D simulation area.
type Point struct {
	X, Y float64
}

// NewRandomPoint creates a point with uniform random coordinates in [0, areaSize).
func NewRandomPoint(rng *rand.Rand, areaSize float64) Point {
	return Point{
		X: rng.Float64() * areaSize,
		Y: rng.Float64() * areaSize,
	}
}

// Distance calculates the Euclidean distance to another point.
func (p Point) Distance(other Point) float64 {
	dx := p.X - other.X
	dy := p.Y - other.Y
	return math.Sqrt(dx*dx + dy*dy)
}

// Add adds another point to this point component-wise.
func (p Point) Add(other Point) Point {
	return Point{X: p.X + other.X, Y: p.Y + other.Y}
}

// Sub subtracts another point from this point component-wise.
func (p Point) Sub(other Point) Point {
	return Point{X: p.X - other.X, Y: p.Y - other.Y}
}

// Scale multiplies the point by a scalar value.
func (p Point) Scale(scalar float64) Point {
	return Point{X: p.X * scalar, Y: p.Y * scalar}
}

// Midpoint returns the arithmetic midpoint between this point and another.
func (p Point) Midpoint(other Point) Point {
	return p.Add(other).Scale(0.5)
}

// String returns a string representation with limited precision for cleaner output.
func (p Point) String() string {
	return fmt.Sprintf("(%.3f, %.3f)", p.X, p.Y)
}

// CircleIntersection computes the two intersection points of the circle
// centered at p1 with radius r1 and the circle centered at p2 with radius r2.
// The two results coincide when the circles are tangent.
//
// Returns ErrNoIntersection when the circles are too far apart (d > r1+r2),
// one contains the other (d < |r1-r2|), or the centers coincide (d == 0).
func CircleIntersection(p1 Point, r1 float64, p2 Point, r2 float64) (Point, Point, error) {
	d := p1.Distance(p2)
	if d > r1+r2 || d < math.Abs(r1-r2) || d == 0 {
		return Point{}, Point{}, ErrNoIntersection
	}

	a := (r1*r1 - r2*r2 + d*d) / (2 * d)
	// Clamp to guard against small negative values from floating noise.
	h := math.Sqrt(math.Max(0, r1*r1-a*a))

	dir := p2.Sub(p1).Scale(1 / d)
	mid := p1.Add(dir.Scale(a))
	offset := Point{X: -dir.Y, Y: dir.X}.Scale(h)

	return mid.Add(offset), mid.Sub(offset), nil
}
