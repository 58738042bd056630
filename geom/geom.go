// Package geom provides the small amount of plane geometry that diagram
// draw callbacks need: a 2D vector, line intersection and normalized
// parallel/perpendicular vectors.
//
// Degenerate inputs are handled two ways. Intersect of parallel lines is
// not an error: it returns a vector whose components are NaN, and callers
// check IsFinite. Normalizing a zero-length vector is a caller bug and
// panics.
package geom

import (
	"fmt"
	"math"
)

// Vec is a 2D point or vector.
type Vec struct {
	X, Y float64
}

// V is shorthand for Vec{x, y}.
func V(x, y float64) Vec {
	return Vec{X: x, Y: y}
}

// NaN returns the vector used to signal "no such point".
func NaN() Vec {
	return Vec{X: math.NaN(), Y: math.NaN()}
}

func (v Vec) Add(w Vec) Vec {
	return Vec{X: v.X + w.X, Y: v.Y + w.Y}
}

func (v Vec) Sub(w Vec) Vec {
	return Vec{X: v.X - w.X, Y: v.Y - w.Y}
}

// Mul scales v by s.
func (v Vec) Mul(s float64) Vec {
	return Vec{X: v.X * s, Y: v.Y * s}
}

// Scale multiplies each component independently.
func (v Vec) Scale(sx, sy float64) Vec {
	return Vec{X: v.X * sx, Y: v.Y * sy}
}

func (v Vec) Dot(w Vec) float64 {
	return v.X*w.X + v.Y*w.Y
}

// Len returns the Euclidean length of v.
func (v Vec) Len() float64 {
	return math.Hypot(v.X, v.Y)
}

// Dist returns the Euclidean distance between v and w.
func (v Vec) Dist(w Vec) float64 {
	return math.Hypot(v.X-w.X, v.Y-w.Y)
}

// Lerp interpolates between v (t=0) and w (t=1).
func (v Vec) Lerp(w Vec, t float64) Vec {
	return Vec{X: v.X + (w.X-v.X)*t, Y: v.Y + (w.Y-v.Y)*t}
}

// IsFinite reports whether both components are neither NaN nor infinite.
func (v Vec) IsFinite() bool {
	return !math.IsNaN(v.X) && !math.IsInf(v.X, 0) && !math.IsNaN(v.Y) && !math.IsInf(v.Y, 0)
}

// Approx reports whether v and w differ by at most eps on each axis.
func (v Vec) Approx(w Vec, eps float64) bool {
	return math.Abs(v.X-w.X) <= eps && math.Abs(v.Y-w.Y) <= eps
}

func (v Vec) String() string {
	return fmt.Sprintf("(%g, %g)", v.X, v.Y)
}

// Intersect returns the point where the line through a1,a2 crosses the
// line through b1,b2. It solves
//
//	a1 + α(a2-a1) = b1 + β(b2-b1)
//
// and returns the point at α along the first line. Parallel (or
// coincident) lines have no unique solution and yield NaN().
func Intersect(a1, a2, b1, b2 Vec) Vec {
	da := a2.Sub(a1)
	db := b2.Sub(b1)
	denom := db.Y*da.X - db.X*da.Y
	if denom == 0 {
		return NaN()
	}
	num := db.Y*(b1.X-a1.X) - db.X*(b1.Y-a1.Y)
	return a1.Add(da.Mul(num / denom))
}

// NormalizedParallel returns the vector colinear with v, pointing the same
// way, with the given length. v must not be the zero vector.
func NormalizedParallel(v Vec, length float64) Vec {
	s := unitScale(v, length)
	return Vec{X: v.X * s, Y: v.Y * s}
}

// NormalizedPerpendicular returns (v.Y, -v.X) scaled to the given length:
// v rotated a quarter turn clockwise when y grows downward. v must not be
// the zero vector.
func NormalizedPerpendicular(v Vec, length float64) Vec {
	s := unitScale(v, length)
	return Vec{X: v.Y * s, Y: -v.X * s}
}

func unitScale(v Vec, length float64) float64 {
	n := v.Len()
	if n == 0 {
		panic("geom: cannot normalize a zero-length vector")
	}
	return length / n
}

// ExtendLine returns the endpoints of a segment on the line through a and
// b that extends reach units from a in both directions. a and b must be
// distinct.
func ExtendLine(a, b Vec, reach float64) (Vec, Vec) {
	ab := b.Sub(a)
	n := ab.Len()
	if n == 0 {
		panic("geom: cannot extend a line through coincident points")
	}
	k := reach / n
	return a.Sub(ab.Mul(k)), a.Add(ab.Mul(k))
}
