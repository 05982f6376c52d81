// Package geom provides the 2D vector and affine-transform primitives
// shared by the stroke geometry pipeline: point codec, LOD simplifier,
// outline generators, and stamp computers all build on these types
// instead of each defining their own.
package geom

import "math"

// Point represents a 2D position in world space.
type Point struct {
	X, Y float64
}

// Pt is a convenience constructor for Point.
func Pt(x, y float64) Point {
	return Point{X: x, Y: y}
}

func (p Point) Add(q Point) Point { return Point{X: p.X + q.X, Y: p.Y + q.Y} }
func (p Point) Sub(q Point) Vec2  { return Vec2{X: p.X - q.X, Y: p.Y - q.Y} }
func (p Point) AddVec(v Vec2) Point {
	return Point{X: p.X + v.X, Y: p.Y + v.Y}
}
func (p Point) Mul(s float64) Point { return Point{X: p.X * s, Y: p.Y * s} }

// Distance returns the Euclidean distance between two points.
func (p Point) Distance(q Point) float64 {
	return p.Sub(q).Length()
}

// Lerp performs linear interpolation between p and q at parameter t.
func (p Point) Lerp(q Point, t float64) Point {
	return Point{X: p.X + (q.X-p.X)*t, Y: p.Y + (q.Y-p.Y)*t}
}

// Vec2 represents a 2D displacement (direction + magnitude), distinct
// from Point so curve and offset math reads unambiguously.
type Vec2 struct {
	X, Y float64
}

func V2(x, y float64) Vec2 { return Vec2{X: x, Y: y} }

func (v Vec2) Add(w Vec2) Vec2 { return Vec2{X: v.X + w.X, Y: v.Y + w.Y} }
func (v Vec2) Sub(w Vec2) Vec2 { return Vec2{X: v.X - w.X, Y: v.Y - w.Y} }
func (v Vec2) Scale(s float64) Vec2 { return Vec2{X: v.X * s, Y: v.Y * s} }
func (v Vec2) Neg() Vec2       { return Vec2{X: -v.X, Y: -v.Y} }
func (v Vec2) Dot(w Vec2) float64   { return v.X*w.X + v.Y*w.Y }

// Cross returns the z-component of the 3D cross product of v and w,
// treated as planar vectors. Its sign gives turn direction.
func (v Vec2) Cross(w Vec2) float64 { return v.X*w.Y - v.Y*w.X }

func (v Vec2) Length() float64 { return math.Sqrt(v.X*v.X + v.Y*v.Y) }
func (v Vec2) LengthSquared() float64 { return v.X*v.X + v.Y*v.Y }

// Perp returns v rotated 90 degrees counter-clockwise.
func (v Vec2) Perp() Vec2 { return Vec2{X: -v.Y, Y: v.X} }

// Normalize returns a unit vector in the same direction, or the zero
// vector if v is degenerate.
func (v Vec2) Normalize() Vec2 {
	l := v.Length()
	if l < 1e-10 {
		return Vec2{}
	}
	return Vec2{X: v.X / l, Y: v.Y / l}
}

func (v Vec2) Lerp(w Vec2, t float64) Vec2 {
	return Vec2{X: v.X + (w.X-v.X)*t, Y: v.Y + (w.Y-v.Y)*t}
}

func (v Vec2) ToPoint() Point { return Point{X: v.X, Y: v.Y} }

// Angle returns the angle of v in radians, in (-pi, pi].
func (v Vec2) Angle() float64 { return math.Atan2(v.Y, v.X) }

// Matrix is a 2D affine transform in row-major form:
//
//	x' = A*x + B*y + C
//	y' = D*x + E*y + F
type Matrix struct {
	A, B, C float64
	D, E, F float64
}

func Identity() Matrix {
	return Matrix{A: 1, B: 0, C: 0, D: 0, E: 1, F: 0}
}

func Translate(x, y float64) Matrix {
	return Matrix{A: 1, B: 0, C: x, D: 0, E: 1, F: y}
}

func Scale(x, y float64) Matrix {
	return Matrix{A: x, B: 0, C: 0, D: 0, E: y, F: 0}
}

func Rotate(angle float64) Matrix {
	cos, sin := math.Cos(angle), math.Sin(angle)
	return Matrix{A: cos, B: -sin, C: 0, D: sin, E: cos, F: 0}
}

// Multiply returns m composed with n as m*n (n applied first).
func (m Matrix) Multiply(n Matrix) Matrix {
	return Matrix{
		A: m.A*n.A + m.B*n.D,
		B: m.A*n.B + m.B*n.E,
		C: m.A*n.C + m.B*n.F + m.C,
		D: m.D*n.A + m.E*n.D,
		E: m.D*n.B + m.E*n.E,
		F: m.D*n.C + m.E*n.F + m.F,
	}
}

func (m Matrix) TransformPoint(p Point) Point {
	return Point{
		X: m.A*p.X + m.B*p.Y + m.C,
		Y: m.D*p.X + m.E*p.Y + m.F,
	}
}

func (m Matrix) TransformVec(v Vec2) Vec2 {
	return Vec2{X: m.A*v.X + m.B*v.Y, Y: m.D*v.X + m.E*v.Y}
}

// ScaleFactor returns an approximate uniform scale factor for the
// transform, used to keep stroke widths visually consistent under zoom.
func (m Matrix) ScaleFactor() float64 {
	sx := math.Hypot(m.A, m.D)
	sy := math.Hypot(m.B, m.E)
	return (sx + sy) / 2
}

// CanvasTuple returns the matrix in the canvas-style (a,b,c,d,e,f) tuple
// form used by C12's GetTransform contract.
func (m Matrix) CanvasTuple() (a, b, c, d, e, f float64) {
	return m.A, m.D, m.B, m.E, m.C, m.F
}

func Clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

func Clamp01(v float64) float64 { return Clamp(v, 0, 1) }
