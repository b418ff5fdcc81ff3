package ifs

import "fmt"

// Point is a position in the plane.
type Point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// String formats the point as "x,y", the same shape as a point-file line.
func (p Point) String() string {
	return fmt.Sprintf("%g,%g", p.X, p.Y)
}

// AffineMap is a 2-D affine transformation:
//
//	x' = A·x + B·y + E
//	y' = C·x + D·y + F
type AffineMap struct {
	A, B, C, D, E, F float64
}

// NewAffineMap builds a map from coefficients in (a, b, c, d, e, f) order.
func NewAffineMap(a, b, c, d, e, f float64) AffineMap {
	return AffineMap{A: a, B: b, C: c, D: d, E: e, F: f}
}

// Apply maps p to its image.
func (m AffineMap) Apply(p Point) Point {
	return Point{
		X: m.A*p.X + m.B*p.Y + m.E,
		Y: m.C*p.X + m.D*p.Y + m.F,
	}
}

// Coefficients returns the six coefficients in (a, b, c, d, e, f) order.
func (m AffineMap) Coefficients() [6]float64 {
	return [6]float64{m.A, m.B, m.C, m.D, m.E, m.F}
}
