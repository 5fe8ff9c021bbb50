package core

import (
	"math"

	"seehuhn.de/go/geom/vec"
)

// Vec creates a new 2D vector
func Vec(x, y float64) vec.Vec2 {
	return vec.Vec2{X: x, Y: y}
}

// Normalize returns a unit vector in the same direction as v.
// The zero vector is returned unchanged.
func Normalize(v vec.Vec2) vec.Vec2 {
	length := v.Length()
	if length == 0 {
		return v
	}
	return v.Mul(1 / length)
}

// Perp returns v rotated by 90 degrees counter-clockwise
func Perp(v vec.Vec2) vec.Vec2 {
	return vec.Vec2{X: -v.Y, Y: v.X}
}

// Cross returns the z component of the 3D cross product of a and b
func Cross(a, b vec.Vec2) float64 {
	return a.X*b.Y - a.Y*b.X
}

// Reflect reflects v off a surface with unit normal n
func Reflect(v, n vec.Vec2) vec.Vec2 {
	// r = v - 2*dot(v,n)*n
	return v.Sub(n.Mul(2 * v.Dot(n)))
}

// Axis returns the component of v along axis (0=X, 1=Y)
func Axis(v vec.Vec2, axis int) float64 {
	if axis == 0 {
		return v.X
	}
	return v.Y
}

// IsFinite reports whether both components of v are finite
func IsFinite(v vec.Vec2) bool {
	return !math.IsNaN(v.X) && !math.IsInf(v.X, 0) &&
		!math.IsNaN(v.Y) && !math.IsInf(v.Y, 0)
}

// DirectionFromAngle returns the unit vector at angle theta (radians) from the +X axis
func DirectionFromAngle(theta float64) vec.Vec2 {
	sin, cos := math.Sincos(theta)
	return vec.Vec2{X: cos, Y: sin}
}
