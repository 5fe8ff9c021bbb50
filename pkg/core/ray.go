package core

import (
	"math"

	"seehuhn.de/go/geom/vec"
)

// Epsilon is the distance a scattered ray's origin is pushed off the surface
// along the normal, to keep it from re-hitting the surface it just left.
const Epsilon = 1e-4

// Ray represents a ray with an origin, a direction and a valid parametric
// interval (TMin, TMax]. Distances along the ray are measured in units of the
// direction's length, so the farthest valid point is Origin + Direction*TMax.
type Ray struct {
	Origin    vec.Vec2
	Direction vec.Vec2
	TMin      float64
	TMax      float64
}

// NewRay creates a new ray with the interval (0, +Inf]
func NewRay(origin, direction vec.Vec2) Ray {
	return Ray{Origin: origin, Direction: direction, TMin: 0, TMax: math.Inf(1)}
}

// At returns the point at parameter t along the ray
func (r Ray) At(t float64) vec.Vec2 {
	return r.Origin.Add(r.Direction.Mul(t))
}

// WithTMax returns a copy of the ray with its upper bound replaced
func (r Ray) WithTMax(tMax float64) Ray {
	r.TMax = tMax
	return r
}

// InRange reports whether t lies in the ray's valid interval
func (r Ray) InRange(t float64) bool {
	return t > r.TMin && t <= r.TMax
}

// SpawnRay creates a ray leaving a surface point in the given direction. The
// origin is offset by Epsilon along the normal, on the side that direction
// points to.
func SpawnRay(point, normal, direction vec.Vec2) Ray {
	offset := Normalize(normal).Mul(Epsilon)
	if direction.Dot(normal) < 0 {
		return NewRay(point.Sub(offset), direction)
	}
	return NewRay(point.Add(offset), direction)
}
