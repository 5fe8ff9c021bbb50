package core

import (
	"fmt"
	"math"

	"seehuhn.de/go/geom/rect"
	"seehuhn.de/go/geom/vec"
)

// AABB represents an axis-aligned bounding box. The embedded rectangle's
// lower-left corner (LLx, LLy) is the minimum and its upper-right corner
// (URx, URy) the maximum. Zero-area boxes are valid.
type AABB struct {
	rect.Rect
}

// NewAABB creates a new AABB from min and max points
func NewAABB(min, max vec.Vec2) AABB {
	return AABB{rect.Rect{LLx: min.X, LLy: min.Y, URx: max.X, URy: max.Y}}
}

// NewAABBFromPoints creates an AABB that bounds all given points
func NewAABBFromPoints(points ...vec.Vec2) AABB {
	if len(points) == 0 {
		return AABB{}
	}

	min := points[0]
	max := points[0]

	for _, point := range points[1:] {
		min.X = math.Min(min.X, point.X)
		min.Y = math.Min(min.Y, point.Y)
		max.X = math.Max(max.X, point.X)
		max.Y = math.Max(max.Y, point.Y)
	}

	return NewAABB(min, max)
}

// Min returns the minimum corner
func (b AABB) Min() vec.Vec2 {
	return vec.Vec2{X: b.LLx, Y: b.LLy}
}

// Max returns the maximum corner
func (b AABB) Max() vec.Vec2 {
	return vec.Vec2{X: b.URx, Y: b.URy}
}

// MinAxis returns the minimum coordinate along axis (0=X, 1=Y)
func (b AABB) MinAxis(axis int) float64 {
	if axis == 0 {
		return b.LLx
	}
	return b.LLy
}

// MaxAxis returns the maximum coordinate along axis (0=X, 1=Y)
func (b AABB) MaxAxis(axis int) float64 {
	if axis == 0 {
		return b.URx
	}
	return b.URy
}

// IsValid returns true if this is a valid AABB (min <= max for all axes, no NaN)
func (b AABB) IsValid() bool {
	return b.LLx <= b.URx && b.LLy <= b.URy
}

// Validate returns an error wrapping ErrInvalidBounds if the box is not valid
func (b AABB) Validate() error {
	if !b.IsValid() {
		return fmt.Errorf("%w: min (%g, %g) max (%g, %g)", ErrInvalidBounds, b.LLx, b.LLy, b.URx, b.URy)
	}
	return nil
}

// Union returns an AABB that bounds both this AABB and another
func (b AABB) Union(other AABB) AABB {
	return AABB{rect.Rect{
		LLx: math.Min(b.LLx, other.LLx),
		LLy: math.Min(b.LLy, other.LLy),
		URx: math.Max(b.URx, other.URx),
		URy: math.Max(b.URy, other.URy),
	}}
}

// Center returns the center point of the AABB
func (b AABB) Center() vec.Vec2 {
	return vec.Vec2{X: (b.LLx + b.URx) * 0.5, Y: (b.LLy + b.URy) * 0.5}
}

// Size returns the extent of the AABB along each axis
func (b AABB) Size() vec.Vec2 {
	return vec.Vec2{X: b.URx - b.LLx, Y: b.URy - b.LLy}
}

// LongestAxis returns the axis (0=X, 1=Y) with the longest extent.
// Ties go to X.
func (b AABB) LongestAxis() int {
	size := b.Size()
	if size.Y > size.X {
		return 1
	}
	return 0
}

// Expand returns an AABB expanded by the given amount in all directions
func (b AABB) Expand(amount float64) AABB {
	return AABB{rect.Rect{
		LLx: b.LLx - amount,
		LLy: b.LLy - amount,
		URx: b.URx + amount,
		URy: b.URy + amount,
	}}
}

// Contains reports whether p lies inside the box or on its boundary
func (b AABB) Contains(p vec.Vec2) bool {
	return p.X >= b.LLx && p.X <= b.URx && p.Y >= b.LLy && p.Y <= b.URy
}

// Overlaps reports whether the two boxes share at least one point
func (b AABB) Overlaps(other AABB) bool {
	return b.LLx <= other.URx && other.LLx <= b.URx &&
		b.LLy <= other.URy && other.LLy <= b.URy
}

// Split cuts the box at coordinate at along axis and returns both halves
func (b AABB) Split(axis int, at float64) (left, right AABB) {
	left, right = b, b
	if axis == 0 {
		left.URx = at
		right.LLx = at
	} else {
		left.URy = at
		right.LLy = at
	}
	return left, right
}

// Hit tests if a ray intersects with this AABB using the slab method. It
// returns the parametric interval [tEnter, tExit] of the ray inside the box,
// clipped to [tMin, tMax].
func (b AABB) Hit(ray Ray, tMin, tMax float64) (tEnter, tExit float64, ok bool) {
	for axis := 0; axis < 2; axis++ {
		min := b.MinAxis(axis)
		max := b.MaxAxis(axis)
		origin := Axis(ray.Origin, axis)
		direction := Axis(ray.Direction, axis)

		// Handle parallel rays (direction near zero)
		if math.Abs(direction) < 1e-12 {
			if origin < min || origin > max {
				return 0, 0, false
			}
			continue
		}

		invDirection := 1.0 / direction
		t1 := (min - origin) * invDirection
		t2 := (max - origin) * invDirection
		if t1 > t2 {
			t1, t2 = t2, t1
		}

		tMin = math.Max(tMin, t1)
		tMax = math.Min(tMax, t2)
		if tMin > tMax {
			return 0, 0, false
		}
	}

	return tMin, tMax, true
}
