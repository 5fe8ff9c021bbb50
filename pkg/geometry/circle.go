package geometry

import (
	"fmt"
	"math"

	"github.com/df07/go-light2d/pkg/core"
	"seehuhn.de/go/geom/vec"
)

// Circle represents a solid disc bounded by a circle
type Circle struct {
	Center vec.Vec2
	Radius float64
}

// NewCircle creates a new circle. The radius must be positive and finite.
func NewCircle(center vec.Vec2, radius float64) (*Circle, error) {
	if !core.IsFinite(center) {
		return nil, fmt.Errorf("%w: circle center %v is not finite", ErrInvalidShape, center)
	}
	if !(radius > 0) || math.IsInf(radius, 1) {
		return nil, fmt.Errorf("%w: circle radius must be positive, got %g", ErrInvalidShape, radius)
	}
	return &Circle{Center: center, Radius: radius}, nil
}

// Intersect tests if a ray intersects with the circle
func (c *Circle) Intersect(ray core.Ray) (Intersection, bool) {
	dLength := ray.Direction.Length()
	if !(dLength > 1e-12) || math.IsInf(dLength, 1) {
		return Intersection{}, false
	}
	unitDirection := ray.Direction.Mul(1 / dLength)

	// Vector from ray origin to circle center, projected onto the direction
	oc := c.Center.Sub(ray.Origin)
	projection := unitDirection.Dot(oc)
	discriminant := projection*projection - oc.Dot(oc) + c.Radius*c.Radius
	if !(discriminant >= 0) {
		return Intersection{}, false
	}

	// Try the closer root first, then the farther one
	sqrtD := math.Sqrt(discriminant)
	root := (projection - sqrtD) / dLength
	if !ray.InRange(root) {
		root = (projection + sqrtD) / dLength
		if !ray.InRange(root) {
			return Intersection{}, false
		}
	}

	hit := Intersection{T: root, Point: ray.At(root)}
	hit.SetFaceNormal(ray, hit.Point.Sub(c.Center).Mul(1/c.Radius))
	return hit, true
}

// BoundingBox returns the axis-aligned bounding box for this circle
func (c *Circle) BoundingBox() core.AABB {
	radius := core.Vec(c.Radius, c.Radius)
	return core.NewAABB(c.Center.Sub(radius), c.Center.Add(radius))
}

func (c *Circle) sealed() {}
