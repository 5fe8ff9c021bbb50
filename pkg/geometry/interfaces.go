package geometry

import (
	"errors"

	"github.com/df07/go-light2d/pkg/core"
	"seehuhn.de/go/geom/vec"
)

// ErrInvalidShape is wrapped by every shape constructor error
var ErrInvalidShape = errors.New("invalid shape")

// Shape is implemented by the closed set of primitives in this package:
// *Circle, *Segment and *Polygon.
type Shape interface {
	// Intersect returns the nearest intersection with t in (ray.TMin, ray.TMax]
	Intersect(ray core.Ray) (Intersection, bool)
	// BoundingBox returns the world-space bounds of the shape
	BoundingBox() core.AABB

	sealed()
}

// Intersection contains information about a ray-shape intersection
type Intersection struct {
	T         float64  // Parameter t along the ray
	Point     vec.Vec2 // Point of intersection
	Normal    vec.Vec2 // Unit surface normal, facing the incoming ray
	FrontFace bool     // Whether the ray hit the outward-facing side
}

// SetFaceNormal sets the normal vector and determines front/back face
func (h *Intersection) SetFaceNormal(ray core.Ray, outwardNormal vec.Vec2) {
	outwardNormal = core.Normalize(outwardNormal)
	h.FrontFace = ray.Direction.Dot(outwardNormal) < 0
	if h.FrontFace {
		h.Normal = outwardNormal
	} else {
		h.Normal = outwardNormal.Mul(-1)
	}
}

// OutwardNormal returns the geometric outward normal at the hit point
func (h Intersection) OutwardNormal() vec.Vec2 {
	if h.FrontFace {
		return h.Normal
	}
	return h.Normal.Mul(-1)
}
