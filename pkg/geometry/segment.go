package geometry

import (
	"fmt"
	"math"

	"github.com/df07/go-light2d/pkg/core"
	"seehuhn.de/go/geom/vec"
)

// parallelThreshold is the smallest |cross(d, e)| / (|d||e|) for which a ray
// and an edge are not treated as parallel
const parallelThreshold = 1e-12

// Segment represents a line segment from A to B. Its outward side is the one
// the left-hand normal of A→B points to.
type Segment struct {
	A, B vec.Vec2
}

// NewSegment creates a new segment. The endpoints must be distinct and finite.
func NewSegment(a, b vec.Vec2) (*Segment, error) {
	if !core.IsFinite(a) || !core.IsFinite(b) {
		return nil, fmt.Errorf("%w: segment endpoints %v, %v are not finite", ErrInvalidShape, a, b)
	}
	if a == b {
		return nil, fmt.Errorf("%w: segment endpoints coincide at %v", ErrInvalidShape, a)
	}
	return &Segment{A: a, B: b}, nil
}

// Intersect tests if a ray crosses the segment
func (s *Segment) Intersect(ray core.Ray) (Intersection, bool) {
	t, ok := intersectEdge(ray, s.A, s.B)
	if !ok {
		return Intersection{}, false
	}

	hit := Intersection{T: t, Point: ray.At(t)}
	hit.SetFaceNormal(ray, core.Perp(s.B.Sub(s.A)))
	return hit, true
}

// BoundingBox returns the axis-aligned bounding box for this segment
func (s *Segment) BoundingBox() core.AABB {
	return core.NewAABBFromPoints(s.A, s.B)
}

func (s *Segment) sealed() {}

// intersectEdge solves origin + t*d = a + u*(b-a) and returns t when u is in
// [0, 1] and t lies in the ray's interval.
func intersectEdge(ray core.Ray, a, b vec.Vec2) (float64, bool) {
	edge := b.Sub(a)
	denom := core.Cross(ray.Direction, edge)
	if math.Abs(denom) <= parallelThreshold*ray.Direction.Length()*edge.Length() {
		return 0, false
	}

	w := a.Sub(ray.Origin)
	t := core.Cross(w, edge) / denom
	u := core.Cross(w, ray.Direction) / denom
	if !(u >= 0 && u <= 1) || !ray.InRange(t) {
		return 0, false
	}
	return t, true
}
