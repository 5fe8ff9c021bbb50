package geometry

import (
	"fmt"
	"math"

	"github.com/df07/go-light2d/pkg/core"
	"seehuhn.de/go/geom/vec"
)

// Polygon represents a closed, simple polygon. Vertices may be given in
// either winding order; normals always point out of the enclosed area.
type Polygon struct {
	Vertices []vec.Vec2
	ccw      bool
	bounds   core.AABB
}

// NewPolygon creates a new polygon. It needs at least three finite vertices,
// a non-zero area and no self-intersections.
func NewPolygon(vertices ...vec.Vec2) (*Polygon, error) {
	if len(vertices) < 3 {
		return nil, fmt.Errorf("%w: polygon needs at least 3 vertices, got %d", ErrInvalidShape, len(vertices))
	}
	for i, v := range vertices {
		if !core.IsFinite(v) {
			return nil, fmt.Errorf("%w: polygon vertex %d (%v) is not finite", ErrInvalidShape, i, v)
		}
	}

	area := signedArea(vertices)
	if area > -1e-12 && area < 1e-12 {
		return nil, fmt.Errorf("%w: polygon has zero area", ErrInvalidShape)
	}
	if i, j, ok := findSelfIntersection(vertices); ok {
		return nil, fmt.Errorf("%w: polygon edges %d and %d intersect", ErrInvalidShape, i, j)
	}

	owned := make([]vec.Vec2, len(vertices))
	copy(owned, vertices)
	return &Polygon{
		Vertices: owned,
		ccw:      area > 0,
		bounds:   core.NewAABBFromPoints(owned...),
	}, nil
}

// NewRectangle creates an axis-aligned rectangle polygon from two corners
func NewRectangle(min, max vec.Vec2) (*Polygon, error) {
	return NewPolygon(
		min,
		core.Vec(max.X, min.Y),
		max,
		core.Vec(min.X, max.Y),
	)
}

// NewRegularPolygon creates a regular polygon with n sides inscribed in a
// circle of the given radius, with the first vertex at angle phase.
func NewRegularPolygon(center vec.Vec2, radius float64, n int, phase float64) (*Polygon, error) {
	if n < 3 {
		return nil, fmt.Errorf("%w: regular polygon needs at least 3 sides, got %d", ErrInvalidShape, n)
	}
	if !(radius > 0) {
		return nil, fmt.Errorf("%w: regular polygon radius must be positive, got %g", ErrInvalidShape, radius)
	}
	vertices := make([]vec.Vec2, n)
	for i := range vertices {
		angle := phase + 2*math.Pi*float64(i)/float64(n)
		vertices[i] = center.Add(core.DirectionFromAngle(angle).Mul(radius))
	}
	return NewPolygon(vertices...)
}

// Intersect returns the nearest crossing of the ray with any edge
func (p *Polygon) Intersect(ray core.Ray) (Intersection, bool) {
	closest := -1
	closestSoFar := ray.TMax
	n := len(p.Vertices)

	for i := 0; i < n; i++ {
		a, b := p.Vertices[i], p.Vertices[(i+1)%n]
		if t, ok := intersectEdge(ray.WithTMax(closestSoFar), a, b); ok {
			closest = i
			closestSoFar = t
		}
	}
	if closest < 0 {
		return Intersection{}, false
	}

	hit := Intersection{T: closestSoFar, Point: ray.At(closestSoFar)}
	hit.SetFaceNormal(ray, p.edgeOutwardNormal(closest))
	return hit, true
}

// BoundingBox returns the axis-aligned bounding box for this polygon
func (p *Polygon) BoundingBox() core.AABB {
	return p.bounds
}

// IsCounterClockwise reports the winding order of the vertices
func (p *Polygon) IsCounterClockwise() bool {
	return p.ccw
}

func (p *Polygon) sealed() {}

func (p *Polygon) edgeOutwardNormal(i int) vec.Vec2 {
	edge := p.Vertices[(i+1)%len(p.Vertices)].Sub(p.Vertices[i])
	left := core.Perp(edge)
	if p.ccw {
		// Interior is on the left of every edge
		return left.Mul(-1)
	}
	return left
}

// signedArea is positive for counter-clockwise vertex order
func signedArea(vertices []vec.Vec2) float64 {
	sum := 0.0
	n := len(vertices)
	for i := 0; i < n; i++ {
		sum += core.Cross(vertices[i], vertices[(i+1)%n])
	}
	return sum / 2
}

// findSelfIntersection checks every pair of non-adjacent edges
func findSelfIntersection(vertices []vec.Vec2) (int, int, bool) {
	n := len(vertices)
	for i := 0; i < n; i++ {
		a1, a2 := vertices[i], vertices[(i+1)%n]
		for j := i + 1; j < n; j++ {
			if j == i+1 || (i == 0 && j == n-1) {
				continue
			}
			b1, b2 := vertices[j], vertices[(j+1)%n]
			if segmentsIntersect(a1, a2, b1, b2) {
				return i, j, true
			}
		}
	}
	return 0, 0, false
}

func segmentsIntersect(p1, p2, q1, q2 vec.Vec2) bool {
	d1 := core.Cross(q2.Sub(q1), p1.Sub(q1))
	d2 := core.Cross(q2.Sub(q1), p2.Sub(q1))
	d3 := core.Cross(p2.Sub(p1), q1.Sub(p1))
	d4 := core.Cross(p2.Sub(p1), q2.Sub(p1))
	if ((d1 > 0 && d2 < 0) || (d1 < 0 && d2 > 0)) &&
		((d3 > 0 && d4 < 0) || (d3 < 0 && d4 > 0)) {
		return true
	}
	return (d1 == 0 && onSegment(q1, q2, p1)) ||
		(d2 == 0 && onSegment(q1, q2, p2)) ||
		(d3 == 0 && onSegment(p1, p2, q1)) ||
		(d4 == 0 && onSegment(p1, p2, q2))
}

func onSegment(a, b, p vec.Vec2) bool {
	return p.X >= min(a.X, b.X) && p.X <= max(a.X, b.X) &&
		p.Y >= min(a.Y, b.Y) && p.Y <= max(a.Y, b.Y)
}
