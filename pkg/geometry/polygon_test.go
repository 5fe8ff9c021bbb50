package geometry

import (
	"errors"
	"math"
	"testing"

	"github.com/df07/go-light2d/pkg/core"
	"seehuhn.de/go/geom/vec"
)

func TestNewPolygon_Validation(t *testing.T) {
	tests := []struct {
		name     string
		vertices []vec.Vec2
	}{
		{"too few vertices", []vec.Vec2{core.Vec(0, 0), core.Vec(1, 0)}},
		{"collinear", []vec.Vec2{core.Vec(0, 0), core.Vec(1, 0), core.Vec(2, 0)}},
		{"bow tie", []vec.Vec2{core.Vec(0, 0), core.Vec(1, 1), core.Vec(1, 0), core.Vec(0, 1)}},
		{"NaN vertex", []vec.Vec2{core.Vec(0, 0), core.Vec(1, math.NaN()), core.Vec(0, 1)}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewPolygon(tt.vertices...)
			if !errors.Is(err, ErrInvalidShape) {
				t.Errorf("Expected ErrInvalidShape, got %v", err)
			}
		})
	}
}

func TestPolygon_NormalsPointOutwardForBothWindings(t *testing.T) {
	ccw, err := NewRectangle(core.Vec(-1, -1), core.Vec(1, 1))
	if err != nil {
		t.Fatal(err)
	}
	cw, err := NewPolygon(core.Vec(-1, -1), core.Vec(-1, 1), core.Vec(1, 1), core.Vec(1, -1))
	if err != nil {
		t.Fatal(err)
	}
	if !ccw.IsCounterClockwise() || cw.IsCounterClockwise() {
		t.Fatal("Winding detection mismatch")
	}

	for name, polygon := range map[string]*Polygon{"ccw": ccw, "cw": cw} {
		t.Run(name, func(t *testing.T) {
			outside, ok := polygon.Intersect(core.NewRay(core.Vec(-3, 0), core.Vec(1, 0)))
			if !ok {
				t.Fatal("Expected hit from outside")
			}
			if !outside.FrontFace || outside.Normal.Sub(core.Vec(-1, 0)).Length() > 1e-9 {
				t.Errorf("Expected front face with normal (-1,0), got %v front=%v", outside.Normal, outside.FrontFace)
			}
			if math.Abs(outside.T-2) > 1e-9 {
				t.Errorf("Expected nearest edge at t=2, got %g", outside.T)
			}

			inside, ok := polygon.Intersect(core.NewRay(core.Vec(0, 0), core.Vec(0, 1)))
			if !ok {
				t.Fatal("Expected hit from inside")
			}
			if inside.FrontFace || inside.OutwardNormal().Sub(core.Vec(0, 1)).Length() > 1e-9 {
				t.Errorf("Expected back face with outward normal (0,1), got %v front=%v", inside.OutwardNormal(), inside.FrontFace)
			}
		})
	}
}

func TestRegularPolygon(t *testing.T) {
	hexagon, err := NewRegularPolygon(core.Vec(1, 1), 2, 6, 0)
	if err != nil {
		t.Fatal(err)
	}
	box := hexagon.BoundingBox()
	if math.Abs(box.URx-3) > 1e-9 || math.Abs(box.LLx+1) > 1e-9 {
		t.Errorf("Unexpected bounds %v", box)
	}
	if _, err := NewRegularPolygon(core.Vec(0, 0), 1, 2, 0); !errors.Is(err, ErrInvalidShape) {
		t.Errorf("Expected ErrInvalidShape for 2 sides, got %v", err)
	}
}
