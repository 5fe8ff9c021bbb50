package geometry

import (
	"errors"
	"math"
	"testing"

	"github.com/df07/go-light2d/pkg/core"
)

func TestNewSegment_Validation(t *testing.T) {
	if _, err := NewSegment(core.Vec(1, 1), core.Vec(1, 1)); !errors.Is(err, ErrInvalidShape) {
		t.Errorf("Expected ErrInvalidShape for coincident endpoints, got %v", err)
	}
	if _, err := NewSegment(core.Vec(math.Inf(1), 0), core.Vec(1, 1)); !errors.Is(err, ErrInvalidShape) {
		t.Errorf("Expected ErrInvalidShape for infinite endpoint, got %v", err)
	}
}

func TestSegment_Intersect(t *testing.T) {
	// Left-hand normal of A→B points to -X
	segment, err := NewSegment(core.Vec(0, -1), core.Vec(0, 1))
	if err != nil {
		t.Fatal(err)
	}

	tests := []struct {
		name      string
		ray       core.Ray
		wantHit   bool
		wantT     float64
		wantFront bool
	}{
		{"from the left", core.NewRay(core.Vec(-2, 0), core.Vec(1, 0)), true, 2, true},
		{"from the right", core.NewRay(core.Vec(2, 0.5), core.Vec(-2, 0)), true, 1, false},
		{"through endpoint", core.NewRay(core.Vec(-1, 0), core.Vec(1, 1)), true, 1, true},
		{"parallel", core.NewRay(core.Vec(-1, 0), core.Vec(0, 1)), false, 0, false},
		{"collinear", core.NewRay(core.Vec(0, -3), core.Vec(0, 1)), false, 0, false},
		{"past the end", core.NewRay(core.Vec(-1, 0), core.Vec(1, 1.5)), false, 0, false},
		{"behind origin", core.NewRay(core.Vec(1, 0), core.Vec(1, 0)), false, 0, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			hit, ok := segment.Intersect(tt.ray)
			if ok != tt.wantHit {
				t.Fatalf("Expected hit=%v, got %v", tt.wantHit, ok)
			}
			if !ok {
				return
			}
			if math.Abs(hit.T-tt.wantT) > 1e-9 {
				t.Errorf("Expected t=%g, got %g", tt.wantT, hit.T)
			}
			if hit.FrontFace != tt.wantFront {
				t.Errorf("Expected FrontFace=%v, got %v", tt.wantFront, hit.FrontFace)
			}
			if hit.Normal.Dot(tt.ray.Direction) >= 0 {
				t.Error("Normal must face the incoming ray")
			}
			if math.Abs(hit.Point.X) > 1e-9 {
				t.Errorf("Expected hit on the segment line, got %v", hit.Point)
			}
		})
	}
}
