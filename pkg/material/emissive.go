package material

import (
	"github.com/df07/go-light2d/pkg/core"
	"github.com/df07/go-light2d/pkg/geometry"
)

// Emissive represents a light-emitting material. It never scatters, so a
// path ends on it.
type Emissive struct {
	Radiance ColorSource // Emitted radiance, constant or parametric
	OneSided bool        // Emit only from the outward-facing side
}

// NewEmissive creates a new emissive material with constant radiance
func NewEmissive(radiance core.Spectrum) *Emissive {
	return &Emissive{Radiance: NewSolidColor(radiance)}
}

// NewParametricEmissive creates an emissive material whose radiance varies
// over the surface
func NewParametricEmissive(radiance ColorSource) *Emissive {
	return &Emissive{Radiance: radiance}
}

// Scatter implements the Material interface for emissive materials
func (e *Emissive) Scatter(rayIn core.Ray, hit geometry.Intersection, sampler core.Sampler) ScatterResult {
	if e.OneSided && !hit.FrontFace {
		return ScatterResult{}
	}
	return ScatterResult{Emitted: e.Radiance.Evaluate(hit.Point)}
}

func (e *Emissive) sealed() {}
