package material

import (
	"github.com/df07/go-light2d/pkg/core"
	"github.com/df07/go-light2d/pkg/geometry"
)

// Mirror represents a perfectly specular reflector
type Mirror struct {
	Tint core.Spectrum // Reflectance per channel, clamped to [0, 1]
}

// NewMirror creates a new mirror material
func NewMirror(tint core.Spectrum) *Mirror {
	return &Mirror{Tint: tint.Clamp(0, 1)}
}

// Scatter implements the Material interface for mirror reflection
func (m *Mirror) Scatter(rayIn core.Ray, hit geometry.Intersection, sampler core.Sampler) ScatterResult {
	reflected := core.Reflect(core.Normalize(rayIn.Direction), hit.Normal)
	return ScatterResult{
		Scatters:    true,
		Scattered:   core.SpawnRay(hit.Point, hit.Normal, reflected),
		Attenuation: m.Tint,
	}
}

func (m *Mirror) sealed() {}
