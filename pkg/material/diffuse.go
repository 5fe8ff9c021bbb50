package material

import (
	"github.com/df07/go-light2d/pkg/core"
	"github.com/df07/go-light2d/pkg/geometry"
	"seehuhn.de/go/geom/vec"
)

// DiffuseSampling selects the scattering lobe of a Diffuse material
type DiffuseSampling int

const (
	// DiffuseCosine is the 2D Lambertian lobe: BRDF albedo/2, directions
	// drawn with density cos(θ)/2, so the weight per sample is the albedo.
	DiffuseCosine DiffuseSampling = iota
	// DiffuseUniform scatters with equal radiance in every direction of
	// the half-plane, directions drawn uniformly in θ.
	DiffuseUniform
)

// String returns the lobe name used in scene files
func (s DiffuseSampling) String() string {
	switch s {
	case DiffuseCosine:
		return "cosine"
	case DiffuseUniform:
		return "uniform"
	default:
		return "unknown"
	}
}

// Diffuse represents a rough surface that scatters light back into the
// half-plane the incoming ray came from
type Diffuse struct {
	Albedo   ColorSource // Reflectance, clamped to [0, 1] per channel
	Sampling DiffuseSampling
}

// NewDiffuse creates a new cosine-weighted diffuse material with solid color
func NewDiffuse(albedo core.Spectrum) *Diffuse {
	return &Diffuse{Albedo: NewSolidColor(albedo), Sampling: DiffuseCosine}
}

// NewUniformDiffuse creates a new uniform-lobe diffuse material with solid color
func NewUniformDiffuse(albedo core.Spectrum) *Diffuse {
	return &Diffuse{Albedo: NewSolidColor(albedo), Sampling: DiffuseUniform}
}

// NewTexturedDiffuse creates a new diffuse material with a spatially varying albedo
func NewTexturedDiffuse(albedo ColorSource, sampling DiffuseSampling) *Diffuse {
	return &Diffuse{Albedo: albedo, Sampling: sampling}
}

// Scatter implements the Material interface for diffuse scattering
func (d *Diffuse) Scatter(rayIn core.Ray, hit geometry.Intersection, sampler core.Sampler) ScatterResult {
	var direction vec.Vec2
	switch d.Sampling {
	case DiffuseUniform:
		direction = core.SampleUniformHalfPlane(hit.Normal, sampler.Get1D())
	default:
		direction = core.SampleCosineHalfPlane(hit.Normal, sampler.Get1D())
	}

	return ScatterResult{
		Scatters:    true,
		Scattered:   core.SpawnRay(hit.Point, hit.Normal, direction),
		Attenuation: d.Albedo.Evaluate(hit.Point).Clamp(0, 1),
	}
}

func (d *Diffuse) sealed() {}
