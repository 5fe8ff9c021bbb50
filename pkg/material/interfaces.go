package material

import (
	"errors"

	"github.com/df07/go-light2d/pkg/core"
	"github.com/df07/go-light2d/pkg/geometry"
)

// ErrInvalidMaterial is wrapped by material constructor errors
var ErrInvalidMaterial = errors.New("invalid material")

// Material is implemented by the closed set of surface/volume models in this
// package: *Emissive, *Diffuse, *Transparent and *Mirror. Materials hold no
// per-ray state and are safe for concurrent use.
type Material interface {
	// Scatter computes the light emitted at the hit and, optionally, the
	// next ray of the path together with its attenuation.
	Scatter(rayIn core.Ray, hit geometry.Intersection, sampler core.Sampler) ScatterResult

	sealed()
}

// ScatterResult contains the result of material scattering
type ScatterResult struct {
	Emitted     core.Spectrum // Radiance emitted toward the incoming ray (may be zero)
	Scatters    bool          // Whether the path continues
	Scattered   core.Ray      // The scattered ray, valid if Scatters
	Attenuation core.Spectrum // Factor applied to light arriving along Scattered
}
