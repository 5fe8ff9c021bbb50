package material

import (
	"fmt"
	"math"

	"github.com/df07/go-light2d/pkg/core"
	"github.com/df07/go-light2d/pkg/geometry"
	"seehuhn.de/go/geom/vec"
)

// Transparent represents a refractive medium such as glass or tinted water.
// Light inside the medium is absorbed exponentially with the distance it
// travels (Beer-Lambert law). The medium is the area enclosed by the shape,
// so it is only used on closed shapes.
type Transparent struct {
	RefractiveIndex float64       // Index of refraction (e.g., 1.5 for glass)
	Absorption      core.Spectrum // Absorption coefficient per unit length
}

// NewTransparent creates a new transparent material
func NewTransparent(refractiveIndex float64, absorption core.Spectrum) (*Transparent, error) {
	if !(refractiveIndex > 0) || math.IsInf(refractiveIndex, 1) {
		return nil, fmt.Errorf("%w: refractive index must be positive, got %g", ErrInvalidMaterial, refractiveIndex)
	}
	if !absorption.IsFinite() || absorption.R < 0 || absorption.G < 0 || absorption.B < 0 {
		return nil, fmt.Errorf("%w: absorption must be finite and non-negative, got %v", ErrInvalidMaterial, absorption)
	}
	return &Transparent{RefractiveIndex: refractiveIndex, Absorption: absorption}, nil
}

// Scatter implements the Material interface for transparent media. The choice
// between reflection and refraction is drawn from the sampler with the
// Fresnel reflectance as probability.
func (m *Transparent) Scatter(rayIn core.Ray, hit geometry.Intersection, sampler core.Sampler) ScatterResult {
	attenuation := core.Gray(1)
	var refractionRatio float64
	if hit.FrontFace {
		// Entering the medium
		refractionRatio = 1.0 / m.RefractiveIndex
	} else {
		// Leaving the medium: the ray travelled hit.T along its direction inside it
		refractionRatio = m.RefractiveIndex
		distance := hit.T * rayIn.Direction.Length()
		attenuation = m.Absorption.Transmittance(distance)
	}

	unitDirection := core.Normalize(rayIn.Direction)
	cosTheta := math.Min(-unitDirection.Dot(hit.Normal), 1.0)
	sinTheta := math.Sqrt(math.Max(0, 1.0-cosTheta*cosTheta))

	// Total internal reflection always reflects
	cannotRefract := refractionRatio*sinTheta > 1.0

	var direction vec.Vec2
	if cannotRefract || Reflectance(cosTheta, refractionRatio) > sampler.Get1D() {
		direction = core.Reflect(unitDirection, hit.Normal)
	} else {
		direction = refract(unitDirection, hit.Normal, refractionRatio)
	}

	return ScatterResult{
		Scatters:    true,
		Scattered:   core.SpawnRay(hit.Point, hit.Normal, direction),
		Attenuation: attenuation,
	}
}

func (m *Transparent) sealed() {}

// refract calculates the refraction of a unit vector using Snell's law
func refract(uv, n vec.Vec2, etaiOverEtat float64) vec.Vec2 {
	cosTheta := math.Min(-uv.Dot(n), 1.0)
	rOutPerp := uv.Add(n.Mul(cosTheta)).Mul(etaiOverEtat)
	rOutParallel := n.Mul(-math.Sqrt(math.Abs(1.0 - rOutPerp.Dot(rOutPerp))))
	return rOutPerp.Add(rOutParallel)
}

// Reflectance calculates the Fresnel reflectance using Schlick's approximation
func Reflectance(cosine, refractionRatio float64) float64 {
	r0 := (1 - refractionRatio) / (1 + refractionRatio)
	r0 = r0 * r0
	return r0 + (1-r0)*math.Pow(1-cosine, 5)
}
