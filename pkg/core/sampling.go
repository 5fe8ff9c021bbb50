package core

import (
	"math"
	"math/rand/v2"

	"seehuhn.de/go/geom/vec"
)

// Sampler provides random sampling for rendering algorithms
// Can be swapped out for deterministic testing or different sampling patterns
type Sampler interface {
	Get1D() float64
	Get2D() vec.Vec2
	IntN(n int) int
}

// RandomSampler wraps a standard Go random generator
type RandomSampler struct {
	random *rand.Rand
}

// Get1D returns a random float64 in [0, 1)
func (r *RandomSampler) Get1D() float64 {
	return r.random.Float64()
}

// Get2D returns two random float64 values in [0, 1)
func (r *RandomSampler) Get2D() vec.Vec2 {
	return vec.Vec2{X: r.random.Float64(), Y: r.random.Float64()}
}

// IntN returns a random int in [0, n)
func (r *RandomSampler) IntN(n int) int {
	return r.random.IntN(n)
}

// PCGSampler is a RandomSampler over a PCG source that can be reseeded
// cheaply, so one sampler can serve many independent streams.
type PCGSampler struct {
	RandomSampler
	source *rand.PCG
}

// NewPCGSampler creates a sampler seeded with (seed1, seed2)
func NewPCGSampler(seed1, seed2 uint64) *PCGSampler {
	source := rand.NewPCG(seed1, seed2)
	return &PCGSampler{
		RandomSampler: RandomSampler{random: rand.New(source)},
		source:        source,
	}
}

// Reseed restarts the sampler on the stream identified by (seed1, seed2)
func (p *PCGSampler) Reseed(seed1, seed2 uint64) {
	p.source.Seed(seed1, seed2)
}

// SplitMix64 is a 64-bit mixing function used to derive well-separated seeds
// from structured inputs such as pixel indices.
func SplitMix64(x uint64) uint64 {
	x += 0x9e3779b97f4a7c15
	x = (x ^ (x >> 30)) * 0xbf58476d1ce4e5b9
	x = (x ^ (x >> 27)) * 0x94d049bb133111eb
	return x ^ (x >> 31)
}

// SampleCosineHalfPlane samples a direction on the normal side of a surface
// with density cos(θ)/2, θ measured from the normal. The normal must have
// unit length.
func SampleCosineHalfPlane(normal vec.Vec2, u float64) vec.Vec2 {
	// Inverse CDF of cos(θ)/2 on [-π/2, π/2]: sin(θ) = 2u - 1
	sinTheta := 2*u - 1
	cosTheta := math.Sqrt(math.Max(0, 1-sinTheta*sinTheta))
	return normal.Mul(cosTheta).Add(Perp(normal).Mul(sinTheta))
}

// SampleUniformHalfPlane samples a direction on the normal side of a surface
// with uniform density 1/π in θ. The normal must have unit length.
func SampleUniformHalfPlane(normal vec.Vec2, u float64) vec.Vec2 {
	sinTheta, cosTheta := math.Sincos(math.Pi * (u - 0.5))
	return normal.Mul(cosTheta).Add(Perp(normal).Mul(sinTheta))
}

// SampleUnitCircle returns a direction with uniformly distributed angle
func SampleUnitCircle(u float64) vec.Vec2 {
	return DirectionFromAngle(2 * math.Pi * u)
}
