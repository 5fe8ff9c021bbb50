package integrator

import (
	"math"

	"github.com/df07/go-light2d/pkg/core"
)

// PathTracer implements unidirectional path tracing in the plane. It holds no
// per-pixel state and may be shared by all render workers.
type PathTracer struct {
	config Config
	grid   int // side of the jittered position grid, 0 if SamplesPerPixel is not a square
}

// NewPathTracer creates a path tracer after validating config
func NewPathTracer(config Config) (*PathTracer, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}
	return &PathTracer{config: config, grid: squareRoot(config.SamplesPerPixel)}, nil
}

// Config returns the settings of the path tracer
func (pt *PathTracer) Config() Config {
	return pt.config
}

// squareRoot returns k if n == k*k, else 0
func squareRoot(n int) int {
	k := int(math.Round(math.Sqrt(float64(n))))
	if k*k == n {
		return k
	}
	return 0
}

// Integrate averages SamplesPerPixel radiance estimates for rays that start
// inside the pixel footprint and leave in every direction of the plane.
// Positions are jittered on a k×k grid when the sample count is a perfect
// square; angles are always stratified.
func (pt *PathTracer) Integrate(scene Scene, pixel core.AABB, sampler core.Sampler) core.Spectrum {
	n := pt.config.SamplesPerPixel
	size := pixel.Size()

	// Angle strata are visited in random order so they decorrelate from
	// the position grid
	strata := make([]int, n)
	for i := range strata {
		strata[i] = i
	}
	for i := n - 1; i > 0; i-- {
		j := sampler.IntN(i + 1)
		strata[i], strata[j] = strata[j], strata[i]
	}

	var mean core.Spectrum
	valid := 0
	for i := 0; i < n; i++ {
		jitter := sampler.Get2D()
		u, v := jitter.X, jitter.Y
		if pt.grid > 0 {
			u = (float64(i%pt.grid) + u) / float64(pt.grid)
			v = (float64(i/pt.grid) + v) / float64(pt.grid)
		}
		origin := core.Vec(pixel.LLx+u*size.X, pixel.LLy+v*size.Y)

		theta := 2 * math.Pi * (float64(strata[i]) + sampler.Get1D()) / float64(n)
		ray := core.NewRay(origin, core.DirectionFromAngle(theta))

		estimate := pt.Estimate(ray, scene, sampler)
		if !estimate.IsFinite() {
			continue
		}

		// Running mean: exact when every estimate is the same
		valid++
		mean = mean.Add(estimate.Sub(mean).Multiply(1 / float64(valid)))
	}

	return mean
}

// Estimate returns a single-sample estimate of the radiance arriving along
// ray, following one path through the scene
func (pt *PathTracer) Estimate(ray core.Ray, scene Scene, sampler core.Sampler) core.Spectrum {
	var radiance core.Spectrum
	throughput := core.Gray(1)

	for depth := 1; ; depth++ {
		hit, isHit := scene.Intersect(ray)
		if !isHit {
			return radiance.Add(throughput.MultiplySpectrum(pt.config.Background))
		}

		scatter := hit.Material.Scatter(ray, hit.Intersection, sampler)
		radiance = radiance.Add(throughput.MultiplySpectrum(scatter.Emitted))

		// Light beyond the depth cap is dropped
		if !scatter.Scatters || depth >= pt.config.MaxDepth {
			return radiance
		}

		throughput = throughput.MultiplySpectrum(scatter.Attenuation)
		if throughput.IsBlack() {
			return radiance
		}

		if depth >= pt.config.RussianRouletteMinBounces {
			q := pt.config.RussianRouletteQ
			if q > 0 {
				if sampler.Get1D() < q {
					return radiance
				}
				throughput = throughput.Multiply(1 / (1 - q))
			}
		}

		ray = scatter.Scattered
	}
}
