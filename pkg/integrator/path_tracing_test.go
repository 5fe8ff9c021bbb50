package integrator

import (
	"errors"
	"math"
	"testing"

	"github.com/df07/go-light2d/pkg/core"
	"github.com/df07/go-light2d/pkg/entity"
	"github.com/df07/go-light2d/pkg/geometry"
	"github.com/df07/go-light2d/pkg/kdtree"
	"github.com/df07/go-light2d/pkg/material"
	"seehuhn.de/go/geom/vec"
)

type testLeaf struct {
	shape    geometry.Shape
	material material.Material
}

func buildScene(t *testing.T, leaves ...testLeaf) *entity.Tree {
	t.Helper()
	b := entity.NewBuilder()
	root := b.Empty()
	if len(leaves) > 0 {
		ids := make([]entity.ID, len(leaves))
		for i, leaf := range leaves {
			ids[i] = b.Leaf(leaf.shape, leaf.material)
		}
		root = b.Composite(ids...)
	}
	tree, err := b.Build(root, kdtree.DefaultConfig())
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	return tree
}

func mustCircle(t *testing.T, x, y, r float64) *geometry.Circle {
	t.Helper()
	c, err := geometry.NewCircle(core.Vec(x, y), r)
	if err != nil {
		t.Fatalf("NewCircle: %v", err)
	}
	return c
}

func mustPathTracer(t *testing.T, cfg Config) *PathTracer {
	t.Helper()
	pt, err := NewPathTracer(cfg)
	if err != nil {
		t.Fatalf("NewPathTracer: %v", err)
	}
	return pt
}

func pixelAt(x, y, size float64) core.AABB {
	return core.NewAABB(core.Vec(x-size/2, y-size/2), core.Vec(x+size/2, y+size/2))
}

var helloRadiance = core.NewSpectrum(0.6, 0.8, 1.0)

func helloCircle(t *testing.T) *entity.Tree {
	return buildScene(t, testLeaf{mustCircle(t, 0, 0, 1), material.NewEmissive(helloRadiance)})
}

func TestNewPathTracerValidation(t *testing.T) {
	tests := []struct {
		name   string
		modify func(*Config)
	}{
		{"zero samples", func(c *Config) { c.SamplesPerPixel = 0 }},
		{"zero depth", func(c *Config) { c.MaxDepth = 0 }},
		{"negative min bounces", func(c *Config) { c.RussianRouletteMinBounces = -1 }},
		{"q of one", func(c *Config) { c.RussianRouletteQ = 1 }},
		{"negative q", func(c *Config) { c.RussianRouletteQ = -0.1 }},
		{"NaN q", func(c *Config) { c.RussianRouletteQ = math.NaN() }},
		{"infinite background", func(c *Config) { c.Background = core.Gray(math.Inf(1)) }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.modify(&cfg)
			if _, err := NewPathTracer(cfg); !errors.Is(err, ErrInvalidConfig) {
				t.Errorf("Expected ErrInvalidConfig, got %v", err)
			}
		})
	}

	if _, err := NewPathTracer(DefaultConfig()); err != nil {
		t.Errorf("Default config should be valid, got %v", err)
	}
}

func TestMergeConfig(t *testing.T) {
	base := DefaultConfig()
	merged := MergeConfig(base, Config{SamplesPerPixel: 64, Background: core.Gray(0.5)})

	if merged.SamplesPerPixel != 64 {
		t.Errorf("Expected 64 samples, got %d", merged.SamplesPerPixel)
	}
	if merged.Background != core.Gray(0.5) {
		t.Errorf("Expected background override, got %v", merged.Background)
	}
	if merged.MaxDepth != base.MaxDepth || merged.RussianRouletteQ != base.RussianRouletteQ {
		t.Errorf("Zero fields should keep base values, got %+v", merged)
	}
}

func TestEmptySceneRendersBackground(t *testing.T) {
	scene := buildScene(t)
	tests := []struct {
		name       string
		background core.Spectrum
	}{
		{"black", core.Spectrum{}},
		{"colored", core.NewSpectrum(0.1, 0.2, 0.3)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			cfg.Background = tt.background
			pt := mustPathTracer(t, cfg)
			got := pt.Integrate(scene, pixelAt(0.3, -0.7, 0.1), core.NewPCGSampler(1, 1))
			if got != tt.background {
				t.Errorf("Expected exactly %v, got %v", tt.background, got)
			}
		})
	}
}

func TestPixelInsideEmitterIsExact(t *testing.T) {
	scene := helloCircle(t)
	pt := mustPathTracer(t, DefaultConfig())
	sampler := core.NewPCGSampler(42, 42)

	for _, p := range []vec.Vec2{{X: 0, Y: 0}, {X: 0.5, Y: -0.5}, {X: -0.6, Y: 0.2}} {
		got := pt.Integrate(scene, pixelAt(p.X, p.Y, 0.125), sampler)
		if got != helloRadiance {
			t.Errorf("Pixel at %v: expected exactly %v, got %v", p, helloRadiance, got)
		}
	}
}

func TestDirectedRayMissesEmitter(t *testing.T) {
	scene := helloCircle(t)
	pt := mustPathTracer(t, DefaultConfig())

	ray := core.NewRay(core.Vec(3, 0), core.Vec(1, 0))
	if got := pt.Estimate(ray, scene, core.NewPCGSampler(0, 0)); got != (core.Spectrum{}) {
		t.Errorf("Expected zero radiance, got %v", got)
	}

	ray = core.NewRay(core.Vec(3, 0), core.Vec(-1, 0))
	if got := pt.Estimate(ray, scene, core.NewPCGSampler(0, 0)); got != helloRadiance {
		t.Errorf("Expected %v, got %v", helloRadiance, got)
	}
}

func TestOutsidePixelSeesAngularFraction(t *testing.T) {
	scene := helloCircle(t)
	cfg := DefaultConfig()
	cfg.SamplesPerPixel = 1024
	pt := mustPathTracer(t, cfg)

	// From distance 2 a unit circle spans 2*asin(1/2) = π/3 of the full turn
	got := pt.Integrate(scene, pixelAt(2, 0, 0.001), core.NewPCGSampler(3, 4))
	want := helloRadiance.Multiply(1.0 / 6)
	if math.Abs(got.B-want.B) > 0.01 || math.Abs(got.R-want.R) > 0.01 {
		t.Errorf("Expected about %v, got %v", want, got)
	}
}

func TestSampleCountsAgree(t *testing.T) {
	scene := helloCircle(t)
	const trials = 200
	pixel := pixelAt(1.5, 0.3, 0.05)

	stats := func(samples int) (mean, variance float64) {
		cfg := DefaultConfig()
		cfg.SamplesPerPixel = samples
		pt := mustPathTracer(t, cfg)
		var sum, sumSq float64
		for i := 0; i < trials; i++ {
			v := pt.Integrate(scene, pixel, core.NewPCGSampler(uint64(samples), uint64(i))).G
			sum += v
			sumSq += v * v
		}
		mean = sum / trials
		return mean, sumSq/trials - mean*mean
	}

	mean16, var16 := stats(16)
	mean256, var256 := stats(256)

	tolerance := 4 * math.Sqrt(var16/trials+var256/trials)
	if math.Abs(mean16-mean256) > tolerance {
		t.Errorf("Means disagree: 16 spp %f, 256 spp %f (tolerance %f)", mean16, mean256, tolerance)
	}
	if !(var256 < var16) {
		t.Errorf("Expected variance to shrink: 16 spp %g, 256 spp %g", var16, var256)
	}
}

// mirrorToLight is a mirror at x=1 that reflects a ray from the origin back
// into an emitter at x=-3
func mirrorToLight(t *testing.T, tint core.Spectrum) *entity.Tree {
	t.Helper()
	mirror, err := geometry.NewSegment(core.Vec(1, -1), core.Vec(1, 1))
	if err != nil {
		t.Fatalf("NewSegment: %v", err)
	}
	return buildScene(t,
		testLeaf{mirror, material.NewMirror(tint)},
		testLeaf{mustCircle(t, -3, 0, 0.5), material.NewEmissive(core.Gray(1))},
	)
}

func TestDepthCap(t *testing.T) {
	scene := mirrorToLight(t, core.Gray(1))
	ray := core.NewRay(core.Vec(0, 0), core.Vec(1, 0))

	tests := []struct {
		maxDepth int
		want     core.Spectrum
	}{
		{1, core.Spectrum{}},
		{2, core.Gray(1)},
		{10, core.Gray(1)},
	}

	for _, tt := range tests {
		cfg := DefaultConfig()
		cfg.MaxDepth = tt.maxDepth
		cfg.RussianRouletteQ = 0
		pt := mustPathTracer(t, cfg)
		if got := pt.Estimate(ray, scene, core.NewPCGSampler(0, 0)); got != tt.want {
			t.Errorf("MaxDepth %d: expected %v, got %v", tt.maxDepth, tt.want, got)
		}
	}
}

func TestRussianRouletteIsUnbiased(t *testing.T) {
	scene := mirrorToLight(t, core.Gray(0.8))
	ray := core.NewRay(core.Vec(0, 0), core.Vec(1, 0))

	cfg := DefaultConfig()
	cfg.RussianRouletteMinBounces = 1
	cfg.RussianRouletteQ = 0.5
	pt := mustPathTracer(t, cfg)
	sampler := core.NewPCGSampler(17, 19)

	const n = 20000
	terminated := 0
	sum := 0.0
	for i := 0; i < n; i++ {
		v := pt.Estimate(ray, scene, sampler).R
		switch {
		case v == 0:
			terminated++
		case math.Abs(v-1.6) > 1e-12:
			t.Fatalf("Surviving path should carry 0.8/(1-0.5) = 1.6, got %f", v)
		}
		sum += v
	}

	if mean := sum / n; math.Abs(mean-0.8) > 0.03 {
		t.Errorf("Expected mean 0.8, got %f", mean)
	}
	if fraction := float64(terminated) / n; math.Abs(fraction-0.5) > 0.02 {
		t.Errorf("Expected half the paths to terminate, got %f", fraction)
	}
}

func TestNonFiniteEstimatesAreDiscarded(t *testing.T) {
	// The right half of the circle emits NaN
	light := material.NewParametricEmissive(material.ColorFunc(func(p vec.Vec2) core.Spectrum {
		if p.X > 0 {
			return core.Gray(math.NaN())
		}
		return helloRadiance
	}))
	scene := buildScene(t, testLeaf{mustCircle(t, 0, 0, 1), light})
	pt := mustPathTracer(t, DefaultConfig())

	got := pt.Integrate(scene, pixelAt(0, 0, 0.01), core.NewPCGSampler(5, 6))
	if got != helloRadiance {
		t.Errorf("Expected %v from the finite estimates, got %v", helloRadiance, got)
	}

	allNaN := material.NewEmissive(core.Gray(math.NaN()))
	scene = buildScene(t, testLeaf{mustCircle(t, 0, 0, 1), allNaN})
	if got := pt.Integrate(scene, pixelAt(0, 0, 0.01), core.NewPCGSampler(5, 6)); got != (core.Spectrum{}) {
		t.Errorf("Expected zero when no estimate is finite, got %v", got)
	}
}

func TestStratifiedPositionsCoverPixel(t *testing.T) {
	// A recording scene returns the origins of the primary rays
	var origins []vec.Vec2
	recorder := sceneFunc(func(ray core.Ray) (entity.Hit, bool) {
		origins = append(origins, ray.Origin)
		return entity.Hit{}, false
	})

	cfg := DefaultConfig()
	cfg.SamplesPerPixel = 9
	pt := mustPathTracer(t, cfg)
	pt.Integrate(recorder, core.NewAABB(core.Vec(0, 0), core.Vec(3, 3)), core.NewPCGSampler(8, 9))

	if len(origins) != 9 {
		t.Fatalf("Expected 9 primary rays, got %d", len(origins))
	}
	var cells [3][3]int
	for _, o := range origins {
		cells[int(o.X)][int(o.Y)]++
	}
	for i := range cells {
		for j := range cells[i] {
			if cells[i][j] != 1 {
				t.Errorf("Cell (%d, %d) received %d samples, want 1", i, j, cells[i][j])
			}
		}
	}
}

type sceneFunc func(ray core.Ray) (entity.Hit, bool)

func (f sceneFunc) Intersect(ray core.Ray) (entity.Hit, bool) {
	return f(ray)
}
