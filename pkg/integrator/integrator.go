package integrator

import (
	"errors"
	"fmt"

	"github.com/df07/go-light2d/pkg/core"
	"github.com/df07/go-light2d/pkg/entity"
)

// ErrInvalidConfig is returned for integrator configurations that cannot render
var ErrInvalidConfig = errors.New("invalid integrator configuration")

// Scene is the geometry an integrator traces rays against.
// *entity.Tree implements it.
type Scene interface {
	Intersect(ray core.Ray) (entity.Hit, bool)
}

// Integrator defines the interface for light transport algorithms
type Integrator interface {
	// Integrate returns the average radiance arriving at the pixel whose
	// world-space footprint is pixel
	Integrate(scene Scene, pixel core.AABB, sampler core.Sampler) core.Spectrum

	// Config returns the settings the integrator renders with
	Config() Config
}

// Config contains the sampling settings of the path tracer
type Config struct {
	SamplesPerPixel           int           // Estimates averaged per pixel
	MaxDepth                  int           // Maximum surface interactions per path
	RussianRouletteMinBounces int           // Bounces before Russian roulette may end a path
	RussianRouletteQ          float64       // Termination probability per bounce after that
	Background                core.Spectrum // Radiance of rays that escape the scene
}

// DefaultConfig returns the settings used unless a scene or flag overrides them
func DefaultConfig() Config {
	return Config{
		SamplesPerPixel:           16,
		MaxDepth:                  50,
		RussianRouletteMinBounces: 3,
		RussianRouletteQ:          0.05,
	}
}

// MergeConfig returns base with every non-zero field of override applied
func MergeConfig(base, override Config) Config {
	result := base
	if override.SamplesPerPixel != 0 {
		result.SamplesPerPixel = override.SamplesPerPixel
	}
	if override.MaxDepth != 0 {
		result.MaxDepth = override.MaxDepth
	}
	if override.RussianRouletteMinBounces != 0 {
		result.RussianRouletteMinBounces = override.RussianRouletteMinBounces
	}
	if override.RussianRouletteQ != 0 {
		result.RussianRouletteQ = override.RussianRouletteQ
	}
	if override.Background != (core.Spectrum{}) {
		result.Background = override.Background
	}
	return result
}

// Validate checks that the configuration can be rendered with
func (c Config) Validate() error {
	if c.SamplesPerPixel < 1 {
		return fmt.Errorf("%w: samples per pixel must be at least 1, got %d", ErrInvalidConfig, c.SamplesPerPixel)
	}
	if c.MaxDepth < 1 {
		return fmt.Errorf("%w: max depth must be at least 1, got %d", ErrInvalidConfig, c.MaxDepth)
	}
	if c.RussianRouletteMinBounces < 0 {
		return fmt.Errorf("%w: russian roulette min bounces must not be negative, got %d", ErrInvalidConfig, c.RussianRouletteMinBounces)
	}
	if !(c.RussianRouletteQ >= 0 && c.RussianRouletteQ < 1) {
		return fmt.Errorf("%w: russian roulette probability must be in [0, 1), got %g", ErrInvalidConfig, c.RussianRouletteQ)
	}
	if !c.Background.IsFinite() {
		return fmt.Errorf("%w: background must be finite, got %v", ErrInvalidConfig, c.Background)
	}
	return nil
}
