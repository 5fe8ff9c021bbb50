package material

import (
	"fmt"
	"math"

	"github.com/df07/go-light2d/pkg/core"
	"seehuhn.de/go/geom/vec"
)

// ColorSource provides spatially-varying colors for materials
type ColorSource interface {
	// Evaluate returns the color at the given world-space point
	Evaluate(point vec.Vec2) core.Spectrum
}

// SolidColor provides uniform color
type SolidColor struct {
	Color core.Spectrum
}

// NewSolidColor creates a new solid color source
func NewSolidColor(color core.Spectrum) *SolidColor {
	return &SolidColor{Color: color}
}

// Evaluate returns the solid color regardless of position
func (s *SolidColor) Evaluate(point vec.Vec2) core.Spectrum {
	return s.Color
}

// LinearGradient interpolates between two colors along the line From→To.
// Points are projected onto that line and clamped to its ends.
type LinearGradient struct {
	From, To           vec.Vec2
	FromColor, ToColor core.Spectrum
}

// NewLinearGradient creates a gradient from fromColor at from to toColor at to
func NewLinearGradient(from, to vec.Vec2, fromColor, toColor core.Spectrum) *LinearGradient {
	return &LinearGradient{From: from, To: to, FromColor: fromColor, ToColor: toColor}
}

// Evaluate returns the interpolated color at point
func (g *LinearGradient) Evaluate(point vec.Vec2) core.Spectrum {
	axis := g.To.Sub(g.From)
	lengthSquared := axis.Dot(axis)
	if lengthSquared == 0 {
		return g.FromColor
	}
	t := point.Sub(g.From).Dot(axis) / lengthSquared
	t = max(0, min(1, t))
	return g.FromColor.Multiply(1 - t).Add(g.ToColor.Multiply(t))
}

// ColorFunc adapts a plain function to the ColorSource interface
type ColorFunc func(point vec.Vec2) core.Spectrum

// Evaluate calls f(point)
func (f ColorFunc) Evaluate(point vec.Vec2) core.Spectrum {
	return f(point)
}

// ImageColor maps an image onto a world-space rectangle. The top row of the
// image lies along the top edge of the rectangle. Points outside the
// rectangle take the color of the nearest edge pixel.
type ImageColor struct {
	Bounds core.AABB
	Width  int
	Height int
	Pixels []core.Spectrum // Row-major, Width*Height entries
}

// NewImageColor creates an image color source over bounds
func NewImageColor(bounds core.AABB, width, height int, pixels []core.Spectrum) (*ImageColor, error) {
	if width < 1 || height < 1 || len(pixels) != width*height {
		return nil, fmt.Errorf("%w: image of %dx%d with %d pixels", ErrInvalidMaterial, width, height, len(pixels))
	}
	size := bounds.Size()
	if !(size.X > 0) || !(size.Y > 0) {
		return nil, fmt.Errorf("%w: image bounds must have positive area, got %v", ErrInvalidMaterial, bounds)
	}
	return &ImageColor{Bounds: bounds, Width: width, Height: height, Pixels: pixels}, nil
}

// Evaluate returns the color of the pixel under point
func (c *ImageColor) Evaluate(point vec.Vec2) core.Spectrum {
	size := c.Bounds.Size()
	u := (point.X - c.Bounds.LLx) / size.X
	v := (c.Bounds.URy - point.Y) / size.Y
	x := max(0, min(c.Width-1, int(math.Floor(u*float64(c.Width)))))
	y := max(0, min(c.Height-1, int(math.Floor(v*float64(c.Height)))))
	return c.Pixels[y*c.Width+x]
}
