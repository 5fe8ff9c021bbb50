package scene

import (
	"math"

	"github.com/df07/go-light2d/pkg/core"
	"github.com/df07/go-light2d/pkg/entity"
	"github.com/df07/go-light2d/pkg/material"
	"github.com/df07/go-light2d/pkg/renderer"
)

// oklchToRGB converts OKLCH color values to linear RGB
// L: lightness (0-1), C: chroma (0-0.4+), H: hue (0-360 degrees)
func oklchToRGB(l, c, h float64) core.Spectrum {
	hRad := h * math.Pi / 180.0

	// OKLCH to OKLAB
	a := c * math.Cos(hRad)
	b := c * math.Sin(hRad)

	// OKLAB to cone responses, cubed
	lc := l + 0.3963377774*a + 0.2158037573*b
	mc := l - 0.1055613458*a - 0.0638541728*b
	sc := l - 0.0894841775*a - 1.2914855480*b
	lc, mc, sc = lc*lc*lc, mc*mc*mc, sc*sc*sc

	return core.NewSpectrum(
		+4.0767416621*lc-3.3077115913*mc+0.2309699292*sc,
		-1.2684380046*lc+2.6097574011*mc-0.3413193965*sc,
		-0.0041960863*lc-0.7034186147*mc+1.7076147010*sc,
	).Clamp(0, 1)
}

// circleGridSize is the number of circles along each side of the grid
const circleGridSize = 10

// NewCircleGridScene creates a grid of colored circles. Hue varies along x
// and chroma along y; every seventh circle glows instead of reflecting.
func NewCircleGridScene() (*Scene, error) {
	s := newScene("circle-grid", "Grid of OKLCH-colored circles under a gray sky",
		renderer.NewRegion(-5.5, -5.5, 5.5, 5.5), 512, 512)
	s.Sampling.SamplesPerPixel = 32
	s.Sampling.MaxDepth = 20
	s.Sampling.Background = core.Gray(0.2)

	b := newBuilder()

	spacing := 1.0
	radius := spacing * 0.35 // 35% of spacing
	origin := -spacing * float64(circleGridSize-1) / 2

	// Keep lightness roughly constant for a uniform look
	baseLightness := 0.65
	minChroma, maxChroma := 0.05, 0.25

	rows := make([]entity.ID, 0, circleGridSize)
	for j := 0; j < circleGridSize; j++ {
		row := make([]entity.ID, 0, circleGridSize)
		for i := 0; i < circleGridSize; i++ {
			center := core.Vec(origin+float64(i)*spacing, origin+float64(j)*spacing)

			hue := float64(i) / float64(circleGridSize-1) * 360.0
			chroma := minChroma + float64(j)/float64(circleGridSize-1)*(maxChroma-minChroma)
			lightness := baseLightness + 0.1*math.Sin(float64(i+j)*0.5)
			color := oklchToRGB(lightness, chroma, hue)

			var mat material.Material
			switch (i*circleGridSize + j) % 7 {
			case 0:
				mat = material.NewEmissive(color.Multiply(4))
			case 3:
				mat = material.NewMirror(color)
			default:
				mat = material.NewDiffuse(color)
			}
			row = append(row, b.circle(center, radius, mat))
		}
		rows = append(rows, b.group(row...))
	}

	return b.finish(s, b.group(rows...))
}
