package renderer

import (
	"image"
	"image/color"
	"math"

	"github.com/df07/go-light2d/pkg/core"
)

// Film holds the rendered radiance of every pixel, row-major with row 0 at
// the top of the region
type Film struct {
	Width  int
	Height int
	Pixels []core.Spectrum
}

// NewFilm allocates a black film of the given size
func NewFilm(width, height int) *Film {
	return &Film{
		Width:  width,
		Height: height,
		Pixels: make([]core.Spectrum, width*height),
	}
}

// At returns the radiance of pixel (x, y)
func (f *Film) At(x, y int) core.Spectrum {
	return f.Pixels[y*f.Width+x]
}

// Set stores the radiance of pixel (x, y)
func (f *Film) Set(x, y int, value core.Spectrum) {
	f.Pixels[y*f.Width+x] = value
}

// copyTile writes a tile-sized buffer into the film
func (f *Film) copyTile(bounds image.Rectangle, pixels []core.Spectrum) {
	width := bounds.Dx()
	for y := bounds.Min.Y; y < bounds.Max.Y; y++ {
		row := pixels[(y-bounds.Min.Y)*width : (y-bounds.Min.Y+1)*width]
		copy(f.Pixels[y*f.Width+bounds.Min.X:], row)
	}
}

// Mean returns the average radiance over all pixels
func (f *Film) Mean() core.Spectrum {
	var sum core.Spectrum
	for _, p := range f.Pixels {
		sum = sum.Add(p)
	}
	if len(f.Pixels) == 0 {
		return sum
	}
	return sum.Multiply(1 / float64(len(f.Pixels)))
}

// ToRGBA64 converts the film to a 16-bit image. Channels are clamped to
// [0, 1] and raised to 1/gamma; a non-positive gamma means linear output.
func (f *Film) ToRGBA64(gamma float64) *image.RGBA64 {
	if !(gamma > 0) {
		gamma = 1
	}
	img := image.NewRGBA64(image.Rect(0, 0, f.Width, f.Height))
	for y := 0; y < f.Height; y++ {
		for x := 0; x < f.Width; x++ {
			c := f.At(x, y).Clamp(0, 1).GammaCorrect(gamma)
			img.SetRGBA64(x, y, color.RGBA64{
				R: to16(c.R),
				G: to16(c.G),
				B: to16(c.B),
				A: math.MaxUint16,
			})
		}
	}
	return img
}

// to16 maps a channel in [0, 1] to 16 bits. NaN maps to 0.
func to16(v float64) uint16 {
	if !(v > 0) {
		return 0
	}
	return uint16(math.Round(min(v, 1) * math.MaxUint16))
}
