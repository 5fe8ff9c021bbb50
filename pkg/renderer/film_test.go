package renderer

import (
	"errors"
	"image"
	"math"
	"testing"

	"github.com/df07/go-light2d/pkg/core"
)

func TestRegionPixelBounds(t *testing.T) {
	region := NewRegion(-2, -1, 2, 1)

	tests := []struct {
		name     string
		x, y     int
		expected core.AABB
	}{
		{"top left", 0, 0, core.NewAABB(core.Vec(-2, 0.5), core.Vec(-1, 1))},
		{"bottom right", 3, 3, core.NewAABB(core.Vec(1, -1), core.Vec(2, -0.5))},
		{"interior", 1, 2, core.NewAABB(core.Vec(-1, -0.5), core.Vec(0, 0))},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := region.PixelBounds(tt.x, tt.y, 4, 4)
			if got != tt.expected {
				t.Errorf("Expected %v, got %v", tt.expected, got)
			}
		})
	}
}

func TestRegionValidate(t *testing.T) {
	tests := []struct {
		name    string
		region  Region
		wantErr bool
	}{
		{"valid", NewRegion(-1, -1, 1, 1), false},
		{"zero width", NewRegion(1, -1, 1, 1), true},
		{"inverted height", NewRegion(-1, 1, 1, -1), true},
		{"NaN", NewRegion(math.NaN(), -1, 1, 1), true},
		{"infinite", NewRegion(-1, -1, math.Inf(1), 1), true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.region.Validate()
			if tt.wantErr != errors.Is(err, ErrInvalidRegion) {
				t.Errorf("Validate() = %v, wantErr %t", err, tt.wantErr)
			}
		})
	}
}

func TestFilmToRGBA64(t *testing.T) {
	film := NewFilm(3, 1)
	film.Set(0, 0, core.NewSpectrum(0, 0.25, 1))
	film.Set(1, 0, core.NewSpectrum(2, -1, math.NaN()))
	film.Set(2, 0, core.Gray(0.25))

	linear := film.ToRGBA64(1)
	if c := linear.RGBA64At(0, 0); c.R != 0 || c.G != 16384 || c.B != 65535 || c.A != 65535 {
		t.Errorf("Unexpected linear pixel %v", c)
	}
	if c := linear.RGBA64At(1, 0); c.R != 65535 || c.G != 0 || c.B != 0 {
		t.Errorf("Expected clamped pixel, got %v", c)
	}

	gamma := film.ToRGBA64(2)
	if c := gamma.RGBA64At(2, 0); c.R != 32768 {
		t.Errorf("Expected sqrt(0.25) = 0.5, got %v", c)
	}
}

func TestFilmCopyTile(t *testing.T) {
	film := NewFilm(4, 3)
	bounds := image.Rect(1, 1, 3, 3)
	film.copyTile(bounds, []core.Spectrum{core.Gray(1), core.Gray(2), core.Gray(3), core.Gray(4)})

	expected := map[[2]int]float64{{1, 1}: 1, {2, 1}: 2, {1, 2}: 3, {2, 2}: 4}
	for y := 0; y < film.Height; y++ {
		for x := 0; x < film.Width; x++ {
			want := expected[[2]int{x, y}]
			if got := film.At(x, y).R; got != want {
				t.Errorf("Pixel (%d, %d): expected %g, got %g", x, y, want, got)
			}
		}
	}

	if mean := film.Mean().R; math.Abs(mean-10.0/12) > 1e-12 {
		t.Errorf("Expected mean %g, got %g", 10.0/12, mean)
	}
}
