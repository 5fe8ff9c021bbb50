package loaders

import (
	"errors"
	"fmt"
	"image"
	"image/color"
	"image/png"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/df07/go-light2d/pkg/renderer"
	"golang.org/x/image/tiff"
)

// ErrUnsupportedFormat is returned by SaveImage for unknown file extensions
var ErrUnsupportedFormat = errors.New("unsupported image format")

// EncodePNG writes the film as an 8-bit RGBA PNG
func EncodePNG(w io.Writer, film *renderer.Film, gamma float64) error {
	deep := film.ToRGBA64(gamma)
	img := image.NewRGBA(deep.Bounds())
	for y := 0; y < film.Height; y++ {
		for x := 0; x < film.Width; x++ {
			c := deep.RGBA64At(x, y)
			img.SetRGBA(x, y, color.RGBA{R: to8(c.R), G: to8(c.G), B: to8(c.B), A: 255})
		}
	}
	return png.Encode(w, img)
}

// to8 rounds a 16-bit channel to 8 bits
func to8(v uint16) uint8 {
	return uint8((uint32(v)*255 + 32767) / 65535)
}

// EncodeTIFF writes the film as a 16-bit Deflate-compressed TIFF
func EncodeTIFF(w io.Writer, film *renderer.Film, gamma float64) error {
	return tiff.Encode(w, film.ToRGBA64(gamma), &tiff.Options{
		Compression: tiff.Deflate,
		Predictor:   true,
	})
}

// SavePNG writes the film to path as PNG
func SavePNG(path string, film *renderer.Film, gamma float64) error {
	return saveWith(path, film, gamma, EncodePNG)
}

// SaveTIFF writes the film to path as 16-bit TIFF
func SaveTIFF(path string, film *renderer.Film, gamma float64) error {
	return saveWith(path, film, gamma, EncodeTIFF)
}

// SaveImage writes the film in the format given by the extension of path:
// .png, .tif or .tiff
func SaveImage(path string, film *renderer.Film, gamma float64) error {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".png":
		return SavePNG(path, film, gamma)
	case ".tif", ".tiff":
		return SaveTIFF(path, film, gamma)
	default:
		return fmt.Errorf("%w: %q", ErrUnsupportedFormat, filepath.Ext(path))
	}
}

func saveWith(path string, film *renderer.Film, gamma float64, encode func(io.Writer, *renderer.Film, float64) error) error {
	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("error creating file: %w", err)
	}

	if err := encode(file, film, gamma); err != nil {
		file.Close()
		return fmt.Errorf("error encoding %s: %w", path, err)
	}
	return file.Close()
}
