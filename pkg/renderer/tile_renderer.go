package renderer

import (
	"context"
	"time"

	"github.com/df07/go-light2d/pkg/core"
	"github.com/df07/go-light2d/pkg/integrator"
)

// TileRenderer handles the actual rendering of individual tiles using an integrator
type TileRenderer struct {
	scene      integrator.Scene
	integrator integrator.Integrator
	region     Region
	width      int
	height     int
	seed       uint64
}

// NewTileRenderer creates a tile renderer for a width×height film over region
func NewTileRenderer(scene integrator.Scene, integ integrator.Integrator, region Region, width, height int, seed uint64) *TileRenderer {
	return &TileRenderer{
		scene:      scene,
		integrator: integ,
		region:     region,
		width:      width,
		height:     height,
		seed:       seed,
	}
}

// pixelSeed returns the PCG seed of pixel (x, y). Every pixel owns a stream,
// so the image does not depend on how the film is tiled or scheduled.
func pixelSeed(seed uint64, x, y, width int) (uint64, uint64) {
	return seed, core.SplitMix64(seed ^ uint64(y*width+x))
}

// RenderTile renders the pixels inside tile into a new row-major buffer of
// the tile's size. The context is checked once per row.
func (tr *TileRenderer) RenderTile(ctx context.Context, tile Tile, sampler *core.PCGSampler) ([]core.Spectrum, TileStats, error) {
	start := time.Now()
	bounds := tile.Bounds
	pixels := make([]core.Spectrum, 0, bounds.Dx()*bounds.Dy())

	for y := bounds.Min.Y; y < bounds.Max.Y; y++ {
		if err := ctx.Err(); err != nil {
			return nil, TileStats{}, err
		}
		for x := bounds.Min.X; x < bounds.Max.X; x++ {
			sampler.Reseed(pixelSeed(tr.seed, x, y, tr.width))
			pixel := tr.region.PixelBounds(x, y, tr.width, tr.height)
			pixels = append(pixels, tr.integrator.Integrate(tr.scene, pixel, sampler))
		}
	}

	stats := TileStats{
		Pixels:  len(pixels),
		Samples: len(pixels) * tr.integrator.Config().SamplesPerPixel,
		Elapsed: time.Since(start),
	}
	return pixels, stats, nil
}
