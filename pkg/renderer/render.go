// Package renderer turns a scene and an integrator into a film. The film is
// split into tiles that a pool of workers renders in parallel.
package renderer

import (
	"context"
	"errors"
	"fmt"
	"image"
	"runtime"
	"time"

	"github.com/df07/go-light2d/pkg/core"
	"github.com/df07/go-light2d/pkg/integrator"
)

var (
	// ErrInvalidRegion is returned for an empty, inverted or non-finite region
	ErrInvalidRegion = errors.New("invalid region")
	// ErrInvalidFilmSize is returned for a film without pixels
	ErrInvalidFilmSize = errors.New("invalid film size")
	// ErrInvalidTiles is returned when the film cannot be split into the requested tiles
	ErrInvalidTiles = errors.New("invalid tile count")
)

// DefaultLogger implements core.Logger by writing to stdout
type DefaultLogger struct{}

func (dl *DefaultLogger) Printf(format string, args ...interface{}) {
	fmt.Printf(format, args...)
}

// NewDefaultLogger creates a new default logger
func NewDefaultLogger() core.Logger {
	return &DefaultLogger{}
}

// Options contains settings that do not change the rendered image, apart
// from the seed
type Options struct {
	Workers int         // Number of parallel workers (0 = auto-detect)
	Seed    uint64      // Seed of every pixel's random stream
	Logger  core.Logger // Progress output, nil for none
}

// DefaultOptions returns the options used by the command line driver
func DefaultOptions() Options {
	return Options{
		Workers: 0,
		Seed:    42,
	}
}

// Render renders region onto a film of the given size using nTiles tiles.
// All arguments are validated before any work starts. The result depends on
// opts.Seed but not on nTiles or opts.Workers. If ctx is cancelled the render
// stops and returns ctx.Err().
func Render(ctx context.Context, scene integrator.Scene, integ integrator.Integrator, region Region, size image.Point, nTiles int, opts Options) (*Film, RenderStats, error) {
	logger := core.LoggerOrNop(opts.Logger)

	if err := region.Validate(); err != nil {
		return nil, RenderStats{}, err
	}
	if size.X < 1 || size.Y < 1 {
		return nil, RenderStats{}, fmt.Errorf("%w: %dx%d", ErrInvalidFilmSize, size.X, size.Y)
	}
	tiles, err := NewTileGrid(size.X, size.Y, nTiles)
	if err != nil {
		return nil, RenderStats{}, err
	}
	if err := ctx.Err(); err != nil {
		return nil, RenderStats{}, err
	}

	film := NewFilm(size.X, size.Y)
	tileRenderer := NewTileRenderer(scene, integ, region, size.X, size.Y, opts.Seed)

	workers := opts.Workers
	if workers <= 0 {
		workers = runtime.NumCPU()
	}
	workers = min(workers, len(tiles))
	pool := NewWorkerPool(tileRenderer, len(tiles), workers)
	stats := RenderStats{Tiles: len(tiles), Workers: pool.GetNumWorkers()}

	logger.Printf("Rendering %dx%d in %d tiles using %d workers...\n", size.X, size.Y, len(tiles), stats.Workers)
	start := time.Now()

	pool.Start(ctx)
	for _, tile := range tiles {
		pool.SubmitTask(TileTask{Tile: tile})
	}

	var renderErr error
	for completed := 1; completed <= len(tiles); completed++ {
		result, _ := pool.GetResult()
		if result.Error != nil {
			if renderErr == nil {
				renderErr = result.Error
			}
			continue
		}
		film.copyTile(result.Tile.Bounds, result.Pixels)
		stats.add(result.Stats)
		logger.Printf("Tile %d/%d (id %d) completed in %v\n", completed, len(tiles), result.Tile.ID, result.Stats.Elapsed)
	}
	pool.Stop()

	stats.Elapsed = time.Since(start)
	if renderErr != nil {
		logger.Printf("Rendering cancelled: %v\n", renderErr)
		return nil, stats, renderErr
	}

	logger.Printf("Render completed in %v (%d samples)\n", stats.Elapsed, stats.TotalSamples)
	return film, stats, nil
}
