package renderer

import "time"

// RenderStats contains statistics about the rendering process
type RenderStats struct {
	TotalPixels  int           // Total number of pixels rendered
	TotalSamples int           // Total number of samples taken
	Tiles        int           // Number of tiles the film was split into
	Workers      int           // Number of workers that rendered tiles
	Elapsed      time.Duration // Wall time from dispatch to join
}

// SamplesPerSecond returns the sampling throughput of the render
func (s RenderStats) SamplesPerSecond() float64 {
	if s.Elapsed <= 0 {
		return 0
	}
	return float64(s.TotalSamples) / s.Elapsed.Seconds()
}

// TileStats contains statistics for a single rendered tile
type TileStats struct {
	Pixels  int
	Samples int
	Elapsed time.Duration
}

// add folds a finished tile into the render totals
func (s *RenderStats) add(tile TileStats) {
	s.TotalPixels += tile.Pixels
	s.TotalSamples += tile.Samples
}
