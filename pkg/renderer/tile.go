package renderer

import (
	"fmt"
	"image"
	"math"
)

// Tile represents a rectangular region of pixels rendered as one task
type Tile struct {
	ID     int             // Row-major position in the grid
	Bounds image.Rectangle // Pixel bounds (x0,y0,x1,y1)
}

// NewTileGrid splits a width×height film into exactly nTiles tiles. When a
// divisor pair cols×rows = nTiles fits the film, the grid is the pair whose
// aspect ratio is closest to the film's; ties prefer more columns. Otherwise
// the tiles are laid out in rows of ⌊nTiles/rows⌋ or ⌈nTiles/rows⌉ columns,
// with the wider rows first.
func NewTileGrid(width, height, nTiles int) ([]Tile, error) {
	if width < 1 || height < 1 {
		return nil, fmt.Errorf("%w: %dx%d", ErrInvalidFilmSize, width, height)
	}
	if nTiles < 1 {
		return nil, fmt.Errorf("%w: need at least one tile, got %d", ErrInvalidTiles, nTiles)
	}
	if nTiles > width*height {
		return nil, fmt.Errorf("%w: %d tiles for %d pixels", ErrInvalidTiles, nTiles, width*height)
	}

	rowCols := rowLayout(width, height, nTiles)
	rows := len(rowCols)

	tiles := make([]Tile, 0, nTiles)
	for j, cols := range rowCols {
		y0, y1 := j*height/rows, (j+1)*height/rows
		for i := 0; i < cols; i++ {
			x0, x1 := i*width/cols, (i+1)*width/cols
			tiles = append(tiles, Tile{
				ID:     len(tiles),
				Bounds: image.Rect(x0, y0, x1, y1),
			})
		}
	}
	return tiles, nil
}

// rowLayout returns the number of tile columns in each row. The caller
// guarantees 1 ≤ nTiles ≤ width·height.
func rowLayout(width, height, nTiles int) []int {
	cols, rows, ok := chooseGrid(width, height, nTiles)
	if !ok {
		// Keep tiles near square, with no row wider than the film
		rows = int(math.Round(math.Sqrt(float64(nTiles) * float64(height) / float64(width))))
		rows = max(rows, (nTiles+width-1)/width)
		rows = min(rows, height, nTiles)
	}

	layout := make([]int, rows)
	for j := range layout {
		if ok {
			layout[j] = cols
			continue
		}
		layout[j] = nTiles / rows
		if j < nTiles%rows {
			layout[j]++
		}
	}
	return layout
}

// chooseGrid picks the exact divisor grid for NewTileGrid, if any fits
func chooseGrid(width, height, nTiles int) (cols, rows int, ok bool) {
	target := math.Log(float64(width) / float64(height))
	bestScore := math.Inf(1)

	// Walk columns upward so a tie keeps the later, wider grid
	for c := 1; c <= nTiles; c++ {
		if nTiles%c != 0 {
			continue
		}
		r := nTiles / c
		if c > width || r > height {
			continue
		}
		score := math.Abs(math.Log(float64(c)/float64(r)) - target)
		if score <= bestScore+1e-12 {
			cols, rows, bestScore, ok = c, r, score, true
		}
	}
	return cols, rows, ok
}
