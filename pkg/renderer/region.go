package renderer

import (
	"fmt"
	"math"

	"github.com/df07/go-light2d/pkg/core"
	"seehuhn.de/go/geom/rect"
)

// Region is the world-space rectangle mapped onto the film. Its top edge
// (URy) maps to row 0 and its left edge (LLx) to column 0.
type Region struct {
	rect.Rect
}

// NewRegion creates a region from its corner coordinates
func NewRegion(xMin, yMin, xMax, yMax float64) Region {
	return Region{rect.Rect{LLx: xMin, LLy: yMin, URx: xMax, URy: yMax}}
}

// Validate reports an error wrapping ErrInvalidRegion unless the region is
// finite and has positive width and height
func (r Region) Validate() error {
	for _, v := range [4]float64{r.LLx, r.LLy, r.URx, r.URy} {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return fmt.Errorf("%w: non-finite coordinate in %v", ErrInvalidRegion, r.Rect)
		}
	}
	if !(r.LLx < r.URx) || !(r.LLy < r.URy) {
		return fmt.Errorf("%w: need xMin < xMax and yMin < yMax, got (%g, %g)-(%g, %g)",
			ErrInvalidRegion, r.LLx, r.LLy, r.URx, r.URy)
	}
	return nil
}

// PixelBounds returns the world-space footprint of pixel (x, y) on a film of
// the given size
func (r Region) PixelBounds(x, y, width, height int) core.AABB {
	dx := (r.URx - r.LLx) / float64(width)
	dy := (r.URy - r.LLy) / float64(height)
	return core.NewAABB(
		core.Vec(r.LLx+float64(x)*dx, r.URy-float64(y+1)*dy),
		core.Vec(r.LLx+float64(x+1)*dx, r.URy-float64(y)*dy),
	)
}
