// Package diagram draws the geometry of a scene as a vector PDF page, as a
// quick preview that needs no rendering.
package diagram

import (
	"fmt"

	"github.com/df07/go-light2d/pkg/core"
	"github.com/df07/go-light2d/pkg/entity"
	"github.com/df07/go-light2d/pkg/geometry"
	"github.com/df07/go-light2d/pkg/material"
	"github.com/df07/go-light2d/pkg/renderer"
	"seehuhn.de/go/geom/matrix"
	"seehuhn.de/go/pdf"
	"seehuhn.de/go/pdf/document"
	"seehuhn.de/go/pdf/graphics/color"
)

// kappa places the control points of a cubic Bézier quarter circle
const kappa = 0.5522847498307936

// Canvas is the part of a PDF page's drawing API the diagram uses
type Canvas interface {
	SetFillColor(c color.Color)
	SetStrokeColor(c color.Color)
	SetLineWidth(width float64)
	Transform(m matrix.Matrix)
	Rectangle(x, y, width, height float64)
	MoveTo(x, y float64)
	LineTo(x, y float64)
	CurveTo(x1, y1, x2, y2, x3, y3 float64)
	ClosePath()
	Fill()
	Stroke()
}

// Options controls the page layout
type Options struct {
	Scale     float64 // Points per world unit
	LineWidth float64 // Outline width in points
}

// DefaultOptions returns a 72 points per unit layout
func DefaultOptions() Options {
	return Options{Scale: 72, LineWidth: 1.5}
}

// style is how one entity is painted
type style struct {
	gray float64
	fill bool
}

// styleFor picks the paint of a leaf. Lights are white, diffuse surfaces gray
// by albedo, and mirrors and glass are drawn as outlines.
func styleFor(mat material.Material, at core.AABB) style {
	switch m := mat.(type) {
	case *material.Emissive:
		return style{gray: 1, fill: true}
	case *material.Diffuse:
		albedo := m.Albedo.Evaluate(at.Center()).Clamp(0, 1)
		return style{gray: 0.25 + 0.5*albedo.Luminance(), fill: true}
	case *material.Mirror:
		return style{gray: 0.9}
	default:
		return style{gray: 0.6}
	}
}

// Draw paints every leaf of tree onto c. The page is assumed to have the
// size of region at opts.Scale, with its origin at the lower left.
func Draw(c Canvas, tree *entity.Tree, region renderer.Region, opts Options) {
	width := (region.URx - region.LLx) * opts.Scale
	height := (region.URy - region.LLy) * opts.Scale

	c.SetFillColor(color.DeviceGray(0))
	c.Rectangle(0, 0, width, height)
	c.Fill()

	// World coordinates from here on
	s := opts.Scale
	c.Transform(matrix.Matrix{s, 0, 0, s, -region.LLx * s, -region.LLy * s})
	c.SetLineWidth(opts.LineWidth / s)

	for _, id := range tree.Leaves() {
		shape := tree.Shape(id)
		st := styleFor(tree.Material(id), shape.BoundingBox())

		// Colours cannot change while a path is open
		if st.fill && encloses(shape) {
			c.SetFillColor(color.DeviceGray(st.gray))
			tracePath(c, shape)
			c.Fill()
		} else {
			c.SetStrokeColor(color.DeviceGray(st.gray))
			tracePath(c, shape)
			c.Stroke()
		}
	}
}

// encloses reports whether the outline traced for shape bounds an area
func encloses(shape geometry.Shape) bool {
	switch shape.(type) {
	case *geometry.Circle, *geometry.Polygon:
		return true
	}
	return false
}

// tracePath adds the outline of shape to the current path
func tracePath(c Canvas, shape geometry.Shape) {
	switch s := shape.(type) {
	case *geometry.Circle:
		x, y, r := s.Center.X, s.Center.Y, s.Radius
		k := kappa * r
		c.MoveTo(x+r, y)
		c.CurveTo(x+r, y+k, x+k, y+r, x, y+r)
		c.CurveTo(x-k, y+r, x-r, y+k, x-r, y)
		c.CurveTo(x-r, y-k, x-k, y-r, x, y-r)
		c.CurveTo(x+k, y-r, x+r, y-k, x+r, y)
		c.ClosePath()

	case *geometry.Segment:
		c.MoveTo(s.A.X, s.A.Y)
		c.LineTo(s.B.X, s.B.Y)

	case *geometry.Polygon:
		for i, v := range s.Vertices {
			if i == 0 {
				c.MoveTo(v.X, v.Y)
			} else {
				c.LineTo(v.X, v.Y)
			}
		}
		c.ClosePath()

	default:
		// Unknown shapes are outlined by their bounding box
		box := shape.BoundingBox()
		size := box.Size()
		c.Rectangle(box.LLx, box.LLy, size.X, size.Y)
	}
}

// WritePDF writes a single-page PDF diagram of tree to path
func WritePDF(path string, tree *entity.Tree, region renderer.Region, opts Options) error {
	if err := region.Validate(); err != nil {
		return err
	}
	if !(opts.Scale > 0) {
		return fmt.Errorf("diagram scale must be positive, got %g", opts.Scale)
	}

	paper := &pdf.Rectangle{
		URx: (region.URx - region.LLx) * opts.Scale,
		URy: (region.URy - region.LLy) * opts.Scale,
	}
	page, err := document.CreateSinglePage(path, paper, pdf.V1_7, nil)
	if err != nil {
		return fmt.Errorf("failed to create diagram: %w", err)
	}

	Draw(page, tree, region, opts)
	return page.Close()
}
