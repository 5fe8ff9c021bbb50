// Package scene assembles renderable scenes: the built-in demo scenes and
// scenes loaded from JSON files.
package scene

import (
	"fmt"

	"github.com/df07/go-light2d/pkg/core"
	"github.com/df07/go-light2d/pkg/entity"
	"github.com/df07/go-light2d/pkg/geometry"
	"github.com/df07/go-light2d/pkg/integrator"
	"github.com/df07/go-light2d/pkg/kdtree"
	"github.com/df07/go-light2d/pkg/material"
	"github.com/df07/go-light2d/pkg/renderer"
	"seehuhn.de/go/geom/vec"
)

// Scene contains all the elements needed for rendering
type Scene struct {
	Name        string
	Description string
	Tree        *entity.Tree      // Everything that can be hit
	Region      renderer.Region   // World rectangle shown on the film
	Width       int               // Film width in pixels
	Height      int               // Film height in pixels
	Tiles       int               // Number of render tiles
	Sampling    integrator.Config // Path tracer settings
	KDTree      kdtree.Config     // Acceleration structure settings
}

// newScene returns a scene with default render settings
func newScene(name, description string, region renderer.Region, width, height int) *Scene {
	return &Scene{
		Name:        name,
		Description: description,
		Region:      region,
		Width:       width,
		Height:      height,
		Tiles:       16,
		Sampling:    integrator.DefaultConfig(),
		KDTree:      kdtree.DefaultConfig(),
	}
}

// String summarizes the scene for logging
func (s *Scene) String() string {
	stats := s.Tree.Stats()
	return fmt.Sprintf("%s: %d entities in %d groups, %dx%d px, %d spp",
		s.Name, stats.Leaves, stats.Composites, s.Width, s.Height, s.Sampling.SamplesPerPixel)
}

// builder wraps entity.Builder and keeps the first shape or material
// construction error, so scenes can be written without checking every call
type builder struct {
	entities *entity.Builder
	err      error
}

func newBuilder() *builder {
	return &builder{entities: entity.NewBuilder()}
}

func (b *builder) fail(err error) {
	if b.err == nil {
		b.err = err
	}
}

// leaf adds shape with mat, or an empty entity if shape could not be built
func (b *builder) leaf(shape geometry.Shape, err error, mat material.Material) entity.ID {
	if err != nil {
		b.fail(err)
		return b.entities.Empty()
	}
	return b.entities.Leaf(shape, mat)
}

func (b *builder) circle(center vec.Vec2, radius float64, mat material.Material) entity.ID {
	shape, err := geometry.NewCircle(center, radius)
	return b.leaf(shape, err, mat)
}

func (b *builder) segment(from, to vec.Vec2, mat material.Material) entity.ID {
	shape, err := geometry.NewSegment(from, to)
	return b.leaf(shape, err, mat)
}

func (b *builder) polygon(mat material.Material, vertices ...vec.Vec2) entity.ID {
	shape, err := geometry.NewPolygon(vertices...)
	return b.leaf(shape, err, mat)
}

func (b *builder) rectangle(min, max vec.Vec2, mat material.Material) entity.ID {
	shape, err := geometry.NewRectangle(min, max)
	return b.leaf(shape, err, mat)
}

func (b *builder) regularPolygon(center vec.Vec2, radius float64, sides int, phase float64, mat material.Material) entity.ID {
	shape, err := geometry.NewRegularPolygon(center, radius, sides, phase)
	return b.leaf(shape, err, mat)
}

func (b *builder) transparent(index float64, absorption core.Spectrum) material.Material {
	m, err := material.NewTransparent(index, absorption)
	if err != nil {
		b.fail(err)
		return material.NewMirror(core.Spectrum{})
	}
	return m
}

func (b *builder) group(children ...entity.ID) entity.ID {
	if len(children) == 0 {
		return b.entities.Empty()
	}
	return b.entities.Composite(children...)
}

// finish builds the entity tree below root into s
func (b *builder) finish(s *Scene, root entity.ID) (*Scene, error) {
	if b.err != nil {
		return nil, fmt.Errorf("scene %s: %w", s.Name, b.err)
	}
	tree, err := b.entities.Build(root, s.KDTree)
	if err != nil {
		return nil, fmt.Errorf("scene %s: %w", s.Name, err)
	}
	s.Tree = tree
	return s, nil
}
