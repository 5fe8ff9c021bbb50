package scene

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"math"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/df07/go-light2d/pkg/core"
	"github.com/df07/go-light2d/pkg/entity"
	"github.com/df07/go-light2d/pkg/geometry"
	"github.com/df07/go-light2d/pkg/integrator"
	"github.com/df07/go-light2d/pkg/loaders"
	"github.com/df07/go-light2d/pkg/material"
	"github.com/df07/go-light2d/pkg/renderer"
	"seehuhn.de/go/geom/vec"
)

// ErrInvalidScene is returned when a JSON scene cannot be turned into a scene
var ErrInvalidScene = errors.New("invalid scene")

// Point is a 2-D point in JSON form, [x, y]
type Point [2]float64

func (p Point) vec() vec.Vec2 { return core.Vec(p[0], p[1]) }

// RGB is a color in JSON form, [r, g, b]
type RGB [3]float64

func (c RGB) spectrum() core.Spectrum { return core.NewSpectrum(c[0], c[1], c[2]) }

// Config is the JSON form of a scene file
type Config struct {
	Name        string                 `json:"name,omitempty"`
	Description string                 `json:"description,omitempty"`
	Group       string                 `json:"group,omitempty"` // Discovery category only
	Region      [4]float64             `json:"region"`          // xMin, yMin, xMax, yMax
	Width       int                    `json:"width"`
	Height      int                    `json:"height"`
	Tiles       int                    `json:"tiles,omitempty"`
	Sampling    SamplingCfg            `json:"sampling"`
	KDTree      KDTreeCfg              `json:"kdtree"`
	Materials   map[string]MaterialCfg `json:"materials"`
	Entities    []EntityCfg            `json:"entities"`
}

// SamplingCfg overrides the default path tracer settings; zero fields keep
// their defaults
type SamplingCfg struct {
	SamplesPerPixel    int     `json:"samplesPerPixel,omitempty"`
	MaxDepth           int     `json:"maxDepth,omitempty"`
	RouletteMinBounces int     `json:"rouletteMinBounces,omitempty"`
	RouletteQ          float64 `json:"rouletteQ,omitempty"`
	Background         RGB     `json:"background"`
}

// KDTreeCfg overrides the default acceleration settings
type KDTreeCfg struct {
	LeafSize int  `json:"leafSize,omitempty"`
	MaxDepth *int `json:"maxDepth,omitempty"` // 0 is meaningful, so absent means default
}

// MaterialCfg describes one named material.
// Type is one of "emissive", "diffuse", "mirror" or "transparent".
type MaterialCfg struct {
	Type       string    `json:"type"`
	Color      *ColorCfg `json:"color,omitempty"`      // Radiance, albedo or tint
	OneSided   bool      `json:"oneSided,omitempty"`   // emissive
	Sampling   string    `json:"sampling,omitempty"`   // diffuse: "cosine" (default) or "uniform"
	Index      float64   `json:"index,omitempty"`      // transparent
	Absorption RGB       `json:"absorption"`           // transparent
}

// ColorCfg is a color source. Exactly one field must be set.
type ColorCfg struct {
	RGB      *RGB         `json:"rgb,omitempty"`
	Gradient *GradientCfg `json:"gradient,omitempty"`
	Image    *ImageCfg    `json:"image,omitempty"`
}

// GradientCfg is a linear gradient between two points
type GradientCfg struct {
	From      Point `json:"from"`
	To        Point `json:"to"`
	FromColor RGB   `json:"fromColor"`
	ToColor   RGB   `json:"toColor"`
}

// ImageCfg maps an image file onto a world rectangle
type ImageCfg struct {
	Path   string      `json:"path"`             // Relative to the scene file
	Bounds *[4]float64 `json:"bounds,omitempty"` // Defaults to the scene region
}

// EntityCfg is either a leaf (Shape and Material) or a group
type EntityCfg struct {
	Shape    *ShapeCfg   `json:"shape,omitempty"`
	Material string      `json:"material,omitempty"`
	Group    []EntityCfg `json:"group,omitempty"`
}

// ShapeCfg describes a shape. Type is one of "circle", "segment", "polygon",
// "rectangle" or "regularPolygon".
type ShapeCfg struct {
	Type     string  `json:"type"`
	Center   Point   `json:"center"`
	Radius   float64 `json:"radius,omitempty"`
	From     Point   `json:"from"`
	To       Point   `json:"to"`
	Vertices []Point `json:"vertices,omitempty"`
	Min      Point   `json:"min"`
	Max      Point   `json:"max"`
	Sides    int     `json:"sides,omitempty"`
	PhaseDeg float64 `json:"phaseDeg,omitempty"`
}

// LoadJSON reads a scene file. Image paths are resolved against the file's
// directory and the scene name defaults to the file name.
func LoadJSON(path string) (*Scene, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open scene file: %w", err)
	}
	defer file.Close()

	cfg, err := decodeConfig(file)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	if cfg.Name == "" {
		base := filepath.Base(path)
		cfg.Name = strings.TrimSuffix(base, filepath.Ext(base))
	}
	s, err := cfg.Build(filepath.Dir(path))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return s, nil
}

// ParseJSON reads a scene from r. Image paths are resolved against the
// working directory.
func ParseJSON(r io.Reader) (*Scene, error) {
	cfg, err := decodeConfig(r)
	if err != nil {
		return nil, err
	}
	return cfg.Build(".")
}

func decodeConfig(r io.Reader) (*Config, error) {
	dec := json.NewDecoder(r)
	dec.DisallowUnknownFields()

	var cfg Config
	if err := dec.Decode(&cfg); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidScene, err)
	}
	return &cfg, nil
}

// invalid reports a problem at the given JSON path
func invalid(path string, format string, args ...interface{}) error {
	return fmt.Errorf("%w: %s: %s", ErrInvalidScene, path, fmt.Sprintf(format, args...))
}

// Build validates the configuration and constructs the scene
func (c *Config) Build(baseDir string) (*Scene, error) {
	region := renderer.NewRegion(c.Region[0], c.Region[1], c.Region[2], c.Region[3])
	if err := region.Validate(); err != nil {
		return nil, invalid("region", "%v", err)
	}
	if c.Width <= 0 || c.Height <= 0 {
		return nil, invalid("width", "film size must be positive, got %dx%d", c.Width, c.Height)
	}

	name := c.Name
	if name == "" {
		name = "untitled"
	}
	s := newScene(name, c.Description, region, c.Width, c.Height)
	if c.Tiles < 0 {
		return nil, invalid("tiles", "must not be negative, got %d", c.Tiles)
	}
	if c.Tiles > 0 {
		s.Tiles = c.Tiles
	}

	s.Sampling = c.Sampling.merge(s.Sampling)
	if err := s.Sampling.Validate(); err != nil {
		return nil, invalid("sampling", "%v", err)
	}
	if c.KDTree.LeafSize != 0 {
		s.KDTree.LeafSize = c.KDTree.LeafSize
	}
	if c.KDTree.MaxDepth != nil {
		s.KDTree.MaxDepth = *c.KDTree.MaxDepth
	}
	if err := s.KDTree.Validate(); err != nil {
		return nil, invalid("kdtree", "%v", err)
	}

	materials, err := c.buildMaterials(region, baseDir)
	if err != nil {
		return nil, err
	}

	b := entity.NewBuilder()
	children := make([]entity.ID, 0, len(c.Entities))
	for i, e := range c.Entities {
		id, err := e.build(b, materials, fmt.Sprintf("entities[%d]", i))
		if err != nil {
			return nil, err
		}
		children = append(children, id)
	}

	var root entity.ID
	if len(children) == 0 {
		root = b.Empty()
	} else {
		root = b.Composite(children...)
	}
	tree, err := b.Build(root, s.KDTree)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidScene, err)
	}
	s.Tree = tree
	return s, nil
}

func (c SamplingCfg) merge(base integrator.Config) integrator.Config {
	return integrator.MergeConfig(base, integrator.Config{
		SamplesPerPixel:           c.SamplesPerPixel,
		MaxDepth:                  c.MaxDepth,
		RussianRouletteMinBounces: c.RouletteMinBounces,
		RussianRouletteQ:          c.RouletteQ,
		Background:                c.Background.spectrum(),
	})
}

// buildMaterials constructs the named materials in sorted order, so the
// first error reported does not depend on map iteration
func (c *Config) buildMaterials(region renderer.Region, baseDir string) (map[string]material.Material, error) {
	names := make([]string, 0, len(c.Materials))
	for name := range c.Materials {
		names = append(names, name)
	}
	sort.Strings(names)

	materials := make(map[string]material.Material, len(names))
	for _, name := range names {
		m, err := c.Materials[name].build(fmt.Sprintf("materials.%s", name), region, baseDir)
		if err != nil {
			return nil, err
		}
		materials[name] = m
	}
	return materials, nil
}

func (m MaterialCfg) build(path string, region renderer.Region, baseDir string) (material.Material, error) {
	color := func() (material.ColorSource, error) {
		if m.Color == nil {
			return nil, invalid(path+".color", "%s material needs a color", m.Type)
		}
		return m.Color.build(path+".color", region, baseDir)
	}
	solid := func() (core.Spectrum, error) {
		if m.Color == nil || m.Color.RGB == nil || m.Color.Gradient != nil || m.Color.Image != nil {
			return core.Spectrum{}, invalid(path+".color", "%s material needs an rgb color", m.Type)
		}
		return m.Color.RGB.spectrum(), nil
	}

	switch m.Type {
	case "emissive":
		source, err := color()
		if err != nil {
			return nil, err
		}
		return &material.Emissive{Radiance: source, OneSided: m.OneSided}, nil

	case "diffuse":
		source, err := color()
		if err != nil {
			return nil, err
		}
		sampling := material.DiffuseCosine
		switch m.Sampling {
		case "", "cosine":
		case "uniform":
			sampling = material.DiffuseUniform
		default:
			return nil, invalid(path+".sampling", "unknown diffuse sampling %q", m.Sampling)
		}
		return material.NewTexturedDiffuse(source, sampling), nil

	case "mirror":
		tint, err := solid()
		if err != nil {
			return nil, err
		}
		return material.NewMirror(tint), nil

	case "transparent":
		t, err := material.NewTransparent(m.Index, m.Absorption.spectrum())
		if err != nil {
			return nil, invalid(path, "%v", err)
		}
		return t, nil

	default:
		return nil, invalid(path+".type", "unknown material type %q", m.Type)
	}
}

func (c *ColorCfg) build(path string, region renderer.Region, baseDir string) (material.ColorSource, error) {
	set := 0
	for _, present := range []bool{c.RGB != nil, c.Gradient != nil, c.Image != nil} {
		if present {
			set++
		}
	}
	if set != 1 {
		return nil, invalid(path, "exactly one of rgb, gradient or image must be set")
	}

	switch {
	case c.RGB != nil:
		return material.NewSolidColor(c.RGB.spectrum()), nil

	case c.Gradient != nil:
		g := c.Gradient
		return material.NewLinearGradient(g.From.vec(), g.To.vec(), g.FromColor.spectrum(), g.ToColor.spectrum()), nil

	default:
		img := c.Image
		file := img.Path
		if !filepath.IsAbs(file) {
			file = filepath.Join(baseDir, file)
		}
		data, err := loaders.LoadImage(file)
		if err != nil {
			return nil, invalid(path+".image.path", "%v", err)
		}

		bounds := core.NewAABB(core.Vec(region.LLx, region.LLy), core.Vec(region.URx, region.URy))
		if img.Bounds != nil {
			b := img.Bounds
			bounds = core.NewAABB(core.Vec(b[0], b[1]), core.Vec(b[2], b[3]))
		}
		source, err := material.NewImageColor(bounds, data.Width, data.Height, data.Pixels)
		if err != nil {
			return nil, invalid(path+".image", "%v", err)
		}
		return source, nil
	}
}

func (e EntityCfg) build(b *entity.Builder, materials map[string]material.Material, path string) (entity.ID, error) {
	if e.Group != nil {
		if e.Shape != nil || e.Material != "" {
			return 0, invalid(path, "an entity is either a group or a shape with a material")
		}
		if len(e.Group) == 0 {
			return b.Empty(), nil
		}
		children := make([]entity.ID, 0, len(e.Group))
		for i, child := range e.Group {
			id, err := child.build(b, materials, fmt.Sprintf("%s.group[%d]", path, i))
			if err != nil {
				return 0, err
			}
			children = append(children, id)
		}
		return b.Composite(children...), nil
	}

	if e.Shape == nil {
		return 0, invalid(path+".shape", "missing shape")
	}
	mat, ok := materials[e.Material]
	if !ok {
		return 0, invalid(path+".material", "unknown material %q", e.Material)
	}
	shape, err := e.Shape.build()
	if err != nil {
		return 0, invalid(path+".shape", "%v", err)
	}
	if err := entity.ValidateLeaf(shape, mat); err != nil {
		return 0, invalid(path, "%v", err)
	}
	return b.Leaf(shape, mat), nil
}

func (s *ShapeCfg) build() (geometry.Shape, error) {
	switch s.Type {
	case "circle":
		return geometry.NewCircle(s.Center.vec(), s.Radius)
	case "segment":
		return geometry.NewSegment(s.From.vec(), s.To.vec())
	case "polygon":
		vertices := make([]vec.Vec2, len(s.Vertices))
		for i, p := range s.Vertices {
			vertices[i] = p.vec()
		}
		return geometry.NewPolygon(vertices...)
	case "rectangle":
		return geometry.NewRectangle(s.Min.vec(), s.Max.vec())
	case "regularPolygon":
		return geometry.NewRegularPolygon(s.Center.vec(), s.Radius, s.Sides, s.PhaseDeg*math.Pi/180)
	default:
		return nil, fmt.Errorf("unknown shape type %q", s.Type)
	}
}
