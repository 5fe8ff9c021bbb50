package scene

import (
	"errors"
	"fmt"
	"math"
	"sort"

	"github.com/df07/go-light2d/pkg/core"
	"github.com/df07/go-light2d/pkg/material"
	"github.com/df07/go-light2d/pkg/renderer"
	"seehuhn.de/go/geom/vec"
)

// ErrUnknownScene is returned by NewBuiltin for names it does not know
var ErrUnknownScene = errors.New("unknown scene")

// builtins maps scene names to their constructors
var builtins = map[string]func() (*Scene, error){
	"hello-circle": NewHelloCircleScene,
	"lens":         NewLensScene,
	"room":         NewRoomScene,
	"prism":        NewPrismScene,
	"circle-grid":  NewCircleGridScene,
}

// BuiltinNames returns the names of all built-in scenes in sorted order
func BuiltinNames() []string {
	names := make([]string, 0, len(builtins))
	for name := range builtins {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// NewBuiltin creates the built-in scene with the given name
func NewBuiltin(name string) (*Scene, error) {
	create, ok := builtins[name]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownScene, name)
	}
	return create()
}

// NewHelloCircleScene creates a single emissive unit circle in an empty plane
func NewHelloCircleScene() (*Scene, error) {
	s := newScene("hello-circle", "Emissive unit circle at the origin",
		renderer.NewRegion(-2, -2, 2, 2), 512, 512)
	s.Sampling.SamplesPerPixel = 16

	b := newBuilder()
	light := material.NewEmissive(core.NewSpectrum(0.6, 0.8, 1.0))
	root := b.group(b.circle(core.Vec(0, 0), 1, light))
	return b.finish(s, root)
}

// NewLensScene creates a biconvex glass lens focusing a light bar onto a screen
func NewLensScene() (*Scene, error) {
	s := newScene("lens", "Biconvex glass lens between a light bar and a screen",
		renderer.NewRegion(-4, -2, 4, 2), 512, 256)
	s.Sampling.SamplesPerPixel = 64

	b := newBuilder()
	glass := b.transparent(1.5, core.NewSpectrum(0.02, 0.01, 0))
	screen := material.NewDiffuse(core.Gray(0.8))

	// One-sided light facing +x: the left-hand normal of a downward segment
	light := &material.Emissive{Radiance: material.NewSolidColor(core.NewSpectrum(3, 2.8, 2.5)), OneSided: true}

	root := b.group(
		b.segment(core.Vec(-3.5, 1), core.Vec(-3.5, -1), light),
		b.polygon(glass, lensVertices(2, 1.2, 24)...),
		b.segment(core.Vec(3.5, -1.8), core.Vec(3.5, 1.8), screen),
	)
	return b.finish(s, root)
}

// lensVertices returns a symmetric biconvex lens centered at the origin,
// bounded by two circular arcs of the given radius meeting at ±halfHeight
func lensVertices(radius, halfHeight float64, perArc int) []vec.Vec2 {
	offset := math.Sqrt(radius*radius - halfHeight*halfHeight)
	vertices := make([]vec.Vec2, 0, 2*perArc)

	// Right surface upward, tips included
	for i := 0; i <= perArc; i++ {
		y := -halfHeight + 2*halfHeight*float64(i)/float64(perArc)
		vertices = append(vertices, core.Vec(math.Sqrt(radius*radius-y*y)-offset, y))
	}
	// Left surface downward, tips excluded
	for i := perArc - 1; i > 0; i-- {
		y := -halfHeight + 2*halfHeight*float64(i)/float64(perArc)
		vertices = append(vertices, core.Vec(offset-math.Sqrt(radius*radius-y*y), y))
	}
	return vertices
}

// NewRoomScene creates a closed room lit from the ceiling, holding a mirror
// ball, a glass block and a diffuse pentagon
func NewRoomScene() (*Scene, error) {
	s := newScene("room", "Closed room with a ceiling light and mixed materials",
		renderer.NewRegion(-3, -2, 3, 2), 384, 256)
	s.Sampling.SamplesPerPixel = 64

	b := newBuilder()
	wall := material.NewDiffuse(core.Gray(0.75))
	red := material.NewUniformDiffuse(core.NewSpectrum(0.75, 0.2, 0.15))
	floor := material.NewTexturedDiffuse(material.NewLinearGradient(
		core.Vec(-3, -2), core.Vec(3, -2),
		core.NewSpectrum(0.2, 0.3, 0.75), core.NewSpectrum(0.75, 0.75, 0.2),
	), material.DiffuseCosine)
	mirror := material.NewMirror(core.Gray(0.95))
	glass := b.transparent(1.5, core.NewSpectrum(0.4, 0.1, 0.05))

	// Emits downward only
	light := &material.Emissive{Radiance: material.NewSolidColor(core.Gray(6)), OneSided: true}

	walls := b.group(
		b.segment(core.Vec(-3, -2), core.Vec(3, -2), floor),
		b.segment(core.Vec(3, -2), core.Vec(3, 2), wall),
		b.segment(core.Vec(3, 2), core.Vec(-3, 2), wall),
		b.segment(core.Vec(-3, 2), core.Vec(-3, -2), wall),
	)
	objects := b.group(
		b.segment(core.Vec(0.8, 1.9), core.Vec(-0.8, 1.9), light),
		b.circle(core.Vec(-1.5, -1.3), 0.6, mirror),
		b.rectangle(core.Vec(0.4, -2), core.Vec(1.4, -1), glass),
		b.regularPolygon(core.Vec(1.9, 0.4), 0.5, 5, math.Pi/2, red),
	)
	return b.finish(s, b.group(walls, objects))
}

// NewPrismScene creates a beam of light passing through a glass prism
func NewPrismScene() (*Scene, error) {
	s := newScene("prism", "Light beam refracted by a tinted triangular prism",
		renderer.NewRegion(-3, -2, 3, 2), 384, 256)
	s.Sampling.SamplesPerPixel = 64

	b := newBuilder()
	prism := b.transparent(1.7, core.NewSpectrum(0, 0.3, 0.6))
	screen := material.NewDiffuse(core.Gray(0.9))
	beam := &material.Emissive{Radiance: material.NewSolidColor(core.Gray(12)), OneSided: true}

	root := b.group(
		b.segment(core.Vec(-2.8, 0.75), core.Vec(-2.8, 0.45), beam),
		b.regularPolygon(core.Vec(0, 0), 0.9, 3, math.Pi/2, prism),
		b.segment(core.Vec(2.8, -1.9), core.Vec(2.8, 1.9), screen),
		b.segment(core.Vec(-2, -1.9), core.Vec(2, -1.9), screen),
	)
	return b.finish(s, root)
}
