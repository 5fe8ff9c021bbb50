package entity

import (
	"errors"
	"fmt"

	"github.com/df07/go-light2d/pkg/core"
	"github.com/df07/go-light2d/pkg/geometry"
	"github.com/df07/go-light2d/pkg/kdtree"
	"github.com/df07/go-light2d/pkg/material"
)

// ErrInvalidEntity is wrapped by every error reported from Builder.Build
var ErrInvalidEntity = errors.New("invalid entity")

// Builder assembles an entity hierarchy bottom-up. Children must be created
// before the composite that holds them, so the hierarchy cannot contain
// cycles. Mistakes are collected and reported together by Build.
type Builder struct {
	nodes   []node
	parents []ID // parent of each node, -1 for none
	errs    []error
}

// NewBuilder creates an empty builder
func NewBuilder() *Builder {
	return &Builder{}
}

func (b *Builder) add(n node) ID {
	id := ID(len(b.nodes))
	b.nodes = append(b.nodes, n)
	b.parents = append(b.parents, -1)
	return id
}

func (b *Builder) fail(format string, args ...interface{}) {
	b.errs = append(b.errs, fmt.Errorf("%w: "+format, append([]interface{}{ErrInvalidEntity}, args...)...))
}

// Leaf adds an entity that pairs shape with mat
func (b *Builder) Leaf(shape geometry.Shape, mat material.Material) ID {
	id := b.add(node{shape: shape, material: mat})
	if shape == nil {
		b.fail("leaf %d has no shape", id)
	}
	if mat == nil {
		b.fail("leaf %d has no material", id)
	}
	if err := ValidateLeaf(shape, mat); err != nil {
		b.fail("leaf %d: %v", id, err)
	}
	return id
}

// ValidateLeaf reports whether mat can be used on shape. A transparent
// medium needs a closed outline to bound the region it fills, so it cannot
// be put on a segment.
func ValidateLeaf(shape geometry.Shape, mat material.Material) error {
	_, open := shape.(*geometry.Segment)
	_, medium := mat.(*material.Transparent)
	if open && medium {
		return errors.New("a transparent material needs a closed shape, not a segment")
	}
	return nil
}

// Composite adds an entity grouping the given children. Each entity can
// belong to at most one composite. Use Empty for a composite without
// children.
func (b *Builder) Composite(children ...ID) ID {
	id := b.add(node{composite: true, children: append([]ID(nil), children...)})
	if len(children) == 0 {
		b.fail("composite %d has no children, use Empty for an empty group", id)
	}
	for _, child := range children {
		if child < 0 || child >= id {
			b.fail("composite %d: unknown child %d", id, child)
			continue
		}
		if parent := b.parents[child]; parent >= 0 {
			b.fail("entity %d is a child of both %d and %d", child, parent, id)
			continue
		}
		b.parents[child] = id
	}
	return id
}

// Empty adds a composite without children. It never reports a hit.
func (b *Builder) Empty() ID {
	return b.add(node{composite: true})
}

// Build freezes the hierarchy below root and builds the k-d tree of every
// composite with cfg. It reports all mistakes made while building.
func (b *Builder) Build(root ID, cfg kdtree.Config) (*Tree, error) {
	errs := append([]error(nil), b.errs...)
	if root < 0 || int(root) >= len(b.nodes) {
		errs = append(errs, fmt.Errorf("%w: unknown root %d", ErrInvalidEntity, root))
	}
	if err := cfg.Validate(); err != nil {
		errs = append(errs, err)
	}
	if len(errs) > 0 {
		return nil, errors.Join(errs...)
	}

	nodes := make([]node, len(b.nodes))
	copy(nodes, b.nodes)

	// Children always have smaller IDs than their parent
	for id := range nodes {
		n := &nodes[id]
		if !n.composite {
			n.bounds = n.shape.BoundingBox()
			continue
		}

		n.empty = true
		var bounds []core.AABB
		for _, child := range n.children {
			if nodes[child].empty {
				continue
			}
			if n.empty {
				n.bounds = nodes[child].bounds
				n.empty = false
			} else {
				n.bounds = n.bounds.Union(nodes[child].bounds)
			}
			n.items = append(n.items, child)
			bounds = append(bounds, nodes[child].bounds)
		}

		accel, err := kdtree.Build(bounds, cfg)
		if err != nil {
			return nil, fmt.Errorf("%w: composite %d: %w", ErrInvalidEntity, id, err)
		}
		n.accel = accel
	}

	t := &Tree{nodes: nodes, root: root}
	t.collect(root, 0)
	return t, nil
}

// collect records the leaves and statistics of the subtree at id
func (t *Tree) collect(id ID, depth int) {
	n := &t.nodes[id]
	t.stats.Depth = max(t.stats.Depth, depth)
	if !n.composite {
		t.stats.Leaves++
		t.leaves = append(t.leaves, id)
		return
	}

	t.stats.Composites++
	accel := n.accel.Stats()
	t.stats.AccelNodes += accel.Nodes
	t.stats.AccelLeaves += accel.Leaves
	t.stats.AccelDups += accel.Duplicates
	for _, child := range n.children {
		t.collect(child, depth+1)
	}
}
