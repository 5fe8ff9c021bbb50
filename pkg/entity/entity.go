// Package entity holds the scene hierarchy: leaves pair a shape with a
// material, composites group other entities behind their own k-d tree.
package entity

import (
	"github.com/df07/go-light2d/pkg/core"
	"github.com/df07/go-light2d/pkg/geometry"
	"github.com/df07/go-light2d/pkg/kdtree"
	"github.com/df07/go-light2d/pkg/material"
)

// ID addresses an entity inside the Builder or Tree that created it
type ID int32

// Hit is a shape intersection together with the leaf that produced it
type Hit struct {
	geometry.Intersection
	ID       ID
	Material material.Material
}

type node struct {
	composite bool
	empty     bool // composite without any leaf below it
	bounds    core.AABB

	// leaf
	shape    geometry.Shape
	material material.Material

	// composite
	children []ID
	items    []ID // children with leaves, indexed like the k-d tree items
	accel    *kdtree.Tree
}

// Stats describes a built tree
type Stats struct {
	Leaves      int // Leaves reachable from the root
	Composites  int // Composites reachable from the root
	Depth       int // Longest root-to-leaf path, a leaf root has depth 0
	AccelNodes  int // k-d tree nodes over all composites
	AccelDups   int // Duplicated k-d tree references over all composites
	AccelLeaves int
}

// Tree is an immutable entity hierarchy. It is safe for concurrent use.
type Tree struct {
	nodes  []node
	root   ID
	leaves []ID
	stats  Stats
}

// Root returns the ID of the root entity
func (t *Tree) Root() ID {
	return t.root
}

// Bounds returns the bounding box of everything reachable from the root.
// An empty tree has zero bounds.
func (t *Tree) Bounds() core.AABB {
	return t.nodes[t.root].bounds
}

// Leaves returns the IDs of all leaves reachable from the root, depth first
func (t *Tree) Leaves() []ID {
	return append([]ID(nil), t.leaves...)
}

// Stats returns counts for logging and tests
func (t *Tree) Stats() Stats {
	return t.stats
}

// Shape returns the shape of leaf id, or nil if id is not a leaf
func (t *Tree) Shape(id ID) geometry.Shape {
	if !t.isLeaf(id) {
		return nil
	}
	return t.nodes[id].shape
}

// Material returns the material of leaf id, or nil if id is not a leaf
func (t *Tree) Material(id ID) material.Material {
	if !t.isLeaf(id) {
		return nil
	}
	return t.nodes[id].material
}

func (t *Tree) isLeaf(id ID) bool {
	return id >= 0 && int(id) < len(t.nodes) && !t.nodes[id].composite
}

// Intersect returns the nearest hit along ray among all entities reachable
// from the root
func (t *Tree) Intersect(ray core.Ray) (Hit, bool) {
	return t.intersect(t.root, ray)
}

// IntersectLeaf intersects ray with a single leaf, bypassing every k-d tree
func (t *Tree) IntersectLeaf(id ID, ray core.Ray) (Hit, bool) {
	if !t.isLeaf(id) {
		return Hit{}, false
	}
	return t.intersect(id, ray)
}

func (t *Tree) intersect(id ID, ray core.Ray) (Hit, bool) {
	n := &t.nodes[id]
	if !n.composite {
		hit, ok := n.shape.Intersect(ray)
		if !ok {
			return Hit{}, false
		}
		return Hit{Intersection: hit, ID: id, Material: n.material}, true
	}

	if n.empty {
		return Hit{}, false
	}

	var best Hit
	found := n.accel.Query(ray, func(index int, r core.Ray) (float64, bool) {
		hit, ok := t.intersect(n.items[index], r)
		if !ok {
			return 0, false
		}
		best = hit
		return hit.T, true
	})
	return best, found
}
