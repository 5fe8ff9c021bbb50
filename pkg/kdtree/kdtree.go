// Package kdtree implements a list-over-bounding-box k-d tree for nearest-hit
// ray queries. Items are identified by their index in the bounds slice given
// to Build. An item whose box straddles a split is referenced from both
// children, so a query never misses a candidate.
package kdtree

import (
	"errors"
	"fmt"
	"slices"

	"github.com/df07/go-light2d/pkg/core"
)

// ErrInvalidConfig is returned by Build for a configuration it cannot use
var ErrInvalidConfig = errors.New("invalid k-d tree configuration")

// Config contains the build parameters of a tree. Larger leaves make builds
// cheaper and queries slower.
type Config struct {
	LeafSize int // Stop splitting at this many items or fewer (>= 1)
	MaxDepth int // Stop splitting at this depth (>= 0)
}

// DefaultConfig returns the build parameters used unless a scene overrides them
func DefaultConfig() Config {
	return Config{
		LeafSize: 4,
		MaxDepth: 24,
	}
}

// Validate checks that the configuration can be used to build a tree
func (c Config) Validate() error {
	if c.LeafSize < 1 {
		return fmt.Errorf("%w: leaf size must be at least 1, got %d", ErrInvalidConfig, c.LeafSize)
	}
	if c.MaxDepth < 0 {
		return fmt.Errorf("%w: max depth must not be negative, got %d", ErrInvalidConfig, c.MaxDepth)
	}
	return nil
}

// node is one entry of the tree arena. The left child of an interior node
// is always the next node; the right child is stored explicitly.
type node struct {
	split float64
	axis  int8
	leaf  bool
	right int32 // interior: index of the right child
	start int32 // leaf: first entry in Tree.indices
	count int32 // leaf: number of entries
}

// Stats describes the shape of a built tree
type Stats struct {
	Items      int // Number of items the tree was built over
	Nodes      int // Interior and leaf nodes
	Leaves     int
	MaxDepth   int // Depth of the deepest leaf, root = 0
	References int // Item references stored in leaves
	Duplicates int // References - Items: extra copies from straddling boxes
}

// Tree is an immutable k-d tree. It is safe for concurrent queries.
type Tree struct {
	nodes   []node
	indices []int
	bounds  core.AABB
	stats   Stats
}

// Build constructs a tree over the given boxes. Item i of every query is
// bounds[i]. An empty slice yields a tree that always misses.
func Build(bounds []core.AABB, cfg Config) (*Tree, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	for i, b := range bounds {
		if err := b.Validate(); err != nil {
			return nil, fmt.Errorf("item %d: %w", i, err)
		}
	}

	t := &Tree{stats: Stats{Items: len(bounds)}}
	if len(bounds) == 0 {
		t.nodes = []node{{leaf: true}}
		t.stats.Nodes, t.stats.Leaves = 1, 1
		return t, nil
	}

	items := make([]int, len(bounds))
	t.bounds = bounds[0]
	for i, b := range bounds {
		items[i] = i
		t.bounds = t.bounds.Union(b)
	}

	b := builder{tree: t, bounds: bounds, cfg: cfg}
	b.build(t.bounds, items, 0)

	t.stats.Nodes = len(t.nodes)
	t.stats.References = len(t.indices)
	t.stats.Duplicates = len(t.indices) - len(bounds)
	return t, nil
}

// Bounds returns the union of all item boxes
func (t *Tree) Bounds() core.AABB {
	return t.bounds
}

// Stats returns build statistics for logging and tests
func (t *Tree) Stats() Stats {
	return t.stats
}

// Len returns the number of items the tree was built over
func (t *Tree) Len() int {
	return t.stats.Items
}

type builder struct {
	tree    *Tree
	bounds  []core.AABB
	cfg     Config
	centers []float64 // scratch space for median selection
}

// build appends the subtree for items within cell and returns its node index
func (b *builder) build(cell core.AABB, items []int, depth int) int32 {
	index := int32(len(b.tree.nodes))
	b.tree.nodes = append(b.tree.nodes, node{})

	if len(items) <= b.cfg.LeafSize || depth >= b.cfg.MaxDepth {
		b.makeLeaf(index, items, depth)
		return index
	}

	axis := cell.LongestAxis()
	split, ok := b.chooseSplit(cell, items, axis)
	if !ok {
		b.makeLeaf(index, items, depth)
		return index
	}

	var left, right []int
	for _, item := range items {
		box := b.bounds[item]
		switch {
		case box.MaxAxis(axis) <= split:
			left = append(left, item)
		case box.MinAxis(axis) >= split:
			right = append(right, item)
		default:
			left = append(left, item)
			right = append(right, item)
		}
	}

	// Neither side got smaller
	if len(left) == len(items) && len(right) == len(items) {
		b.makeLeaf(index, items, depth)
		return index
	}

	leftCell, rightCell := cell.Split(axis, split)
	b.build(leftCell, left, depth+1)
	rightIndex := b.build(rightCell, right, depth+1)

	b.tree.nodes[index] = node{split: split, axis: int8(axis), right: rightIndex}
	return index
}

// chooseSplit returns the median of the item centers along axis, or the cell
// midpoint when the median does not lie strictly inside the cell.
func (b *builder) chooseSplit(cell core.AABB, items []int, axis int) (float64, bool) {
	lo, hi := cell.MinAxis(axis), cell.MaxAxis(axis)
	if !(hi > lo) {
		return 0, false
	}

	b.centers = b.centers[:0]
	for _, item := range items {
		box := b.bounds[item]
		b.centers = append(b.centers, 0.5*(box.MinAxis(axis)+box.MaxAxis(axis)))
	}
	slices.Sort(b.centers)
	split := b.centers[len(b.centers)/2]

	if split > lo && split < hi {
		return split, true
	}
	split = 0.5 * (lo + hi)
	if split > lo && split < hi {
		return split, true
	}
	return 0, false
}

func (b *builder) makeLeaf(index int32, items []int, depth int) {
	b.tree.nodes[index] = node{
		leaf:  true,
		start: int32(len(b.tree.indices)),
		count: int32(len(items)),
	}
	b.tree.indices = append(b.tree.indices, items...)
	b.tree.stats.Leaves++
	b.tree.stats.MaxDepth = max(b.tree.stats.MaxDepth, depth)
}

// HitFunc tests item index against ray. It returns the parametric distance of
// a hit inside the ray's interval and records that hit itself.
type HitFunc func(index int, ray core.Ray) (t float64, ok bool)

// frame is a pending subtree on the traversal stack
type frame struct {
	node   int32
	cell   core.AABB
	tEnter float64
}

// Query finds the nearest hit along ray. Candidates are offered to fn with
// the ray's TMax narrowed to the closest hit found so far, so fn only has to
// record what it reports. An item referenced from several leaves may be
// offered more than once. Query reports whether fn recorded any hit.
func (t *Tree) Query(ray core.Ray, fn HitFunc) bool {
	if len(t.indices) == 0 {
		return false
	}

	best := ray.TMax
	rootCell := t.bounds.Expand(core.Epsilon)
	tEnter, _, ok := rootCell.Hit(ray, ray.TMin, best)
	if !ok {
		return false
	}

	var buf [64]frame
	stack := append(buf[:0], frame{node: 0, cell: rootCell, tEnter: tEnter})
	found := false

	for len(stack) > 0 {
		f := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		// Everything in this cell is farther than the best hit
		if f.tEnter > best {
			continue
		}

		n := &t.nodes[f.node]
		if n.leaf {
			for _, item := range t.indices[n.start : n.start+n.count] {
				if tHit, ok := fn(item, ray.WithTMax(best)); ok && tHit <= best {
					best = tHit
					found = true
				}
			}
			continue
		}

		axis := int(n.axis)
		leftCell, rightCell := f.cell.Split(axis, n.split)
		near, far := frame{node: f.node + 1, cell: leftCell}, frame{node: n.right, cell: rightCell}
		if core.Axis(ray.Direction, axis) < 0 {
			near, far = far, near
		}

		// Push far first so the near child is visited first
		for _, child := range [2]frame{far, near} {
			if tEnter, _, ok := child.cell.Expand(core.Epsilon).Hit(ray, ray.TMin, best); ok {
				child.tEnter = tEnter
				stack = append(stack, child)
			}
		}
	}

	return found
}
