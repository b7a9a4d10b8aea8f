package geometry

import (
	"cmp"
	"fmt"
	"slices"

	"github.com/df07/go-pathtracer/pkg/core"
	"github.com/df07/go-pathtracer/pkg/material"
)

// bvhNode is one entry in the flat node arena. Leaves reference
// shapes[left : left+count]; internal nodes have count == 0 and their two
// children at left and left+1.
type bvhNode struct {
	box   core.AABB
	left  int
	count int
}

func (n *bvhNode) isLeaf() bool {
	return n.count > 0
}

// BVH is a bounding volume hierarchy stored as a flat node slice rooted at
// index 0. It is immutable after construction and safe for concurrent use.
type BVH[S Shape] struct {
	nodes  []bvhNode
	shapes []S
}

type bvhItem[S Shape] struct {
	shape    S
	box      core.AABB
	centroid core.Vec3
}

// NewBVH builds a hierarchy over shapes. The slice is taken over by the tree
// and reordered in place.
func NewBVH[S Shape](shapes []S) (*BVH[S], error) {
	if len(shapes) == 0 {
		return nil, ErrEmptyBVH
	}

	items := make([]bvhItem[S], len(shapes))
	for i, shape := range shapes {
		box, ok := shape.BoundingBox()
		if !ok {
			return nil, fmt.Errorf("shape %d: %w", i, ErrUnboundedShape)
		}
		items[i] = bvhItem[S]{shape: shape, box: box, centroid: shape.Centroid()}
	}

	// A binary tree with at most one shape per leaf needs 2n-1 nodes
	b := &BVH[S]{nodes: make([]bvhNode, 1, 2*len(items))}
	b.build(items, 0, 0, len(items))

	for i := range items {
		shapes[i] = items[i].shape
	}
	b.shapes = shapes
	return b, nil
}

func (b *BVH[S]) build(items []bvhItem[S], idx, start, end int) {
	box := items[start].box
	for i := start + 1; i < end; i++ {
		box = box.Union(items[i].box)
	}

	count := end - start
	if count <= 2 {
		b.nodes[idx] = bvhNode{box: box, left: start, count: count}
		return
	}

	axis := box.LongestAxis()
	slices.SortStableFunc(items[start:end], func(a, c bvhItem[S]) int {
		return cmp.Compare(a.centroid.Axis(axis), c.centroid.Axis(axis))
	})

	// Keep the left half even so it splits evenly into two-shape leaves
	mid := count / 2
	if mid%2 == 1 {
		mid++
	}

	left := len(b.nodes)
	b.nodes = append(b.nodes, bvhNode{}, bvhNode{})
	b.nodes[idx] = bvhNode{box: box, left: left}

	b.build(items, left, start, start+mid)
	b.build(items, left+1, start+mid, end)
}

// Hit returns the closest intersection in [tMin, tMax]. On equal distances
// the shape visited first wins.
func (b *BVH[S]) Hit(ray core.Ray, tMin, tMax float64) (material.HitRecord, bool) {
	return b.hitNode(0, ray, tMin, tMax)
}

func (b *BVH[S]) hitNode(idx int, ray core.Ray, tMin, tMax float64) (material.HitRecord, bool) {
	node := &b.nodes[idx]
	if _, ok := node.box.Hit(ray, tMin, tMax); !ok {
		return material.HitRecord{}, false
	}

	if node.isLeaf() {
		var closest material.HitRecord
		found := false
		for _, shape := range b.shapes[node.left : node.left+node.count] {
			if hit, ok := shape.Hit(ray, tMin, tMax); ok && (!found || hit.T < closest.T) {
				closest = hit
				tMax = hit.T
				found = true
			}
		}
		return closest, found
	}

	leftHit, hitLeft := b.hitNode(node.left, ray, tMin, tMax)
	if hitLeft {
		tMax = leftHit.T
	}
	rightHit, hitRight := b.hitNode(node.left+1, ray, tMin, tMax)
	if hitRight && (!hitLeft || rightHit.T < leftHit.T) {
		return rightHit, true
	}
	return leftHit, hitLeft
}

// BoundingBox returns the root bounds
func (b *BVH[S]) BoundingBox() (core.AABB, bool) {
	return b.nodes[0].box, true
}

// Centroid returns the center of the root bounds
func (b *BVH[S]) Centroid() core.Vec3 {
	return b.nodes[0].box.Center()
}

// Shapes returns the shapes in tree order. The slice must not be modified.
func (b *BVH[S]) Shapes() []S {
	return b.shapes
}

// BVHStats summarises the shape of a hierarchy
type BVHStats struct {
	Nodes    int
	Leaves   int
	Shapes   int
	MaxDepth int
	AvgDepth float64
}

// Stats walks the tree and collects node and depth statistics
func (b *BVH[S]) Stats() BVHStats {
	var stats BVHStats
	depthSum := 0

	var walk func(idx, depth int)
	walk = func(idx, depth int) {
		node := &b.nodes[idx]
		stats.Nodes++
		stats.MaxDepth = max(stats.MaxDepth, depth)
		if node.isLeaf() {
			stats.Leaves++
			stats.Shapes += node.count
			depthSum += depth
			return
		}
		walk(node.left, depth+1)
		walk(node.left+1, depth+1)
	}
	walk(0, 0)

	if stats.Leaves > 0 {
		stats.AvgDepth = float64(depthSum) / float64(stats.Leaves)
	}
	return stats
}
