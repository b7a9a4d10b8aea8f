package geometry

import (
	"math"

	"github.com/df07/go-pathtracer/pkg/core"
	"github.com/df07/go-pathtracer/pkg/material"
)

// Box is a rectangular box built from 6 outward-facing planes, optionally
// rotated around the Y axis.
type Box struct {
	Center   core.Vec3         // Center point of the box
	Size     core.Vec3         // Half extents along each axis
	RotateY  float64           // Rotation around Y in radians
	Material material.Material // Material for all faces
	faces    [6]*Plane
	bbox     core.AABB
}

// NewBox creates a box with the given center, half extents and Y rotation
func NewBox(center, size core.Vec3, rotateY float64, mat material.Material) *Box {
	b := &Box{Center: center, Size: size, RotateY: rotateY, Material: mat}
	b.generateFaces()
	return b
}

// NewAxisAlignedBox creates an unrotated box spanning two corners
func NewAxisAlignedBox(a, c core.Vec3, mat material.Material) *Box {
	box := core.NewAABB(a, c)
	return NewBox(box.Center(), box.Size().Multiply(0.5), 0, mat)
}

func (b *Box) generateFaces() {
	corners := [8]core.Vec3{
		core.NewVec3(-1, -1, -1), // 0: left-bottom-back
		core.NewVec3(1, -1, -1),  // 1: right-bottom-back
		core.NewVec3(1, 1, -1),   // 2: right-top-back
		core.NewVec3(-1, 1, -1),  // 3: left-top-back
		core.NewVec3(-1, -1, 1),  // 4: left-bottom-front
		core.NewVec3(1, -1, 1),   // 5: right-bottom-front
		core.NewVec3(1, 1, 1),    // 6: right-top-front
		core.NewVec3(-1, 1, 1),   // 7: left-top-front
	}

	sin, cos := math.Sincos(b.RotateY)
	for i, c := range corners {
		c = c.MultiplyVec(b.Size)
		c = core.NewVec3(cos*c.X+sin*c.Z, c.Y, -sin*c.X+cos*c.Z)
		corners[i] = c.Add(b.Center)
	}

	// corner, first span, second span; spanA x spanB points outward
	quads := [6][3]int{
		{4, 5, 7}, // front (+Z)
		{1, 0, 2}, // back (-Z)
		{5, 1, 6}, // right (+X)
		{0, 4, 3}, // left (-X)
		{3, 7, 2}, // top (+Y)
		{4, 0, 5}, // bottom (-Y)
	}
	for i, q := range quads {
		origin := corners[q[0]]
		b.faces[i] = NewPlane(origin, corners[q[1]].Subtract(origin), corners[q[2]].Subtract(origin), b.Material)
	}

	b.bbox = core.NewAABBFromPoints(corners[:]...)
}

// Hit returns the closest face intersection
func (b *Box) Hit(ray core.Ray, tMin, tMax float64) (material.HitRecord, bool) {
	if _, ok := b.bbox.Expand(boxPadding).Hit(ray, tMin, tMax); !ok {
		return material.HitRecord{}, false
	}

	var closest material.HitRecord
	found := false
	for _, face := range b.faces {
		if hit, ok := face.Hit(ray, tMin, tMax); ok {
			closest = hit
			tMax = hit.T
			found = true
		}
	}
	return closest, found
}

// BoundingBox returns the box around all 8 corners
func (b *Box) BoundingBox() (core.AABB, bool) {
	return b.bbox.Expand(boxPadding), true
}

// Centroid returns the box center
func (b *Box) Centroid() core.Vec3 {
	return b.Center
}
