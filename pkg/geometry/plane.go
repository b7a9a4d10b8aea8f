package geometry

import (
	"math"

	"github.com/df07/go-pathtracer/pkg/core"
	"github.com/df07/go-pathtracer/pkg/material"
)

// boxPadding thickens planar bounding boxes along the normal so they never
// collapse to zero width in the slab test.
const boxPadding = 1e-4

// planar holds the shared parallelogram/triangle basis: a corner and two
// span vectors. Points on the surface are corner + u*spanA + v*spanB.
type planar struct {
	corner core.Vec3
	spanA  core.Vec3
	spanB  core.Vec3
	normal core.Vec3 // unit spanA x spanB, zero for degenerate spans

	// Cached dot products for the 2x2 inverse
	ada, bdb, adb float64
	invDet        float64
	degenerate    bool
}

func newPlanar(corner, spanA, spanB core.Vec3) planar {
	p := planar{
		corner: corner,
		spanA:  spanA,
		spanB:  spanB,
		normal: spanA.Cross(spanB).Normalize(),
		ada:    spanA.Dot(spanA),
		bdb:    spanB.Dot(spanB),
		adb:    spanA.Dot(spanB),
	}

	det := p.adb*p.adb - p.ada*p.bdb
	if det == 0 || p.normal.IsZero() {
		p.degenerate = true
	} else {
		p.invDet = 1.0 / det
	}
	return p
}

// intersect finds the ray parameter and span coordinates where the ray meets
// the supporting plane. It does not check the coordinates against any bounds.
func (p *planar) intersect(ray core.Ray, tMin, tMax float64) (t, u, v float64, ok bool) {
	if p.degenerate {
		return 0, 0, 0, false
	}

	denom := ray.Direction.Dot(p.normal)
	if denom == 0 {
		return 0, 0, 0, false
	}

	t = -ray.Origin.Subtract(p.corner).Dot(p.normal) / denom
	if math.IsNaN(t) || t < tMin || t > tMax {
		return 0, 0, 0, false
	}

	relative := ray.At(t).Subtract(p.corner)
	rda := relative.Dot(p.spanA)
	rdb := relative.Dot(p.spanB)

	u = (p.adb*rdb - p.bdb*rda) * p.invDet
	v = (p.adb*rda - p.ada*rdb) * p.invDet
	return t, u, v, true
}

// bounds returns the box around the given points, thickened along the normal
func (p *planar) bounds(points ...core.Vec3) core.AABB {
	box := core.NewAABBFromPoints(points...)
	if p.normal.IsZero() {
		return box.Expand(boxPadding)
	}
	pad := p.normal.Multiply(boxPadding)
	return box.Translate(pad).Union(box.Translate(pad.Negate()))
}

// Plane is a finite parallelogram spanned by two vectors from a corner.
// Its normal is SpanA x SpanB.
type Plane struct {
	Corner   core.Vec3
	SpanA    core.Vec3
	SpanB    core.Vec3
	Material material.Material
	basis    planar
}

// NewPlane creates a parallelogram from a corner and two span vectors
func NewPlane(corner, spanA, spanB core.Vec3, mat material.Material) *Plane {
	return &Plane{
		Corner:   corner,
		SpanA:    spanA,
		SpanB:    spanB,
		Material: mat,
		basis:    newPlanar(corner, spanA, spanB),
	}
}

// Hit tests the ray against the parallelogram
func (p *Plane) Hit(ray core.Ray, tMin, tMax float64) (material.HitRecord, bool) {
	t, u, v, ok := p.basis.intersect(ray, tMin, tMax)
	if !ok || u < 0 || u > 1 || v < 0 || v > 1 {
		return material.HitRecord{}, false
	}

	hit := material.HitRecord{
		T:        t,
		Point:    ray.At(t),
		Material: p.Material,
		UV:       core.NewVec2(u, v),
		HasUV:    true,
	}
	hit.SetFaceNormal(ray, p.basis.normal)
	return hit, true
}

// BoundingBox returns the box around all four corners
func (p *Plane) BoundingBox() (core.AABB, bool) {
	return p.basis.bounds(
		p.Corner,
		p.Corner.Add(p.SpanA),
		p.Corner.Add(p.SpanB),
		p.Corner.Add(p.SpanA).Add(p.SpanB),
	), true
}

// Centroid returns the center of the parallelogram
func (p *Plane) Centroid() core.Vec3 {
	return p.Corner.Add(p.SpanA.Add(p.SpanB).Multiply(0.5))
}
