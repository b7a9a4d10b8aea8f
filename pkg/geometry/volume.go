package geometry

import (
	"hash/fnv"
	"math"

	"github.com/df07/go-pathtracer/pkg/core"
	"github.com/df07/go-pathtracer/pkg/material"
)

// ConstantVolume fills a closed boundary shape with a homogeneous medium.
// Rays passing through it scatter after an exponentially distributed
// distance.
type ConstantVolume struct {
	Boundary Shape
	Density  float64
	Phase    material.Material
}

// NewConstantVolume creates a volume with an isotropic phase function
func NewConstantVolume(boundary Shape, density float64, albedo core.Vec3) *ConstantVolume {
	return &ConstantVolume{
		Boundary: boundary,
		Density:  density,
		Phase:    material.NewIsotropic(albedo),
	}
}

// Hit finds where the ray enters and leaves the boundary and samples a
// scattering distance between the two.
func (v *ConstantVolume) Hit(ray core.Ray, tMin, tMax float64) (material.HitRecord, bool) {
	if v.Density <= 0 {
		return material.HitRecord{}, false
	}

	enter, ok := v.Boundary.Hit(ray, math.Inf(-1), math.Inf(1))
	if !ok {
		return material.HitRecord{}, false
	}
	exit, ok := v.Boundary.Hit(ray, enter.T+1e-4, math.Inf(1))
	if !ok {
		return material.HitRecord{}, false
	}

	t1 := max(enter.T, tMin)
	t2 := min(exit.T, tMax)
	if t1 >= t2 {
		return material.HitRecord{}, false
	}

	rayLength := ray.Direction.Length()
	inside := (t2 - t1) * rayLength
	distance := -math.Log(rayHash(ray)) / v.Density
	if distance > inside {
		return material.HitRecord{}, false
	}

	t := t1 + distance/rayLength
	hit := material.HitRecord{
		T:         t,
		Point:     ray.At(t),
		Normal:    core.NewVec3(1, 0, 0), // arbitrary, the phase function ignores it
		FrontFace: true,
		Material:  v.Phase,
	}
	return hit, true
}

// BoundingBox returns the boundary's bounds
func (v *ConstantVolume) BoundingBox() (core.AABB, bool) {
	return v.Boundary.BoundingBox()
}

// Centroid returns the boundary's centroid
func (v *ConstantVolume) Centroid() core.Vec3 {
	return v.Boundary.Centroid()
}

// rayHash maps a ray to a number in (0, 1]. Hit has no sampler, so the
// free-flight distance is derived from the ray itself.
func rayHash(ray core.Ray) float64 {
	h := fnv.New64a()
	var buf [48]byte
	for i, f := range []float64{
		ray.Origin.X, ray.Origin.Y, ray.Origin.Z,
		ray.Direction.X, ray.Direction.Y, ray.Direction.Z,
	} {
		bits := math.Float64bits(f)
		for j := 0; j < 8; j++ {
			buf[i*8+j] = byte(bits >> (8 * j))
		}
	}
	h.Write(buf[:])
	return (float64(h.Sum64()>>11) + 1) / (1 << 53)
}
