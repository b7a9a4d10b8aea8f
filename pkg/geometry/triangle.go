package geometry

import (
	"github.com/df07/go-pathtracer/pkg/core"
	"github.com/df07/go-pathtracer/pkg/material"
)

// Triangle is defined by three vertices. Per-vertex normals and texture
// coordinates are optional; when absent the face normal and the barycentric
// span coordinates are used instead.
type Triangle struct {
	V0, V1, V2 core.Vec3
	Material   material.Material

	Normals    [3]core.Vec3
	HasNormals bool
	UVs        [3]core.Vec2
	HasUVs     bool

	basis planar
}

// NewTriangle creates a new triangle from three vertices
func NewTriangle(v0, v1, v2 core.Vec3, mat material.Material) *Triangle {
	return &Triangle{
		V0:       v0,
		V1:       v1,
		V2:       v2,
		Material: mat,
		basis:    newPlanar(v0, v1.Subtract(v0), v2.Subtract(v0)),
	}
}

// WithNormals sets per-vertex shading normals
func (t *Triangle) WithNormals(n0, n1, n2 core.Vec3) *Triangle {
	t.Normals = [3]core.Vec3{n0, n1, n2}
	t.HasNormals = true
	return t
}

// WithUVs sets per-vertex texture coordinates
func (t *Triangle) WithUVs(uv0, uv1, uv2 core.Vec2) *Triangle {
	t.UVs = [3]core.Vec2{uv0, uv1, uv2}
	t.HasUVs = true
	return t
}

// Hit tests if a ray intersects the triangle
func (t *Triangle) Hit(ray core.Ray, tMin, tMax float64) (material.HitRecord, bool) {
	param, alpha, beta, ok := t.basis.intersect(ray, tMin, tMax)
	if !ok || alpha < 0 || beta < 0 || alpha+beta > 1 {
		return material.HitRecord{}, false
	}
	gamma := 1 - alpha - beta

	hit := material.HitRecord{
		T:        param,
		Point:    ray.At(param),
		Material: t.Material,
		UV:       core.NewVec2(alpha, beta),
		HasUV:    true,
	}

	normal := t.basis.normal
	if t.HasNormals {
		interpolated := t.Normals[0].Multiply(gamma).
			Add(t.Normals[1].Multiply(alpha)).
			Add(t.Normals[2].Multiply(beta))
		if !interpolated.IsZero() {
			normal = interpolated
		}
	}
	hit.SetFaceNormal(ray, normal)

	if t.HasUVs {
		hit.UV = t.UVs[0].Multiply(gamma).Add(t.UVs[1].Multiply(alpha)).Add(t.UVs[2].Multiply(beta))
	}

	return hit, true
}

// BoundingBox returns the box around the three vertices
func (t *Triangle) BoundingBox() (core.AABB, bool) {
	return t.basis.bounds(t.V0, t.V1, t.V2), true
}

// Centroid returns the average of the three vertices
func (t *Triangle) Centroid() core.Vec3 {
	return t.V0.Add(t.V1).Add(t.V2).Multiply(1.0 / 3.0)
}
