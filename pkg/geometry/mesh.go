package geometry

import (
	"fmt"

	"github.com/df07/go-pathtracer/pkg/core"
	"github.com/df07/go-pathtracer/pkg/material"
)

// MeshData is an indexed triangle soup as produced by a model loader.
// Normals and UVs are optional; when present they are indexed like Positions.
type MeshData struct {
	Positions []core.Vec3
	Normals   []core.Vec3
	UVs       []core.Vec2
	Indices   []int // three per triangle

	// FaceMaterials optionally selects a material per triangle by index into
	// the materials passed to NewMesh.
	FaceMaterials []int
}

// TriangleCount returns the number of triangles described by the indices
func (d MeshData) TriangleCount() int {
	return len(d.Indices) / 3
}

// Validate checks index ranges and attribute lengths
func (d MeshData) Validate(materialCount int) error {
	if len(d.Indices) == 0 || len(d.Indices)%3 != 0 {
		return fmt.Errorf("%w: index count %d is not a positive multiple of 3", ErrInvalidMesh, len(d.Indices))
	}
	if len(d.Normals) != 0 && len(d.Normals) != len(d.Positions) {
		return fmt.Errorf("%w: %d normals for %d positions", ErrInvalidMesh, len(d.Normals), len(d.Positions))
	}
	if len(d.UVs) != 0 && len(d.UVs) != len(d.Positions) {
		return fmt.Errorf("%w: %d uvs for %d positions", ErrInvalidMesh, len(d.UVs), len(d.Positions))
	}
	for i, index := range d.Indices {
		if index < 0 || index >= len(d.Positions) {
			return fmt.Errorf("%w: index %d at %d out of range", ErrInvalidMesh, index, i)
		}
	}
	if len(d.FaceMaterials) != 0 {
		if len(d.FaceMaterials) != d.TriangleCount() {
			return fmt.Errorf("%w: %d face materials for %d triangles", ErrInvalidMesh, len(d.FaceMaterials), d.TriangleCount())
		}
		for i, m := range d.FaceMaterials {
			if m < 0 || m >= materialCount {
				return fmt.Errorf("%w: face %d uses material %d of %d", ErrInvalidMesh, i, m, materialCount)
			}
		}
	}
	return nil
}

// Mesh is a triangle mesh with its own hierarchy, placed at Position.
// Rays are moved into mesh space instead of moving every triangle.
type Mesh struct {
	Position core.Vec3
	faces    *BVH[*Triangle]
}

// NewMesh builds the triangles and their hierarchy. At least one material
// is required.
func NewMesh(data MeshData, position core.Vec3, materials ...material.Material) (*Mesh, error) {
	if len(materials) == 0 {
		return nil, fmt.Errorf("%w: no material", ErrInvalidMesh)
	}
	if err := data.Validate(len(materials)); err != nil {
		return nil, err
	}

	triangles := make([]*Triangle, 0, data.TriangleCount())
	for face := 0; face < data.TriangleCount(); face++ {
		i0, i1, i2 := data.Indices[3*face], data.Indices[3*face+1], data.Indices[3*face+2]

		mat := materials[0]
		if len(data.FaceMaterials) != 0 {
			mat = materials[data.FaceMaterials[face]]
		}

		tri := NewTriangle(data.Positions[i0], data.Positions[i1], data.Positions[i2], mat)
		if len(data.Normals) != 0 {
			tri.WithNormals(data.Normals[i0], data.Normals[i1], data.Normals[i2])
		}
		if len(data.UVs) != 0 {
			tri.WithUVs(data.UVs[i0], data.UVs[i1], data.UVs[i2])
		}
		triangles = append(triangles, tri)
	}

	faces, err := NewBVH(triangles)
	if err != nil {
		return nil, fmt.Errorf("mesh hierarchy: %w", err)
	}
	return &Mesh{Position: position, faces: faces}, nil
}

// Hit intersects the ray with the mesh in mesh space and moves the hit point back
func (m *Mesh) Hit(ray core.Ray, tMin, tMax float64) (material.HitRecord, bool) {
	local := core.NewRay(ray.Origin.Subtract(m.Position), ray.Direction)
	hit, ok := m.faces.Hit(local, tMin, tMax)
	if !ok {
		return material.HitRecord{}, false
	}
	hit.Point = hit.Point.Add(m.Position)
	return hit, true
}

// BoundingBox returns the triangle bounds moved to Position
func (m *Mesh) BoundingBox() (core.AABB, bool) {
	box, _ := m.faces.BoundingBox()
	return box.Translate(m.Position), true
}

// Centroid returns the center of the placed mesh bounds
func (m *Mesh) Centroid() core.Vec3 {
	return m.faces.Centroid().Add(m.Position)
}

// Stats returns statistics of the internal triangle hierarchy
func (m *Mesh) Stats() BVHStats {
	return m.faces.Stats()
}
