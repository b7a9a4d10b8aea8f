package scene

import (
	"fmt"
	"math"

	"github.com/df07/go-pathtracer/pkg/core"
	"github.com/df07/go-pathtracer/pkg/geometry"
	"github.com/df07/go-pathtracer/pkg/loaders"
	"github.com/df07/go-pathtracer/pkg/material"
)

// MeshAssets names the files used by the mesh scene. Empty paths select
// the built-in defaults.
type MeshAssets struct {
	ModelPath     string // glTF/GLB model; a built-in icosphere when empty
	TexturePath   string // PNG/JPEG albedo texture; gold metal when empty
	NormalMapPath string // PNG/JPEG tangent-space normal map, used with TexturePath
}

// NewMeshScene places a glTF/GLB model on a ground plane. The model is
// scaled to fit a 2 unit tall box resting on the ground.
func NewMeshScene(assets MeshAssets, cameraOverrides ...geometry.CameraConfig) (*Scene, error) {
	defaultCameraConfig := geometry.CameraConfig{
		Center:      core.NewVec3(0, 2, 6),
		LookAt:      core.NewVec3(0, 1, 0),
		Up:          core.NewVec3(0, 1, 0),
		Width:       600,
		AspectRatio: 16.0 / 9.0,
		VFov:        45.0,
		Aperture:    0.02,
	}

	camera, err := presetCamera(defaultCameraConfig, cameraOverrides)
	if err != nil {
		return nil, err
	}

	var data geometry.MeshData
	if assets.ModelPath == "" {
		data = icosphereMeshData(3)
	} else {
		data, err = loaders.LoadGLTF(assets.ModelPath)
		if err != nil {
			return nil, fmt.Errorf("mesh scene: %w", err)
		}
	}
	fitToHeight(&data, 2.0)

	surface, err := meshMaterial(assets)
	if err != nil {
		return nil, fmt.Errorf("mesh scene: %w", err)
	}

	mesh, err := geometry.NewMesh(data, core.Vec3{}, surface)
	if err != nil {
		return nil, fmt.Errorf("mesh scene: %w", err)
	}

	b := NewBuilder(camera, material.NewSkyTexture())
	b.Sampling = SamplingConfig{
		SamplesPerPixel: 150,
		MaxBounces:      40,
	}

	b.AddObject(
		mesh,
		NewGroundPlane(core.NewVec3(0, 0, 0), 100, material.NewLambertian(core.NewVec3(0.7, 0.7, 0.7))),
		// Warm key light and cool fill light
		geometry.NewSphere(core.NewVec3(2, 6, 3), 1.5, material.NewEmissive(core.NewVec3(12.0, 11.0, 10.0))),
		geometry.NewSphere(core.NewVec3(-3, 4, 2), 0.8, material.NewEmissive(core.NewVec3(6.0, 7.0, 8.0))),
	)

	return b.Finalize()
}

// meshMaterial returns a textured diffuse material when a texture is given
// and polished gold otherwise
func meshMaterial(assets MeshAssets) (material.Material, error) {
	if assets.TexturePath == "" {
		return material.NewMetal(core.NewVec3(0.8, 0.6, 0.2), 0.05), nil
	}

	albedo, err := loaders.LoadImageTexture(assets.TexturePath)
	if err != nil {
		return nil, err
	}

	var normalMap material.Texture
	if assets.NormalMapPath != "" {
		nm, err := loaders.LoadNormalMap(assets.NormalMapPath)
		if err != nil {
			return nil, err
		}
		normalMap = nm
	}
	return material.NewTexturedLambertian(albedo, normalMap), nil
}

// fitToHeight uniformly scales the positions so the model is height tall,
// centered on the Y axis and resting on y=0
func fitToHeight(data *geometry.MeshData, height float64) {
	box := core.NewAABBFromPoints(data.Positions...)
	size := box.Size()
	if size.Y <= 0 {
		return
	}
	scale := height / size.Y
	offset := core.NewVec3(-box.Center().X, -box.Min.Y, -box.Center().Z)
	for i, p := range data.Positions {
		data.Positions[i] = p.Add(offset).Multiply(scale)
	}
}

// icosphereMeshData returns a unit sphere built by subdividing an
// icosahedron, with smooth normals and spherical UVs
func icosphereMeshData(subdivisions int) geometry.MeshData {
	phi := (1.0 + math.Sqrt(5)) / 2.0

	positions := []core.Vec3{
		core.NewVec3(-1, phi, 0), core.NewVec3(1, phi, 0), core.NewVec3(-1, -phi, 0), core.NewVec3(1, -phi, 0),
		core.NewVec3(0, -1, phi), core.NewVec3(0, 1, phi), core.NewVec3(0, -1, -phi), core.NewVec3(0, 1, -phi),
		core.NewVec3(phi, 0, -1), core.NewVec3(phi, 0, 1), core.NewVec3(-phi, 0, -1), core.NewVec3(-phi, 0, 1),
	}
	for i := range positions {
		positions[i] = positions[i].Normalize()
	}

	faces := []int{
		0, 11, 5, 0, 5, 1, 0, 1, 7, 0, 7, 10, 0, 10, 11,
		1, 5, 9, 5, 11, 4, 11, 10, 2, 10, 7, 6, 7, 1, 8,
		3, 9, 4, 3, 4, 2, 3, 2, 6, 3, 6, 8, 3, 8, 9,
		4, 9, 5, 2, 4, 11, 6, 2, 10, 8, 6, 7, 9, 8, 1,
	}

	for level := 0; level < subdivisions; level++ {
		midpoints := make(map[[2]int]int)
		midpoint := func(a, b int) int {
			key := [2]int{min(a, b), max(a, b)}
			if idx, ok := midpoints[key]; ok {
				return idx
			}
			positions = append(positions, positions[a].Add(positions[b]).Normalize())
			midpoints[key] = len(positions) - 1
			return len(positions) - 1
		}

		next := make([]int, 0, len(faces)*4)
		for f := 0; f < len(faces); f += 3 {
			a, b, c := faces[f], faces[f+1], faces[f+2]
			ab, bc, ca := midpoint(a, b), midpoint(b, c), midpoint(c, a)
			next = append(next,
				a, ab, ca,
				b, bc, ab,
				c, ca, bc,
				ab, bc, ca,
			)
		}
		faces = next
	}

	normals := make([]core.Vec3, len(positions))
	uvs := make([]core.Vec2, len(positions))
	for i, p := range positions {
		normals[i] = p
		uvs[i] = core.SphericalUV(p)
	}

	return geometry.MeshData{
		Positions: positions,
		Normals:   normals,
		UVs:       uvs,
		Indices:   faces,
	}
}
