package scene

import (
	"math"

	"github.com/df07/go-pathtracer/pkg/core"
	"github.com/df07/go-pathtracer/pkg/geometry"
	"github.com/df07/go-pathtracer/pkg/material"
)

// cornellSize is the edge length of the standard Cornell box
const cornellSize = 555.0

// NewCornellScene creates a classic Cornell box: five walls, an area light
// in the ceiling, a metal sphere, a glass sphere, a triangle pyramid and a
// block of fog
func NewCornellScene(cameraOverrides ...geometry.CameraConfig) (*Scene, error) {
	defaultCameraConfig := geometry.CameraConfig{
		Center:      core.NewVec3(278, 278, -800), // Outside the box looking in
		LookAt:      core.NewVec3(278, 278, 0),
		Up:          core.NewVec3(0, 1, 0),
		Width:       400,
		AspectRatio: 1.0,
		VFov:        40.0,
	}

	camera, err := presetCamera(defaultCameraConfig, cameraOverrides)
	if err != nil {
		return nil, err
	}

	// The only light comes from the ceiling
	b := NewBuilder(camera, nil)
	b.Sampling = SamplingConfig{
		SamplesPerPixel: 150,
		MaxBounces:      40,
	}

	white := material.NewLambertian(core.NewVec3(0.73, 0.73, 0.73))
	red := material.NewLambertian(core.NewVec3(0.65, 0.05, 0.05))
	green := material.NewLambertian(core.NewVec3(0.12, 0.45, 0.15))

	addCornellWalls(b, white, red, green)

	// Ceiling light, facing down and slightly below the ceiling
	lightSize := 130.0
	lightOffset := (cornellSize - lightSize) / 2.0
	b.AddObject(geometry.NewPlane(
		core.NewVec3(lightOffset, cornellSize-1, lightOffset),
		core.NewVec3(lightSize, 0, 0),
		core.NewVec3(0, 0, lightSize),
		material.NewEmissive(core.NewVec3(15.0, 15.0, 15.0)),
	))

	b.AddObject(
		geometry.NewSphere(core.NewVec3(185, 82.5, 169), 82.5, material.NewMetal(core.NewVec3(0.8, 0.8, 0.9), 0.0)),
		geometry.NewSphere(core.NewVec3(370, 90, 351), 90, material.NewDielectric(1.5)),
	)

	addPyramid(b, core.NewVec3(420, 0, 140), 110, 160, material.NewLambertian(core.NewVec3(0.8, 0.6, 0.2)))

	// Fog block in the back left corner
	fogBoundary := geometry.NewBox(core.NewVec3(130, 110, 420), core.NewVec3(70, 110, 70), math.Pi/10, nil)
	b.AddObject(geometry.NewConstantVolume(fogBoundary, 0.01, core.NewVec3(0.9, 0.9, 0.9)))

	return b.Finalize()
}

// addCornellWalls adds the floor, ceiling, back wall and the two coloured side walls
func addCornellWalls(b *Builder, white, red, green material.Material) {
	s := cornellSize
	b.AddObject(
		// Floor, XZ plane at y=0
		geometry.NewPlane(core.NewVec3(0, 0, 0), core.NewVec3(0, 0, s), core.NewVec3(s, 0, 0), white),
		// Ceiling, XZ plane at y=s
		geometry.NewPlane(core.NewVec3(0, s, 0), core.NewVec3(s, 0, 0), core.NewVec3(0, 0, s), white),
		// Back wall, XY plane at z=s
		geometry.NewPlane(core.NewVec3(0, 0, s), core.NewVec3(0, s, 0), core.NewVec3(s, 0, 0), white),
		// Left wall (red), YZ plane at x=s as seen from the camera at -Z
		geometry.NewPlane(core.NewVec3(s, 0, 0), core.NewVec3(0, 0, s), core.NewVec3(0, s, 0), red),
		// Right wall (green), YZ plane at x=0
		geometry.NewPlane(core.NewVec3(0, 0, 0), core.NewVec3(0, s, 0), core.NewVec3(0, 0, s), green),
	)
}

// addPyramid adds a square based pyramid built from individual triangles
func addPyramid(b *Builder, baseCenter core.Vec3, baseSize, height float64, mat material.Material) {
	h := baseSize / 2
	corners := [4]core.Vec3{
		baseCenter.Add(core.NewVec3(-h, 0, -h)),
		baseCenter.Add(core.NewVec3(h, 0, -h)),
		baseCenter.Add(core.NewVec3(h, 0, h)),
		baseCenter.Add(core.NewVec3(-h, 0, h)),
	}
	apex := baseCenter.Add(core.NewVec3(0, height, 0))

	for i := range corners {
		b.AddObject(geometry.NewTriangle(corners[i], apex, corners[(i+1)%4], mat))
	}
	b.AddObject(
		geometry.NewTriangle(corners[0], corners[1], corners[2], mat),
		geometry.NewTriangle(corners[0], corners[2], corners[3], mat),
	)
}
