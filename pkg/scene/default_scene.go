package scene

import (
	"math"

	"github.com/df07/go-pathtracer/pkg/core"
	"github.com/df07/go-pathtracer/pkg/geometry"
	"github.com/df07/go-pathtracer/pkg/material"
)

// NewDefaultScene creates a default scene with spheres, a checkered ground
// and a large emissive sphere acting as the sun
func NewDefaultScene(cameraOverrides ...geometry.CameraConfig) (*Scene, error) {
	defaultCameraConfig := geometry.CameraConfig{
		Center:        core.NewVec3(0, 0.75, 2), // Position camera higher and farther back
		LookAt:        core.NewVec3(0, 0.5, -1), // Look at the sphere center
		Up:            core.NewVec3(0, 1, 0),
		Width:         400,
		AspectRatio:   16.0 / 9.0,
		VFov:          40.0,
		Aperture:      0.05,
		FocusDistance: 0.0, // Focus on LookAt
	}

	camera, err := presetCamera(defaultCameraConfig, cameraOverrides)
	if err != nil {
		return nil, err
	}

	b := NewBuilder(camera, material.NewSkyTexture())
	b.Sampling = SamplingConfig{
		SamplesPerPixel: 200,
		MaxBounces:      50,
	}

	// Materials
	lambertianBlue := material.NewLambertian(core.NewVec3(0.1, 0.2, 0.5))
	lambertianRed := material.NewLambertian(core.NewVec3(0.65, 0.25, 0.2))
	metalSilver := material.NewMetal(core.NewVec3(0.8, 0.8, 0.8), 0.0)
	metalGold := material.NewMetal(core.NewVec3(0.8, 0.6, 0.2), 0.3)
	glass := material.NewDielectric(1.5)

	const groundSize = 100.0
	checker := material.NewCheckeredTexture(
		material.NewConstantTexture(core.NewVec3(0.2, 0.3, 0.1)),
		material.NewConstantTexture(core.NewVec3(0.9, 0.9, 0.9)),
	)
	checker.Frequency = math.Pi * groundSize / 0.5 // half unit checks
	ground := material.NewTexturedLambertian(checker, nil)

	b.AddObject(
		NewGroundPlane(core.NewVec3(0, 0, 0), groundSize, ground),

		geometry.NewSphere(core.NewVec3(0, 0.5, -1), 0.5, lambertianRed),
		geometry.NewSphere(core.NewVec3(-1, 0.5, -1), 0.5, metalSilver),
		geometry.NewSphere(core.NewVec3(1, 0.5, -1), 0.5, metalGold),
		geometry.NewSphere(core.NewVec3(0.5, 0.25, -0.5), 0.25, glass),

		// Hollow glass sphere with a blue sphere inside; the negative radius
		// turns the inner surface's normals inward
		geometry.NewSphere(core.NewVec3(-0.5, 0.25, -0.5), 0.25, glass),
		geometry.NewSphere(core.NewVec3(-0.5, 0.25, -0.5), -0.24, glass),
		geometry.NewSphere(core.NewVec3(-0.5, 0.25, -0.5), 0.20, lambertianBlue),

		// Sun
		geometry.NewSphere(core.NewVec3(30, 30.5, 15), 10, material.NewEmissive(core.NewVec3(15.0, 14.0, 13.0))),
	)

	return b.Finalize()
}
