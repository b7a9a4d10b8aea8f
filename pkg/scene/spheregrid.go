package scene

import (
	"math"

	"github.com/lucasb-eyer/go-colorful"

	"github.com/df07/go-pathtracer/pkg/core"
	"github.com/df07/go-pathtracer/pkg/geometry"
	"github.com/df07/go-pathtracer/pkg/material"
)

// oklchToLinear converts OKLCH to linear RGB, clamped to the sRGB gamut.
// L: lightness (0-1), C: chroma (0-0.4+), H: hue (0-360 degrees)
func oklchToLinear(l, c, h float64) core.Vec3 {
	r, g, b := colorful.OkLch(l, c, h).Clamped().LinearRgb()
	return core.NewVec3(r, g, b)
}

// NewSphereGridScene creates a scene with a grid of metal spheres whose
// hue varies along X and chroma along Z
func NewSphereGridScene(gridSize int, cameraOverrides ...geometry.CameraConfig) (*Scene, error) {
	defaultCameraConfig := geometry.CameraConfig{
		Center:      core.NewVec3(4.5, 6, 18),    // Back and slightly above
		LookAt:      core.NewVec3(4.5, 0.8, 4.5), // Center of the grid
		Up:          core.NewVec3(0, 1, 0),
		Width:       800,
		AspectRatio: 16.0 / 9.0,
		VFov:        40.0,
		Aperture:    0.02,
	}

	camera, err := presetCamera(defaultCameraConfig, cameraOverrides)
	if err != nil {
		return nil, err
	}

	b := NewBuilder(camera, material.NewSkyTexture())
	b.Sampling = SamplingConfig{
		SamplesPerPixel: 100,
		MaxBounces:      40,
	}

	// Sun
	b.AddObject(geometry.NewSphere(core.NewVec3(20, 25, 20), 8, material.NewEmissive(core.NewVec3(12.0, 11.5, 10.0))))
	b.AddObject(NewGroundPlane(core.NewVec3(4.5, 0, 4.5), 200, material.NewLambertian(core.NewVec3(0.5, 0.5, 0.5))))

	gridSize = max(gridSize, 2)

	// Fit the grid in a 9x9 area whatever its size
	targetArea := 9.0
	spacing := targetArea / float64(gridSize-1)
	sphereRadius := math.Max(0.02, math.Min(0.35, spacing*0.35))

	const (
		baseLightness = 0.65
		minChroma     = 0.05 // near gray
		maxChroma     = 0.25 // vivid
	)

	for i := 0; i < gridSize; i++ {
		for j := 0; j < gridSize; j++ {
			x := float64(i)*spacing - targetArea/2.0 + 4.5
			z := float64(j)*spacing - targetArea/2.0 + 4.5
			position := core.NewVec3(x, sphereRadius, z)

			hue := float64(i) / float64(gridSize-1) * 360.0
			chroma := minChroma + float64(j)/float64(gridSize-1)*(maxChroma-minChroma)
			lightness := baseLightness + 0.1*math.Sin(float64(i+j)*0.5)

			roughness := 0.05 + 0.1*float64((i+j)%3)/2.0
			metal := material.NewMetal(oklchToLinear(lightness, chroma, hue), roughness)

			b.AddObject(geometry.NewSphere(position, sphereRadius, metal))
		}
	}

	return b.Finalize()
}
