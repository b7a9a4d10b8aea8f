package renderer

import (
	"testing"

	"github.com/df07/go-pathtracer/pkg/core"
	"github.com/df07/go-pathtracer/pkg/geometry"
	"github.com/df07/go-pathtracer/pkg/material"
	"github.com/df07/go-pathtracer/pkg/scene"
)

// createTestScene builds a small scene whose buffer values all stay inside
// the clamping range: a grey diffuse sphere four units away under a dim sky
func createTestScene(t *testing.T, width int, mat material.Material) *scene.Scene {
	t.Helper()
	camera := geometry.NewCamera(geometry.CameraConfig{
		Center:      core.NewVec3(0, 0, 0),
		LookAt:      core.NewVec3(0, 0, -1),
		Up:          core.NewVec3(0, 1, 0),
		Width:       width,
		AspectRatio: 1,
		VFov:        30,
	})
	b := scene.NewBuilder(camera, material.NewConstantTexture(core.Splat(0.5)))
	b.AddObject(geometry.NewSphere(core.NewVec3(0, 0, -5), 1, mat))
	sc, err := b.Finalize()
	if err != nil {
		t.Fatalf("Failed to finalize test scene: %v", err)
	}
	return sc
}

func grey() material.Material {
	return material.NewLambertian(core.Splat(0.5))
}
