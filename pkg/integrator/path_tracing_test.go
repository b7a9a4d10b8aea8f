package integrator

import (
	"math"
	"testing"

	"github.com/df07/go-pathtracer/pkg/core"
	"github.com/df07/go-pathtracer/pkg/geometry"
	"github.com/df07/go-pathtracer/pkg/material"
	"github.com/df07/go-pathtracer/pkg/scene"
)

// createTestScene finalizes a scene from shapes under a constant sky
func createTestScene(t *testing.T, sky core.Vec3, shapes ...geometry.Shape) *scene.Scene {
	t.Helper()
	camera := geometry.NewCamera(geometry.CameraConfig{
		Center:      core.NewVec3(0, 0, 0),
		LookAt:      core.NewVec3(0, 0, -1),
		Up:          core.NewVec3(0, 1, 0),
		Width:       8,
		AspectRatio: 1,
		VFov:        45,
	})
	b := scene.NewBuilder(camera, material.NewConstantTexture(sky))
	b.AddObject(shapes...)
	s, err := b.Finalize()
	if err != nil {
		t.Fatalf("Failed to finalize test scene: %v", err)
	}
	return s
}

func vecNear(a, b core.Vec3, tolerance float64) bool {
	return a.Subtract(b).Length() <= tolerance
}

// nanMaterial scatters with an invalid pdf
type nanMaterial struct {
	material.NonEmissive
}

func (nanMaterial) Scatter(rayIn core.Ray, hit material.HitRecord, sampler core.Sampler) (material.ScatterResult, bool) {
	return material.ScatterResult{
		Attenuation: core.Splat(1),
		Scattered:   core.NewRay(hit.Point, hit.Normal),
		PDF:         math.NaN(),
	}, true
}

func (nanMaterial) ScatteringPDF(rayIn core.Ray, hit material.HitRecord, scattered core.Ray) float64 {
	return 1
}

func TestPathTracing_Escaped(t *testing.T) {
	sky := core.NewVec3(0.2, 0.4, 0.6)
	sc := createTestScene(t, sky, geometry.NewSphere(core.NewVec3(0, 0, -10), 1, material.NewLambertian(core.Splat(0.5))))
	pt := NewPathTracingIntegrator(Config{})

	// Pointing away from the only sphere
	sample := pt.Sample(core.NewRay(core.Vec3{}, core.NewVec3(0, 0, 2)), sc, core.NewRandomSampler(1))

	if sample.State != Escaped {
		t.Fatalf("Expected escaped path, got %v", sample.State)
	}
	if sample.Color != sky || sample.Albedo != sky {
		t.Errorf("Expected sky color and albedo %v, got %v and %v", sky, sample.Color, sample.Albedo)
	}
	if sample.Normal != core.NewVec3(0, 0, -1) {
		t.Errorf("Expected normal against the unit ray direction, got %v", sample.Normal)
	}
	if sample.InvDepth != 0 || sample.Bounces != 0 {
		t.Errorf("Expected zero depth and bounces, got %v and %d", sample.InvDepth, sample.Bounces)
	}
}

func TestPathTracing_DiffuseUnderUniformSky(t *testing.T) {
	// A convex diffuse object under a uniform sky reflects exactly albedo * sky:
	// every scattered ray escapes and the pdfs cancel
	sc := createTestScene(t, core.Splat(1), geometry.NewSphere(core.NewVec3(0, 0, -5), 1, material.NewLambertian(core.NewVec3(0.5, 0.25, 0.75))))
	pt := NewPathTracingIntegrator(Config{})
	sampler := core.NewRandomSampler(3)

	for i := 0; i < 200; i++ {
		sample := pt.Sample(core.NewRay(core.Vec3{}, core.NewVec3(0.05, 0.05, -1)), sc, sampler)
		if sample.State != Escaped || sample.Bounces != 1 {
			t.Fatalf("Expected one bounce then escape, got %v after %d", sample.State, sample.Bounces)
		}
		if !vecNear(sample.Color, core.NewVec3(0.5, 0.25, 0.75), 1e-9) {
			t.Fatalf("Expected albedo-weighted sky, got %v", sample.Color)
		}
	}
}

func TestPathTracing_FirstHitAuxiliaries(t *testing.T) {
	sc := createTestScene(t, core.Splat(1), geometry.NewSphere(core.NewVec3(0, 0, -5), 1, material.NewLambertian(core.NewVec3(0.3, 0.6, 0.9))))
	pt := NewPathTracingIntegrator(Config{})

	// Non-unit direction: t is 2 but the hit is 4 units away
	sample := pt.Sample(core.NewRay(core.Vec3{}, core.NewVec3(0, 0, -2)), sc, core.NewRandomSampler(1))

	if math.Abs(sample.InvDepth-0.25) > 1e-12 {
		t.Errorf("Expected inverse depth 0.25, got %v", sample.InvDepth)
	}
	if !vecNear(sample.Normal, core.NewVec3(0, 0, 1), 1e-12) {
		t.Errorf("Expected normal (0,0,1), got %v", sample.Normal)
	}
	if sample.Albedo != core.NewVec3(0.3, 0.6, 0.9) {
		t.Errorf("Expected surface albedo, got %v", sample.Albedo)
	}
}

func TestPathTracing_EmissiveOnly(t *testing.T) {
	emission := core.NewVec3(4, 2, 0.5)
	sc := createTestScene(t, core.Splat(1), geometry.NewSphere(core.NewVec3(0, 0, -5), 1, material.NewEmissive(emission)))
	pt := NewPathTracingIntegrator(Config{})

	sample := pt.Sample(core.NewRay(core.Vec3{}, core.NewVec3(0, 0, -1)), sc, core.NewRandomSampler(1))

	if sample.State != Absorbed {
		t.Errorf("Expected emitter to absorb the path, got %v", sample.State)
	}
	if sample.Color != emission {
		t.Errorf("Expected emitted radiance %v, got %v", emission, sample.Color)
	}
	if sample.Albedo != core.NewVec3(1, 1, 0.5) {
		t.Errorf("Expected clamped emission as albedo, got %v", sample.Albedo)
	}
}

func TestPathTracing_AbsorberIsBlack(t *testing.T) {
	// Camera inside a black sphere: nothing is emitted and nothing escapes
	sc := createTestScene(t, core.Splat(1), geometry.NewSphere(core.Vec3{}, 5, material.NewLambertian(core.Vec3{})))
	pt := NewPathTracingIntegrator(Config{})
	sampler := core.NewRandomSampler(9)

	for i := 0; i < 50; i++ {
		direction := core.SampleOnUnitSphere(sampler.Get2D())
		sample := pt.Sample(core.NewRay(core.Vec3{}, direction), sc, sampler)
		if sample.Color != (core.Vec3{}) {
			t.Fatalf("Expected black, got %v", sample.Color)
		}
		if sample.State != Absorbed {
			t.Fatalf("Expected absorbed path, got %v", sample.State)
		}
	}
}

func TestPathTracing_BounceLimit(t *testing.T) {
	mirror := material.NewMetal(core.Splat(1), 0)
	// Two facing mirrors trap a ray travelling along Z
	sc := createTestScene(t, core.Splat(1),
		geometry.NewPlane(core.NewVec3(-5, -5, -1), core.NewVec3(10, 0, 0), core.NewVec3(0, 10, 0), mirror),
		geometry.NewPlane(core.NewVec3(-5, -5, 1), core.NewVec3(10, 0, 0), core.NewVec3(0, 10, 0), mirror),
	)

	tests := []struct {
		name       string
		maxBounces int
		want       int
	}{
		{"Explicit limit", 10, 10},
		{"Default limit", 0, 100},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			pt := NewPathTracingIntegrator(Config{MaxBounces: tt.maxBounces})
			sample := pt.Sample(core.NewRay(core.Vec3{}, core.NewVec3(0, 0, -1)), sc, core.NewRandomSampler(1))
			if sample.State != BounceLimit {
				t.Fatalf("Expected bounce limit, got %v", sample.State)
			}
			if sample.Bounces != tt.want {
				t.Errorf("Expected %d bounces, got %d", tt.want, sample.Bounces)
			}
			if sample.Color != (core.Vec3{}) {
				t.Errorf("Expected no light from a truncated path, got %v", sample.Color)
			}
		})
	}
}

func TestPathTracing_InvalidPDFAbsorbs(t *testing.T) {
	sc := createTestScene(t, core.Splat(1), geometry.NewSphere(core.NewVec3(0, 0, -5), 1, nanMaterial{}))
	pt := NewPathTracingIntegrator(Config{})

	sample := pt.Sample(core.NewRay(core.Vec3{}, core.NewVec3(0, 0, -1)), sc, core.NewRandomSampler(1))
	if sample.State != Absorbed {
		t.Errorf("Expected absorbed path, got %v", sample.State)
	}
	if !sample.Color.IsFinite() {
		t.Errorf("Expected finite color, got %v", sample.Color)
	}
}

func TestPathTracing_MissingMaterialPanics(t *testing.T) {
	sc := createTestScene(t, core.Splat(1), geometry.NewSphere(core.NewVec3(0, 0, -5), 1, nil))
	pt := NewPathTracingIntegrator(Config{})

	defer func() {
		if recover() == nil {
			t.Error("Expected panic for a hit without material")
		}
	}()
	pt.Sample(core.NewRay(core.Vec3{}, core.NewVec3(0, 0, -1)), sc, core.NewRandomSampler(1))
}

func TestTermination_String(t *testing.T) {
	for state, want := range map[Termination]string{Escaped: "escaped", Absorbed: "absorbed", BounceLimit: "bounce limit"} {
		if state.String() != want {
			t.Errorf("Expected %q, got %q", want, state.String())
		}
	}
}
