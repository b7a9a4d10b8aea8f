package material

import (
	"math"
	"testing"

	"github.com/df07/go-pathtracer/pkg/core"
)

func upHit(m Material) HitRecord {
	hit := HitRecord{T: 1, Point: core.NewVec3(0, 0, 0), Material: m, UV: core.NewVec2(0.5, 0.5), HasUV: true}
	hit.SetFaceNormal(core.NewRay(core.NewVec3(0, 1, 0), core.NewVec3(0, -1, 0)), core.NewVec3(0, 1, 0))
	return hit
}

func TestLambertian_Scatter(t *testing.T) {
	albedo := core.NewVec3(0.8, 0.4, 0.2)
	lambertian := NewLambertian(albedo)
	sampler := core.NewRandomSampler(42)
	rayIn := core.NewRay(core.NewVec3(0, 1, 0), core.NewVec3(0, -1, 0))
	hit := upHit(lambertian)

	for i := 0; i < 200; i++ {
		result, ok := lambertian.Scatter(rayIn, hit, sampler)
		if !ok {
			t.Fatal("Expected lambertian to scatter")
		}
		if result.Attenuation != albedo {
			t.Errorf("Expected attenuation %v, got %v", albedo, result.Attenuation)
		}
		if result.Scattered.Direction.Y < 0 {
			t.Errorf("Expected direction in upper hemisphere, got %v", result.Scattered.Direction)
		}
		if math.Abs(result.Scattered.Origin.Y-ScatterOffset) > 1e-12 {
			t.Errorf("Expected origin offset by %v along normal, got %v", ScatterOffset, result.Scattered.Origin)
		}

		scatteringPDF := lambertian.ScatteringPDF(rayIn, hit, result.Scattered)
		if math.Abs(scatteringPDF-result.PDF) > 1e-9 {
			t.Errorf("Expected sampling and scattering pdf to match, got %v and %v", result.PDF, scatteringPDF)
		}
	}
}

func TestLambertian_BackFaceUsesFacingNormal(t *testing.T) {
	lambertian := NewLambertian(core.NewVec3(0.5, 0.5, 0.5))
	sampler := core.NewRandomSampler(3)

	// Ray travelling up hits a surface whose outward normal points up
	rayIn := core.NewRay(core.NewVec3(0, -1, 0), core.NewVec3(0, 1, 0))
	hit := HitRecord{T: 1, Point: core.Vec3{}, Material: lambertian}
	hit.SetFaceNormal(rayIn, core.NewVec3(0, 1, 0))
	if hit.FrontFace {
		t.Fatal("Expected back face hit")
	}

	result, _ := lambertian.Scatter(rayIn, hit, sampler)
	if result.Scattered.Direction.Y > 0 {
		t.Errorf("Expected scatter back toward the incoming side, got %v", result.Scattered.Direction)
	}
	if result.Normal != core.NewVec3(0, -1, 0) {
		t.Errorf("Expected shading normal (0,-1,0), got %v", result.Normal)
	}
}

func TestLambertian_ScatteringPDFBelowSurface(t *testing.T) {
	lambertian := NewLambertian(core.NewVec3(0.5, 0.5, 0.5))
	hit := upHit(lambertian)
	below := core.NewRay(core.Vec3{}, core.NewVec3(0, -1, 0))
	if pdf := lambertian.ScatteringPDF(core.Ray{}, hit, below); pdf != 0 {
		t.Errorf("Expected zero pdf below the surface, got %v", pdf)
	}
}

func TestLambertian_NormalMap(t *testing.T) {
	tests := []struct {
		name     string
		sample   core.Vec3
		expected core.Vec3
	}{
		{"Flat map keeps normal", core.NewVec3(0.5, 0.5, 1), core.NewVec3(0, 1, 0)},
		{"Degenerate sample falls back", core.NewVec3(0.5, 0.5, 0.5), core.NewVec3(0, 1, 0)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			lambertian := NewTexturedLambertian(NewConstantTexture(core.Splat(1)), NewConstantTexture(tt.sample))
			result, _ := lambertian.Scatter(core.Ray{}, upHit(lambertian), core.NewRandomSampler(1))
			if result.Normal.Subtract(tt.expected).Length() > 1e-9 {
				t.Errorf("Expected normal %v, got %v", tt.expected, result.Normal)
			}
		})
	}

	// A tilted map sample must produce a tilted, unit length normal
	tilted := NewTexturedLambertian(NewConstantTexture(core.Splat(1)), NewConstantTexture(core.NewVec3(1, 0.5, 0.5)))
	result, _ := tilted.Scatter(core.Ray{}, upHit(tilted), core.NewRandomSampler(1))
	if math.Abs(result.Normal.Length()-1) > 1e-9 || math.Abs(result.Normal.Y) > 1e-9 {
		t.Errorf("Expected unit normal perpendicular to geometric normal, got %v", result.Normal)
	}
}

func TestNewMetal_FuzznessClamp(t *testing.T) {
	tests := []struct {
		name     string
		input    float64
		expected float64
	}{
		{"Valid fuzzness 0.0", 0.0, 0.0},
		{"Valid fuzzness 0.5", 0.5, 0.5},
		{"Clamp above 1.0", 1.5, 1.0},
		{"Clamp below 0.0", -0.5, 0.0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			metal := NewMetal(core.NewVec3(0.8, 0.8, 0.8), tt.input)
			if metal.Fuzzness != tt.expected {
				t.Errorf("Expected fuzzness %f, got %f", tt.expected, metal.Fuzzness)
			}
		})
	}
}

func TestMetal_PerfectReflection(t *testing.T) {
	metal := NewMetal(core.NewVec3(0.9, 0.9, 0.9), 0.0)
	rayIn := core.NewRay(core.NewVec3(-1, 1, 0), core.NewVec3(1, -1, 0))
	hit := upHit(metal)
	hit.SetFaceNormal(rayIn, core.NewVec3(0, 1, 0))

	result, ok := metal.Scatter(rayIn, hit, core.NewRandomSampler(42))
	if !ok {
		t.Fatal("Expected metal to scatter")
	}
	expected := core.NewVec3(1, 1, 0).Normalize()
	if result.Scattered.Direction.Subtract(expected).Length() > 1e-9 {
		t.Errorf("Expected direction %v, got %v", expected, result.Scattered.Direction)
	}
	if result.PDF != 1 || metal.ScatteringPDF(rayIn, hit, result.Scattered) != 1 {
		t.Error("Expected delta lobe pdfs of 1")
	}
}

func TestDielectric_Reflectance(t *testing.T) {
	// Normal incidence air to glass: ((1-1.5)/(1+1.5))^2 = 0.04
	if r := Reflectance(1.0, 1.5); math.Abs(r-0.04) > 1e-9 {
		t.Errorf("Expected reflectance 0.04, got %v", r)
	}
	if r := Reflectance(0.0, 1.5); math.Abs(r-1.0) > 1e-9 {
		t.Errorf("Expected grazing reflectance 1, got %v", r)
	}
}

func TestDielectric_TotalInternalReflection(t *testing.T) {
	glass := NewDielectric(1.5)

	// Leaving the glass at a grazing angle: sin(theta)*1.5 > 1
	rayIn := core.NewRay(core.NewVec3(-1, -0.1, 0), core.NewVec3(1, 0.1, 0))
	hit := HitRecord{T: 1, Point: core.Vec3{}, Material: glass}
	hit.SetFaceNormal(rayIn, core.NewVec3(0, 1, 0))
	if hit.FrontFace {
		t.Fatal("Expected ray inside the glass to hit the back face")
	}

	for i := 0; i < 20; i++ {
		result, ok := glass.Scatter(rayIn, hit, core.NewRandomSampler(uint64(i)))
		if !ok {
			t.Fatal("Expected dielectric to scatter")
		}
		if result.Scattered.Direction.Y > 0 {
			t.Errorf("Expected internal reflection, got direction %v", result.Scattered.Direction)
		}
	}
}

func TestDielectric_RefractsAtNormalIncidence(t *testing.T) {
	glass := NewDielectric(1.5)
	rayIn := core.NewRay(core.NewVec3(0, 1, 0), core.NewVec3(0, -1, 0))
	hit := upHit(glass)

	refracted := 0
	const n = 1000
	sampler := core.NewRandomSampler(9)
	for i := 0; i < n; i++ {
		result, _ := glass.Scatter(rayIn, hit, sampler)
		if result.Scattered.Direction.Y < 0 {
			refracted++
			if result.Scattered.Origin.Y >= 0 {
				t.Fatalf("Expected refracted ray to start below the surface, got %v", result.Scattered.Origin)
			}
		}
	}
	// 96% transmission expected
	if refracted < 920 {
		t.Errorf("Expected most rays to refract, got %d of %d", refracted, n)
	}
}

func TestEmissive(t *testing.T) {
	light := NewEmissive(core.NewVec3(4, 4, 4))
	hit := upHit(light)
	if _, ok := light.Scatter(core.Ray{}, hit, core.NewRandomSampler(1)); ok {
		t.Error("Expected emissive material to absorb")
	}
	if e := light.Emitted(hit); e != core.NewVec3(4, 4, 4) {
		t.Errorf("Expected emission (4,4,4), got %v", e)
	}
	if e := NewLambertian(core.Splat(1)).Emitted(hit); !e.IsZero() {
		t.Errorf("Expected non-emissive material to emit black, got %v", e)
	}
}

func TestIsotropic(t *testing.T) {
	iso := NewIsotropic(core.Splat(0.5))
	hit := upHit(iso)
	result, ok := iso.Scatter(core.Ray{}, hit, core.NewRandomSampler(5))
	if !ok {
		t.Fatal("Expected isotropic to scatter")
	}
	if math.Abs(result.PDF-iso.ScatteringPDF(core.Ray{}, hit, result.Scattered)) > 1e-12 {
		t.Error("Expected matching pdfs for isotropic scattering")
	}
	if math.Abs(result.PDF-1/(4*math.Pi)) > 1e-12 {
		t.Errorf("Expected pdf 1/4pi, got %v", result.PDF)
	}
}
