package geometry

import (
	"math"
	"testing"

	"github.com/df07/go-pathtracer/pkg/core"
	"github.com/df07/go-pathtracer/pkg/material"
)

var testMaterial = material.NewLambertian(core.NewVec3(0.5, 0.5, 0.5))

func TestSphere_Hit(t *testing.T) {
	sphere := NewSphere(core.NewVec3(0, 0, 0), 1.0, testMaterial)

	tests := []struct {
		name           string
		ray            core.Ray
		tMin           float64
		expectHit      bool
		expectedT      float64
		expectedFront  bool
		expectedNormal core.Vec3
	}{
		{
			name:           "Front face hit",
			ray:            core.NewRay(core.NewVec3(0, 0, -5), core.NewVec3(0, 0, 1)),
			tMin:           0.001,
			expectHit:      true,
			expectedT:      4,
			expectedFront:  true,
			expectedNormal: core.NewVec3(0, 0, -1),
		},
		{
			name:           "Inside falls back to far root",
			ray:            core.NewRay(core.NewVec3(0, 0, 0), core.NewVec3(1, 0, 0)),
			tMin:           0.001,
			expectHit:      true,
			expectedT:      1,
			expectedFront:  false,
			expectedNormal: core.NewVec3(1, 0, 0),
		},
		{
			name:      "Miss",
			ray:       core.NewRay(core.NewVec3(2, 0, 0), core.NewVec3(0, 1, 0)),
			tMin:      0.001,
			expectHit: false,
		},
		{
			name:      "Behind the ray",
			ray:       core.NewRay(core.NewVec3(0, 0, 5), core.NewVec3(0, 0, 1)),
			tMin:      0.001,
			expectHit: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			hit, ok := sphere.Hit(tt.ray, tt.tMin, math.Inf(1))
			if ok != tt.expectHit {
				t.Fatalf("Expected hit=%v, got %v", tt.expectHit, ok)
			}
			if !ok {
				return
			}
			if math.Abs(hit.T-tt.expectedT) > 1e-9 {
				t.Errorf("Expected t=%v, got %v", tt.expectedT, hit.T)
			}
			if hit.FrontFace != tt.expectedFront {
				t.Errorf("Expected front face %v, got %v", tt.expectedFront, hit.FrontFace)
			}
			if hit.Normal.Subtract(tt.expectedNormal).Length() > 1e-9 {
				t.Errorf("Expected normal %v, got %v", tt.expectedNormal, hit.Normal)
			}
			if hit.Material != testMaterial {
				t.Error("Expected hit to carry the sphere material")
			}
			if !hit.HasUV || hit.UV.X < 0 || hit.UV.X > 1 || hit.UV.Y < 0 || hit.UV.Y > 1 {
				t.Errorf("Expected uv in [0,1]^2, got %v", hit.UV)
			}
		})
	}
}

func TestSphere_NegativeRadiusInvertsNormal(t *testing.T) {
	hollow := NewSphere(core.NewVec3(0, 0, 0), -1.0, testMaterial)
	hit, ok := hollow.Hit(core.NewRay(core.NewVec3(0, 0, -5), core.NewVec3(0, 0, 1)), 0.001, math.Inf(1))
	if !ok {
		t.Fatal("Expected hit on hollow sphere")
	}
	if hit.Normal.Subtract(core.NewVec3(0, 0, 1)).Length() > 1e-9 {
		t.Errorf("Expected inward normal (0,0,1), got %v", hit.Normal)
	}
	if hit.FrontFace {
		t.Error("Expected inverted sphere to report a back face from outside")
	}

	box, _ := hollow.BoundingBox()
	if !box.IsValid() || box.Size() != core.Splat(2) {
		t.Errorf("Expected 2x2x2 bounds for negative radius, got %v", box)
	}
}

func TestPlane_Hit(t *testing.T) {
	// Unit square in the XY plane at z=0, normal +Z
	plane := NewPlane(core.NewVec3(0, 0, 0), core.NewVec3(1, 0, 0), core.NewVec3(0, 1, 0), testMaterial)

	tests := []struct {
		name      string
		ray       core.Ray
		expectHit bool
		expectedT float64
		uv        core.Vec2
	}{
		{"Center hit", core.NewRay(core.NewVec3(0.5, 0.5, 2), core.NewVec3(0, 0, -1)), true, 2, core.NewVec2(0.5, 0.5)},
		{"Corner region", core.NewRay(core.NewVec3(0.9, 0.1, -1), core.NewVec3(0, 0, 1)), true, 1, core.NewVec2(0.9, 0.1)},
		{"Outside span", core.NewRay(core.NewVec3(1.5, 0.5, 2), core.NewVec3(0, 0, -1)), false, 0, core.Vec2{}},
		{"Parallel", core.NewRay(core.NewVec3(0.5, 0.5, 1), core.NewVec3(1, 0, 0)), false, 0, core.Vec2{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			hit, ok := plane.Hit(tt.ray, 0.001, math.Inf(1))
			if ok != tt.expectHit {
				t.Fatalf("Expected hit=%v, got %v", tt.expectHit, ok)
			}
			if !ok {
				return
			}
			if math.Abs(hit.T-tt.expectedT) > 1e-9 {
				t.Errorf("Expected t=%v, got %v", tt.expectedT, hit.T)
			}
			if math.Abs(hit.UV.X-tt.uv.X) > 1e-9 || math.Abs(hit.UV.Y-tt.uv.Y) > 1e-9 {
				t.Errorf("Expected uv %v, got %v", tt.uv, hit.UV)
			}
		})
	}
}

func TestPlane_NonOrthogonalSpans(t *testing.T) {
	// Sheared parallelogram: corner + u*(2,0,0) + v*(1,1,0)
	plane := NewPlane(core.Vec3{}, core.NewVec3(2, 0, 0), core.NewVec3(1, 1, 0), testMaterial)

	hit, ok := plane.Hit(core.NewRay(core.NewVec3(2, 0.5, 1), core.NewVec3(0, 0, -1)), 0, math.Inf(1))
	if !ok {
		t.Fatal("Expected hit inside sheared parallelogram")
	}
	// (2, 0.5) = 0.75*(2,0) + 0.5*(1,1)
	if math.Abs(hit.UV.X-0.75) > 1e-9 || math.Abs(hit.UV.Y-0.5) > 1e-9 {
		t.Errorf("Expected uv (0.75, 0.5), got %v", hit.UV)
	}

	if _, ok := plane.Hit(core.NewRay(core.NewVec3(0.2, 0.9, 1), core.NewVec3(0, 0, -1)), 0, math.Inf(1)); ok {
		t.Error("Expected miss outside the sheared edge")
	}
}

func TestPlane_Degenerate(t *testing.T) {
	plane := NewPlane(core.Vec3{}, core.NewVec3(1, 0, 0), core.NewVec3(2, 0, 0), testMaterial)
	if _, ok := plane.Hit(core.NewRay(core.NewVec3(0.5, 0, 1), core.NewVec3(0, 0, -1)), 0, math.Inf(1)); ok {
		t.Error("Expected degenerate plane to report no hit")
	}
}

func TestPlane_BoundingBoxHasThickness(t *testing.T) {
	plane := NewPlane(core.Vec3{}, core.NewVec3(1, 0, 0), core.NewVec3(0, 0, 1), testMaterial)
	box, ok := plane.BoundingBox()
	if !ok {
		t.Fatal("Expected bounded plane")
	}
	if box.Size().Y <= 0 {
		t.Errorf("Expected non-zero thickness along the normal, got %v", box)
	}
	if _, hit := box.Hit(core.NewRay(core.NewVec3(0.5, 5, 0.5), core.NewVec3(0, -1, 0)), 0, math.Inf(1)); !hit {
		t.Error("Expected slab test to hit the thickened box")
	}
}

func TestTriangle_Hit(t *testing.T) {
	tri := NewTriangle(core.NewVec3(0, 0, 0), core.NewVec3(1, 0, 0), core.NewVec3(0, 1, 0), testMaterial)

	t.Run("Centroid hit", func(t *testing.T) {
		c := tri.Centroid()
		hit, ok := tri.Hit(core.NewRay(c.Add(core.NewVec3(0, 0, 1)), core.NewVec3(0, 0, -1)), 0.001, math.Inf(1))
		if !ok {
			t.Fatal("Expected hit at centroid")
		}
		if math.Abs(hit.T-1) > 1e-9 {
			t.Errorf("Expected t=1, got %v", hit.T)
		}
		if math.Abs(hit.UV.X-1.0/3) > 1e-9 || math.Abs(hit.UV.Y-1.0/3) > 1e-9 {
			t.Errorf("Expected barycentric uv (1/3,1/3), got %v", hit.UV)
		}
		if hit.Normal.Subtract(core.NewVec3(0, 0, 1)).Length() > 1e-9 {
			t.Errorf("Expected face normal (0,0,1), got %v", hit.Normal)
		}
	})

	t.Run("Beyond hypotenuse", func(t *testing.T) {
		if _, ok := tri.Hit(core.NewRay(core.NewVec3(0.6, 0.6, 1), core.NewVec3(0, 0, -1)), 0.001, math.Inf(1)); ok {
			t.Error("Expected miss beyond the hypotenuse")
		}
	})

	t.Run("Interpolated attributes", func(t *testing.T) {
		smooth := NewTriangle(core.NewVec3(0, 0, 0), core.NewVec3(1, 0, 0), core.NewVec3(0, 1, 0), testMaterial).
			WithNormals(core.NewVec3(0, 0, 1), core.NewVec3(1, 0, 1), core.NewVec3(0, 1, 1)).
			WithUVs(core.NewVec2(0, 0), core.NewVec2(1, 0), core.NewVec2(0, 1))

		hit, ok := smooth.Hit(core.NewRay(core.NewVec3(0.5, 0, 1), core.NewVec3(0, 0, -1)), 0.001, math.Inf(1))
		if !ok {
			t.Fatal("Expected hit on edge midpoint")
		}
		if hit.Normal.Subtract(core.NewVec3(0.5, 0, 1)).Length() > 1e-9 {
			t.Errorf("Expected interpolated normal (0.5,0,1), got %v", hit.Normal)
		}
		if math.Abs(hit.UV.X-0.5) > 1e-9 || math.Abs(hit.UV.Y) > 1e-9 {
			t.Errorf("Expected interpolated uv (0.5,0), got %v", hit.UV)
		}
	})
}

func TestBox_HitFromEachSide(t *testing.T) {
	box := NewAxisAlignedBox(core.NewVec3(-1, -1, -1), core.NewVec3(1, 1, 1), testMaterial)

	dirs := []core.Vec3{
		core.NewVec3(1, 0, 0), core.NewVec3(-1, 0, 0),
		core.NewVec3(0, 1, 0), core.NewVec3(0, -1, 0),
		core.NewVec3(0, 0, 1), core.NewVec3(0, 0, -1),
	}
	for _, d := range dirs {
		hit, ok := box.Hit(core.NewRay(d.Multiply(-5), d), 0.001, math.Inf(1))
		if !ok {
			t.Fatalf("Expected hit travelling along %v", d)
		}
		if math.Abs(hit.T-4) > 1e-9 {
			t.Errorf("Direction %v: expected t=4, got %v", d, hit.T)
		}
		if !hit.FrontFace {
			t.Errorf("Direction %v: expected outward normals on the box", d)
		}
	}
}

func TestBox_RotatedBounds(t *testing.T) {
	box := NewBox(core.Vec3{}, core.NewVec3(1, 1, 1), math.Pi/4, testMaterial)
	bounds, _ := box.BoundingBox()
	if bounds.Max.X < math.Sqrt2-1e-9 {
		t.Errorf("Expected rotated box to extend to sqrt(2) in X, got %v", bounds.Max.X)
	}
}

func TestConstantVolume(t *testing.T) {
	boundary := NewSphere(core.Vec3{}, 1, nil)

	t.Run("Dense medium scatters inside boundary", func(t *testing.T) {
		fog := NewConstantVolume(boundary, 1e6, core.Splat(1))
		hit, ok := fog.Hit(core.NewRay(core.NewVec3(0, 0, -5), core.NewVec3(0, 0, 1)), 0.001, math.Inf(1))
		if !ok {
			t.Fatal("Expected dense medium to scatter")
		}
		if hit.T < 4 || hit.T > 4.01 {
			t.Errorf("Expected scattering just past the boundary, got t=%v", hit.T)
		}
		if _, isIsotropic := hit.Material.(*material.Isotropic); !isIsotropic {
			t.Errorf("Expected isotropic phase material, got %T", hit.Material)
		}
	})

	t.Run("Thin medium mostly passes", func(t *testing.T) {
		fog := NewConstantVolume(boundary, 1e-9, core.Splat(1))
		if _, ok := fog.Hit(core.NewRay(core.NewVec3(0, 0, -5), core.NewVec3(0, 0, 1)), 0.001, math.Inf(1)); ok {
			t.Error("Expected near-vacuum to let the ray through")
		}
	})

	t.Run("Missing the boundary", func(t *testing.T) {
		fog := NewConstantVolume(boundary, 1e6, core.Splat(1))
		if _, ok := fog.Hit(core.NewRay(core.NewVec3(5, 0, -5), core.NewVec3(0, 0, 1)), 0.001, math.Inf(1)); ok {
			t.Error("Expected miss outside the boundary")
		}
	})

	t.Run("Deterministic for equal rays", func(t *testing.T) {
		fog := NewConstantVolume(boundary, 0.5, core.Splat(1))
		ray := core.NewRay(core.NewVec3(0, 0, -5), core.NewVec3(0.01, 0.02, 1))
		a, okA := fog.Hit(ray, 0.001, math.Inf(1))
		b, okB := fog.Hit(ray, 0.001, math.Inf(1))
		if okA != okB || a.T != b.T {
			t.Error("Expected identical results for identical rays")
		}
	})
}
