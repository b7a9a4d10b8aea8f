package material

import (
	"github.com/df07/go-pathtracer/pkg/core"
)

// Metal represents a metallic material with specular reflection
type Metal struct {
	NonEmissive
	Albedo   Texture // Metal color
	Fuzzness float64 // 0.0 = perfect mirror, 1.0 = very fuzzy
}

// NewMetal creates a new metal material
func NewMetal(albedo core.Vec3, fuzzness float64) *Metal {
	return &Metal{Albedo: NewConstantTexture(albedo), Fuzzness: max(0, min(1, fuzzness))}
}

// Scatter reflects the incoming ray, perturbed by the fuzz radius. Rays that
// would be reflected into the surface are absorbed.
func (m *Metal) Scatter(rayIn core.Ray, hit HitRecord, sampler core.Sampler) (ScatterResult, bool) {
	normal := hit.FacingNormal()
	reflected := reflect(rayIn.Direction.Normalize(), normal)

	if m.Fuzzness > 0 {
		reflected = reflected.Add(core.SamplePointInUnitSphere(sampler.Get3D()).Multiply(m.Fuzzness))
	}

	if reflected.Dot(normal) <= 0 {
		return ScatterResult{}, false
	}

	return ScatterResult{
		Attenuation: m.Albedo.Evaluate(hit.TexCoords()),
		Normal:      normal,
		Scattered:   core.NewRay(hit.Point.Add(normal.Multiply(ScatterOffset)), reflected),
		PDF:         1,
	}, true
}

// ScatteringPDF is 1 for the delta lobe so the sample weight reduces to the albedo
func (m *Metal) ScatteringPDF(rayIn core.Ray, hit HitRecord, scattered core.Ray) float64 {
	return 1
}

// reflect calculates the reflection of a vector v off a surface with normal n
func reflect(v, n core.Vec3) core.Vec3 {
	return v.Subtract(n.Multiply(2 * v.Dot(n)))
}
