package material

import (
	"math"

	"github.com/df07/go-pathtracer/pkg/core"
)

const uniformSpherePDF = 1.0 / (4.0 * math.Pi)

// Isotropic scatters uniformly in all directions. It is the phase function
// used inside constant-density volumes.
type Isotropic struct {
	NonEmissive
	Albedo Texture
}

// NewIsotropic creates a new isotropic phase material
func NewIsotropic(albedo core.Vec3) *Isotropic {
	return &Isotropic{Albedo: NewConstantTexture(albedo)}
}

// Scatter picks a uniform direction on the sphere from the hit point
func (i *Isotropic) Scatter(rayIn core.Ray, hit HitRecord, sampler core.Sampler) (ScatterResult, bool) {
	direction := core.SampleOnUnitSphere(sampler.Get2D())
	return ScatterResult{
		Attenuation: i.Albedo.Evaluate(hit.TexCoords()),
		Normal:      direction,
		Scattered:   core.NewRay(hit.Point, direction),
		PDF:         uniformSpherePDF,
	}, true
}

// ScatteringPDF is constant over the sphere
func (i *Isotropic) ScatteringPDF(rayIn core.Ray, hit HitRecord, scattered core.Ray) float64 {
	return uniformSpherePDF
}
