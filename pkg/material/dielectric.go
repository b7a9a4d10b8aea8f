package material

import (
	"math"

	"github.com/df07/go-pathtracer/pkg/core"
)

// Dielectric represents a transparent material like glass that can both reflect and refract
type Dielectric struct {
	NonEmissive
	RefractiveIndex float64 // Index of refraction (e.g., 1.5 for glass)
	Tint            core.Vec3
}

// NewDielectric creates a new clear dielectric material
func NewDielectric(refractiveIndex float64) *Dielectric {
	return &Dielectric{RefractiveIndex: refractiveIndex, Tint: core.Splat(1)}
}

// Scatter chooses between reflection and refraction with Schlick's Fresnel
// approximation as the probability.
func (d *Dielectric) Scatter(rayIn core.Ray, hit HitRecord, sampler core.Sampler) (ScatterResult, bool) {
	refractionRatio := d.RefractiveIndex
	if hit.FrontFace {
		refractionRatio = 1.0 / d.RefractiveIndex
	}

	normal := hit.FacingNormal()
	unitDirection := rayIn.Direction.Normalize()

	cosTheta := math.Min(-unitDirection.Dot(normal), 1.0)
	sinTheta := math.Sqrt(max(0, 1.0-cosTheta*cosTheta))
	cannotRefract := refractionRatio*sinTheta > 1.0

	var direction, offset core.Vec3
	if cannotRefract || Reflectance(cosTheta, refractionRatio) > sampler.Get1D() {
		direction = reflect(unitDirection, normal)
		offset = normal.Multiply(ScatterOffset)
	} else {
		direction = refract(unitDirection, normal, refractionRatio)
		offset = normal.Multiply(-ScatterOffset)
	}

	return ScatterResult{
		Attenuation: d.Tint,
		Normal:      normal,
		Scattered:   core.NewRay(hit.Point.Add(offset), direction),
		PDF:         1,
	}, true
}

// ScatteringPDF is 1 for the delta lobes
func (d *Dielectric) ScatteringPDF(rayIn core.Ray, hit HitRecord, scattered core.Ray) float64 {
	return 1
}

// refract calculates the refraction of a unit vector using Snell's law
func refract(uv, n core.Vec3, etaiOverEtat float64) core.Vec3 {
	cosTheta := math.Min(-uv.Dot(n), 1.0)
	rOutPerp := uv.Add(n.Multiply(cosTheta)).Multiply(etaiOverEtat)
	rOutParallel := n.Multiply(-math.Sqrt(math.Abs(1.0 - rOutPerp.LengthSquared())))
	return rOutPerp.Add(rOutParallel)
}

// Reflectance calculates the Fresnel reflectance using Schlick's approximation
func Reflectance(cosine, refractionRatio float64) float64 {
	r0 := (1 - refractionRatio) / (1 + refractionRatio)
	r0 = r0 * r0
	return r0 + (1-r0)*math.Pow(1-cosine, 5)
}
