package material

import (
	"math"

	"github.com/df07/go-pathtracer/pkg/core"
)

// ScatterOffset is how far scattered rays start above the surface along the normal
const ScatterOffset = 1e-3

// Lambertian represents a perfectly diffuse material
type Lambertian struct {
	NonEmissive
	Albedo    Texture // Base color/reflectance (can be solid or textured)
	NormalMap Texture // Optional tangent-space normal map
}

// NewLambertian creates a new lambertian material with solid color
func NewLambertian(albedo core.Vec3) *Lambertian {
	return &Lambertian{Albedo: NewConstantTexture(albedo)}
}

// NewTexturedLambertian creates a new lambertian material with texture and optional normal map
func NewTexturedLambertian(albedo Texture, normalMap Texture) *Lambertian {
	return &Lambertian{Albedo: albedo, NormalMap: normalMap}
}

// Scatter draws a cosine-weighted direction around the shading normal
func (l *Lambertian) Scatter(rayIn core.Ray, hit HitRecord, sampler core.Sampler) (ScatterResult, bool) {
	uv := hit.TexCoords()
	normal := l.shadingNormal(hit, uv)

	direction := core.NewONB(normal).Local(core.RandomCosineDirection(sampler.Get2D()))
	pdf := normal.Dot(direction) / math.Pi

	return ScatterResult{
		Attenuation: l.Albedo.Evaluate(uv),
		Normal:      normal,
		Scattered:   core.NewRay(hit.Point.Add(normal.Multiply(ScatterOffset)), direction),
		PDF:         pdf,
	}, true
}

// ScatteringPDF returns max(0, cos)/pi with respect to the shading normal
func (l *Lambertian) ScatteringPDF(rayIn core.Ray, hit HitRecord, scattered core.Ray) float64 {
	normal := l.shadingNormal(hit, hit.TexCoords())
	cosine := normal.Dot(scattered.Direction.Normalize())
	if cosine < 0 {
		return 0
	}
	return cosine / math.Pi
}

// shadingNormal applies the normal map, if any, to the normal facing the incoming ray
func (l *Lambertian) shadingNormal(hit HitRecord, uv core.Vec2) core.Vec3 {
	normal := hit.FacingNormal()
	if l.NormalMap == nil {
		return normal
	}

	// Decode [0,1]^3 to [-1,1]^3 and rotate from tangent space into world space
	sample := l.NormalMap.Evaluate(uv).Multiply(2).Subtract(core.Splat(1))
	mapped := core.NewONB(normal).Local(sample).Normalize()
	if mapped.IsZero() {
		return normal
	}
	return mapped
}
