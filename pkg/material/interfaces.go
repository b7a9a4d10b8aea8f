package material

import (
	"github.com/df07/go-pathtracer/pkg/core"
)

// Material describes how a surface emits and scatters light.
// Implementations must be safe for concurrent use by render workers.
type Material interface {
	// Emitted returns the radiance leaving the surface at the hit point
	Emitted(hit HitRecord) core.Vec3

	// Scatter samples an outgoing ray. Returning false means the path is absorbed.
	Scatter(rayIn core.Ray, hit HitRecord, sampler core.Sampler) (ScatterResult, bool)

	// ScatteringPDF evaluates the directional scattering density for the given
	// outgoing ray. It is computed independently of the sampling PDF.
	ScatteringPDF(rayIn core.Ray, hit HitRecord, scattered core.Ray) float64
}

// ScatterResult contains the result of material scattering
type ScatterResult struct {
	Attenuation core.Vec3 // Surface albedo
	Normal      core.Vec3 // Shading normal after normal mapping
	Scattered   core.Ray  // The scattered ray
	PDF         float64   // Density the scattered direction was drawn with
}

// HitRecord contains information about a ray-object intersection
type HitRecord struct {
	T         float64   // Parameter t along the ray
	Point     core.Vec3 // Point of intersection
	Normal    core.Vec3 // Geometric normal as defined by the shape, not necessarily unit length
	FrontFace bool      // Whether the ray arrived against Normal
	Material  Material  // Nil only for pure bounding volumes
	UV        core.Vec2 // Surface coordinates, valid when HasUV is set
	HasUV     bool
}

// SetFaceNormal stores the outward normal and records which side the ray arrived from
func (h *HitRecord) SetFaceNormal(ray core.Ray, outwardNormal core.Vec3) {
	h.Normal = outwardNormal
	h.FrontFace = ray.Direction.Dot(outwardNormal) < 0
}

// FacingNormal returns the unit normal oriented against the incoming ray
func (h HitRecord) FacingNormal() core.Vec3 {
	n := h.Normal.Normalize()
	if h.FrontFace {
		return n
	}
	return n.Negate()
}

// TexCoords returns the hit UV, or the origin when the shape provides none
func (h HitRecord) TexCoords() core.Vec2 {
	if h.HasUV {
		return h.UV
	}
	return core.Vec2{}
}

// NonEmissive can be embedded by materials that emit no light
type NonEmissive struct{}

// Emitted always returns black
func (NonEmissive) Emitted(hit HitRecord) core.Vec3 {
	return core.Vec3{}
}
