package material

import (
	"github.com/df07/go-pathtracer/pkg/core"
)

// Emissive represents a light-emitting material. It never scatters.
type Emissive struct {
	Emission Texture // Emitted radiance, may exceed 1
}

// NewEmissive creates a new emissive material with uniform radiance
func NewEmissive(emission core.Vec3) *Emissive {
	return &Emissive{Emission: NewConstantTexture(emission)}
}

// Emitted returns the emission texture at the hit coordinates
func (e *Emissive) Emitted(hit HitRecord) core.Vec3 {
	return e.Emission.Evaluate(hit.TexCoords())
}

// Scatter always absorbs
func (e *Emissive) Scatter(rayIn core.Ray, hit HitRecord, sampler core.Sampler) (ScatterResult, bool) {
	return ScatterResult{}, false
}

// ScatteringPDF is zero since nothing is scattered
func (e *Emissive) ScatteringPDF(rayIn core.Ray, hit HitRecord, scattered core.Ray) float64 {
	return 0
}
