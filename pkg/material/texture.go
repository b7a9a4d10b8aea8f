package material

import (
	"math"

	"github.com/df07/go-pathtracer/pkg/core"
)

// Texture provides spatially-varying colors addressed by surface coordinates
type Texture interface {
	Evaluate(uv core.Vec2) core.Vec3
}

// ConstantTexture provides a uniform color
type ConstantTexture struct {
	Color core.Vec3
}

// NewConstantTexture creates a new uniform color texture
func NewConstantTexture(color core.Vec3) *ConstantTexture {
	return &ConstantTexture{Color: color}
}

// Evaluate returns the constant color regardless of UV
func (c *ConstantTexture) Evaluate(uv core.Vec2) core.Vec3 {
	return c.Color
}

// DefaultCheckerFrequency is the sine frequency used by NewCheckeredTexture
const DefaultCheckerFrequency = 100.0

// CheckeredTexture alternates between two textures on a sine grid over UV space
type CheckeredTexture struct {
	Odd       Texture
	Even      Texture
	Frequency float64
}

// NewCheckeredTexture creates a checkered texture with the default frequency
func NewCheckeredTexture(odd, even Texture) *CheckeredTexture {
	return &CheckeredTexture{Odd: odd, Even: even, Frequency: DefaultCheckerFrequency}
}

// Evaluate picks Odd where sin(f*u)*sin(f*v) is negative, Even otherwise
func (c *CheckeredTexture) Evaluate(uv core.Vec2) core.Vec3 {
	if math.Sin(c.Frequency*uv.X)*math.Sin(c.Frequency*uv.Y) < 0 {
		return c.Odd.Evaluate(uv)
	}
	return c.Even.Evaluate(uv)
}
