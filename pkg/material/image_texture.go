package material

import (
	"errors"
	"fmt"
	"math"

	"github.com/df07/go-pathtracer/pkg/core"
)

// ImageTexture provides linear RGB color from a 2D grid of pixels.
// UV (0,0) addresses the top-left pixel and (1,1) the bottom-right one.
type ImageTexture struct {
	Width  int
	Height int
	Pixels []core.Vec3 // Row-major: Pixels[y*Width + x]
}

// ErrInvalidTexture is returned when the pixel slice does not match the
// texture dimensions
var ErrInvalidTexture = errors.New("texture: invalid dimensions")

// NewImageTexture creates a new image texture
func NewImageTexture(width, height int, pixels []core.Vec3) (*ImageTexture, error) {
	if width < 0 || height < 0 || len(pixels) != width*height {
		return nil, fmt.Errorf("%w: %dx%d with %d pixels", ErrInvalidTexture, width, height, len(pixels))
	}
	return newImageTexture(width, height, pixels), nil
}

func newImageTexture(width, height int, pixels []core.Vec3) *ImageTexture {
	return &ImageTexture{
		Width:  width,
		Height: height,
		Pixels: pixels,
	}
}

// Evaluate samples the texture with bilinear filtering. Coordinates outside
// [0,1] are clamped to the border.
func (t *ImageTexture) Evaluate(uv core.Vec2) core.Vec3 {
	if t.Width <= 0 || t.Height <= 0 || len(t.Pixels) < t.Width*t.Height {
		return core.Vec3{}
	}

	u := clamp01(uv.X) * float64(t.Width-1)
	v := clamp01(uv.Y) * float64(t.Height-1)

	x0, y0 := int(math.Floor(u)), int(math.Floor(v))
	x1, y1 := int(math.Ceil(u)), int(math.Ceil(v))
	alpha := u - float64(x0)
	beta := v - float64(y0)

	top := t.at(x0, y0).Lerp(t.at(x1, y0), alpha)
	bottom := t.at(x0, y1).Lerp(t.at(x1, y1), alpha)
	return top.Lerp(bottom, beta)
}

func (t *ImageTexture) at(x, y int) core.Vec3 {
	return t.Pixels[y*t.Width+x]
}

func clamp01(x float64) float64 {
	if !(x > 0) {
		return 0
	}
	if x > 1 {
		return 1
	}
	return x
}
