package material

import (
	"github.com/df07/go-pathtracer/pkg/core"
)

// NewCheckerboardTexture bakes a checkerboard of the given cell size into an image texture
func NewCheckerboardTexture(width, height, checkSize int, color1, color2 core.Vec3) *ImageTexture {
	pixels := make([]core.Vec3, width*height)
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			if (x/checkSize+y/checkSize)%2 == 0 {
				pixels[y*width+x] = color1
			} else {
				pixels[y*width+x] = color2
			}
		}
	}
	return newImageTexture(width, height, pixels)
}

// NewGradientTexture creates a vertical gradient from top (v=0) to bottom (v=1).
// Used as a cheap sky: v=0 is straight up, v=1 straight down.
func NewGradientTexture(height int, top, bottom core.Vec3) *ImageTexture {
	if height < 2 {
		height = 2
	}
	pixels := make([]core.Vec3, 2*height)
	for y := 0; y < height; y++ {
		c := top.Lerp(bottom, float64(y)/float64(height-1))
		pixels[2*y] = c
		pixels[2*y+1] = c
	}
	return newImageTexture(2, height, pixels)
}

// NewSkyTexture returns the default sky used by the preset scenes: a blue
// zenith fading to white at the horizon and a dark ground below.
func NewSkyTexture() *ImageTexture {
	const height = 64
	zenith := core.NewVec3(0.5, 0.7, 1.0)
	horizon := core.NewVec3(1.0, 1.0, 1.0)
	ground := core.NewVec3(0.2, 0.2, 0.2)

	pixels := make([]core.Vec3, 2*height)
	half := height / 2
	for y := 0; y < height; y++ {
		var c core.Vec3
		if y < half {
			c = zenith.Lerp(horizon, float64(y)/float64(half-1))
		} else {
			c = ground
		}
		pixels[2*y] = c
		pixels[2*y+1] = c
	}
	return newImageTexture(2, height, pixels)
}
