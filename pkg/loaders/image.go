package loaders

import (
	"fmt"
	"image"
	_ "image/jpeg" // JPEG decoder
	_ "image/png"  // PNG decoder
	"io"
	"os"

	"github.com/lucasb-eyer/go-colorful"

	"github.com/df07/go-pathtracer/pkg/core"
	"github.com/df07/go-pathtracer/pkg/material"
)

// ImageData contains loaded image data as Vec3 color array
type ImageData struct {
	Width  int
	Height int
	Pixels []core.Vec3
}

// LoadImage loads a PNG or JPEG image and converts it to a Vec3 color array.
// Values are the stored (gamma encoded) channel values scaled to [0, 1].
func LoadImage(filename string) (*ImageData, error) {
	file, err := os.Open(filename)
	if err != nil {
		return nil, fmt.Errorf("failed to open image file: %w", err)
	}
	defer file.Close()

	return decodeImage(file, false)
}

// LoadImageTexture loads a PNG or JPEG image as a texture. sRGB encoded
// pixels are converted to linear RGB so the renderer works in linear space.
func LoadImageTexture(filename string) (*material.ImageTexture, error) {
	file, err := os.Open(filename)
	if err != nil {
		return nil, fmt.Errorf("failed to open image file: %w", err)
	}
	defer file.Close()

	data, err := decodeImage(file, true)
	if err != nil {
		return nil, fmt.Errorf("texture %s: %w", filename, err)
	}
	return material.NewImageTexture(data.Width, data.Height, data.Pixels)
}

// LoadNormalMap loads a tangent-space normal map. Channel values are kept
// as stored since they encode directions rather than colors.
func LoadNormalMap(filename string) (*material.ImageTexture, error) {
	data, err := LoadImage(filename)
	if err != nil {
		return nil, err
	}
	return material.NewImageTexture(data.Width, data.Height, data.Pixels)
}

func decodeImage(r io.Reader, linear bool) (*ImageData, error) {
	// Auto-detects PNG/JPEG from the header
	img, _, err := image.Decode(r)
	if err != nil {
		return nil, fmt.Errorf("failed to decode image: %w", err)
	}

	bounds := img.Bounds()
	width := bounds.Dx()
	height := bounds.Dy()
	pixels := make([]core.Vec3, width*height)

	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			// Fully transparent pixels decode as black
			c, _ := colorful.MakeColor(img.At(x+bounds.Min.X, y+bounds.Min.Y))
			if linear {
				r, g, b := c.LinearRgb()
				pixels[y*width+x] = core.NewVec3(r, g, b)
			} else {
				pixels[y*width+x] = core.NewVec3(c.R, c.G, c.B)
			}
		}
	}

	return &ImageData{
		Width:  width,
		Height: height,
		Pixels: pixels,
	}, nil
}
