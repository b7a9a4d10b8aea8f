package renderer

import (
	"bufio"
	"encoding/binary"
	"fmt"
	"image"
	"image/color"
	"image/png"
	"io"
	"math"
	"os"
	"path/filepath"

	"github.com/lucasb-eyer/go-colorful"
)

// Buffer names used by SaveBuffers
const (
	BufferColor  = "color"
	BufferAlbedo = "albedo"
	BufferNormal = "normal"
	BufferDepth  = "depth"
)

// ToImage converts a linear float RGB buffer to an 8-bit sRGB image
func ToImage(width, height int, data []float32) *image.RGBA {
	return toImage(width, height, data, func(r, g, b float64) color.RGBA {
		c := colorful.LinearRgb(r, g, b).Clamped()
		r8, g8, b8 := c.RGB255()
		return color.RGBA{R: r8, G: g8, B: b8, A: 255}
	})
}

// NormalToImage maps normals from [-1,1] to [0,1] without gamma
func NormalToImage(width, height int, data []float32) *image.RGBA {
	return toImage(width, height, data, func(x, y, z float64) color.RGBA {
		return color.RGBA{R: unorm8((x + 1) / 2), G: unorm8((y + 1) / 2), B: unorm8((z + 1) / 2), A: 255}
	})
}

// DepthToImage writes inverse depth as linear gray
func DepthToImage(width, height int, data []float32) *image.RGBA {
	return toImage(width, height, data, func(d, _, _ float64) color.RGBA {
		v := unorm8(d)
		return color.RGBA{R: v, G: v, B: v, A: 255}
	})
}

func toImage(width, height int, data []float32, convert func(r, g, b float64) color.RGBA) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, width, height))
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			i := (y*width + x) * 3
			img.SetRGBA(x, y, convert(float64(data[i]), float64(data[i+1]), float64(data[i+2])))
		}
	}
	return img
}

func unorm8(v float64) uint8 {
	return uint8(math.Round(255 * min(max(v, 0), 1)))
}

// WritePNG encodes img to filename
func WritePNG(filename string, img image.Image) error {
	file, err := os.Create(filename)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", filename, err)
	}
	defer file.Close()

	if err := png.Encode(file, img); err != nil {
		return fmt.Errorf("failed to encode %s: %w", filename, err)
	}
	return file.Close()
}

// WritePFM writes a float RGB buffer in Portable Float Map format:
// little-endian floats, rows stored bottom to top
func WritePFM(w io.Writer, width, height int, data []float32) error {
	if len(data) != width*height*3 {
		return fmt.Errorf("pfm: buffer holds %d floats, want %d", len(data), width*height*3)
	}

	bw := bufio.NewWriter(w)
	if _, err := fmt.Fprintf(bw, "PF\n%d %d\n-1.0\n", width, height); err != nil {
		return err
	}
	row := make([]byte, width*3*4)
	for y := height - 1; y >= 0; y-- {
		for i, v := range data[y*width*3 : (y+1)*width*3] {
			binary.LittleEndian.PutUint32(row[i*4:], math.Float32bits(v))
		}
		if _, err := bw.Write(row); err != nil {
			return err
		}
	}
	return bw.Flush()
}

// SaveBuffers writes <prefix>.png for the color buffer and, when aux is
// set, PNG previews plus PFM files for every buffer. It returns the
// written paths.
func SaveBuffers(dir, prefix string, f *FrameBuffers, aux bool) ([]string, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create output directory: %w", err)
	}

	colorPath := filepath.Join(dir, prefix+".png")
	if err := WritePNG(colorPath, ToImage(f.Width, f.Height, f.Color)); err != nil {
		return nil, err
	}
	written := []string{colorPath}
	if !aux {
		return written, nil
	}

	outputs := []struct {
		name  string
		data  []float32
		image *image.RGBA
	}{
		{BufferColor, f.Color, nil},
		{BufferAlbedo, f.Albedo, ToImage(f.Width, f.Height, f.Albedo)},
		{BufferNormal, f.Normal, NormalToImage(f.Width, f.Height, f.Normal)},
		{BufferDepth, f.Depth, DepthToImage(f.Width, f.Height, f.Depth)},
	}
	for _, out := range outputs {
		if out.image != nil {
			path := filepath.Join(dir, fmt.Sprintf("%s_%s.png", prefix, out.name))
			if err := WritePNG(path, out.image); err != nil {
				return written, err
			}
			written = append(written, path)
		}

		path := filepath.Join(dir, fmt.Sprintf("%s_%s.pfm", prefix, out.name))
		if err := writePFMFile(path, f.Width, f.Height, out.data); err != nil {
			return written, err
		}
		written = append(written, path)
	}
	return written, nil
}

func writePFMFile(filename string, width, height int, data []float32) error {
	file, err := os.Create(filename)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", filename, err)
	}
	defer file.Close()

	if err := WritePFM(file, width, height, data); err != nil {
		return fmt.Errorf("failed to write %s: %w", filename, err)
	}
	return file.Close()
}
