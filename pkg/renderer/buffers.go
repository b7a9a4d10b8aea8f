package renderer

import (
	"slices"

	"github.com/df07/go-pathtracer/pkg/core"
)

// FrameBuffers holds the four output images of a frame as row-major float
// RGB triples: color, first-hit albedo, first-hit normal and inverse depth
// (replicated in all three channels).
type FrameBuffers struct {
	Width  int
	Height int
	Color  []float32
	Albedo []float32
	Normal []float32
	Depth  []float32
}

// NewFrameBuffers allocates zeroed buffers
func NewFrameBuffers(width, height int) *FrameBuffers {
	n := width * height * 3
	return &FrameBuffers{
		Width:  width,
		Height: height,
		Color:  make([]float32, n),
		Albedo: make([]float32, n),
		Normal: make([]float32, n),
		Depth:  make([]float32, n),
	}
}

// Rows returns a view of rows [start, end). The view shares memory with f;
// views of disjoint row ranges can be written concurrently.
func (f *FrameBuffers) Rows(start, end int) *FrameBuffers {
	lo, hi := start*f.Width*3, end*f.Width*3
	return &FrameBuffers{
		Width:  f.Width,
		Height: end - start,
		Color:  f.Color[lo:hi:hi],
		Albedo: f.Albedo[lo:hi:hi],
		Normal: f.Normal[lo:hi:hi],
		Depth:  f.Depth[lo:hi:hi],
	}
}

// Set stores one pixel. Color, albedo and depth are clamped to [0,1] and
// the normal to [-1,1].
func (f *FrameBuffers) Set(x, y int, color, albedo, normal core.Vec3, depth float64) {
	i := (y*f.Width + x) * 3
	put(f.Color[i:i+3], color.Clamp(0, 1))
	put(f.Albedo[i:i+3], albedo.Clamp(0, 1))
	put(f.Normal[i:i+3], normal.Clamp(-1, 1))
	put(f.Depth[i:i+3], core.Splat(depth).Clamp(0, 1))
}

// Pixel returns the stored values of one pixel
func (f *FrameBuffers) Pixel(x, y int) (color, albedo, normal core.Vec3, depth float64) {
	i := (y*f.Width + x) * 3
	return get(f.Color[i:]), get(f.Albedo[i:]), get(f.Normal[i:]), float64(f.Depth[i])
}

// Clone returns a deep copy
func (f *FrameBuffers) Clone() *FrameBuffers {
	return &FrameBuffers{
		Width:  f.Width,
		Height: f.Height,
		Color:  slices.Clone(f.Color),
		Albedo: slices.Clone(f.Albedo),
		Normal: slices.Clone(f.Normal),
		Depth:  slices.Clone(f.Depth),
	}
}

// Clear zeroes every buffer
func (f *FrameBuffers) Clear() {
	clear(f.Color)
	clear(f.Albedo)
	clear(f.Normal)
	clear(f.Depth)
}

func put(dst []float32, v core.Vec3) {
	dst[0], dst[1], dst[2] = float32(v.X), float32(v.Y), float32(v.Z)
}

func get(src []float32) core.Vec3 {
	return core.NewVec3(float64(src[0]), float64(src[1]), float64(src[2]))
}
