package geometry

import (
	"errors"
	"math"

	"github.com/df07/go-pathtracer/pkg/core"
)

// CameraConfig describes a pinhole or thin-lens camera
type CameraConfig struct {
	Center        core.Vec3 // Camera position
	LookAt        core.Vec3 // Point the camera looks at
	Up            core.Vec3 // Up direction
	Width         int       // Image width in pixels
	AspectRatio   float64   // Width / height
	VFov          float64   // Vertical field of view in degrees
	Aperture      float64   // Lens diameter, 0 for a pinhole camera
	FocusDistance float64   // 0 means focus on LookAt
}

// ErrInvalidCamera is returned for camera configurations that cannot produce rays
var ErrInvalidCamera = errors.New("camera: invalid configuration")

// MergeCameraConfig returns base with every non-zero field of override applied
func MergeCameraConfig(base, override CameraConfig) CameraConfig {
	result := base
	if !override.Center.IsZero() {
		result.Center = override.Center
	}
	if !override.LookAt.IsZero() {
		result.LookAt = override.LookAt
	}
	if !override.Up.IsZero() {
		result.Up = override.Up
	}
	if override.Width != 0 {
		result.Width = override.Width
	}
	if override.AspectRatio != 0 {
		result.AspectRatio = override.AspectRatio
	}
	if override.VFov != 0 {
		result.VFov = override.VFov
	}
	if override.Aperture != 0 {
		result.Aperture = override.Aperture
	}
	if override.FocusDistance != 0 {
		result.FocusDistance = override.FocusDistance
	}
	return result
}

// Validate reports configurations that would produce NaN rays
func (c CameraConfig) Validate() error {
	switch {
	case c.Width <= 0:
		return errors.Join(ErrInvalidCamera, errors.New("width must be positive"))
	case c.AspectRatio <= 0:
		return errors.Join(ErrInvalidCamera, errors.New("aspect ratio must be positive"))
	case c.VFov <= 0 || c.VFov >= 180:
		return errors.Join(ErrInvalidCamera, errors.New("vertical fov must be in (0, 180)"))
	case c.Center == c.LookAt:
		return errors.Join(ErrInvalidCamera, errors.New("camera looks at its own position"))
	case c.Up.Cross(c.Center.Subtract(c.LookAt)).IsZero():
		return errors.Join(ErrInvalidCamera, errors.New("up is parallel to the view direction"))
	}
	return nil
}

// Camera generates primary rays. It is immutable; moving the camera
// produces a new value.
type Camera struct {
	config     CameraConfig
	height     int
	upperLeft  core.Vec3
	horizontal core.Vec3
	vertical   core.Vec3
	u, v, w    core.Vec3
	lensRadius float64
}

// NewCamera creates a camera from config
func NewCamera(config CameraConfig) *Camera {
	height := max(1, int(math.Round(float64(config.Width)/config.AspectRatio)))

	w := config.Center.Subtract(config.LookAt).Normalize()
	u := config.Up.Cross(w).Normalize()
	v := w.Cross(u)

	focus := config.FocusDistance
	if focus <= 0 {
		focus = config.Center.Subtract(config.LookAt).Length()
	}

	h := math.Tan(config.VFov * math.Pi / 180 / 2)
	viewportHeight := 2 * h * focus
	viewportWidth := viewportHeight * float64(config.Width) / float64(height)

	horizontal := u.Multiply(viewportWidth)
	vertical := v.Multiply(viewportHeight)
	upperLeft := config.Center.
		Subtract(w.Multiply(focus)).
		Subtract(horizontal.Multiply(0.5)).
		Add(vertical.Multiply(0.5))

	return &Camera{
		config:     config,
		height:     height,
		upperLeft:  upperLeft,
		horizontal: horizontal,
		vertical:   vertical,
		u:          u,
		v:          v,
		w:          w,
		lensRadius: config.Aperture / 2,
	}
}

// GetRay returns a ray through image position (x, y) measured in pixels from
// the top-left corner. Fractional positions are used for jittering.
func (c *Camera) GetRay(x, y float64, sampler core.Sampler) core.Ray {
	s := x / float64(c.config.Width)
	t := y / float64(c.height)
	target := c.upperLeft.Add(c.horizontal.Multiply(s)).Subtract(c.vertical.Multiply(t))

	origin := c.config.Center
	if c.lensRadius > 0 {
		rd := core.SamplePointInUnitDisk(sampler.Get2D()).Multiply(c.lensRadius)
		origin = origin.Add(c.u.Multiply(rd.X)).Add(c.v.Multiply(rd.Y))
	}
	return core.NewRay(origin, target.Subtract(origin))
}

// Width returns the image width in pixels
func (c *Camera) Width() int {
	return c.config.Width
}

// Height returns the image height in pixels
func (c *Camera) Height() int {
	return c.height
}

// Position returns the camera center
func (c *Camera) Position() core.Vec3 {
	return c.config.Center
}

// Config returns the configuration the camera was built from
func (c *Camera) Config() CameraConfig {
	return c.config
}

// WithPosition returns a camera moved to position, keeping its view direction
func (c *Camera) WithPosition(position core.Vec3) *Camera {
	config := c.config
	config.LookAt = config.LookAt.Add(position.Subtract(config.Center))
	config.Center = position
	return NewCamera(config)
}
