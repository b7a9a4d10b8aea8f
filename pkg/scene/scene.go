package scene

import (
	"errors"
	"fmt"
	"reflect"
	"time"

	"github.com/df07/go-pathtracer/pkg/core"
	"github.com/df07/go-pathtracer/pkg/geometry"
	"github.com/df07/go-pathtracer/pkg/log"
	"github.com/df07/go-pathtracer/pkg/material"
)

var logger = log.New("scene")

var (
	// ErrNoCamera is returned when finalizing a builder without a camera
	ErrNoCamera = errors.New("scene: no camera")
	// ErrNilObject is returned when a nil shape was added to a builder
	ErrNilObject = errors.New("scene: nil object")
	// ErrEmptyScene is returned when finalizing a builder with no objects
	ErrEmptyScene = errors.New("scene: no objects")
)

// SamplingConfig holds the render settings a scene was designed for.
// Renderers use them as defaults.
type SamplingConfig struct {
	SamplesPerPixel int // Number of rays per pixel
	MaxBounces      int // Maximum path length
}

// Builder collects objects for a scene. It is the only way to add objects;
// Finalize turns it into an immutable Scene.
type Builder struct {
	Camera   *geometry.Camera
	Sky      material.Texture // Radiance seen by escaping rays; nil is black
	Sampling SamplingConfig

	objects []geometry.Shape
}

// NewBuilder creates an empty builder
func NewBuilder(camera *geometry.Camera, sky material.Texture) *Builder {
	return &Builder{
		Camera: camera,
		Sky:    sky,
	}
}

// AddObject appends shapes to the scene
func (b *Builder) AddObject(shapes ...geometry.Shape) {
	b.objects = append(b.objects, shapes...)
}

// Len returns the number of objects added so far
func (b *Builder) Len() int {
	return len(b.objects)
}

// Finalize validates the builder and builds the hierarchy. The object list
// is moved into the scene and the builder is left empty. On error the
// builder keeps its objects.
func (b *Builder) Finalize() (*Scene, error) {
	startTime := time.Now()

	if b.Camera == nil {
		return nil, ErrNoCamera
	}
	if len(b.objects) == 0 {
		return nil, ErrEmptyScene
	}
	for i, obj := range b.objects {
		if isNil(obj) {
			return nil, fmt.Errorf("%w at index %d", ErrNilObject, i)
		}
	}

	bvh, err := geometry.NewBVH(b.objects)
	if err != nil {
		return nil, fmt.Errorf("failed to build scene hierarchy: %w", err)
	}
	b.objects = nil

	sky := b.Sky
	if sky == nil {
		sky = material.NewConstantTexture(core.Vec3{})
	}

	s := &Scene{
		camera:   b.Camera,
		sky:      sky,
		sampling: b.Sampling,
		bvh:      bvh,
	}

	stats := s.Stats()
	logger.Infof("finalized scene: %d objects, %d primitives, BVH depth %d in %v",
		stats.Objects, stats.Primitives, stats.BVH.MaxDepth, time.Since(startTime))
	return s, nil
}

// isNil reports nil interfaces and interfaces holding a nil pointer
func isNil(shape geometry.Shape) bool {
	if shape == nil {
		return true
	}
	v := reflect.ValueOf(shape)
	return v.Kind() == reflect.Pointer && v.IsNil()
}

// presetCamera merges the first override into defaults and validates the
// result
func presetCamera(defaults geometry.CameraConfig, overrides []geometry.CameraConfig) (*geometry.Camera, error) {
	config := defaults
	if len(overrides) > 0 {
		config = geometry.MergeCameraConfig(defaults, overrides[0])
	}
	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("scene camera: %w", err)
	}
	return geometry.NewCamera(config), nil
}

// Scene is a finalized, read-only scene. It is safe to share between
// goroutines; only the camera changes between frames, by deriving a new
// Scene with WithCamera.
type Scene struct {
	camera   *geometry.Camera
	sky      material.Texture
	sampling SamplingConfig
	bvh      *geometry.BVH[geometry.Shape]
}

// Hit returns the closest intersection with any object
func (s *Scene) Hit(ray core.Ray, tMin, tMax float64) (material.HitRecord, bool) {
	return s.bvh.Hit(ray, tMin, tMax)
}

// Camera returns the scene camera
func (s *Scene) Camera() *geometry.Camera {
	return s.camera
}

// Sky returns the environment texture, indexed by spherical direction UV
func (s *Scene) Sky() material.Texture {
	return s.sky
}

// Sampling returns the render settings the scene was designed for
func (s *Scene) Sampling() SamplingConfig {
	return s.sampling
}

// WithCamera returns a scene viewed from camera. The hierarchy is shared.
func (s *Scene) WithCamera(camera *geometry.Camera) *Scene {
	next := *s
	next.camera = camera
	return &next
}

// BoundingBox returns the bounds of every object in the scene
func (s *Scene) BoundingBox() core.AABB {
	box, _ := s.bvh.BoundingBox()
	return box
}

// Stats describes the scene contents
type Stats struct {
	Objects    int // Top level objects
	Primitives int // Objects with meshes expanded to their triangles
	BVH        geometry.BVHStats
}

// Stats returns object counts and top level hierarchy statistics
func (s *Scene) Stats() Stats {
	objects := s.bvh.Shapes()
	stats := Stats{
		Objects: len(objects),
		BVH:     s.bvh.Stats(),
	}
	for _, obj := range objects {
		stats.Primitives += countPrimitives(obj)
	}
	return stats
}

// countPrimitives counts primitives in a single shape, expanding meshes
func countPrimitives(shape geometry.Shape) int {
	switch obj := shape.(type) {
	case *geometry.Mesh:
		return obj.Stats().Shapes
	case *geometry.Box:
		return 6
	default:
		return 1
	}
}

// NewGroundPlane creates a large square replacing an infinite ground plane.
// The plane faces up (+Y) and is centered at center.
func NewGroundPlane(center core.Vec3, size float64, mat material.Material) *geometry.Plane {
	corner := core.NewVec3(center.X-size/2, center.Y, center.Z-size/2)
	// Z span first so SpanA x SpanB points up
	return geometry.NewPlane(corner, core.NewVec3(0, 0, size), core.NewVec3(size, 0, 0), mat)
}
