package geometry

import (
	"errors"

	"github.com/df07/go-pathtracer/pkg/core"
	"github.com/df07/go-pathtracer/pkg/material"
)

// Shape is anything a ray can intersect. Implementations are immutable after
// construction and safe for concurrent Hit calls.
type Shape interface {
	// Hit returns the closest intersection with t in [tMin, tMax]
	Hit(ray core.Ray, tMin, tMax float64) (material.HitRecord, bool)

	// BoundingBox returns the bounds of the shape, or false if it is unbounded
	BoundingBox() (core.AABB, bool)

	// Centroid is the point used to order shapes during BVH construction
	Centroid() core.Vec3
}

var (
	// ErrEmptyBVH is returned when a hierarchy is built from no shapes
	ErrEmptyBVH = errors.New("bvh: no shapes to build from")

	// ErrUnboundedShape is returned when a shape has no bounding box
	ErrUnboundedShape = errors.New("bvh: shape has no bounding box")

	// ErrInvalidMesh is returned for malformed triangle soup
	ErrInvalidMesh = errors.New("mesh: invalid triangle data")
)
