package integrator

import (
	"github.com/df07/go-pathtracer/pkg/core"
	"github.com/df07/go-pathtracer/pkg/material"
)

// Scene is what an integrator needs from a scene: closest-hit queries and
// the radiance of escaping rays. *scene.Scene implements it.
type Scene interface {
	Hit(ray core.Ray, tMin, tMax float64) (material.HitRecord, bool)
	Sky() material.Texture
}

// Termination records why a path stopped
type Termination int

const (
	// Escaped paths left the scene and picked up the sky
	Escaped Termination = iota
	// Absorbed paths hit a surface that did not scatter, or carried no more energy
	Absorbed
	// BounceLimit paths were cut off at MaxBounces. Their remaining
	// contribution is dropped, which biases the estimate slightly dark.
	BounceLimit
)

func (t Termination) String() string {
	switch t {
	case Escaped:
		return "escaped"
	case Absorbed:
		return "absorbed"
	case BounceLimit:
		return "bounce limit"
	default:
		return "unknown"
	}
}

// Sample is the outcome of tracing one camera ray
type Sample struct {
	Color    core.Vec3 // Radiance estimate
	Albedo   core.Vec3 // Reflectance at the first hit
	Normal   core.Vec3 // Unit world normal at the first hit
	InvDepth float64   // 1 / distance to the first hit, 0 when nothing was hit
	Bounces  int       // Surface interactions along the path
	State    Termination
}

// Integrator defines the interface for light transport algorithms
type Integrator interface {
	// Sample estimates the radiance arriving along ray together with the
	// first-hit auxiliary values
	Sample(ray core.Ray, scene Scene, sampler core.Sampler) Sample
}
