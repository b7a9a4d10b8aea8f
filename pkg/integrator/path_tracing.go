package integrator

import (
	"fmt"
	"math"

	"github.com/df07/go-pathtracer/pkg/core"
)

// Config contains the path tracing settings
type Config struct {
	MaxBounces int     // Surface interactions before a path is cut off
	Epsilon    float64 // Minimum hit distance, avoids self-intersection
}

// DefaultConfig returns the standard path tracing settings
func DefaultConfig() Config {
	return Config{
		MaxBounces: 100,
		Epsilon:    1e-4,
	}
}

// PathTracingIntegrator implements unidirectional path tracing with
// material importance sampling only. Light reaches the camera when a path
// hits an emissive surface or escapes to the sky.
type PathTracingIntegrator struct {
	config Config
}

// NewPathTracingIntegrator creates a new path tracing integrator. Zero
// fields in config take their default values.
func NewPathTracingIntegrator(config Config) *PathTracingIntegrator {
	defaults := DefaultConfig()
	if config.MaxBounces <= 0 {
		config.MaxBounces = defaults.MaxBounces
	}
	if config.Epsilon <= 0 {
		config.Epsilon = defaults.Epsilon
	}
	return &PathTracingIntegrator{config: config}
}

// Config returns the effective settings
func (pt *PathTracingIntegrator) Config() Config {
	return pt.config
}

// Sample traces one path iteratively. The radiance is the sum of emitted
// light weighted by the product of attenuation * scatteringPDF / pdf of
// every scattering event before it.
func (pt *PathTracingIntegrator) Sample(ray core.Ray, scene Scene, sampler core.Sampler) Sample {
	var result Sample
	throughput := core.Splat(1)

	for bounce := 0; ; bounce++ {
		if bounce >= pt.config.MaxBounces {
			result.State = BounceLimit
			return result
		}

		hit, isHit := scene.Hit(ray, pt.config.Epsilon, math.Inf(1))
		if !isHit {
			direction := ray.Direction.Normalize()
			sky := scene.Sky().Evaluate(core.SphericalUV(direction))
			result.Color = result.Color.Add(sky.MultiplyVec(throughput))
			if bounce == 0 {
				result.Albedo = sky
				result.Normal = direction.Negate()
			}
			result.State = Escaped
			return result
		}

		if hit.Material == nil {
			panic(fmt.Sprintf("integrator: hit at %v has no material", hit.Point))
		}
		result.Bounces++

		emitted := hit.Material.Emitted(hit)
		result.Color = result.Color.Add(emitted.MultiplyVec(throughput))

		scatter, didScatter := hit.Material.Scatter(ray, hit, sampler)
		if bounce == 0 {
			result.Normal = hit.Normal.Normalize()
			result.InvDepth = 1 / (hit.T * ray.Direction.Length())
			if didScatter {
				result.Albedo = scatter.Attenuation
			} else {
				result.Albedo = emitted.Clamp(0, 1)
			}
		}
		if !didScatter {
			result.State = Absorbed
			return result
		}

		if !(scatter.PDF > 0) || math.IsInf(scatter.PDF, 0) {
			result.State = Absorbed
			return result
		}
		scatteringPDF := hit.Material.ScatteringPDF(ray, hit, scatter.Scattered)
		throughput = throughput.MultiplyVec(scatter.Attenuation).Multiply(scatteringPDF / scatter.PDF)
		if !throughput.IsFinite() || !(throughput.MaxComponent() > 0) {
			result.State = Absorbed
			return result
		}

		ray = scatter.Scattered
	}
}
