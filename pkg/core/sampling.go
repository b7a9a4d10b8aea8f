package core

import (
	"math"
	"math/rand/v2"
)

// Sampler provides random sampling for rendering algorithms.
// Can be swapped out for deterministic testing or different sampling patterns.
type Sampler interface {
	Get1D() float64
	Get2D() Vec2
	Get3D() Vec3
}

// RandomSampler wraps a PCG generator. It is not safe for concurrent use;
// each worker owns one.
type RandomSampler struct {
	pcg    *rand.PCG
	random *rand.Rand
}

// NewRandomSampler creates a sampler seeded with seed
func NewRandomSampler(seed uint64) *RandomSampler {
	pcg := rand.NewPCG(seed, seed^0x9e3779b97f4a7c15)
	return &RandomSampler{pcg: pcg, random: rand.New(pcg)}
}

// Reseed restarts the sequence from (seed, stream). The renderer reseeds
// per pixel so output does not depend on how rows are split across workers.
func (r *RandomSampler) Reseed(seed, stream uint64) {
	r.pcg.Seed(seed, stream)
}

// Get1D returns a random float64 in [0, 1)
func (r *RandomSampler) Get1D() float64 {
	return r.random.Float64()
}

// Get2D returns two random float64 values in [0, 1)
func (r *RandomSampler) Get2D() Vec2 {
	return NewVec2(r.random.Float64(), r.random.Float64())
}

// Get3D returns three random float64 values in [0, 1)
func (r *RandomSampler) Get3D() Vec3 {
	return NewVec3(r.random.Float64(), r.random.Float64(), r.random.Float64())
}

// RandomCosineDirection returns a cosine-weighted direction about +Z
func RandomCosineDirection(sample Vec2) Vec3 {
	phi := 2.0 * math.Pi * sample.X
	r := math.Sqrt(sample.Y)

	x := r * math.Cos(phi)
	y := r * math.Sin(phi)
	z := math.Sqrt(max(0, 1.0-sample.Y))
	return NewVec3(x, y, z)
}

// SampleCosineHemisphere generates a cosine-weighted direction in the hemisphere around normal
func SampleCosineHemisphere(normal Vec3, sample Vec2) Vec3 {
	return NewONB(normal).Local(RandomCosineDirection(sample))
}

// SampleOnUnitSphere generates a uniform random direction on the unit sphere
func SampleOnUnitSphere(sample Vec2) Vec3 {
	z := 1.0 - 2.0*sample.X
	r := math.Sqrt(max(0, 1.0-z*z))
	phi := 2.0 * math.Pi * sample.Y
	return NewVec3(r*math.Cos(phi), r*math.Sin(phi), z)
}

// SamplePointInUnitSphere maps a 3D sample to a point inside the unit sphere
func SamplePointInUnitSphere(sample Vec3) Vec3 {
	dir := SampleOnUnitSphere(NewVec2(sample.X, sample.Y))
	return dir.Multiply(math.Cbrt(sample.Z))
}

// SamplePointInUnitDisk generates a point in the unit disk (z=0) using concentric mapping
func SamplePointInUnitDisk(sample Vec2) Vec3 {
	ox := 2*sample.X - 1
	oy := 2*sample.Y - 1
	if ox == 0 && oy == 0 {
		return Vec3{}
	}

	var theta, r float64
	if math.Abs(ox) > math.Abs(oy) {
		r = ox
		theta = math.Pi / 4 * (oy / ox)
	} else {
		r = oy
		theta = math.Pi/2 - math.Pi/4*(ox/oy)
	}
	return NewVec3(r*math.Cos(theta), r*math.Sin(theta), 0)
}

// SphericalUV maps a unit direction to equirectangular texture coordinates.
// u wraps around the Y axis, v runs from 0 at +Y to 1 at -Y.
func SphericalUV(d Vec3) Vec2 {
	u := 1.0 - (math.Atan2(d.Z, d.X)+math.Pi)/(2*math.Pi)
	v := (math.Asin(max(-1, min(1, -d.Y))) + math.Pi/2) / math.Pi
	return NewVec2(u, v)
}
