// Package animation moves the camera between frames.
package animation

import (
	"github.com/charmbracelet/harmonica"

	"github.com/df07/go-pathtracer/pkg/core"
)

// Spring settings for the dolly: frequency 4 is a moderate speed, damping
// 1 is critically damped (no overshoot)
const (
	DefaultFrequency = 4.0
	DefaultDamping   = 1.0
)

// axis tracks position and velocity along one coordinate
type axis struct {
	position float64
	velocity float64
}

// Dolly moves a camera position toward a target with a damped spring, one
// step per frame
type Dolly struct {
	spring harmonica.Spring
	target core.Vec3
	x, y   axis
	z      axis
}

// NewDolly creates a critically damped dolly from start to target
func NewDolly(start, target core.Vec3, fps int) *Dolly {
	return NewDollyWithSpring(start, target, fps, DefaultFrequency, DefaultDamping)
}

// NewDollyWithSpring creates a dolly with explicit spring settings
func NewDollyWithSpring(start, target core.Vec3, fps int, frequency, damping float64) *Dolly {
	return &Dolly{
		spring: harmonica.NewSpring(harmonica.FPS(fps), frequency, damping),
		target: target,
		x:      axis{position: start.X},
		y:      axis{position: start.Y},
		z:      axis{position: start.Z},
	}
}

// Step advances one frame and returns the new position
func (d *Dolly) Step() core.Vec3 {
	d.x.position, d.x.velocity = d.spring.Update(d.x.position, d.x.velocity, d.target.X)
	d.y.position, d.y.velocity = d.spring.Update(d.y.position, d.y.velocity, d.target.Y)
	d.z.position, d.z.velocity = d.spring.Update(d.z.position, d.z.velocity, d.target.Z)
	return d.Position()
}

// Position returns the current position
func (d *Dolly) Position() core.Vec3 {
	return core.NewVec3(d.x.position, d.y.position, d.z.position)
}

// Target returns where the dolly is heading
func (d *Dolly) Target() core.Vec3 {
	return d.target
}

// Done reports whether the dolly has settled within tolerance of the target
func (d *Dolly) Done(tolerance float64) bool {
	speed := core.NewVec3(d.x.velocity, d.y.velocity, d.z.velocity).Length()
	return d.Position().Subtract(d.target).Length() <= tolerance && speed <= tolerance
}
