package component

import "github.com/jakecoffman/cp"

type BodyKind int

const (
	BodyDynamic BodyKind = iota
	BodyKinematic
	BodyStatic
)

// RigidBody stores Chipmunk2D runtime data and collider configuration.
// Velocity and impulse requests made before the physics system has created
// the body are kept here and applied on the next step.
type RigidBody struct {
	Body       *cp.Body
	Shape      *cp.Shape
	Kind       BodyKind
	Width      float64
	Height     float64
	Radius     float64
	Mass       float64
	Friction   float64
	Elasticity float64
	Sensor     bool

	// FixedRotation gives a dynamic body infinite moment so it never tips.
	FixedRotation bool

	VelocityX     float64
	VelocityY     float64
	VelocityDirty bool
	ImpulseX      float64
	ImpulseY      float64
}

// SetVelocity replaces the body's velocity.
func (rb *RigidBody) SetVelocity(x, y float64) {
	if rb == nil {
		return
	}
	rb.VelocityX = x
	rb.VelocityY = y
	rb.VelocityDirty = true
	if rb.Body != nil {
		rb.Body.SetVelocity(x, y)
	}
}

// SetVelocityY replaces only the vertical velocity.
func (rb *RigidBody) SetVelocityY(y float64) {
	if rb == nil {
		return
	}
	x := rb.VelocityX
	if rb.Body != nil {
		x = rb.Body.Velocity().X
	}
	rb.SetVelocity(x, y)
}

// AddImpulse queues an impulse for the next physics step.
func (rb *RigidBody) AddImpulse(x, y float64) {
	if rb == nil {
		return
	}
	rb.ImpulseX += x
	rb.ImpulseY += y
}

// AddForce queues a force that acts for a single step of length dt.
func (rb *RigidBody) AddForce(x, y, dt float64) {
	rb.AddImpulse(x*dt, y*dt)
}

var RigidBodyComponent = NewComponent[RigidBody]()

// GravityScale scales world gravity for a dynamic physics body.
// 1.0 = normal gravity, 0.0 = no gravity.
type GravityScale struct {
	Scale float64
}

var GravityScaleComponent = NewComponent[GravityScale]()
