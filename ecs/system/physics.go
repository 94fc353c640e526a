package system

import (
	"github.com/go-gl/mathgl/mgl64"
	"github.com/jakecoffman/cp"
	"github.com/milk9111/coinblock/common"
	"github.com/milk9111/coinblock/ecs"
	"github.com/milk9111/coinblock/ecs/component"
)

const (
	collisionTypeSolid cp.CollisionType = iota + 1
	collisionTypePlayer
	collisionTypePlayerGround
	collisionTypeListener
	collisionTypeActor
)

const groundGraceFrames = 6

type PhysicsSystem struct {
	space         *cp.Space
	handlersReady bool

	entities       map[ecs.Entity]*bodyInfo
	shapes         map[*cp.Shape]ecs.Entity
	listenerShapes map[*cp.Shape]ecs.Entity
	groundShapes   map[*cp.Shape]ecs.Entity
	grounded       map[ecs.Entity]bool

	contacts []pendingContact
}

type bodyInfo struct {
	body        *cp.Body
	mainShape   *cp.Shape
	groundShape *cp.Shape
	shapes      []*cp.Shape
	kind        component.BodyKind
	listener    bool
}

// pendingContact is a contact begin recorded during the step and delivered
// to the listener once the step is over.
type pendingContact struct {
	listener ecs.Entity
	other    ecs.Entity
	normal   cp.Vector
}

func NewPhysicsSystem() *PhysicsSystem {
	return &PhysicsSystem{
		space:          newSpace(),
		entities:       make(map[ecs.Entity]*bodyInfo),
		shapes:         make(map[*cp.Shape]ecs.Entity),
		listenerShapes: make(map[*cp.Shape]ecs.Entity),
		groundShapes:   make(map[*cp.Shape]ecs.Entity),
		grounded:       make(map[ecs.Entity]bool),
	}
}

func newSpace() *cp.Space {
	space := cp.NewSpace()
	space.Iterations = 20
	space.SetGravity(cp.Vector{X: 0, Y: common.Gravity})
	return space
}

func (ps *PhysicsSystem) Space() *cp.Space {
	if ps == nil {
		return nil
	}
	return ps.space
}

func (ps *PhysicsSystem) Update(w *ecs.World) {
	if ps == nil || w == nil {
		return
	}

	if ps.space == nil {
		ps.space = newSpace()
		ps.handlersReady = false
	}

	dt := w.DeltaTime()

	ps.ensureHandlers()
	ps.syncEntities(w)
	ps.syncKinematic(w, dt)
	ps.applyPending(w)
	ps.resetPlayerContacts(w)

	if dt > 0 {
		ps.space.Step(dt)
	}

	ps.syncTransforms(w)
	ps.flushContacts(w)
	ps.flushPlayerContacts(w)
}

func (ps *PhysicsSystem) ensureHandlers() {
	if ps.handlersReady || ps.space == nil {
		return
	}

	// Every shape touching a listener is reported to it, whatever its type.
	listenerHandler := ps.space.NewWildcardCollisionHandler(collisionTypeListener)
	listenerHandler.UserData = ps
	listenerHandler.BeginFunc = func(arb *cp.Arbiter, space *cp.Space, userData interface{}) bool {
		sys, ok := userData.(*PhysicsSystem)
		if !ok || sys == nil {
			return true
		}
		shapeA, shapeB := arb.Shapes()
		n := arb.Normal()
		listener, ok := sys.listenerShapes[shapeA]
		other := shapeB
		if !ok {
			// The arbiter normal points from A to B. Listeners want it
			// pointing from the other shape toward themselves.
			listener, ok = sys.listenerShapes[shapeB]
			if !ok {
				return true
			}
			other = shapeA
		} else {
			n = n.Neg()
		}
		otherEntity, ok := sys.shapes[other]
		if !ok {
			return true
		}
		sys.contacts = append(sys.contacts, pendingContact{listener: listener, other: otherEntity, normal: n})
		return true
	}

	// Loose actors like coins pass through the player.
	actorHandler := ps.space.NewCollisionHandler(collisionTypePlayer, collisionTypeActor)
	actorHandler.BeginFunc = func(arb *cp.Arbiter, space *cp.Space, userData interface{}) bool {
		return false
	}

	for _, other := range []cp.CollisionType{collisionTypeSolid, collisionTypeListener} {
		groundHandler := ps.space.NewCollisionHandler(collisionTypePlayerGround, other)
		groundHandler.UserData = ps
		groundHandler.BeginFunc = func(arb *cp.Arbiter, space *cp.Space, userData interface{}) bool {
			return true
		}
		groundHandler.PreSolveFunc = func(arb *cp.Arbiter, space *cp.Space, userData interface{}) bool {
			sys, ok := userData.(*PhysicsSystem)
			if !ok || sys == nil {
				return true
			}
			shapeA, shapeB := arb.Shapes()
			playerEntity, okA := sys.groundShapes[shapeA]
			if !okA {
				var okB bool
				playerEntity, okB = sys.groundShapes[shapeB]
				if !okB {
					return true
				}
			}
			sys.grounded[playerEntity] = true
			return true
		}
	}

	ps.handlersReady = true
}

func (ps *PhysicsSystem) syncEntities(w *ecs.World) {
	if ps.space == nil {
		return
	}

	ps.cleanupEntities(w)

	entities := w.Query(component.RigidBodyComponent.Kind(), component.TransformComponent.Kind())
	for _, e := range entities {
		if ecs.Has(w, e, component.InactiveComponent.Kind()) {
			continue
		}
		if _, exists := ps.entities[e]; exists {
			continue
		}
		rb, ok := ecs.Get(w, e, component.RigidBodyComponent.Kind())
		if !ok {
			continue
		}
		transform, ok := ecs.Get(w, e, component.TransformComponent.Kind())
		if !ok {
			continue
		}

		info := ps.createBodyInfo(w, e, transform, rb)
		if info == nil || info.mainShape == nil {
			continue
		}

		ps.entities[e] = info
		for _, shape := range info.shapes {
			ps.shapes[shape] = e
		}
		if info.groundShape != nil {
			ps.groundShapes[info.groundShape] = e
		}
		if info.listener {
			ps.listenerShapes[info.mainShape] = e
		}
		rb.Body = info.body
		rb.Shape = info.mainShape
	}
}

func (ps *PhysicsSystem) createBodyInfo(w *ecs.World, e ecs.Entity, transform *component.Transform, rb *component.RigidBody) *bodyInfo {
	width := rb.Width
	height := rb.Height
	radius := rb.Radius
	if radius <= 0 && (width <= 0 || height <= 0) {
		width = 1
		height = 1
	}

	isPlayer := ecs.Has(w, e, component.PlayerTagComponent.Kind())
	collisionType := collisionTypeSolid
	switch {
	case ecs.Has(w, e, component.CollisionListenerComponent.Kind()):
		collisionType = collisionTypeListener
	case isPlayer:
		collisionType = collisionTypePlayer
	case rb.Kind == component.BodyDynamic:
		collisionType = collisionTypeActor
	}

	info := &bodyInfo{kind: rb.Kind, listener: collisionType == collisionTypeListener}

	if rb.Kind == component.BodyStatic {
		var shape *cp.Shape
		if radius > 0 {
			shape = cp.NewCircle(ps.space.StaticBody, radius, cp.Vector{X: transform.X, Y: transform.Y})
		} else {
			bb := cp.BB{L: transform.X - width/2, B: transform.Y - height/2, R: transform.X + width/2, T: transform.Y + height/2}
			shape = cp.NewBox2(ps.space.StaticBody, bb, 0)
		}
		ps.configureShape(shape, rb, collisionType)
		ps.space.AddShape(shape)

		info.body = ps.space.StaticBody
		info.mainShape = shape
		info.shapes = []*cp.Shape{shape}
		return info
	}

	var body *cp.Body
	if rb.Kind == component.BodyKinematic {
		body = cp.NewKinematicBody()
	} else {
		mass := rb.Mass
		if mass <= 0 {
			mass = 1
		}
		moment := cp.INFINITY
		if !rb.FixedRotation {
			if radius > 0 {
				moment = cp.MomentForCircle(mass, 0, radius, cp.Vector{})
			} else {
				moment = cp.MomentForBox(mass, width, height)
			}
		}
		body = cp.NewBody(mass, moment)
		if gs, ok := ecs.Get(w, e, component.GravityScaleComponent.Kind()); ok {
			scale := gs.Scale
			body.SetVelocityUpdateFunc(func(body *cp.Body, gravity cp.Vector, damping float64, dt float64) {
				cp.BodyUpdateVelocity(body, gravity.Mult(scale), damping, dt)
			})
		}
	}
	body.SetPosition(cp.Vector{X: transform.X, Y: transform.Y})
	body.SetAngle(transform.Rotation)
	body.SetVelocity(rb.VelocityX, rb.VelocityY)
	rb.VelocityDirty = false

	var shape *cp.Shape
	if radius > 0 {
		shape = cp.NewCircle(body, radius, cp.Vector{})
	} else {
		shape = cp.NewBox(body, width, height, 0)
	}
	ps.configureShape(shape, rb, collisionType)

	ps.space.AddBody(body)
	ps.space.AddShape(shape)

	info.body = body
	info.mainShape = shape
	info.shapes = []*cp.Shape{shape}

	if isPlayer && width > 0 && height > 0 {
		groundShape := createGroundSensor(body, width, height)
		ps.space.AddShape(groundShape)
		info.groundShape = groundShape
		info.shapes = append(info.shapes, groundShape)
	}

	return info
}

func (ps *PhysicsSystem) configureShape(shape *cp.Shape, rb *component.RigidBody, collisionType cp.CollisionType) {
	shape.SetFriction(rb.Friction)
	shape.SetElasticity(rb.Elasticity)
	shape.SetCollisionType(collisionType)
	if rb.Sensor {
		shape.SetSensor(true)
	}
}

// createGroundSensor adds a thin sensor strip under the feet of a body.
func createGroundSensor(body *cp.Body, width, height float64) *cp.Shape {
	groundBB := cp.BB{
		L: -width * 0.45,
		B: -height/2 - 0.08,
		R: width * 0.45,
		T: -height / 2,
	}
	groundShape := cp.NewBox2(body, groundBB, 0)
	groundShape.SetSensor(true)
	groundShape.SetCollisionType(collisionTypePlayerGround)
	return groundShape
}

// syncKinematic moves kinematic bodies toward their transforms by giving
// them the velocity that covers the distance in one step, so whatever they
// push against gets a proper contact.
func (ps *PhysicsSystem) syncKinematic(w *ecs.World, dt float64) {
	for e, info := range ps.entities {
		if info.kind != component.BodyKinematic || info.body == nil {
			continue
		}
		transform, ok := ecs.Get(w, e, component.TransformComponent.Kind())
		if !ok {
			continue
		}
		pos := info.body.Position()
		if dt <= 0 {
			info.body.SetPosition(cp.Vector{X: transform.X, Y: transform.Y})
			info.body.SetVelocity(0, 0)
			continue
		}
		info.body.SetVelocity((transform.X-pos.X)/dt, (transform.Y-pos.Y)/dt)
	}
}

func (ps *PhysicsSystem) applyPending(w *ecs.World) {
	ecs.ForEach(w, component.RigidBodyComponent.Kind(), func(e ecs.Entity, rb *component.RigidBody) {
		info := ps.entities[e]
		if info == nil || info.kind != component.BodyDynamic || info.body == nil {
			return
		}
		if rb.VelocityDirty {
			info.body.SetVelocity(rb.VelocityX, rb.VelocityY)
			rb.VelocityDirty = false
		}
		if rb.ImpulseX != 0 || rb.ImpulseY != 0 {
			info.body.ApplyImpulseAtLocalPoint(cp.Vector{X: rb.ImpulseX, Y: rb.ImpulseY}, cp.Vector{})
			rb.ImpulseX = 0
			rb.ImpulseY = 0
		}
	})
}

func (ps *PhysicsSystem) resetPlayerContacts(w *ecs.World) {
	for e := range ps.grounded {
		delete(ps.grounded, e)
	}
	ps.contacts = ps.contacts[:0]
}

func (ps *PhysicsSystem) flushPlayerContacts(w *ecs.World) {
	ecs.ForEach(w, component.PlayerComponent.Kind(), func(e ecs.Entity, player *component.Player) {
		if ps.grounded[e] {
			player.Grounded = true
			player.GroundGrace = groundGraceFrames
			return
		}
		player.Grounded = false
		if player.GroundGrace > 0 {
			player.GroundGrace--
		}
	})
}

func (ps *PhysicsSystem) flushContacts(w *ecs.World) {
	for _, c := range ps.contacts {
		if !w.IsAlive(c.listener) {
			continue
		}
		listener, ok := ecs.Get(w, c.listener, component.CollisionListenerComponent.Kind())
		if !ok {
			continue
		}
		tag := ""
		if t, ok := ecs.Get(w, c.other, component.TagComponent.Kind()); ok {
			tag = t.Name
		}
		listener.Events = append(listener.Events, component.Collision{
			Other:    uint64(c.other),
			OtherTag: tag,
			Normal:   mgl64.Vec2{c.normal.X, c.normal.Y},
		})
	}
	ps.contacts = ps.contacts[:0]
}

func (ps *PhysicsSystem) syncTransforms(w *ecs.World) {
	for e, info := range ps.entities {
		if info.kind != component.BodyDynamic || info.body == nil {
			continue
		}
		transform, ok := ecs.Get(w, e, component.TransformComponent.Kind())
		if !ok {
			continue
		}
		rb, ok := ecs.Get(w, e, component.RigidBodyComponent.Kind())
		if !ok {
			continue
		}
		pos := info.body.Position()
		transform.X = pos.X
		transform.Y = pos.Y
		if !rb.FixedRotation {
			transform.Rotation = info.body.Angle()
		}
		vel := info.body.Velocity()
		rb.VelocityX = vel.X
		rb.VelocityY = vel.Y
	}
}

// cleanupEntities removes bodies whose entity is gone, inactive or no longer
// has a rigid body.
func (ps *PhysicsSystem) cleanupEntities(w *ecs.World) {
	for e, info := range ps.entities {
		alive := w.IsAlive(e)
		if alive && ecs.Has(w, e, component.RigidBodyComponent.Kind()) && !ecs.Has(w, e, component.InactiveComponent.Kind()) {
			continue
		}

		for _, shape := range info.shapes {
			if shape == nil || ps.space == nil {
				continue
			}
			ps.space.RemoveShape(shape)
			delete(ps.shapes, shape)
			delete(ps.listenerShapes, shape)
			delete(ps.groundShapes, shape)
		}
		if info.body != nil && info.kind != component.BodyStatic && ps.space != nil {
			ps.space.RemoveBody(info.body)
		}
		if alive {
			if rb, ok := ecs.Get(w, e, component.RigidBodyComponent.Kind()); ok {
				rb.Body = nil
				rb.Shape = nil
			}
		}

		delete(ps.entities, e)
		delete(ps.grounded, e)
	}
}

// teleport moves an entity's transform and body, clearing its velocity.
func teleport(w *ecs.World, e ecs.Entity, x, y float64) {
	if transform, ok := ecs.Get(w, e, component.TransformComponent.Kind()); ok {
		transform.X = x
		transform.Y = y
	}
	rb, ok := ecs.Get(w, e, component.RigidBodyComponent.Kind())
	if !ok {
		return
	}
	rb.SetVelocity(0, 0)
	rb.ImpulseX = 0
	rb.ImpulseY = 0
	if rb.Body != nil {
		rb.Body.SetPosition(cp.Vector{X: x, Y: y})
		rb.Body.SetAngularVelocity(0)
	}
}
