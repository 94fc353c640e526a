package system

import (
	"testing"

	"github.com/milk9111/coinblock/ecs"
	"github.com/milk9111/coinblock/ecs/component"
)

func addBody(t *testing.T, w *ecs.World, x, y float64, rb *component.RigidBody) ecs.Entity {
	t.Helper()
	e := ecs.CreateEntity(w)
	if err := ecs.Add(w, e, component.TransformComponent.Kind(), &component.Transform{X: x, Y: y, ScaleX: 1, ScaleY: 1}); err != nil {
		t.Fatalf("add transform: %v", err)
	}
	if err := ecs.Add(w, e, component.RigidBodyComponent.Kind(), rb); err != nil {
		t.Fatalf("add body: %v", err)
	}
	return e
}

func addPlayerBody(t *testing.T, w *ecs.World, x, y float64) ecs.Entity {
	t.Helper()
	e := addBody(t, w, x, y, &component.RigidBody{Kind: component.BodyDynamic, Width: 0.75, Height: 0.9, Mass: 1, FixedRotation: true})
	_ = ecs.Add(w, e, component.PlayerTagComponent.Kind(), &component.PlayerTag{})
	_ = ecs.Add(w, e, component.PlayerComponent.Kind(), &component.Player{})
	_ = ecs.Add(w, e, component.TagComponent.Kind(), &component.Tag{Name: component.PlayerTagName})
	return e
}

func addListenerBlock(t *testing.T, w *ecs.World, x, y float64) ecs.Entity {
	t.Helper()
	e := addBody(t, w, x, y, &component.RigidBody{Kind: component.BodyKinematic, Width: 1, Height: 1})
	_ = ecs.Add(w, e, component.CollisionListenerComponent.Kind(), &component.CollisionListener{})
	return e
}

func TestPhysicsCreatesBodiesAndFalls(t *testing.T) {
	w := ecs.NewWorld()
	ps := NewPhysicsSystem()
	w.AddSystem(ps)
	w.SetDeltaTime(1.0 / 60.0)

	coin := addBody(t, w, 0, 5, &component.RigidBody{Kind: component.BodyDynamic, Radius: 0.25, Mass: 1})
	w.Update()

	rb, _ := ecs.Get(w, coin, component.RigidBodyComponent.Kind())
	if rb.Body == nil || rb.Shape == nil {
		t.Fatalf("expected body to be created")
	}
	for i := 0; i < 30; i++ {
		w.Update()
	}
	tr, _ := ecs.Get(w, coin, component.TransformComponent.Kind())
	if tr.Y >= 5 {
		t.Fatalf("expected coin to fall under gravity, y = %v", tr.Y)
	}
}

func TestPhysicsAppliesPendingVelocity(t *testing.T) {
	w := ecs.NewWorld()
	w.AddSystem(NewPhysicsSystem())
	w.SetDeltaTime(1.0 / 60.0)

	rb := &component.RigidBody{Kind: component.BodyDynamic, Radius: 0.25, Mass: 1}
	rb.SetVelocityY(8)
	coin := addBody(t, w, 0, 0, rb)

	w.Update()
	tr, _ := ecs.Get(w, coin, component.TransformComponent.Kind())
	if tr.Y <= 0 {
		t.Fatalf("expected coin to move up on its first step, y = %v", tr.Y)
	}
	if rb.VelocityDirty {
		t.Fatalf("expected pending velocity to be consumed")
	}
}

func TestPhysicsReportsHitFromBelow(t *testing.T) {
	w := ecs.NewWorld()
	w.AddSystem(NewPhysicsSystem())
	w.SetDeltaTime(1.0 / 60.0)

	block := addListenerBlock(t, w, 0, 3)
	player := addPlayerBody(t, w, 0, 1.5)
	prb, _ := ecs.Get(w, player, component.RigidBodyComponent.Kind())
	prb.SetVelocity(0, 10)

	var events []component.Collision
	for i := 0; i < 30 && len(events) == 0; i++ {
		w.Update()
		listener, _ := ecs.Get(w, block, component.CollisionListenerComponent.Kind())
		events = append(events, listener.Drain()...)
	}

	if len(events) == 0 {
		t.Fatalf("expected a collision event on the block")
	}
	c := events[0]
	if c.OtherTag != component.PlayerTagName {
		t.Fatalf("other tag = %q", c.OtherTag)
	}
	if c.Other != uint64(player) {
		t.Fatalf("other = %v, want %v", c.Other, player)
	}
	if c.Normal.Y() <= component.HitNormalThreshold {
		t.Fatalf("normal = %v, want pointing up into the block", c.Normal)
	}
}

func TestPhysicsReportsLandingOnTop(t *testing.T) {
	w := ecs.NewWorld()
	w.AddSystem(NewPhysicsSystem())
	w.SetDeltaTime(1.0 / 60.0)

	block := addListenerBlock(t, w, 0, 0)
	player := addPlayerBody(t, w, 0, 1.2)

	var events []component.Collision
	for i := 0; i < 60 && len(events) == 0; i++ {
		w.Update()
		listener, _ := ecs.Get(w, block, component.CollisionListenerComponent.Kind())
		events = append(events, listener.Drain()...)
	}

	if len(events) == 0 {
		t.Fatalf("expected a collision event on the block")
	}
	if events[0].Normal.Y() >= 0 {
		t.Fatalf("normal = %v, want pointing down for a landing", events[0].Normal)
	}
	pl, _ := ecs.Get(w, player, component.PlayerComponent.Kind())
	for i := 0; i < 5; i++ {
		w.Update()
	}
	if !pl.Grounded {
		t.Fatalf("expected player standing on the block to be grounded")
	}
}

func TestPhysicsKinematicFollowsTransform(t *testing.T) {
	w := ecs.NewWorld()
	w.AddSystem(NewPhysicsSystem())
	w.SetDeltaTime(0.1)

	block := addListenerBlock(t, w, 2, 2)
	w.Update()

	tr, _ := ecs.Get(w, block, component.TransformComponent.Kind())
	tr.Y = 2.2
	w.Update()

	rb, _ := ecs.Get(w, block, component.RigidBodyComponent.Kind())
	if got := rb.Body.Position().Y; got < 2.2-1e-9 || got > 2.2+1e-9 {
		t.Fatalf("kinematic body y = %v, want 2.2", got)
	}
	if tr.Y != 2.2 {
		t.Fatalf("physics must not overwrite a kinematic transform, y = %v", tr.Y)
	}
}

func TestPhysicsRemovesInactiveAndDestroyedBodies(t *testing.T) {
	w := ecs.NewWorld()
	ps := NewPhysicsSystem()
	w.AddSystem(ps)
	w.SetDeltaTime(1.0 / 60.0)

	a := addBody(t, w, 0, 0, &component.RigidBody{Kind: component.BodyDynamic, Radius: 0.25})
	b := addBody(t, w, 3, 0, &component.RigidBody{Kind: component.BodyDynamic, Radius: 0.25})
	w.Update()
	if len(ps.entities) != 2 {
		t.Fatalf("expected two bodies, got %d", len(ps.entities))
	}

	_ = ecs.Add(w, a, component.InactiveComponent.Kind(), &component.Inactive{})
	ecs.DestroyEntity(w, b)
	w.Update()
	if len(ps.entities) != 0 || len(ps.shapes) != 0 {
		t.Fatalf("expected bodies to be removed, have %d entities %d shapes", len(ps.entities), len(ps.shapes))
	}
	rb, _ := ecs.Get(w, a, component.RigidBodyComponent.Kind())
	if rb.Body != nil {
		t.Fatalf("inactive entity kept its body")
	}

	ecs.Remove(w, a, component.InactiveComponent.Kind())
	w.Update()
	if rb.Body == nil {
		t.Fatalf("expected body to be recreated on reactivation")
	}
}
