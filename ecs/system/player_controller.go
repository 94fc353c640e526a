package system

import (
	"github.com/milk9111/coinblock/ecs"
	"github.com/milk9111/coinblock/ecs/component"
)

const (
	defaultMoveSpeed = 6.0
	defaultJumpSpeed = 12.0
)

type PlayerControllerSystem struct{}

func NewPlayerControllerSystem() *PlayerControllerSystem {
	return &PlayerControllerSystem{}
}

func (p *PlayerControllerSystem) Update(w *ecs.World) {
	if w == nil {
		return
	}

	entities := w.Query(
		component.PlayerComponent.Kind(),
		component.InputComponent.Kind(),
		component.RigidBodyComponent.Kind(),
	)
	for _, e := range entities {
		if ecs.Has(w, e, component.InactiveComponent.Kind()) {
			continue
		}
		player, _ := ecs.Get(w, e, component.PlayerComponent.Kind())
		input, _ := ecs.Get(w, e, component.InputComponent.Kind())
		rb, ok := ecs.Get(w, e, component.RigidBodyComponent.Kind())
		if !ok || rb.Body == nil {
			continue
		}

		moveSpeed := player.MoveSpeed
		if moveSpeed <= 0 {
			moveSpeed = defaultMoveSpeed
		}
		jumpSpeed := player.JumpSpeed
		if jumpSpeed <= 0 {
			jumpSpeed = defaultJumpSpeed
		}

		vel := rb.Body.Velocity()
		vx := input.MoveX * moveSpeed
		vy := vel.Y

		if input.JumpPressed && (player.Grounded || player.GroundGrace > 0) {
			vy = jumpSpeed
			player.GroundGrace = 0
		}

		if sprite, ok := ecs.Get(w, e, component.SpriteComponent.Kind()); ok && input.MoveX != 0 {
			sprite.FacingLeft = input.MoveX < 0
		}

		rb.SetVelocity(vx, vy)
		rb.Body.SetAngle(0)
		rb.Body.SetAngularVelocity(0)
	}
}
