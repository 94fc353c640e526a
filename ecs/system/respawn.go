package system

import (
	"log"

	"github.com/milk9111/coinblock/ecs"
	"github.com/milk9111/coinblock/ecs/component"
)

// RespawnSystem returns players that fell out of the level to their spawn
// point. Each fall costs one health point; running out refills health.
type RespawnSystem struct{}

func NewRespawnSystem() *RespawnSystem { return &RespawnSystem{} }

func (s *RespawnSystem) Update(w *ecs.World) {
	if w == nil {
		return
	}

	boundsEntity, ok := w.First(component.LevelBoundsComponent.Kind())
	if !ok {
		return
	}
	bounds, ok := ecs.Get(w, boundsEntity, component.LevelBoundsComponent.Kind())
	if !ok {
		return
	}

	ecs.ForEach2(w, component.PlayerTagComponent.Kind(), component.TransformComponent.Kind(), func(e ecs.Entity, _ *component.PlayerTag, t *component.Transform) {
		if t.Y >= bounds.KillY {
			return
		}

		if health, ok := ecs.Get(w, e, component.HealthComponent.Kind()); ok {
			health.Current--
			if health.Current <= 0 {
				log.Printf("respawn: entity=%v: out of health, refilling", e)
				health.Current = health.Initial
			}
		}

		x, y := t.X, t.Y
		if spawn, ok := ecs.Get(w, e, component.SpawnPointComponent.Kind()); ok {
			x, y = spawn.X, spawn.Y
		}
		teleport(w, e, x, y)
	})
}
