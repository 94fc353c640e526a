package system

import (
	"github.com/milk9111/coinblock/ecs"
	"github.com/milk9111/coinblock/ecs/component"
)

// LifetimeSystem counts down Lifetime components and destroys entities once
// their time is up. Inactive entities keep counting. It must run before any
// system that adds a Lifetime, otherwise the spawn tick is counted.
type LifetimeSystem struct{}

func NewLifetimeSystem() *LifetimeSystem {
	return &LifetimeSystem{}
}

func (s *LifetimeSystem) Update(w *ecs.World) {
	if w == nil {
		return
	}

	dt := w.DeltaTime()
	ecs.ForEach(w, component.LifetimeComponent.Kind(), func(e ecs.Entity, life *component.Lifetime) {
		life.Remaining -= dt
		if life.Remaining > 0 {
			return
		}
		ecs.DestroyEntity(w, e)
	})
}
