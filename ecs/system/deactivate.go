package system

import (
	"github.com/milk9111/coinblock/ecs"
	"github.com/milk9111/coinblock/ecs/component"
)

// DeactivateSystem switches entities off when their DeactivateTimer runs out.
type DeactivateSystem struct{}

func NewDeactivateSystem() *DeactivateSystem {
	return &DeactivateSystem{}
}

func (s *DeactivateSystem) Update(w *ecs.World) {
	if w == nil {
		return
	}

	dt := w.DeltaTime()
	ecs.ForEach(w, component.DeactivateTimerComponent.Kind(), func(e ecs.Entity, timer *component.DeactivateTimer) {
		if ecs.Has(w, e, component.InactiveComponent.Kind()) {
			return
		}
		timer.Remaining -= dt
		if timer.Remaining > 0 {
			return
		}
		ecs.Remove(w, e, component.DeactivateTimerComponent.Kind())
		_ = ecs.Add(w, e, component.InactiveComponent.Kind(), &component.Inactive{})
	})
}
