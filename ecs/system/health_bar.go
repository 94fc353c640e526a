package system

import (
	"github.com/milk9111/coinblock/ecs"
	"github.com/milk9111/coinblock/ecs/component"
)

// HealthBarSystem mirrors the player's health into every health bar.
type HealthBarSystem struct{}

func NewHealthBarSystem() *HealthBarSystem { return &HealthBarSystem{} }

func (s *HealthBarSystem) Update(w *ecs.World) {
	player, ok := w.First(component.PlayerTagComponent.Kind(), component.HealthComponent.Kind())
	if !ok {
		return
	}

	health, ok := ecs.Get(w, player, component.HealthComponent.Kind())
	if !ok {
		return
	}

	ecs.ForEach(w, component.HealthBarComponent.Kind(), func(_ ecs.Entity, bar *component.HealthBar) {
		if bar.Max != health.Initial {
			bar.SetMaxHealth(health.Initial)
		}
		bar.SetHealth(health.Current)
	})
}
