package system

import (
	"log"

	"github.com/milk9111/coinblock/ecs"
	"github.com/milk9111/coinblock/ecs/component"
)

// CoinSpawnerSystem instantiates each spawner's prefab every SpawnRate
// seconds and kicks it upward.
type CoinSpawnerSystem struct {
	spawner ActorSpawner
}

func NewCoinSpawnerSystem(spawner ActorSpawner) *CoinSpawnerSystem {
	return &CoinSpawnerSystem{spawner: spawner}
}

func (s *CoinSpawnerSystem) Update(w *ecs.World) {
	if s == nil || w == nil {
		return
	}

	now := w.Time()
	ecs.ForEach2(w, component.CoinSpawnerComponent.Kind(), component.TransformComponent.Kind(), func(e ecs.Entity, sp *component.CoinSpawner, t *component.Transform) {
		if ecs.Has(w, e, component.InactiveComponent.Kind()) {
			return
		}

		if !sp.Started {
			sp.NextSpawnTime = now + sp.SpawnRate
			sp.Started = true
		}
		if now < sp.NextSpawnTime {
			return
		}

		s.spawn(w, e, sp, t)
		sp.NextSpawnTime = now + sp.SpawnRate
	})
}

func (s *CoinSpawnerSystem) spawn(w *ecs.World, e ecs.Entity, sp *component.CoinSpawner, t *component.Transform) {
	if sp.Prefab == "" {
		log.Printf("coin spawner: entity=%v: error: coin prefab is not assigned", e)
		return
	}
	if s.spawner == nil {
		log.Printf("coin spawner: entity=%v: error: no spawner for %q", e, sp.Prefab)
		return
	}

	coin, err := s.spawner.Spawn(w, sp.Prefab, t.X, t.Y)
	if err != nil {
		log.Printf("coin spawner: entity=%v: error: spawn %q: %v", e, sp.Prefab, err)
		return
	}

	if ct, ok := ecs.Get(w, coin, component.TransformComponent.Kind()); ok {
		ct.Rotation = t.Rotation
	}

	if rb, ok := ecs.Get(w, coin, component.RigidBodyComponent.Kind()); ok {
		rb.AddForce(0, sp.InitialJumpForce, w.DeltaTime())
	} else {
		log.Printf("coin spawner: entity=%v: warning: spawned coin %v has no rigid body", e, coin)
	}

	w.Events().Push(ecs.Event{Type: ecs.EventCoinSpawned, Source: e, Data: coin})
}
