package system

import (
	"log"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/milk9111/coinblock/common"
	"github.com/milk9111/coinblock/ecs"
	"github.com/milk9111/coinblock/ecs/component"
)

// ActorSpawner creates an actor from a named prefab at a world position.
type ActorSpawner interface {
	Spawn(w *ecs.World, prefab string, x, y float64) (ecs.Entity, error)
}

// ActorSpawnerFunc adapts a function to ActorSpawner.
type ActorSpawnerFunc func(w *ecs.World, prefab string, x, y float64) (ecs.Entity, error)

func (f ActorSpawnerFunc) Spawn(w *ecs.World, prefab string, x, y float64) (ecs.Entity, error) {
	return f(w, prefab, x, y)
}

// QuestionBlockSystem bounces a block once when the player hits it from
// below and emits a single coin at the top of the bounce.
type QuestionBlockSystem struct {
	spawner ActorSpawner
}

func NewQuestionBlockSystem(spawner ActorSpawner) *QuestionBlockSystem {
	return &QuestionBlockSystem{spawner: spawner}
}

func (s *QuestionBlockSystem) Update(w *ecs.World) {
	if s == nil || w == nil {
		return
	}

	dt := w.DeltaTime()
	ecs.ForEach2(w, component.QuestionBlockComponent.Kind(), component.TransformComponent.Kind(), func(e ecs.Entity, block *component.QuestionBlock, t *component.Transform) {
		if ecs.Has(w, e, component.InactiveComponent.Kind()) {
			return
		}

		s.start(e, block, t)

		// A bounce started this tick is first sampled at elapsed zero, so
		// the running bounce advances before new collisions are handled.
		s.Advance(w, e, dt)

		listener, ok := ecs.Get(w, e, component.CollisionListenerComponent.Kind())
		if !ok {
			return
		}
		for _, c := range listener.Drain() {
			s.OnCollision(w, e, c)
		}
	})
}

func (s *QuestionBlockSystem) start(e ecs.Entity, block *component.QuestionBlock, t *component.Transform) {
	if block.State.Initialized {
		return
	}
	block.State.RestPosition = mgl64.Vec3{t.X, t.Y, t.Z}
	block.State.Initialized = true

	if block.EmptySprite == nil {
		log.Printf("question block: entity=%v: warning: empty sprite not assigned", e)
	}
	if block.CoinPrefab == "" {
		log.Printf("question block: entity=%v: warning: coin prefab not assigned", e)
	}
}

// OnCollision handles one collision enter event. It reports whether the
// event started a bounce.
func (s *QuestionBlockSystem) OnCollision(w *ecs.World, e ecs.Entity, c component.Collision) bool {
	block, ok := ecs.Get(w, e, component.QuestionBlockComponent.Kind())
	if !ok {
		return false
	}
	t, ok := ecs.Get(w, e, component.TransformComponent.Kind())
	if !ok {
		return false
	}
	s.start(e, block, t)

	st := &block.State
	if st.Hit || st.Bouncing || c.OtherTag != component.PlayerTagName {
		return false
	}
	if c.Normal.Y() <= component.HitNormalThreshold {
		return false
	}

	st.Hit = true
	st.Bouncing = true
	st.Phase = component.BounceAscending
	st.Elapsed = 0
	setTransformPosition(t, st.RestPosition)

	if sprite, ok := ecs.Get(w, e, component.SpriteComponent.Kind()); ok && sprite.Image != nil && block.EmptySprite != nil {
		sprite.Image = block.EmptySprite
		sprite.UseSource = false
	}

	if audio, ok := ecs.Get(w, e, component.AudioComponent.Kind()); ok {
		audio.Request("bump")
	}
	w.Events().Push(ecs.Event{Type: ecs.EventBlockHit, Source: e})
	return true
}

// Advance moves a running bounce forward by dt.
func (s *QuestionBlockSystem) Advance(w *ecs.World, e ecs.Entity, dt float64) {
	if !w.IsAlive(e) {
		return
	}
	block, ok := ecs.Get(w, e, component.QuestionBlockComponent.Kind())
	if !ok || !block.State.Bouncing {
		return
	}
	t, ok := ecs.Get(w, e, component.TransformComponent.Kind())
	if !ok {
		return
	}

	st := &block.State
	half := block.BounceDuration / 2
	rest := st.RestPosition
	peak := block.Peak()

	st.Elapsed += dt
	for {
		switch st.Phase {
		case component.BounceAscending:
			if st.Elapsed < half {
				setTransformPosition(t, common.LerpVec3(rest, peak, st.Elapsed/half))
				return
			}
			setTransformPosition(t, peak)
			st.Phase = component.BouncePeakEmit
		case component.BouncePeakEmit:
			s.emitCoin(w, e, block)
			st.Phase = component.BounceDescending
			st.Elapsed = 0
			return
		case component.BounceDescending:
			if st.Elapsed < half {
				setTransformPosition(t, common.LerpVec3(peak, rest, st.Elapsed/half))
				return
			}
			setTransformPosition(t, rest)
			st.Phase = component.BounceIdle
			st.Elapsed = 0
			st.Bouncing = false
			return
		default:
			setTransformPosition(t, rest)
			st.Bouncing = false
			return
		}
	}
}

func (s *QuestionBlockSystem) emitCoin(w *ecs.World, e ecs.Entity, block *component.QuestionBlock) {
	if block.CoinPrefab == "" {
		return
	}
	if s.spawner == nil {
		log.Printf("question block: entity=%v: warning: no spawner for %q", e, block.CoinPrefab)
		return
	}

	pos := block.CoinSpawnPoint()
	coin, err := s.spawner.Spawn(w, block.CoinPrefab, pos.X(), pos.Y())
	if err != nil {
		log.Printf("question block: entity=%v: error: spawn %q: %v", e, block.CoinPrefab, err)
		return
	}

	if t, ok := ecs.Get(w, coin, component.TransformComponent.Kind()); ok {
		t.Z = pos.Z()
		t.Rotation = 0
		t.Spin = 0
	}

	if rb, ok := ecs.Get(w, coin, component.RigidBodyComponent.Kind()); ok {
		rb.SetVelocityY(block.CoinLaunchVelocity)
	} else {
		log.Printf("question block: entity=%v: warning: coin %v has no rigid body", e, coin)
	}

	if err := ecs.Add(w, coin, component.LifetimeComponent.Kind(), &component.Lifetime{Remaining: block.CoinLifetime}); err != nil {
		log.Printf("question block: entity=%v: error: coin lifetime: %v", e, err)
	}

	if audio, ok := ecs.Get(w, e, component.AudioComponent.Kind()); ok {
		audio.Request("coin")
	}
	w.Events().Push(ecs.Event{Type: ecs.EventCoinEmitted, Source: e, Data: coin})
}

func setTransformPosition(t *component.Transform, p mgl64.Vec3) {
	t.X = p.X()
	t.Y = p.Y()
	t.Z = p.Z()
}
