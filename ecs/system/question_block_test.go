package system

import (
	"errors"
	"math"
	"testing"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/milk9111/coinblock/ecs"
	"github.com/milk9111/coinblock/ecs/component"
)

type fakeSpawner struct {
	spawned []ecs.Entity
	prefabs []string
	err     error
	noBody  bool
}

func (f *fakeSpawner) Spawn(w *ecs.World, prefab string, x, y float64) (ecs.Entity, error) {
	if f.err != nil {
		return 0, f.err
	}
	e := ecs.CreateEntity(w)
	_ = ecs.Add(w, e, component.TransformComponent.Kind(), &component.Transform{X: x, Y: y, ScaleX: 1, ScaleY: 1, Rotation: 1.5})
	if !f.noBody {
		_ = ecs.Add(w, e, component.RigidBodyComponent.Kind(), &component.RigidBody{Kind: component.BodyDynamic, Radius: 0.25})
	}
	f.spawned = append(f.spawned, e)
	f.prefabs = append(f.prefabs, prefab)
	return e, nil
}

const (
	testBounceDuration = 0.15
	testBounceHeight   = 0.2
)

func newTestBlock(t *testing.T, w *ecs.World, prefab string) ecs.Entity {
	t.Helper()
	e := ecs.CreateEntity(w)
	if err := ecs.Add(w, e, component.TransformComponent.Kind(), &component.Transform{X: 3, Y: 4, Z: 1, ScaleX: 1, ScaleY: 1}); err != nil {
		t.Fatalf("add transform: %v", err)
	}
	block := &component.QuestionBlock{
		CoinPrefab:         prefab,
		CoinLaunchVelocity: component.DefaultCoinLaunchVelocity,
		CoinLifetime:       component.DefaultCoinLifetime,
		BounceHeight:       testBounceHeight,
		BounceDuration:     testBounceDuration,
	}
	if err := ecs.Add(w, e, component.QuestionBlockComponent.Kind(), block); err != nil {
		t.Fatalf("add question block: %v", err)
	}
	if err := ecs.Add(w, e, component.CollisionListenerComponent.Kind(), &component.CollisionListener{}); err != nil {
		t.Fatalf("add listener: %v", err)
	}
	return e
}

func playerHit() component.Collision {
	return component.Collision{Other: 99, OtherTag: component.PlayerTagName, Normal: mgl64.Vec2{0, 1}}
}

func blockState(t *testing.T, w *ecs.World, e ecs.Entity) *component.BlockState {
	t.Helper()
	block, ok := ecs.Get(w, e, component.QuestionBlockComponent.Kind())
	if !ok {
		t.Fatalf("block missing")
	}
	return &block.State
}

func blockY(t *testing.T, w *ecs.World, e ecs.Entity) float64 {
	t.Helper()
	tr, ok := ecs.Get(w, e, component.TransformComponent.Kind())
	if !ok {
		t.Fatalf("transform missing")
	}
	return tr.Y
}

func TestQuestionBlockIgnoresNonQualifyingCollisions(t *testing.T) {
	tests := []struct {
		name string
		c    component.Collision
	}{
		{"other tag", component.Collision{OtherTag: "Enemy", Normal: mgl64.Vec2{0, 1}}},
		{"untagged", component.Collision{Normal: mgl64.Vec2{0, 1}}},
		{"from above", component.Collision{OtherTag: component.PlayerTagName, Normal: mgl64.Vec2{0, -1}}},
		{"from the side", component.Collision{OtherTag: component.PlayerTagName, Normal: mgl64.Vec2{1, 0}}},
		{"exactly at threshold", component.Collision{OtherTag: component.PlayerTagName, Normal: mgl64.Vec2{0.866, 0.5}}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := ecs.NewWorld()
			spawner := &fakeSpawner{}
			sys := NewQuestionBlockSystem(spawner)
			e := newTestBlock(t, w, "block_coin")

			if sys.OnCollision(w, e, tt.c) {
				t.Fatalf("expected collision to be ignored")
			}
			st := blockState(t, w, e)
			if st.Hit || st.Bouncing || st.Phase != component.BounceIdle {
				t.Fatalf("state changed: %+v", st)
			}
		})
	}
}

func TestQuestionBlockHitOnlyOnce(t *testing.T) {
	w := ecs.NewWorld()
	spawner := &fakeSpawner{}
	sys := NewQuestionBlockSystem(spawner)
	e := newTestBlock(t, w, "block_coin")

	if !sys.OnCollision(w, e, playerHit()) {
		t.Fatalf("expected first hit to start a bounce")
	}
	st := blockState(t, w, e)
	if !st.Hit || !st.Bouncing || st.Phase != component.BounceAscending {
		t.Fatalf("unexpected state after hit: %+v", st)
	}

	// During the bounce.
	if sys.OnCollision(w, e, playerHit()) {
		t.Fatalf("expected collision during bounce to be ignored")
	}

	for i := 0; i < 10; i++ {
		sys.Advance(w, e, testBounceDuration/4)
	}
	if st.Bouncing || !st.Hit {
		t.Fatalf("expected finished bounce with hit kept, got %+v", st)
	}

	// After the bounce.
	if sys.OnCollision(w, e, playerHit()) {
		t.Fatalf("expected later collision to be ignored")
	}
	if st.Bouncing {
		t.Fatalf("expected no second bounce")
	}
	if len(spawner.spawned) != 1 {
		t.Fatalf("expected exactly one coin, got %d", len(spawner.spawned))
	}
}

func TestQuestionBlockBounceSampling(t *testing.T) {
	w := ecs.NewWorld()
	spawner := &fakeSpawner{}
	sys := NewQuestionBlockSystem(spawner)
	e := newTestBlock(t, w, "block_coin")
	rest := 4.0
	peak := rest + testBounceHeight
	step := testBounceDuration / 4

	sys.OnCollision(w, e, playerHit())
	if got := blockY(t, w, e); got != rest {
		t.Fatalf("at elapsed 0 y = %v, want %v", got, rest)
	}

	sys.Advance(w, e, step)
	if got := blockY(t, w, e); math.Abs(got-(rest+testBounceHeight/2)) > 1e-9 {
		t.Fatalf("at D/4 y = %v, want halfway", got)
	}
	if len(spawner.spawned) != 0 {
		t.Fatalf("coin emitted before the peak")
	}

	sys.Advance(w, e, step)
	if got := blockY(t, w, e); got != peak {
		t.Fatalf("at D/2 y = %v, want exactly %v", got, peak)
	}
	st := blockState(t, w, e)
	if st.Phase != component.BounceDescending || st.Elapsed != 0 {
		t.Fatalf("expected descending from zero after the peak, got %v %v", st.Phase, st.Elapsed)
	}
	if len(spawner.spawned) != 1 {
		t.Fatalf("expected coin at the peak, got %d", len(spawner.spawned))
	}

	sys.Advance(w, e, step)
	if got := blockY(t, w, e); math.Abs(got-(rest+testBounceHeight/2)) > 1e-9 {
		t.Fatalf("descending D/4 y = %v, want halfway", got)
	}

	sys.Advance(w, e, step)
	if got := blockY(t, w, e); got != rest {
		t.Fatalf("after full cycle y = %v, want exactly %v", got, rest)
	}
	if st.Bouncing || st.Phase != component.BounceIdle {
		t.Fatalf("expected idle after full cycle, got %+v", st)
	}

	tr, _ := ecs.Get(w, e, component.TransformComponent.Kind())
	if tr.X != 3 || tr.Z != 1 {
		t.Fatalf("bounce moved the block off its vertical axis: %+v", tr)
	}
}

func TestQuestionBlockLargeStepPinsPeak(t *testing.T) {
	w := ecs.NewWorld()
	spawner := &fakeSpawner{}
	sys := NewQuestionBlockSystem(spawner)
	e := newTestBlock(t, w, "block_coin")

	rest := 4.0
	peak := rest + testBounceHeight

	sys.OnCollision(w, e, playerHit())
	sys.Advance(w, e, 1)
	if got := blockY(t, w, e); got != peak {
		t.Fatalf("y = %v, want exact peak", got)
	}
	sys.Advance(w, e, 1)
	if got := blockY(t, w, e); got != 4 {
		t.Fatalf("y = %v, want exact rest", got)
	}
	if len(spawner.spawned) != 1 {
		t.Fatalf("expected one coin, got %d", len(spawner.spawned))
	}
}

func TestQuestionBlockCoinEmission(t *testing.T) {
	w := ecs.NewWorld()
	spawner := &fakeSpawner{}
	sys := NewQuestionBlockSystem(spawner)
	e := newTestBlock(t, w, "block_coin")

	sys.OnCollision(w, e, playerHit())
	sys.Advance(w, e, testBounceDuration)

	if len(spawner.spawned) != 1 {
		t.Fatalf("expected one coin, got %d", len(spawner.spawned))
	}
	if spawner.prefabs[0] != "block_coin" {
		t.Fatalf("spawned prefab %q", spawner.prefabs[0])
	}
	coin := spawner.spawned[0]

	tr, ok := ecs.Get(w, coin, component.TransformComponent.Kind())
	if !ok {
		t.Fatalf("coin transform missing")
	}
	if tr.X != 3 || tr.Y != 4+component.CoinSpawnOffset || tr.Z != 1 || tr.Rotation != 0 {
		t.Fatalf("coin placed at %+v", tr)
	}

	rb, ok := ecs.Get(w, coin, component.RigidBodyComponent.Kind())
	if !ok {
		t.Fatalf("coin body missing")
	}
	if rb.VelocityY != component.DefaultCoinLaunchVelocity || !rb.VelocityDirty {
		t.Fatalf("coin velocity = %v (dirty %v), want %v", rb.VelocityY, rb.VelocityDirty, component.DefaultCoinLaunchVelocity)
	}

	life, ok := ecs.Get(w, coin, component.LifetimeComponent.Kind())
	if !ok || life.Remaining != component.DefaultCoinLifetime {
		t.Fatalf("coin lifetime = %+v, want %v", life, component.DefaultCoinLifetime)
	}

	if got := w.Events().Count(ecs.EventCoinEmitted); got != 1 {
		t.Fatalf("expected one coin emitted event, got %d", got)
	}
}

func TestQuestionBlockCoinWithoutBodyStillExpires(t *testing.T) {
	w := ecs.NewWorld()
	spawner := &fakeSpawner{noBody: true}
	sys := NewQuestionBlockSystem(spawner)
	e := newTestBlock(t, w, "block_coin")

	sys.OnCollision(w, e, playerHit())
	sys.Advance(w, e, testBounceDuration)

	if len(spawner.spawned) != 1 {
		t.Fatalf("expected one coin, got %d", len(spawner.spawned))
	}
	if !ecs.Has(w, spawner.spawned[0], component.LifetimeComponent.Kind()) {
		t.Fatalf("expected lifetime on coin without a body")
	}
}

func TestQuestionBlockWithoutPrefab(t *testing.T) {
	w := ecs.NewWorld()
	spawner := &fakeSpawner{}
	sys := NewQuestionBlockSystem(spawner)
	e := newTestBlock(t, w, "")
	before := len(ecs.Entities(w))

	sys.OnCollision(w, e, playerHit())
	for i := 0; i < 4; i++ {
		sys.Advance(w, e, testBounceDuration/4)
	}

	st := blockState(t, w, e)
	if st.Bouncing || !st.Hit {
		t.Fatalf("expected completed bounce, got %+v", st)
	}
	if got := blockY(t, w, e); got != 4 {
		t.Fatalf("y = %v, want rest", got)
	}
	if len(spawner.spawned) != 0 || len(ecs.Entities(w)) != before {
		t.Fatalf("expected no actors to be created")
	}
}

func TestQuestionBlockSpawnErrorDoesNotStopBounce(t *testing.T) {
	w := ecs.NewWorld()
	spawner := &fakeSpawner{err: errors.New("boom")}
	sys := NewQuestionBlockSystem(spawner)
	e := newTestBlock(t, w, "block_coin")

	sys.OnCollision(w, e, playerHit())
	sys.Advance(w, e, testBounceDuration)
	sys.Advance(w, e, testBounceDuration)

	st := blockState(t, w, e)
	if st.Bouncing || blockY(t, w, e) != 4 {
		t.Fatalf("expected bounce to finish at rest, got %+v", st)
	}
}

func TestQuestionBlockSwapsSprite(t *testing.T) {
	w := ecs.NewWorld()
	sys := NewQuestionBlockSystem(&fakeSpawner{})
	e := newTestBlock(t, w, "block_coin")

	full := newTestImage()
	empty := newTestImage()
	block, _ := ecs.Get(w, e, component.QuestionBlockComponent.Kind())
	block.EmptySprite = empty
	_ = ecs.Add(w, e, component.SpriteComponent.Kind(), &component.Sprite{Image: full})

	sys.OnCollision(w, e, playerHit())

	sprite, _ := ecs.Get(w, e, component.SpriteComponent.Kind())
	if sprite.Image != empty {
		t.Fatalf("expected sprite to be swapped to the empty variant")
	}
}

func TestQuestionBlockUpdateDrivesBounce(t *testing.T) {
	w := ecs.NewWorld()
	spawner := &fakeSpawner{}
	sys := NewQuestionBlockSystem(spawner)
	w.AddSystem(sys)
	w.SetDeltaTime(testBounceDuration / 4)
	e := newTestBlock(t, w, "block_coin")

	listener, _ := ecs.Get(w, e, component.CollisionListenerComponent.Kind())
	listener.Events = append(listener.Events, playerHit())

	wantY := []float64{4, 4.1, 4.2, 4.1, 4}
	for i, want := range wantY {
		w.Update()
		if got := blockY(t, w, e); math.Abs(got-want) > 1e-9 {
			t.Fatalf("tick %d: y = %v, want %v", i, got, want)
		}
	}

	if len(listener.Events) != 0 {
		t.Fatalf("expected collision buffer to be drained")
	}
	if st := blockState(t, w, e); st.Bouncing || !st.Hit {
		t.Fatalf("unexpected final state %+v", st)
	}
	if len(spawner.spawned) != 1 {
		t.Fatalf("expected one coin, got %d", len(spawner.spawned))
	}
}

func TestQuestionBlockInactiveIsFrozen(t *testing.T) {
	w := ecs.NewWorld()
	sys := NewQuestionBlockSystem(&fakeSpawner{})
	w.AddSystem(sys)
	w.SetDeltaTime(testBounceDuration / 4)
	e := newTestBlock(t, w, "block_coin")

	sys.OnCollision(w, e, playerHit())
	_ = ecs.Add(w, e, component.InactiveComponent.Kind(), &component.Inactive{})
	w.Update()
	w.Update()
	if got := blockY(t, w, e); got != 4 {
		t.Fatalf("inactive block moved to %v", got)
	}

	ecs.Remove(w, e, component.InactiveComponent.Kind())
	w.Update()
	if got := blockY(t, w, e); math.Abs(got-4.1) > 1e-9 {
		t.Fatalf("resumed block y = %v, want 4.1", got)
	}
}

func TestQuestionBlockDestroyedMidBounce(t *testing.T) {
	w := ecs.NewWorld()
	spawner := &fakeSpawner{}
	sys := NewQuestionBlockSystem(spawner)
	w.AddSystem(sys)
	w.SetDeltaTime(testBounceDuration / 4)
	e := newTestBlock(t, w, "block_coin")

	sys.OnCollision(w, e, playerHit())
	w.Update()
	ecs.DestroyEntity(w, e)

	sys.Advance(w, e, testBounceDuration)
	w.Update()
	if len(spawner.spawned) != 0 {
		t.Fatalf("destroyed block emitted a coin")
	}
}
