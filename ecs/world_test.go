package ecs

import (
	"errors"
	"testing"

	"github.com/milk9111/coinblock/ecs/component"
)

func TestWorldEntityLifecycle(t *testing.T) {
	cases := []struct {
		name         string
		create       int
		destroyIndex int // -1 = none
	}{
		{"single", 1, 0},
		{"three_create_destroy_middle", 3, 1},
		{"none_destroy", 2, -1},
	}

	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			w := NewWorld()
			ents := make([]Entity, 0, c.create)
			for i := 0; i < c.create; i++ {
				ents = append(ents, CreateEntity(w))
			}
			if len(Entities(w)) != c.create {
				t.Fatalf("expected %d entities, got %d", c.create, len(Entities(w)))
			}
			if c.destroyIndex >= 0 {
				if !DestroyEntity(w, ents[c.destroyIndex]) {
					t.Fatalf("DestroyEntity should return true for alive entity")
				}
				if w.IsAlive(ents[c.destroyIndex]) {
					t.Fatalf("entity should not be alive after destruction")
				}
				if DestroyEntity(w, ents[c.destroyIndex]) {
					t.Fatalf("DestroyEntity should return false for a dead entity")
				}
				if len(Entities(w)) != c.create-1 {
					t.Fatalf("expected %d entities after destroy, got %d", c.create-1, len(Entities(w)))
				}
			}
		})
	}
}

func TestWorldRecyclesSlotsWithNewGeneration(t *testing.T) {
	w := NewWorld()
	h := component.NewComponent[int]()

	old := CreateEntity(w)
	if err := Add(w, old, h.Kind(), intPtr(1)); err != nil {
		t.Fatal(err)
	}
	DestroyEntity(w, old)

	fresh := CreateEntity(w)
	if fresh.id() != old.id() {
		t.Fatalf("expected slot %d to be reused, got %d", old.id(), fresh.id())
	}
	if fresh.generation() == old.generation() {
		t.Fatalf("expected generation to change on reuse")
	}
	if w.IsAlive(old) {
		t.Fatalf("stale handle must not be alive")
	}
	if Has(w, fresh, h.Kind()) {
		t.Fatalf("reused slot must not inherit components")
	}
	if err := Add(w, old, h.Kind(), intPtr(2)); !errors.Is(err, component.ErrEntityNotAlive) {
		t.Fatalf("expected ErrEntityNotAlive for stale handle, got %v", err)
	}
}

func intPtr(i int) *int {
	return &i
}

func stringPtr(s string) *string {
	return &s
}

func float64Ptr(f float64) *float64 {
	return &f
}

func TestWorldComponents(t *testing.T) {
	w := NewWorld()

	h1 := component.NewComponent[int]()
	h2 := component.NewComponent[string]()
	h3 := component.NewComponent[float64]()

	e1 := CreateEntity(w)
	e2 := CreateEntity(w)

	tests := []struct {
		name     string
		setup    func() error
		check    func(t *testing.T)
		teardown func() bool
	}{
		{
			name:  "add_int_to_e1",
			setup: func() error { return Add(w, e1, h1.Kind(), intPtr(10)) },
			check: func(t *testing.T) {
				v, ok := Get(w, e1, h1.Kind())
				if !ok || *v != 10 {
					t.Fatalf("expected 10, got %v ok=%v", v, ok)
				}
			},
			teardown: func() bool { return Remove(w, e1, h1.Kind()) },
		},
		{
			name: "add_str_to_e1_and_e2",
			setup: func() error {
				if err := Add(w, e1, h2.Kind(), stringPtr("a")); err != nil {
					return err
				}
				return Add(w, e2, h2.Kind(), stringPtr("b"))
			},
			check: func(t *testing.T) {
				if !Has(w, e1, h2.Kind()) || !Has(w, e2, h2.Kind()) {
					t.Fatalf("expected both entities to have string component")
				}
			},
			teardown: func() bool { return Remove(w, e1, h2.Kind()) },
		},
		{
			name:  "pointer_is_shared",
			setup: func() error { return Add(w, e1, h3.Kind(), float64Ptr(1.23)) },
			check: func(t *testing.T) {
				v, ok := Get(w, e1, h3.Kind())
				if !ok {
					t.Fatalf("expected float present")
				}
				*v = 4.5
				again, _ := Get(w, e1, h3.Kind())
				if *again != 4.5 {
					t.Fatalf("expected in-place mutation to stick, got %v", *again)
				}
			},
			teardown: func() bool { return Remove(w, e1, h3.Kind()) },
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if err := tc.setup(); err != nil {
				t.Fatalf("setup failed: %v", err)
			}
			tc.check(t)
			if !tc.teardown() {
				t.Fatalf("teardown failed for %s", tc.name)
			}
		})
	}
}

func TestAddRejectsBadInput(t *testing.T) {
	w := NewWorld()
	e := CreateEntity(w)
	h := component.NewComponent[int]()

	if err := Add[int](w, e, h.Kind(), nil); !errors.Is(err, component.ErrNilComponent) {
		t.Fatalf("expected ErrNilComponent, got %v", err)
	}
	var zero component.ComponentKind[int]
	if err := Add(w, e, zero, intPtr(1)); !errors.Is(err, component.ErrInvalidComponentKind) {
		t.Fatalf("expected ErrInvalidComponentKind, got %v", err)
	}
}

func TestForEach(t *testing.T) {
	t.Run("basic", func(t *testing.T) {
		w := NewWorld()
		h := component.NewComponent[int]()

		e1 := CreateEntity(w)
		CreateEntity(w)
		e3 := CreateEntity(w)

		if err := Add(w, e1, h.Kind(), intPtr(1)); err != nil {
			t.Fatalf("add failed: %v", err)
		}
		if err := Add(w, e3, h.Kind(), intPtr(3)); err != nil {
			t.Fatalf("add failed: %v", err)
		}

		var ents []Entity
		ForEach(w, h.Kind(), func(e Entity, _ *int) { ents = append(ents, e) })
		if len(ents) != 2 || ents[0] != e1 || ents[1] != e3 {
			t.Fatalf("expected [e1 e3], got %v", ents)
		}
	})

	t.Run("destroy_during_iteration", func(t *testing.T) {
		w := NewWorld()
		h := component.NewComponent[int]()

		var all []Entity
		for i := 0; i < 4; i++ {
			e := CreateEntity(w)
			all = append(all, e)
			if err := Add(w, e, h.Kind(), intPtr(i)); err != nil {
				t.Fatal(err)
			}
		}

		visited := 0
		ForEach(w, h.Kind(), func(e Entity, v *int) {
			visited++
			if *v == 0 {
				DestroyEntity(w, all[2])
			}
		})
		if visited != 3 {
			t.Fatalf("expected 3 visits after destroying one mid-pass, got %d", visited)
		}
	})
}

func TestForEach2And3(t *testing.T) {
	w := NewWorld()
	e1 := CreateEntity(w)
	e2 := CreateEntity(w)
	e3 := CreateEntity(w)

	ka := component.NewComponentKind[int]()
	kb := component.NewComponentKind[int]()
	kc := component.NewComponentKind[int]()

	mustAdd := func(e Entity, k component.ComponentKind[int], v int) {
		t.Helper()
		if err := Add(w, e, k, intPtr(v)); err != nil {
			t.Fatal(err)
		}
	}
	mustAdd(e1, ka, 1)
	mustAdd(e2, ka, 2)
	mustAdd(e2, kb, 3)
	mustAdd(e2, kc, 5)
	mustAdd(e3, kb, 4)
	mustAdd(e3, kc, 6)

	tests := []struct {
		name string
		run  func() []Entity
		want []Entity
	}{
		{
			name: "pair_ab",
			run: func() []Entity {
				var res []Entity
				ForEach2(w, ka, kb, func(e Entity, _ *int, _ *int) { res = append(res, e) })
				return res
			},
			want: []Entity{e2},
		},
		{
			name: "pair_bc",
			run: func() []Entity {
				var res []Entity
				ForEach2(w, kb, kc, func(e Entity, _ *int, _ *int) { res = append(res, e) })
				return res
			},
			want: []Entity{e2, e3},
		},
		{
			name: "triple",
			run: func() []Entity {
				var res []Entity
				ForEach3(w, ka, kb, kc, func(e Entity, _ *int, _ *int, _ *int) { res = append(res, e) })
				return res
			},
			want: []Entity{e2},
		},
		{
			name: "missing_store",
			run: func() []Entity {
				var res []Entity
				kd := component.NewComponentKind[int]()
				ForEach2(w, ka, kd, func(e Entity, _ *int, _ *int) { res = append(res, e) })
				return res
			},
			want: nil,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got := tc.run()
			if len(got) != len(tc.want) {
				t.Fatalf("expected %v, got %v", tc.want, got)
			}
			for i := range got {
				if got[i] != tc.want[i] {
					t.Fatalf("expected %v, got %v", tc.want, got)
				}
			}
		})
	}
}

func TestFirst(t *testing.T) {
	w := NewWorld()
	h := component.NewComponent[string]()

	if _, ok := First(w, h.Kind()); ok {
		t.Fatalf("expected no entity in empty world")
	}

	CreateEntity(w)
	e2 := CreateEntity(w)
	e3 := CreateEntity(w)
	_ = Add(w, e3, h.Kind(), stringPtr("late"))
	_ = Add(w, e2, h.Kind(), stringPtr("early"))

	got, ok := First(w, h.Kind())
	if !ok || got != e2 {
		t.Fatalf("expected lowest id entity %v, got %v ok=%v", e2, got, ok)
	}
}

type countingSystem struct {
	ticks   int
	seenDt  float64
	seenNow []float64
}

func (s *countingSystem) Update(w *World) {
	s.ticks++
	s.seenDt = w.DeltaTime()
	s.seenNow = append(s.seenNow, w.Time())
	w.Events().Push(Event{Type: EventCoinSpawned})
}

func TestWorldUpdateClockAndEvents(t *testing.T) {
	w := NewWorld()
	sys := &countingSystem{}
	w.AddSystem(sys)
	w.AddSystem(nil)
	w.SetDeltaTime(0.5)

	w.Update()
	w.Update()

	if sys.ticks != 2 {
		t.Fatalf("expected 2 ticks, got %d", sys.ticks)
	}
	if sys.seenDt != 0.5 {
		t.Fatalf("expected dt 0.5, got %v", sys.seenDt)
	}
	if sys.seenNow[0] != 0 || sys.seenNow[1] != 0.5 {
		t.Fatalf("expected time 0 then 0.5, got %v", sys.seenNow)
	}
	if w.Time() != 1.0 {
		t.Fatalf("expected clock at 1.0, got %v", w.Time())
	}
	if n := len(w.Events().Peek()); n != 0 {
		t.Fatalf("expected events flushed after update, got %d", n)
	}
}

func TestEventQueue(t *testing.T) {
	var q EventQueue
	q.Push(Event{Type: EventBlockHit})
	q.Push(Event{Type: EventCoinEmitted})
	q.Push(Event{Type: EventCoinEmitted})

	if got := q.Count(EventCoinEmitted); got != 2 {
		t.Fatalf("expected 2 coin events, got %d", got)
	}
	if got := len(q.Drain()); got != 3 {
		t.Fatalf("expected 3 drained events, got %d", got)
	}
	if q.Drain() != nil {
		t.Fatalf("expected empty queue after drain")
	}

	var nilQueue *EventQueue
	nilQueue.Push(Event{})
	if nilQueue.Peek() != nil {
		t.Fatalf("nil queue must stay empty")
	}
}
