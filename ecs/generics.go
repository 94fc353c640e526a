package ecs

import (
	"fmt"

	"github.com/milk9111/coinblock/ecs/component"
)

// CreateEntity allocates a new live entity.
func CreateEntity(w *World) Entity {
	if w == nil {
		return 0
	}
	return w.entities.create()
}

// DestroyEntity removes every component of e and frees its slot. It returns
// false when e was not alive.
func DestroyEntity(w *World, e Entity) bool {
	if w == nil || !w.entities.isAlive(e) {
		return false
	}
	for _, s := range w.stores {
		s.remove(e)
	}
	return w.entities.destroy(e)
}

// Entities returns every live entity ordered by slot id.
func Entities(w *World) []Entity {
	if w == nil {
		return nil
	}
	return w.entities.all()
}

func storeFor[T any](w *World, kind component.ComponentKind[T], create bool) *sparseSet[T] {
	s, ok := w.stores[kind.ID()]
	if !ok {
		if !create {
			return nil
		}
		set := &sparseSet[T]{}
		w.stores[kind.ID()] = set
		return set
	}
	set, ok := s.(*sparseSet[T])
	if !ok {
		return nil
	}
	return set
}

// Add attaches value to e, replacing any existing component of the kind.
func Add[T any](w *World, e Entity, kind component.ComponentKind[T], value *T) error {
	if w == nil || !w.entities.isAlive(e) {
		return fmt.Errorf("add component to %v: %w", e, component.ErrEntityNotAlive)
	}
	if !kind.Valid() {
		return component.ErrInvalidComponentKind
	}
	if value == nil {
		return component.ErrNilComponent
	}
	set := storeFor(w, kind, true)
	if set == nil {
		return fmt.Errorf("component %d registered with another type: %w", kind.ID(), component.ErrInvalidComponentKind)
	}
	set.set(e, value)
	return nil
}

// Get returns the component of the kind attached to e.
func Get[T any](w *World, e Entity, kind component.ComponentKind[T]) (*T, bool) {
	if w == nil || !w.entities.isAlive(e) {
		return nil, false
	}
	set := storeFor(w, kind, false)
	if set == nil {
		return nil, false
	}
	return set.get(e)
}

// Has reports whether e carries a component of the kind.
func Has[T any](w *World, e Entity, kind component.ComponentKind[T]) bool {
	_, ok := Get(w, e, kind)
	return ok
}

// Remove detaches the component of the kind from e.
func Remove[T any](w *World, e Entity, kind component.ComponentKind[T]) bool {
	if w == nil {
		return false
	}
	set := storeFor(w, kind, false)
	if set == nil {
		return false
	}
	return set.remove(e)
}

// First returns the lowest-id entity having every listed kind.
func First(w *World, kinds ...component.AnyKind) (Entity, bool) {
	return w.First(kinds...)
}

// ForEach calls fn for every entity with a component of kind. Entities
// destroyed by fn earlier in the same pass are skipped.
func ForEach[A any](w *World, ka component.ComponentKind[A], fn func(Entity, *A)) {
	for _, e := range w.Query(ka) {
		a, ok := Get(w, e, ka)
		if !ok {
			continue
		}
		fn(e, a)
	}
}

// ForEach2 calls fn for every entity having both kinds.
func ForEach2[A, B any](w *World, ka component.ComponentKind[A], kb component.ComponentKind[B], fn func(Entity, *A, *B)) {
	for _, e := range w.Query(ka, kb) {
		a, okA := Get(w, e, ka)
		b, okB := Get(w, e, kb)
		if !okA || !okB {
			continue
		}
		fn(e, a, b)
	}
}

// ForEach3 calls fn for every entity having all three kinds.
func ForEach3[A, B, C any](w *World, ka component.ComponentKind[A], kb component.ComponentKind[B], kc component.ComponentKind[C], fn func(Entity, *A, *B, *C)) {
	for _, e := range w.Query(ka, kb, kc) {
		a, okA := Get(w, e, ka)
		b, okB := Get(w, e, kb)
		c, okC := Get(w, e, kc)
		if !okA || !okB || !okC {
			continue
		}
		fn(e, a, b, c)
	}
}
