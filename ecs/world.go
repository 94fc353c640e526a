package ecs

import "github.com/milk9111/coinblock/ecs/component"

// System updates a world each tick.
type System interface {
	Update(w *World)
}

// World owns entities, component stores, the event queue and the tick clock.
type World struct {
	entities  entityStore
	stores    map[component.ComponentID]store
	scheduler *Scheduler
	events    EventQueue

	dt      float64
	elapsed float64
}

// NewWorld creates an empty world.
func NewWorld() *World {
	return &World{
		stores:    make(map[component.ComponentID]store),
		scheduler: NewScheduler(),
	}
}

// IsAlive reports whether an entity handle refers to a live entity.
func (w *World) IsAlive(e Entity) bool {
	if w == nil {
		return false
	}
	return w.entities.isAlive(e)
}

// AddSystem appends a system to the update order.
func (w *World) AddSystem(s System) {
	if w == nil {
		return
	}
	w.scheduler.Add(s)
}

// Systems returns the systems in update order.
func (w *World) Systems() []System {
	if w == nil {
		return nil
	}
	return w.scheduler.Systems()
}

// SetDeltaTime sets the duration of the next tick in seconds.
func (w *World) SetDeltaTime(dt float64) {
	if w == nil || dt < 0 {
		return
	}
	w.dt = dt
}

// DeltaTime is the duration of the current tick in seconds.
func (w *World) DeltaTime() float64 {
	if w == nil {
		return 0
	}
	return w.dt
}

// Time is the simulated time in seconds at the start of the current tick.
func (w *World) Time() float64 {
	if w == nil {
		return 0
	}
	return w.elapsed
}

// Update runs all systems once, advances the clock and drops this tick's
// events.
func (w *World) Update() {
	if w == nil {
		return
	}
	w.scheduler.Update(w)
	w.elapsed += w.dt
	w.events.flush()
}

// Events returns the world event queue.
func (w *World) Events() *EventQueue {
	if w == nil {
		return nil
	}
	return &w.events
}

// Query returns the live entities that have every listed component kind.
func (w *World) Query(kinds ...component.AnyKind) []Entity {
	if w == nil || len(kinds) == 0 {
		return nil
	}
	stores := make([]store, 0, len(kinds))
	for _, k := range kinds {
		s, ok := w.stores[k.ID()]
		if !ok {
			return nil
		}
		stores = append(stores, s)
	}
	return intersect(stores)
}

// First returns the lowest-id entity having every listed component kind.
func (w *World) First(kinds ...component.AnyKind) (Entity, bool) {
	ents := w.Query(kinds...)
	if len(ents) == 0 {
		return 0, false
	}
	return ents[0], true
}
