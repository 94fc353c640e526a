package ecs

// EventType names a world event.
type EventType string

const (
	EventBlockHit    EventType = "block_hit"
	EventCoinEmitted EventType = "coin_emitted"
	EventCoinSpawned EventType = "coin_spawned"
)

// Event is a tick-scoped notification. Events pushed during a tick are
// visible to every later system in the same tick and dropped afterwards.
type Event struct {
	Type   EventType
	Source Entity
	Data   any
}

// EventQueue is a simple FIFO queue.
type EventQueue struct {
	items []Event
}

// Push adds an event.
func (q *EventQueue) Push(evt Event) {
	if q == nil {
		return
	}
	q.items = append(q.items, evt)
}

// Peek returns the queued events without consuming them.
func (q *EventQueue) Peek() []Event {
	if q == nil {
		return nil
	}
	return q.items
}

// Count returns how many queued events have the given type.
func (q *EventQueue) Count(t EventType) int {
	n := 0
	for _, evt := range q.Peek() {
		if evt.Type == t {
			n++
		}
	}
	return n
}

// Drain returns all events and clears the queue.
func (q *EventQueue) Drain() []Event {
	if q == nil || len(q.items) == 0 {
		return nil
	}
	out := q.items
	q.items = nil
	return out
}

func (q *EventQueue) flush() {
	if q == nil {
		return
	}
	q.items = nil
}
