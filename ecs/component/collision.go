package component

import "github.com/go-gl/mathgl/mgl64"

// Collision is a contact-begin event as seen by the listening entity.
// Normal points from the other actor toward the listener, so a hit from
// below has a positive Y.
type Collision struct {
	Other    uint64
	OtherTag string
	Normal   mgl64.Vec2
}

// CollisionListener buffers collision events for its entity until a system
// drains them.
type CollisionListener struct {
	Events []Collision
}

// Drain returns the buffered events and clears the buffer.
func (l *CollisionListener) Drain() []Collision {
	if l == nil || len(l.Events) == 0 {
		return nil
	}
	out := l.Events
	l.Events = nil
	return out
}

var CollisionListenerComponent = NewComponent[CollisionListener]()
