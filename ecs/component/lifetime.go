package component

// Lifetime destroys its entity once Remaining seconds of simulated time
// have passed, whatever else the entity is doing.
type Lifetime struct {
	Remaining float64
}

var LifetimeComponent = NewComponent[Lifetime]()
