package component

// Inactive marks an entity as switched off: it is not drawn, its body is
// taken out of the physics space and behaviour systems skip it.
type Inactive struct{}

var InactiveComponent = NewComponent[Inactive]()

// DeactivateTimer adds Inactive once Remaining seconds have passed.
type DeactivateTimer struct {
	Remaining float64
}

var DeactivateTimerComponent = NewComponent[DeactivateTimer]()
