package component

type Player struct {
	MoveSpeed float64
	JumpSpeed float64

	// Grounded is written by the physics system after each step.
	Grounded    bool
	GroundGrace int
}

var PlayerComponent = NewComponent[Player]()
