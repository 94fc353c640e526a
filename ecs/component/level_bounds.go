package component

// LevelBounds stores the world-space bounds of the current level. Anything
// that falls below KillY is out of the level.
type LevelBounds struct {
	Width  float64
	Height float64
	KillY  float64
}

var LevelBoundsComponent = NewComponent[LevelBounds]()
