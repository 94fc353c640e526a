package component

// SpawnPoint is where a player returns after leaving the level.
type SpawnPoint struct {
	X float64
	Y float64
}

var SpawnPointComponent = NewComponent[SpawnPoint]()
