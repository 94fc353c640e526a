package component

const (
	DefaultSpawnRate        = 2.0
	DefaultInitialJumpForce = 200.0
)

// CoinSpawner periodically instantiates Prefab at its own transform.
type CoinSpawner struct {
	Prefab           string
	SpawnRate        float64
	InitialJumpForce float64
	NextSpawnTime    float64
	Started          bool
}

var CoinSpawnerComponent = NewComponent[CoinSpawner]()
