package component

// Transform places an entity in world units with +Y pointing up. Z only
// orders drawing within a render layer. Spin is a rotation around the
// vertical axis, drawn as a horizontal squash.
type Transform struct {
	X        float64
	Y        float64
	Z        float64
	ScaleX   float64
	ScaleY   float64
	Rotation float64
	Spin     float64
}

var TransformComponent = NewComponent[Transform]()
