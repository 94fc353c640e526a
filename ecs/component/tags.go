package component

// Tag names an entity for collision filtering, like "Player".
type Tag struct {
	Name string
}

var TagComponent = NewComponent[Tag]()

const PlayerTagName = "Player"

type PlayerTag struct{}

var PlayerTagComponent = NewComponent[PlayerTag]()
