package component

// Script attaches a tengo behaviour script with start, enable and update
// hooks to an entity.
type Script struct {
	Path string

	Started    bool
	WasEnabled bool
	Failed     bool
}

var ScriptComponent = NewComponent[Script]()
