package component

// HealthBar is a bounded display value, the model behind the HUD slider.
type HealthBar struct {
	Value int
	Max   int
}

// SetMaxHealth sets both the current and the maximum display value.
func (h *HealthBar) SetMaxHealth(health int) {
	if h == nil {
		return
	}
	h.Value = health
	h.Max = health
}

// SetHealth sets the current display value only.
func (h *HealthBar) SetHealth(health int) {
	if h == nil {
		return
	}
	h.Value = health
}

var HealthBarComponent = NewComponent[HealthBar]()
