package ecs

import "github.com/hajimehoshi/ebiten/v2"

// RenderSystem is implemented by systems that also draw.
type RenderSystem interface {
	Draw(w *World, screen *ebiten.Image)
}

// Draw calls every render-capable system in update order.
func (w *World) Draw(screen *ebiten.Image) {
	if w == nil || screen == nil {
		return
	}
	for _, s := range w.Systems() {
		rs, ok := s.(RenderSystem)
		if !ok || rs == nil {
			continue
		}
		rs.Draw(w, screen)
	}
}
