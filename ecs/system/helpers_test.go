package system

import "github.com/hajimehoshi/ebiten/v2"

// newTestImage returns a distinct image handle without touching the GPU.
func newTestImage() *ebiten.Image {
	return new(ebiten.Image)
}
