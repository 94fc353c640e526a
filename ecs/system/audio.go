package system

import (
	"github.com/milk9111/coinblock/ecs"
	"github.com/milk9111/coinblock/ecs/component"
)

// AudioSystem plays and stops clips requested through Audio components.
type AudioSystem struct{}

func NewAudioSystem() *AudioSystem {
	return &AudioSystem{}
}

func (a *AudioSystem) Update(w *ecs.World) {
	ecs.ForEach(w, component.AudioComponent.Kind(), func(_ ecs.Entity, audioComp *component.Audio) {
		count := min(len(audioComp.Play), len(audioComp.Players))

		for i := 0; i < count; i++ {
			if !audioComp.Play[i] {
				continue
			}
			audioComp.Play[i] = false

			player := audioComp.Players[i]
			if player == nil {
				continue
			}
			if i < len(audioComp.Volume) {
				player.SetVolume(audioComp.Volume[i])
			}
			// Restart so quick repeats are still heard.
			if err := player.Rewind(); err != nil {
				continue
			}
			player.Play()
		}

		for i := 0; i < min(len(audioComp.Stop), len(audioComp.Players)); i++ {
			if !audioComp.Stop[i] {
				continue
			}
			audioComp.Stop[i] = false

			player := audioComp.Players[i]
			if player != nil && player.IsPlaying() {
				player.Pause()
			}
		}
	})
}
