package system

import (
	"github.com/milk9111/coinblock/ecs"
	"github.com/milk9111/coinblock/ecs/component"
)

// CoinCounterSystem adds up the coins question blocks emitted this tick.
type CoinCounterSystem struct{}

func NewCoinCounterSystem() *CoinCounterSystem { return &CoinCounterSystem{} }

func (s *CoinCounterSystem) Update(w *ecs.World) {
	emitted := w.Events().Count(ecs.EventCoinEmitted)
	if emitted == 0 {
		return
	}
	ecs.ForEach(w, component.CoinCounterComponent.Kind(), func(_ ecs.Entity, counter *component.CoinCounter) {
		counter.Count += emitted
	})
}
