// Command levelcheck loads levels headlessly, builds every prefab they
// place and runs a short simulation so broken levels fail before the game
// starts.
package main

import (
	"flag"
	"fmt"
	"io/fs"
	"log"
	"math"
	"os"
	"path"

	"github.com/milk9111/coinblock/common"
	"github.com/milk9111/coinblock/ecs"
	"github.com/milk9111/coinblock/ecs/component"
	"github.com/milk9111/coinblock/ecs/entity"
	"github.com/milk9111/coinblock/ecs/system"
	"github.com/milk9111/coinblock/levels"
)

func main() {
	levelName := flag.String("level", "", "level to check (default: all embedded levels)")
	seconds := flag.Float64("seconds", 5, "simulated seconds per level")
	flag.Parse()

	names, err := levelNames(*levelName)
	if err != nil {
		log.Fatal(err)
	}

	failed := false
	for _, name := range names {
		report, err := checkLevel(name, *seconds)
		if err != nil {
			failed = true
			fmt.Printf("FAIL %s: %v\n", name, err)
			continue
		}
		fmt.Printf("ok   %s: %s\n", name, report)
	}
	if failed {
		os.Exit(1)
	}
}

func levelNames(name string) ([]string, error) {
	if name != "" {
		if path.Ext(name) == "" {
			name += ".json"
		}
		return []string{name}, nil
	}
	return fs.Glob(levels.LevelsFS, "*.json")
}

func checkLevel(name string, seconds float64) (string, error) {
	lvl, err := levels.LoadLevelFromFS(name)
	if err != nil {
		return "", err
	}

	spawner := entity.NewPrefabSpawner(entity.Assets{})
	tally := &coinTally{}
	w := ecs.NewWorld()
	w.AddSystem(system.NewDeactivateSystem())
	w.AddSystem(system.NewLifetimeSystem())
	w.AddSystem(system.NewCoinSpawnerSystem(spawner))
	w.AddSystem(system.NewQuestionBlockSystem(spawner))
	w.AddSystem(tally)
	w.AddSystem(system.NewPhysicsSystem())
	w.AddSystem(system.NewRespawnSystem())
	w.SetDeltaTime(1.0 / float64(common.TPS))

	loaded, err := entity.BuildLevel(w, lvl, spawner)
	if err != nil {
		return "", err
	}

	ticks := int(seconds * common.TPS)
	for i := 0; i < ticks; i++ {
		w.Update()
	}

	blocks := len(w.Query(component.QuestionBlockComponent.Kind()))
	player, ok := ecs.Get(w, loaded.Player, component.PlayerComponent.Kind())
	if !ok {
		return "", fmt.Errorf("player missing after simulation")
	}
	if !player.Grounded && player.GroundGrace == 0 {
		return "", fmt.Errorf("player is not standing at the spawn point")
	}
	t, ok := ecs.Get(w, loaded.Player, component.TransformComponent.Kind())
	if !ok {
		return "", fmt.Errorf("player has no transform")
	}
	if math.Abs(t.X-lvl.Spawn.X) > spawnTolerance {
		return "", fmt.Errorf("player drifted to x=%.2f, spawn is x=%.2f", t.X, lvl.Spawn.X)
	}

	return fmt.Sprintf("%d solids, %d blocks, %d block hits, %d block coins, %d spawner coins in %.1fs",
		len(loaded.Solids), blocks, tally.hits, tally.emitted, tally.spawned, seconds), nil
}

// spawnTolerance is how far, in world units, an idle player may settle from
// the spawn point.
const spawnTolerance = 0.5

// coinTally counts block and spawner events; events only live for one tick.
type coinTally struct {
	hits    int
	emitted int
	spawned int
}

func (c *coinTally) Update(w *ecs.World) {
	c.hits += w.Events().Count(ecs.EventBlockHit)
	c.emitted += w.Events().Count(ecs.EventCoinEmitted)
	c.spawned += w.Events().Count(ecs.EventCoinSpawned)
}
