package main

import (
	"fmt"
	"image/color"
	"log"
	"strings"

	"github.com/ebitenui/ebitenui"
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
	"github.com/milk9111/coinblock/common"
	"github.com/milk9111/coinblock/ecs"
	"github.com/milk9111/coinblock/ecs/entity"
	"github.com/milk9111/coinblock/ecs/system"
	"github.com/milk9111/coinblock/levels"
	"github.com/milk9111/coinblock/prefabs"
)

var defaultBackground = color.NRGBA{R: 0x6b, G: 0x8c, B: 0xff, A: 0xff}

type Game struct {
	frames int

	levelName  string
	world      *ecs.World
	spawner    *entity.PrefabSpawner
	scripts    *system.ScriptSystem
	debugDraw  *system.PhysicsDebugSystem
	background color.Color

	hud     *HUD
	hudSpec *prefabs.HUDSpec
	pauseUI *ebitenui.UI
	paused  bool
	quit    bool
	debug   bool

	watcher *prefabs.Watcher
}

func NewGame(levelName string, debug, watch bool) (*Game, error) {
	hudSpec, err := prefabs.LoadHUDSpec()
	if err != nil {
		log.Printf("game: warning: hud spec: %v", err)
		hudSpec = &prefabs.HUDSpec{}
	}

	g := &Game{
		levelName: levelFileName(levelName),
		spawner:   entity.NewPrefabSpawner(entity.DefaultAssets),
		hudSpec:   hudSpec,
		debug:     debug,
	}
	if err := g.loadLevel(); err != nil {
		return nil, err
	}

	g.hud = NewHUD(hudSpec)
	g.pauseUI = NewPauseUI(g, hudSpec)

	if watch {
		w, err := prefabs.NewWatcher("prefabs", "prefabs/scripts")
		if err != nil {
			log.Printf("game: warning: prefab watcher disabled: %v", err)
		} else {
			g.watcher = w
		}
	}

	return g, nil
}

// loadLevel builds a fresh world for the current level.
func (g *Game) loadLevel() error {
	lvl, err := levels.LoadLevelFromFS(g.levelName)
	if err != nil {
		return fmt.Errorf("load level %q: %w", g.levelName, err)
	}

	world, physics := newWorld(g.spawner)
	if _, err := entity.BuildLevel(world, lvl, g.spawner); err != nil {
		return fmt.Errorf("build level %q: %w", g.levelName, err)
	}

	g.background = defaultBackground
	if lvl.Background != "" {
		c, err := prefabs.ParseColor(lvl.Background)
		if err != nil {
			log.Printf("game: warning: level background %q: %v", lvl.Background, err)
		} else {
			g.background = c
		}
	}

	g.world = world
	g.scripts = findSystem[*system.ScriptSystem](world)
	g.debugDraw = system.NewPhysicsDebugSystem(physics)
	g.debugDraw.Enabled = g.debug
	world.AddSystem(g.debugDraw)
	return nil
}

// newWorld creates a world with the gameplay systems in update order.
func newWorld(spawner system.ActorSpawner) (*ecs.World, *system.PhysicsSystem) {
	w := ecs.NewWorld()
	physics := system.NewPhysicsSystem()

	w.AddSystem(system.NewInputSystem())
	w.AddSystem(system.NewPlayerControllerSystem())
	// Timers tick before anything that spawns or schedules them, so an
	// entity's first countdown is the tick after it appears.
	w.AddSystem(system.NewDeactivateSystem())
	w.AddSystem(system.NewLifetimeSystem())
	w.AddSystem(system.NewScriptSystem())
	w.AddSystem(system.NewCoinSpawnerSystem(spawner))
	w.AddSystem(system.NewQuestionBlockSystem(spawner))
	w.AddSystem(physics)
	w.AddSystem(system.NewRespawnSystem())
	w.AddSystem(system.NewCoinCounterSystem())
	w.AddSystem(system.NewHealthBarSystem())
	w.AddSystem(system.NewCameraSystem())
	w.AddSystem(system.NewAudioSystem())
	w.AddSystem(system.NewRenderSystem())
	return w, physics
}

func findSystem[T ecs.System](w *ecs.World) T {
	var zero T
	for _, s := range w.Systems() {
		if t, ok := s.(T); ok {
			return t
		}
	}
	return zero
}

func levelFileName(name string) string {
	name = strings.TrimSpace(name)
	if name == "" {
		name = "level1"
	}
	if !strings.HasSuffix(name, ".json") {
		name += ".json"
	}
	return name
}

func (g *Game) Update() error {
	if g.quit {
		return ebiten.Termination
	}
	g.frames++

	g.drainWatcher()

	if inpututil.IsKeyJustPressed(ebiten.KeyEscape) {
		g.paused = !g.paused
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyF3) {
		g.debug = !g.debug
		g.debugDraw.Enabled = g.debug
	}

	if g.paused {
		g.pauseUI.Update()
		return nil
	}

	g.world.SetDeltaTime(1.0 / float64(common.TPS))
	g.world.Update()

	g.hud.Sync(g.world)
	g.hud.Update()
	return nil
}

// drainWatcher applies pending prefab changes without blocking the frame.
func (g *Game) drainWatcher() {
	if g.watcher == nil {
		return
	}
	for {
		select {
		case name, ok := <-g.watcher.Events:
			if !ok {
				g.watcher = nil
				return
			}
			if prefabs.IsScriptFile(name) {
				log.Printf("game: script changed: %s", name)
				if g.scripts != nil {
					g.scripts.Invalidate()
				}
			} else {
				log.Printf("game: prefab changed: %s", name)
				g.spawner.Invalidate()
			}
		case err, ok := <-g.watcher.Errors:
			if !ok {
				g.watcher = nil
				return
			}
			log.Printf("game: error: prefab watcher: %v", err)
		default:
			return
		}
	}
}

// Restart rebuilds the current level from scratch.
func (g *Game) Restart() {
	if err := g.loadLevel(); err != nil {
		log.Printf("game: error: restart: %v", err)
		return
	}
	g.paused = false
}

func (g *Game) Draw(screen *ebiten.Image) {
	screen.Fill(g.background)
	g.world.Draw(screen)
	g.hud.Draw(screen)

	if g.debug {
		ebitenutil.DebugPrintAt(screen, fmt.Sprintf("Frames: %d    FPS: %.2f", g.frames, ebiten.ActualFPS()), 4, common.BaseHeight-16)
	}
	if g.paused {
		g.pauseUI.Draw(screen)
	}
}

func (g *Game) Close() {
	if g.watcher != nil {
		_ = g.watcher.Close()
		g.watcher = nil
	}
}

func (g *Game) LayoutF(outsideWidth, outsideHeight float64) (float64, float64) {
	return common.BaseWidth, common.BaseHeight
}

func (g *Game) Layout(outsideWidth, outsideHeight int) (int, int) {
	panic("shouldn't use Layout")
}
