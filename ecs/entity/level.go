package entity

import (
	"fmt"
	"log"

	"github.com/milk9111/coinblock/common"
	"github.com/milk9111/coinblock/ecs"
	"github.com/milk9111/coinblock/ecs/component"
	"github.com/milk9111/coinblock/levels"
)

const (
	groundSprite    = "ground.png"
	groundLayer     = 0
	playerPrefab    = "player"
	cameraPrefab    = "camera"
	healthBarPrefab = "health_bar"
)

// LoadedLevel is what BuildLevel created.
type LoadedLevel struct {
	Bounds    ecs.Entity
	Player    ecs.Entity
	Camera    ecs.Entity
	HealthBar ecs.Entity
	Solids    []ecs.Entity
	Actors    []ecs.Entity
}

// BuildLevel fills w with the level's solids, its placed prefabs, the player
// at the spawn point, a camera and the HUD model.
func BuildLevel(w *ecs.World, lvl *levels.Level, spawner *PrefabSpawner) (*LoadedLevel, error) {
	if w == nil {
		return nil, fmt.Errorf("build level: world is nil")
	}
	if err := lvl.Validate(); err != nil {
		return nil, fmt.Errorf("build level: %w", err)
	}
	if spawner == nil {
		return nil, fmt.Errorf("build level: spawner is nil")
	}

	out := &LoadedLevel{}

	out.Bounds = ecs.CreateEntity(w)
	if err := ecs.Add(w, out.Bounds, component.LevelBoundsComponent.Kind(), &component.LevelBounds{
		Width:  lvl.Width,
		Height: lvl.Height,
		KillY:  lvl.KillY,
	}); err != nil {
		return nil, fmt.Errorf("build level: bounds: %w", err)
	}

	for i, solid := range lvl.Solids {
		e, err := buildSolid(w, solid, spawner.assets)
		if err != nil {
			return nil, fmt.Errorf("build level: solid %d: %w", i, err)
		}
		out.Solids = append(out.Solids, e)
	}

	for i, placed := range lvl.Entities {
		e, err := spawner.Spawn(w, placed.Prefab, placed.X, placed.Y)
		if err != nil {
			return nil, fmt.Errorf("build level: entity %d: %w", i, err)
		}
		out.Actors = append(out.Actors, e)
	}

	player, err := spawner.Spawn(w, playerPrefab, lvl.Spawn.X, lvl.Spawn.Y)
	if err != nil {
		return nil, fmt.Errorf("build level: %w", err)
	}
	if err := ecs.Add(w, player, component.SpawnPointComponent.Kind(), &component.SpawnPoint{X: lvl.Spawn.X, Y: lvl.Spawn.Y}); err != nil {
		return nil, fmt.Errorf("build level: spawn point: %w", err)
	}
	out.Player = player

	camera, err := spawner.Spawn(w, cameraPrefab, lvl.Spawn.X, lvl.Height/2)
	if err != nil {
		return nil, fmt.Errorf("build level: %w", err)
	}
	out.Camera = camera

	bar, err := spawner.Spawn(w, healthBarPrefab, 0, 0)
	if err != nil {
		log.Printf("level: warning: no health bar: %v", err)
	} else {
		out.HealthBar = bar
	}

	return out, nil
}

func buildSolid(w *ecs.World, solid levels.Solid, a Assets) (ecs.Entity, error) {
	sprite := solid.Sprite
	if sprite == "" {
		sprite = groundSprite
	}
	img, err := a.image(sprite)
	if err != nil {
		return 0, fmt.Errorf("load image %q: %w", sprite, err)
	}

	x, y := solid.Center()
	e := ecs.CreateEntity(w)

	// One tile is one world unit, so the sprite is stretched to the box.
	scaleX, scaleY := solid.W, solid.H
	if img != nil {
		scaleX = solid.W * common.PixelsPerUnit / float64(img.Bounds().Dx())
		scaleY = solid.H * common.PixelsPerUnit / float64(img.Bounds().Dy())
	}

	if err := ecs.Add(w, e, component.TransformComponent.Kind(), &component.Transform{X: x, Y: y, ScaleX: scaleX, ScaleY: scaleY}); err != nil {
		return 0, err
	}
	if err := ecs.Add(w, e, component.SpriteComponent.Kind(), &component.Sprite{Image: img}); err != nil {
		return 0, err
	}
	if err := ecs.Add(w, e, component.RenderLayerComponent.Kind(), &component.RenderLayer{Index: groundLayer}); err != nil {
		return 0, err
	}
	if err := ecs.Add(w, e, component.RigidBodyComponent.Kind(), &component.RigidBody{
		Kind:     component.BodyStatic,
		Width:    solid.W,
		Height:   solid.H,
		Friction: 0.8,
	}); err != nil {
		return 0, err
	}
	return e, nil
}
