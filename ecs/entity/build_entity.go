package entity

import (
	"fmt"
	"sort"
	"strings"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/audio"
	"github.com/milk9111/coinblock/assets"
	"github.com/milk9111/coinblock/ecs"
	"github.com/milk9111/coinblock/ecs/component"
	"github.com/milk9111/coinblock/prefabs"
)

// Assets resolves the image and sound files a prefab refers to. A loader
// may return a nil value with a nil error to leave the asset out.
type Assets struct {
	Image func(path string) (*ebiten.Image, error)
	Audio func(path string) (*audio.Player, error)
}

// DefaultAssets loads from the embedded asset bundle.
var DefaultAssets = Assets{
	Image: assets.LoadImage,
	Audio: assets.LoadAudioPlayer,
}

func (a Assets) image(path string) (*ebiten.Image, error) {
	if path == "" || a.Image == nil {
		return nil, nil
	}
	return a.Image(path)
}

func (a Assets) audio(path string) (*audio.Player, error) {
	if path == "" || a.Audio == nil {
		return nil, nil
	}
	return a.Audio(path)
}

type buildContext struct {
	PrefabPath string
	Assets     Assets
}

type componentBuildFn func(w *ecs.World, e ecs.Entity, raw any, ctx *buildContext) error

var componentRegistry = map[string]componentBuildFn{
	"tag":                addTag,
	"player_tag":         addPlayerTag,
	"player":             addPlayer,
	"input":              addInput,
	"transform":          addTransform,
	"sprite":             addSprite,
	"render_layer":       addRenderLayer,
	"screen_space":       addScreenSpace,
	"camera":             addCamera,
	"audio":              addAudio,
	"rigid_body":         addRigidBody,
	"gravity_scale":      addGravityScale,
	"collision_listener": addCollisionListener,
	"question_block":     addQuestionBlock,
	"coin_spawner":       addCoinSpawner,
	"script":             addScript,
	"health":             addHealth,
	"health_bar":         addHealthBar,
	"coin_counter":       addCoinCounter,
	"lifetime":           addLifetime,
}

// Components are added in this order; anything not listed follows sorted
// by name.
var componentBuildOrder = []string{
	"tag",
	"player_tag",
	"player",
	"input",
	"transform",
	"sprite",
	"render_layer",
	"screen_space",
	"camera",
	"audio",
	"rigid_body",
	"gravity_scale",
	"collision_listener",
	"question_block",
	"coin_spawner",
	"script",
	"health",
	"health_bar",
	"coin_counter",
	"lifetime",
}

// BuildEntity creates an entity from a prefab using the embedded assets.
func BuildEntity(w *ecs.World, prefabPath string) (ecs.Entity, error) {
	return BuildEntityWithAssets(w, prefabPath, DefaultAssets)
}

func BuildEntityWithAssets(w *ecs.World, prefabPath string, a Assets) (ecs.Entity, error) {
	if w == nil {
		return 0, fmt.Errorf("build entity: world is nil")
	}

	spec, err := prefabs.LoadEntityBuildSpec(prefabs.PrefabFile(prefabPath))
	if err != nil {
		return 0, fmt.Errorf("build entity: load %q: %w", prefabPath, err)
	}
	return buildFromSpec(w, prefabPath, spec, a)
}

func buildFromSpec(w *ecs.World, prefabPath string, spec prefabs.EntityBuildSpec, a Assets) (ecs.Entity, error) {
	if len(spec.Components) == 0 {
		return 0, fmt.Errorf("build entity: prefab %q does not define components", prefabPath)
	}

	e := ecs.CreateEntity(w)
	ctx := &buildContext{PrefabPath: prefabPath, Assets: a}

	remaining := make(map[string]any, len(spec.Components))
	for k, v := range spec.Components {
		remaining[k] = v
	}

	order := make([]string, 0, len(remaining))
	for _, name := range componentBuildOrder {
		if _, ok := remaining[name]; ok {
			order = append(order, name)
			delete(remaining, name)
		}
	}
	rest := make([]string, 0, len(remaining))
	for name := range remaining {
		rest = append(rest, name)
	}
	sort.Strings(rest)
	order = append(order, rest...)

	for _, name := range order {
		builder, ok := componentRegistry[name]
		if !ok {
			ecs.DestroyEntity(w, e)
			return 0, fmt.Errorf("build entity: %q: no builder for component %q", prefabPath, name)
		}
		if err := builder(w, e, spec.Components[name], ctx); err != nil {
			ecs.DestroyEntity(w, e)
			return 0, fmt.Errorf("build entity: %q: add %q: %w", prefabPath, name, err)
		}
	}

	return e, nil
}

// SetEntityTransform moves an entity, adding a Transform if it has none.
func SetEntityTransform(w *ecs.World, e ecs.Entity, x, y, rotation float64) error {
	t, ok := ecs.Get(w, e, component.TransformComponent.Kind())
	if !ok || t == nil {
		t = &component.Transform{ScaleX: 1, ScaleY: 1}
	}
	t.X = x
	t.Y = y
	t.Rotation = rotation
	return ecs.Add(w, e, component.TransformComponent.Kind(), t)
}

type tagSpec = prefabs.TagComponentSpec

func addTag(w *ecs.World, e ecs.Entity, raw any, _ *buildContext) error {
	spec, err := prefabs.DecodeComponentSpec[tagSpec](raw)
	if err != nil {
		return fmt.Errorf("decode tag spec: %w", err)
	}
	if strings.TrimSpace(spec.Name) == "" {
		return fmt.Errorf("tag name is empty")
	}
	return ecs.Add(w, e, component.TagComponent.Kind(), &component.Tag{Name: spec.Name})
}

func addPlayerTag(w *ecs.World, e ecs.Entity, _ any, _ *buildContext) error {
	return ecs.Add(w, e, component.PlayerTagComponent.Kind(), &component.PlayerTag{})
}

type playerSpec = prefabs.PlayerComponentSpec

func addPlayer(w *ecs.World, e ecs.Entity, raw any, _ *buildContext) error {
	spec, err := prefabs.DecodeComponentSpec[playerSpec](raw)
	if err != nil {
		return fmt.Errorf("decode player spec: %w", err)
	}
	return ecs.Add(w, e, component.PlayerComponent.Kind(), &component.Player{
		MoveSpeed: spec.MoveSpeed,
		JumpSpeed: spec.JumpSpeed,
	})
}

func addInput(w *ecs.World, e ecs.Entity, _ any, _ *buildContext) error {
	return ecs.Add(w, e, component.InputComponent.Kind(), &component.Input{})
}

type transformSpec = prefabs.TransformComponentSpec

func addTransform(w *ecs.World, e ecs.Entity, raw any, _ *buildContext) error {
	spec, err := prefabs.DecodeComponentSpec[transformSpec](raw)
	if err != nil {
		return fmt.Errorf("decode transform spec: %w", err)
	}
	if spec.ScaleX == 0 {
		spec.ScaleX = 1
	}
	if spec.ScaleY == 0 {
		spec.ScaleY = 1
	}
	return ecs.Add(w, e, component.TransformComponent.Kind(), &component.Transform{
		X:        spec.X,
		Y:        spec.Y,
		Z:        spec.Z,
		ScaleX:   spec.ScaleX,
		ScaleY:   spec.ScaleY,
		Rotation: spec.Rotation,
	})
}

type spriteSpec = prefabs.SpriteComponentSpec

func addSprite(w *ecs.World, e ecs.Entity, raw any, ctx *buildContext) error {
	spec, err := prefabs.DecodeComponentSpec[spriteSpec](raw)
	if err != nil {
		return fmt.Errorf("decode sprite spec: %w", err)
	}

	img, err := ctx.Assets.image(spec.Image)
	if err != nil {
		return fmt.Errorf("load image %q: %w", spec.Image, err)
	}

	return ecs.Add(w, e, component.SpriteComponent.Kind(), &component.Sprite{
		Image:      img,
		OriginX:    spec.OriginX,
		OriginY:    spec.OriginY,
		FacingLeft: spec.FacingLeft,
	})
}

type renderLayerSpec = prefabs.RenderLayerComponentSpec

func addRenderLayer(w *ecs.World, e ecs.Entity, raw any, _ *buildContext) error {
	spec, err := prefabs.DecodeComponentSpec[renderLayerSpec](raw)
	if err != nil {
		return fmt.Errorf("decode render layer spec: %w", err)
	}
	return ecs.Add(w, e, component.RenderLayerComponent.Kind(), &component.RenderLayer{Index: spec.Index})
}

func addScreenSpace(w *ecs.World, e ecs.Entity, _ any, _ *buildContext) error {
	return ecs.Add(w, e, component.ScreenSpaceComponent.Kind(), &component.ScreenSpace{})
}

type cameraSpec = prefabs.CameraComponentSpec

func addCamera(w *ecs.World, e ecs.Entity, raw any, _ *buildContext) error {
	spec, err := prefabs.DecodeComponentSpec[cameraSpec](raw)
	if err != nil {
		return fmt.Errorf("decode camera spec: %w", err)
	}
	if spec.Zoom <= 0 {
		spec.Zoom = 1
	}
	if spec.Smoothness == 0 {
		spec.Smoothness = 0.15
	}
	return ecs.Add(w, e, component.CameraComponent.Kind(), &component.Camera{
		Zoom:       spec.Zoom,
		Smoothness: spec.Smoothness,
	})
}

type audioSpec = prefabs.AudioComponentSpec

func addAudio(w *ecs.World, e ecs.Entity, raw any, ctx *buildContext) error {
	spec, err := prefabs.DecodeComponentSpec[audioSpec](raw)
	if err != nil {
		return fmt.Errorf("decode audio spec: %w", err)
	}
	if len(spec.Clips) == 0 {
		return nil
	}
	comp, err := buildAudioComponent(spec.Clips, ctx.Assets)
	if err != nil {
		return fmt.Errorf("build audio component from spec: %w", err)
	}
	for _, name := range spec.Autoplay {
		comp.Request(name)
	}
	return ecs.Add(w, e, component.AudioComponent.Kind(), comp)
}

func buildAudioComponent(clips []prefabs.AudioClipSpec, a Assets) (*component.Audio, error) {
	n := len(clips)
	comp := &component.Audio{
		Names:   make([]string, 0, n),
		Players: make([]*audio.Player, 0, n),
		Volume:  make([]float64, 0, n),
		Play:    make([]bool, 0, n),
		Stop:    make([]bool, 0, n),
	}

	for i, clip := range clips {
		if clip.Name == "" {
			return nil, fmt.Errorf("audio clip %d has no name", i)
		}
		player, err := a.audio(clip.File)
		if err != nil {
			return nil, fmt.Errorf("audio clip %d (%q): %w", i, clip.Name, err)
		}
		volume := clip.Volume
		if volume == 0 {
			volume = 1
		}
		comp.Names = append(comp.Names, clip.Name)
		comp.Players = append(comp.Players, player)
		comp.Volume = append(comp.Volume, volume)
		comp.Play = append(comp.Play, false)
		comp.Stop = append(comp.Stop, false)
	}

	return comp, nil
}

type rigidBodySpec = prefabs.RigidBodyComponentSpec

func addRigidBody(w *ecs.World, e ecs.Entity, raw any, _ *buildContext) error {
	spec, err := prefabs.DecodeComponentSpec[rigidBodySpec](raw)
	if err != nil {
		return fmt.Errorf("decode rigid body spec: %w", err)
	}

	kind, err := parseBodyKind(spec.Kind)
	if err != nil {
		return err
	}
	if spec.Radius <= 0 {
		if spec.Width <= 0 {
			spec.Width = 1
		}
		if spec.Height <= 0 {
			spec.Height = 1
		}
	}
	if kind == component.BodyDynamic && spec.Mass <= 0 {
		spec.Mass = 1
	}

	return ecs.Add(w, e, component.RigidBodyComponent.Kind(), &component.RigidBody{
		Kind:          kind,
		Width:         spec.Width,
		Height:        spec.Height,
		Radius:        spec.Radius,
		Mass:          spec.Mass,
		Friction:      spec.Friction,
		Elasticity:    spec.Elasticity,
		Sensor:        spec.Sensor,
		FixedRotation: spec.FixedRotation,
	})
}

func parseBodyKind(s string) (component.BodyKind, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "dynamic":
		return component.BodyDynamic, nil
	case "kinematic":
		return component.BodyKinematic, nil
	case "static":
		return component.BodyStatic, nil
	default:
		return 0, fmt.Errorf("unknown body kind %q", s)
	}
}

type gravityScaleSpec = prefabs.GravityScaleComponentSpec

func addGravityScale(w *ecs.World, e ecs.Entity, raw any, _ *buildContext) error {
	spec, err := prefabs.DecodeComponentSpec[gravityScaleSpec](raw)
	if err != nil {
		return fmt.Errorf("decode gravity scale spec: %w", err)
	}
	return ecs.Add(w, e, component.GravityScaleComponent.Kind(), &component.GravityScale{Scale: spec.Scale})
}

func addCollisionListener(w *ecs.World, e ecs.Entity, _ any, _ *buildContext) error {
	return ecs.Add(w, e, component.CollisionListenerComponent.Kind(), &component.CollisionListener{})
}

type questionBlockSpec = prefabs.QuestionBlockComponentSpec

func addQuestionBlock(w *ecs.World, e ecs.Entity, raw any, ctx *buildContext) error {
	spec, err := prefabs.DecodeComponentSpec[questionBlockSpec](raw)
	if err != nil {
		return fmt.Errorf("decode question block spec: %w", err)
	}

	block := &component.QuestionBlock{
		CoinPrefab:         spec.CoinPrefab,
		CoinLaunchVelocity: floatOr(spec.CoinLaunchVelocity, component.DefaultCoinLaunchVelocity),
		CoinLifetime:       floatOr(spec.CoinLifetime, component.DefaultCoinLifetime),
		BounceHeight:       floatOr(spec.BounceHeight, component.DefaultBounceHeight),
		BounceDuration:     floatOr(spec.BounceDuration, component.DefaultBounceDuration),
	}
	if block.BounceDuration <= 0 {
		return fmt.Errorf("bounce duration must be positive, got %v", block.BounceDuration)
	}

	empty, err := ctx.Assets.image(spec.EmptySprite)
	if err != nil {
		return fmt.Errorf("load empty sprite %q: %w", spec.EmptySprite, err)
	}
	block.EmptySprite = empty

	return ecs.Add(w, e, component.QuestionBlockComponent.Kind(), block)
}

type coinSpawnerSpec = prefabs.CoinSpawnerComponentSpec

func addCoinSpawner(w *ecs.World, e ecs.Entity, raw any, _ *buildContext) error {
	spec, err := prefabs.DecodeComponentSpec[coinSpawnerSpec](raw)
	if err != nil {
		return fmt.Errorf("decode coin spawner spec: %w", err)
	}
	return ecs.Add(w, e, component.CoinSpawnerComponent.Kind(), &component.CoinSpawner{
		Prefab:           spec.Prefab,
		SpawnRate:        floatOr(spec.SpawnRate, component.DefaultSpawnRate),
		InitialJumpForce: floatOr(spec.InitialJumpForce, component.DefaultInitialJumpForce),
	})
}

type scriptSpec = prefabs.ScriptComponentSpec

func addScript(w *ecs.World, e ecs.Entity, raw any, _ *buildContext) error {
	spec, err := prefabs.DecodeComponentSpec[scriptSpec](raw)
	if err != nil {
		return fmt.Errorf("decode script spec: %w", err)
	}
	if strings.TrimSpace(spec.Path) == "" {
		return fmt.Errorf("script path is empty")
	}
	return ecs.Add(w, e, component.ScriptComponent.Kind(), &component.Script{Path: spec.Path})
}

type healthSpec = prefabs.HealthComponentSpec

func addHealth(w *ecs.World, e ecs.Entity, raw any, _ *buildContext) error {
	spec, err := prefabs.DecodeComponentSpec[healthSpec](raw)
	if err != nil {
		return fmt.Errorf("decode health spec: %w", err)
	}
	if spec.Initial <= 0 {
		spec.Initial = 1
	}
	if spec.Current <= 0 {
		spec.Current = spec.Initial
	}
	return ecs.Add(w, e, component.HealthComponent.Kind(), &component.Health{
		Initial: spec.Initial,
		Current: spec.Current,
	})
}

func addHealthBar(w *ecs.World, e ecs.Entity, _ any, _ *buildContext) error {
	return ecs.Add(w, e, component.HealthBarComponent.Kind(), &component.HealthBar{})
}

func addCoinCounter(w *ecs.World, e ecs.Entity, _ any, _ *buildContext) error {
	return ecs.Add(w, e, component.CoinCounterComponent.Kind(), &component.CoinCounter{})
}

type lifetimeSpec = prefabs.LifetimeComponentSpec

func addLifetime(w *ecs.World, e ecs.Entity, raw any, _ *buildContext) error {
	spec, err := prefabs.DecodeComponentSpec[lifetimeSpec](raw)
	if err != nil {
		return fmt.Errorf("decode lifetime spec: %w", err)
	}
	return ecs.Add(w, e, component.LifetimeComponent.Kind(), &component.Lifetime{Remaining: spec.Seconds})
}

func floatOr(v *float64, fallback float64) float64 {
	if v == nil {
		return fallback
	}
	return *v
}
