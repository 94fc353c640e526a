package prefabs

import "gopkg.in/yaml.v3"

// EntityBuildSpec is a prefab: a name plus a map of component name to that
// component's settings.
type EntityBuildSpec struct {
	Name       string         `yaml:"name"`
	Components map[string]any `yaml:"components"`
}

func LoadEntityBuildSpec(filename string) (EntityBuildSpec, error) {
	return LoadSpec[EntityBuildSpec](filename)
}

func DecodeComponentSpec[T any](raw any) (T, error) {
	var zero T
	if raw == nil {
		return zero, nil
	}
	b, err := yaml.Marshal(raw)
	if err != nil {
		return zero, err
	}
	var out T
	if err := yaml.Unmarshal(b, &out); err != nil {
		return zero, err
	}
	return out, nil
}

type TagComponentSpec struct {
	Name string `yaml:"name"`
}

type PlayerComponentSpec struct {
	MoveSpeed float64 `yaml:"move_speed"`
	JumpSpeed float64 `yaml:"jump_speed"`
}

type TransformComponentSpec struct {
	X        float64 `yaml:"x"`
	Y        float64 `yaml:"y"`
	Z        float64 `yaml:"z"`
	ScaleX   float64 `yaml:"scale_x"`
	ScaleY   float64 `yaml:"scale_y"`
	Rotation float64 `yaml:"rotation"`
}

type SpriteComponentSpec struct {
	Image      string  `yaml:"image"`
	OriginX    float64 `yaml:"origin_x"`
	OriginY    float64 `yaml:"origin_y"`
	FacingLeft bool    `yaml:"facing_left"`
}

type RenderLayerComponentSpec struct {
	Index int `yaml:"index"`
}

type CameraComponentSpec struct {
	Zoom       float64 `yaml:"zoom"`
	Smoothness float64 `yaml:"smoothness"`
}

type AudioClipSpec struct {
	Name   string  `yaml:"name"`
	File   string  `yaml:"file"`
	Volume float64 `yaml:"volume"`
}

type AudioComponentSpec struct {
	Clips    []AudioClipSpec `yaml:"clips"`
	Autoplay []string        `yaml:"autoplay"`
}

type RigidBodyComponentSpec struct {
	Kind          string  `yaml:"kind"`
	Width         float64 `yaml:"width"`
	Height        float64 `yaml:"height"`
	Radius        float64 `yaml:"radius"`
	Mass          float64 `yaml:"mass"`
	Friction      float64 `yaml:"friction"`
	Elasticity    float64 `yaml:"elasticity"`
	Sensor        bool    `yaml:"sensor"`
	FixedRotation bool    `yaml:"fixed_rotation"`
}

type GravityScaleComponentSpec struct {
	Scale float64 `yaml:"scale"`
}

type HealthComponentSpec struct {
	Initial int `yaml:"initial"`
	Current int `yaml:"current"`
}

// QuestionBlockComponentSpec uses pointers so an explicit zero can be told
// apart from an omitted field that should take the default.
type QuestionBlockComponentSpec struct {
	CoinPrefab         string   `yaml:"coin_prefab"`
	CoinLaunchVelocity *float64 `yaml:"coin_launch_velocity"`
	CoinLifetime       *float64 `yaml:"coin_lifetime"`
	BounceHeight       *float64 `yaml:"bounce_height"`
	BounceDuration     *float64 `yaml:"bounce_duration"`
	EmptySprite        string   `yaml:"empty_sprite"`
}

type CoinSpawnerComponentSpec struct {
	Prefab           string   `yaml:"prefab"`
	SpawnRate        *float64 `yaml:"spawn_rate"`
	InitialJumpForce *float64 `yaml:"initial_jump_force"`
}

type ScriptComponentSpec struct {
	Path string `yaml:"path"`
}

type LifetimeComponentSpec struct {
	Seconds float64 `yaml:"seconds"`
}
