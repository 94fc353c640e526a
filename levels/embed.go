package levels

import (
	"embed"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
)

//go:embed *.json
var LevelsFS embed.FS

// Level is a hand-authored stage in world units, origin bottom-left, +Y up.
type Level struct {
	Width      float64  `json:"width"`
	Height     float64  `json:"height"`
	KillY      float64  `json:"kill_y"`
	Background string   `json:"background,omitempty"`
	Spawn      Point    `json:"spawn"`
	Solids     []Solid  `json:"solids"`
	Entities   []Entity `json:"entities,omitempty"`
}

type Point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Solid is a static box. X and Y are its bottom-left corner.
type Solid struct {
	X      float64 `json:"x"`
	Y      float64 `json:"y"`
	W      float64 `json:"w"`
	H      float64 `json:"h"`
	Sprite string  `json:"sprite,omitempty"`
}

// Center returns the middle of the box.
func (s Solid) Center() (float64, float64) {
	return s.X + s.W/2, s.Y + s.H/2
}

// Entity places a prefab with its center at X, Y.
type Entity struct {
	Prefab string  `json:"prefab"`
	X      float64 `json:"x"`
	Y      float64 `json:"y"`
}

var ErrInvalidLevel = errors.New("invalid level")

// Validate reports the first structural problem with the level.
func (l *Level) Validate() error {
	if l == nil {
		return fmt.Errorf("%w: nil level", ErrInvalidLevel)
	}
	if l.Width <= 0 || l.Height <= 0 {
		return fmt.Errorf("%w: size %vx%v", ErrInvalidLevel, l.Width, l.Height)
	}
	for i, s := range l.Solids {
		if s.W <= 0 || s.H <= 0 {
			return fmt.Errorf("%w: solid %d has size %vx%v", ErrInvalidLevel, i, s.W, s.H)
		}
	}
	for i, e := range l.Entities {
		if e.Prefab == "" {
			return fmt.Errorf("%w: entity %d has no prefab", ErrInvalidLevel, i)
		}
	}
	return nil
}

func LoadLevelFromFS(name string) (*Level, error) {
	data, err := fs.ReadFile(LevelsFS, name)
	if err != nil {
		return nil, fmt.Errorf("read level: %w", err)
	}
	var lvl Level
	if err := json.Unmarshal(data, &lvl); err != nil {
		return nil, fmt.Errorf("unmarshal level: %w", err)
	}
	if err := lvl.Validate(); err != nil {
		return nil, fmt.Errorf("level %s: %w", name, err)
	}
	return &lvl, nil
}
