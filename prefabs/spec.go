package prefabs

import (
	"fmt"
	"image/color"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

func LoadSpec[T any](filename string) (T, error) {
	var zero T
	data, err := Load(filename)
	if err != nil {
		return zero, fmt.Errorf("prefabs: load %s: %w", filename, err)
	}

	var spec T
	if err := yaml.Unmarshal(data, &spec); err != nil {
		return zero, fmt.Errorf("prefabs: unmarshal %s: %w", filename, err)
	}

	return spec, nil
}

// HUDSpec styles the health bar, the coin counter and the pause menu.
type HUDSpec struct {
	BarX       int        `yaml:"bar_x"`
	BarY       int        `yaml:"bar_y"`
	BarWidth   int        `yaml:"bar_width"`
	BarHeight  int        `yaml:"bar_height"`
	BarFill    *YAMLColor `yaml:"bar_fill"`
	BarTrack   *YAMLColor `yaml:"bar_track"`
	TextColor  *YAMLColor `yaml:"text_color"`
	PanelColor *YAMLColor `yaml:"panel_color"`
	Button     *YAMLColor `yaml:"button"`
	ButtonOver *YAMLColor `yaml:"button_hover"`
}

func LoadHUDSpec() (*HUDSpec, error) {
	spec, err := LoadSpec[HUDSpec]("hud.yaml")
	if err != nil {
		return nil, err
	}
	return &spec, nil
}

// ColorOr returns the color, or fallback when c is unset.
func (c *YAMLColor) ColorOr(fallback color.Color) color.Color {
	if c == nil || c.Color == nil {
		return fallback
	}
	return c.Color
}

type YAMLColor struct {
	color.Color
}

// ParseColor reads a "#rrggbb" or "#rrggbbaa" string.
func ParseColor(s string) (color.Color, error) {
	var c YAMLColor
	if err := c.UnmarshalYAML(&yaml.Node{Kind: yaml.ScalarNode, Value: s}); err != nil {
		return nil, err
	}
	return c.Color, nil
}

func (c *YAMLColor) UnmarshalYAML(value *yaml.Node) error {
	if value.Kind != yaml.ScalarNode {
		return fmt.Errorf("color must be a string")
	}

	s := strings.TrimPrefix(value.Value, "#")

	if len(s) != 6 && len(s) != 8 {
		return fmt.Errorf("invalid color format: %s", value.Value)
	}

	parse := func(start int) (uint8, error) {
		v, err := strconv.ParseUint(s[start:start+2], 16, 8)
		return uint8(v), err
	}

	r, err := parse(0)
	if err != nil {
		return err
	}
	g, err := parse(2)
	if err != nil {
		return err
	}
	b, err := parse(4)
	if err != nil {
		return err
	}

	a := uint8(255)
	if len(s) == 8 {
		a, err = parse(6)
		if err != nil {
			return err
		}
	}

	c.Color = color.NRGBA{R: r, G: g, B: b, A: a}
	return nil
}
