package prefabs

import (
	"fmt"
	"image/color"
	"strconv"
	"strings"

	"github.com/milk9111/raycontroller/controller"
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

// PlayerSpec is the YAML form of a body's tuning. Zero values fall back to
// controller.DefaultTuning.
type PlayerSpec struct {
	Name                     string        `yaml:"name"`
	MoveSpeed                float64       `yaml:"move_speed"`
	MaxJumpHeight            float64       `yaml:"max_jump_height"`
	MinJumpHeight            float64       `yaml:"min_jump_height"`
	TimeToJumpApex           float64       `yaml:"time_to_jump_apex"`
	AccelerationTimeAirborne *float64      `yaml:"acceleration_time_airborne"`
	AccelerationTimeGrounded *float64      `yaml:"acceleration_time_grounded"`
	Collider                 ColliderSpec  `yaml:"collider"`
	Collision                CollisionSpec `yaml:"collision"`
	Color                    *YAMLColor    `yaml:"color"`
	Script                   string        `yaml:"script"`
}

type ColliderSpec struct {
	Width  float64 `yaml:"width"`
	Height float64 `yaml:"height"`
}

type CollisionSpec struct {
	Mask           uint     `yaml:"mask"`
	HorizontalRays int      `yaml:"horizontal_rays"`
	VerticalRays   int      `yaml:"vertical_rays"`
	SkinWidth      *float64 `yaml:"skin_width"`
}

func LoadPlayerSpec(filename string) (*PlayerSpec, error) {
	if filename == "" {
		filename = "player.yaml"
	}
	spec, err := LoadSpec[PlayerSpec](filename)
	if err != nil {
		return nil, err
	}
	return &spec, nil
}

// Tuning converts the spec into controller settings. Ray counts are passed
// through as written so the probe applies its own minimum.
func (s *PlayerSpec) Tuning() controller.Tuning {
	t := controller.DefaultTuning()
	if s == nil {
		return t
	}
	if s.MoveSpeed != 0 {
		t.MoveSpeed = s.MoveSpeed
	}
	if s.MaxJumpHeight != 0 {
		t.MaxJumpHeight = s.MaxJumpHeight
	}
	if s.MinJumpHeight != 0 {
		t.MinJumpHeight = s.MinJumpHeight
	}
	if s.TimeToJumpApex != 0 {
		t.TimeToJumpApex = s.TimeToJumpApex
	}
	if s.AccelerationTimeAirborne != nil {
		t.AccelerationTimeAirborne = *s.AccelerationTimeAirborne
	}
	if s.AccelerationTimeGrounded != nil {
		t.AccelerationTimeGrounded = *s.AccelerationTimeGrounded
	}
	if s.Collider.Width != 0 {
		t.Width = s.Collider.Width
	}
	if s.Collider.Height != 0 {
		t.Height = s.Collider.Height
	}

	c := s.Collision
	if c.Mask != 0 {
		t.Collision.Mask = c.Mask
	}
	if c.HorizontalRays != 0 {
		t.Collision.HorizontalRays = c.HorizontalRays
	}
	if c.VerticalRays != 0 {
		t.Collision.VerticalRays = c.VerticalRays
	}
	if c.SkinWidth != nil {
		t.Collision.SkinWidth = *c.SkinWidth
	}
	return t
}

type YAMLColor struct {
	color.Color
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
