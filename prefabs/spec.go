package prefabs

import (
	"fmt"
	"image/color"
	"strconv"
	"strings"

	"golang.org/x/image/colornames"
	"gopkg.in/yaml.v3"
)

const (
	GameFile    = "game.yaml"
	EffectsFile = "effects.yaml"
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

// GameSpec is one level: the player, everything that moves on its own and
// where pickups may appear.
type GameSpec struct {
	Name        string         `yaml:"name"`
	Width       float64        `yaml:"width"`
	Height      float64        `yaml:"height"`
	Gravity     float64        `yaml:"gravity"`
	Background  YAMLColor      `yaml:"background"`
	Player      PlayerSpec     `yaml:"player"`
	Enemies     []EnemySpec    `yaml:"enemies"`
	Platforms   []PlatformSpec `yaml:"platforms"`
	Turrets     []TurretSpec   `yaml:"turrets"`
	SpawnPoints []PointSpec    `yaml:"spawn_points"`
	Pickup      PickupSpec     `yaml:"pickup"`
}

func LoadGameSpec() (*GameSpec, error) {
	spec, err := LoadSpec[GameSpec](GameFile)
	if err != nil {
		return nil, err
	}
	return &spec, nil
}

type PointSpec struct {
	X float64 `yaml:"x"`
	Y float64 `yaml:"y"`
}

type BoxSpec struct {
	Width  float64   `yaml:"width"`
	Height float64   `yaml:"height"`
	Color  YAMLColor `yaml:"color"`
}

type PlayerSpec struct {
	Transform PointSpec `yaml:"transform"`
	Box       BoxSpec   `yaml:"box"`
	Health    int       `yaml:"health"`
	MoveSpeed float64   `yaml:"move_speed"`
	JumpSpeed float64   `yaml:"jump_speed"`
}

type EnemySpec struct {
	Name      string    `yaml:"name"`
	Kind      string    `yaml:"kind"`
	Transform PointSpec `yaml:"transform"`
	Box       BoxSpec   `yaml:"box"`
	AI        AISpec    `yaml:"ai"`
	// Script names a tengo priority script for flying enemies.
	Script string `yaml:"script"`
}

type AISpec struct {
	MoveSpeed        float64 `yaml:"move_speed"`
	FollowRange      float64 `yaml:"follow_range"`
	AttackRange      float64 `yaml:"attack_range"`
	AttackDamage     int     `yaml:"attack_damage"`
	AttackDurationMS int     `yaml:"attack_duration_ms"`
	AttackCooldownMS int     `yaml:"attack_cooldown_ms"`
	PatrolLeft       float64 `yaml:"patrol_left"`
	PatrolRight      float64 `yaml:"patrol_right"`
}

// PlatformSpec is a solid platform. Two or more waypoints make it move.
type PlatformSpec struct {
	Transform PointSpec   `yaml:"transform"`
	Box       BoxSpec     `yaml:"box"`
	Waypoints []PointSpec `yaml:"waypoints"`
	Speed     float64     `yaml:"speed"`
	RestMS    int         `yaml:"rest_ms"`
}

// TurretSpec fires projectiles on an interval.
type TurretSpec struct {
	Transform  PointSpec `yaml:"transform"`
	IntervalMS int       `yaml:"interval_ms"`
	Speed      float64   `yaml:"speed"`
	Direction  PointSpec `yaml:"direction"`
	Damage     int       `yaml:"damage"`
	LifetimeMS int       `yaml:"lifetime_ms"`
	HitRadius  float64   `yaml:"hit_radius"`
}

// PickupSpec is how effect pickups look in the world.
type PickupSpec struct {
	Size         float64 `yaml:"size"`
	BobAmplitude float64 `yaml:"bob_amplitude"`
	BobSpeed     float64 `yaml:"bob_speed"`
}

// EffectsSpec retunes effect rows by kind name. Omitted fields keep the
// built-in value.
type EffectsSpec struct {
	Effects map[string]EffectTuningSpec `yaml:"effects"`
}

type EffectTuningSpec struct {
	Label      *string    `yaml:"label"`
	DurationMS *int       `yaml:"duration_ms"`
	Magnitude  *float64   `yaml:"magnitude"`
	Color      *YAMLColor `yaml:"color"`
}

func LoadEffectsSpec() (*EffectsSpec, error) {
	spec, err := LoadSpec[EffectsSpec](EffectsFile)
	if err != nil {
		return nil, err
	}
	return &spec, nil
}

// YAMLColor accepts "#rrggbb", "#rrggbbaa" or an SVG color name such as
// "crimson". Name keeps the source text.
type YAMLColor struct {
	color.Color
	Name string
}

func (c *YAMLColor) UnmarshalYAML(value *yaml.Node) error {
	if value.Kind != yaml.ScalarNode {
		return fmt.Errorf("color must be a string")
	}
	parsed, err := ParseColor(value.Value)
	if err != nil {
		return err
	}
	c.Color = parsed
	c.Name = value.Value
	return nil
}

// ParseColor resolves a hex color or an SVG color name.
func ParseColor(v string) (color.Color, error) {
	v = strings.TrimSpace(v)
	if named, ok := colornames.Map[strings.ToLower(v)]; ok {
		return named, nil
	}

	s := strings.TrimPrefix(v, "#")
	if len(s) != 6 && len(s) != 8 {
		return nil, fmt.Errorf("invalid color format: %s", v)
	}

	parse := func(start int) (uint8, error) {
		n, err := strconv.ParseUint(s[start:start+2], 16, 8)
		return uint8(n), err
	}

	r, err := parse(0)
	if err != nil {
		return nil, err
	}
	g, err := parse(2)
	if err != nil {
		return nil, err
	}
	b, err := parse(4)
	if err != nil {
		return nil, err
	}

	a := uint8(255)
	if len(s) == 8 {
		a, err = parse(6)
		if err != nil {
			return nil, err
		}
	}

	return color.NRGBA{R: r, G: g, B: b, A: a}, nil
}
