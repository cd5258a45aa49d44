package scene

import (
	"fmt"

	"gopkg.in/yaml.v3"
)

// Spec describes a complete simulation scene: world bounds, gravity, layer
// matrix, solver tuning overrides, and the initial body set.
type Spec struct {
	Name   string      `yaml:"name"`
	World  WorldSpec   `yaml:"world"`
	Layers []LayerSpec `yaml:"layers,omitempty"`
	Tuning *TuningSpec `yaml:"tuning,omitempty"`
	Bodies []BodySpec  `yaml:"bodies"`
}

type WorldSpec struct {
	Width   float64  `yaml:"width"`
	Height  float64  `yaml:"height"`
	Gravity *VecSpec `yaml:"gravity,omitempty"`
}

type VecSpec struct {
	X float64 `yaml:"x"`
	Y float64 `yaml:"y"`
}

// LayerSpec declares one collision layer. CollidesWith nil means the layer
// keeps the default collide-with-everything behavior; an explicit empty list
// makes it collide with nothing.
type LayerSpec struct {
	Name         string    `yaml:"name"`
	Ground       bool      `yaml:"ground,omitempty"`
	CollidesWith *[]string `yaml:"collides_with,omitempty"`
}

// TuningSpec overrides solver constants. Nil fields keep the defaults.
type TuningSpec struct {
	MaxStepMs         *float64 `yaml:"max_step_ms,omitempty"`
	Iterations        *int     `yaml:"iterations,omitempty"`
	Slop              *float64 `yaml:"slop,omitempty"`
	CorrectionPercent *float64 `yaml:"correction_percent,omitempty"`
	FrictionScale     *float64 `yaml:"friction_scale,omitempty"`
	AirDrag           *float64 `yaml:"air_drag,omitempty"`
	RestVelocity      *float64 `yaml:"rest_velocity,omitempty"`
	GroundNormalY     *float64 `yaml:"ground_normal_y,omitempty"`
}

// BodySpec declares one body. Mass omitted or <= 0 means static. Script
// names a collision script in scripts/ run on every contact.
type BodySpec struct {
	Name        string   `yaml:"name"`
	Layer       string   `yaml:"layer,omitempty"`
	X           float64  `yaml:"x"`
	Y           float64  `yaml:"y"`
	Width       float64  `yaml:"width"`
	Height      float64  `yaml:"height"`
	Mass        float64  `yaml:"mass,omitempty"`
	Friction    *float64 `yaml:"friction,omitempty"`
	Restitution *float64 `yaml:"restitution,omitempty"`
	Gravity     *bool    `yaml:"gravity,omitempty"`
	Collidable  *bool    `yaml:"collidable,omitempty"`
	VelX        float64  `yaml:"vel_x,omitempty"`
	VelY        float64  `yaml:"vel_y,omitempty"`
	Script      string   `yaml:"script,omitempty"`
}

// LoadSpec reads and unmarshals a scene file, preferring an on-disk copy
// over the embedded default.
func LoadSpec(filename string) (*Spec, error) {
	data, err := Load(filename)
	if err != nil {
		return nil, fmt.Errorf("scene: load %s: %w", filename, err)
	}

	var spec Spec
	if err := yaml.Unmarshal(data, &spec); err != nil {
		return nil, fmt.Errorf("scene: unmarshal %s: %w", filename, err)
	}
	if spec.World.Width <= 0 || spec.World.Height <= 0 {
		return nil, fmt.Errorf("scene: %s: world bounds must be positive", filename)
	}
	return &spec, nil
}
