package config

import (
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/san-kum/peeps/internal/dynamics"
	"github.com/san-kum/peeps/internal/peeps"
	"github.com/san-kum/peeps/internal/rate"
)

const (
	DefaultDuration           = 2.0
	DefaultSteps              = 1
	DefaultInitialMovement    = 5.0
	DefaultInitialForceVisual = 5.0
	DefaultCurve              = "ease_in_out"
	DefaultWidth              = 960
	DefaultHeight             = 540
)

// Kinds of scenario.
const (
	KindElectro    = "electro"
	KindGravity    = "gravity"
	KindFieldLines = "fieldlines"
)

type Config struct {
	Kind     string  `yaml:"kind"`
	FPS      int     `yaml:"fps"`
	Start    float64 `yaml:"start"`
	Duration float64 `yaml:"duration"`
	Steps    int     `yaml:"steps"`
	Curve    string  `yaml:"curve"`

	InitialMovement    float64          `yaml:"initial_movement"`
	InitialForceVisual float64          `yaml:"initial_force_visual"`
	AccelScale         float64          `yaml:"accel_scale,omitempty"`
	AllowZ             bool             `yaml:"allow_z"`
	Constraint         *dynamics.Sphere `yaml:"constraint,omitempty"`
	Segment            float64          `yaml:"segment,omitempty"`

	Bodies     []dynamics.Body  `yaml:"bodies"`
	FieldLines FieldLinesConfig `yaml:"field_lines"`
	Output     OutputConfig     `yaml:"output"`
}

type FieldLinesConfig struct {
	Lengths   []float64    `yaml:"lengths,flow"`
	NumFactor int          `yaml:"num_factor"`
	Ds        float64      `yaml:"ds"`
	Box       dynamics.Box `yaml:"box"`
	Margin    float64      `yaml:"margin"`
	MaxTurn   float64      `yaml:"max_turn"`
	// Grow animates the trace, extending lines by this length per frame.
	Grow float64 `yaml:"grow,omitempty"`
}

type OutputConfig struct {
	Dir    string `yaml:"dir"`
	Name   string `yaml:"name"`
	Width  int    `yaml:"width"`
	Height int    `yaml:"height"`
}

func DefaultConfig() *Config {
	fl := dynamics.DefaultFieldLineOptions()
	return &Config{
		Kind:               KindElectro,
		FPS:                peeps.FrameRate,
		Duration:           DefaultDuration,
		Steps:              DefaultSteps,
		Curve:              DefaultCurve,
		InitialMovement:    DefaultInitialMovement,
		InitialForceVisual: DefaultInitialForceVisual,
		FieldLines: FieldLinesConfig{
			Lengths:   fl.Lengths,
			NumFactor: fl.NumFactor,
			Ds:        fl.Step,
			Box:       fl.Box,
			Margin:    fl.Margin,
			MaxTurn:   fl.MaxTurn,
		},
		Output: OutputConfig{
			Dir:    "./out",
			Name:   "temp",
			Width:  DefaultWidth,
			Height: DefaultHeight,
		},
	}
}

func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

func Save(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

// Validate checks the scenario can run.
func (c *Config) Validate() error {
	switch c.Kind {
	case KindElectro, KindGravity, KindFieldLines:
	default:
		return peeps.Errorf("config.Validate", peeps.ErrInvalidParameter, "unknown kind %q", c.Kind)
	}
	if c.FPS <= 0 {
		return peeps.Errorf("config.Validate", peeps.ErrInvalidParameter, "fps must be positive, got %d", c.FPS)
	}
	if c.Duration < 0 {
		return peeps.Errorf("config.Validate", peeps.ErrInvalidParameter, "duration must not be negative, got %g", c.Duration)
	}
	if len(c.Bodies) == 0 {
		return peeps.Errorf("config.Validate", peeps.ErrMissingCollaborator, "no bodies")
	}
	if _, err := c.Easing(); err != nil {
		return err
	}
	return nil
}

// Interaction returns the force law for simulated kinds.
func (c *Config) Interaction() (dynamics.Interaction, error) {
	if c.Kind == KindFieldLines {
		return dynamics.Electric{}, nil
	}
	return dynamics.Lookup(c.Kind)
}

// Simulation returns the simulator settings.
func (c *Config) Simulation() dynamics.Config {
	return dynamics.Config{
		FPS:                c.FPS,
		Steps:              c.Steps,
		Start:              c.Start,
		Duration:           c.Duration,
		InitialMovement:    c.InitialMovement,
		InitialForceVisual: c.InitialForceVisual,
		AccelScale:         c.AccelScale,
		AllowZ:             c.AllowZ,
		Constraint:         c.Constraint,
		Segment:            c.Segment,
	}
}

// FieldLineOptions returns the field line tracing settings.
func (c *Config) FieldLineOptions() dynamics.FieldLineOptions {
	return dynamics.FieldLineOptions{
		Lengths:   c.FieldLines.Lengths,
		NumFactor: c.FieldLines.NumFactor,
		Step:      c.FieldLines.Ds,
		Box:       c.FieldLines.Box,
		Margin:    c.FieldLines.Margin,
		MaxTurn:   c.FieldLines.MaxTurn,
	}
}

// Easing resolves Curve: a named Bezier curve or "spring".
func (c *Config) Easing() (rate.Easing, error) {
	return ParseEasing(c.Curve, c.FPS)
}

// ParseEasing resolves a curve name, with "spring" selecting a damped
// spring at fps.
func ParseEasing(name string, fps int) (rate.Easing, error) {
	if strings.EqualFold(name, "spring") {
		return rate.NewSpring(fps), nil
	}
	return rate.Lookup(name)
}

// Clone returns a copy that shares no slices with c.
func (c *Config) Clone() *Config {
	out := *c
	out.Bodies = append([]dynamics.Body(nil), c.Bodies...)
	out.FieldLines.Lengths = append([]float64(nil), c.FieldLines.Lengths...)
	if c.Constraint != nil {
		s := *c.Constraint
		out.Constraint = &s
	}
	return &out
}
