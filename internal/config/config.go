package config

import (
	"errors"
	"fmt"
	"math"
	"os"
	"time"

	"github.com/lucasb-eyer/go-colorful"
	"github.com/san-kum/solarsim/internal/dynamo"
	"github.com/san-kum/solarsim/internal/integrators"
	"github.com/san-kum/solarsim/internal/physics"
	"gonum.org/v1/gonum/spatial/r2"
	"gopkg.in/yaml.v3"
)

const (
	DefaultDt            = physics.Day
	DefaultSteps         = 365
	DefaultFPS           = 60
	DefaultStepsPerFrame = 1
	DefaultTickHz        = 60
	MaxTickHz            = 1000
	DefaultScreenWidth   = 1600
	DefaultScreenHeight  = 1000
)

// J2000 is the default simulation epoch.
var J2000 = time.Date(2000, time.January, 1, 12, 0, 0, 0, time.UTC)

type Config struct {
	Name        string        `yaml:"name"`
	Dt          float64       `yaml:"dt"`
	Steps       int           `yaml:"steps"`
	SampleEvery int           `yaml:"sample_every"`
	ForceLaw    string        `yaml:"force_law"`
	Scheme      string        `yaml:"scheme"`
	Theta       float64       `yaml:"theta"`
	TrailCap    int           `yaml:"trail_cap"`
	Epoch       time.Time     `yaml:"epoch"`
	Bodies      []BodyConfig  `yaml:"bodies"`
	Display     DisplayConfig `yaml:"display"`
}

// BodyConfig describes one body. DistanceAU and Speed follow the classic
// layout of a planet on the +x axis moving along +y and are added to
// Position and Velocity.
type BodyConfig struct {
	Name       string     `yaml:"name"`
	Mass       float64    `yaml:"mass"`
	Radius     float64    `yaml:"radius"`
	Color      string     `yaml:"color"`
	Attractor  bool       `yaml:"attractor,omitempty"`
	Position   [2]float64 `yaml:"position,flow"`
	Velocity   [2]float64 `yaml:"velocity,flow"`
	DistanceAU float64    `yaml:"distance_au,omitempty"`
	Speed      float64    `yaml:"speed,omitempty"`
}

// DisplayConfig is read by the viewer and the HTTP feed only. The engine
// never sees it.
type DisplayConfig struct {
	FPS           int     `yaml:"fps"`
	StepsPerFrame int     `yaml:"steps_per_frame"`
	TickHz        float64 `yaml:"tick_hz"`
	PixelsPerAU   float64 `yaml:"pixels_per_au"`
	Width         int     `yaml:"width"`
	Height        int     `yaml:"height"`
}

func (b BodyConfig) Spec() dynamo.BodySpec {
	return dynamo.BodySpec{
		Name:      b.Name,
		Mass:      b.Mass,
		Radius:    b.Radius,
		Color:     b.Color,
		Attractor: b.Attractor,
		Position:  r2.Vec{X: b.Position[0] + b.DistanceAU*physics.AU, Y: b.Position[1]},
		Velocity:  r2.Vec{X: b.Velocity[0], Y: b.Velocity[1] + b.Speed},
	}
}

func DefaultDisplay() DisplayConfig {
	return DisplayConfig{
		FPS:           DefaultFPS,
		StepsPerFrame: DefaultStepsPerFrame,
		TickHz:        DefaultTickHz,
		Width:         DefaultScreenWidth,
		Height:        DefaultScreenHeight,
	}
}

// DefaultConfig is the nine-body solar system.
func DefaultConfig() *Config {
	return Solar()
}

func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	cfg := DefaultConfig()
	// a file that lists bodies replaces the default system
	cfg.Bodies = nil
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
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

func finite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}

// Validate reports every problem found, joined into one error.
func (c *Config) Validate() error {
	var errs []error

	if !(c.Dt > 0) || !finite(c.Dt) {
		errs = append(errs, fmt.Errorf("dt must be positive and finite, got %g", c.Dt))
	}
	if c.Steps <= 0 {
		errs = append(errs, fmt.Errorf("steps must be positive, got %d", c.Steps))
	}
	if c.SampleEvery < 0 {
		errs = append(errs, fmt.Errorf("sample_every must not be negative, got %d", c.SampleEvery))
	}
	if c.TrailCap < 0 {
		errs = append(errs, fmt.Errorf("trail_cap must not be negative, got %d", c.TrailCap))
	}
	switch c.ForceLaw {
	case physics.LawAttractorOnly, physics.LawFullPairwise, physics.LawBarnesHut:
	default:
		errs = append(errs, fmt.Errorf("unknown force law: %q", c.ForceLaw))
	}
	switch c.Scheme {
	case integrators.SchemeSemiImplicitEuler, integrators.SchemeEuler:
	default:
		errs = append(errs, fmt.Errorf("unknown scheme: %q", c.Scheme))
	}
	if c.Theta < 0 {
		errs = append(errs, fmt.Errorf("theta must not be negative, got %g", c.Theta))
	}

	if len(c.Bodies) == 0 {
		errs = append(errs, errors.New("no bodies configured"))
	}
	seen := make(map[string]bool, len(c.Bodies))
	for i, b := range c.Bodies {
		if b.Name == "" {
			errs = append(errs, fmt.Errorf("body %d: missing name", i))
		} else if seen[b.Name] {
			errs = append(errs, fmt.Errorf("body %d: duplicate name %q", i, b.Name))
		}
		seen[b.Name] = true

		if !(b.Mass > 0) || !finite(b.Mass) {
			errs = append(errs, fmt.Errorf("body %q: %w", b.Name, dynamo.ErrInvalidMass))
		}
		if b.Color != "" {
			if _, err := colorful.Hex(b.Color); err != nil {
				errs = append(errs, fmt.Errorf("body %q: bad color %q", b.Name, b.Color))
			}
		}
	}

	if c.Display.FPS <= 0 {
		errs = append(errs, fmt.Errorf("display.fps must be positive, got %d", c.Display.FPS))
	}
	if c.Display.StepsPerFrame <= 0 {
		errs = append(errs, fmt.Errorf("display.steps_per_frame must be positive, got %d", c.Display.StepsPerFrame))
	}
	if !(c.Display.TickHz > 0) || c.Display.TickHz > MaxTickHz {
		errs = append(errs, fmt.Errorf("display.tick_hz must be in (0, %d], got %g", MaxTickHz, c.Display.TickHz))
	}
	if c.Display.PixelsPerAU < 0 {
		errs = append(errs, fmt.Errorf("display.pixels_per_au must not be negative, got %g", c.Display.PixelsPerAU))
	}

	return errors.Join(errs...)
}
