package config

import (
	"math"
	"path/filepath"
	"strings"
	"testing"

	"github.com/san-kum/solarsim/internal/physics"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	if cfg.Name != "solar" {
		t.Errorf("expected solar system, got %s", cfg.Name)
	}
	if cfg.Dt != 86400 {
		t.Errorf("expected dt of one day, got %v", cfg.Dt)
	}
	if cfg.TrailCap != 1700 {
		t.Errorf("expected trail cap 1700, got %d", cfg.TrailCap)
	}
	if len(cfg.Bodies) != 9 {
		t.Fatalf("expected 9 bodies, got %d", len(cfg.Bodies))
	}
	if !cfg.Bodies[0].Attractor || cfg.Bodies[0].Name != "Sun" {
		t.Error("first body should be the attracting Sun")
	}
	if cfg.ForceLaw != physics.LawAttractorOnly {
		t.Errorf("expected attractor-only law, got %s", cfg.ForceLaw)
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("default config invalid: %v", err)
	}
}

func TestBodyConfig_Spec(t *testing.T) {
	earth := DefaultConfig().Bodies[3]
	spec := earth.Spec()

	if spec.Position.X != 1.2*physics.AU || spec.Position.Y != 0 {
		t.Errorf("position = %v", spec.Position)
	}
	if spec.Velocity.X != 0 || spec.Velocity.Y != 29783 {
		t.Errorf("velocity = %v", spec.Velocity)
	}
	if spec.Color != "#6495ed" || spec.Radius != 7 {
		t.Errorf("metadata lost: %+v", spec)
	}
}

func TestPresets(t *testing.T) {
	for _, name := range ListPresets() {
		t.Run(name, func(t *testing.T) {
			cfg := GetPreset(name)
			if cfg == nil {
				t.Fatal("expected preset, got nil")
			}
			if err := cfg.Validate(); err != nil {
				t.Errorf("preset invalid: %v", err)
			}
		})
	}
}

func TestGetPreset_Fresh(t *testing.T) {
	a := GetPreset("inner")
	a.Bodies[1].Mass = -1
	b := GetPreset("inner")
	if b.Bodies[1].Mass <= 0 {
		t.Error("presets share body slices")
	}
}

func TestGetPreset_NotFound(t *testing.T) {
	if GetPreset("nonexistent") != nil {
		t.Error("expected nil for nonexistent preset")
	}
}

func TestEarthSun_Circular(t *testing.T) {
	earth := EarthSun().Bodies[1].Spec()
	want := math.Sqrt(physics.G * sunMass / physics.AU)
	if math.Abs(earth.Velocity.Y-want) > 1e-9 {
		t.Errorf("speed = %v, want %v", earth.Velocity.Y, want)
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		modify func(*Config)
		want   string
	}{
		{"zero dt", func(c *Config) { c.Dt = 0 }, "dt must be positive"},
		{"nan dt", func(c *Config) { c.Dt = math.NaN() }, "dt must be positive"},
		{"no steps", func(c *Config) { c.Steps = 0 }, "steps must be positive"},
		{"negative trail", func(c *Config) { c.TrailCap = -1 }, "trail_cap"},
		{"unknown law", func(c *Config) { c.ForceLaw = "mond" }, "unknown force law"},
		{"unknown scheme", func(c *Config) { c.Scheme = "rk4" }, "unknown scheme"},
		{"no bodies", func(c *Config) { c.Bodies = nil }, "no bodies"},
		{"bad mass", func(c *Config) { c.Bodies[2].Mass = 0 }, "mass must be positive"},
		{"duplicate", func(c *Config) { c.Bodies[2].Name = "Mercury" }, "duplicate name"},
		{"bad color", func(c *Config) { c.Bodies[1].Color = "grey" }, "bad color"},
		{"zero fps", func(c *Config) { c.Display.FPS = 0 }, "display.fps"},
		{"zero steps per frame", func(c *Config) { c.Display.StepsPerFrame = 0 }, "steps_per_frame"},
		{"tick rate too high", func(c *Config) { c.Display.TickHz = 2e9 }, "tick_hz"},
		{"nan tick rate", func(c *Config) { c.Display.TickHz = math.NaN() }, "tick_hz"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.modify(cfg)
			err := cfg.Validate()
			if err == nil {
				t.Fatal("expected error, got nil")
			}
			if !strings.Contains(err.Error(), tt.want) {
				t.Errorf("error %q does not mention %q", err, tt.want)
			}
		})
	}
}

func TestSaveLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "system.yaml")
	cfg := Binary()
	cfg.Display.FPS = 30

	if err := Save(path, cfg); err != nil {
		t.Fatalf("save failed: %v", err)
	}
	loaded, err := Load(path)
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}

	if loaded.Name != "binary" || loaded.ForceLaw != physics.LawFullPairwise {
		t.Errorf("loaded %s/%s", loaded.Name, loaded.ForceLaw)
	}
	if len(loaded.Bodies) != 3 {
		t.Fatalf("expected 3 bodies, got %d", len(loaded.Bodies))
	}
	if loaded.Bodies[1].Velocity != cfg.Bodies[1].Velocity {
		t.Errorf("velocity %v, want %v", loaded.Bodies[1].Velocity, cfg.Bodies[1].Velocity)
	}
	if loaded.Display.FPS != 30 || !loaded.Epoch.Equal(J2000) {
		t.Errorf("display/epoch not restored: %+v %v", loaded.Display, loaded.Epoch)
	}
}

func TestLoad_PartialFileKeepsDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "tiny.yaml")
	doc := `
name: tiny
bodies:
  - name: Star
    mass: 2.0e30
    attractor: true
  - name: Rock
    mass: 1.0e20
    distance_au: 1
    speed: 30000
`
	if err := writeFile(path, doc); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Dt != DefaultDt || cfg.TrailCap != 1700 || cfg.Display.FPS != DefaultFPS {
		t.Errorf("defaults lost: dt=%v trail=%d fps=%d", cfg.Dt, cfg.TrailCap, cfg.Display.FPS)
	}
	if len(cfg.Bodies) != 2 {
		t.Fatalf("expected file bodies only, got %d", len(cfg.Bodies))
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("tiny config invalid: %v", err)
	}
}
