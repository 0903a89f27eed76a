package config

import (
	"math"
	"sort"

	"github.com/san-kum/solarsim/internal/dynamo"
	"github.com/san-kum/solarsim/internal/integrators"
	"github.com/san-kum/solarsim/internal/physics"
)

const sunMass = 1.98892e30

var sun = BodyConfig{Name: "Sun", Mass: sunMass, Radius: 20, Color: "#ffff00", Attractor: true}

var planets = []BodyConfig{
	{Name: "Mercury", Mass: 3.30e23, Radius: 4, Color: "#504e51", DistanceAU: 0.4, Speed: 47400},
	{Name: "Venus", Mass: 4.8685e24, Radius: 6, Color: "#ffffff", DistanceAU: 0.8, Speed: 35020},
	{Name: "Earth", Mass: 5.9742e24, Radius: 7, Color: "#6495ed", DistanceAU: 1.2, Speed: 29783},
	{Name: "Mars", Mass: 6.39e23, Radius: 6, Color: "#bc2732", DistanceAU: 1.6, Speed: 24077},
	{Name: "Jupiter", Mass: 1.898e27, Radius: 12, Color: "#ffa500", DistanceAU: 2.4, Speed: 13070},
	{Name: "Saturn", Mass: 5.683e26, Radius: 10, Color: "#d2b48c", DistanceAU: 3.2, Speed: 9690},
	{Name: "Uranus", Mass: 8.681e25, Radius: 8, Color: "#add8e6", DistanceAU: 4.0, Speed: 6810},
	{Name: "Neptune", Mass: 1.024e26, Radius: 7, Color: "#9370db", DistanceAU: 4.8, Speed: 5430},
}

func base(name string, bodies []BodyConfig) *Config {
	bs := make([]BodyConfig, len(bodies))
	copy(bs, bodies)
	return &Config{
		Name:        name,
		Dt:          DefaultDt,
		Steps:       DefaultSteps,
		SampleEvery: 1,
		ForceLaw:    physics.LawAttractorOnly,
		Scheme:      integrators.SchemeSemiImplicitEuler,
		Theta:       physics.DefaultTheta,
		TrailCap:    dynamo.DefaultTrailCap,
		Epoch:       J2000,
		Bodies:      bs,
		Display:     DefaultDisplay(),
	}
}

// Solar is the Sun and eight planets, each starting on the +x axis.
func Solar() *Config {
	cfg := base("solar", append([]BodyConfig{sun}, planets...))
	cfg.Display.PixelsPerAU = 150
	return cfg
}

// Inner keeps the Sun and the four rocky planets.
func Inner() *Config {
	return base("inner", append([]BodyConfig{sun}, planets[:4]...))
}

// EarthSun is a two-body system with Earth on an exactly circular 1 AU orbit.
func EarthSun() *Config {
	earth := planets[2]
	earth.DistanceAU = 1
	earth.Speed = physics.CircularSpeed(physics.G, sunMass, physics.AU)
	return base("earth-sun", []BodyConfig{sun, earth})
}

// Binary is two equal stars on a circular mutual orbit with a distant
// planet around both. It needs mutual gravitation.
func Binary() *Config {
	const (
		starMass = sunMass
		sep      = 0.5 * physics.AU
	)
	v := math.Sqrt(physics.G * starMass / (2 * sep))
	vp := physics.CircularSpeed(physics.G, 2*starMass, 3*physics.AU)

	cfg := base("binary", []BodyConfig{
		{Name: "Alpha", Mass: starMass, Radius: 14, Color: "#ffd27f", Attractor: true, Position: [2]float64{-sep / 2, 0}, Velocity: [2]float64{0, -v}},
		{Name: "Beta", Mass: starMass, Radius: 14, Color: "#ff8c69", Attractor: true, Position: [2]float64{sep / 2, 0}, Velocity: [2]float64{0, v}},
		{Name: "Tatooine", Mass: 5.9742e24, Radius: 6, Color: "#c2b280", DistanceAU: 3, Speed: vp},
	})
	cfg.ForceLaw = physics.LawFullPairwise
	cfg.Dt = physics.Day / 4
	cfg.Steps = 4 * 365
	cfg.Display.StepsPerFrame = 4
	return cfg
}

var Presets = map[string]func() *Config{
	"solar":     Solar,
	"inner":     Inner,
	"earth-sun": EarthSun,
	"binary":    Binary,
}

func GetPreset(name string) *Config {
	fn, ok := Presets[name]
	if !ok {
		return nil
	}
	return fn()
}

func ListPresets() []string {
	names := make([]string, 0, len(Presets))
	for name := range Presets {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
