package dynamo

import (
	"math"

	"gonum.org/v1/gonum/spatial/r2"
)

// Body is one simulated point mass. Position and velocity are in SI units
// (m, m/s), mass in kg. Radius, Color and Name are carried for display only.
type Body struct {
	Name      string
	Position  r2.Vec
	Velocity  r2.Vec
	Mass      float64
	Radius    float64
	Color     string
	Attractor bool
	Trail     *Trail
}

// BodySpec is the initial state passed to Registry.Create.
type BodySpec struct {
	Name      string
	Position  r2.Vec
	Velocity  r2.Vec
	Mass      float64
	Radius    float64
	Color     string
	Attractor bool
}

// State is a value copy of the physical part of a body.
type State struct {
	Name      string
	Mass      float64
	Position  r2.Vec
	Velocity  r2.Vec
	Attractor bool
}

// Snapshot is a read-only view of a body for presentation code.
type Snapshot struct {
	Name      string   `json:"name"`
	Mass      float64  `json:"mass"`
	Radius    float64  `json:"radius"`
	Color     string   `json:"color"`
	Attractor bool     `json:"attractor"`
	Position  r2.Vec   `json:"position"`
	Velocity  r2.Vec   `json:"velocity"`
	Trail     []r2.Vec `json:"trail,omitempty"`
}

func (b *Body) State() State {
	return State{
		Name:      b.Name,
		Mass:      b.Mass,
		Position:  b.Position,
		Velocity:  b.Velocity,
		Attractor: b.Attractor,
	}
}

func (b *Body) Snapshot() Snapshot {
	s := Snapshot{
		Name:      b.Name,
		Mass:      b.Mass,
		Radius:    b.Radius,
		Color:     b.Color,
		Attractor: b.Attractor,
		Position:  b.Position,
		Velocity:  b.Velocity,
	}
	if b.Trail != nil {
		s.Trail = b.Trail.Points()
	}
	return s
}

// IsValid reports whether position and velocity are finite.
func (s State) IsValid() bool {
	for _, v := range []float64{s.Position.X, s.Position.Y, s.Velocity.X, s.Velocity.Y} {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return false
		}
	}
	return true
}

func validMass(m float64) bool {
	return m > 0 && !math.IsInf(m, 0)
}
