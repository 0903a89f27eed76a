package integrators

import (
	"github.com/san-kum/solarsim/internal/dynamo"
	"gonum.org/v1/gonum/spatial/r2"
)

// Scheme names.
const (
	SchemeSemiImplicitEuler = "semi-implicit-euler"
	SchemeEuler             = "euler"
)

// Stepper advances one body by dt under a net force that was computed from
// the pre-step state of the whole system.
type Stepper interface {
	Name() string
	Advance(b *dynamo.Body, force r2.Vec, dt float64)
}

// SemiImplicitEuler updates velocity from the force first and then moves
// the body with the updated velocity. This ordering is symplectic and keeps
// orbital energy bounded over long runs.
type SemiImplicitEuler struct{}

func NewSemiImplicitEuler() *SemiImplicitEuler {
	return &SemiImplicitEuler{}
}

func (s *SemiImplicitEuler) Name() string { return SchemeSemiImplicitEuler }

func (s *SemiImplicitEuler) Advance(b *dynamo.Body, force r2.Vec, dt float64) {
	b.Velocity.X += force.X / b.Mass * dt
	b.Velocity.Y += force.Y / b.Mass * dt

	b.Position.X += b.Velocity.X * dt
	b.Position.Y += b.Velocity.Y * dt
}

// Euler is the explicit scheme: the position moves with the old velocity.
// It gains energy every orbit and is kept for comparison runs.
type Euler struct{}

func NewEuler() *Euler {
	return &Euler{}
}

func (e *Euler) Name() string { return SchemeEuler }

func (e *Euler) Advance(b *dynamo.Body, force r2.Vec, dt float64) {
	b.Position.X += b.Velocity.X * dt
	b.Position.Y += b.Velocity.Y * dt

	b.Velocity.X += force.X / b.Mass * dt
	b.Velocity.Y += force.Y / b.Mass * dt
}
