package physics

import (
	"math"

	"github.com/san-kum/solarsim/internal/dynamo"
	"gonum.org/v1/gonum/spatial/r2"
)

const (
	// G is the gravitational constant in m³ kg⁻¹ s⁻².
	G = 6.67428e-11
	// AU is one astronomical unit in meters.
	AU = 149.6e6 * 1000
	// Day is one day in seconds.
	Day = 3600 * 24
)

// Law names.
const (
	LawAttractorOnly = "attractor-only"
	LawFullPairwise  = "full-pairwise"
	LawBarnesHut     = "barnes-hut"
)

// ForceLaw computes net forces from a frozen pre-step snapshot. out has the
// same length as bodies and is overwritten.
type ForceLaw interface {
	Name() string
	Accumulate(bodies []dynamo.State, out []r2.Vec)
	Potential(bodies []dynamo.State) float64
}

// PairForce returns the force on a body at from with mass m1 exerted by a
// body at to with mass m2. Coincident positions yield a zero force.
func PairForce(g, m1, m2 float64, from, to r2.Vec) r2.Vec {
	d := r2.Sub(to, from)
	dist := r2.Norm(d)
	if dist == 0 {
		return r2.Vec{}
	}
	f := g * m1 * m2 / (dist * dist)
	return r2.Scale(f/dist, d)
}

func pairPotential(g, m1, m2 float64, a, b r2.Vec) float64 {
	dist := r2.Norm(r2.Sub(b, a))
	if dist == 0 {
		return 0
	}
	return -g * m1 * m2 / dist
}

// AttractorOnly pulls every body toward each attractor other than itself.
// Non-attractors never pull, so this is a fixed-centre approximation rather
// than true N-body gravity.
type AttractorOnly struct {
	G float64
}

func NewAttractorOnly(g float64) *AttractorOnly {
	return &AttractorOnly{G: g}
}

func (l *AttractorOnly) Name() string { return LawAttractorOnly }

func (l *AttractorOnly) Accumulate(bodies []dynamo.State, out []r2.Vec) {
	for i := range bodies {
		var net r2.Vec
		for j := range bodies {
			if i == j || !bodies[j].Attractor {
				continue
			}
			f := PairForce(l.G, bodies[i].Mass, bodies[j].Mass, bodies[i].Position, bodies[j].Position)
			net = r2.Add(net, f)
		}
		out[i] = net
	}
}

// Potential sums each body's potential in the field of the attractors.
func (l *AttractorOnly) Potential(bodies []dynamo.State) float64 {
	pe := 0.0
	for i := range bodies {
		for j := range bodies {
			if i == j || !bodies[j].Attractor {
				continue
			}
			// attractor pairs are counted once
			if bodies[i].Attractor && j > i {
				continue
			}
			pe += pairPotential(l.G, bodies[i].Mass, bodies[j].Mass, bodies[i].Position, bodies[j].Position)
		}
	}
	return pe
}

// FullPairwise is exact mutual gravitation between every pair of bodies.
type FullPairwise struct {
	G float64
}

func NewFullPairwise(g float64) *FullPairwise {
	return &FullPairwise{G: g}
}

func (l *FullPairwise) Name() string { return LawFullPairwise }

func (l *FullPairwise) Accumulate(bodies []dynamo.State, out []r2.Vec) {
	for i := range bodies {
		var net r2.Vec
		for j := range bodies {
			if i == j {
				continue
			}
			f := PairForce(l.G, bodies[i].Mass, bodies[j].Mass, bodies[i].Position, bodies[j].Position)
			net = r2.Add(net, f)
		}
		out[i] = net
	}
}

func (l *FullPairwise) Potential(bodies []dynamo.State) float64 {
	pe := 0.0
	for i := range bodies {
		for j := i + 1; j < len(bodies); j++ {
			pe += pairPotential(l.G, bodies[i].Mass, bodies[j].Mass, bodies[i].Position, bodies[j].Position)
		}
	}
	return pe
}

// Kinetic returns the total kinetic energy.
func Kinetic(bodies []dynamo.State) float64 {
	ke := 0.0
	for _, b := range bodies {
		ke += 0.5 * b.Mass * r2.Norm2(b.Velocity)
	}
	return ke
}

// Energy returns kinetic plus the law's potential energy.
func Energy(law ForceLaw, bodies []dynamo.State) float64 {
	return Kinetic(bodies) + law.Potential(bodies)
}

func Momentum(bodies []dynamo.State) r2.Vec {
	var p r2.Vec
	for _, b := range bodies {
		p = r2.Add(p, r2.Scale(b.Mass, b.Velocity))
	}
	return p
}

// AngularMomentum about the origin (z component).
func AngularMomentum(bodies []dynamo.State) float64 {
	L := 0.0
	for _, b := range bodies {
		L += b.Mass * r2.Cross(b.Position, b.Velocity)
	}
	return L
}

// CircularSpeed is the speed of a circular orbit of radius r around mass m.
func CircularSpeed(g, m, r float64) float64 {
	return math.Sqrt(g * m / r)
}

// OrbitalPeriod is the period of a circular orbit of radius r around mass m.
func OrbitalPeriod(g, m, r float64) float64 {
	return 2 * math.Pi * math.Sqrt(r*r*r/(g*m))
}
