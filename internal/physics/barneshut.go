package physics

import (
	"math"

	"github.com/san-kum/solarsim/internal/dynamo"
	"gonum.org/v1/gonum/spatial/barneshut"
	"gonum.org/v1/gonum/spatial/r2"
)

// DefaultTheta is the Barnes-Hut opening angle.
const DefaultTheta = 0.5

type particle struct {
	pos  r2.Vec
	mass float64
}

func (p *particle) Coord2() r2.Vec { return p.pos }
func (p *particle) Mass() float64  { return p.mass }

// BarnesHut approximates FullPairwise with a quadtree. Theta 0 degenerates
// to the exact pairwise sum.
type BarnesHut struct {
	G     float64
	Theta float64

	particles []*particle
	plane     barneshut.Plane
}

func NewBarnesHut(g, theta float64) *BarnesHut {
	if theta < 0 {
		theta = DefaultTheta
	}
	return &BarnesHut{G: g, Theta: theta}
}

func (l *BarnesHut) Name() string { return LawBarnesHut }

func (l *BarnesHut) gravity(_, _ barneshut.Particle2, m1, m2 float64, v r2.Vec) r2.Vec {
	d2 := r2.Norm2(v)
	if d2 == 0 {
		return r2.Vec{}
	}
	return r2.Scale(l.G*m1*m2/(d2*math.Sqrt(d2)), v)
}

func (l *BarnesHut) Accumulate(bodies []dynamo.State, out []r2.Vec) {
	if len(l.particles) != len(bodies) {
		l.particles = make([]*particle, len(bodies))
		for i := range l.particles {
			l.particles[i] = &particle{}
		}
	}
	ps := make([]barneshut.Particle2, len(bodies))
	for i, b := range bodies {
		l.particles[i].pos = b.Position
		l.particles[i].mass = b.Mass
		ps[i] = l.particles[i]
	}

	// Without a tree ForceOn does the exact quadratic sum, which is also
	// the only option when two bodies share a position.
	l.plane = barneshut.Plane{Particles: ps}
	if !hasCoincident(bodies) {
		if err := l.plane.Reset(); err != nil {
			l.plane = barneshut.Plane{Particles: ps}
		}
	}

	for i := range bodies {
		out[i] = l.plane.ForceOn(l.particles[i], l.Theta, l.gravity)
	}
}

func (l *BarnesHut) Potential(bodies []dynamo.State) float64 {
	return (&FullPairwise{G: l.G}).Potential(bodies)
}

func hasCoincident(bodies []dynamo.State) bool {
	seen := make(map[r2.Vec]struct{}, len(bodies))
	for _, b := range bodies {
		if _, ok := seen[b.Position]; ok {
			return true
		}
		seen[b.Position] = struct{}{}
	}
	return false
}
