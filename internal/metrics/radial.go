package metrics

import (
	"math"

	"github.com/san-kum/solarsim/internal/sim"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/spatial/r2"
)

// RadialDeviation measures how far one body strays from its initial
// distance to the origin, as a fraction of that distance.
type RadialDeviation struct {
	body  string
	radii []float64
}

func NewRadialDeviation(body string) *RadialDeviation {
	return &RadialDeviation{body: body}
}

func (r *RadialDeviation) Name() string { return "radial_deviation_" + r.body }

func (r *RadialDeviation) Observe(f sim.Frame) {
	for _, b := range f.Bodies {
		if b.Name == r.body {
			r.radii = append(r.radii, r2.Norm(b.Position))
			return
		}
	}
}

// Value is max |r - r0| / r0 over the observed frames.
func (r *RadialDeviation) Value() float64 {
	if len(r.radii) == 0 || r.radii[0] == 0 {
		return 0
	}
	r0 := r.radii[0]
	lo, hi := floats.Min(r.radii), floats.Max(r.radii)
	return math.Max(math.Abs(hi-r0), math.Abs(lo-r0)) / r0
}

func (r *RadialDeviation) Reset() {
	r.radii = r.radii[:0]
}
