package physics

import (
	"math"
	"testing"

	"github.com/san-kum/solarsim/internal/dynamo"
	"gonum.org/v1/gonum/spatial/r2"
)

const (
	sunMass   = 1.98892e30
	earthMass = 5.9742e24
)

func approx(a, b, rel float64) bool {
	if a == b {
		return true
	}
	return math.Abs(a-b) <= rel*math.Max(math.Abs(a), math.Abs(b))
}

func TestPairForce(t *testing.T) {
	r := 1.2 * AU
	f := PairForce(G, earthMass, sunMass, r2.Vec{X: r}, r2.Vec{})

	want := G * earthMass * sunMass / (r * r)
	if !approx(-f.X, want, 1e-12) {
		t.Errorf("PairForce().X = %e, want %e", f.X, -want)
	}
	if f.Y != 0 {
		t.Errorf("PairForce().Y = %e, want 0", f.Y)
	}
}

func TestPairForce_Coincident(t *testing.T) {
	p := r2.Vec{X: 3, Y: 4}
	f := PairForce(G, 1, 1, p, p)
	if f.X != 0 || f.Y != 0 {
		t.Errorf("coincident force = %v, want zero", f)
	}
	if math.IsNaN(f.X) || math.IsNaN(f.Y) {
		t.Error("coincident force is NaN")
	}
}

func TestAttractorOnly_Asymmetric(t *testing.T) {
	bodies := []dynamo.State{
		{Name: "Sun", Mass: sunMass, Attractor: true},
		{Name: "Earth", Mass: earthMass, Position: r2.Vec{X: AU}},
		{Name: "Mars", Mass: 6.39e23, Position: r2.Vec{Y: 1.6 * AU}},
	}
	out := make([]r2.Vec, len(bodies))
	NewAttractorOnly(G).Accumulate(bodies, out)

	if out[0] != (r2.Vec{}) {
		t.Errorf("sole attractor felt a force: %v", out[0])
	}
	wantEarth := PairForce(G, earthMass, sunMass, bodies[1].Position, r2.Vec{})
	if out[1] != wantEarth {
		t.Errorf("earth force = %v, want %v (no pull from Mars)", out[1], wantEarth)
	}
	if out[2].X != 0 || out[2].Y >= 0 {
		t.Errorf("mars force = %v, want pure -y", out[2])
	}
}

func TestAttractorOnly_TwoAttractors(t *testing.T) {
	bodies := []dynamo.State{
		{Mass: 1e30, Attractor: true, Position: r2.Vec{X: -1e10}},
		{Mass: 1e30, Attractor: true, Position: r2.Vec{X: 1e10}},
	}
	out := make([]r2.Vec, 2)
	NewAttractorOnly(G).Accumulate(bodies, out)

	if out[0].X <= 0 || out[1].X >= 0 {
		t.Errorf("attractors should pull each other: %v", out)
	}
}

func TestFullPairwise_ThirdLaw(t *testing.T) {
	bodies := []dynamo.State{
		{Mass: 2e30, Position: r2.Vec{X: 0, Y: 0}},
		{Mass: 3e24, Position: r2.Vec{X: 1e11, Y: 2e10}},
		{Mass: 7e22, Position: r2.Vec{X: -5e10, Y: 8e10}},
	}
	out := make([]r2.Vec, len(bodies))
	NewFullPairwise(G).Accumulate(bodies, out)

	sum := r2.Add(r2.Add(out[0], out[1]), out[2])
	scale := r2.Norm(out[0])
	if r2.Norm(sum) > 1e-9*scale {
		t.Errorf("net internal force = %v, want ~0", sum)
	}
}

func TestBarnesHut_MatchesPairwise(t *testing.T) {
	bodies := []dynamo.State{
		{Mass: sunMass, Attractor: true},
		{Mass: 3.30e23, Position: r2.Vec{X: 0.4 * AU}},
		{Mass: 4.8685e24, Position: r2.Vec{Y: 0.8 * AU}},
		{Mass: earthMass, Position: r2.Vec{X: -1.2 * AU}},
		{Mass: 1.898e27, Position: r2.Vec{X: 1.7 * AU, Y: -1.7 * AU}},
	}
	exact := make([]r2.Vec, len(bodies))
	NewFullPairwise(G).Accumulate(bodies, exact)

	approxF := make([]r2.Vec, len(bodies))
	NewBarnesHut(G, 0).Accumulate(bodies, approxF)

	for i := range bodies {
		diff := r2.Norm(r2.Sub(exact[i], approxF[i]))
		if diff > 1e-9*r2.Norm(exact[i]) {
			t.Errorf("body %d: barnes-hut %v, pairwise %v", i, approxF[i], exact[i])
		}
	}
}

func TestEnergy_CircularOrbit(t *testing.T) {
	r := AU
	v := CircularSpeed(G, sunMass, r)
	bodies := []dynamo.State{
		{Mass: sunMass, Attractor: true},
		{Mass: earthMass, Position: r2.Vec{X: r}, Velocity: r2.Vec{Y: v}},
	}

	// circular orbit: E = -G M m / 2r
	want := -G * sunMass * earthMass / (2 * r)
	for _, law := range []ForceLaw{NewAttractorOnly(G), NewFullPairwise(G)} {
		if got := Energy(law, bodies); !approx(got, want, 1e-9) {
			t.Errorf("%s: Energy() = %e, want %e", law.Name(), got, want)
		}
	}
}

func TestMomentum(t *testing.T) {
	bodies := []dynamo.State{
		{Mass: 2, Position: r2.Vec{X: 1}, Velocity: r2.Vec{Y: 3}},
		{Mass: 1, Position: r2.Vec{Y: 2}, Velocity: r2.Vec{X: 4}},
	}
	p := Momentum(bodies)
	if p.X != 4 || p.Y != 6 {
		t.Errorf("Momentum() = %v, want {4 6}", p)
	}
	// 2*(1*3 - 0) + 1*(0 - 2*4)
	if L := AngularMomentum(bodies); L != -2 {
		t.Errorf("AngularMomentum() = %v, want -2", L)
	}
}

func TestOrbitalPeriod(t *testing.T) {
	days := OrbitalPeriod(G, sunMass, AU) / Day
	if math.Abs(days-365.25) > 1.0 {
		t.Errorf("earth period = %.2f days, want ~365", days)
	}
}
