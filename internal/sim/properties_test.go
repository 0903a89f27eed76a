package sim_test

import (
	"math"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/san-kum/solarsim/internal/dynamo"
	"github.com/san-kum/solarsim/internal/integrators"
	"github.com/san-kum/solarsim/internal/physics"
	"github.com/san-kum/solarsim/internal/sim"
	"gonum.org/v1/gonum/spatial/r2"
)

// Same bodies as the classic nine-planet model, positioned on +x and
// moving along +y.
var solarSpecs = []dynamo.BodySpec{
	{Name: "Sun", Mass: 1.98892e30, Attractor: true},
	{Name: "Mercury", Mass: 3.30e23, Position: r2.Vec{X: 0.4 * physics.AU}, Velocity: r2.Vec{Y: 47.4 * 1000}},
	{Name: "Venus", Mass: 4.8685e24, Position: r2.Vec{X: 0.8 * physics.AU}, Velocity: r2.Vec{Y: 35.02 * 1000}},
	{Name: "Earth", Mass: 5.9742e24, Position: r2.Vec{X: 1.2 * physics.AU}, Velocity: r2.Vec{Y: 29.783 * 1000}},
	{Name: "Mars", Mass: 6.39e23, Position: r2.Vec{X: 1.6 * physics.AU}, Velocity: r2.Vec{Y: 24.077 * 1000}},
	{Name: "Jupiter", Mass: 1.898e27, Position: r2.Vec{X: 2.4 * physics.AU}, Velocity: r2.Vec{Y: 13.07 * 1000}},
}

func build(specs []dynamo.BodySpec, law physics.ForceLaw, scheme integrators.Stepper, trailCap int) *sim.Simulator {
	reg := dynamo.NewRegistry(trailCap)
	for _, spec := range specs {
		_, err := reg.Create(spec)
		Expect(err).NotTo(HaveOccurred())
	}
	return sim.New(reg, law, scheme)
}

func stepN(s *sim.Simulator, n int, dt float64) {
	for i := 0; i < n; i++ {
		Expect(s.Step(dt)).To(Succeed())
	}
}

func byName(s *sim.Simulator) map[string]dynamo.State {
	out := make(map[string]dynamo.State)
	for _, st := range s.Registry().States() {
		out[st.Name] = st
	}
	return out
}

func reversed(specs []dynamo.BodySpec) []dynamo.BodySpec {
	out := make([]dynamo.BodySpec, len(specs))
	for i, spec := range specs {
		out[len(specs)-1-i] = spec
	}
	return out
}

var _ = Describe("Simulator", func() {
	const dt = float64(physics.Day)

	Describe("determinism", func() {
		It("produces bit-identical states for identical runs", func() {
			a := build(solarSpecs, physics.NewAttractorOnly(physics.G), integrators.NewSemiImplicitEuler(), 100)
			b := build(solarSpecs, physics.NewAttractorOnly(physics.G), integrators.NewSemiImplicitEuler(), 100)

			for i := 0; i < 500; i++ {
				Expect(a.Step(dt)).To(Succeed())
				Expect(b.Step(dt)).To(Succeed())
				Expect(a.Registry().States()).To(Equal(b.Registry().States()))
			}
		})
	})

	Describe("order independence", func() {
		It("ignores creation order under the attractor-only law", func() {
			fwd := build(solarSpecs, physics.NewAttractorOnly(physics.G), integrators.NewSemiImplicitEuler(), 100)
			rev := build(reversed(solarSpecs), physics.NewAttractorOnly(physics.G), integrators.NewSemiImplicitEuler(), 100)

			stepN(fwd, 300, dt)
			stepN(rev, 300, dt)

			Expect(byName(fwd)).To(Equal(byName(rev)))

			h1, _ := fwd.Registry().Lookup("Mars")
			h2, _ := rev.Registry().Lookup("Mars")
			s1, _ := fwd.Registry().Snapshot(h1)
			s2, _ := rev.Registry().Snapshot(h2)
			Expect(s1.Trail).To(Equal(s2.Trail))
		})

		It("agrees to rounding under the full-pairwise law", func() {
			fwd := build(solarSpecs, physics.NewFullPairwise(physics.G), integrators.NewSemiImplicitEuler(), 0)
			rev := build(reversed(solarSpecs), physics.NewFullPairwise(physics.G), integrators.NewSemiImplicitEuler(), 0)

			stepN(fwd, 100, dt)
			stepN(rev, 100, dt)

			want := byName(rev)
			for name, got := range byName(fwd) {
				scale := r2.Norm(want[name].Position) + 1
				Expect(r2.Norm(r2.Sub(got.Position, want[name].Position))).To(BeNumerically("<", 1e-9*scale), name)
			}
		})
	})

	Describe("coincident positions", func() {
		It("contributes zero force without NaN", func() {
			specs := []dynamo.BodySpec{
				{Name: "A", Mass: 1e30, Attractor: true},
				{Name: "B", Mass: 1e30, Attractor: true},
			}
			s := build(specs, physics.NewAttractorOnly(physics.G), integrators.NewSemiImplicitEuler(), 10)
			stepN(s, 3, dt)

			for _, st := range s.Registry().States() {
				Expect(st.IsValid()).To(BeTrue())
				Expect(st.Velocity).To(Equal(r2.Vec{}))
			}
		})
	})

	Describe("bounded trajectory", func() {
		const trailCap = 50

		DescribeTable("trail length after K steps",
			func(k, want int) {
				s := build(solarSpecs, physics.NewAttractorOnly(physics.G), integrators.NewSemiImplicitEuler(), trailCap)
				stepN(s, k, dt)

				for _, snap := range s.Snapshots() {
					Expect(snap.Trail).To(HaveLen(want), snap.Name)
					if k > 0 {
						Expect(snap.Trail[len(snap.Trail)-1]).To(Equal(snap.Position))
					}
				}
			},
			Entry("no steps", 0, 0),
			Entry("below cap", 30, 30),
			Entry("at cap", trailCap, trailCap),
			Entry("above cap", 3*trailCap+7, trailCap),
		)

		It("keeps the most recent positions", func() {
			s := build(solarSpecs[:2], physics.NewAttractorOnly(physics.G), integrators.NewSemiImplicitEuler(), 3)

			var recent []r2.Vec
			for i := 0; i < 10; i++ {
				Expect(s.Step(dt)).To(Succeed())
				recent = append(recent, s.Registry().Body(1).Position)
			}

			snap, err := s.Registry().Snapshot(1)
			Expect(err).NotTo(HaveOccurred())
			Expect(snap.Trail).To(Equal(recent[7:]))
		})
	})

	Describe("circular orbit", func() {
		const (
			sunMass = 1.98892e30
			r       = physics.AU
		)
		v := physics.CircularSpeed(physics.G, sunMass, r)
		steps := int(math.Round(physics.OrbitalPeriod(physics.G, sunMass, r) / dt))

		orbit := func(scheme integrators.Stepper) (final, worst float64) {
			specs := []dynamo.BodySpec{
				{Name: "Sun", Mass: sunMass, Attractor: true},
				{Name: "Satellite", Mass: 1000, Position: r2.Vec{X: r}, Velocity: r2.Vec{Y: v}},
			}
			s := build(specs, physics.NewAttractorOnly(physics.G), scheme, 0)
			for i := 0; i < steps; i++ {
				Expect(s.Step(dt)).To(Succeed())
				dev := math.Abs(r2.Norm(s.Registry().Body(1).Position)-r) / r
				worst = math.Max(worst, dev)
			}
			final = math.Abs(r2.Norm(s.Registry().Body(1).Position)-r) / r
			return final, worst
		}

		It("discretizes one period to whole days", func() {
			Expect(steps).To(Equal(365))
		})

		It("returns close to the starting radius with semi-implicit Euler", func() {
			final, worst := orbit(integrators.NewSemiImplicitEuler())
			Expect(final).To(BeNumerically("<", 0.01))
			Expect(worst).To(BeNumerically("<", 0.02))
		})

		It("drifts far more with explicit Euler", func() {
			semi, _ := orbit(integrators.NewSemiImplicitEuler())
			expl, _ := orbit(integrators.NewEuler())
			Expect(expl).To(BeNumerically(">", 0.1))
			Expect(expl).To(BeNumerically(">", 100*semi))
		})
	})
})
