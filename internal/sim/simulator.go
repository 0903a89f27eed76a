package sim

import (
	"context"
	"fmt"
	"math"
	"time"

	"github.com/san-kum/solarsim/internal/dynamo"
	"github.com/san-kum/solarsim/internal/integrators"
	"github.com/san-kum/solarsim/internal/physics"
	"gonum.org/v1/gonum/spatial/r2"
)

// Simulator advances every body of a registry by fixed steps. It is not
// safe for concurrent use.
type Simulator struct {
	reg       *dynamo.Registry
	law       physics.ForceLaw
	scheme    integrators.Stepper
	forces    []r2.Vec
	step      int
	time      float64
	metrics   []Metric
	observers []Observer
}

func New(reg *dynamo.Registry, law physics.ForceLaw, scheme integrators.Stepper) *Simulator {
	return &Simulator{
		reg:       reg,
		law:       law,
		scheme:    scheme,
		metrics:   make([]Metric, 0),
		observers: make([]Observer, 0),
	}
}

func (s *Simulator) AddMetric(m Metric)     { s.metrics = append(s.metrics, m) }
func (s *Simulator) AddObserver(o Observer) { s.observers = append(s.observers, o) }

func (s *Simulator) Registry() *dynamo.Registry   { return s.reg }
func (s *Simulator) Law() physics.ForceLaw        { return s.law }
func (s *Simulator) Scheme() integrators.Stepper  { return s.scheme }
func (s *Simulator) StepCount() int               { return s.step }
func (s *Simulator) Time() float64                { return s.time }
func (s *Simulator) Snapshots() []dynamo.Snapshot { return s.reg.Snapshots() }
func (s *Simulator) Energy() float64              { return physics.Energy(s.law, s.reg.States()) }

func (s *Simulator) Frame() Frame {
	return Frame{Step: s.step, Time: s.time, Bodies: s.reg.States()}
}

func validDt(dt float64) bool {
	return dt > 0 && !math.IsInf(dt, 0)
}

// Step advances the system by dt seconds. Forces are computed from a frozen
// copy of the pre-step state, so the order bodies are advanced in does not
// change the result.
func (s *Simulator) Step(dt float64) error {
	if !validDt(dt) {
		return fmt.Errorf("step %d (dt=%g): %w", s.step, dt, dynamo.ErrInvalidTimestep)
	}

	states := s.reg.States()
	for _, st := range states {
		if !(st.Mass > 0) || math.IsInf(st.Mass, 0) {
			return &dynamo.SimulationError{Step: s.step, Time: s.time, Body: st.Name, Wrapped: dynamo.ErrInvalidMass}
		}
	}
	s.reg.Seal()

	if len(s.forces) != len(states) {
		s.forces = make([]r2.Vec, len(states))
	}
	s.law.Accumulate(states, s.forces)

	for i, h := range s.reg.All() {
		b := s.reg.Body(h)
		s.scheme.Advance(b, s.forces[i], dt)
		b.Trail.Push(b.Position)
	}

	s.step++
	s.time += dt

	if len(s.metrics) == 0 && len(s.observers) == 0 {
		return nil
	}
	f := s.Frame()
	for _, m := range s.metrics {
		m.Observe(f)
	}
	for _, obs := range s.observers {
		obs.OnStep(f)
	}
	return nil
}

func (s *Simulator) Run(ctx context.Context, cfg Config) (*Result, error) {
	if err := s.validateConfig(cfg); err != nil {
		return nil, err
	}

	sample := cfg.SampleEvery
	if sample <= 0 {
		sample = 1
	}

	result := &Result{
		Frames:  make([]Frame, 0, cfg.Steps/sample+2),
		Metrics: make(map[string]float64),
	}

	initial := s.Frame()
	for _, m := range s.metrics {
		m.Reset()
		m.Observe(initial)
	}
	result.Frames = append(result.Frames, initial)

	initialEnergy := physics.Energy(s.law, initial.Bodies)
	start := time.Now()

	for i := 0; i < cfg.Steps; i++ {
		select {
		case <-ctx.Done():
			result.Elapsed = time.Since(start)
			return result, ctx.Err()
		default:
		}

		if err := s.Step(cfg.Dt); err != nil {
			return result, err
		}
		result.StepsTaken++

		if cfg.ValidateState {
			if name, bad := s.invalidBody(); bad {
				return result, &dynamo.SimulationError{Step: s.step, Time: s.time, Body: name, Wrapped: dynamo.ErrInvalidState}
			}
		}

		if (i+1)%sample == 0 || i == cfg.Steps-1 {
			result.Frames = append(result.Frames, s.Frame())
		}
	}

	result.Elapsed = time.Since(start)
	finalEnergy := s.Energy()
	if initialEnergy != 0 {
		result.EnergyDrift = math.Abs(finalEnergy-initialEnergy) / math.Abs(initialEnergy)
	}

	for _, m := range s.metrics {
		result.Metrics[m.Name()] = m.Value()
	}

	return result, nil
}

func (s *Simulator) validateConfig(cfg Config) error {
	if !validDt(cfg.Dt) {
		return fmt.Errorf("dt must be positive and finite, got %g: %w", cfg.Dt, dynamo.ErrInvalidTimestep)
	}
	if cfg.Steps <= 0 {
		return fmt.Errorf("steps must be positive, got %d", cfg.Steps)
	}
	return nil
}

func (s *Simulator) invalidBody() (string, bool) {
	for _, h := range s.reg.All() {
		b := s.reg.Body(h)
		if !b.State().IsValid() {
			return b.Name, true
		}
	}
	return "", false
}
