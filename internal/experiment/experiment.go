package experiment

import (
	"context"
	"fmt"

	"github.com/san-kum/solarsim/internal/config"
	"github.com/san-kum/solarsim/internal/sim"
)

// Experiment is one configured run of a system.
type Experiment struct {
	cfg       *config.Config
	simulator *sim.Simulator
}

func New(cfg *config.Config) *Experiment {
	return &Experiment{cfg: cfg}
}

func (e *Experiment) Setup(reg *Registry) error {
	s, err := reg.Build(e.cfg)
	if err != nil {
		return err
	}
	for _, m := range reg.DefaultMetrics(s.Law(), e.cfg) {
		s.AddMetric(m)
	}
	e.simulator = s
	return nil
}

func (e *Experiment) Run(ctx context.Context) (*sim.Result, error) {
	if e.simulator == nil {
		return nil, fmt.Errorf("experiment not setup")
	}
	return e.simulator.Run(ctx, SimConfig(e.cfg))
}

// Simulator returns the underlying simulator for adding observers.
func (e *Experiment) Simulator() *sim.Simulator {
	return e.simulator
}

func (e *Experiment) Config() *config.Config {
	return e.cfg
}

func SimConfig(cfg *config.Config) sim.Config {
	return sim.Config{
		Dt:            cfg.Dt,
		Steps:         cfg.Steps,
		SampleEvery:   cfg.SampleEvery,
		ValidateState: true,
	}
}
