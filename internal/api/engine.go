package api

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/go-kit/log"
	"github.com/go-kit/log/level"
	"github.com/san-kum/solarsim/internal/config"
	"github.com/san-kum/solarsim/internal/dynamo"
	"github.com/san-kum/solarsim/internal/physics"
	"github.com/san-kum/solarsim/internal/sim"
	"gonum.org/v1/gonum/spatial/r2"
)

const minInterval = time.Millisecond

// Engine serializes stepping against concurrent readers. The simulator
// itself is single-threaded; every access goes through the mutex.
type Engine struct {
	mu           sync.RWMutex
	sim          *sim.Simulator
	name         string
	dt           float64
	epoch        time.Time
	stepsPerTick int
	interval     time.Duration
	err          error
	logger       log.Logger
}

type Status struct {
	System          string    `json:"system"`
	Step            int       `json:"step"`
	Time            float64   `json:"time"`
	Date            time.Time `json:"date"`
	Energy          float64   `json:"energy"`
	Momentum        r2.Vec    `json:"momentum"`
	AngularMomentum float64   `json:"angular_momentum"`
	Bodies          int       `json:"bodies"`
	ForceLaw        string    `json:"force_law"`
	Scheme          string    `json:"scheme"`
	Error           string    `json:"error,omitempty"`
}

func NewEngine(s *sim.Simulator, cfg *config.Config, logger log.Logger) *Engine {
	hz := cfg.Display.TickHz
	if hz <= 0 {
		hz = config.DefaultTickHz
	}
	interval := max(time.Duration(float64(time.Second)/hz), minInterval)
	return &Engine{
		sim:          s,
		name:         cfg.Name,
		dt:           cfg.Dt,
		epoch:        cfg.Epoch,
		stepsPerTick: max(1, cfg.Display.StepsPerFrame),
		interval:     interval,
		logger:       log.With(logger, "component", "engine"),
	}
}

// Advance performs n steps under the write lock. After a failed step the
// engine refuses to advance again.
func (e *Engine) Advance(n int) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.err != nil {
		return e.err
	}
	for i := 0; i < n; i++ {
		if err := e.sim.Step(e.dt); err != nil {
			e.err = err
			return err
		}
	}
	return nil
}

// Run advances the engine on a ticker until ctx is done or a step fails.
func (e *Engine) Run(ctx context.Context) error {
	ticker := time.NewTicker(e.interval)
	defer ticker.Stop()

	level.Info(e.logger).Log("msg", "stepping", "system", e.name, "interval", e.interval, "steps_per_tick", e.stepsPerTick)
	for {
		select {
		case <-ctx.Done():
			level.Info(e.logger).Log("msg", "stopped", "step", e.StepCount())
			return nil
		case <-ticker.C:
			if err := e.Advance(e.stepsPerTick); err != nil {
				level.Error(e.logger).Log("msg", "step failed", "err", err)
				return fmt.Errorf("engine: %w", err)
			}
		}
	}
}

func (e *Engine) StepCount() int {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.sim.StepCount()
}

func (e *Engine) Snapshots() []dynamo.Snapshot {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.sim.Snapshots()
}

// Snapshot looks a body up by name, ignoring case.
func (e *Engine) Snapshot(name string) (dynamo.Snapshot, error) {
	e.mu.RLock()
	defer e.mu.RUnlock()

	reg := e.sim.Registry()
	for _, h := range reg.All() {
		if b := reg.Body(h); strings.EqualFold(b.Name, name) {
			return b.Snapshot(), nil
		}
	}
	return dynamo.Snapshot{}, fmt.Errorf("%w: %q", dynamo.ErrUnknownBody, name)
}

func (e *Engine) Status() Status {
	e.mu.RLock()
	defer e.mu.RUnlock()

	states := e.sim.Registry().States()
	st := Status{
		System:          e.name,
		Step:            e.sim.StepCount(),
		Time:            e.sim.Time(),
		Date:            sim.Date(e.epoch, e.sim.Time()),
		Energy:          physics.Energy(e.sim.Law(), states),
		Momentum:        physics.Momentum(states),
		AngularMomentum: physics.AngularMomentum(states),
		Bodies:          len(states),
		ForceLaw:        e.sim.Law().Name(),
		Scheme:          e.sim.Scheme().Name(),
	}
	if e.err != nil {
		st.Error = e.err.Error()
	}
	return st
}
