package optim

import (
	"context"
	"fmt"
	"math"
	"runtime"
	"sort"
	"sync"

	"github.com/san-kum/solarsim/internal/config"
	"github.com/san-kum/solarsim/internal/experiment"
	"golang.org/x/sync/errgroup"
)

// Trial is one point of a search.
type Trial struct {
	ForceLaw string
	Dt       float64
	Steps    int
	Value    float64
	Err      error
}

// GridSearch runs a system once per (force law, dt) pair. Every trial covers
// the same simulated span as the base config, so a smaller dt means more
// steps.
type GridSearch struct {
	laws []string
	dts  []float64
}

func NewGridSearch(laws []string, dts []float64) *GridSearch {
	return &GridSearch{laws: laws, dts: dts}
}

// Search runs every trial concurrently and returns them sorted by metric
// value, failed trials last. A trial that fails keeps its error; Search only
// fails when the context is cancelled.
func (g *GridSearch) Search(ctx context.Context, base *config.Config, reg *experiment.Registry, metricName string) ([]Trial, error) {
	laws := g.laws
	if len(laws) == 0 {
		laws = []string{base.ForceLaw}
	}
	span := base.Dt * float64(base.Steps)

	var mu sync.Mutex
	trials := make([]Trial, 0, len(laws)*len(g.dts))

	eg, ctx := errgroup.WithContext(ctx)
	eg.SetLimit(runtime.GOMAXPROCS(0))
	for _, law := range laws {
		for _, dt := range g.dts {
			eg.Go(func() error {
				t := g.trial(ctx, base, reg, metricName, law, dt, span)
				mu.Lock()
				trials = append(trials, t)
				mu.Unlock()
				return ctx.Err()
			})
		}
	}
	if err := eg.Wait(); err != nil {
		return nil, err
	}

	sort.Slice(trials, func(i, j int) bool {
		a, b := trials[i], trials[j]
		if (a.Err == nil) != (b.Err == nil) {
			return a.Err == nil
		}
		if a.Value != b.Value {
			return a.Value < b.Value
		}
		if a.ForceLaw != b.ForceLaw {
			return a.ForceLaw < b.ForceLaw
		}
		return a.Dt < b.Dt
	})
	return trials, nil
}

func (g *GridSearch) trial(ctx context.Context, base *config.Config, reg *experiment.Registry, metricName, law string, dt, span float64) Trial {
	cfg := *base
	cfg.ForceLaw = law
	cfg.Dt = dt
	cfg.Steps = max(1, int(math.Round(span/dt)))
	cfg.SampleEvery = cfg.Steps

	t := Trial{ForceLaw: law, Dt: dt, Steps: cfg.Steps, Value: math.Inf(1)}

	exp := experiment.New(&cfg)
	if err := exp.Setup(reg); err != nil {
		t.Err = err
		return t
	}
	result, err := exp.Run(ctx)
	if err != nil {
		t.Err = err
		return t
	}

	val, ok := result.Metrics[metricName]
	if !ok {
		t.Err = fmt.Errorf("unknown metric: %s", metricName)
		return t
	}
	t.Value = val
	return t
}
