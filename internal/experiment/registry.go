package experiment

import (
	"fmt"
	"sort"

	"github.com/san-kum/solarsim/internal/config"
	"github.com/san-kum/solarsim/internal/dynamo"
	"github.com/san-kum/solarsim/internal/integrators"
	"github.com/san-kum/solarsim/internal/metrics"
	"github.com/san-kum/solarsim/internal/physics"
	"github.com/san-kum/solarsim/internal/sim"
)

type Registry struct {
	laws    map[string]func(theta float64) physics.ForceLaw
	schemes map[string]func() integrators.Stepper
}

func NewRegistry() *Registry {
	r := &Registry{
		laws:    make(map[string]func(float64) physics.ForceLaw),
		schemes: make(map[string]func() integrators.Stepper),
	}

	r.laws[physics.LawAttractorOnly] = func(float64) physics.ForceLaw { return physics.NewAttractorOnly(physics.G) }
	r.laws[physics.LawFullPairwise] = func(float64) physics.ForceLaw { return physics.NewFullPairwise(physics.G) }
	r.laws[physics.LawBarnesHut] = func(theta float64) physics.ForceLaw { return physics.NewBarnesHut(physics.G, theta) }

	r.schemes[integrators.SchemeSemiImplicitEuler] = func() integrators.Stepper { return integrators.NewSemiImplicitEuler() }
	r.schemes[integrators.SchemeEuler] = func() integrators.Stepper { return integrators.NewEuler() }

	return r
}

func (r *Registry) GetForceLaw(name string, theta float64) (physics.ForceLaw, error) {
	fn, ok := r.laws[name]
	if !ok {
		return nil, fmt.Errorf("unknown force law: %s (available: %v)", name, r.ListForceLaws())
	}
	return fn(theta), nil
}

func (r *Registry) GetScheme(name string) (integrators.Stepper, error) {
	fn, ok := r.schemes[name]
	if !ok {
		return nil, fmt.Errorf("unknown scheme: %s (available: %v)", name, r.ListSchemes())
	}
	return fn(), nil
}

func (r *Registry) ListForceLaws() []string {
	names := make([]string, 0, len(r.laws))
	for name := range r.laws {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func (r *Registry) ListSchemes() []string {
	names := make([]string, 0, len(r.schemes))
	for name := range r.schemes {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Build validates cfg and returns a simulator holding a fresh registry of
// its bodies, in config order.
func (r *Registry) Build(cfg *config.Config) (*sim.Simulator, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config %q: %w", cfg.Name, err)
	}

	law, err := r.GetForceLaw(cfg.ForceLaw, cfg.Theta)
	if err != nil {
		return nil, err
	}
	scheme, err := r.GetScheme(cfg.Scheme)
	if err != nil {
		return nil, err
	}

	reg := dynamo.NewRegistry(cfg.TrailCap)
	for _, b := range cfg.Bodies {
		if _, err := reg.Create(b.Spec()); err != nil {
			return nil, fmt.Errorf("create body %q: %w", b.Name, err)
		}
	}

	return sim.New(reg, law, scheme), nil
}

// DefaultMetrics tracks energy drift and the radial deviation of every
// body that is not an attractor.
func (r *Registry) DefaultMetrics(law physics.ForceLaw, cfg *config.Config) []sim.Metric {
	ms := []sim.Metric{metrics.NewEnergyDrift(law)}
	for _, b := range cfg.Bodies {
		if !b.Attractor {
			ms = append(ms, metrics.NewRadialDeviation(b.Name))
		}
	}
	return ms
}
