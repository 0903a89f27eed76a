package sim

import (
	"context"
	"sync"

	"golang.org/x/sync/errgroup"
)

// Ensemble runs independent simulators side by side. Members must not share
// a registry.
type Ensemble struct {
	names   []string
	members []*Simulator
}

func NewEnsemble() *Ensemble {
	return &Ensemble{}
}

func (e *Ensemble) Add(name string, s *Simulator) {
	e.names = append(e.names, name)
	e.members = append(e.members, s)
}

func (e *Ensemble) Len() int { return len(e.members) }

// Run runs every member with the same config and returns results by name.
// The first error cancels the remaining runs.
func (e *Ensemble) Run(ctx context.Context, cfg Config) (map[string]*Result, error) {
	g, ctx := errgroup.WithContext(ctx)

	var mu sync.Mutex
	results := make(map[string]*Result, len(e.members))

	for i := range e.members {
		name, s := e.names[i], e.members[i]
		g.Go(func() error {
			res, err := s.Run(ctx, cfg)
			if err != nil {
				return err
			}
			mu.Lock()
			results[name] = res
			mu.Unlock()
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}
