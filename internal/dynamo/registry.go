package dynamo

import "fmt"

// Handle addresses a body inside the Registry that created it.
type Handle int

// Registry owns every body of a system in creation order. Bodies cannot be
// removed, and none can be added once Seal has been called.
type Registry struct {
	bodies   []*Body
	byName   map[string]Handle
	trailCap int
	sealed   bool
}

func NewRegistry(trailCap int) *Registry {
	if trailCap < 0 {
		trailCap = 0
	}
	return &Registry{
		bodies:   make([]*Body, 0),
		byName:   make(map[string]Handle),
		trailCap: trailCap,
	}
}

func (r *Registry) Create(spec BodySpec) (Handle, error) {
	if r.sealed {
		return -1, ErrSealed
	}
	if !validMass(spec.Mass) {
		return -1, fmt.Errorf("create %q (mass=%g): %w", spec.Name, spec.Mass, ErrInvalidMass)
	}

	h := Handle(len(r.bodies))
	r.bodies = append(r.bodies, &Body{
		Name:      spec.Name,
		Position:  spec.Position,
		Velocity:  spec.Velocity,
		Mass:      spec.Mass,
		Radius:    spec.Radius,
		Color:     spec.Color,
		Attractor: spec.Attractor,
		Trail:     NewTrail(r.trailCap),
	})
	if _, dup := r.byName[spec.Name]; !dup && spec.Name != "" {
		r.byName[spec.Name] = h
	}
	return h, nil
}

// Seal freezes the set of bodies. The simulator calls it on the first step.
func (r *Registry) Seal()    { r.sealed = true }
func (r *Registry) Len() int { return len(r.bodies) }

// All returns every handle in creation order.
func (r *Registry) All() []Handle {
	hs := make([]Handle, len(r.bodies))
	for i := range hs {
		hs[i] = Handle(i)
	}
	return hs
}

// Body returns the mutable body behind h, or nil for an unknown handle.
func (r *Registry) Body(h Handle) *Body {
	if int(h) < 0 || int(h) >= len(r.bodies) {
		return nil
	}
	return r.bodies[h]
}

// Lookup finds the first body created with the given name.
func (r *Registry) Lookup(name string) (Handle, bool) {
	h, ok := r.byName[name]
	return h, ok
}

func (r *Registry) Snapshot(h Handle) (Snapshot, error) {
	b := r.Body(h)
	if b == nil {
		return Snapshot{}, fmt.Errorf("snapshot handle %d: %w", h, ErrUnknownBody)
	}
	return b.Snapshot(), nil
}

func (r *Registry) Snapshots() []Snapshot {
	out := make([]Snapshot, len(r.bodies))
	for i, b := range r.bodies {
		out[i] = b.Snapshot()
	}
	return out
}

// States copies the physical state of every body, in creation order.
func (r *Registry) States() []State {
	out := make([]State, len(r.bodies))
	for i, b := range r.bodies {
		out[i] = b.State()
	}
	return out
}
