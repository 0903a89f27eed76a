package dynamo

import (
	"errors"
	"fmt"
)

// Domain errors for registry and stepping operations.
var (
	// ErrInvalidMass indicates a non-positive or non-finite body mass.
	ErrInvalidMass = errors.New("dynamo: mass must be positive and finite")

	// ErrInvalidTimestep indicates a non-positive or non-finite dt.
	ErrInvalidTimestep = errors.New("dynamo: timestep must be positive and finite")

	// ErrUnknownBody indicates a handle or name that is not registered.
	ErrUnknownBody = errors.New("dynamo: unknown body")

	// ErrSealed indicates a body was created after stepping started.
	ErrSealed = errors.New("dynamo: registry sealed, bodies are fixed once stepping starts")

	// ErrInvalidState indicates a position or velocity became NaN or Inf.
	ErrInvalidState = errors.New("dynamo: invalid state (NaN or Inf detected)")
)

// SimulationError wraps an error with simulation context.
type SimulationError struct {
	Step    int
	Time    float64
	Body    string
	Wrapped error
}

func (e *SimulationError) Error() string {
	if e.Body == "" {
		return fmt.Sprintf("step %d (t=%.0fs): %v", e.Step, e.Time, e.Wrapped)
	}
	return fmt.Sprintf("step %d (t=%.0fs) body %q: %v", e.Step, e.Time, e.Body, e.Wrapped)
}

func (e *SimulationError) Unwrap() error {
	return e.Wrapped
}
