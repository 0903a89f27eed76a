package sim

import (
	"time"

	"github.com/san-kum/solarsim/internal/dynamo"
	"github.com/san-kum/solarsim/internal/physics"
)

// Frame is the post-step state of the whole system.
type Frame struct {
	Step   int
	Time   float64
	Bodies []dynamo.State
}

type Metric interface {
	Name() string
	Observe(f Frame)
	Value() float64
	Reset()
}

type Observer interface {
	OnStep(f Frame)
}

type Config struct {
	Dt            float64
	Steps         int
	SampleEvery   int
	ValidateState bool
}

func DefaultConfig() Config {
	return Config{
		Dt:            physics.Day,
		Steps:         365,
		SampleEvery:   1,
		ValidateState: true,
	}
}

type Result struct {
	Frames      []Frame
	Metrics     map[string]float64
	EnergyDrift float64
	StepsTaken  int
	Elapsed     time.Duration
}
