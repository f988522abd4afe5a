package sim

import (
	"fmt"

	"github.com/san-kum/rhythms/internal/dynamo"
)

// Metric accumulates a scalar over the snapshots of a run.
type Metric interface {
	Name() string
	Observe(s dynamo.Snapshot)
	Value() float64
	Reset()
}

// Observer sees every snapshot the driver takes.
type Observer interface {
	OnSample(s dynamo.Snapshot)
}

// Config controls a driver run.
type Config struct {
	Kinds    []dynamo.Kind
	Dt       float64
	Duration float64
	// Realtime paces steps on the wall clock and feeds measured deltas to the
	// models instead of Dt. A zero Duration then runs until cancelled.
	Realtime      bool
	ValidateState bool
}

func DefaultConfig() Config {
	return Config{
		Kinds:         dynamo.Kinds(),
		Dt:            1.0 / 60,
		Duration:      10.0,
		ValidateState: true,
	}
}

// Result collects the per-kind series of a run.
type Result struct {
	Series     map[dynamo.Kind][]dynamo.Snapshot
	Metrics    map[string]float64
	StepsTaken int
	Errors     []error
}

type StepFault struct {
	Kind    dynamo.Kind
	Step    int
	Time    float64
	Message string
}

func (e StepFault) Error() string {
	return fmt.Sprintf("%s step %d (t=%.4f): %s", e.Kind, e.Step, e.Time, e.Message)
}
