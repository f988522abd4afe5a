package sim

import (
	"context"
	"fmt"
	"math"
	"time"

	"github.com/san-kum/rhythms/internal/dynamo"
)

// Driver repeatedly updates and samples registry models, the way a front-end
// polls once per frame.
type Driver struct {
	reg       *Registry
	metrics   []Metric
	observers []Observer
	now       func() time.Time
}

func NewDriver(reg *Registry) *Driver {
	return &Driver{
		reg:       reg,
		metrics:   make([]Metric, 0),
		observers: make([]Observer, 0),
		now:       time.Now,
	}
}

func (d *Driver) AddMetric(m Metric)     { d.metrics = append(d.metrics, m) }
func (d *Driver) AddObserver(o Observer) { d.observers = append(d.observers, o) }

func (d *Driver) validateConfig(cfg Config) error {
	if len(cfg.Kinds) == 0 {
		return fmt.Errorf("at least one rhythm is required")
	}
	for _, k := range cfg.Kinds {
		if !k.Valid() {
			return fmt.Errorf("%w: %v", dynamo.ErrUnknownRhythm, k)
		}
	}
	if cfg.Dt <= 0 || math.IsInf(cfg.Dt, 0) || math.IsNaN(cfg.Dt) {
		return fmt.Errorf("dt must be positive, got %f", cfg.Dt)
	}
	if cfg.Duration < 0 || (cfg.Duration == 0 && !cfg.Realtime) {
		return fmt.Errorf("duration must be positive, got %f", cfg.Duration)
	}
	return nil
}

// Run drives the configured rhythms until Duration of simulated time has
// passed or ctx is cancelled. On cancellation the partial result is returned
// with ctx.Err().
func (d *Driver) Run(ctx context.Context, cfg Config) (*Result, error) {
	if err := d.validateConfig(cfg); err != nil {
		return nil, err
	}

	result := &Result{
		Series:  make(map[dynamo.Kind][]dynamo.Snapshot, len(cfg.Kinds)),
		Metrics: make(map[string]float64),
		Errors:  make([]error, 0),
	}
	for _, m := range d.metrics {
		m.Reset()
	}

	err := d.loop(ctx, cfg, func(step int, dt, ts float64) bool {
		for _, k := range cfg.Kinds {
			snap, err := d.reg.Step(k, dt, ts)
			if err != nil {
				result.Errors = append(result.Errors, err)
				return false
			}

			for _, m := range d.metrics {
				m.Observe(snap)
			}
			for _, obs := range d.observers {
				obs.OnSample(snap)
			}
			result.Series[k] = append(result.Series[k], snap)

			if cfg.ValidateState && !snap.IsValid() {
				result.Errors = append(result.Errors, StepFault{Kind: k, Step: step, Time: ts, Message: "invalid state (NaN/Inf)"})
				return false
			}
		}
		result.StepsTaken++
		return true
	})

	for _, m := range d.metrics {
		result.Metrics[m.Name()] = m.Value()
	}
	return result, err
}

// loop calls step with the delta and timestamp of each tick until it returns
// false, the duration elapses or ctx ends.
func (d *Driver) loop(ctx context.Context, cfg Config, step func(i int, dt, ts float64) bool) error {
	start := d.now()

	if !cfg.Realtime {
		steps := int(math.Floor(cfg.Duration/cfg.Dt + 1e-9))
		base := dynamo.Seconds(start)
		for i := 0; i < steps; i++ {
			select {
			case <-ctx.Done():
				return ctx.Err()
			default:
			}
			if !step(i, cfg.Dt, base+float64(i+1)*cfg.Dt) {
				return nil
			}
		}
		return nil
	}

	ticker := time.NewTicker(time.Duration(cfg.Dt * float64(time.Second)))
	defer ticker.Stop()

	last := start
	for i := 0; ; i++ {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
		}

		now := d.now()
		dt := now.Sub(last).Seconds()
		last = now

		if !step(i, dt, dynamo.Seconds(now)) {
			return nil
		}
		if cfg.Duration > 0 && now.Sub(start).Seconds() >= cfg.Duration {
			return nil
		}
	}
}
