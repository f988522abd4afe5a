package sim

import (
	"context"
	"sync"

	"github.com/san-kum/rhythms/internal/dynamo"
	"github.com/san-kum/rhythms/internal/rhythms"
	"golang.org/x/sync/errgroup"
)

// NoiseFactory returns the noise source for one model. Each model gets its
// own source, guarded by that model's lock.
type NoiseFactory func(k dynamo.Kind) dynamo.Noise

// cell is one independently lockable model. Update and Snapshot both take mu;
// there is no separate reader path.
type cell struct {
	mu     sync.Mutex
	rhythm dynamo.Rhythm
}

// Registry owns one long-lived instance of every rhythm. Callers reach models
// only through Registry methods.
type Registry struct {
	cells []*cell
}

// NewRegistry builds every model from params. A nil factory gives each model
// a freshly seeded generator.
func NewRegistry(params rhythms.Params, noise NoiseFactory) *Registry {
	if noise == nil {
		noise = func(dynamo.Kind) dynamo.Noise { return dynamo.NewNoise() }
	}

	kinds := dynamo.Kinds()
	r := &Registry{cells: make([]*cell, len(kinds))}
	for _, k := range kinds {
		rh, err := rhythms.New(k, params, noise(k))
		if err != nil {
			// Kinds() and rhythms.New cover the same closed set
			panic(err)
		}
		r.cells[k] = &cell{rhythm: rh}
	}
	return r
}

func NewDefaultRegistry() *Registry {
	return NewRegistry(rhythms.DefaultParams(), nil)
}

func (r *Registry) lookup(k dynamo.Kind) (*cell, error) {
	if !k.Valid() || int(k) >= len(r.cells) {
		return nil, &dynamo.StepError{Kind: k, Wrapped: dynamo.ErrUnknownRhythm}
	}
	return r.cells[k], nil
}

// Kinds lists the models held by the registry.
func (r *Registry) Kinds() []dynamo.Kind {
	return dynamo.Kinds()
}

// Update advances one model by dt seconds. Only that model's lock is taken.
func (r *Registry) Update(k dynamo.Kind, dt float64) error {
	c, err := r.lookup(k)
	if err != nil {
		return err
	}
	if !dynamo.ValidDelta(dt) {
		return &dynamo.StepError{Kind: k, Dt: dt, Wrapped: dynamo.ErrInvalidDelta}
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	c.rhythm.Update(dt)
	return nil
}

// Sample projects one model's current state.
func (r *Registry) Sample(k dynamo.Kind, timestamp float64) (dynamo.Snapshot, error) {
	c, err := r.lookup(k)
	if err != nil {
		return dynamo.Snapshot{}, err
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	return c.rhythm.Snapshot(timestamp), nil
}

// Step updates then samples one model under a single lock acquisition, so no
// other caller can interleave between the two.
func (r *Registry) Step(k dynamo.Kind, dt, timestamp float64) (dynamo.Snapshot, error) {
	c, err := r.lookup(k)
	if err != nil {
		return dynamo.Snapshot{}, err
	}
	if !dynamo.ValidDelta(dt) {
		return dynamo.Snapshot{}, &dynamo.StepError{Kind: k, Dt: dt, Wrapped: dynamo.ErrInvalidDelta}
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	c.rhythm.Update(dt)
	return c.rhythm.Snapshot(timestamp), nil
}

// UpdateAll advances every model by dt in parallel. There is no atomicity
// across models.
func (r *Registry) UpdateAll(ctx context.Context, dt float64) error {
	if !dynamo.ValidDelta(dt) {
		return &dynamo.StepError{Kind: -1, Dt: dt, Wrapped: dynamo.ErrInvalidDelta}
	}

	g, ctx := errgroup.WithContext(ctx)
	for _, k := range r.Kinds() {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			return r.Update(k, dt)
		})
	}
	return g.Wait()
}

// SampleAll samples every model in parallel, in Kinds order.
func (r *Registry) SampleAll(ctx context.Context, timestamp float64) ([]dynamo.Snapshot, error) {
	kinds := r.Kinds()
	out := make([]dynamo.Snapshot, len(kinds))

	g, ctx := errgroup.WithContext(ctx)
	for i, k := range kinds {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			snap, err := r.Sample(k, timestamp)
			out[i] = snap
			return err
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return out, nil
}
