// Package bridge is the command boundary between front-ends and the rhythm
// registry. It speaks in wire identifiers and plain error strings, the way
// a desktop shell's command handlers do.
package bridge

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/san-kum/rhythms/internal/dynamo"
	"github.com/san-kum/rhythms/internal/logging"
	"github.com/san-kum/rhythms/internal/sim"
	"go.uber.org/zap"
)

const (
	CmdGetRhythmData = "get_rhythm_data"
	CmdUpdateRhythm  = "update_rhythm"
	CmdListRhythms   = "list_rhythms"
)

var (
	ErrUnknownCommand = errors.New("unknown command")
	ErrMissingArg     = errors.New("missing argument")
)

// Info names one rhythm.
type Info struct {
	ID    string `json:"id"`
	Alias string `json:"alias"`
}

// Dispatcher resolves wire identifiers and forwards to the registry.
type Dispatcher struct {
	reg    *sim.Registry
	logger *zap.Logger
	now    func() float64
}

func NewDispatcher(reg *sim.Registry, logger *zap.Logger) *Dispatcher {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Dispatcher{reg: reg, logger: logger, now: dynamo.Now}
}

// GetRhythmData samples a rhythm stamped with the current wall-clock time.
func (d *Dispatcher) GetRhythmData(id string) (dynamo.Snapshot, error) {
	k, err := dynamo.ParseKind(id)
	if err != nil {
		d.logger.Debug("get_rhythm_data rejected", logging.Rhythm(id), zap.Error(err))
		return dynamo.Snapshot{}, err
	}
	return d.reg.Sample(k, d.now())
}

// UpdateRhythm advances a rhythm by dt seconds.
func (d *Dispatcher) UpdateRhythm(id string, dt float64) error {
	k, err := dynamo.ParseKind(id)
	if err != nil {
		d.logger.Debug("update_rhythm rejected", logging.Rhythm(id), zap.Error(err))
		return err
	}
	if err := d.reg.Update(k, dt); err != nil {
		d.logger.Debug("update_rhythm failed", logging.Rhythm(id), zap.Float64("dt", dt), zap.Error(err))
		return err
	}
	return nil
}

// List returns every rhythm in declaration order.
func (d *Dispatcher) List() []Info {
	kinds := d.reg.Kinds()
	out := make([]Info, len(kinds))
	for i, k := range kinds {
		out[i] = Info{ID: k.String(), Alias: k.Alias()}
	}
	return out
}

// SampleAll samples every rhythm at one shared timestamp.
func (d *Dispatcher) SampleAll(ctx context.Context) ([]dynamo.Snapshot, error) {
	return d.reg.SampleAll(ctx, d.now())
}

// Args are command arguments. Both snake_case and the camelCase keys a
// JavaScript caller sends are accepted.
type Args struct {
	RhythmType string   `json:"rhythm_type"`
	DeltaTime  *float64 `json:"delta_time,omitempty"`
}

func (a *Args) UnmarshalJSON(data []byte) error {
	var raw struct {
		RhythmType  string   `json:"rhythm_type"`
		RhythmTypeC string   `json:"rhythmType"`
		DeltaTime   *float64 `json:"delta_time"`
		DeltaTimeC  *float64 `json:"deltaTime"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}

	a.RhythmType = raw.RhythmType
	if a.RhythmType == "" {
		a.RhythmType = raw.RhythmTypeC
	}
	a.DeltaTime = raw.DeltaTime
	if a.DeltaTime == nil {
		a.DeltaTime = raw.DeltaTimeC
	}
	return nil
}

// Invoke runs a named command. get_rhythm_data returns a Snapshot,
// update_rhythm returns nil, list_rhythms returns []Info.
func (d *Dispatcher) Invoke(ctx context.Context, command string, args Args) (any, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	switch command {
	case CmdGetRhythmData:
		snap, err := d.GetRhythmData(args.RhythmType)
		if err != nil {
			return nil, err
		}
		return snap, nil
	case CmdUpdateRhythm:
		if args.DeltaTime == nil {
			return nil, fmt.Errorf("%w: delta_time", ErrMissingArg)
		}
		return nil, d.UpdateRhythm(args.RhythmType, *args.DeltaTime)
	case CmdListRhythms:
		return d.List(), nil
	}
	d.logger.Warn("unknown command", zap.String("command", command))
	return nil, fmt.Errorf("%w: %s", ErrUnknownCommand, command)
}

// Message flattens err to the string a front-end sees. Domain errors lose
// their wrapping so callers can compare against the bare message.
func Message(err error) string {
	switch {
	case err == nil:
		return ""
	case errors.Is(err, dynamo.ErrUnknownRhythm):
		return dynamo.ErrUnknownRhythm.Error()
	case errors.Is(err, dynamo.ErrInvalidDelta):
		return dynamo.ErrInvalidDelta.Error()
	}
	return err.Error()
}
