package rhythms

import (
	"math"

	"github.com/san-kum/rhythms/internal/dynamo"
)

// chaosDamping scales each oscillator's chaos factor into a per-step jitter.
const chaosDamping = 0.01

// Oscillator is a single phase oscillator. Phase is kept in [0, 2π).
type Oscillator struct {
	Frequency float64 `yaml:"frequency" json:"frequency"`
	Phase     float64 `yaml:"phase" json:"phase"`
	Amplitude float64 `yaml:"amplitude" json:"amplitude"`
	Chaos     float64 `yaml:"chaos" json:"chaos"`
}

type OscillatorParams struct {
	Oscillators []Oscillator `yaml:"oscillators"`
	Coupling    float64      `yaml:"coupling"`
}

// DefaultOscillatorParams returns three oscillators spanning two decades of
// frequency.
func DefaultOscillatorParams() OscillatorParams {
	return OscillatorParams{
		Oscillators: []Oscillator{
			{Frequency: 0.1, Phase: 0, Amplitude: 1.0, Chaos: 0.3},
			{Frequency: 0.01, Phase: math.Pi / 4, Amplitude: 0.8, Chaos: 0.5},
			{Frequency: 0.001, Phase: math.Pi / 2, Amplitude: 0.6, Chaos: 0.7},
		},
		Coupling: 0.2,
	}
}

// OscillatorNetwork couples N oscillators through sin(φj − φi).
type OscillatorNetwork struct {
	oscillators []Oscillator
	coupling    float64
	time        float64
	noise       dynamo.Noise
}

func NewOscillatorNetwork(p OscillatorParams, noise dynamo.Noise) *OscillatorNetwork {
	oscs := make([]Oscillator, len(p.Oscillators))
	copy(oscs, p.Oscillators)
	for i := range oscs {
		oscs[i].Phase = dynamo.WrapPhase(oscs[i].Phase)
	}
	return &OscillatorNetwork{
		oscillators: oscs,
		coupling:    p.Coupling,
		noise:       noise,
	}
}

func (o *OscillatorNetwork) Kind() dynamo.Kind { return dynamo.OscillatorNetwork }

// Update advances every phase in place. Later oscillators see the already
// advanced phases of earlier ones within the same step.
func (o *OscillatorNetwork) Update(dt float64) {
	o.time += dt

	for i := range o.oscillators {
		coupling := 0.0
		for j := range o.oscillators {
			if i != j {
				coupling += o.coupling * math.Sin(o.oscillators[j].Phase-o.oscillators[i].Phase)
			}
		}

		chaos := o.noise.Uniform(-1, 1) * o.oscillators[i].Chaos * chaosDamping

		osc := &o.oscillators[i]
		osc.Phase += 2*math.Pi*osc.Frequency*dt + coupling*dt + chaos
		osc.Phase = dynamo.WrapPhase(osc.Phase)
	}
}

func (o *OscillatorNetwork) Snapshot(timestamp float64) dynamo.Snapshot {
	values := make([]float64, len(o.oscillators))
	phases := make([]float64, len(o.oscillators))
	for i, osc := range o.oscillators {
		values[i] = osc.Amplitude * math.Sin(osc.Phase)
		phases[i] = osc.Phase
	}

	return dynamo.Snapshot{
		Kind:      dynamo.OscillatorNetwork,
		Timestamp: timestamp,
		Values:    values,
		Metadata: map[string]any{
			"phases":            phases,
			"coupling_strength": o.coupling,
			"time":              o.time,
		},
	}
}
