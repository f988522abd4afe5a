package rhythms

import (
	"fmt"

	"github.com/san-kum/rhythms/internal/dynamo"
)

// Params bundles the construction parameters of every model.
type Params struct {
	Oscillator  OscillatorParams  `yaml:"multi_temporal"`
	Criticality CriticalityParams `yaml:"critical_phi"`
	Tension     TensionParams     `yaml:"prediction_tension"`
	Vortex      VortexParams      `yaml:"semantic_vortex"`
	Attention   AttentionParams   `yaml:"attention_wandering"`
}

func DefaultParams() Params {
	return Params{
		Oscillator:  DefaultOscillatorParams(),
		Criticality: DefaultCriticalityParams(),
		Tension:     DefaultTensionParams(),
		Vortex:      DefaultVortexParams(),
		Attention:   DefaultAttentionParams(),
	}
}

// New constructs the model for k.
func New(k dynamo.Kind, p Params, noise dynamo.Noise) (dynamo.Rhythm, error) {
	switch k {
	case dynamo.OscillatorNetwork:
		return NewOscillatorNetwork(p.Oscillator, noise), nil
	case dynamo.Criticality:
		return NewCriticality(p.Criticality, noise), nil
	case dynamo.TensionRelease:
		return NewTensionRelease(p.Tension, noise), nil
	case dynamo.VortexField:
		return NewVortexField(p.Vortex, noise), nil
	case dynamo.Attention:
		return NewAttentionWander(p.Attention, noise), nil
	}
	return nil, fmt.Errorf("%w: %v", dynamo.ErrUnknownRhythm, k)
}
