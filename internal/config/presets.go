package config

import (
	"sort"

	"github.com/san-kum/rhythms/internal/rhythms"
)

// Presets are named parameter sets for all five rhythms.
var Presets = map[string]*Config{
	"default": DefaultConfig(),
	"calm": withRhythms(func(p *rhythms.Params) {
		p.Oscillator.Coupling = 0.4
		for i := range p.Oscillator.Oscillators {
			p.Oscillator.Oscillators[i].Chaos *= 0.3
		}
		p.Criticality.Fluctuation = 0.03
		p.Criticality.Threshold = 0.95
		p.Tension.Threshold = 0.9
		p.Vortex.Strength = 0.2
		p.Vortex.Damping = 0.9
		p.Attention.Targets = 3
	}),
	"restless": withRhythms(func(p *rhythms.Params) {
		p.Oscillator.Coupling = 0.05
		for i := range p.Oscillator.Oscillators {
			p.Oscillator.Oscillators[i].Chaos *= 2
		}
		p.Criticality.Fluctuation = 0.25
		p.Criticality.Threshold = 0.75
		p.Tension.Capacity = 40
		p.Tension.Threshold = 0.6
		p.Vortex.Strength = 1.0
		p.Vortex.Damping = 0.995
		p.Attention.Targets = 8
	}),
}

func withRhythms(tune func(p *rhythms.Params)) *Config {
	cfg := DefaultConfig()
	tune(&cfg.Rhythms)
	return cfg
}

// GetPreset returns a copy of the named preset, or nil.
func GetPreset(name string) *Config {
	cfg, ok := Presets[name]
	if !ok {
		return nil
	}
	out := *cfg
	out.Server.CORSOrigins = append([]string(nil), cfg.Server.CORSOrigins...)
	out.Rhythms.Oscillator.Oscillators = append([]rhythms.Oscillator(nil), cfg.Rhythms.Oscillator.Oscillators...)
	return &out
}

func ListPresets() []string {
	names := make([]string, 0, len(Presets))
	for name := range Presets {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
