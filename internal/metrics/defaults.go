package metrics

import (
	"github.com/san-kum/rhythms/internal/dynamo"
	"github.com/san-kum/rhythms/internal/sim"
)

// ForKind returns the metrics worth tracking for one rhythm. Names are
// prefixed with the kind so several sets can share a driver.
func ForKind(k dynamo.Kind) []sim.Metric {
	p := k.String() + "."
	out := []sim.Metric{filtered(k, NewStability(2.0))}

	switch k {
	case dynamo.OscillatorNetwork:
		out = append(out, filtered(k, NewMean(p+"mean_level", 0)))
	case dynamo.Criticality:
		out = append(out,
			filtered(k, NewEpisodes(p+"avalanches", "avalanche_active")),
			filtered(k, NewMean(p+"mean_phi", 0)),
		)
	case dynamo.TensionRelease:
		out = append(out,
			filtered(k, NewEpisodes(p+"releases", "release_active")),
			filtered(k, NewMean(p+"mean_tension", 0)),
		)
	case dynamo.VortexField:
		out = append(out, filtered(k, NewMean(p+"mean_x", 0)))
	case dynamo.Attention:
		out = append(out,
			filtered(k, NewEpisodes(p+"focus_episodes", "focused")),
			filtered(k, NewMean(p+"mean_focus", 3)),
		)
	}
	return out
}

// ForKinds concatenates ForKind over ks.
func ForKinds(ks []dynamo.Kind) []sim.Metric {
	var out []sim.Metric
	for _, k := range ks {
		out = append(out, ForKind(k)...)
	}
	return out
}

// kindFilter forwards only snapshots of one kind.
type kindFilter struct {
	kind dynamo.Kind
	sim.Metric
}

func filtered(k dynamo.Kind, m sim.Metric) sim.Metric {
	if s, ok := m.(*Stability); ok {
		s.name = k.String() + ".stability"
	}
	return &kindFilter{kind: k, Metric: m}
}

func (f *kindFilter) Observe(s dynamo.Snapshot) {
	if s.Kind == f.kind {
		f.Metric.Observe(s)
	}
}
