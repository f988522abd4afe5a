package rhythms

import (
	"math"
	"testing"

	"github.com/san-kum/rhythms/internal/dynamo"
)

func TestOscillatorPhaseWrap(t *testing.T) {
	osc := NewOscillatorNetwork(DefaultOscillatorParams(), dynamo.NewRandNoise(7))
	deltas := []float64{0.016, 0.5, 3.7, 0, 41.3, 1e-6}

	for i := 0; i < 5000; i++ {
		osc.Update(deltas[i%len(deltas)])
		phases := osc.Snapshot(0).Metadata["phases"].([]float64)
		for j, p := range phases {
			if p < 0 || p >= 2*math.Pi {
				t.Fatalf("step %d: phase %d = %f outside [0, 2π)", i, j, p)
			}
		}
	}
}

func TestOscillatorTimeAccumulates(t *testing.T) {
	osc := NewOscillatorNetwork(DefaultOscillatorParams(), dynamo.ConstNoise(0.5))
	for i := 0; i < 10; i++ {
		osc.Update(0.25)
	}
	if got := osc.Snapshot(0).Metadata["time"].(float64); math.Abs(got-2.5) > 1e-12 {
		t.Errorf("expected snapshot time 2.5, got %f", got)
	}
}

func TestOscillatorFreeRotation(t *testing.T) {
	p := OscillatorParams{
		Oscillators: []Oscillator{{Frequency: 0.25, Amplitude: 2, Chaos: 0}},
		Coupling:    0,
	}
	osc := NewOscillatorNetwork(p, dynamo.ConstNoise(1))
	osc.Update(1)

	snap := osc.Snapshot(3)
	phase := snap.Metadata["phases"].([]float64)[0]
	if math.Abs(phase-math.Pi/2) > 1e-12 {
		t.Errorf("expected phase π/2, got %f", phase)
	}
	if math.Abs(snap.Values[0]-2) > 1e-12 {
		t.Errorf("expected displacement 2, got %f", snap.Values[0])
	}
	if snap.Timestamp != 3 || snap.Kind != dynamo.OscillatorNetwork {
		t.Errorf("unexpected snapshot header: %+v", snap)
	}
}

func TestOscillatorCouplingPullsPhasesTogether(t *testing.T) {
	p := OscillatorParams{
		Oscillators: []Oscillator{
			{Frequency: 0, Phase: 0, Amplitude: 1},
			{Frequency: 0, Phase: 1, Amplitude: 1},
		},
		Coupling: 0.5,
	}
	osc := NewOscillatorNetwork(p, dynamo.ConstNoise(0.5))
	for i := 0; i < 200; i++ {
		osc.Update(0.05)
	}

	phases := osc.Snapshot(0).Metadata["phases"].([]float64)
	if diff := math.Abs(phases[1] - phases[0]); diff > 0.05 {
		t.Errorf("expected phases to synchronise, diff %f", diff)
	}
}

func TestOscillatorValuesMatchPhases(t *testing.T) {
	osc := NewOscillatorNetwork(DefaultOscillatorParams(), dynamo.NewRandNoise(3))
	osc.Update(1.3)

	snap := osc.Snapshot(0)
	phases := snap.Metadata["phases"].([]float64)
	for i, o := range DefaultOscillatorParams().Oscillators {
		want := o.Amplitude * math.Sin(phases[i])
		if math.Abs(snap.Values[i]-want) > 1e-12 {
			t.Errorf("oscillator %d: expected %f, got %f", i, want, snap.Values[i])
		}
	}
	if snap.Metadata["coupling_strength"].(float64) != 0.2 {
		t.Error("coupling strength should be reported")
	}
}
