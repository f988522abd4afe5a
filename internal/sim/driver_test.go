package sim

import (
	"context"
	"errors"
	"math"
	"testing"
	"time"

	"github.com/san-kum/rhythms/internal/dynamo"
	"github.com/san-kum/rhythms/internal/rhythms"
)

type countMetric struct{ n int }

func (m *countMetric) Name() string            { return "count" }
func (m *countMetric) Observe(dynamo.Snapshot) { m.n++ }
func (m *countMetric) Value() float64          { return float64(m.n) }
func (m *countMetric) Reset()                  { m.n = 0 }

type recordingObserver struct{ kinds []dynamo.Kind }

func (o *recordingObserver) OnSample(s dynamo.Snapshot) { o.kinds = append(o.kinds, s.Kind) }

func newTestDriver() *Driver {
	d := NewDriver(NewRegistry(rhythms.DefaultParams(), constNoise))
	d.now = func() time.Time { return time.Unix(1000, 0) }
	return d
}

func TestDriverRunFixedSteps(t *testing.T) {
	d := newTestDriver()
	metric := &countMetric{}
	obs := &recordingObserver{}
	d.AddMetric(metric)
	d.AddObserver(obs)

	cfg := Config{Kinds: []dynamo.Kind{dynamo.OscillatorNetwork, dynamo.TensionRelease}, Dt: 0.1, Duration: 1.0}
	result, err := d.Run(context.Background(), cfg)
	if err != nil {
		t.Fatalf("run failed: %v", err)
	}

	if result.StepsTaken != 10 {
		t.Errorf("expected 10 steps, got %d", result.StepsTaken)
	}
	for _, k := range cfg.Kinds {
		if len(result.Series[k]) != 10 {
			t.Errorf("expected 10 samples for %s, got %d", k, len(result.Series[k]))
		}
	}
	if result.Metrics["count"] != 20 {
		t.Errorf("expected metric to observe 20 samples, got %f", result.Metrics["count"])
	}
	if len(obs.kinds) != 20 || obs.kinds[0] != dynamo.OscillatorNetwork || obs.kinds[1] != dynamo.TensionRelease {
		t.Errorf("unexpected observer sequence %v", obs.kinds)
	}
}

func TestDriverTimestamps(t *testing.T) {
	d := newTestDriver()

	result, err := d.Run(context.Background(), Config{Kinds: []dynamo.Kind{dynamo.VortexField}, Dt: 0.5, Duration: 2})
	if err != nil {
		t.Fatalf("run failed: %v", err)
	}

	series := result.Series[dynamo.VortexField]
	for i, snap := range series {
		want := 1000 + float64(i+1)*0.5
		if math.Abs(snap.Timestamp-want) > 1e-9 {
			t.Errorf("sample %d: expected timestamp %f, got %f", i, want, snap.Timestamp)
		}
	}
}

func TestDriverAdvancesModelTime(t *testing.T) {
	reg := NewRegistry(rhythms.DefaultParams(), constNoise)
	d := NewDriver(reg)

	if _, err := d.Run(context.Background(), Config{Kinds: []dynamo.Kind{dynamo.OscillatorNetwork}, Dt: 0.25, Duration: 3}); err != nil {
		t.Fatalf("run failed: %v", err)
	}

	snap, _ := reg.Sample(dynamo.OscillatorNetwork, 0)
	if got := snap.Metadata["time"].(float64); math.Abs(got-3) > 1e-9 {
		t.Errorf("expected model time 3, got %f", got)
	}
}

func TestDriverInvalidConfig(t *testing.T) {
	tests := []struct {
		name string
		cfg  Config
	}{
		{"no kinds", Config{Dt: 0.1, Duration: 1}},
		{"unknown kind", Config{Kinds: []dynamo.Kind{99}, Dt: 0.1, Duration: 1}},
		{"zero dt", Config{Kinds: dynamo.Kinds(), Dt: 0, Duration: 1}},
		{"nan dt", Config{Kinds: dynamo.Kinds(), Dt: math.NaN(), Duration: 1}},
		{"negative duration", Config{Kinds: dynamo.Kinds(), Dt: 0.1, Duration: -1}},
		{"zero duration", Config{Kinds: dynamo.Kinds(), Dt: 0.1}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := newTestDriver().Run(context.Background(), tt.cfg); err == nil {
				t.Error("expected error for invalid config")
			}
		})
	}

	_, err := newTestDriver().Run(context.Background(), Config{Kinds: []dynamo.Kind{99}, Dt: 0.1, Duration: 1})
	if !errors.Is(err, dynamo.ErrUnknownRhythm) {
		t.Errorf("expected ErrUnknownRhythm, got %v", err)
	}
}

func TestDriverCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	result, err := newTestDriver().Run(ctx, DefaultConfig())
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
	if result == nil || result.StepsTaken != 0 {
		t.Errorf("expected an empty partial result, got %+v", result)
	}
}

func TestDriverRealtime(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	d := NewDriver(NewRegistry(rhythms.DefaultParams(), constNoise))
	result, err := d.Run(ctx, Config{Kinds: []dynamo.Kind{dynamo.Criticality}, Dt: 0.01, Duration: 0.1, Realtime: true})
	if err != nil {
		t.Fatalf("run failed: %v", err)
	}
	if result.StepsTaken == 0 {
		t.Error("expected at least one realtime step")
	}
	for _, snap := range result.Series[dynamo.Criticality] {
		if !snap.IsValid() {
			t.Fatal("realtime sample contains non-finite values")
		}
	}
}

func TestDriverMetricsReset(t *testing.T) {
	d := newTestDriver()
	metric := &countMetric{n: 100}
	d.AddMetric(metric)

	result, err := d.Run(context.Background(), Config{Kinds: []dynamo.Kind{dynamo.Attention}, Dt: 1, Duration: 5})
	if err != nil {
		t.Fatalf("run failed: %v", err)
	}
	if result.Metrics["count"] != 5 {
		t.Errorf("expected metric reset before run, got %f", result.Metrics["count"])
	}
}

func TestStepFaultError(t *testing.T) {
	f := StepFault{Kind: dynamo.Criticality, Step: 3, Time: 1.5, Message: "boom"}
	if f.Error() != "critical_phi step 3 (t=1.5000): boom" {
		t.Errorf("unexpected message %q", f.Error())
	}
}
