package rhythms

import (
	"math"
	"testing"

	"github.com/san-kum/rhythms/internal/dynamo"
)

func TestAttentionBounds(t *testing.T) {
	a := NewAttentionWander(DefaultAttentionParams(), dynamo.NewRandNoise(13))
	deltas := []float64{0.016, 0.5, 2, 7, 30}

	for i := 0; i < 20000; i++ {
		a.Update(deltas[i%len(deltas)])

		if math.Abs(a.position.X) > 2 || math.Abs(a.position.Y) > 2 {
			t.Fatalf("step %d: position %+v outside [-2, 2]", i, a.position)
		}
		if len(a.targets) > 8 {
			t.Fatalf("step %d: %d targets exceed ceiling", i, len(a.targets))
		}
		if a.Focused() && a.focus >= len(a.targets) {
			t.Fatalf("step %d: focus %d points past %d targets", i, a.focus, len(a.targets))
		}
	}
}

func TestAttentionFirstQualifyingTargetWins(t *testing.T) {
	a := NewAttentionWander(DefaultAttentionParams(), dynamo.ConstNoise(0.5))
	a.targets = []dynamo.Vec2{{X: 5, Y: 5}, {X: 0.2}, {X: 0.05}}

	a.Update(1.5)

	if a.focus != 1 {
		t.Errorf("expected focus on target 1, got %d", a.focus)
	}
}

func TestAttentionNoLockWhenChanceFails(t *testing.T) {
	a := NewAttentionWander(DefaultAttentionParams(), dynamo.ConstNoise(0.5))
	a.targets = []dynamo.Vec2{{X: 0.1}}

	a.Update(0.5) // 0.5 < 0.25 fails

	if a.Focused() {
		t.Error("focus should not lock when the capture draw fails")
	}
}

func TestAttentionApproachesTarget(t *testing.T) {
	a := NewAttentionWander(DefaultAttentionParams(), dynamo.ConstNoise(0.5))
	a.targets = []dynamo.Vec2{{X: 1}}
	a.focus = 0

	a.Update(1)

	if math.Abs(a.position.X-0.1) > 1e-12 || a.position.Y != 0 {
		t.Errorf("expected position (0.1, 0), got %+v", a.position)
	}
	if a.focusTime != 1 {
		t.Errorf("expected focus duration 1, got %f", a.focusTime)
	}

	snap := a.Snapshot(0)
	if math.Abs(snap.Values[3]-(1-a.boredom)) > 1e-12 {
		t.Errorf("expected focus strength %f, got %f", 1-a.boredom, snap.Values[3])
	}
}

func TestAttentionBoredomExit(t *testing.T) {
	a := NewAttentionWander(DefaultAttentionParams(), dynamo.ConstNoise(0.5))
	a.targets = []dynamo.Vec2{{X: 1}}
	a.focus = 0
	a.boredom = 0.95

	a.Update(1)

	if a.Focused() || a.boredom != 0 || a.focusTime != 0 {
		t.Errorf("expected reset to wandering, got focus=%d boredom=%f duration=%f", a.focus, a.boredom, a.focusTime)
	}
	if a.Snapshot(0).Values[3] != 0 {
		t.Error("focus strength must be zero while wandering")
	}
}

func TestAttentionDurationExit(t *testing.T) {
	a := NewAttentionWander(DefaultAttentionParams(), dynamo.ConstNoise(0.5))
	a.targets = []dynamo.Vec2{{X: 1}}
	a.focus = 0
	a.focusTime = 4.9

	a.Update(0.2)

	if a.Focused() {
		t.Error("expected focus to end after 5 seconds")
	}
}

func TestAttentionEvictionKeepsFocusConsistent(t *testing.T) {
	tests := []struct {
		name      string
		focus     int
		wantFocus int
	}{
		{"focus on evicted target", 0, noFocus},
		{"focus shifts with target", 3, 2},
		{"wandering unaffected", noFocus, noFocus},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			a := NewAttentionWander(AttentionParams{Targets: 8, MaxTargets: 8}, dynamo.NewRandNoise(1))
			a.focus = tt.focus
			var held dynamo.Vec2
			if tt.focus > 0 {
				held = a.targets[tt.focus]
			}

			a.addTarget(dynamo.Vec2{X: 9, Y: 9})

			if len(a.targets) != 8 {
				t.Fatalf("expected 8 targets, got %d", len(a.targets))
			}
			if a.targets[7] != (dynamo.Vec2{X: 9, Y: 9}) {
				t.Error("new target should be appended last")
			}
			if a.focus != tt.wantFocus {
				t.Fatalf("expected focus %d, got %d", tt.wantFocus, a.focus)
			}
			if tt.focus > 0 && a.targets[a.focus] != held {
				t.Error("focus should keep pointing at the same target")
			}
		})
	}
}

func TestAttentionSpawnsTargets(t *testing.T) {
	a := NewAttentionWander(AttentionParams{Targets: 0, MaxTargets: 8}, dynamo.ConstNoise(0))
	a.Update(1)
	if len(a.targets) != 1 {
		t.Errorf("expected one spawned target, got %d", len(a.targets))
	}
}

func TestAttentionCuriosity(t *testing.T) {
	a := NewAttentionWander(DefaultAttentionParams(), dynamo.ConstNoise(0.5))

	weights := a.Snapshot(0).Metadata["curiosity"].(map[string]float64)
	if len(weights) != 3 || weights["novel"] != 0.8 || weights["familiar"] != 0.2 || weights["complex"] != 0.6 {
		t.Errorf("unexpected curiosity weights %v", weights)
	}

	weights["novel"] = 0
	if w := a.Snapshot(0).Metadata["curiosity"].(map[string]float64)["novel"]; w != 0.8 {
		t.Error("snapshot must not expose the shared curiosity map")
	}
}
