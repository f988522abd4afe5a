package rhythms

import (
	"math"
	"testing"

	"github.com/san-kum/rhythms/internal/dynamo"
)

func TestCriticalityAvalancheTransition(t *testing.T) {
	c := NewCriticality(DefaultCriticalityParams(), dynamo.ConstNoise(0.5))
	// maximal upward noise, then a 0.8s avalanche duration
	c.noise = dynamo.NewScriptedNoise(1.0, 0.2, 0.5)

	c.Update(5)

	snap := c.Snapshot(0)
	if !snap.Flag("avalanche_active") {
		t.Fatalf("expected avalanche after crossing threshold, phi=%f", snap.Values[0])
	}
	if c.remaining < 0.5 || c.remaining >= 2.0 {
		t.Errorf("avalanche duration %f outside [0.5, 2.0)", c.remaining)
	}
	if math.Abs(c.remaining-0.8) > 1e-12 {
		t.Errorf("expected scripted duration 0.8, got %f", c.remaining)
	}

	c.Update(0.5)
	if !c.Snapshot(0).Flag("avalanche_active") {
		t.Fatal("avalanche ended early")
	}

	c.Update(0.5)
	snap = c.Snapshot(0)
	if snap.Flag("avalanche_active") {
		t.Fatal("expected avalanche to end once the duration elapsed")
	}
	if snap.Values[0] != c.target {
		t.Errorf("expected phi reset to exactly %f, got %f", c.target, snap.Values[0])
	}
	if snap.Metadata["criticality"].(float64) != 0 {
		t.Errorf("expected zero criticality distance, got %v", snap.Metadata["criticality"])
	}
}

func TestCriticalityDriftsTowardTarget(t *testing.T) {
	c := NewCriticality(DefaultCriticalityParams(), dynamo.ConstNoise(0.5))
	c.phi = 0.2

	c.Update(1)

	want := 0.2 + (0.7-0.2)*0.1
	if math.Abs(c.phi-want) > 1e-12 {
		t.Errorf("expected phi %f, got %f", want, c.phi)
	}
	if c.avalanche {
		t.Error("no avalanche expected below threshold")
	}
}

func TestCriticalityClampInvariants(t *testing.T) {
	c := NewCriticality(DefaultCriticalityParams(), dynamo.NewRandNoise(42))
	deltas := []float64{0.016, 0.1, 1, 3, 0.5}

	for i := 0; i < 5000; i++ {
		c.Update(deltas[i%len(deltas)])

		if c.phi < 0 || c.phi > 1.5 {
			t.Fatalf("step %d: phi %f outside [0, 1.5]", i, c.phi)
		}
		for r := range c.matrix {
			for col, v := range c.matrix[r] {
				if r == col {
					if v != 0 {
						t.Fatalf("diagonal [%d][%d] mutated to %f", r, col, v)
					}
					continue
				}
				if v < 0 || v > 1 {
					t.Fatalf("step %d: matrix[%d][%d] = %f outside [0, 1]", i, r, col, v)
				}
			}
		}
	}
}

func TestCriticalitySnapshot(t *testing.T) {
	c := NewCriticality(DefaultCriticalityParams(), dynamo.ConstNoise(0.5))

	snap := c.Snapshot(9)
	// 20 off-diagonal cells initialised at the midpoint of [0, 0.5)
	if got := snap.Metadata["matrix_complexity"].(float64); math.Abs(got-5) > 1e-12 {
		t.Errorf("expected complexity 5, got %f", got)
	}
	if got := snap.Metadata["criticality"].(float64); math.Abs(got-0.2) > 1e-12 {
		t.Errorf("expected criticality 0.2, got %f", got)
	}
	if len(snap.Values) != 1 || snap.Values[0] != 0.5 {
		t.Errorf("expected values [0.5], got %v", snap.Values)
	}
}
