package dynamo

import (
	"math"
	"testing"
)

func TestWrapPhase(t *testing.T) {
	tau := 2 * math.Pi
	inputs := []float64{0, 1, math.Pi, tau, tau + 0.5, -0.5, -tau, -1e-18, 100 * tau, -37.3}

	for _, in := range inputs {
		got := WrapPhase(in)
		if got < 0 || got >= tau {
			t.Errorf("WrapPhase(%v) = %v, outside [0, 2π)", in, got)
		}
		if math.Abs(math.Sin(got)-math.Sin(in)) > 1e-9 {
			t.Errorf("WrapPhase(%v) changed the angle: %v", in, got)
		}
	}
}

func TestVec3Normalize(t *testing.T) {
	v := Vec3{3, 4, 0}.Normalize()
	if math.Abs(v.Norm()-1) > 1e-12 {
		t.Errorf("expected unit length, got %f", v.Norm())
	}
	if (Vec3{}).Normalize() != (Vec3{}) {
		t.Error("zero vector should stay zero")
	}
}

func TestVec2Clamp(t *testing.T) {
	got := Vec2{3, -5}.Clamp(-2, 2)
	if got != (Vec2{2, -2}) {
		t.Errorf("expected (2,-2), got %v", got)
	}
}

func TestNoiseRanges(t *testing.T) {
	n := NewRandNoise(1)
	for i := 0; i < 1000; i++ {
		v := n.Uniform(-0.5, 0.5)
		if v < -0.5 || v >= 0.5 {
			t.Fatalf("sample %v outside [-0.5, 0.5)", v)
		}
	}

	s := NewScriptedNoise(0, 1, 0.5)
	if s.Uniform(2, 4) != 2 || s.Uniform(2, 4) != 4 || s.Uniform(2, 4) != 3 {
		t.Error("scripted units should map linearly into the range")
	}
	if s.Uniform(2, 4) != 2 {
		t.Error("scripted noise should cycle")
	}
	if s.Draws() != 4 {
		t.Errorf("expected 4 draws, got %d", s.Draws())
	}

	if ConstNoise(1).Uniform(0, 0.3) != 0.3 {
		t.Error("ConstNoise(1) should return the upper bound")
	}
}

func TestIndex(t *testing.T) {
	if Index(ConstNoise(1), 3) != 2 {
		t.Error("upper bound must map to the last index")
	}
	if Index(ConstNoise(0), 3) != 0 {
		t.Error("lower bound must map to the first index")
	}
	if Index(ConstNoise(0.5), 0) != 0 {
		t.Error("empty range must yield zero")
	}
}
