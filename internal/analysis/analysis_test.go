package analysis

import (
	"math"
	"testing"
)

func sine(freq, rate float64, n int) []float64 {
	out := make([]float64, n)
	for i := range out {
		out[i] = math.Sin(2 * math.Pi * freq * float64(i) / rate)
	}
	return out
}

func TestFFTTruncatesToPowerOfTwo(t *testing.T) {
	tests := []struct {
		n    int
		want int
	}{
		{0, 0}, {1, 1}, {2, 2}, {3, 2}, {100, 64}, {128, 128},
	}

	for _, tt := range tests {
		if got := len(FFT(make([]float64, tt.n))); got != tt.want {
			t.Errorf("len %d: expected %d bins, got %d", tt.n, tt.want, got)
		}
	}
}

func TestFFTConstant(t *testing.T) {
	out := FFT([]float64{1, 1, 1, 1})
	if math.Abs(real(out[0])-4) > 1e-12 {
		t.Errorf("expected DC 4, got %v", out[0])
	}
	for i := 1; i < len(out); i++ {
		if math.Abs(real(out[i])) > 1e-12 || math.Abs(imag(out[i])) > 1e-12 {
			t.Errorf("bin %d should be zero, got %v", i, out[i])
		}
	}
}

func TestDominantFrequency(t *testing.T) {
	if got := DominantFrequency(sine(1, 16, 64), 16); math.Abs(got-1) > 1e-9 {
		t.Errorf("expected 1 Hz, got %f", got)
	}
	if got := DominantFrequency(sine(2, 16, 70), 16); math.Abs(got-2) > 1e-9 {
		t.Errorf("expected 2 Hz after truncation, got %f", got)
	}
}

func TestDominantFrequencyFlat(t *testing.T) {
	if got := DominantFrequency([]float64{3, 3, 3, 3, 3, 3, 3, 3}, 10); got != 0 {
		t.Errorf("flat channel should report 0, got %f", got)
	}
	if got := DominantFrequency([]float64{1}, 10); got != 0 {
		t.Errorf("short channel should report 0, got %f", got)
	}
}

func TestSummarize(t *testing.T) {
	s := Summarize([]float64{2, 4, 4, 4, 5, 5, 7, 9})
	if s.Count != 8 || s.Mean != 5 || s.Min != 2 || s.Max != 9 {
		t.Errorf("unexpected summary %+v", s)
	}
	if math.Abs(s.StdDev-2) > 1e-12 {
		t.Errorf("expected std dev 2, got %f", s.StdDev)
	}

	if (Summarize(nil) != Summary{}) {
		t.Error("empty channel should summarize to zero")
	}
}

func TestPhasePortraitFromRows(t *testing.T) {
	rows := [][]float64{{0, 0, 1}, {1, 1}, {0.5, -0.5, 2}}

	p := PhasePortraitFromRows(rows, 0, 2)
	if p == nil || len(p.Points) != 2 {
		t.Fatalf("expected 2 points, got %+v", p)
	}

	if PhasePortraitFromRows(rows, 5, 6) != nil {
		t.Error("missing channels should give nil portrait")
	}

	pairs := p.Pairs()
	if pairs[1] != [2]float64{0.5, 2} {
		t.Errorf("unexpected second pair %v", pairs[1])
	}
	if (*PhasePortrait2D)(nil).Pairs() != nil {
		t.Error("nil portrait should give no pairs")
	}
}

func TestCrossings(t *testing.T) {
	rows := [][]float64{{0.1, 1, 2}, {0.9, 3, 4}, {0.2, 5, 6}, {0.85, 7, 8}}

	c := Crossings(rows, 0, 0.8, 1, 2)
	if len(c.Points) != 2 {
		t.Fatalf("expected 2 crossings, got %d", len(c.Points))
	}
	if c.Points[1].X != 7 || c.Points[1].Y != 8 {
		t.Errorf("unexpected crossing %+v", c.Points[1])
	}
}
