package dynamo

import (
	"math/rand"
	"sync/atomic"
	"time"
)

// Noise is a source of uniform samples. Implementations need not be safe for
// concurrent use; each rhythm owns its own source.
type Noise interface {
	// Uniform returns a sample in [lo, hi).
	Uniform(lo, hi float64) float64
}

// RandNoise draws from math/rand.
type RandNoise struct {
	r *rand.Rand
}

var seedCounter atomic.Int64

func NewRandNoise(seed int64) *RandNoise {
	return &RandNoise{r: rand.New(rand.NewSource(seed))}
}

// NewNoise returns an unseeded-looking generator. Generators created in the
// same nanosecond still get distinct seeds.
func NewNoise() *RandNoise {
	return NewRandNoise(time.Now().UnixNano() + seedCounter.Add(1)*7919)
}

func (n *RandNoise) Uniform(lo, hi float64) float64 {
	return lo + n.r.Float64()*(hi-lo)
}

// ScriptedNoise replays unit samples, cycling when exhausted. A unit u maps
// to lo + u*(hi-lo), so a script is independent of the requested range.
type ScriptedNoise struct {
	units []float64
	next  int
	draws int
}

func NewScriptedNoise(units ...float64) *ScriptedNoise {
	if len(units) == 0 {
		units = []float64{0.5}
	}
	return &ScriptedNoise{units: units}
}

func (s *ScriptedNoise) Uniform(lo, hi float64) float64 {
	u := s.units[s.next]
	s.next = (s.next + 1) % len(s.units)
	s.draws++
	return lo + u*(hi-lo)
}

// Draws reports how many samples have been taken.
func (s *ScriptedNoise) Draws() int { return s.draws }

// ConstNoise always returns the same position within the requested range:
// 0 is the lower bound, 0.5 the midpoint, 1 the upper bound.
type ConstNoise float64

func (c ConstNoise) Uniform(lo, hi float64) float64 {
	return lo + float64(c)*(hi-lo)
}

// Chance reports whether an event with probability p fires.
func Chance(n Noise, p float64) bool {
	return n.Uniform(0, 1) < p
}

// Index picks an index in [0, length).
func Index(n Noise, length int) int {
	if length <= 0 {
		return 0
	}
	i := int(n.Uniform(0, float64(length)))
	if i >= length {
		i = length - 1
	}
	if i < 0 {
		i = 0
	}
	return i
}
