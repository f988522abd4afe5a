package dynamo

import (
	"fmt"
	"math"
	"time"
)

// Kind identifies one of the five rhythm models.
type Kind int

const (
	OscillatorNetwork Kind = iota
	Criticality
	TensionRelease
	VortexField
	Attention

	kindCount
)

// wire names are what front-ends send; aliases are the descriptive names.
var (
	kindNames   = [kindCount]string{"multi_temporal", "critical_phi", "prediction_tension", "semantic_vortex", "attention_wandering"}
	kindAliases = [kindCount]string{"oscillator-network", "criticality", "tension-release", "vortex-field", "attention"}
)

// Kinds returns every kind in declaration order.
func Kinds() []Kind {
	out := make([]Kind, 0, kindCount)
	for k := Kind(0); k < kindCount; k++ {
		out = append(out, k)
	}
	return out
}

func (k Kind) Valid() bool { return k >= 0 && k < kindCount }

func (k Kind) String() string {
	if !k.Valid() {
		return fmt.Sprintf("Kind(%d)", int(k))
	}
	return kindNames[k]
}

// Alias returns the descriptive name of the kind, e.g. "vortex-field".
func (k Kind) Alias() string {
	if !k.Valid() {
		return ""
	}
	return kindAliases[k]
}

// ParseKind resolves a wire name or alias. Anything else wraps ErrUnknownRhythm.
func ParseKind(s string) (Kind, error) {
	for k := Kind(0); k < kindCount; k++ {
		if s == kindNames[k] || s == kindAliases[k] {
			return k, nil
		}
	}
	return -1, fmt.Errorf("%w: %q", ErrUnknownRhythm, s)
}

func (k Kind) MarshalText() ([]byte, error) {
	if !k.Valid() {
		return nil, fmt.Errorf("%w: %d", ErrUnknownRhythm, int(k))
	}
	return []byte(kindNames[k]), nil
}

func (k *Kind) UnmarshalText(text []byte) error {
	parsed, err := ParseKind(string(text))
	if err != nil {
		return err
	}
	*k = parsed
	return nil
}

// Rhythm is a stochastic dynamical system advanced by caller-supplied deltas.
type Rhythm interface {
	Kind() Kind
	Update(dt float64)
	Snapshot(timestamp float64) Snapshot
}

// Snapshot is a read-only projection of a rhythm at sampling time.
type Snapshot struct {
	Kind      Kind           `json:"rhythm_type"`
	Timestamp float64        `json:"timestamp"`
	Values    []float64      `json:"values"`
	Metadata  map[string]any `json:"metadata"`
}

// Value returns values[i], or 0 when the channel does not exist.
func (s Snapshot) Value(i int) float64 {
	if i < 0 || i >= len(s.Values) {
		return 0
	}
	return s.Values[i]
}

// Flag reads a boolean metadata entry; missing or non-bool entries read false.
func (s Snapshot) Flag(key string) bool {
	b, _ := s.Metadata[key].(bool)
	return b
}

// Number reads a numeric metadata entry.
func (s Snapshot) Number(key string) (float64, bool) {
	switch v := s.Metadata[key].(type) {
	case float64:
		return v, true
	case int:
		return float64(v), true
	}
	return 0, false
}

// IsValid reports whether every value is finite.
func (s Snapshot) IsValid() bool {
	for _, v := range s.Values {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return false
		}
	}
	return true
}

// Now returns wall-clock seconds since the Unix epoch.
func Now() float64 {
	return Seconds(time.Now())
}

func Seconds(t time.Time) float64 {
	return float64(t.UnixNano()) / float64(time.Second)
}

// MaxDelta is the longest single update, one day of simulated time.
const MaxDelta = 86400.0

// ValidDelta reports whether dt is an acceptable update delta.
func ValidDelta(dt float64) bool {
	return dt >= 0 && dt <= MaxDelta && !math.IsNaN(dt)
}
