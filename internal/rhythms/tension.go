package rhythms

import "github.com/san-kum/rhythms/internal/dynamo"

const (
	maxErrorSample   = 0.3
	intensityDecay   = 0.95
	tensionDecay     = 0.9
	releaseGain      = 2.0
	releaseFloor     = 0.01
	defaultErrorCap  = 100
	defaultThreshold = 0.8
)

type TensionParams struct {
	Capacity  int     `yaml:"capacity"`
	Threshold float64 `yaml:"threshold"`
}

func DefaultTensionParams() TensionParams {
	return TensionParams{Capacity: defaultErrorCap, Threshold: defaultThreshold}
}

// TensionRelease accumulates prediction errors into a tension level that is
// normalised against buffer capacity, not current length.
type TensionRelease struct {
	errors    []float64
	capacity  int
	tension   float64
	threshold float64

	releasing bool
	intensity float64

	noise dynamo.Noise
}

func NewTensionRelease(p TensionParams, noise dynamo.Noise) *TensionRelease {
	capacity := p.Capacity
	if capacity <= 0 {
		capacity = defaultErrorCap
	}
	return &TensionRelease{
		errors:    make([]float64, 0, capacity+1),
		capacity:  capacity,
		threshold: p.Threshold,
		noise:     noise,
	}
}

func (tr *TensionRelease) Kind() dynamo.Kind { return dynamo.TensionRelease }

func (tr *TensionRelease) Update(dt float64) {
	tr.push(tr.noise.Uniform(0, maxErrorSample) * dt)

	if tr.releasing {
		tr.intensity *= intensityDecay
		tr.tension *= tensionDecay

		if tr.intensity < releaseFloor {
			tr.releasing = false
			tr.intensity = 0
			tr.errors = tr.errors[:0]
			tr.tension = 0
		}
		return
	}

	tr.tension = tr.sum() / float64(tr.capacity)
	if tr.tension > tr.threshold {
		tr.releasing = true
		tr.intensity = tr.tension * releaseGain
	}
}

func (tr *TensionRelease) push(e float64) {
	tr.errors = append(tr.errors, e)
	if len(tr.errors) > tr.capacity {
		copy(tr.errors, tr.errors[1:])
		tr.errors = tr.errors[:tr.capacity]
	}
}

func (tr *TensionRelease) sum() float64 {
	s := 0.0
	for _, e := range tr.errors {
		s += e
	}
	return s
}

// variance is the population variance of the buffer; zero below two samples.
func (tr *TensionRelease) variance() float64 {
	n := len(tr.errors)
	if n < 2 {
		return 0
	}
	mean := tr.sum() / float64(n)
	v := 0.0
	for _, e := range tr.errors {
		d := e - mean
		v += d * d
	}
	return v / float64(n)
}

func (tr *TensionRelease) Snapshot(timestamp float64) dynamo.Snapshot {
	return dynamo.Snapshot{
		Kind:      dynamo.TensionRelease,
		Timestamp: timestamp,
		Values:    []float64{tr.tension, tr.intensity},
		Metadata: map[string]any{
			"release_active": tr.releasing,
			"buffer_size":    len(tr.errors),
			"variance":       tr.variance(),
		},
	}
}
