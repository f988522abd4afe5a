package rhythms

import (
	"math"

	"github.com/san-kum/rhythms/internal/dynamo"
)

const (
	phiMin         = 0.0
	phiMax         = 1.5
	driftRate      = 0.1
	avalancheGain  = 10.0
	avalancheMinS  = 0.5
	avalancheMaxS  = 2.0
	matrixJitter   = 0.01
	defaultNetSize = 5
)

type CriticalityParams struct {
	Phi         float64 `yaml:"phi"`
	Target      float64 `yaml:"target"`
	Fluctuation float64 `yaml:"fluctuation"`
	Threshold   float64 `yaml:"threshold"`
	Size        int     `yaml:"size"`
	// MaxCoupling bounds the initial off-diagonal matrix entries.
	MaxCoupling float64 `yaml:"max_coupling"`
}

func DefaultCriticalityParams() CriticalityParams {
	return CriticalityParams{
		Phi:         0.5,
		Target:      0.7,
		Fluctuation: 0.1,
		Threshold:   0.85,
		Size:        defaultNetSize,
		MaxCoupling: 0.5,
	}
}

// Criticality holds phi near a critical target. Crossing the threshold starts
// an avalanche of large excursions that ends by snapping phi back to target.
type Criticality struct {
	phi         float64
	target      float64
	fluctuation float64
	threshold   float64

	avalanche bool
	remaining float64

	matrix [][]float64
	noise  dynamo.Noise
}

func NewCriticality(p CriticalityParams, noise dynamo.Noise) *Criticality {
	n := p.Size
	if n <= 0 {
		n = defaultNetSize
	}
	matrix := make([][]float64, n)
	for i := range matrix {
		matrix[i] = make([]float64, n)
		for j := range matrix[i] {
			if i != j {
				matrix[i][j] = noise.Uniform(0, p.MaxCoupling)
			}
		}
	}

	return &Criticality{
		phi:         dynamo.Clamp(p.Phi, phiMin, phiMax),
		target:      p.Target,
		fluctuation: p.Fluctuation,
		threshold:   p.Threshold,
		matrix:      matrix,
		noise:       noise,
	}
}

func (c *Criticality) Kind() dynamo.Kind { return dynamo.Criticality }

func (c *Criticality) Update(dt float64) {
	if c.avalanche {
		c.phi += c.noise.Uniform(-0.5, 0.5) * dt * avalancheGain
		c.remaining -= dt

		if c.remaining <= 0 {
			c.avalanche = false
			c.remaining = 0
			c.phi = c.target
		}
	} else {
		drift := (c.target - c.phi) * driftRate
		noise := c.noise.Uniform(-1, 1) * c.fluctuation
		c.phi += (drift + noise) * dt

		if c.phi > c.threshold {
			c.avalanche = true
			c.remaining = c.noise.Uniform(avalancheMinS, avalancheMaxS)
		}
	}

	c.phi = dynamo.Clamp(c.phi, phiMin, phiMax)

	for i := range c.matrix {
		for j := range c.matrix[i] {
			if i == j {
				continue
			}
			c.matrix[i][j] += c.noise.Uniform(-matrixJitter, matrixJitter) * dt
			c.matrix[i][j] = dynamo.Clamp(c.matrix[i][j], 0, 1)
		}
	}
}

func (c *Criticality) Snapshot(timestamp float64) dynamo.Snapshot {
	sum := 0.0
	for _, row := range c.matrix {
		for _, v := range row {
			sum += v
		}
	}

	return dynamo.Snapshot{
		Kind:      dynamo.Criticality,
		Timestamp: timestamp,
		Values:    []float64{c.phi},
		Metadata: map[string]any{
			"avalanche_active":  c.avalanche,
			"matrix_complexity": sum,
			"criticality":       math.Abs(c.phi - c.target),
		},
	}
}
