package rhythms

import "github.com/san-kum/rhythms/internal/dynamo"

const (
	positionBound  = 2.0
	wanderForce    = 0.5
	captureRadius  = 0.3
	captureRate    = 0.5
	approachRate   = 0.1
	boredomRate    = 0.1
	boredomLimit   = 1.0
	maxFocusSecs   = 5.0
	spawnRate      = 0.01
	noFocus        = -1
	defaultTargets = 5
	defaultMaxTgts = 8
)

type AttentionParams struct {
	Targets    int `yaml:"targets"`
	MaxTargets int `yaml:"max_targets"`
}

func DefaultAttentionParams() AttentionParams {
	return AttentionParams{Targets: defaultTargets, MaxTargets: defaultMaxTgts}
}

// Curiosity weights per novelty label. Reference data, never evolved.
var curiosity = map[string]float64{
	"novel":    0.8,
	"familiar": 0.2,
	"complex":  0.6,
}

// AttentionWander alternates between a random-walk search and a spring-like
// approach to one focused target.
type AttentionWander struct {
	position   dynamo.Vec2
	targets    []dynamo.Vec2
	maxTargets int
	boredom    float64
	focus      int
	focusTime  float64
	noise      dynamo.Noise
}

func NewAttentionWander(p AttentionParams, noise dynamo.Noise) *AttentionWander {
	maxTargets := p.MaxTargets
	if maxTargets <= 0 {
		maxTargets = defaultMaxTgts
	}
	a := &AttentionWander{
		targets:    make([]dynamo.Vec2, 0, maxTargets+1),
		maxTargets: maxTargets,
		focus:      noFocus,
		noise:      noise,
	}
	for i := 0; i < p.Targets && i < maxTargets; i++ {
		a.targets = append(a.targets, a.randomTarget())
	}
	return a
}

func (a *AttentionWander) randomTarget() dynamo.Vec2 {
	return dynamo.Vec2{X: a.noise.Uniform(-1, 1), Y: a.noise.Uniform(-1, 1)}
}

func (a *AttentionWander) Kind() dynamo.Kind { return dynamo.Attention }

// Focused reports whether a target is currently held.
func (a *AttentionWander) Focused() bool { return a.focus != noFocus }

func (a *AttentionWander) Update(dt float64) {
	a.boredom += dt * boredomRate

	if a.Focused() {
		a.focusTime += dt
		target := a.targets[a.focus]
		a.position = a.position.Add(target.Sub(a.position).Scale(approachRate * dt))

		if a.boredom > boredomLimit || a.focusTime > maxFocusSecs {
			a.release()
		}
	} else {
		push := dynamo.Vec2{
			X: a.noise.Uniform(-1, 1) * wanderForce,
			Y: a.noise.Uniform(-1, 1) * wanderForce,
		}
		a.position = a.position.Add(push.Scale(dt))

		// first qualifying target wins, not the closest
		for i, t := range a.targets {
			if t.Dist(a.position) < captureRadius && dynamo.Chance(a.noise, captureRate*dt) {
				a.focus = i
				break
			}
		}
	}

	a.position = a.position.Clamp(-positionBound, positionBound)

	if dynamo.Chance(a.noise, spawnRate*dt) {
		a.addTarget(a.randomTarget())
	}
}

func (a *AttentionWander) release() {
	a.focus = noFocus
	a.boredom = 0
	a.focusTime = 0
}

// addTarget appends t and evicts the oldest target past the ceiling. A focus
// on the evicted target is dropped; any other focus follows its target.
func (a *AttentionWander) addTarget(t dynamo.Vec2) {
	a.targets = append(a.targets, t)
	if len(a.targets) <= a.maxTargets {
		return
	}

	copy(a.targets, a.targets[1:])
	a.targets = a.targets[:a.maxTargets]

	switch {
	case a.focus == 0:
		a.focus = noFocus
		a.focusTime = 0
	case a.focus > 0:
		a.focus--
	}
}

func (a *AttentionWander) Snapshot(timestamp float64) dynamo.Snapshot {
	strength := 0.0
	if a.Focused() {
		strength = 1 - a.boredom
	}

	targets := make([][]float64, len(a.targets))
	for i, t := range a.targets {
		targets[i] = t.Slice()
	}

	weights := make(map[string]float64, len(curiosity))
	for k, v := range curiosity {
		weights[k] = v
	}

	return dynamo.Snapshot{
		Kind:      dynamo.Attention,
		Timestamp: timestamp,
		Values:    []float64{a.position.X, a.position.Y, a.boredom, strength},
		Metadata: map[string]any{
			"focused":        a.Focused(),
			"num_targets":    len(a.targets),
			"focus_duration": a.focusTime,
			"targets":        targets,
			"curiosity":      weights,
		},
	}
}
