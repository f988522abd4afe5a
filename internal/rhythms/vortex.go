package rhythms

import "github.com/san-kum/rhythms/internal/dynamo"

const (
	softening   = 0.1
	minDistance = 0.01
	spin        = 0.5
	zJitter     = 0.1
	driftChance = 0.01
	driftStep   = 0.1
	maxSpeed    = 50.0
)

type VortexParams struct {
	Attractors int     `yaml:"attractors"`
	Repellers  int     `yaml:"repellers"`
	Strength   float64 `yaml:"strength"`
	Damping    float64 `yaml:"damping"`
}

func DefaultVortexParams() VortexParams {
	return VortexParams{Attractors: 3, Repellers: 2, Strength: 0.5, Damping: 0.98}
}

// VortexField moves a point through superposed attractor and repeller
// potentials with a rotational term. Position is unbounded; speed is capped at
// maxSpeed so long deltas cannot overflow the state.
type VortexField struct {
	attractors []dynamo.Vec3
	repellers  []dynamo.Vec3
	position   dynamo.Vec3
	velocity   dynamo.Vec3
	strength   float64
	damping    float64
	noise      dynamo.Noise
}

func NewVortexField(p VortexParams, noise dynamo.Noise) *VortexField {
	return &VortexField{
		attractors: randomPoints(noise, p.Attractors),
		repellers:  randomPoints(noise, p.Repellers),
		strength:   p.Strength,
		damping:    p.Damping,
		noise:      noise,
	}
}

func randomPoints(noise dynamo.Noise, n int) []dynamo.Vec3 {
	pts := make([]dynamo.Vec3, n)
	for i := range pts {
		pts[i] = dynamo.Vec3{
			X: noise.Uniform(-1, 1),
			Y: noise.Uniform(-1, 1),
			Z: noise.Uniform(-1, 1),
		}
	}
	return pts
}

func (v *VortexField) Kind() dynamo.Kind { return dynamo.VortexField }

// Force returns the net force at the current position, excluding the random
// z component of the rotational term.
func (v *VortexField) Force() dynamo.Vec3 {
	var force dynamo.Vec3

	for _, a := range v.attractors {
		dir := a.Sub(v.position)
		d := dir.Norm()
		if d > minDistance {
			force = force.Add(dir.Normalize().Scale(v.strength / (d + softening)))
		}
	}

	for _, r := range v.repellers {
		dir := v.position.Sub(r)
		d := dir.Norm()
		if d > minDistance {
			force = force.Add(dir.Normalize().Scale(v.strength * 0.5 / (d + softening)))
		}
	}

	force.X += -v.position.Y * spin
	force.Y += v.position.X * spin
	return force
}

func (v *VortexField) Update(dt float64) {
	force := v.Force()
	force.Z += v.noise.Uniform(-zJitter, zJitter)

	v.velocity = v.velocity.Add(force.Scale(dt)).Scale(v.damping)
	if speed := v.velocity.Norm(); speed > maxSpeed {
		v.velocity = v.velocity.Scale(maxSpeed / speed)
	}
	v.position = v.position.Add(v.velocity.Scale(dt))

	if len(v.attractors) > 0 && dynamo.Chance(v.noise, driftChance*dt) {
		i := dynamo.Index(v.noise, len(v.attractors))
		v.attractors[i] = v.attractors[i].Add(dynamo.Vec3{
			X: v.noise.Uniform(-driftStep, driftStep),
			Y: v.noise.Uniform(-driftStep, driftStep),
			Z: v.noise.Uniform(-driftStep, driftStep),
		})
	}
}

func (v *VortexField) Snapshot(timestamp float64) dynamo.Snapshot {
	return dynamo.Snapshot{
		Kind:      dynamo.VortexField,
		Timestamp: timestamp,
		Values:    []float64{v.position.X, v.position.Y, v.position.Z, v.velocity.Norm()},
		Metadata: map[string]any{
			"velocity":           v.velocity.Slice(),
			"num_attractors":     len(v.attractors),
			"num_repellers":      len(v.repellers),
			"position_magnitude": v.position.Norm(),
		},
	}
}
