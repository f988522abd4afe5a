// Package dynamo provides the core primitives shared by every rhythm model.
//
// The package defines the vocabulary the engine is built from:
//
//   - [Kind]: closed enumeration of the five rhythm models
//   - [Rhythm]: a stochastic model that can be advanced and sampled
//   - [Snapshot]: immutable, timestamped projection of a model's state
//   - [Noise]: injectable source of uniform samples
//   - [Vec2], [Vec3]: small vector helpers used by the spatial models
//
// # Example
//
//	osc := rhythms.NewOscillatorNetwork(rhythms.DefaultOscillatorParams(), dynamo.NewNoise())
//	osc.Update(0.016)
//	snap := osc.Snapshot(dynamo.Now())
//
// # Thread Safety
//
// Rhythm implementations are NOT thread-safe. Concurrent callers must go
// through sim.Registry, which owns one lock per model.
package dynamo
