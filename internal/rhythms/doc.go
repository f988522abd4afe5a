// Package rhythms provides the five stochastic rhythm models.
//
// Each model implements [dynamo.Rhythm]: Update advances internal state by a
// caller-supplied delta and Snapshot projects the state into values and
// metadata:
//
//   - [OscillatorNetwork]: coupled phase oscillators with chaotic jitter
//   - [Criticality]: homeostatic drift with avalanche bursts
//   - [TensionRelease]: bounded error history with threshold release
//   - [VortexField]: damped flow through attractor and repeller fields
//   - [AttentionWander]: search-and-lock attention over a target set
//
// All randomness goes through the [dynamo.Noise] passed to the constructor,
// so tests can script exact draws.
package rhythms
