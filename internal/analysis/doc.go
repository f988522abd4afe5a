// Package analysis characterises recorded rhythm channels.
//
//   - [PowerSpectrum] and [DominantFrequency]: where a channel's energy sits
//   - [Summarize]: mean, spread and range of a channel
//   - [PhasePortraitFromRows]: 2D trajectory of two channels, e.g. the
//     vortex x/y plane or the attention position
//
// # Oscillation check
//
// The multi-temporal network's fastest oscillator runs at 0.1 Hz, so a
// recording sampled at 10 Hz should peak near it:
//
//	f := analysis.DominantFrequency(channel, 10)
package analysis
