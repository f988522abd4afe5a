// Package viz is the terminal dashboard for the five rhythms.
//
// [Dashboard] is a Bubble Tea program that polls a dispatcher once per frame
// the same way a desktop front-end does: update with the measured frame
// delta, then sample. Each rhythm gets a panel:
//
//   - multi_temporal: per-oscillator outputs and a plot of their sum
//   - critical_phi: phi plot with avalanche indicator
//   - prediction_tension: tension and release intensity bars
//   - semantic_vortex: braille trail of the x/y projection
//   - attention_wandering: braille plane with targets and focus
//
// # Key Bindings
//
//	Space - Pause/Resume polling
//	Tab   - Enlarge the next panel
//	T     - Cycle color themes
//	?     - Show help overlay
//	Q     - Quit
package viz
