// Package transform converts nominal block positions into sample read
// positions.
//
// Each stage has two layers. A unit calculator (PitchUnit, SpeedUnit,
// WarpUnit, ReverseUnit) maps a single position and keeps a resumable cursor
// plus an accumulated segment start, so that monotonic playback costs O(1) per
// position regardless of how far into the envelope it is. A block calculator
// (Pitch, Speed, Warp, Reverse) drives its unit over a [block.Positions]
// window, resetting it wherever the supplied [block.ResetMask] says playback
// jumped backward.
//
// [Tape] and [Stretch] compose the stages in fixed order:
//
//	pitch or speed -> sample offset -> warp -> reverse
//
// and expose every intermediate stage for waveform drawing. Derivatives
// (instantaneous playback rate) are propagated with the chain rule when
// requested.
//
// Calculators are not thread-safe. After construction they do not allocate.
package transform
