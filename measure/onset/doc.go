// Package onset finds note onsets in a sample by spectral flux.
//
// [Analyze] mixes the source down to mono, runs a Hann-windowed STFT and
// picks local maxima of the positive spectral difference that rise above an
// adaptive threshold. It is meant for sample preprocessing and may take a
// while on long samples; it honours context cancellation and an abort hook.
package onset
