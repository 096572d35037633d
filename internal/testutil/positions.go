package testutil

import "math"

// Ramp returns n positions starting at start and advancing by step.
func Ramp(start, step float64, n int) []float64 {
	out := make([]float64, n)
	for i := range out {
		out[i] = start + step*float64(i)
	}
	return out
}

// LoopRamp returns n unit-step positions that run from start and jump back to
// loopStart at slot jumpAt.
func LoopRamp(start, loopStart float64, jumpAt, n int) []float64 {
	out := make([]float64, n)
	for i := range out {
		if i < jumpAt {
			out[i] = start + float64(i)
		} else {
			out[i] = loopStart + float64(i-jumpAt)
		}
	}
	return out
}

// SumRates integrates rate one frame at a time: out[k] = sum of rate(j) for j < k.
func SumRates(rate func(frame float64) float64, n int) []float64 {
	out := make([]float64, n)
	acc := 0.0
	for k := range out {
		out[k] = acc
		acc += rate(float64(k))
	}
	return out
}

// PitchRate converts a semitone curve into a playback rate curve.
func PitchRate(semitones func(frame float64) float64) func(float64) float64 {
	return func(frame float64) float64 {
		return math.Exp2(semitones(frame) / 12)
	}
}

// DeterministicSine generates a deterministic sine wave.
func DeterministicSine(freqHz, sampleRate, amplitude float64, length int) []float64 {
	out := make([]float64, length)
	step := 2 * math.Pi * freqHz / sampleRate
	for i := range out {
		out[i] = amplitude * math.Sin(step*float64(i))
	}
	return out
}
