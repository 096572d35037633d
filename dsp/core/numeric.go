package core

import "math"

const defaultEpsilon = 1e-12

// VectorSize is the number of frames processed per block.
const VectorSize = 64

// Clamp limits value to the inclusive range [min, max].
func Clamp(value, min, max float64) float64 {
	if min > max {
		min, max = max, min
	}

	if value < min {
		return min
	}

	if value > max {
		return max
	}

	return value
}

// NearlyEqual reports whether a and b are equal within eps.
func NearlyEqual(a, b, eps float64) bool {
	if eps <= 0 {
		eps = defaultEpsilon
	}

	diff := math.Abs(a - b)
	if diff <= eps {
		return true
	}

	largest := math.Max(math.Abs(a), math.Abs(b))
	if largest == 0 {
		return diff <= eps
	}

	return diff/largest <= eps
}

// Lerp linearly interpolates between a and b.
func Lerp(a, b, t float64) float64 {
	return a + t*(b-a)
}

// InverseLerp returns the fraction of v between a and b.
// Returns 0 when a == b.
func InverseLerp(a, b, v float64) float64 {
	if a == b {
		return 0
	}

	return (v - a) / (b - a)
}

// PitchToFF converts a pitch offset in semitones to a frequency factor.
func PitchToFF(semitones float64) float64 {
	return math.Exp2(semitones / 12)
}

// FFToPitch converts a frequency factor to a pitch offset in semitones.
// Returns NaN for non-positive factors.
func FFToPitch(ff float64) float64 {
	if ff <= 0 {
		return math.NaN()
	}

	return 12 * math.Log2(ff)
}

// Wrap folds x into [0, length). Returns x unchanged when length <= 0.
func Wrap(x, length float64) float64 {
	if length <= 0 {
		return x
	}

	r := math.Mod(x, length)
	if r < 0 {
		r += length
	}

	return r
}

// LinearToDB converts linear amplitude to dB (20*log10 convention).
// Returns -Inf for zero and NaN for negative values.
func LinearToDB(linear float64) float64 {
	if linear < 0 {
		return math.NaN()
	}

	if linear == 0 {
		return math.Inf(-1)
	}

	return 20 * math.Log10(linear)
}
