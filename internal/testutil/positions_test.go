package testutil

import (
	"math"
	"testing"
)

func TestRamp(t *testing.T) {
	RequireSliceNearlyEqual(t, Ramp(2, 0.5, 4), []float64{2, 2.5, 3, 3.5}, 0)
}

func TestLoopRamp(t *testing.T) {
	RequireSliceNearlyEqual(t, LoopRamp(10, 0, 2, 4), []float64{10, 11, 0, 1}, 0)
}

func TestSumRatesConstant(t *testing.T) {
	got := SumRates(func(float64) float64 { return 2 }, 4)
	RequireSliceNearlyEqual(t, got, []float64{0, 2, 4, 6}, 0)
}

func TestPitchRate(t *testing.T) {
	rate := PitchRate(func(frame float64) float64 { return frame })
	if got := rate(12); math.Abs(got-2) > 1e-12 {
		t.Fatalf("rate(12) = %v, want 2", got)
	}
}

func TestDeterministicSine(t *testing.T) {
	s := DeterministicSine(1000, 48000, 1.0, 48)
	if len(s) != 48 {
		t.Fatalf("len = %d, want 48", len(s))
	}
	if math.Abs(s[0]) > 1e-15 {
		t.Fatalf("s[0] = %v, want 0", s[0])
	}
	for i, v := range s {
		if v < -1 || v > 1 {
			t.Fatalf("s[%d] = %v out of range", i, v)
		}
	}
}
