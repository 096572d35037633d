package transform

import (
	"math"
	"testing"

	"github.com/cwbudde/algo-blink/dsp/block"
	"github.com/cwbudde/algo-blink/dsp/core"
	"github.com/cwbudde/algo-blink/dsp/points"
	"github.com/cwbudde/algo-blink/internal/testutil"
)

func speedRamp() *points.RealPoints {
	return &points.RealPoints{
		Data: []points.RealPoint{{X: 0, Y: 1}, {X: 100, Y: 2}},
		Min:  0,
		Max:  4,
	}
}

func TestSpeedLinearRamp(t *testing.T) {
	cfg := SpeedConfig{Speed: 1, Env: speedRamp()}

	var u SpeedUnit
	for _, n := range []float64{0, 1, 10, 50, 99.5} {
		var d float64
		got := u.Xform(cfg, n, &d)

		want := n + n*n/200
		if !core.NearlyEqual(got, want, 1e-12) {
			t.Fatalf("pos %v: got %v, want %v", n, got, want)
		}
		if !core.NearlyEqual(d, 1+n/100, 1e-12) {
			t.Fatalf("pos %v: derivative %v, want %v", n, d, 1+n/100)
		}
	}

	// held at rate 2 past the last point
	var d float64
	got := u.Xform(cfg, 110, &d)
	if want := 150.0 + 20; !core.NearlyEqual(got, want, 1e-12) || d != 2 {
		t.Fatalf("pos 110: got (%v, %v), want (%v, 2)", got, d, want)
	}
}

func TestSpeedNoModulation(t *testing.T) {
	tests := []struct {
		name string
		cfg  SpeedConfig
		ff   float64
	}{
		{name: "nil", cfg: SpeedConfig{Speed: 0.5}, ff: 0.5},
		{name: "empty", cfg: SpeedConfig{Speed: 2, Env: &points.RealPoints{Min: 0, Max: 0.75}}, ff: 1.5},
		{name: "single point", cfg: SpeedConfig{Speed: 2, Env: &points.RealPoints{Data: []points.RealPoint{{X: 8, Y: 1.5}}, Min: 0, Max: 4}}, ff: 3},
	}

	history := []float64{3, 70, 1, 9, 7, 200}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var c Speed

			in := block.FromSlice(history)
			out := block.NewPositions()
			c.Xform(tt.cfg, &in, 0, &out, nil)

			for i, pos := range history {
				if got := out.At(i); !core.NearlyEqual(got, pos*tt.ff, 1e-12) {
					t.Fatalf("pos %v: got %v, want %v", pos, got, pos*tt.ff)
				}
			}
		})
	}
}

func TestSpeedSegmentContinuity(t *testing.T) {
	cfg := SpeedConfig{
		Speed: 1.5,
		Env: &points.RealPoints{
			Data: []points.RealPoint{{X: 10, Y: 0.5}, {X: 30, Y: 3}, {X: 31, Y: 0}, {X: 80, Y: 1}},
			Min:  0,
			Max:  4,
		},
	}

	const eps = 1e-6
	maxRate := 3 * cfg.Speed

	var u SpeedUnit
	for _, p := range cfg.Env.Data {
		before := u.Xform(cfg, p.X-eps, nil)
		after := u.Xform(cfg, p.X+eps, nil)

		if diff := math.Abs(after - before); diff > 2.01*eps*maxRate {
			t.Fatalf("jump of %v at x=%v", diff, p.X)
		}
	}
}

func TestSpeedResetEquivalence(t *testing.T) {
	cfg := SpeedConfig{Speed: 1, Env: speedRamp()}
	src := testutil.LoopRamp(80, 0, 45, core.VectorSize)

	in := block.FromSlice(src)
	in.PrevPos = 79

	var tr block.Traverser
	resets := tr.Generate(1, &in, in.Count)

	var c Speed
	out := block.NewPositions()
	derivs := make([]float64, core.VectorSize)
	c.Xform(cfg, &in, resets, &out, derivs)

	replay := block.FromSlice(src[45:])
	var fresh Speed
	freshOut := block.NewPositions()
	freshDerivs := make([]float64, replay.Count)
	fresh.Xform(cfg, &replay, block.ResetMask(0).Set(0), &freshOut, freshDerivs)

	testutil.RequireSliceNearlyEqual(t, out.Values()[45:], freshOut.Values(), 0)
	testutil.RequireSliceNearlyEqual(t, derivs[45:], freshDerivs, 0)
}
