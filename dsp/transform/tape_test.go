package transform

import (
	"testing"

	"github.com/cwbudde/algo-blink/dsp/block"
	"github.com/cwbudde/algo-blink/dsp/core"
	"github.com/cwbudde/algo-blink/dsp/points"
	"github.com/cwbudde/algo-blink/internal/testutil"
)

func TestTapeEndToEndPitchRamp(t *testing.T) {
	tape := NewTape()
	p := block.FromSlice(testutil.Ramp(0, 1, core.VectorSize))

	tape.Xform(TapeConfig{UnitStateID: 1, Pitch: octaveRamp()}, &p)

	want := testutil.SumRates(testutil.PitchRate(func(j float64) float64 { return 12 * j / 100 }), core.VectorSize)
	testutil.RequireSliceRelativelyEqual(t, tape.ReversedPositions().Values(), want, 1e-4, 1)
	testutil.RequireSliceNearlyEqual(t, tape.WarpedPositions().Values(), tape.ReversedPositions().Values(), 0)
}

func TestTapeSampleOffset(t *testing.T) {
	tape := NewTape()
	p := block.FromSlice(testutil.Ramp(0, 1, 8))

	tape.Xform(TapeConfig{SampleOffset: 10}, &p)

	testutil.RequireSliceNearlyEqual(t, tape.ReversedPositions().Values(), testutil.Ramp(-10, 1, 8), 0)
	testutil.RequireSliceNearlyEqual(t, tape.PitchedPositions().Values(), testutil.Ramp(-10, 1, 8), 0)
}

func TestTapeDerivativeChainRule(t *testing.T) {
	tape := NewTape()
	p := block.FromSlice(testutil.Ramp(0, 1, 16))

	cfg := TapeConfig{
		Transpose:  12,
		WarpPoints: &points.WarpPoints{Points: []points.WarpPoint{{X: 0, Y: 0}, {X: 200, Y: 100}}},
		Outputs:    Outputs{RateDerivatives: true, WarpDerivatives: true},
	}
	tape.Xform(cfg, &p)

	testutil.RequireSliceNearlyEqual(t, tape.PitchedDerivatives(), testutil.Ramp(2, 0, 16), 0)
	testutil.RequireSliceNearlyEqual(t, tape.WarpedDerivatives(), testutil.Ramp(2, 0, 16), 0)
	testutil.RequireSliceNearlyEqual(t, tape.Derivatives(), testutil.Ramp(4, 0, 16), 1e-12)
	testutil.RequireSliceNearlyEqual(t, tape.ReversedPositions().Values(), testutil.Ramp(0, 4, 16), 1e-9)

	cfg.Outputs.WarpDerivatives = false
	tape.Xform(cfg, &p)
	if tape.Derivatives() != nil {
		t.Fatal("Derivatives() must be nil unless both stages report derivatives")
	}
}

func TestTapeReversePointsFollowPitch(t *testing.T) {
	tape := NewTape()
	p := block.FromSlice(testutil.Ramp(0, 1, 32))

	cfg := TapeConfig{
		Transpose: 12,
		Reverse: reversePoints(
			points.IntPoint{X: 0, Y: ReverseOff},
			points.IntPoint{X: 10, Y: ReverseTape},
		),
		Outputs: Outputs{CorrectionGrains: true, RateDerivatives: true, WarpDerivatives: true},
	}
	tape.Xform(cfg, &p)

	// the tape point sits at nominal 10, pitched 20
	if got := tape.ReversedPositions().At(15); got != 10 {
		t.Fatalf("slot 15 = %v, want 10", got)
	}
	if got := tape.ReversedPositions().At(9); got != 18 {
		t.Fatalf("slot 9 = %v, want 18", got)
	}
	if got := tape.ReverseDirections()[15]; got != -1 {
		t.Fatalf("direction at slot 15 = %v, want -1", got)
	}
	if got := tape.Derivatives()[15]; got != -2 {
		t.Fatalf("derivative at slot 15 = %v, want -2", got)
	}

	grains := tape.CorrectionGrains()
	if grains.Count != 1 || grains.BufferIndex[0] != 10 {
		t.Fatalf("grains = %d at %v, want 1 at slot 10", grains.Count, grains.BufferIndex[:grains.Count])
	}
	if g := grains.At(0); g.FF != 2 || g.Length != maxGrainLength {
		t.Fatalf("grain = %+v, want ff 2 and full length", g)
	}
}

func TestTapeBlocksMatchSingleRun(t *testing.T) {
	cfg := TapeConfig{
		UnitStateID:  3,
		Pitch:        wobble(),
		SampleOffset: 7,
		WarpPoints:   &points.WarpPoints{Points: []points.WarpPoint{{X: 0, Y: 0}, {X: 400, Y: 300}}},
		Reverse: reversePoints(
			points.IntPoint{X: 20, Y: ReverseOff},
			points.IntPoint{X: 70, Y: ReverseTape},
			points.IntPoint{X: 100, Y: ReverseOff},
		),
	}

	// a long run split into blocks must agree with each block computed from scratch
	running := NewTape()
	p := block.NewPositions()

	for blk := range 4 {
		src := testutil.Ramp(float64(blk*core.VectorSize), 1, core.VectorSize)
		p.Add(src)
		running.Xform(cfg, &p)

		fresh := NewTape()
		single := block.FromSlice(src)
		fresh.Xform(cfg, &single)

		testutil.RequireSliceRelativelyEqual(t, running.ReversedPositions().Values(), fresh.ReversedPositions().Values(), 1e-9, 1)
	}
}

func TestTapeStateChangeResets(t *testing.T) {
	tape := NewTape()
	cfg := TapeConfig{UnitStateID: 1, Pitch: octaveRamp()}

	p := block.FromSlice(testutil.Ramp(0, 1, core.VectorSize))
	tape.Xform(cfg, &p)

	cfg.UnitStateID = 2
	p.Add(testutil.Ramp(64, 1, core.VectorSize))
	tape.Xform(cfg, &p)

	if !tape.Resets().Has(0) {
		t.Fatal("state id change must reset slot 0")
	}

	tape.Reset()
	p.Add(testutil.Ramp(128, 1, core.VectorSize))
	tape.Xform(cfg, &p)

	if !tape.Resets().Has(0) {
		t.Fatal("Reset must force slot 0")
	}
}

func BenchmarkTapeXform(b *testing.B) {
	tape := NewTape()
	cfg := TapeConfig{
		Pitch:      wobble(),
		WarpPoints: &points.WarpPoints{Points: []points.WarpPoint{{X: 0, Y: 0}, {X: 1 << 20, Y: 1 << 19}}},
		Reverse: reversePoints(
			points.IntPoint{X: 0, Y: ReverseOff},
			points.IntPoint{X: 1 << 18, Y: ReverseTape},
		),
		Outputs: Outputs{RateDerivatives: true, WarpDerivatives: true, CorrectionGrains: true},
	}

	p := block.NewPositions()
	src := make([]float64, core.VectorSize)
	pos := 0.0

	b.ReportAllocs()
	b.ResetTimer()

	for range b.N {
		for i := range src {
			src[i] = pos
			pos++
		}
		p.Add(src)
		tape.Xform(cfg, &p)
	}
}
