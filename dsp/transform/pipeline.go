package transform

import (
	"math"

	"github.com/cwbudde/algo-vecmath"

	"github.com/cwbudde/algo-blink/dsp/block"
	"github.com/cwbudde/algo-blink/dsp/core"
	"github.com/cwbudde/algo-blink/dsp/points"
)

// Outputs selects the optional pipeline outputs.
type Outputs struct {
	// RateDerivatives enables derivatives of the pitch or speed stage.
	RateDerivatives bool
	// WarpDerivatives enables derivatives of the warp stage.
	WarpDerivatives bool
	// CorrectionGrains enables grain generation in the reverse stage.
	CorrectionGrains bool
}

// stages holds the state shared by Tape and Stretch after the rate stage.
type stages struct {
	traverser block.Traverser
	resets    block.ResetMask

	positions struct {
		rated    block.Positions
		warped   block.Positions
		reversed block.Positions
	}

	derivatives struct {
		rated      [core.VectorSize]float64
		warped     [core.VectorSize]float64
		directions [core.VectorSize]float64
		combined   [core.VectorSize]float64
	}

	hasDerivatives bool
	grains         CorrectionGrains

	warp    Warp
	reverse Reverse
}

func newStages() stages {
	var s stages
	s.positions.rated = block.NewPositions()
	s.positions.warped = block.NewPositions()
	s.positions.reversed = block.NewPositions()
	return s
}

func (s *stages) ratedDerivatives(enabled bool) []float64 {
	if !enabled {
		return nil
	}
	return s.derivatives.rated[:]
}

// stageResets combines the block mask with backward jumps in a stage's own input.
func (s *stages) stageResets(in *block.Positions) block.ResetMask {
	return s.resets | block.Backward(in, in.Count)
}

// applyOffsetWarpReverse runs the stages that follow the rate stage.
func (s *stages) applyOffsetWarpReverse(sampleOffset int64, warp *points.WarpPoints, reverse *points.IntPoints, tf PointTransformer, out Outputs) {
	rated := &s.positions.rated
	rated.Shift(float64(sampleOffset))

	var warpDerivs []float64
	if out.WarpDerivatives {
		warpDerivs = s.derivatives.warped[:]
	}

	s.warp.Xform(warp, rated, s.stageResets(rated), &s.positions.warped, warpDerivs)

	cfg := ReverseConfig{Reverse: reverse, Transform: tf}
	if out.CorrectionGrains {
		cfg.Grains = &s.grains
	} else {
		s.grains.Clear()
	}

	warped := &s.positions.warped
	s.reverse.Xform(cfg, warped, s.stageResets(warped), &s.positions.reversed, s.derivatives.directions[:])

	s.hasDerivatives = out.RateDerivatives && out.WarpDerivatives
	if s.hasDerivatives {
		n := warped.Count
		vecmath.MulBlock(s.derivatives.combined[:n], s.derivatives.rated[:n], s.derivatives.warped[:n])
		vecmath.MulBlockInPlace(s.derivatives.combined[:n], s.derivatives.directions[:n])
	}
}

func (s *stages) reset() {
	s.traverser.Reset()
	s.warp.Reset()
	s.reverse.Reset()
	s.grains.Clear()
}

// WarpedPositions returns the positions after the offset and warp stages.
func (s *stages) WarpedPositions() *block.Positions { return &s.positions.warped }

// ReversedPositions returns the final read positions.
func (s *stages) ReversedPositions() *block.Positions { return &s.positions.reversed }

// WarpedDerivatives returns the warp stage derivatives. Only valid when
// Outputs.WarpDerivatives was set.
func (s *stages) WarpedDerivatives() []float64 {
	return s.derivatives.warped[:s.positions.warped.Count]
}

// ReverseDirections returns +1 or -1 per slot.
func (s *stages) ReverseDirections() []float64 {
	return s.derivatives.directions[:s.positions.reversed.Count]
}

// Derivatives returns the chain-rule product of every stage's derivative, or
// nil unless both rate and warp derivatives were requested.
func (s *stages) Derivatives() []float64 {
	if !s.hasDerivatives {
		return nil
	}
	return s.derivatives.combined[:s.positions.reversed.Count]
}

// CorrectionGrains returns the grains of the last block.
func (s *stages) CorrectionGrains() *CorrectionGrains { return &s.grains }

// Resets returns the reset mask of the last block.
func (s *stages) Resets() block.ResetMask { return s.resets }

// subWarp maps positions through warp markers for reverse point transforms.
// It resets itself whenever its input goes backward.
type subWarp struct {
	unit WarpUnit
	prev float64
}

func (w *subWarp) reset() {
	w.unit.Reset()
	w.prev = math.MaxFloat64
}

func (w *subWarp) xform(pts *points.WarpPoints, x float64, ff *float64) float64 {
	if pts.Len() < 1 {
		return x
	}

	if x < w.prev {
		w.unit.Reset()
	}
	w.prev = x

	var d float64
	x = w.unit.Xform(pts, x, &d)
	*ff *= d

	return x
}
