package search

import (
	"github.com/cwbudde/algo-blink/dsp/block"
	"github.com/cwbudde/algo-blink/dsp/points"
)

// Step is a step-function lookup over integer points.
type Step struct {
	Points  *points.IntPoints
	Default int64
}

// StepSearcher holds step values without interpolation.
var StepSearcher = Searcher[Step, int64]{Binary: Step.binary, Forward: Step.forward}

func (s Step) binary(pos float64, beg int) (int64, int) {
	return StepBinary(s.Points, s.Default, pos, beg)
}

func (s Step) forward(pos float64, beg int) (int64, int) {
	return StepForward(s.Points, s.Default, pos, beg)
}

// StepBinary returns the step value at pos using a binary search from beg.
// Positions left of the first point yield def.
func StepBinary(pts *points.IntPoints, def int64, pos float64, beg int) (int64, int) {
	n := pts.Len()
	if n < 2 {
		return stepDegenerate(pts, def)
	}
	x := func(i int) float64 { return pts.Data[i].X }
	return stepAt(pts, def, upperBound(n, clampBeg(beg, n), x, pos))
}

// StepForward returns the step value at pos scanning forward from beg.
func StepForward(pts *points.IntPoints, def int64, pos float64, beg int) (int64, int) {
	n := pts.Len()
	if n < 2 {
		return stepDegenerate(pts, def)
	}
	x := func(i int) float64 { return pts.Data[i].X }
	return stepAt(pts, def, scanForward(n, clampBeg(beg, n), x, pos))
}

// StepVec evaluates a step array over a block.
func StepVec(c *Cursor, pts *points.IntPoints, def int64, p *block.Positions, resets block.ResetMask, out []int64) {
	Vec(StepSearcher, c, Step{Points: pts, Default: def}, p, resets, out)
}

func stepDegenerate(pts *points.IntPoints, def int64) (int64, int) {
	if pts.Len() == 0 {
		return def, 0
	}
	return pts.Data[0].Y, 0
}

func stepAt(pts *points.IntPoints, def int64, idx int) (int64, int) {
	if idx == 0 {
		return def, 0
	}
	return pts.Data[idx-1].Y, idx - 1
}
