package search

import (
	"github.com/cwbudde/algo-blink/dsp/block"
	"github.com/cwbudde/algo-blink/dsp/core"
	"github.com/cwbudde/algo-blink/dsp/points"
)

// Real is an envelope lookup: a point array with the value used when it is empty.
type Real struct {
	Points  *points.RealPoints
	Default float64
}

// RealSearcher interpolates envelope values.
var RealSearcher = Searcher[Real, float64]{Binary: Real.binary, Forward: Real.forward}

func (r Real) binary(pos float64, beg int) (float64, int) {
	return RealBinary(r.Points, r.Default, pos, beg)
}

func (r Real) forward(pos float64, beg int) (float64, int) {
	return RealForward(r.Points, r.Default, pos, beg)
}

// RealBinary returns the envelope value at pos using a binary search from beg.
func RealBinary(pts *points.RealPoints, def, pos float64, beg int) (float64, int) {
	n := pts.Len()
	if n < 2 {
		return realDegenerate(pts, def)
	}
	x := func(i int) float64 { return pts.Data[i].X }
	return realAt(pts, pos, upperBound(n, clampBeg(beg, n), x, pos))
}

// RealForward returns the envelope value at pos scanning forward from beg.
func RealForward(pts *points.RealPoints, def, pos float64, beg int) (float64, int) {
	n := pts.Len()
	if n < 2 {
		return realDegenerate(pts, def)
	}
	x := func(i int) float64 { return pts.Data[i].X }
	return realAt(pts, pos, scanForward(n, clampBeg(beg, n), x, pos))
}

// RealVec evaluates an envelope over a block.
func RealVec(c *Cursor, pts *points.RealPoints, def float64, p *block.Positions, resets block.ResetMask, out []float64) {
	Vec(RealSearcher, c, Real{Points: pts, Default: def}, p, resets, out)
}

func realDegenerate(pts *points.RealPoints, def float64) (float64, int) {
	if pts.Len() == 0 {
		return def, 0
	}
	return core.Clamp(pts.Data[0].Y, pts.Min, pts.Max), 0
}

// realAt resolves the value given the index of the first point right of pos.
func realAt(pts *points.RealPoints, pos float64, idx int) (float64, int) {
	n := len(pts.Data)

	if idx == 0 {
		return core.Clamp(pts.Data[0].Y, pts.Min, pts.Max), 0
	}

	if idx == n {
		return core.Clamp(pts.Data[n-1].Y, pts.Min, pts.Max), n - 1
	}

	p0, p1 := pts.Data[idx-1], pts.Data[idx]
	t := core.InverseLerp(p0.X, p1.X, pos)
	y0 := core.Clamp(p0.Y, pts.Min, pts.Max)
	y1 := core.Clamp(p1.Y, pts.Min, pts.Max)

	return core.Lerp(y0, y1, t), idx - 1
}
