package transform

import (
	"github.com/cwbudde/algo-blink/dsp/block"
	"github.com/cwbudde/algo-blink/dsp/core"
	"github.com/cwbudde/algo-blink/dsp/points"
)

// WarpUnit maps target positions back to source positions through warp markers.
//
// The search runs over the target (Y) axis. Outside the marker range the
// nearest marker's offset is applied with a slope of 1.
type WarpUnit struct {
	cursor int
}

// Xform returns the source position for pos. w must have at least one point.
// When deriv is not nil it receives d(source)/d(target).
func (u *WarpUnit) Xform(w *points.WarpPoints, pos float64, deriv *float64) float64 {
	pts := w.Points

	if len(pts) == 1 {
		if deriv != nil {
			*deriv = 1
		}
		return pos - float64(pts[0].Y-pts[0].X)
	}

	for i := u.cursor; i < len(pts); i++ {
		u.cursor = i

		p1 := pts[i]
		y1 := float64(p1.Y)

		if pos >= y1 {
			continue
		}

		if i == 0 {
			if deriv != nil {
				*deriv = 1
			}
			return float64(p1.X) + (pos - y1)
		}

		p0 := pts[i-1]
		y0 := float64(p0.Y)

		size := y1 - y0
		if size <= 0 {
			continue
		}

		if deriv != nil {
			*deriv = float64(p1.X-p0.X) / size
		}

		return core.Lerp(float64(p0.X), float64(p1.X), core.InverseLerp(y0, y1, pos))
	}

	last := pts[len(pts)-1]
	u.cursor = len(pts)

	if deriv != nil {
		*deriv = 1
	}

	return float64(last.X) + (pos - float64(last.Y))
}

// Reset rewinds the cursor.
func (u *WarpUnit) Reset() {
	u.cursor = 0
}

// Warp applies warp markers to a block of positions.
type Warp struct {
	unit WarpUnit
}

// Xform writes the warped positions of in to out. A nil or empty marker set is
// the identity. derivs may be nil.
func (c *Warp) Xform(w *points.WarpPoints, in *block.Positions, resets block.ResetMask, out *block.Positions, derivs []float64) {
	out.RotatePrevPos()

	if w.Len() < 1 {
		out.CopyFrom(in)
		if derivs != nil {
			core.Fill(derivs[:in.Count], 1)
		}
		return
	}

	out.Count = in.Count

	for i := range in.Count {
		if resets.Has(i) {
			c.unit.Reset()
		}

		var d *float64
		if derivs != nil {
			d = &derivs[i]
		}

		out.Positions[i] = c.unit.Xform(w, in.Positions[i], d)
	}
}

// Reset clears the unit state.
func (c *Warp) Reset() {
	c.unit.Reset()
}
