package transform

import (
	"math"

	"github.com/cwbudde/algo-blink/dsp/block"
	"github.com/cwbudde/algo-blink/dsp/core"
	"github.com/cwbudde/algo-blink/dsp/points"
)

// PitchConfig is the pitch modulation for one call.
type PitchConfig struct {
	// Transpose is added to every envelope value, in semitones.
	Transpose float64
	// Pitch is the pitch envelope in semitones. Nil or empty means no modulation.
	Pitch *points.RealPoints
}

// constantFF returns the playback rate used when the envelope has no points.
func (cfg PitchConfig) constantFF() float64 {
	pitch := 0.0
	if cfg.Pitch != nil {
		pitch = core.Clamp(0, cfg.Pitch.Min, cfg.Pitch.Max)
	}
	return core.PitchToFF(pitch + cfg.Transpose)
}

func (cfg PitchConfig) pitchAt(i int) (x, pitch float64) {
	p := cfg.Pitch.Data[i]
	return p.X, core.Clamp(p.Y, cfg.Pitch.Min, cfg.Pitch.Max) + cfg.Transpose
}

// pitchRatio is the per-frame rate ratio of a linear pitch ramp.
func pitchRatio(min, max, distance float64) float64 {
	return math.Pow(2, ((max-min)/distance)/12)
}

// pitchDistance integrates the playback rate of a linear pitch ramp from
// pitch min to pitch max over distance frames, evaluated n frames in.
func pitchDistance(min, max, distance, n float64) float64 {
	r := pitchRatio(min, max, distance)
	if math.Abs(1-r) <= 0 {
		return n * core.PitchToFF(min)
	}
	return core.PitchToFF(min) * ((1 - math.Pow(r, n)) / (1 - r))
}

// pitchRate is the playback rate n frames into a linear pitch ramp.
func pitchRate(min, max, distance, n float64) float64 {
	return core.PitchToFF(min) * math.Pow(pitchRatio(min, max, distance), n)
}

// PitchUnit maps block positions through a pitch envelope.
//
// The envelope is integrated segment by segment. Only the left edge of the
// current segment is accumulated, so a position far from the origin costs one
// closed-form evaluation per segment crossed since the last call.
type PitchUnit struct {
	segmentStart float64
	cursor       int
}

// Xform returns the transformed position of pos. cfg.Pitch must have at least
// one point. When deriv is not nil it receives the playback rate at pos.
func (u *PitchUnit) Xform(cfg PitchConfig, pos float64, deriv *float64) float64 {
	n := len(cfg.Pitch.Data)

	for i := u.cursor; i < n; i++ {
		x1, pitch1 := cfg.pitchAt(i)

		if pos < x1 {
			if i == 0 {
				u.cursor = 0

				ff := core.PitchToFF(pitch1)
				if deriv != nil {
					*deriv = ff
				}

				return pos*ff + u.segmentStart
			}

			x0, pitch0 := cfg.pitchAt(i - 1)

			if size := x1 - x0; size > 0 {
				u.cursor = i

				d := pos - x0
				if deriv != nil {
					*deriv = pitchRate(pitch0, pitch1, size, d)
				}

				return pitchDistance(pitch0, pitch1, size, d) + u.segmentStart
			}

			continue
		}

		u.cursor = i + 1

		if i == 0 {
			u.segmentStart += x1 * core.PitchToFF(pitch1)
			continue
		}

		x0, pitch0 := cfg.pitchAt(i - 1)
		if size := x1 - x0; size > 0 {
			u.segmentStart += pitchDistance(pitch0, pitch1, size, size)
		}
	}

	x0, pitch0 := cfg.pitchAt(n - 1)
	ff := core.PitchToFF(pitch0)

	if deriv != nil {
		*deriv = ff
	}

	return (pos-x0)*ff + u.segmentStart
}

// Reset forgets the accumulated segment start.
func (u *PitchUnit) Reset() {
	u.segmentStart = 0
	u.cursor = 0
}

// Pitch applies a pitch envelope to a block of positions.
type Pitch struct {
	unit PitchUnit
}

// Xform writes the pitched positions of in to out. Slots flagged in resets
// restart the envelope integration. derivs may be nil.
func (c *Pitch) Xform(cfg PitchConfig, in *block.Positions, resets block.ResetMask, out *block.Positions, derivs []float64) {
	out.RotatePrevPos()

	if cfg.Pitch.Len() < 1 {
		ff := cfg.constantFF()
		out.Scale(in, ff)
		if derivs != nil {
			core.Fill(derivs[:in.Count], ff)
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

		out.Positions[i] = c.unit.Xform(cfg, in.Positions[i], d)
	}
}

// Reset clears the unit state.
func (c *Pitch) Reset() {
	c.unit.Reset()
}
