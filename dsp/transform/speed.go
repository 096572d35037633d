package transform

import (
	"github.com/cwbudde/algo-blink/dsp/block"
	"github.com/cwbudde/algo-blink/dsp/core"
	"github.com/cwbudde/algo-blink/dsp/points"
)

// SpeedConfig is the speed modulation for one call.
type SpeedConfig struct {
	// Speed scales every envelope value.
	Speed float64
	// Env is the speed envelope as a rate multiplier. Nil or empty means no modulation.
	Env *points.RealPoints
}

func (cfg SpeedConfig) constantFF() float64 {
	if cfg.Env == nil {
		return cfg.Speed
	}
	return core.Clamp(1, cfg.Env.Min, cfg.Env.Max) * cfg.Speed
}

func (cfg SpeedConfig) ffAt(i int) (x, ff float64) {
	p := cfg.Env.Data[i]
	return p.X, core.Clamp(p.Y, cfg.Env.Min, cfg.Env.Max) * cfg.Speed
}

// quadratic evaluates a*n^2 + b*n + c.
func quadratic(a, b, c, n float64) float64 {
	return a*(n*n) + b*n + c
}

// speedDistance integrates a rate ramping linearly from f0 to f1 over size
// frames, evaluated n frames in and offset by c.
func speedDistance(f0, f1, size, n, c float64) float64 {
	accel := (f1 - f0) / (2 * size)
	return quadratic(accel, f0, c, n)
}

// SpeedUnit maps block positions through a linear speed envelope.
type SpeedUnit struct {
	segmentStart float64
	cursor       int
}

// Xform returns the transformed position of pos. cfg.Env must have at least
// one point. When deriv is not nil it receives the playback rate at pos.
func (u *SpeedUnit) Xform(cfg SpeedConfig, pos float64, deriv *float64) float64 {
	n := len(cfg.Env.Data)

	for i := u.cursor; i < n; i++ {
		x1, f1 := cfg.ffAt(i)

		if pos < x1 {
			if i == 0 {
				u.cursor = 0
				if deriv != nil {
					*deriv = f1
				}
				return speedDistance(f1, f1, 1, pos, u.segmentStart)
			}

			x0, f0 := cfg.ffAt(i - 1)

			if size := x1 - x0; size > 0 {
				u.cursor = i

				d := pos - x0
				if deriv != nil {
					*deriv = core.Lerp(f0, f1, d/size)
				}

				return speedDistance(f0, f1, size, d, u.segmentStart)
			}

			continue
		}

		u.cursor = i + 1

		if i == 0 {
			u.segmentStart = speedDistance(f1, f1, 1, x1, u.segmentStart)
			continue
		}

		x0, f0 := cfg.ffAt(i - 1)
		if size := x1 - x0; size > 0 {
			u.segmentStart = speedDistance(f0, f1, size, size, u.segmentStart)
		}
	}

	x0, f0 := cfg.ffAt(n - 1)

	if deriv != nil {
		*deriv = f0
	}

	return speedDistance(f0, f0, 1, pos-x0, u.segmentStart)
}

// Reset forgets the accumulated segment start.
func (u *SpeedUnit) Reset() {
	u.segmentStart = 0
	u.cursor = 0
}

// Speed applies a speed envelope to a block of positions.
type Speed struct {
	unit SpeedUnit
}

// Xform writes the sped positions of in to out. derivs may be nil.
func (c *Speed) Xform(cfg SpeedConfig, in *block.Positions, resets block.ResetMask, out *block.Positions, derivs []float64) {
	out.RotatePrevPos()

	if cfg.Env.Len() < 1 {
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
func (c *Speed) Reset() {
	c.unit.Reset()
}
