package transform

import (
	"github.com/cwbudde/algo-blink/dsp/block"
	"github.com/cwbudde/algo-blink/dsp/core"
	"github.com/cwbudde/algo-blink/dsp/points"
)

// Reverse modes, as stored in the Y values of the reverse option points.
// Any negative value plays forward.
const (
	ReverseOff    = -1
	ReverseMirror = 0
	ReverseTape   = 1
	ReverseSlip   = 2
)

// PointTransformer maps a raw reverse point position into the coordinate space
// of the reverse stage's input. ff is the playback rate at that point.
type PointTransformer interface {
	TransformPosition(x float64) (pos, ff float64)
}

// ReverseConfig is the reverse modulation for one call.
type ReverseConfig struct {
	// Reverse holds one mode per segment. Fewer than two points disables the stage.
	Reverse *points.IntPoints
	// Transform maps point positions. Nil leaves them as they are.
	Transform PointTransformer
	// Grains receives correction grains. Nil skips grain generation.
	Grains *CorrectionGrains
}

type reversePoint struct {
	x    float64
	ff   float64
	mode int64
}

// ReverseUnit maps positions through reverse segments.
//
// Point positions are transformed lazily; the last two are cached by index.
type ReverseUnit struct {
	segmentStart float64
	cursor       int

	cache struct {
		points [2]reversePoint
		// point index + 1, 0 when empty
		tag [2]int
	}
}

func (u *ReverseUnit) point(cfg *ReverseConfig, slot, index int) reversePoint {
	if u.cache.tag[slot] != index+1 {
		raw := cfg.Reverse.Data[index]

		p := reversePoint{x: raw.X, ff: 1, mode: raw.Y}
		if cfg.Transform != nil {
			p.x, p.ff = cfg.Transform.TransformPosition(raw.X)
		}

		u.cache.points[slot] = p
		u.cache.tag[slot] = index + 1
	}

	return u.cache.points[slot]
}

// Xform returns the read position for pos at the given block slot. When deriv
// is not nil it receives the playback direction (+1 or -1).
func (u *ReverseUnit) Xform(cfg *ReverseConfig, slot int, pos float64, deriv *float64) float64 {
	n := len(cfg.Reverse.Data)
	start := u.cursor

	for i := u.cursor; i < n; i++ {
		p1 := u.point(cfg, 1, i)

		if pos >= p1.x {
			u.segmentStart = u.nextSegmentStart(cfg, i)
			u.cursor++
			continue
		}

		if i == 0 {
			setDirection(deriv, 1)
			return pos
		}

		if u.cursor != start {
			u.correctionGrain(cfg, i-1, slot)
		}

		p0 := u.point(cfg, 0, i-1)

		if p1.x-p0.x > 0 {
			d := pos - p0.x

			switch p0.mode {
			case ReverseSlip, ReverseTape:
				setDirection(deriv, -1)
				return u.segmentStart - d
			case ReverseMirror:
				setDirection(deriv, -1)
				return p1.x - d
			default:
				setDirection(deriv, 1)
				return u.segmentStart + d
			}
		}
	}

	if u.cursor != start {
		u.correctionGrain(cfg, u.cursor-1, slot)
	}

	last := u.point(cfg, 0, n-1)
	d := pos - last.x

	// past the last point there is no right edge, so mirror reads backward
	// from the accumulated start like tape does
	switch last.mode {
	case ReverseSlip, ReverseTape, ReverseMirror:
		setDirection(deriv, -1)
		return u.segmentStart - d
	default:
		setDirection(deriv, 1)
		return u.segmentStart + d
	}
}

func (u *ReverseUnit) nextSegmentStart(cfg *ReverseConfig, i int) float64 {
	p1 := u.point(cfg, 1, i)

	if i == 0 {
		return p1.x
	}

	p0 := u.point(cfg, 0, i-1)
	distance := p1.x - p0.x

	if p0.mode == ReverseTape {
		return u.segmentStart - distance
	}

	return u.segmentStart + distance
}

func (u *ReverseUnit) correctionGrain(cfg *ReverseConfig, index, slot int) {
	if cfg.Grains == nil || index < 1 {
		return
	}

	ff := u.point(cfg, 1, index).ff
	if u.point(cfg, 0, index-1).mode >= 0 {
		ff = -ff
	}

	length := float64(maxGrainLength)
	if index+1 < len(cfg.Reverse.Data) {
		next := cfg.Reverse.Data[index+1].X - cfg.Reverse.Data[index].X
		length = min(length, next*0.75)
	}

	cfg.Grains.Push(Grain{Slot: slot, FF: ff, Length: length})
}

// Reset forgets the segment start and invalidates cached points.
func (u *ReverseUnit) Reset() {
	u.segmentStart = 0
	u.cursor = 0
	u.cache.tag = [2]int{}
}

func setDirection(deriv *float64, dir float64) {
	if deriv != nil {
		*deriv = dir
	}
}

// Reverse applies reverse modes to a block of positions.
type Reverse struct {
	unit ReverseUnit
}

// Xform writes the reversed positions of in to out and refills cfg.Grains.
// dirs, when not nil, receives the playback direction per slot.
func (c *Reverse) Xform(cfg ReverseConfig, in *block.Positions, resets block.ResetMask, out *block.Positions, dirs []float64) {
	if cfg.Grains != nil {
		cfg.Grains.Clear()
	}

	out.RotatePrevPos()

	if cfg.Reverse.Len() < 2 {
		out.CopyFrom(in)
		if dirs != nil {
			core.Fill(dirs[:in.Count], 1)
		}
		return
	}

	out.Count = in.Count

	for i := range in.Count {
		if resets.Has(i) {
			c.unit.Reset()
		}

		var d *float64
		if dirs != nil {
			d = &dirs[i]
		}

		out.Positions[i] = c.unit.Xform(&cfg, i, in.Positions[i], d)
	}
}

// Reset clears the unit state.
func (c *Reverse) Reset() {
	c.unit.Reset()
}
