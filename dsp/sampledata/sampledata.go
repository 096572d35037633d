// Package sampledata reads interpolated frames from host-owned sample data.
package sampledata

import (
	"errors"
	"math"

	"github.com/cwbudde/algo-vecmath"

	"github.com/cwbudde/algo-blink/dsp/core"
	"github.com/cwbudde/algo-blink/dsp/interp"
)

// ErrNilSource is returned by [New] when no source is given.
var ErrNilSource = errors.New("sampledata: source is nil")

// Source supplies raw frames. ReadFrames copies up to len(dst) frames of
// channel ch starting at index and returns how many were copied. It may
// return 0 while the sample is still loading.
type Source interface {
	Channels() int
	Frames() int64
	ReadFrames(ch int, index int64, dst []float32) int
}

// ChannelMode maps output channels onto sample channels.
type ChannelMode int

const (
	ChannelLeft ChannelMode = iota
	ChannelRight
	ChannelStereo
	ChannelStereoSwap
)

// String returns the mode name.
func (m ChannelMode) String() string {
	switch m {
	case ChannelLeft:
		return "left"
	case ChannelRight:
		return "right"
	case ChannelStereo:
		return "stereo"
	case ChannelStereoSwap:
		return "stereo-swap"
	default:
		return "unknown"
	}
}

// Option configures a [Data].
type Option func(*Data)

// WithInterpolation selects the kernel used by the interpolating reads.
func WithInterpolation(mode interp.Mode) Option {
	return func(d *Data) {
		d.mode = mode
	}
}

// Data reads frames from a Source.
//
// Data is not thread-safe; the block reads use internal scratch space.
type Data struct {
	src      Source
	channels ChannelMode
	mode     interp.Mode
	kernel   *interp.LagrangeInterpolator
	taps     [4]float64

	scratch struct {
		frac [core.VectorSize]float64
		prev [core.VectorSize]float64
		diff [core.VectorSize]float64
	}
}

// New wraps src.
func New(src Source, channels ChannelMode, opts ...Option) (*Data, error) {
	if src == nil {
		return nil, ErrNilSource
	}

	d := &Data{src: src, channels: channels, mode: interp.Linear}
	for _, opt := range opts {
		if opt != nil {
			opt(d)
		}
	}

	d.kernel = interp.NewLagrangeInterpolator(d.mode.Taps() - 1)

	return d, nil
}

// Frames returns the number of frames in the source.
func (d *Data) Frames() int64 { return d.src.Frames() }

// ChannelMode returns the configured channel mapping.
func (d *Data) ChannelMode() ChannelMode { return d.channels }

// SourceChannel returns the sample channel that feeds output channel out.
func (d *Data) SourceChannel(out int) int {
	last := max(d.src.Channels()-1, 0)

	switch d.channels {
	case ChannelLeft:
		return 0
	case ChannelRight:
		return min(1, last)
	case ChannelStereoSwap:
		return min(1-min(out, 1), last)
	default:
		return min(out, last)
	}
}

// ReadFrame returns one frame, or 0 outside [0, Frames()) or while the
// source has no data.
func (d *Data) ReadFrame(ch int, pos int64) float64 {
	if pos < 0 || pos >= d.src.Frames() {
		return 0
	}

	var buf [1]float32
	if d.src.ReadFrames(ch, pos, buf[:]) == 0 {
		return 0
	}

	return float64(buf[0])
}

// ReadFrameInterp returns the frame at a fractional position.
func (d *Data) ReadFrameInterp(ch int, pos float64) float64 {
	return d.interpolate(ch, pos, false, d.src.Frames())
}

// ReadFramesInterp reads len(out) frames at the fractional positions pos.
// With loop set, positions wrap into [0, Frames()) and reads past the end
// continue from the start. At most [core.VectorSize] frames are read.
func (d *Data) ReadFramesInterp(ch int, pos []float64, loop bool, out []float64) {
	n := min(len(pos), len(out), core.VectorSize)
	frames := d.src.Frames()

	if d.mode != interp.Linear {
		for i := range n {
			p := pos[i]
			if loop {
				p = core.Wrap(p, float64(frames))
			}
			out[i] = d.interpolate(ch, p, loop, frames)
		}
		return
	}

	frac := d.scratch.frac[:n]
	prev := d.scratch.prev[:n]
	diff := d.scratch.diff[:n]

	for i := range n {
		p := pos[i]
		if loop {
			p = core.Wrap(p, float64(frames))
		}

		fl := math.Floor(p)
		idx := int64(fl)

		frac[i] = p - fl
		prev[i] = d.ReadFrame(ch, idx)
		diff[i] = d.ReadFrame(ch, d.index(idx+1, loop, frames)) - prev[i]
	}

	vecmath.MulBlock(out[:n], frac, diff)

	for i := range n {
		out[i] += prev[i]
	}
}

// interpolate gathers the kernel taps around p and interpolates between the
// frames at floor(p) and floor(p)+1.
func (d *Data) interpolate(ch int, p float64, loop bool, frames int64) float64 {
	fl := math.Floor(p)
	taps := d.taps[:d.mode.Taps()]
	first := int64(fl) - int64(len(taps)/2-1)

	for k := range taps {
		taps[k] = d.ReadFrame(ch, d.index(first+int64(k), loop, frames))
	}

	return d.kernel.Interpolate(taps, p-fl)
}

func (d *Data) index(i int64, loop bool, frames int64) int64 {
	if !loop || frames <= 0 {
		return i
	}

	i %= frames
	if i < 0 {
		i += frames
	}

	return i
}
