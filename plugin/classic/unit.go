package classic

import (
	"github.com/cwbudde/algo-vecmath"

	"github.com/cwbudde/algo-blink/dsp/block"
	"github.com/cwbudde/algo-blink/dsp/core"
	"github.com/cwbudde/algo-blink/dsp/sampledata"
	"github.com/cwbudde/algo-blink/dsp/search"
	"github.com/cwbudde/algo-blink/dsp/transform"
	"github.com/cwbudde/algo-blink/plugin"
)

// Instance is one sampler block in the host. The host adds several
// synchronized units per instance for crossfading.
type Instance struct {
	sampler  *Sampler
	songRate float64
	units    []*Unit
}

var _ plugin.SamplerInstance = (*Instance)(nil)

// StreamInit records the song rate and resets every unit.
func (in *Instance) StreamInit(songRate float64) plugin.Error {
	if songRate <= 0 {
		return plugin.ErrInvalidInstance
	}

	in.songRate = songRate
	for _, u := range in.units {
		u.Reset()
	}

	return plugin.OK
}

// SongRate returns the rate passed to StreamInit.
func (in *Instance) SongRate() float64 { return in.songRate }

// AddUnit creates a unit owned by the instance.
func (in *Instance) AddUnit() plugin.SamplerUnit {
	u := newUnit(in.sampler)
	in.units = append(in.units, u)
	return u
}

// Unit renders one voice of the sampler.
//
// Unit is not thread-safe; the host calls Process from the audio thread only.
type Unit struct {
	sampler *Sampler

	tape      *transform.Tape
	positions block.Positions

	processed  bool
	lastBuffer uint64

	data     *sampledata.Data
	dataID   uint64
	dataMode sampledata.ChannelMode

	amp, pan search.Cursor

	scratch struct {
		ratio  [core.VectorSize]float64
		read   [core.VectorSize]float64
		frames [2][core.VectorSize]float64
		amp    [core.VectorSize]float64
		pan    [core.VectorSize]float64
	}
}

var _ plugin.SamplerUnit = (*Unit)(nil)

func newUnit(s *Sampler) *Unit {
	return &Unit{
		sampler:   s,
		tape:      transform.NewTape(),
		positions: block.NewPositions(),
	}
}

// Reset clears the playback state.
func (u *Unit) Reset() {
	u.tape.Reset()
	u.positions = block.NewPositions()
	u.amp.Reset()
	u.pan.Reset()
}

// Tape exposes the unit's pipeline for inspection.
func (u *Unit) Tape() *transform.Tape { return u.tape }

// Process renders one block into out as planar left and right channels.
func (u *Unit) Process(buf *plugin.SamplerBuffer, state *plugin.SamplerUnitState, out []float32) plugin.Error {
	if buf == nil || state == nil || len(out) < plugin.OutputSize {
		return plugin.ErrInvalidInstance
	}

	if u.processed && buf.BufferID > u.lastBuffer+1 {
		u.Reset()
	}
	u.processed = true
	u.lastBuffer = buf.BufferID

	core.Zero(out[:plugin.OutputSize])

	info := buf.Sample
	if info == nil || info.Source == nil {
		return plugin.OK
	}
	if u.sampler.analysis && !buf.AnalysisReady {
		return plugin.OK
	}

	data, err := u.sampleData(info, state.ChannelMode)
	if err != nil {
		return plugin.ErrInvalidInstance
	}

	u.positions.AddWithOffset(buf.Positions, state.DataOffset)
	n := u.positions.Count

	u.tape.Xform(tapeConfig(state, &u.positions, transform.Outputs{}), &u.positions)

	ratio := core.ProcessorConfig{SongRate: buf.SongRate, SampleRate: info.SampleRate}.Ratio()
	read := u.scratch.read[:n]
	core.Fill(u.scratch.ratio[:n], ratio)
	vecmath.MulBlock(read, u.tape.ReversedPositions().Values(), u.scratch.ratio[:n])

	loop := newLoopRegion(info, search.OneToggle(state.Params.Loop, u.positions.At(0)))
	loop.apply(read)

	for ch := range u.scratch.frames {
		data.ReadFramesInterp(data.SourceChannel(ch), read, loop.whole, u.scratch.frames[ch][:n])
	}

	resets := u.tape.Resets()
	search.VecEnv(&u.amp, state.Params.Amp, &u.positions, resets, u.scratch.amp[:n])
	search.VecEnv(&u.pan, state.Params.Pan, &u.positions, resets, u.scratch.pan[:n])

	left := out[:core.VectorSize]
	right := out[core.VectorSize:plugin.OutputSize]

	for i := range n {
		gl, gr := panGains(u.scratch.pan[i])
		amp := u.scratch.amp[i]
		left[i] = float32(u.scratch.frames[0][i] * amp * gl)
		right[i] = float32(u.scratch.frames[1][i] * amp * gr)
	}

	return plugin.OK
}

// sampleData returns a reader for the sample, rebuilding it only when the
// sample id or channel mode changes.
func (u *Unit) sampleData(info *plugin.SampleInfo, mode sampledata.ChannelMode) (*sampledata.Data, error) {
	if u.data != nil && u.dataID == info.ID && u.dataMode == mode {
		return u.data, nil
	}

	data, err := sampledata.New(info.Source, mode, sampledata.WithInterpolation(u.sampler.interp))
	if err != nil {
		return nil, err
	}

	u.data, u.dataID, u.dataMode = data, info.ID, mode

	return data, nil
}
