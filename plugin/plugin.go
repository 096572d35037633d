// Package plugin defines the typed surface between a host and sample-position
// driven plugins.
//
// A host feeds each unit a block of positions per audio buffer together with
// the modulation data of the unit. Plugins implement the capability interfaces
// for their kind: [Sampler], [Synth] or [Effect].
package plugin

import (
	"context"

	"github.com/cwbudde/algo-blink/dsp/core"
	"github.com/cwbudde/algo-blink/dsp/points"
	"github.com/cwbudde/algo-blink/dsp/sampledata"
)

// OutputSize is the length of a planar stereo output buffer.
const OutputSize = core.VectorSize * 2

// SampleInfo describes a sample owned by the host.
type SampleInfo struct {
	ID       uint64
	Channels int
	Frames   int64
	// LoopPoints holds the loop start and end frames, or nil without a loop.
	LoopPoints *[2]int64
	SampleRate float64
	BitDepth   int
	Source     sampledata.Source
}

// SamplerBuffer is the per-buffer input of a sampler unit.
type SamplerBuffer struct {
	// BufferID increments once per audio buffer. A unit skipped for at
	// least one buffer resets itself.
	BufferID      uint64
	SongRate      float64
	Sample        *SampleInfo
	AnalysisReady bool
	Positions     []float64
}

// SamplerParams holds the standard sampler parameters.
type SamplerParams struct {
	Amp          points.EnvData
	Pan          points.EnvData
	Pitch        points.EnvData
	Transpose    points.SliderRealData
	SampleOffset points.SliderIntData
	Reverse      points.OptionData
	Loop         points.ToggleData
}

// SamplerUnitState is the user-controlled state of a unit.
type SamplerUnitState struct {
	// ID changes whenever any of the state changes. The same state may be
	// passed for several buffers.
	ID          uint64
	DataOffset  int64
	ChannelMode sampledata.ChannelMode
	WarpPoints  *points.WarpPoints
	Params      SamplerParams
}

// DrawInfo receives waveform drawing data. Nil slices are skipped; non-nil
// slices must hold at least the requested number of frames.
type DrawInfo struct {
	// SculptedSamplePositions are sample positions before warping.
	SculptedSamplePositions []float64
	// WarpedSamplePositions are sample positions after warping.
	WarpedSamplePositions []float64
	// SculptedBlockPositions are block positions before warping.
	SculptedBlockPositions []float64
	// WarpedBlockPositions are block positions after warping.
	WarpedBlockPositions []float64
	// FinalSamplePositions include reverse and loop handling.
	FinalSamplePositions []float64
	// WaveformDerivatives is the rate of change of the final position.
	WaveformDerivatives []float32
	Amp                 []float32
}

// PreprocessCallbacks connect a preprocessing run to the host.
type PreprocessCallbacks struct {
	ShouldAbort    func() bool
	ReportProgress func(progress float64)
}

// Sampler is the plugin-wide sampler capability set.
type Sampler interface {
	NewInstance() SamplerInstance
	EnableWarpMarkers() bool
	RequiresPreprocessing() bool
	// Preprocess runs once per sample on a non-audio goroutine.
	Preprocess(ctx context.Context, cb PreprocessCallbacks, info *SampleInfo) Error
	SampleDeleted(id uint64) Error
	Draw(buf *SamplerBuffer, state *SamplerUnitState, n int, out *DrawInfo) Error
}

// SamplerInstance is one sampler block in the host.
type SamplerInstance interface {
	StreamInit(songRate float64) Error
	AddUnit() SamplerUnit
}

// SamplerUnit renders one voice. out holds planar left and right channels of
// [core.VectorSize] frames each.
type SamplerUnit interface {
	Process(buf *SamplerBuffer, state *SamplerUnitState, out []float32) Error
}

// SynthBuffer is the per-buffer input of a synth unit.
type SynthBuffer struct {
	SongRate   float64
	SampleRate float64
	DataOffset int64
	Positions  []float64
	WarpPoints *points.WarpPoints
}

// Synth is the synth capability set.
type Synth interface {
	NewUnit() SynthUnit
}

// SynthUnit renders one synth voice.
type SynthUnit interface {
	Process(buf *SynthBuffer, out []float32) Error
	Reset() Error
}

// EffectBuffer is the per-buffer input of an effect unit.
type EffectBuffer struct {
	InstanceGroup int
	SongRate      float64
	SampleRate    float64
	DataOffset    int64
	Positions     []float64
	WarpPoints    *points.WarpPoints
}

// Effect is the effect capability set. Units in one instance group may share
// data.
type Effect interface {
	NewUnit(instanceGroup int) EffectUnit
}

// EffectUnit processes one effect voice.
type EffectUnit interface {
	Process(buf *EffectBuffer, in, out []float32) Error
	Reset() Error
}

// Aborted reports whether the host asked to stop. A nil callback never aborts.
func (cb PreprocessCallbacks) Aborted() bool {
	return cb.ShouldAbort != nil && cb.ShouldAbort()
}

// Report forwards progress in [0, 1] to the host.
func (cb PreprocessCallbacks) Report(progress float64) {
	if cb.ReportProgress != nil {
		cb.ReportProgress(core.Clamp(progress, 0, 1))
	}
}
