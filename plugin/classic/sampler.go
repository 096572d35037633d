package classic

import (
	"context"
	"errors"
	"sync"

	"github.com/cwbudde/algo-vecmath"

	"github.com/cwbudde/algo-blink/dsp/block"
	"github.com/cwbudde/algo-blink/dsp/core"
	"github.com/cwbudde/algo-blink/dsp/interp"
	"github.com/cwbudde/algo-blink/dsp/search"
	"github.com/cwbudde/algo-blink/dsp/transform"
	"github.com/cwbudde/algo-blink/measure/onset"
	"github.com/cwbudde/algo-blink/plugin"
)

// Sampler-specific error codes.
const (
	ErrAnalysisAborted plugin.Error = 1
	ErrAnalysisFailed  plugin.Error = 2
)

// Option configures a [Sampler].
type Option func(*Sampler)

// WithAnalysis enables onset preprocessing. Units stay silent until the host
// reports the analysis as ready.
func WithAnalysis(opts ...onset.Option) Option {
	return func(s *Sampler) {
		s.analysis = true
		s.onsetOpts = opts
	}
}

// WithInterpolation selects the kernel used to read sample frames.
func WithInterpolation(mode interp.Mode) Option {
	return func(s *Sampler) {
		s.interp = mode
	}
}

// Sampler is the plugin-wide state of the classic sampler.
//
// Preprocess, SampleDeleted and Analysis may run concurrently with each
// other. Draw serializes on its own tape.
type Sampler struct {
	analysis  bool
	onsetOpts []onset.Option
	interp    interp.Mode

	mu      sync.RWMutex
	results map[uint64]onset.Result

	drawMu sync.Mutex
	draw   drawState
}

type drawState struct {
	tape      *transform.Tape
	positions block.Positions
	amp       search.Cursor
	scratch   [core.VectorSize]float64
	ratio     [core.VectorSize]float64
}

var _ plugin.Sampler = (*Sampler)(nil)

// New returns a sampler.
func New(opts ...Option) *Sampler {
	s := &Sampler{
		results: make(map[uint64]onset.Result),
		interp:  interp.Linear,
	}
	s.draw.tape = transform.NewTape()

	for _, opt := range opts {
		if opt != nil {
			opt(s)
		}
	}

	return s
}

// NewInstance returns a new sampler instance.
func (s *Sampler) NewInstance() plugin.SamplerInstance {
	return &Instance{sampler: s}
}

// EnableWarpMarkers reports that units consume warp points.
func (s *Sampler) EnableWarpMarkers() bool { return true }

// RequiresPreprocessing reports whether samples are analysed before playback.
func (s *Sampler) RequiresPreprocessing() bool { return s.analysis }

// ErrorString describes the sampler-specific codes.
func (s *Sampler) ErrorString(code plugin.Error) string {
	switch code {
	case ErrAnalysisAborted:
		return "analysis aborted"
	case ErrAnalysisFailed:
		return "analysis failed"
	default:
		return code.Error()
	}
}

// Preprocess runs onset analysis on a sample and keeps the result until the
// sample is deleted.
func (s *Sampler) Preprocess(ctx context.Context, cb plugin.PreprocessCallbacks, info *plugin.SampleInfo) plugin.Error {
	if !s.analysis {
		return plugin.ErrNotImplemented
	}
	if info == nil || info.Source == nil {
		return plugin.ErrInvalidInstance
	}

	opts := append([]onset.Option{
		onset.WithProgress(cb.Report),
		onset.WithAbort(cb.Aborted),
	}, s.onsetOpts...)

	res, err := onset.Analyze(ctx, info.Source, opts...)
	switch {
	case errors.Is(err, onset.ErrAborted):
		return ErrAnalysisAborted
	case err != nil:
		return ErrAnalysisFailed
	}

	s.mu.Lock()
	s.results[info.ID] = res
	s.mu.Unlock()

	return plugin.OK
}

// SampleDeleted drops the analysis of a sample.
func (s *Sampler) SampleDeleted(id uint64) plugin.Error {
	s.mu.Lock()
	delete(s.results, id)
	s.mu.Unlock()

	return plugin.OK
}

// Analysis returns the stored analysis of a sample.
func (s *Sampler) Analysis(id uint64) (onset.Result, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	res, ok := s.results[id]
	return res, ok
}

// Draw computes waveform positions for frames 0..n-1 of the unit's block
// range. Only the non-nil fields of out are written.
func (s *Sampler) Draw(buf *plugin.SamplerBuffer, state *plugin.SamplerUnitState, n int, out *plugin.DrawInfo) plugin.Error {
	if buf == nil || state == nil || out == nil || buf.Sample == nil || n < 0 {
		return plugin.ErrInvalidInstance
	}

	s.drawMu.Lock()
	defer s.drawMu.Unlock()

	d := &s.draw
	d.tape.Reset()
	d.amp.Reset()
	d.positions = block.NewPositions()

	ratio := core.ProcessorConfig{SongRate: buf.SongRate, SampleRate: buf.Sample.SampleRate}.Ratio()
	core.Fill(d.ratio[:], ratio)

	outputs := transform.Outputs{
		RateDerivatives: out.WaveformDerivatives != nil,
		WarpDerivatives: out.WaveformDerivatives != nil,
	}

	var src [core.VectorSize]float64

	for start := 0; start < n; start += core.VectorSize {
		count := min(core.VectorSize, n-start)
		for i := range count {
			src[i] = float64(start + i)
		}

		d.positions.AddWithOffset(src[:count], state.DataOffset)

		cfg := tapeConfig(state, &d.positions, outputs)
		d.tape.Xform(cfg, &d.positions)

		d.write(out.SculptedBlockPositions, start, d.tape.PitchedPositions().Values(), false)
		d.write(out.SculptedSamplePositions, start, d.tape.PitchedPositions().Values(), true)
		d.write(out.WarpedBlockPositions, start, d.tape.WarpedPositions().Values(), false)
		d.write(out.WarpedSamplePositions, start, d.tape.WarpedPositions().Values(), true)

		if out.FinalSamplePositions != nil {
			dst := out.FinalSamplePositions[start : start+count]
			vecmath.MulBlock(dst, d.tape.ReversedPositions().Values(), d.ratio[:count])
			loop := newLoopRegion(buf.Sample, search.OneToggle(state.Params.Loop, d.positions.At(0)))
			loop.apply(dst)
		}

		if out.WaveformDerivatives != nil {
			derivs := d.scratch[:count]
			vecmath.MulBlock(derivs, d.tape.Derivatives(), d.ratio[:count])
			core.Narrow(out.WaveformDerivatives[start:start+count], derivs)
		}

		if out.Amp != nil {
			search.VecEnv(&d.amp, state.Params.Amp, &d.positions, d.tape.Resets(), d.scratch[:count])
			core.Narrow(out.Amp[start:start+count], d.scratch[:count])
		}
	}

	return plugin.OK
}

// write stores src at dst[start:], converted to sample frames when scaled.
func (d *drawState) write(dst []float64, start int, src []float64, scaled bool) {
	if dst == nil {
		return
	}

	dst = dst[start : start+len(src)]
	if !scaled {
		copy(dst, src)
		return
	}

	vecmath.MulBlock(dst, src, d.ratio[:len(src)])
}
