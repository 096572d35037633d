package onset

import (
	"context"
	"errors"
	"fmt"
	"math"

	algofft "github.com/MeKo-Christian/algo-fft"
	"github.com/cwbudde/algo-vecmath"
	"github.com/meko-christian/algo-approx"

	"github.com/cwbudde/algo-blink/dsp/core"
	"github.com/cwbudde/algo-blink/dsp/sampledata"
)

var (
	// ErrEmptySource is returned for a nil source or one without frames.
	ErrEmptySource = errors.New("onset: empty source")
	// ErrAborted is returned when the analysis was cancelled.
	ErrAborted = errors.New("onset: aborted")
)

const (
	floorDB = -120.0
	readLen = 4096
)

// Result is the outcome of [Analyze].
type Result struct {
	// Onsets are frame indices into the source, ascending.
	Onsets []int64
	// Peak is the largest absolute mono sample value.
	Peak float64
	// FrameRMSdB is the RMS level of each analysis frame.
	FrameRMSdB []float64
	// Flux is the spectral flux of each analysis frame.
	Flux    []float64
	HopSize int
}

// Analyze detects onsets in src.
func Analyze(ctx context.Context, src sampledata.Source, opts ...Option) (Result, error) {
	cfg := ApplyOptions(opts...)

	if src == nil || src.Frames() <= 0 || src.Channels() <= 0 {
		return Result{}, ErrEmptySource
	}

	mono, err := mixdown(ctx, src, &cfg)
	if err != nil {
		return Result{}, err
	}

	plan, err := algofft.NewPlan64(cfg.FrameSize)
	if err != nil {
		return Result{}, fmt.Errorf("onset: fft plan: %w", err)
	}

	a := analyzer{
		cfg:    cfg,
		plan:   plan,
		window: hann(cfg.FrameSize),
		frame:  make([]float64, cfg.FrameSize),
		in:     make([]complex128, cfg.FrameSize),
		out:    make([]complex128, cfg.FrameSize),
		re:     make([]float64, cfg.FrameSize/2+1),
		im:     make([]float64, cfg.FrameSize/2+1),
		mag:    make([]float64, cfg.FrameSize/2+1),
		prev:   make([]float64, cfg.FrameSize/2+1),
	}

	res := Result{HopSize: cfg.HopSize, Peak: peak(mono)}

	frames := (len(mono) + cfg.HopSize - 1) / cfg.HopSize
	res.Flux = make([]float64, frames)
	res.FrameRMSdB = make([]float64, frames)

	for k := range frames {
		if err := cancelled(ctx, &cfg); err != nil {
			return Result{}, err
		}

		start := k * cfg.HopSize
		flux, rms, err := a.frameAt(mono, start)
		if err != nil {
			return Result{}, fmt.Errorf("onset: frame %d: %w", k, err)
		}

		res.Flux[k] = flux
		res.FrameRMSdB[k] = toDB(rms)

		report(&cfg, 0.5+0.5*float64(k+1)/float64(frames))
	}

	res.Onsets = pick(res.Flux, res.FrameRMSdB, cfg)
	for i := range res.Onsets {
		res.Onsets[i] *= int64(cfg.HopSize)
	}

	return res, nil
}

type analyzer struct {
	cfg    Config
	plan   *algofft.Plan[complex128]
	window []float64
	frame  []float64
	in     []complex128
	out    []complex128
	re     []float64
	im     []float64
	mag    []float64
	prev   []float64
}

func (a *analyzer) frameAt(mono []float64, start int) (flux, rms float64, err error) {
	clear(a.frame)
	n := copy(a.frame, mono[start:])

	var sum float64
	for _, v := range a.frame[:n] {
		sum += v * v
	}
	if sum > 0 {
		rms = approx.FastSqrt(sum / float64(n))
	}

	vecmath.MulBlockInPlace(a.frame, a.window)

	for i, v := range a.frame {
		a.in[i] = complex(v, 0)
	}

	if err := a.plan.Forward(a.out, a.in); err != nil {
		return 0, 0, err
	}

	for i := range a.mag {
		a.re[i] = real(a.out[i])
		a.im[i] = imag(a.out[i])
	}

	vecmath.Magnitude(a.mag, a.re, a.im)

	for i, m := range a.mag {
		if d := m - a.prev[i]; d > 0 {
			flux += d
		}
	}

	a.prev, a.mag = a.mag, a.prev

	return flux, rms, nil
}

func mixdown(ctx context.Context, src sampledata.Source, cfg *Config) ([]float64, error) {
	frames := src.Frames()
	chans := src.Channels()
	mono := make([]float64, frames)
	buf := make([]float32, readLen)
	gain := 1 / float64(chans)

	for pos := int64(0); pos < frames; pos += readLen {
		if err := cancelled(ctx, cfg); err != nil {
			return nil, err
		}

		n := int(min(readLen, frames-pos))
		for ch := range chans {
			got := src.ReadFrames(ch, pos, buf[:n])
			for i, v := range buf[:got] {
				mono[pos+int64(i)] += float64(v) * gain
			}
		}

		report(cfg, 0.5*float64(pos+int64(n))/float64(frames))
	}

	return mono, nil
}

// pick returns the frames whose flux is a local maximum above
// Threshold times the mean flux of the surrounding Window frames. A frame
// whose level did not rise over the previous frame is a release, not an onset.
func pick(flux, levelDB []float64, cfg Config) []int64 {
	var onsets []int64

	for i, f := range flux {
		if f <= 0 {
			continue
		}
		if i > 0 && levelDB[i] <= levelDB[i-1] {
			continue
		}
		if i > 0 && flux[i-1] >= f {
			continue
		}
		if i+1 < len(flux) && flux[i+1] > f {
			continue
		}

		lo := max(0, i-cfg.Window)
		hi := min(len(flux), i+cfg.Window+1)

		var mean float64
		for _, v := range flux[lo:hi] {
			mean += v
		}
		mean /= float64(hi - lo)

		if f > cfg.Threshold*mean {
			onsets = append(onsets, int64(i))
		}
	}

	return onsets
}

func hann(n int) []float64 {
	w := make([]float64, n)
	for i := range w {
		w[i] = 0.5 - 0.5*math.Cos(2*math.Pi*float64(i)/float64(n))
	}
	return w
}

func peak(x []float64) float64 {
	var p float64
	for _, v := range x {
		p = max(p, math.Abs(v))
	}
	return p
}

func toDB(rms float64) float64 {
	return max(floorDB, core.LinearToDB(rms))
}

func cancelled(ctx context.Context, cfg *Config) error {
	if err := ctx.Err(); err != nil {
		return fmt.Errorf("%w: %w", ErrAborted, err)
	}
	if cfg.abort != nil && cfg.abort() {
		return ErrAborted
	}
	return nil
}

func report(cfg *Config, p float64) {
	if cfg.progress != nil {
		cfg.progress(p)
	}
}
