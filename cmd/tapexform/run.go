package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"math"
	"text/tabwriter"

	"github.com/cwbudde/algo-vecmath/cpu"
	"github.com/davecgh/go-spew/spew"

	"github.com/cwbudde/algo-blink/dsp/core"
	"github.com/cwbudde/algo-blink/dsp/interp"
	"github.com/cwbudde/algo-blink/dsp/points"
	"github.com/cwbudde/algo-blink/dsp/sampledata"
	"github.com/cwbudde/algo-blink/internal/audiofile"
	"github.com/cwbudde/algo-blink/plugin"
	"github.com/cwbudde/algo-blink/plugin/classic"
)

var errNoOutput = errors.New("nothing to do: set --out, --draw, --analyze or --dump")

type options struct {
	in, out   string
	seconds   float64
	songRate  float64
	transpose float64
	pitch     string
	offset    int64
	reverse   string
	warp      string
	loop      bool
	hermite   bool
	analyze   bool
	draw      int
	dump      bool
	verbose   bool
}

func run(ctx context.Context, opts options, logger *log.Logger, stdout io.Writer) error {
	if opts.out == "" && opts.draw <= 0 && !opts.analyze && !opts.dump {
		return errNoOutput
	}
	if opts.songRate <= 0 || opts.seconds < 0 {
		return fmt.Errorf("invalid rate %v or length %v", opts.songRate, opts.seconds)
	}

	if opts.verbose {
		f := cpu.DetectFeatures()
		logger.Printf("cpu: %s sse2=%v avx2=%v neon=%v", f.Architecture, f.HasSSE2, f.HasAVX2, f.HasNEON)
	}

	state, err := unitState(opts)
	if err != nil {
		return err
	}

	clip, err := loadClip(opts)
	if err != nil {
		return err
	}

	info := &plugin.SampleInfo{
		ID:         1,
		Channels:   clip.Channels(),
		Frames:     clip.Frames(),
		SampleRate: clip.SampleRate(),
		BitDepth:   clip.BitDepth(),
		Source:     clip,
	}
	if opts.verbose {
		logger.Printf("sample: %d channels, %d frames at %v Hz (%+.2f st against the song rate)",
			info.Channels, info.Frames, info.SampleRate, core.FFToPitch(info.SampleRate/opts.songRate))
	}

	var samplerOpts []classic.Option
	if opts.analyze {
		samplerOpts = append(samplerOpts, classic.WithAnalysis())
	}
	if opts.hermite {
		samplerOpts = append(samplerOpts, classic.WithInterpolation(interp.Hermite))
	}
	sampler := classic.New(samplerOpts...)

	if opts.dump {
		spew.Fdump(stdout, state)
	}

	if opts.analyze {
		if err := analyze(ctx, sampler, info, logger, opts.verbose); err != nil {
			return err
		}
	}

	buf := &plugin.SamplerBuffer{
		SongRate:      opts.songRate,
		Sample:        info,
		AnalysisReady: true,
	}

	if opts.draw > 0 {
		if err := draw(sampler, buf, state, opts.draw, stdout); err != nil {
			return err
		}
	}

	if opts.out == "" {
		return nil
	}

	planar, err := render(ctx, sampler, buf, state, int(math.Round(opts.seconds*opts.songRate)))
	if err != nil {
		return err
	}

	if err := audiofile.WriteWAV(opts.out, int(opts.songRate), planar); err != nil {
		return err
	}

	if opts.verbose {
		logger.Printf("wrote %d frames to %s", len(planar[0]), opts.out)
	}

	return nil
}

func unitState(opts options) (*plugin.SamplerUnitState, error) {
	pitch, err := parsePitch(opts.pitch)
	if err != nil {
		return nil, fmt.Errorf("--pitch: %w", err)
	}
	reverse, err := parseReverse(opts.reverse)
	if err != nil {
		return nil, fmt.Errorf("--reverse: %w", err)
	}
	warp, err := parseWarp(opts.warp)
	if err != nil {
		return nil, fmt.Errorf("--warp: %w", err)
	}

	return &plugin.SamplerUnitState{
		ID:          1,
		ChannelMode: sampledata.ChannelStereo,
		WarpPoints:  warp,
		Params: plugin.SamplerParams{
			Amp:          points.EnvData{Value: 1},
			Pitch:        points.EnvData{Points: pitch},
			Transpose:    points.SliderRealData{Value: opts.transpose},
			SampleOffset: points.SliderIntData{Value: opts.offset},
			Reverse:      points.OptionData{Points: reverse, Value: -1},
			Loop:         points.ToggleData{Value: opts.loop},
		},
	}, nil
}

// loadClip reads --in, or builds a stereo 440 Hz tone at the song rate.
func loadClip(opts options) (*audiofile.Clip, error) {
	if opts.in != "" {
		return audiofile.Load(opts.in)
	}

	n := int(opts.songRate)
	l := make([]float32, n)
	r := make([]float32, n)
	for i := range n {
		v := float32(0.5 * math.Sin(2*math.Pi*440*float64(i)/opts.songRate))
		l[i], r[i] = v, v
	}

	return audiofile.NewClip(opts.songRate, 32, [][]float32{l, r})
}

func analyze(ctx context.Context, sampler *classic.Sampler, info *plugin.SampleInfo, logger *log.Logger, verbose bool) error {
	next := 0.25
	cb := plugin.PreprocessCallbacks{
		ReportProgress: func(p float64) {
			if verbose && p >= next {
				logger.Printf("analysis %3.0f%%", 100*p)
				next += 0.25
			}
		},
	}

	if code := sampler.Preprocess(ctx, cb, info); code != plugin.OK {
		return fmt.Errorf("analysis: %s", plugin.ErrorString(sampler, code))
	}

	res, _ := sampler.Analysis(info.ID)
	logger.Printf("analysis: %d onsets, peak %.3f", len(res.Onsets), res.Peak)

	return nil
}

// render plays the unit over frames song frames and returns planar stereo.
func render(ctx context.Context, sampler *classic.Sampler, buf *plugin.SamplerBuffer, state *plugin.SamplerUnitState, frames int) ([][]float32, error) {
	inst := sampler.NewInstance()
	if code := inst.StreamInit(buf.SongRate); code != plugin.OK {
		return nil, code
	}
	unit := inst.AddUnit()

	planar := [][]float32{make([]float32, frames), make([]float32, frames)}
	out := make([]float32, plugin.OutputSize)
	positions := make([]float64, core.VectorSize)

	for start := 0; start < frames; start += core.VectorSize {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		n := min(core.VectorSize, frames-start)
		for i := range n {
			positions[i] = float64(start + i)
		}

		buf.BufferID++
		buf.Positions = positions[:n]

		if code := unit.Process(buf, state, out); code != plugin.OK {
			return nil, fmt.Errorf("process: %w", code)
		}

		copy(planar[0][start:start+n], out[:n])
		copy(planar[1][start:start+n], out[core.VectorSize:core.VectorSize+n])
	}

	return planar, nil
}

func draw(sampler *classic.Sampler, buf *plugin.SamplerBuffer, state *plugin.SamplerUnitState, n int, w io.Writer) error {
	info := &plugin.DrawInfo{
		SculptedBlockPositions: make([]float64, n),
		WarpedBlockPositions:   make([]float64, n),
		FinalSamplePositions:   make([]float64, n),
		WaveformDerivatives:    make([]float32, n),
		Amp:                    make([]float32, n),
	}

	if code := sampler.Draw(buf, state, n, info); code != plugin.OK {
		return fmt.Errorf("draw: %w", code)
	}

	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintf(tw, "Frame\tSculpted\tWarped\tFinal\tDerivative\tAmp\n")
	fmt.Fprintf(tw, "-----\t--------\t------\t-----\t----------\t---\n")

	for i := range n {
		fmt.Fprintf(tw, "%d\t%.3f\t%.3f\t%.3f\t%.4f\t%.3f\n",
			i,
			info.SculptedBlockPositions[i],
			info.WarpedBlockPositions[i],
			info.FinalSamplePositions[i],
			info.WaveformDerivatives[i],
			info.Amp[i],
		)
	}

	return tw.Flush()
}
