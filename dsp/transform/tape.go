package transform

import (
	"math"

	"github.com/cwbudde/algo-blink/dsp/block"
	"github.com/cwbudde/algo-blink/dsp/points"
)

// TapeConfig is the per-block input of the tape pipeline.
type TapeConfig struct {
	// UnitStateID changes whenever the modulation bindings of the unit change.
	UnitStateID  uint64
	Transpose    float64
	SampleOffset int64
	Pitch        *points.RealPoints
	Reverse      *points.IntPoints
	WarpPoints   *points.WarpPoints
	Outputs      Outputs
}

func (cfg TapeConfig) pitch() PitchConfig {
	return PitchConfig{Transpose: cfg.Transpose, Pitch: cfg.Pitch}
}

// tapePoints transforms reverse points through pitch, offset and warp.
type tapePoints struct {
	cfg   TapeConfig
	pitch PitchUnit
	warp  subWarp
	prev  float64
}

func (t *tapePoints) reset(cfg TapeConfig) {
	t.cfg = cfg
	t.pitch.Reset()
	t.warp.reset()
	t.prev = math.MaxFloat64
}

func (t *tapePoints) TransformPosition(x float64) (float64, float64) {
	var ff float64

	pc := t.cfg.pitch()
	if pc.Pitch.Len() > 0 {
		if x < t.prev {
			t.pitch.Reset()
		}
		t.prev = x
		x = t.pitch.Xform(pc, x, &ff)
	} else {
		ff = pc.constantFF()
		x *= ff
	}

	x -= float64(t.cfg.SampleOffset)
	x = t.warp.xform(t.cfg.WarpPoints, x, &ff)

	return x, ff
}

// Tape turns block positions into sample positions for pitch-based playback:
// a pitch envelope, a sample offset, warp markers and reverse modes.
//
// Tape is not thread-safe. Use one instance per unit and a separate one for
// waveform drawing.
type Tape struct {
	stages
	pitch  Pitch
	points tapePoints
}

// NewTape returns a Tape ready for its first block.
func NewTape() *Tape {
	return &Tape{stages: newStages()}
}

// Xform runs the pipeline over the live slots of p.
func (t *Tape) Xform(cfg TapeConfig, p *block.Positions) {
	t.resets = t.traverser.Generate(cfg.UnitStateID, p, p.Count)

	t.pitch.Xform(cfg.pitch(), p, t.resets, &t.positions.rated, t.ratedDerivatives(cfg.Outputs.RateDerivatives))

	t.points.reset(cfg)
	t.applyOffsetWarpReverse(cfg.SampleOffset, cfg.WarpPoints, cfg.Reverse, &t.points, cfg.Outputs)
	t.points.cfg = TapeConfig{}
}

// PitchedPositions returns the positions after the pitch and offset stages.
func (t *Tape) PitchedPositions() *block.Positions { return &t.positions.rated }

// PitchedDerivatives returns the pitch stage derivatives. Only valid when
// Outputs.RateDerivatives was set.
func (t *Tape) PitchedDerivatives() []float64 {
	return t.derivatives.rated[:t.positions.rated.Count]
}

// Reset clears all calculator state.
func (t *Tape) Reset() {
	t.stages.reset()
	t.pitch.Reset()
}
