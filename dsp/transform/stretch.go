package transform

import (
	"math"

	"github.com/cwbudde/algo-blink/dsp/block"
	"github.com/cwbudde/algo-blink/dsp/points"
)

// StretchConfig is the per-block input of the stretch pipeline.
type StretchConfig struct {
	UnitStateID  uint64
	Speed        float64
	SampleOffset int64
	Env          *points.RealPoints
	Reverse      *points.IntPoints
	WarpPoints   *points.WarpPoints
	Outputs      Outputs
}

func (cfg StretchConfig) speed() SpeedConfig {
	return SpeedConfig{Speed: cfg.Speed, Env: cfg.Env}
}

// stretchPoints transforms reverse points through speed, offset and warp.
type stretchPoints struct {
	cfg   StretchConfig
	speed SpeedUnit
	warp  subWarp
	prev  float64
}

func (s *stretchPoints) reset(cfg StretchConfig) {
	s.cfg = cfg
	s.speed.Reset()
	s.warp.reset()
	s.prev = math.MaxFloat64
}

func (s *stretchPoints) TransformPosition(x float64) (float64, float64) {
	var ff float64

	sc := s.cfg.speed()
	if sc.Env.Len() > 0 {
		if x < s.prev {
			s.speed.Reset()
		}
		s.prev = x
		x = s.speed.Xform(sc, x, &ff)
	} else {
		ff = sc.constantFF()
		x *= ff
	}

	x -= float64(s.cfg.SampleOffset)
	x = s.warp.xform(s.cfg.WarpPoints, x, &ff)

	return x, ff
}

// Stretch is the speed-based counterpart of [Tape].
type Stretch struct {
	stages
	speed  Speed
	points stretchPoints
}

// NewStretch returns a Stretch ready for its first block.
func NewStretch() *Stretch {
	return &Stretch{stages: newStages()}
}

// Xform runs the pipeline over the live slots of p.
func (s *Stretch) Xform(cfg StretchConfig, p *block.Positions) {
	s.resets = s.traverser.Generate(cfg.UnitStateID, p, p.Count)

	s.speed.Xform(cfg.speed(), p, s.resets, &s.positions.rated, s.ratedDerivatives(cfg.Outputs.RateDerivatives))

	s.points.reset(cfg)
	s.applyOffsetWarpReverse(cfg.SampleOffset, cfg.WarpPoints, cfg.Reverse, &s.points, cfg.Outputs)
	s.points.cfg = StretchConfig{}
}

// SpedPositions returns the positions after the speed and offset stages.
func (s *Stretch) SpedPositions() *block.Positions { return &s.positions.rated }

// SpedDerivatives returns the speed stage derivatives. Only valid when
// Outputs.RateDerivatives was set.
func (s *Stretch) SpedDerivatives() []float64 {
	return s.derivatives.rated[:s.positions.rated.Count]
}

// Reset clears all calculator state.
func (s *Stretch) Reset() {
	s.stages.reset()
	s.speed.Reset()
}
