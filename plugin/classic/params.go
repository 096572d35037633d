package classic

import (
	"github.com/cwbudde/algo-blink/dsp/block"
	"github.com/cwbudde/algo-blink/dsp/core"
	"github.com/cwbudde/algo-blink/dsp/search"
	"github.com/cwbudde/algo-blink/dsp/transform"
	"github.com/cwbudde/algo-blink/plugin"
)

// tapeConfig resolves the unit parameters that are constant over a block.
// Sliders and toggles are sampled at the first slot.
func tapeConfig(state *plugin.SamplerUnitState, p *block.Positions, out transform.Outputs) transform.TapeConfig {
	params := &state.Params
	at := p.At(0)

	transpose := search.OneSlider(params.Transpose, at)
	if params.Pitch.Points == nil {
		transpose += params.Pitch.Value
	}

	return transform.TapeConfig{
		UnitStateID:  state.ID,
		Transpose:    transpose,
		SampleOffset: search.OneSliderInt(params.SampleOffset, at),
		Pitch:        params.Pitch.Points,
		Reverse:      params.Reverse.Points,
		WarpPoints:   state.WarpPoints,
		Outputs:      out,
	}
}

// loopRegion is the frame range playback wraps in.
type loopRegion struct {
	enabled    bool
	start, end float64
	// whole loops over the full sample without loop points.
	whole bool
}

func newLoopRegion(info *plugin.SampleInfo, enabled bool) loopRegion {
	if !enabled {
		return loopRegion{}
	}
	if info.LoopPoints == nil || info.LoopPoints[1] <= info.LoopPoints[0] {
		return loopRegion{enabled: true, whole: true}
	}
	return loopRegion{
		enabled: true,
		start:   float64(info.LoopPoints[0]),
		end:     float64(info.LoopPoints[1]),
	}
}

// apply folds positions past the loop end back into the loop.
func (l loopRegion) apply(pos []float64) {
	if !l.enabled || l.whole {
		return
	}

	length := l.end - l.start
	for i, x := range pos {
		if x >= l.end {
			pos[i] = l.start + core.Wrap(x-l.start, length)
		}
	}
}

// panGains returns the balance gains for pan in [-1, 1].
func panGains(pan float64) (left, right float64) {
	pan = core.Clamp(pan, -1, 1)
	return min(1, 1-pan), min(1, 1+pan)
}
