package search

import (
	"github.com/cwbudde/algo-blink/dsp/block"
	"github.com/cwbudde/algo-blink/dsp/core"
	"github.com/cwbudde/algo-blink/dsp/points"
)

// OneReal returns the envelope value at a single position.
func OneReal(pts *points.RealPoints, def, pos float64) float64 {
	v, _ := RealBinary(pts, def, pos, 0)
	return v
}

// OneStep returns the step value at a single position.
func OneStep(pts *points.IntPoints, def int64, pos float64) int64 {
	v, _ := StepBinary(pts, def, pos, 0)
	return v
}

// OneEnv returns the value of an envelope parameter at pos.
// An unautomated parameter yields its current value.
func OneEnv(env points.EnvData, pos float64) float64 {
	if env.Points == nil {
		return env.Value
	}
	return OneReal(env.Points, env.DefaultValue, pos)
}

// OneSlider returns the value of a real slider parameter at pos.
func OneSlider(slider points.SliderRealData, pos float64) float64 {
	if slider.Points == nil {
		return slider.Value
	}
	return OneReal(slider.Points, slider.DefaultValue, pos)
}

// OneOption returns the value of an option parameter at pos.
func OneOption(opt points.OptionData, pos float64) int64 {
	if opt.Points == nil {
		return opt.Value
	}
	return OneStep(opt.Points, opt.DefaultValue, pos)
}

// OneSliderInt returns the value of an integer slider parameter at pos.
func OneSliderInt(slider points.SliderIntData, pos float64) int64 {
	if slider.Points == nil {
		return slider.Value
	}
	return OneStep(slider.Points, slider.DefaultValue, pos)
}

// OneToggle returns the state of a toggle parameter at pos. Points hold 0 or 1.
func OneToggle(toggle points.ToggleData, pos float64) bool {
	if toggle.Points == nil {
		return toggle.Value
	}

	var def int64
	if toggle.DefaultValue {
		def = 1
	}

	return OneStep(toggle.Points, def, pos) != 0
}

// VecEnv evaluates an envelope parameter over a block.
// With fewer than two points the parameter's current value fills the block.
func VecEnv(c *Cursor, env points.EnvData, p *block.Positions, resets block.ResetMask, out []float64) {
	if env.Points.Len() <= 1 {
		core.Fill(out[:min(p.Count, len(out))], env.Value)
		return
	}
	RealVec(c, env.Points, env.DefaultValue, p, resets, out)
}

// VecSlider evaluates a real slider parameter over a block.
func VecSlider(c *Cursor, slider points.SliderRealData, p *block.Positions, resets block.ResetMask, out []float64) {
	if slider.Points.Len() <= 1 {
		core.Fill(out[:min(p.Count, len(out))], slider.Value)
		return
	}
	RealVec(c, slider.Points, slider.DefaultValue, p, resets, out)
}
