package transform

import "github.com/cwbudde/algo-blink/dsp/core"

// maxGrainLength caps the length of a correction grain in frames.
const maxGrainLength = core.VectorSize * 64

// Grain is one correction grain event.
type Grain struct {
	// Slot is the block slot where the discontinuity happened.
	Slot int
	// FF is the signed playback rate to crossfade from.
	FF float64
	// Length is the crossfade length in frames.
	Length float64
}

// CorrectionGrains collects the direction discontinuities of one block.
//
// BufferIndex lists the slots in push order. FF and Length are indexed by slot,
// not by push order.
type CorrectionGrains struct {
	Count       int
	BufferIndex [core.VectorSize]int
	FF          [core.VectorSize]float64
	Length      [core.VectorSize]float64
}

// Push records g. It reports false and drops the grain when the buffer is full
// or the slot is out of range.
func (g *CorrectionGrains) Push(grain Grain) bool {
	if g.Count >= core.VectorSize || grain.Slot < 0 || grain.Slot >= core.VectorSize {
		return false
	}

	g.BufferIndex[g.Count] = grain.Slot
	g.FF[grain.Slot] = grain.FF
	g.Length[grain.Slot] = grain.Length
	g.Count++

	return true
}

// At returns the i-th pushed grain.
func (g *CorrectionGrains) At(i int) Grain {
	slot := g.BufferIndex[i]
	return Grain{Slot: slot, FF: g.FF[slot], Length: g.Length[slot]}
}

// Clear empties the buffer.
func (g *CorrectionGrains) Clear() {
	g.Count = 0
}
