package block

import (
	"math"

	"github.com/cwbudde/algo-blink/dsp/core"
)

// Positions is a window of block positions.
//
// The zero value is usable; [NewPositions] additionally seeds PrevPos so that
// the first block is always seen as a backward jump.
type Positions struct {
	Positions [core.VectorSize]float64
	PrevPos   float64
	Count     int
}

// NewPositions returns an empty window whose previous position is +MaxFloat64.
func NewPositions() Positions {
	var p Positions
	p.Count = core.VectorSize
	p.PrevPos = math.MaxFloat64
	p.Positions[p.Count-1] = math.MaxFloat64
	return p
}

// FromSlice builds a window from src. Values past [core.VectorSize] are ignored.
func FromSlice(src []float64) Positions {
	p := NewPositions()
	p.Count = copy(p.Positions[:], src)
	return p
}

// At returns the position at slot i. Slot -1 is the last position of the
// previous block.
func (p *Positions) At(i int) float64 {
	if i == -1 {
		return p.PrevPos
	}
	return p.Positions[i]
}

// Set stores v at slot i.
func (p *Positions) Set(i int, v float64) {
	p.Positions[i] = v
}

// Values returns the live slots.
func (p *Positions) Values() []float64 {
	return p.Positions[:p.Count]
}

// RotatePrevPos remembers the current tail as the previous position.
func (p *Positions) RotatePrevPos() {
	if p.Count > 0 {
		p.PrevPos = p.Positions[p.Count-1]
	}
}

// Add starts a new block with the given positions.
func (p *Positions) Add(src []float64) {
	p.RotatePrevPos()
	p.Count = copy(p.Positions[:], src)
}

// AddWithOffset starts a new block, subtracting a data offset from every position.
func (p *Positions) AddWithOffset(src []float64, offset int64) {
	p.RotatePrevPos()

	n := min(len(src), core.VectorSize)
	off := float64(offset)

	for i := range n {
		p.Positions[i] = src[i] - off
	}

	p.Count = n
}

// Shift subtracts delta from every live slot.
func (p *Positions) Shift(delta float64) {
	if delta == 0 {
		return
	}
	for i := range p.Count {
		p.Positions[i] -= delta
	}
}

// Scale writes src*ff into the live slots of p, taking the count from src.
func (p *Positions) Scale(src *Positions, ff float64) {
	p.Count = src.Count
	for i := range src.Count {
		p.Positions[i] = src.Positions[i] * ff
	}
}

// CopyFrom copies the live slots and count of src. PrevPos is left alone.
func (p *Positions) CopyFrom(src *Positions) {
	p.Count = src.Count
	copy(p.Positions[:src.Count], src.Positions[:src.Count])
}
