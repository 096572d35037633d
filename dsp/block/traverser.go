package block

import "math/bits"

// ResetMask flags slots where a search must restart. Bit i covers slot i.
type ResetMask uint64

// Has reports whether slot i is flagged.
func (m ResetMask) Has(i int) bool {
	return m&(1<<uint(i)) != 0
}

// Set returns m with slot i flagged.
func (m ResetMask) Set(i int) ResetMask {
	return m | 1<<uint(i)
}

// Any reports whether any slot is flagged.
func (m ResetMask) Any() bool {
	return m != 0
}

// Count returns the number of flagged slots.
func (m ResetMask) Count() int {
	return bits.OnesCount64(uint64(m))
}

// Backward flags every slot i in [0, n) where p.At(i) < p.At(i-1).
func Backward(p *Positions, n int) ResetMask {
	var m ResetMask

	prev := p.PrevPos
	for i := range n {
		pos := p.Positions[i]
		if pos < prev {
			m = m.Set(i)
		}
		prev = pos
	}

	return m
}

// Traverser generates reset masks for a stream of position blocks.
type Traverser struct {
	resets ResetMask
	lastID uint64
	seen   bool
}

// Generate computes the reset mask for the first n slots of p.
// Slot 0 is also flagged when stateID differs from the previous call or on
// the first call.
func (t *Traverser) Generate(stateID uint64, p *Positions, n int) ResetMask {
	t.resets = Backward(p, n)

	if n > 0 && (!t.seen || stateID != t.lastID) {
		t.resets = t.resets.Set(0)
	}

	t.lastID = stateID
	t.seen = true

	return t.resets
}

// Resets returns the mask from the last call to Generate.
func (t *Traverser) Resets() ResetMask {
	return t.resets
}

// Reset forgets the last state id so the next block starts fresh.
func (t *Traverser) Reset() {
	t.resets = 0
	t.seen = false
}
