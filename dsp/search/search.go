package search

import "github.com/cwbudde/algo-blink/dsp/block"

// Func looks up the value of data at pos, resuming from index beg.
// It returns the value and the index of the point to the left of pos.
type Func[P, T any] func(data P, pos float64, beg int) (T, int)

// Searcher pairs the binary and forward variants of a lookup.
type Searcher[P, T any] struct {
	Binary  Func[P, T]
	Forward Func[P, T]
}

// Cursor is the resume index a unit keeps between blocks.
type Cursor struct {
	left int
}

// Left returns the index the next forward search resumes from.
func (c *Cursor) Left() int { return c.left }

// Reset rewinds the cursor to the first point.
func (c *Cursor) Reset() { c.left = 0 }

// Vec evaluates s for the live slots of p into out.
//
// Slots flagged in resets use a binary search from index 0. Every other slot
// resumes a forward search from the left index of the slot before it; slot 0
// resumes from the cursor, which is updated to the final left index.
func Vec[P, T any](s Searcher[P, T], c *Cursor, data P, p *block.Positions, resets block.ResetMask, out []T) {
	left := c.left
	n := min(p.Count, len(out))

	for i := range n {
		pos := p.Positions[i]
		if resets.Has(i) {
			out[i], left = s.Binary(data, pos, 0)
		} else {
			out[i], left = s.Forward(data, pos, left)
		}
	}

	c.left = left
}

// upperBound returns the first index in [beg, n) whose x is greater than pos,
// or n if there is none.
func upperBound(n, beg int, x func(int) float64, pos float64) int {
	lo, hi := beg, n
	for lo < hi {
		mid := int(uint(lo+hi) >> 1)
		if x(mid) > pos {
			hi = mid
		} else {
			lo = mid + 1
		}
	}
	return lo
}

// scanForward returns the first index in [beg, n) whose x is greater than pos,
// or n if there is none.
func scanForward(n, beg int, x func(int) float64, pos float64) int {
	i := beg
	for i < n && x(i) <= pos {
		i++
	}
	return i
}

func clampBeg(beg, n int) int {
	if beg < 0 {
		return 0
	}
	if beg > n {
		return n
	}
	return beg
}
