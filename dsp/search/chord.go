package search

import (
	"github.com/cwbudde/algo-blink/dsp/block"
	"github.com/cwbudde/algo-blink/dsp/points"
)

// Chord is a scale lookup over chord blocks.
type Chord struct {
	Blocks  *points.ChordBlocks
	Default points.Scale
}

// ChordSearcher holds the scale of the block to the left of a position.
var ChordSearcher = Searcher[Chord, points.Scale]{Binary: Chord.binary, Forward: Chord.forward}

func (c Chord) binary(pos float64, beg int) (points.Scale, int) {
	return ChordBinary(c.Blocks, c.Default, pos, beg)
}

func (c Chord) forward(pos float64, beg int) (points.Scale, int) {
	return ChordForward(c.Blocks, c.Default, pos, beg)
}

// ChordBinary returns the scale at pos using a binary search from beg.
func ChordBinary(blocks *points.ChordBlocks, def points.Scale, pos float64, beg int) (points.Scale, int) {
	n := blocks.Len()
	if n < 2 {
		return chordDegenerate(blocks, def)
	}
	x := func(i int) float64 { return blocks.Data[i].X }
	return chordAt(blocks, def, upperBound(n, clampBeg(beg, n), x, pos))
}

// ChordForward returns the scale at pos scanning forward from beg.
func ChordForward(blocks *points.ChordBlocks, def points.Scale, pos float64, beg int) (points.Scale, int) {
	n := blocks.Len()
	if n < 2 {
		return chordDegenerate(blocks, def)
	}
	x := func(i int) float64 { return blocks.Data[i].X }
	return chordAt(blocks, def, scanForward(n, clampBeg(beg, n), x, pos))
}

// ChordVec evaluates chord data over a block. A nil data pointer yields def everywhere.
func ChordVec(c *Cursor, data *points.ChordData, def points.Scale, p *block.Positions, resets block.ResetMask, out []points.Scale) {
	var blocks *points.ChordBlocks
	if data != nil {
		blocks = data.Points
	}
	Vec(ChordSearcher, c, Chord{Blocks: blocks, Default: def}, p, resets, out)
}

func chordDegenerate(blocks *points.ChordBlocks, def points.Scale) (points.Scale, int) {
	if blocks.Len() == 0 {
		return def, 0
	}
	return blocks.Data[0].Y, 0
}

func chordAt(blocks *points.ChordBlocks, def points.Scale, idx int) (points.Scale, int) {
	if idx == 0 {
		return def, 0
	}
	return blocks.Data[idx-1].Y, idx - 1
}
