// Package search looks up modulation values at block positions.
//
// Every lookup comes in two flavours that return the same (value, left) pair:
//
//   - Binary: O(log n) upper-bound search, used after a reset.
//   - Forward: linear scan from a resume index, used while playback advances.
//
// left is the index of the point at or to the left of the position, or 0 if
// there is none. Feeding it back as the resume index of the next forward
// lookup gives amortised O(1) cost for monotonic playback.
//
// [Vec] drives a searcher over a block of positions using a [block.ResetMask]
// to decide per slot whether the resume index can be trusted.
package search
