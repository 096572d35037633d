// Package block holds the per-block position window and the traverser that
// flags where incremental searches must restart.
//
// A [Positions] value carries up to [core.VectorSize] positions plus the last
// position of the previous block, reachable as index -1. The [Traverser]
// compares every slot with its predecessor and returns a [ResetMask] with a
// bit set wherever playback went backward. That mask is shared by every
// calculator in a pipeline so that all stages restart together.
package block
