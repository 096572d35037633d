// Package points defines the modulation data a host hands to a sampler unit
// for one call: envelope points, step/option points, chord blocks and warp
// markers.
//
// All arrays are borrowed. Callers must not retain a slice across calls; the
// host may swap buffers between the audio and GUI threads. Calculators keep
// only scan progress (indices and accumulated positions), never the data.
//
// X coordinates are block positions and must be strictly increasing. The
// real-time path does not check this; [RealPoints.Validate] and friends exist
// for tooling and tests.
package points
