// Package classic implements a reference sampler on top of the tape pipeline.
//
// Each unit turns host block positions into sample read positions with
// [transform.Tape], reads interpolated frames from the host sample and applies
// the amp and pan envelopes. The sampler also draws waveforms and, when built
// with [WithAnalysis], preprocesses samples with onset detection.
package classic
