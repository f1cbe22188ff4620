// Package godpsd implements an offline pulse-shape-discrimination (PSD)
// analyzer for a digitized neutron/gamma liquid-scintillator detector.
//
// A raw acquisition file holds a stream of variable-length waveform
// "windows" recorded by a fast ADC, each preceded by a short header
// encoding the time gap to the previous window. Run decodes that stream,
// repairs a known ADC sample-interleave fault, extracts per-pulse
// features, classifies each pulse (neutron, gamma, LED calibration,
// pile-up, saturated), corrects for photomultiplier gain drift using
// periodic LED reference pulses, and aggregates the result into
// time-binned count rates and pulse-height spectra per class.
//
// # Pipeline
//
// Run drives, in order: raw-stream decode and waveform repair, per-pulse
// feature extraction, an initial PSD classification pass, pile-up
// detection, single-pass LED gain correction, a final classification
// pass, and histogram aggregation. See the package-level comments in
// internal/rawstream, internal/features, internal/psdclassify,
// internal/pileup, internal/ledcorrect and internal/aggregate for the
// semantics of each stage.
//
// # Determinism
//
// Given identical input bytes and identical Config values, Run produces
// bit-reproducible output arrays. LED gain correction is always applied
// as a strictly sequential fold over time-ordered pulses; it is never
// parallelized, since its in-place rescaling of accumulated pulse
// integrals is an essential, order-dependent side effect.
package godpsd
