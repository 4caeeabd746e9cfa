// Package pipeline chains the five spectral transforms over generated
// vectors and stores each result.
//
// A run generates a vector, measures its collapse statistics, applies the
// zeta weighting, smooths with Bell numbers, layers the phase-coherence
// modulation and drives the resonance filter, then inserts the filtered
// vector into the store with the stage metrics as metadata.
//
// When adaptive tuning is on, each run first derives the resonator
// bandwidth and damping from how strongly the new vector associates with
// its nearest stored neighbors. The tuning is explicit per-pipeline state,
// never shared configuration.
package pipeline
