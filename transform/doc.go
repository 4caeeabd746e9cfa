// Package transform implements the five numeric transforms applied by the
// processing pipeline: measurement sampling statistics (Collapse), power-law
// index weighting (Zeta), combinatorial smoothing (Bell), iterative
// phase-coherence layering (Modulate) and second-order resonance filtering
// (Resonate).
//
// All transforms are pure functions over []float64. None of them mutates its
// input. The eps parameter is a small floor that keeps denominators away from
// zero; DefaultEpsilon is the value used throughout when callers have no
// reason to pick another.
package transform
