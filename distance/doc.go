// Package distance provides vector distance calculations with SIMD acceleration.
//
// All kernels delegate to github.com/viant/vec, which dispatches to
// SIMD-optimized implementations when available:
//   - AVX-512/AVX2 on x86-64
//   - NEON on ARM64
//
// # Supported Metrics
//
//   - MetricL2: Euclidean distance (default)
//   - MetricCosine: Cosine distance (1 - cosine similarity)
//
// # Usage
//
//	dist := distance.Euclidean(a, b)
//	norm := distance.Magnitude(a)
package distance
