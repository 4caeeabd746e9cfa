// Package index provides backend interfaces and shared types for the vector store.
//
// Two backend implementations are provided:
//
//   - ivf: Approximate nearest neighbor search over kmeans-trained partitions
//   - flat: Exact nearest neighbor search (brute-force with SIMD kernels)
//
// # Backend Selection
//
// Choose based on dataset size and accuracy requirements:
//
//   - flat: small stores, 100% recall required
//   - ivf: larger stores, approximate recall traded for fewer distance
//     computations (only the probed partitions are scanned)
//
// # Backend Interface
//
// All backend implementations satisfy the Backend interface:
//
//	type Backend interface {
//	    Kind() Kind
//	    Len() int
//	    Insert(ctx context.Context, v []float32) (uint32, error)
//	    Rebuild(ctx context.Context, vectors [][]float32) error
//	    Search(ctx context.Context, q []float32, k int) ([]SearchResult, error)
//	}
//
// Backends assign sequential IDs starting at 0. The owning store maps IDs to
// insertion order and rebuilds the backend wholesale on eviction; backends do
// not support point deletion.
package index
