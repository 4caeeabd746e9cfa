// Package spectra provides a capacity-bounded in-memory vector store with
// k-nearest-neighbor queries, plus a pipeline of spectral transforms that
// feeds it.
//
// # Store
//
// A Store ingests fixed-dimension vectors with attached metadata and answers
// k-nearest-neighbor queries by Euclidean distance. Entries are kept in
// insertion order; once the configured capacity is reached, every insert
// evicts the oldest entry first. Two backends are available:
//
//   - indexed: approximate search over kmeans-trained partitions, probing
//     only the closest partitions per query
//   - exhaustive: plain linear scan, always exact
//
// The default auto mode builds the indexed backend and falls back to the
// exhaustive one if partition training fails, so construction only fails for
// invalid configuration.
//
// Inputs are repaired rather than rejected: vectors of the wrong length are
// truncated or zero-padded to the configured dimension, and non-finite
// values are replaced with zero.
//
// # Quick Start
//
//	ctx := context.Background()
//
//	store, err := spectra.New(func(o *spectra.Options) {
//	    o.Dimension = 4
//	    o.MaxSize = 100
//	})
//	if err != nil {
//	    panic(err)
//	}
//
//	_ = store.Insert(ctx, []float32{0, 0, 0, 1}, spectra.Metadata{"name": "unit"})
//
//	results, _ := store.Query(ctx, []float32{0, 0, 0, 1}, 3)
//	for _, r := range results {
//	    fmt.Println(r.Metadata, r.Distance)
//	}
//
// # Transforms and Pipeline
//
// The transform package holds the five stateless signal-processing-style
// transforms (probabilistic collapse, zeta weighting, Bell-number smoothing,
// phase-coherence modulation, resonance filtering). The pipeline package
// chains them over generated vectors and stores each result with its stage
// metrics as metadata, adapting the resonator tuning from the store's
// existing contents.
package spectra
