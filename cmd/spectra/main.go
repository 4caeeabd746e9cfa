// spectra is a CLI for the spectra vector store and transform pipeline.
//
// It runs the transform chain over generated vectors, stores the results
// and benchmarks raw store operations.
//
// Usage:
//
//	spectra run --kind sparse --count 5
//	spectra bench --ops 100
package main

import (
	"os"

	"github.com/hupe1980/spectra/cmd/spectra/commands"
)

func main() {
	if err := commands.Execute(); err != nil {
		os.Exit(1)
	}
}
