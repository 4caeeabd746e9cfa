package main

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/hupe1980/spectra"
	"github.com/hupe1980/spectra/pipeline"
	"github.com/hupe1980/spectra/vector"
)

func main() {
	ctx := context.Background()

	dim := 100
	runs := 20
	k := 3

	store, err := spectra.New(func(o *spectra.Options) {
		o.Dimension = dim
	})
	if err != nil {
		log.Fatal(err)
	}

	p, err := pipeline.New(store)
	if err != nil {
		log.Fatal(err)
	}

	fmt.Println("--- Pipeline ---")
	fmt.Println("Dimension:", dim)
	fmt.Println("Runs:", runs)

	start := time.Now()

	results, err := p.RunBatch(ctx, vector.KindRandom, runs)
	if err != nil {
		log.Fatal(err)
	}

	fmt.Printf("Seconds: %.2f\n\n", time.Since(start).Seconds())

	last := results[len(results)-1]

	fmt.Println("--- Last Run ---")
	fmt.Printf("Entropy: %.4f\n", last.Collapse.Entropy)
	fmt.Printf("Best Layer: %d\n", last.Modulate.BestLayer)
	fmt.Printf("Efficiency: %.4f\n", last.Resonate.Efficiency)
	fmt.Printf("Bandwidth: %.4f\n", last.Tuning.Bandwidth)
	fmt.Println()

	fmt.Println("--- Query ---")

	hits, err := store.Query(ctx, vector.ToFloat32(last.Filtered), k)
	if err != nil {
		log.Fatal(err)
	}

	for i, hit := range hits {
		fmt.Printf("%d. run %v (distance %.4f)\n", i+1, hit.Metadata["run_id"], hit.Distance)
	}
	fmt.Println()

	stats := store.Stats()

	fmt.Println("--- Stats ---")
	fmt.Printf("Size: %d/%d\n", stats.Size, stats.MaxSize)
	fmt.Printf("Backend: %s\n", stats.Backend)
}
