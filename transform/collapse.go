package transform

import (
	"fmt"
	"math"
	"math/rand/v2"
	"slices"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
	"gonum.org/v1/gonum/stat/distuv"
)

// supportThreshold is the density below which a histogram bin counts as empty.
const supportThreshold = 1e-6

// CollapseResult holds the sampling statistics of a measurement run.
type CollapseResult struct {
	// Entropy is the natural-base Shannon entropy of the amplitude distribution.
	Entropy float64

	// KLDivergence measures how far the sampled histogram drifted from the
	// amplitude distribution.
	KLDivergence float64

	// Unique is the number of indices that received a non-negligible share
	// of the samples.
	Unique int

	// Correlation is the Pearson correlation between distribution and
	// histogram. It is NaN when the histogram is constant.
	Correlation float64
}

// Collapse treats the squared entries of vec as a probability distribution
// over indices, draws samples from it and compares the empirical histogram
// against the distribution. A zero vector samples uniformly.
//
// src drives the sampling; pass a seeded source for reproducible runs, or
// nil for the global one.
func Collapse(vec []float64, samples int, eps float64, src rand.Source) (CollapseResult, error) {
	if len(vec) == 0 {
		return CollapseResult{}, fmt.Errorf("vector must not be empty")
	}

	if samples <= 0 {
		return CollapseResult{}, fmt.Errorf("samples must be positive, got %d", samples)
	}

	probs := probabilities(vec, eps)

	weights := probs
	if floats.Sum(weights) == 0 {
		weights = make([]float64, len(vec))
		for i := range weights {
			weights[i] = 1
		}
	}

	cat := distuv.NewCategorical(weights, src)

	outcomes := make([]float64, samples)
	for i := range outcomes {
		outcomes[i] = cat.Rand()
	}

	slices.Sort(outcomes)

	dividers := make([]float64, len(vec)+1)
	floats.Span(dividers, 0, float64(len(vec)))

	// Unit-width bins, so dividing by the sample count gives a density.
	hist := stat.Histogram(nil, dividers, outcomes, nil)
	floats.Scale(1/float64(samples), hist)

	probsEps := make([]float64, len(probs))
	histEps := make([]float64, len(hist))
	for i := range probs {
		probsEps[i] = probs[i] + eps
		histEps[i] = hist[i] + eps
	}

	unique := 0
	for _, h := range hist {
		if h > supportThreshold {
			unique++
		}
	}

	correlation := math.NaN()
	if stat.StdDev(hist, nil) > 0 {
		correlation = stat.Correlation(probs, hist, nil)
	}

	return CollapseResult{
		Entropy:      stat.Entropy(probs),
		KLDivergence: stat.KullbackLeibler(histEps, probsEps),
		Unique:       unique,
		Correlation:  correlation,
	}, nil
}
