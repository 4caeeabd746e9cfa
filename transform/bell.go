package transform

import (
	"fmt"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

// BellResult holds the smoothed vector and the smoothing statistics.
type BellResult struct {
	Smoothed []float64

	// Improvement is the ratio of first-difference variance before and
	// after smoothing. Values above 1 mean the output is smoother.
	Improvement float64

	// NoiseReduction is the removed variance as a percentage of the input
	// variance, capped at 100.
	NoiseReduction float64
}

// Bell smooths vec by convolving it with normalized Bell numbers. depth
// picks the filter order as floor(depth*10), clamped to [1, 20]; larger
// depths average over a wider window.
func Bell(vec []float64, depth, eps float64) (BellResult, error) {
	if len(vec) == 0 {
		return BellResult{}, fmt.Errorf("vector must not be empty")
	}

	order := int(depth * 10)
	if order < 1 {
		order = 1
	}
	if order > 20 {
		order = 20
	}

	coeffs := bellNumbers(order)
	floats.Scale(1/(floats.Sum(coeffs)+eps), coeffs)

	smoothed := convolveSame(vec, coeffs)

	improvement := (stat.Variance(diff(vec), nil) + eps) / (stat.Variance(diff(smoothed), nil) + eps)

	residual := make([]float64, len(vec))
	floats.SubTo(residual, vec, smoothed)

	noiseReduction := stat.Variance(residual, nil) / (stat.Variance(vec, nil) + eps) * 100
	if noiseReduction > 100 {
		noiseReduction = 100
	}

	return BellResult{
		Smoothed:       smoothed,
		Improvement:    improvement,
		NoiseReduction: noiseReduction,
	}, nil
}
