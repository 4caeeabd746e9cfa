package transform

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"
)

// ResonateResult holds the filtered vector and the resonator parameters.
type ResonateResult struct {
	Filtered []float64

	// Q is the resonator quality factor, 1/bandwidth.
	Q float64

	// Efficiency is the output energy relative to the input energy.
	Efficiency float64
}

// Resonate drives a second-order resonator with vec as its input signal and
// samples the response at unit steps. The resonator is
//
//	H(s) = Q / (s^2 + damping*s + Q^2)
//
// with Q = 1/bandwidth. Narrow bandwidths give a high Q and a sharply tuned
// response. Non-finite output samples are zeroed.
func Resonate(vec []float64, bandwidth, damping, eps float64) (ResonateResult, error) {
	if len(vec) == 0 {
		return ResonateResult{}, fmt.Errorf("vector must not be empty")
	}

	if bandwidth <= 0 {
		return ResonateResult{}, fmt.Errorf("bandwidth must be positive, got %g", bandwidth)
	}

	if damping <= 0 {
		return ResonateResult{}, fmt.Errorf("damping must be positive, got %g", damping)
	}

	q := 1 / bandwidth

	// Controllable canonical state space of H(s) with the input column
	// appended, so one matrix exponential yields both the discrete state
	// matrix and the discrete input vector (zero-order hold, dt = 1).
	aug := mat.NewDense(3, 3, []float64{
		0, 1, 0,
		-q * q, -damping, 1,
		0, 0, 0,
	})

	var expAug mat.Dense
	expAug.Exp(aug)

	a11, a12 := expAug.At(0, 0), expAug.At(0, 1)
	a21, a22 := expAug.At(1, 0), expAug.At(1, 1)
	b1, b2 := expAug.At(0, 2), expAug.At(1, 2)

	filtered := make([]float64, len(vec))

	var x1, x2 float64
	for i, u := range vec {
		y := q * x1
		if math.IsNaN(y) || math.IsInf(y, 0) {
			y = 0
		}
		filtered[i] = y

		x1, x2 = a11*x1+a12*x2+b1*u, a21*x1+a22*x2+b2*u
	}

	normIn := floats.Norm(vec, 2)
	normOut := floats.Norm(filtered, 2)

	return ResonateResult{
		Filtered:   filtered,
		Q:          q,
		Efficiency: normOut * normOut / (normIn*normIn + eps),
	}, nil
}
