package transform

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/floats"
)

// ZetaResult holds the power-law weighted vector and its gain statistics.
type ZetaResult struct {
	Transformed []float64

	// Amplification is the mean absolute output relative to the mean
	// absolute input.
	Amplification float64

	// EnergyRatio is the output energy relative to the input energy.
	EnergyRatio float64
}

// Zeta scales entry k of vec by k^(-s) (1-based), damping later entries the
// way the terms of a zeta series decay. For positive s the transform
// attenuates; s = 0 is the identity.
func Zeta(vec []float64, s, eps float64) (ZetaResult, error) {
	if len(vec) == 0 {
		return ZetaResult{}, fmt.Errorf("vector must not be empty")
	}

	transformed := make([]float64, len(vec))

	var sumAbsIn, sumAbsOut float64
	for i, x := range vec {
		transformed[i] = x * math.Pow(float64(i+1), -s)
		sumAbsIn += math.Abs(x)
		sumAbsOut += math.Abs(transformed[i])
	}

	n := float64(len(vec))
	amplification := (sumAbsOut / n) / (sumAbsIn/n + eps)

	normIn := floats.Norm(vec, 2)
	normOut := floats.Norm(transformed, 2)
	energyRatio := normOut * normOut / (normIn*normIn + eps)

	return ZetaResult{
		Transformed:   transformed,
		Amplification: amplification,
		EnergyRatio:   energyRatio,
	}, nil
}
