package transform

import (
	"fmt"
	"math/cmplx"
	"slices"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

// ModulateResult holds the layered vector and the coherence statistics.
type ModulateResult struct {
	Modulated []float64

	// BestLayer is the layer with the highest phase coherence, or 0 when
	// no layer reached a positive coherence.
	BestLayer int

	// MaxCoherence is the best layer's coherence in [0, 1].
	MaxCoherence float64

	// Stability is the output/input standard deviation ratio.
	Stability float64
}

// Modulate applies the zeta weighting repeatedly and tracks the phase
// coherence of the intermediate vectors. The entropy of the amplitude
// distribution decides how many layers run, capped at maxLayers.
func Modulate(vec []float64, maxLayers int, eps float64) (ModulateResult, error) {
	if len(vec) == 0 {
		return ModulateResult{}, fmt.Errorf("vector must not be empty")
	}

	if maxLayers < 1 {
		return ModulateResult{}, fmt.Errorf("max layers must be positive, got %d", maxLayers)
	}

	weights := make([]float64, len(vec))
	for i, x := range vec {
		weights[i] = x*x + eps
	}
	floats.Scale(1/floats.Sum(weights), weights)

	layers := int(stat.Entropy(weights) * 2)
	if layers < 1 {
		layers = 1
	}
	if layers > maxLayers {
		layers = maxLayers
	}

	modulated := slices.Clone(vec)

	maxCoherence := 0.0
	bestLayer := 0

	for layer := 1; layer <= layers; layer++ {
		zr, err := Zeta(modulated, 0.5, eps)
		if err != nil {
			return ModulateResult{}, err
		}

		modulated = zr.Transformed

		if coherence := phaseCoherence(modulated, eps); coherence > maxCoherence {
			maxCoherence = coherence
			bestLayer = layer
		}
	}

	stability := stat.StdDev(modulated, nil) / (stat.StdDev(vec, nil) + eps)

	return ModulateResult{
		Modulated:    modulated,
		BestLayer:    bestLayer,
		MaxCoherence: maxCoherence,
		Stability:    stability,
	}, nil
}

// phaseCoherence is the resultant length of the unit phasors of v + eps*i.
// It is 1 when all entries share a phase and near 0 when phases cancel.
func phaseCoherence(v []float64, eps float64) float64 {
	var sum complex128
	for _, x := range v {
		sum += cmplx.Rect(1, cmplx.Phase(complex(x, eps)))
	}

	return cmplx.Abs(sum) / float64(len(v))
}
