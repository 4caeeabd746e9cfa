package pipeline

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/stat"
)

// associationScore bisects the group by spectral partitioning of its
// correlation affinity and returns the fraction of earlier members that
// land on the same side as the last one. The score is invariant under
// swapping the two sides, so it needs no cluster labeling convention.
func associationScore(group [][]float64) (float64, error) {
	n := len(group)
	if n < 2 {
		return 0, fmt.Errorf("association needs at least 2 vectors, got %d", n)
	}

	affinity, err := correlationAffinity(group)
	if err != nil {
		return 0, err
	}

	labels, err := bisect(affinity)
	if err != nil {
		return 0, err
	}

	same := 0
	for _, label := range labels[:n-1] {
		if label == labels[n-1] {
			same++
		}
	}

	return float64(same) / float64(n-1), nil
}

// correlationAffinity builds the pairwise Pearson correlation matrix of the
// group. Pairs involving a constant vector have undefined correlation and
// count as unrelated.
func correlationAffinity(group [][]float64) (*mat.SymDense, error) {
	n := len(group)

	for _, vec := range group {
		if len(vec) != len(group[0]) {
			return nil, fmt.Errorf("vectors must share a dimension, got %d and %d", len(group[0]), len(vec))
		}
	}

	affinity := mat.NewSymDense(n, nil)

	for i := 0; i < n; i++ {
		affinity.SetSym(i, i, 1)

		for j := i + 1; j < n; j++ {
			corr := stat.Correlation(group[i], group[j], nil)
			if math.IsNaN(corr) {
				corr = 0
			}

			affinity.SetSym(i, j, corr)
		}
	}

	return affinity, nil
}

// bisect splits the affinity graph in two by the sign of the Fiedler
// vector of its Laplacian. Self-affinity cancels out of the Laplacian, so
// the diagonal is ignored.
func bisect(affinity *mat.SymDense) ([]bool, error) {
	n := affinity.SymmetricDim()

	laplacian := mat.NewSymDense(n, nil)

	for i := 0; i < n; i++ {
		degree := 0.0
		for j := 0; j < n; j++ {
			if j != i {
				degree += affinity.At(i, j)
			}
		}

		laplacian.SetSym(i, i, degree)

		for j := i + 1; j < n; j++ {
			laplacian.SetSym(i, j, -affinity.At(i, j))
		}
	}

	var eig mat.EigenSym
	if !eig.Factorize(laplacian, true) {
		return nil, fmt.Errorf("laplacian eigendecomposition failed")
	}

	var vectors mat.Dense
	eig.VectorsTo(&vectors)

	// Eigenvalues come back ascending, so column 1 holds the Fiedler
	// vector.
	labels := make([]bool, n)
	for i := 0; i < n; i++ {
		labels[i] = vectors.At(i, 1) >= 0
	}

	return labels, nil
}
