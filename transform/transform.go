package transform

import (
	"gonum.org/v1/gonum/floats"
)

// DefaultEpsilon is the floor added to denominators across the transforms.
const DefaultEpsilon = 1e-10

// probabilities returns the squared entries of vec normalized by their sum
// plus eps. For a zero vector all entries stay zero.
func probabilities(vec []float64, eps float64) []float64 {
	probs := make([]float64, len(vec))
	for i, x := range vec {
		probs[i] = x * x
	}

	floats.Scale(1/(floats.Sum(probs)+eps), probs)

	return probs
}

// diff returns the first differences of v, or nil when v has fewer than
// two entries.
func diff(v []float64) []float64 {
	if len(v) < 2 {
		return nil
	}

	out := make([]float64, len(v)-1)
	for i := range out {
		out[i] = v[i+1] - v[i]
	}

	return out
}

// convolveSame convolves vec with kernel and crops the result to the length
// of vec, centered the way scientific convolution routines do for their
// "same" mode.
func convolveSame(vec, kernel []float64) []float64 {
	n, m := len(vec), len(kernel)

	full := make([]float64, n+m-1)
	for i, x := range vec {
		for j, k := range kernel {
			full[i+j] += x * k
		}
	}

	start := (m - 1) / 2

	out := make([]float64, n)
	copy(out, full[start:start+n])

	return out
}

// bellNumbers returns the Bell numbers B0..Bn computed with the Bell
// triangle. B0=1, B1=1, B2=2, B3=5, B4=15, B5=52, ...
func bellNumbers(n int) []float64 {
	bells := make([]float64, n+1)
	bells[0] = 1

	row := []float64{1}
	for i := 1; i <= n; i++ {
		next := make([]float64, len(row)+1)
		next[0] = row[len(row)-1]
		for j := 1; j < len(next); j++ {
			next[j] = next[j-1] + row[j-1]
		}

		bells[i] = next[0]
		row = next
	}

	return bells
}
