package vector

import "math"

// Report describes the repairs Sanitize applied to a vector.
type Report struct {
	// OriginalLen is the length of the input before truncation or padding.
	OriginalLen int

	// NonFinite is the number of NaN or Inf entries replaced with zero.
	NonFinite int

	// Resized is true when the input was truncated or zero-padded.
	Resized bool
}

// Repaired reports whether the input needed any repair.
func (r Report) Repaired() bool {
	return r.Resized || r.NonFinite > 0
}

// Sanitize coerces a vector to exactly dim entries and replaces every
// non-finite entry with zero. Longer inputs are truncated, shorter inputs
// are zero-padded. The input slice is not modified.
func Sanitize[F float32 | float64](vec []F, dim int) ([]F, Report) {
	report := Report{
		OriginalLen: len(vec),
		Resized:     len(vec) != dim,
	}

	out := make([]F, dim)

	n := copy(out, vec)
	for i := range n {
		f := float64(out[i])
		if math.IsNaN(f) || math.IsInf(f, 0) {
			out[i] = 0
			report.NonFinite++
		}
	}

	return out, report
}
