package vector

import (
	"fmt"
	"math"
	"math/rand"

	"gonum.org/v1/gonum/floats"
)

// Kind identifies a generated vector shape.
type Kind string

const (
	// KindUniform has every entry equal to 1/sqrt(D), so it is unit length.
	KindUniform Kind = "uniform"

	// KindGaussian samples a bell curve over [-3, 3] and normalizes it.
	KindGaussian Kind = "gaussian"

	// KindSparse concentrates all energy in the first five entries.
	KindSparse Kind = "sparse"

	// KindImpulse is a single spike in the first entry.
	KindImpulse Kind = "impulse"

	// KindRandom draws normal entries and normalizes to unit length.
	KindRandom Kind = "random"
)

// Kinds returns all supported vector shapes.
func Kinds() []Kind {
	return []Kind{KindUniform, KindGaussian, KindSparse, KindImpulse, KindRandom}
}

// Generator produces vectors of a fixed dimension. Only KindRandom consumes
// randomness; the other shapes are deterministic for a given dimension.
type Generator struct {
	dim int
	rng *rand.Rand
}

// NewGenerator creates a generator for vectors of the given dimension.
// The seed drives KindRandom.
func NewGenerator(dim int, seed int64) *Generator {
	return &Generator{
		dim: dim,
		rng: rand.New(rand.NewSource(seed)),
	}
}

// Generate returns a single vector of the given shape.
func (g *Generator) Generate(kind Kind) ([]float64, error) {
	if g.dim < 1 {
		return nil, fmt.Errorf("dimension must be positive, got %d", g.dim)
	}

	switch kind {
	case KindUniform:
		return g.uniform(), nil
	case KindGaussian:
		return g.gaussian(), nil
	case KindSparse:
		return g.sparse(), nil
	case KindImpulse:
		return g.impulse(), nil
	case KindRandom:
		return g.random(), nil
	default:
		return nil, fmt.Errorf("unknown vector kind %q", kind)
	}
}

// Batch returns n vectors of the given shape.
func (g *Generator) Batch(kind Kind, n int) ([][]float64, error) {
	vectors := make([][]float64, 0, n)

	for range n {
		v, err := g.Generate(kind)
		if err != nil {
			return nil, err
		}

		vectors = append(vectors, v)
	}

	return vectors, nil
}

func (g *Generator) uniform() []float64 {
	v := make([]float64, g.dim)

	val := 1.0 / math.Sqrt(float64(g.dim))
	for i := range v {
		v[i] = val
	}

	return v
}

func (g *Generator) gaussian() []float64 {
	x := make([]float64, g.dim)
	if g.dim > 1 {
		floats.Span(x, -3, 3)
	}

	v := make([]float64, g.dim)
	for i, xi := range x {
		v[i] = math.Exp(-xi * xi / 2)
	}

	floats.Scale(1/floats.Norm(v, 2), v)

	return v
}

func (g *Generator) sparse() []float64 {
	v := make([]float64, g.dim)

	weights := []float64{0.5, 0.2, 0.15, 0.1, 0.05}
	for i, w := range weights {
		if i >= g.dim {
			break
		}

		v[i] = math.Sqrt(w)
	}

	return v
}

func (g *Generator) impulse() []float64 {
	v := make([]float64, g.dim)
	v[0] = 1.0

	return v
}

func (g *Generator) random() []float64 {
	v := make([]float64, g.dim)
	for i := range v {
		v[i] = g.rng.NormFloat64()
	}

	if norm := floats.Norm(v, 2); norm > 0 {
		floats.Scale(1/norm, v)
	}

	return v
}
