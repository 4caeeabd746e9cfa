package ivf

import (
	"context"
	"math/rand"
	"strconv"
	"testing"
)

func randomVectors(n, dim int, seed int64) [][]float32 {
	rng := rand.New(rand.NewSource(seed))

	vectors := make([][]float32, n)
	for i := range vectors {
		row := make([]float32, dim)
		for j := range row {
			row[j] = rng.Float32()
		}

		vectors[i] = row
	}

	return vectors
}

// BenchmarkInsert benchmarks insertion into a calibrated backend.
func BenchmarkInsert(b *testing.B) {
	const dim = 128

	v, err := New(func(o *Options) {
		o.Dimension = dim
		o.Clusters = 16
	})
	if err != nil {
		b.Fatal(err)
	}

	ctx := context.Background()
	vectors := randomVectors(1024, dim, 1)
	if err := v.Train(ctx, vectors); err != nil {
		b.Fatal(err)
	}

	b.ResetTimer()

	for i := 0; b.Loop(); i++ {
		if _, err := v.Insert(ctx, vectors[i%len(vectors)]); err != nil {
			b.Fatal(err)
		}
	}
}

// BenchmarkSearch benchmarks partition-probed search at different probe counts.
func BenchmarkSearch(b *testing.B) {
	const (
		dim  = 128
		size = 10000
	)

	vectors := randomVectors(size, dim, 1)
	query := randomVectors(1, dim, 2)[0]

	for _, probes := range []int{1, 4, 16} {
		b.Run(strconv.Itoa(probes), func(b *testing.B) {
			v, err := New(func(o *Options) {
				o.Dimension = dim
				o.Clusters = 16
				o.Probes = probes
			})
			if err != nil {
				b.Fatal(err)
			}

			ctx := context.Background()
			if err := v.Train(ctx, vectors); err != nil {
				b.Fatal(err)
			}

			for _, vec := range vectors {
				if _, err := v.Insert(ctx, vec); err != nil {
					b.Fatal(err)
				}
			}

			b.ResetTimer()

			for b.Loop() {
				if _, err := v.Search(ctx, query, 10); err != nil {
					b.Fatal(err)
				}
			}
		})
	}
}
