package kmeans

import (
	"context"
	"math"
	"math/rand"
	"sort"

	"github.com/hupe1980/spectra/distance"
)

// Train learns k centroids from the given flattened vectors (n * dim) using
// Lloyd's algorithm and returns the flattened centroids (k * dim).
// It returns (nil, nil) when there are fewer vectors than centroids.
// The rng drives centroid seeding and empty-cluster reseeding; passing a
// seeded source makes training deterministic.
func Train(ctx context.Context, vectors []float32, dim, k int, metric distance.Metric, maxIter int, rng *rand.Rand) ([]float32, error) {
	n := len(vectors) / dim
	if n < k {
		return nil, nil // Not enough vectors to cluster
	}

	distFunc, err := distance.Provider(metric)
	if err != nil {
		return nil, err
	}

	centroids := make([]float32, k*dim)

	// Initialize centroids from distinct random data points
	perm := rng.Perm(n)
	for i := range k {
		copy(centroids[i*dim:(i+1)*dim], vectors[perm[i]*dim:(perm[i]+1)*dim])
	}

	assignments := make([]int, n)
	counts := make([]int, k)
	sums := make([]float32, k*dim)

	for range maxIter {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		changed := false

		// Assignment step
		for i := range n {
			vec := vectors[i*dim : (i+1)*dim]
			bestCluster := -1
			minDist := float32(math.MaxFloat32)

			for j := range k {
				center := centroids[j*dim : (j+1)*dim]
				d := distFunc(vec, center)
				if d < minDist {
					minDist = d
					bestCluster = j
				}
			}

			if assignments[i] != bestCluster {
				assignments[i] = bestCluster
				changed = true
			}
		}

		if !changed {
			break
		}

		// Update step
		clear(sums)
		clear(counts)

		for i := range n {
			cluster := assignments[i]
			vec := vectors[i*dim : (i+1)*dim]
			for d := range dim {
				sums[cluster*dim+d] += vec[d]
			}
			counts[cluster]++
		}

		for j := range k {
			if counts[j] > 0 {
				scale := 1.0 / float32(counts[j])
				for d := range dim {
					centroids[j*dim+d] = sums[j*dim+d] * scale
				}
			} else {
				// Reseed empty cluster with a random point
				idx := rng.Intn(n)
				copy(centroids[j*dim:(j+1)*dim], vectors[idx*dim:(idx+1)*dim])
			}
		}
	}

	return centroids, nil
}

// Assign finds the closest centroid for a vector.
func Assign(vec, centroids []float32, dim int, metric distance.Metric) (int, error) {
	k := len(centroids) / dim
	distFunc, err := distance.Provider(metric)
	if err != nil {
		return -1, err
	}

	bestCluster := -1
	minDist := float32(math.MaxFloat32)

	for j := range k {
		center := centroids[j*dim : (j+1)*dim]
		d := distFunc(vec, center)
		if d < minDist {
			minDist = d
			bestCluster = j
		}
	}

	return bestCluster, nil
}

type centroidDist struct {
	id   int
	dist float32
}

// NearestCentroids returns the indices of the n closest centroids to the
// query vector, ordered by increasing distance.
func NearestCentroids(query, centroids []float32, dim, n int, metric distance.Metric) ([]int, error) {
	k := len(centroids) / dim
	if n > k {
		n = k
	}

	distFunc, err := distance.Provider(metric)
	if err != nil {
		return nil, err
	}

	dists := make([]centroidDist, k)
	for i := range k {
		center := centroids[i*dim : (i+1)*dim]
		dists[i] = centroidDist{id: i, dist: distFunc(query, center)}
	}

	sort.Slice(dists, func(i, j int) bool {
		return dists[i].dist < dists[j].dist
	})

	result := make([]int, n)
	for i := range result {
		result[i] = dists[i].id
	}

	return result, nil
}
