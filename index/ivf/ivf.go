// Package ivf provides the partitioned search backend.
//
// Vectors are grouped into partitions around centroids learned by kmeans
// calibration. A search ranks the centroids against the query and scans only
// the closest partitions, so results are approximate: a neighbor assigned to
// an unprobed partition is missed. Raising Probes trades speed for recall.
//
// The backend must be calibrated with Train before vectors can be inserted
// or searched. Rebuild recalibrates on the new contents.
package ivf

import (
	"context"
	"fmt"
	"math/rand"
	"runtime"

	"github.com/RoaringBitmap/roaring/v2"
	"github.com/hupe1980/spectra/distance"
	"github.com/hupe1980/spectra/index"
	"github.com/hupe1980/spectra/internal/conv"
	"github.com/hupe1980/spectra/internal/kmeans"
	"github.com/hupe1980/spectra/internal/queue"
	"golang.org/x/sync/errgroup"
)

// Compile-time check to ensure IVF satisfies the backend interface.
var _ index.Backend = (*IVF)(nil)

// Options contains configuration options for the IVF backend.
type Options struct {
	// Dimension is the fixed vector dimensionality for this backend.
	// It must be > 0 and is enforced for all inserts and searches.
	Dimension int

	// Metric is the distance metric used for ranking.
	Metric distance.Metric

	// Clusters is the number of partitions created during calibration.
	// Fewer partitions are created when the training sample is smaller.
	Clusters int

	// Probes is the number of partitions scanned per search.
	Probes int

	// TrainingIterations bounds the kmeans refinement loop.
	TrainingIterations int

	// Seed drives centroid initialization. Calibrating twice on the same
	// sample with the same seed yields identical partitions.
	Seed int64
}

// DefaultOptions contains the default configuration options for the IVF backend.
var DefaultOptions = Options{
	Dimension:          0,
	Metric:             distance.MetricL2,
	Clusters:           32,
	Probes:             8,
	TrainingIterations: 25,
	Seed:               1,
}

// IVF is the partitioned backend.
//
// It is not safe for concurrent use; the owning store serializes access.
type IVF struct {
	opts      Options
	distFunc  distance.Func
	rng       *rand.Rand
	centroids []float32
	postings  []*roaring.Bitmap
	arena     []float32
	count     int
}

// New creates a new IVF backend.
// Dimension is required and must be set at creation time. The backend is
// returned untrained; call Train before inserting or searching.
func New(optFns ...func(o *Options)) (*IVF, error) {
	opts := DefaultOptions

	for _, fn := range optFns {
		fn(&opts)
	}

	if err := index.ValidateBasicOptions(opts.Dimension, opts.Metric); err != nil {
		return nil, err
	}

	if opts.Clusters <= 0 {
		return nil, fmt.Errorf("clusters must be positive, got %d", opts.Clusters)
	}

	if opts.Probes <= 0 {
		return nil, fmt.Errorf("probes must be positive, got %d", opts.Probes)
	}

	distFunc, err := distance.Provider(opts.Metric)
	if err != nil {
		return nil, err
	}

	return &IVF{
		opts:     opts,
		distFunc: distFunc,
		rng:      rand.New(rand.NewSource(opts.Seed)),
	}, nil
}

// Kind returns the backend implementation identifier.
func (*IVF) Kind() index.Kind { return index.KindIVF }

// Len returns the number of stored vectors.
func (v *IVF) Len() int { return v.count }

// Trained reports whether the backend has calibrated partitions.
func (v *IVF) Trained() bool { return len(v.centroids) > 0 }

// Partitions returns the number of partitions, or 0 before calibration.
func (v *IVF) Partitions() int { return len(v.postings) }

// Train calibrates the partition centroids from a sample of vectors. The
// sample itself is not stored. Vectors already inserted are reassigned to
// the new partitions.
func (v *IVF) Train(ctx context.Context, vectors [][]float32) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	if len(vectors) == 0 {
		return fmt.Errorf("training requires at least one vector")
	}

	sample, err := v.flatten(vectors)
	if err != nil {
		return err
	}

	k := min(v.opts.Clusters, len(vectors))

	centroids, err := kmeans.Train(ctx, sample, v.opts.Dimension, k, v.opts.Metric, v.opts.TrainingIterations, v.rng)
	if err != nil {
		return err
	}

	v.centroids = centroids
	v.postings = make([]*roaring.Bitmap, k)
	for i := range v.postings {
		v.postings[i] = roaring.New()
	}

	return v.reassign()
}

// Insert adds a vector to the partition with the closest centroid and
// returns its assigned ID. IDs are sequential starting at 0.
func (v *IVF) Insert(ctx context.Context, vec []float32) (uint32, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}

	if !v.Trained() {
		return 0, index.ErrNotTrained
	}

	if len(vec) == 0 {
		return 0, index.ErrEmptyVector
	}

	if len(vec) != v.opts.Dimension {
		return 0, &index.ErrDimensionMismatch{Expected: v.opts.Dimension, Actual: len(vec)}
	}

	id, err := conv.IntToUint32(v.count)
	if err != nil {
		return 0, err
	}

	partition, err := kmeans.Assign(vec, v.centroids, v.opts.Dimension, v.opts.Metric)
	if err != nil {
		return 0, err
	}

	v.arena = append(v.arena, vec...)
	v.count++
	v.postings[partition].Add(id)

	return id, nil
}

// Rebuild replaces the backend contents with the given vectors and
// recalibrates the partitions on them. IDs are reassigned sequentially in
// slice order. When no vectors are given the previous centroids are kept
// and the partitions are emptied.
func (v *IVF) Rebuild(ctx context.Context, vectors [][]float32) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	if !v.Trained() {
		return index.ErrNotTrained
	}

	arena, err := v.flatten(vectors)
	if err != nil {
		return err
	}

	v.arena = arena
	v.count = len(vectors)

	if len(vectors) == 0 {
		for _, p := range v.postings {
			p.Clear()
		}

		return nil
	}

	return v.Train(ctx, vectors)
}

// Search performs an approximate k-nearest neighbor search by scanning the
// partitions with the closest centroids concurrently.
func (v *IVF) Search(ctx context.Context, query []float32, k int) ([]index.SearchResult, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	if !v.Trained() {
		return nil, index.ErrNotTrained
	}

	if k <= 0 {
		return nil, index.ErrInvalidK
	}

	if v.count == 0 {
		return nil, nil
	}

	if len(query) != v.opts.Dimension {
		return nil, &index.ErrDimensionMismatch{Expected: v.opts.Dimension, Actual: len(query)}
	}

	actualK := min(k, v.count)

	probes, err := kmeans.NearestCentroids(query, v.centroids, v.opts.Dimension, v.opts.Probes, v.opts.Metric)
	if err != nil {
		return nil, err
	}

	// Each probe writes to its own slot, so no locking is needed.
	perProbe := make([][]index.SearchResult, len(probes))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(runtime.GOMAXPROCS(0))

	for i, p := range probes {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}

			perProbe[i] = v.scanPartition(query, p, actualK)

			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}

	merged := index.MergeNSearchResults(actualK, perProbe...)
	index.SortResults(merged)

	return merged, nil
}

// scanPartition returns the k closest vectors of a single partition,
// ordered by increasing distance.
func (v *IVF) scanPartition(query []float32, partition, k int) []index.SearchResult {
	dim := v.opts.Dimension

	topCandidates := queue.NewMax(k)

	it := v.postings[partition].Iterator()
	for it.HasNext() {
		id := it.Next()

		row := v.arena[int(id)*dim : (int(id)+1)*dim]
		d := v.distFunc(query, row)

		if topCandidates.Len() < k {
			topCandidates.PushItem(queue.PriorityQueueItem{ID: id, Distance: d})
			continue
		}

		top, _ := topCandidates.TopItem()
		if d < top.Distance {
			topCandidates.PopItem()
			topCandidates.PushItem(queue.PriorityQueueItem{ID: id, Distance: d})
		}
	}

	results := make([]index.SearchResult, topCandidates.Len())
	for i := topCandidates.Len() - 1; i >= 0; i-- {
		item, _ := topCandidates.PopItem()
		results[i] = index.SearchResult{ID: item.ID, Distance: item.Distance}
	}

	index.SortResults(results)

	return results
}

// flatten dimension-checks the vectors and concatenates them into a single
// contiguous slice.
func (v *IVF) flatten(vectors [][]float32) ([]float32, error) {
	dim := v.opts.Dimension

	flat := make([]float32, 0, len(vectors)*dim)
	for _, vec := range vectors {
		if len(vec) != dim {
			return nil, &index.ErrDimensionMismatch{Expected: dim, Actual: len(vec)}
		}

		flat = append(flat, vec...)
	}

	return flat, nil
}

// reassign rebuilds the posting lists from the stored rows.
func (v *IVF) reassign() error {
	dim := v.opts.Dimension

	for id := range v.count {
		row := v.arena[id*dim : (id+1)*dim]

		partition, err := kmeans.Assign(row, v.centroids, dim, v.opts.Metric)
		if err != nil {
			return err
		}

		v.postings[partition].Add(uint32(id))
	}

	return nil
}
