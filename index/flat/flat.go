// Package flat provides the exhaustive search backend.
//
// Every search scans all stored vectors, so results are exact. It is the
// fallback used when a partitioned backend cannot be trained, and the
// reference implementation that approximate backends are measured against.
package flat

import (
	"context"
	"slices"

	"github.com/hupe1980/spectra/distance"
	"github.com/hupe1980/spectra/index"
	"github.com/hupe1980/spectra/internal/conv"
	"github.com/hupe1980/spectra/internal/queue"
)

// Compile-time check to ensure Flat satisfies the backend interface.
var _ index.Backend = (*Flat)(nil)

// Options contains configuration options for the flat backend.
type Options struct {
	// Dimension is the fixed vector dimensionality for this backend.
	// It must be > 0 and is enforced for all inserts and searches.
	Dimension int

	// Metric is the distance metric used for ranking.
	Metric distance.Metric
}

// DefaultOptions contains the default configuration options for the flat backend.
var DefaultOptions = Options{
	Dimension: 0,
	Metric:    distance.MetricL2,
}

// Flat is the exhaustive backend.
//
// It is not safe for concurrent use; the owning store serializes access.
type Flat struct {
	opts     Options
	distFunc distance.Func
	rows     [][]float32
}

// New creates a new flat backend.
// Dimension is required and must be set at creation time.
func New(optFns ...func(o *Options)) (*Flat, error) {
	opts := DefaultOptions

	for _, fn := range optFns {
		fn(&opts)
	}

	if err := index.ValidateBasicOptions(opts.Dimension, opts.Metric); err != nil {
		return nil, err
	}

	distFunc, err := distance.Provider(opts.Metric)
	if err != nil {
		return nil, err
	}

	return &Flat{
		opts:     opts,
		distFunc: distFunc,
		rows:     make([][]float32, 0),
	}, nil
}

// Kind returns the backend implementation identifier.
func (*Flat) Kind() index.Kind { return index.KindFlat }

// Len returns the number of stored vectors.
func (f *Flat) Len() int { return len(f.rows) }

// Insert adds a vector and returns its assigned ID.
// IDs are sequential starting at 0.
func (f *Flat) Insert(ctx context.Context, v []float32) (uint32, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}

	if len(v) == 0 {
		return 0, index.ErrEmptyVector
	}

	if len(v) != f.opts.Dimension {
		return 0, &index.ErrDimensionMismatch{Expected: f.opts.Dimension, Actual: len(v)}
	}

	id, err := conv.IntToUint32(len(f.rows))
	if err != nil {
		return 0, err
	}

	// Copy the vector so changes outside this function don't affect the row.
	f.rows = append(f.rows, slices.Clone(v))

	return id, nil
}

// Rebuild replaces the backend contents with the given vectors.
// IDs are reassigned sequentially in slice order.
func (f *Flat) Rebuild(ctx context.Context, vectors [][]float32) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	rows := make([][]float32, 0, len(vectors))
	for _, v := range vectors {
		if len(v) != f.opts.Dimension {
			return &index.ErrDimensionMismatch{Expected: f.opts.Dimension, Actual: len(v)}
		}
		rows = append(rows, slices.Clone(v))
	}

	f.rows = rows
	return nil
}

// Search performs an exact k-nearest neighbor scan over all rows.
func (f *Flat) Search(ctx context.Context, query []float32, k int) ([]index.SearchResult, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	if k <= 0 {
		return nil, index.ErrInvalidK
	}
	if len(f.rows) == 0 {
		return nil, nil
	}
	if len(query) != f.opts.Dimension {
		return nil, &index.ErrDimensionMismatch{Expected: f.opts.Dimension, Actual: len(query)}
	}

	actualK := k
	if actualK > len(f.rows) {
		actualK = len(f.rows)
	}

	// Bounded max-heap: the worst candidate sits on top and is replaced
	// whenever a closer row is found.
	topCandidates := queue.NewMax(actualK)

	for i, row := range f.rows {
		d := f.distFunc(query, row)

		if topCandidates.Len() < actualK {
			topCandidates.PushItem(queue.PriorityQueueItem{ID: uint32(i), Distance: d})
			continue
		}

		top, _ := topCandidates.TopItem()
		if d < top.Distance {
			topCandidates.PopItem()
			topCandidates.PushItem(queue.PriorityQueueItem{ID: uint32(i), Distance: d})
		}
	}

	results := make([]index.SearchResult, topCandidates.Len())
	for i := topCandidates.Len() - 1; i >= 0; i-- {
		item, _ := topCandidates.PopItem()
		results[i] = index.SearchResult{ID: item.ID, Distance: item.Distance}
	}

	index.SortResults(results)
	return results, nil
}
