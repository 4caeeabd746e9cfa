package spectra

import (
	"context"
	"math/rand"
	"sync"
	"time"

	"github.com/hupe1980/spectra/index"
	"github.com/hupe1980/spectra/index/flat"
	"github.com/hupe1980/spectra/index/ivf"
	"github.com/hupe1980/spectra/vector"
	"golang.org/x/time/rate"
)

// Metadata is an opaque record attached to a stored vector at insertion
// time. The store never interprets it and returns it verbatim on query.
type Metadata map[string]any

// QueryResult represents a query result.
type QueryResult struct {
	// Metadata is the record attached to the matched vector.
	Metadata Metadata

	// Distance is the distance between the query and the matched vector.
	// Exact for the exhaustive backend, approximate for the indexed one.
	Distance float32
}

// Stats is a snapshot of store state.
type Stats struct {
	Dimension     int
	Size          int
	MaxSize       int
	Backend       string
	MetadataCount int
}

// Store is a capacity-bounded in-memory vector store with k-nearest-neighbor
// queries. Entries are kept in insertion order; once the store is full, every
// insert evicts the oldest entry first. There is no point deletion.
//
// All operations are serialized by an internal mutex, so the eviction and
// insert sequence is atomic from the caller's point of view.
type Store struct {
	mu            sync.Mutex
	opts          Options
	backend       index.Backend
	vectors       [][]float32
	metadata      []Metadata
	sanitizeLimit *rate.Limiter
}

// New creates a new Store.
//
// With the default auto backend it builds the indexed backend and trains its
// partitions on Clusters*10 uniform random vectors in [0,1)^Dimension; if
// training fails the store logs a warning and falls back permanently to the
// exhaustive backend. Construction fails only for invalid configuration, or
// for a failed training when the indexed backend was requested explicitly.
func New(optFns ...func(o *Options)) (*Store, error) {
	opts := DefaultOptions

	for _, fn := range optFns {
		fn(&opts)
	}

	if opts.Logger == nil {
		opts.Logger = NoopLogger()
	}

	if opts.Metrics == nil {
		opts.Metrics = NoopMetricsCollector{}
	}

	if err := opts.validate(); err != nil {
		return nil, err
	}

	backend, err := buildBackend(&opts)
	if err != nil {
		return nil, err
	}

	return &Store{
		opts:    opts,
		backend: backend,
		// At most one repair warning per second; repairs themselves are
		// always counted by the metrics collector.
		sanitizeLimit: rate.NewLimiter(rate.Every(time.Second), 1),
	}, nil
}

func buildBackend(opts *Options) (index.Backend, error) {
	if opts.Backend == BackendExhaustive {
		return newExhaustive(opts)
	}

	indexed, err := newIndexed(opts)
	if err == nil {
		return indexed, nil
	}

	if opts.Backend == BackendIndexed {
		return nil, translateError(err)
	}

	opts.Logger.LogFallback(context.Background(), opts.Clusters, err)

	return newExhaustive(opts)
}

func newIndexed(opts *Options) (index.Backend, error) {
	backend, err := ivf.New(func(o *ivf.Options) {
		o.Dimension = opts.Dimension
		o.Clusters = opts.Clusters
		o.Probes = opts.SearchBreadth
		o.Seed = opts.Seed
	})
	if err != nil {
		return nil, err
	}

	sample := trainingSample(opts.Dimension, opts.Clusters*10, opts.Seed)
	if err := backend.Train(context.Background(), sample); err != nil {
		return nil, err
	}

	return backend, nil
}

func newExhaustive(opts *Options) (index.Backend, error) {
	return flat.New(func(o *flat.Options) {
		o.Dimension = opts.Dimension
	})
}

// trainingSample draws uniform random vectors in [0,1)^dim used to train the
// partition centroids before any real data exists.
func trainingSample(dim, n int, seed int64) [][]float32 {
	rng := rand.New(rand.NewSource(seed))

	sample := make([][]float32, n)
	for i := range sample {
		row := make([]float32, dim)
		for j := range row {
			row[j] = rng.Float32()
		}

		sample[i] = row
	}

	return sample
}

// Insert adds a vector with its metadata to the store. The vector is
// sanitized first, so insert never rejects a well-formed input; at capacity
// the oldest entry is evicted to make room, which rebuilds the backend from
// the retained vectors. That rebuild costs O(size) per insert once the store
// is full, the accepted trade-off of an index without point deletion.
func (s *Store) Insert(ctx context.Context, vec []float32, meta Metadata) error {
	start := time.Now()

	s.mu.Lock()
	defer s.mu.Unlock()

	vec = s.sanitize(ctx, vec)

	id, err := s.insertLocked(ctx, vec, meta)
	err = translateError(err)

	s.opts.Metrics.RecordInsert(time.Since(start), err)
	s.opts.Logger.LogInsert(ctx, id, len(vec), err)

	return err
}

func (s *Store) insertLocked(ctx context.Context, vec []float32, meta Metadata) (uint32, error) {
	if len(s.vectors) >= s.opts.MaxSize {
		if err := s.evictLocked(ctx); err != nil {
			return 0, err
		}
	}

	id, err := s.backend.Insert(ctx, vec)
	if err != nil {
		return 0, err
	}

	s.vectors = append(s.vectors, vec)
	s.metadata = append(s.metadata, meta)

	return id, nil
}

// evictLocked drops the oldest entry and rebuilds the backend from the
// retained vectors. The tracking lists are only touched after the rebuild
// succeeds, so a failed rebuild leaves the store unchanged.
func (s *Store) evictLocked(ctx context.Context) error {
	start := time.Now()

	retained := s.vectors[1:]

	err := s.backend.Rebuild(ctx, retained)
	s.opts.Logger.LogEvict(ctx, len(retained), err)
	if err != nil {
		return err
	}

	// Clear the heads so the evicted entry can be collected.
	s.vectors[0], s.metadata[0] = nil, nil
	s.vectors = s.vectors[1:]
	s.metadata = s.metadata[1:]

	s.opts.Metrics.RecordEvict(time.Since(start))

	return nil
}

// Query returns the metadata of the k stored vectors nearest to vec, nearest
// first. k is clamped to the store size; an empty store or k <= 0 yields no
// results rather than an error. Distances reported by the indexed backend
// are approximate.
func (s *Store) Query(ctx context.Context, vec []float32, k int) ([]QueryResult, error) {
	start := time.Now()

	s.mu.Lock()
	defer s.mu.Unlock()

	vec = s.sanitize(ctx, vec)

	results, err := s.queryLocked(ctx, vec, k)
	err = translateError(err)

	s.opts.Metrics.RecordQuery(k, time.Since(start), err)
	s.opts.Logger.LogQuery(ctx, k, len(results), err)

	return results, err
}

func (s *Store) queryLocked(ctx context.Context, vec []float32, k int) ([]QueryResult, error) {
	if len(s.vectors) == 0 || k <= 0 {
		return []QueryResult{}, nil
	}

	k = min(k, len(s.vectors))

	matches, err := s.backend.Search(ctx, vec, k)
	if err != nil {
		return nil, err
	}

	results := make([]QueryResult, len(matches))
	for i, m := range matches {
		results[i] = QueryResult{
			Metadata: s.metadata[m.ID],
			Distance: m.Distance,
		}
	}

	return results, nil
}

// sanitize resizes vec to the configured dimension and zeroes non-finite
// entries, counting and logging the repair when one happened.
func (s *Store) sanitize(ctx context.Context, vec []float32) []float32 {
	out, report := vector.Sanitize(vec, s.opts.Dimension)
	if !report.Repaired() {
		return out
	}

	s.opts.Metrics.RecordSanitize()

	if s.sanitizeLimit.Allow() {
		s.opts.Logger.LogSanitize(ctx, report.OriginalLen, report.NonFinite, s.opts.Dimension)
	}

	return out
}

// Stats returns a snapshot of store state.
func (s *Store) Stats() Stats {
	s.mu.Lock()
	defer s.mu.Unlock()

	return Stats{
		Dimension:     s.opts.Dimension,
		Size:          len(s.vectors),
		MaxSize:       s.opts.MaxSize,
		Backend:       string(s.backend.Kind()),
		MetadataCount: len(s.metadata),
	}
}

// Len returns the number of stored entries.
func (s *Store) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()

	return len(s.vectors)
}

// Dimension returns the configured vector dimensionality.
func (s *Store) Dimension() int { return s.opts.Dimension }

// Epsilon returns the configured numeric floor for derived probability and
// ratio computations.
func (s *Store) Epsilon() float64 { return s.opts.Epsilon }
