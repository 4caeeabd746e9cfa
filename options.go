package spectra

// Backend selects the search backend strategy for a store.
type Backend string

const (
	// BackendAuto builds the indexed backend and falls back to the
	// exhaustive backend if partition training fails. This is the default.
	BackendAuto Backend = "auto"

	// BackendIndexed builds the indexed backend and fails construction if
	// partition training fails.
	BackendIndexed Backend = "indexed"

	// BackendExhaustive always uses the exhaustive backend.
	BackendExhaustive Backend = "exhaustive"
)

// Options contains configuration options for a store.
type Options struct {
	// Dimension is the fixed vector dimensionality. Inserted and queried
	// vectors of any other length are resized to it.
	Dimension int

	// MaxSize bounds the number of stored entries. Inserting at capacity
	// evicts the oldest entry first.
	MaxSize int

	// Clusters is the number of partitions the indexed backend is trained
	// with. It is independent of Dimension and MaxSize.
	Clusters int

	// SearchBreadth is the number of partitions the indexed backend scans
	// per query. Higher values improve recall at the cost of speed. It is
	// fixed at construction and not tunable per query.
	SearchBreadth int

	// Epsilon is the numeric floor used to avoid division by zero in
	// probability and ratio computations derived from stored vectors.
	Epsilon float64

	// Backend selects the search backend strategy.
	Backend Backend

	// Seed drives the generation of partition training vectors and the
	// centroid initialization. Stores built with the same seed and
	// configuration partition the space identically.
	Seed int64

	// Logger configures structured logging for operations.
	// Defaults to a noop logger.
	Logger *Logger

	// Metrics configures a metrics collector for monitoring operations.
	// Defaults to a noop collector.
	Metrics MetricsCollector
}

// DefaultOptions contains the default configuration options for a store.
var DefaultOptions = Options{
	Dimension:     100,
	MaxSize:       10000,
	Clusters:      32,
	SearchBreadth: 8,
	Epsilon:       1e-10,
	Backend:       BackendAuto,
	Seed:          1,
	Logger:        nil,
	Metrics:       nil,
}

func (o *Options) validate() error {
	if o.Dimension <= 0 {
		return &ErrInvalidDimension{Dimension: o.Dimension}
	}
	if o.MaxSize <= 0 {
		return &ErrInvalidCapacity{MaxSize: o.MaxSize}
	}
	if o.Clusters <= 0 {
		return &ErrInvalidClusters{Clusters: o.Clusters}
	}
	if o.SearchBreadth <= 0 {
		return &ErrInvalidSearchBreadth{SearchBreadth: o.SearchBreadth}
	}
	switch o.Backend {
	case BackendAuto, BackendIndexed, BackendExhaustive:
	default:
		return &ErrUnknownBackend{Backend: o.Backend}
	}
	return nil
}
