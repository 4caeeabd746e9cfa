package index

import (
	"context"
	"errors"
	"fmt"

	"github.com/hupe1980/spectra/distance"
)

var (
	// ErrInvalidK is returned when k is not positive.
	ErrInvalidK = errors.New("k must be positive")

	// ErrEmptyVector is returned when an empty vector is passed to an operation.
	ErrEmptyVector = errors.New("vector must not be empty")

	// ErrNotTrained is returned when a partitioned backend is used before
	// its centroids have been trained.
	ErrNotTrained = errors.New("index not trained")
)

// ErrDimensionMismatch is a named error type for dimension mismatch.
type ErrDimensionMismatch struct {
	Expected int // Expected dimensions
	Actual   int // Actual dimensions
}

// Error returns the error message for dimension mismatch.
func (e *ErrDimensionMismatch) Error() string {
	return fmt.Sprintf("dimension mismatch: expected %d, got %d", e.Expected, e.Actual)
}

// ErrInvalidDimension is a named error type for an invalid configured dimension.
type ErrInvalidDimension struct {
	Dimension int
}

// Error returns the error message for an invalid dimension.
func (e *ErrInvalidDimension) Error() string {
	return fmt.Sprintf("invalid dimension: %d", e.Dimension)
}

// ValidateBasicOptions validates the options shared by all backends.
func ValidateBasicOptions(dimension int, metric distance.Metric) error {
	if dimension <= 0 {
		return &ErrInvalidDimension{Dimension: dimension}
	}
	if _, err := distance.Provider(metric); err != nil {
		return err
	}
	return nil
}

// Kind identifies a backend implementation.
type Kind string

const (
	// KindIVF is the partitioned backend: approximate search over
	// kmeans-trained partitions.
	KindIVF Kind = "ivf"

	// KindFlat is the exhaustive backend: exact search over all entries.
	KindFlat Kind = "flat"
)

// SearchResult represents a search result.
type SearchResult struct {
	// ID is the identifier of the search result.
	ID uint32

	// Distance is the distance between the query vector and the result vector.
	Distance float32
}

// Backend represents a swappable search backend for a vector store.
//
// Backends assign sequential IDs starting at 0 and are rebuilt wholesale when
// the owning store evicts entries; they do not support point deletion.
type Backend interface {
	// Kind returns the backend implementation identifier.
	Kind() Kind

	// Len returns the number of stored vectors.
	Len() int

	// Insert adds a vector and returns its assigned ID.
	Insert(ctx context.Context, v []float32) (uint32, error)

	// Rebuild replaces the backend contents with the given vectors.
	// IDs are reassigned sequentially in slice order.
	Rebuild(ctx context.Context, vectors [][]float32) error

	// Search returns the k nearest stored vectors to q, ordered by
	// increasing distance with ties broken by ID.
	Search(ctx context.Context, q []float32, k int) ([]SearchResult, error)
}
