package spectra

import (
	"errors"
	"fmt"

	"github.com/hupe1980/spectra/index"
)

var (
	// ErrInvalidK is returned when k is not positive.
	ErrInvalidK = errors.New("k must be positive")
)

// ErrDimensionMismatch indicates a vector/query dimensionality mismatch.
//
// The original underlying error (if any) can be accessed via errors.Unwrap.
type ErrDimensionMismatch struct {
	Expected int
	Actual   int
	cause    error
}

func (e *ErrDimensionMismatch) Error() string {
	return fmt.Sprintf("dimension mismatch: expected %d, got %d", e.Expected, e.Actual)
}

func (e *ErrDimensionMismatch) Unwrap() error { return e.cause }

// ErrInvalidDimension indicates an invalid configured dimension.
//
// The original underlying error (if any) can be accessed via errors.Unwrap.
type ErrInvalidDimension struct {
	Dimension int
	cause     error
}

func (e *ErrInvalidDimension) Error() string {
	return fmt.Sprintf("invalid dimension: %d", e.Dimension)
}

func (e *ErrInvalidDimension) Unwrap() error { return e.cause }

// ErrInvalidCapacity indicates an invalid configured maximum store size.
type ErrInvalidCapacity struct {
	MaxSize int
}

func (e *ErrInvalidCapacity) Error() string {
	return fmt.Sprintf("invalid capacity: %d", e.MaxSize)
}

// ErrInvalidClusters indicates an invalid configured partition count.
type ErrInvalidClusters struct {
	Clusters int
}

func (e *ErrInvalidClusters) Error() string {
	return fmt.Sprintf("invalid cluster count: %d", e.Clusters)
}

// ErrInvalidSearchBreadth indicates an invalid configured probe count.
type ErrInvalidSearchBreadth struct {
	SearchBreadth int
}

func (e *ErrInvalidSearchBreadth) Error() string {
	return fmt.Sprintf("invalid search breadth: %d", e.SearchBreadth)
}

// ErrUnknownBackend indicates an unrecognized backend selector.
type ErrUnknownBackend struct {
	Backend Backend
}

func (e *ErrUnknownBackend) Error() string {
	return fmt.Sprintf("unknown backend: %q", string(e.Backend))
}

func translateError(err error) error {
	if err == nil {
		return nil
	}

	// Dimension and argument normalization.
	var dm *index.ErrDimensionMismatch
	if errors.As(err, &dm) {
		return &ErrDimensionMismatch{Expected: dm.Expected, Actual: dm.Actual, cause: err}
	}
	var id *index.ErrInvalidDimension
	if errors.As(err, &id) {
		return &ErrInvalidDimension{Dimension: id.Dimension, cause: err}
	}
	if errors.Is(err, index.ErrInvalidK) {
		return fmt.Errorf("%w: %w", ErrInvalidK, err)
	}

	return err
}
