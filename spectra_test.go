package spectra

import (
	"context"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/sync/errgroup"
)

func TestNew(t *testing.T) {
	t.Run("Defaults", func(t *testing.T) {
		store, err := New()
		require.NoError(t, err)

		stats := store.Stats()
		assert.Equal(t, 100, stats.Dimension)
		assert.Equal(t, 10000, stats.MaxSize)
		assert.Equal(t, 0, stats.Size)
		assert.Equal(t, 0, stats.MetadataCount)
		assert.Equal(t, "ivf", stats.Backend)
	})

	t.Run("ForcedExhaustive", func(t *testing.T) {
		store, err := New(func(o *Options) {
			o.Dimension = 4
			o.Backend = BackendExhaustive
		})
		require.NoError(t, err)

		assert.Equal(t, "flat", store.Stats().Backend)
	})

	t.Run("ExplicitIndexed", func(t *testing.T) {
		store, err := New(func(o *Options) {
			o.Dimension = 4
			o.Clusters = 2
			o.SearchBreadth = 2
			o.Backend = BackendIndexed
		})
		require.NoError(t, err)

		assert.Equal(t, "ivf", store.Stats().Backend)
	})

	t.Run("InvalidDimension", func(t *testing.T) {
		_, err := New(func(o *Options) {
			o.Dimension = 0
		})

		var target *ErrInvalidDimension
		require.ErrorAs(t, err, &target)
		assert.Equal(t, 0, target.Dimension)
	})

	t.Run("InvalidCapacity", func(t *testing.T) {
		_, err := New(func(o *Options) {
			o.MaxSize = -1
		})

		var target *ErrInvalidCapacity
		require.ErrorAs(t, err, &target)
		assert.Equal(t, -1, target.MaxSize)
	})

	t.Run("InvalidClusters", func(t *testing.T) {
		_, err := New(func(o *Options) {
			o.Clusters = 0
		})

		var target *ErrInvalidClusters
		require.ErrorAs(t, err, &target)
	})

	t.Run("InvalidSearchBreadth", func(t *testing.T) {
		_, err := New(func(o *Options) {
			o.SearchBreadth = 0
		})

		var target *ErrInvalidSearchBreadth
		require.ErrorAs(t, err, &target)
	})

	t.Run("UnknownBackend", func(t *testing.T) {
		_, err := New(func(o *Options) {
			o.Backend = Backend("hnsw")
		})

		var target *ErrUnknownBackend
		require.ErrorAs(t, err, &target)
	})
}

func TestInsert(t *testing.T) {
	ctx := context.Background()

	t.Run("GrowsUntilCapacity", func(t *testing.T) {
		store, err := New(func(o *Options) {
			o.Dimension = 4
			o.MaxSize = 3
			o.Backend = BackendExhaustive
		})
		require.NoError(t, err)

		for i := range 3 {
			require.NoError(t, store.Insert(ctx, []float32{float32(i), 0, 0, 0}, Metadata{"i": i}))

			stats := store.Stats()
			assert.Equal(t, i+1, stats.Size)
			assert.Equal(t, i+1, stats.MetadataCount)
		}
	})

	t.Run("ResizesShortAndLongVectors", func(t *testing.T) {
		store, err := New(func(o *Options) {
			o.Dimension = 20
			o.Backend = BackendExhaustive
		})
		require.NoError(t, err)

		for _, length := range []int{10, 20, 30} {
			vec := make([]float32, length)
			for i := range vec {
				vec[i] = 1
			}

			require.NoError(t, store.Insert(ctx, vec, Metadata{"len": length}))
		}

		assert.Equal(t, 3, store.Len())

		for _, vec := range store.vectors {
			assert.Len(t, vec, 20)
		}
	})

	t.Run("ZeroesNonFinite", func(t *testing.T) {
		store, err := New(func(o *Options) {
			o.Dimension = 4
			o.Backend = BackendExhaustive
		})
		require.NoError(t, err)

		nan := float32(math.NaN())
		inf := float32(math.Inf(1))
		require.NoError(t, store.Insert(ctx, []float32{nan, inf, -inf, 1}, Metadata{"name": "weird"}))

		// The non-finite entries become zero, so the repaired vector is
		// found at distance zero.
		results, err := store.Query(ctx, []float32{0, 0, 0, 1}, 1)
		require.NoError(t, err)
		require.Len(t, results, 1)
		assert.Equal(t, "weird", results[0].Metadata["name"])
		assert.InDelta(t, 0, results[0].Distance, 1e-6)
	})

	t.Run("NilMetadata", func(t *testing.T) {
		store, err := New(func(o *Options) {
			o.Dimension = 4
			o.Backend = BackendExhaustive
		})
		require.NoError(t, err)

		require.NoError(t, store.Insert(ctx, []float32{1, 0, 0, 0}, nil))

		results, err := store.Query(ctx, []float32{1, 0, 0, 0}, 1)
		require.NoError(t, err)
		require.Len(t, results, 1)
		assert.Nil(t, results[0].Metadata)
	})

	t.Run("CancelledContext", func(t *testing.T) {
		store, err := New(func(o *Options) {
			o.Dimension = 4
			o.Backend = BackendExhaustive
		})
		require.NoError(t, err)

		cancelled, cancel := context.WithCancel(ctx)
		cancel()

		err = store.Insert(cancelled, []float32{1, 0, 0, 0}, nil)
		require.ErrorIs(t, err, context.Canceled)
		assert.Equal(t, 0, store.Len())
	})
}

func TestQuery(t *testing.T) {
	ctx := context.Background()

	newStore := func(t *testing.T) *Store {
		t.Helper()

		store, err := New(func(o *Options) {
			o.Dimension = 2
			o.Backend = BackendExhaustive
		})
		require.NoError(t, err)

		return store
	}

	t.Run("EmptyStore", func(t *testing.T) {
		store := newStore(t)

		results, err := store.Query(ctx, []float32{1, 1}, 5)
		require.NoError(t, err)
		assert.Empty(t, results)
	})

	t.Run("NonPositiveK", func(t *testing.T) {
		store := newStore(t)
		require.NoError(t, store.Insert(ctx, []float32{1, 1}, nil))

		for _, k := range []int{0, -1} {
			results, err := store.Query(ctx, []float32{1, 1}, k)
			require.NoError(t, err)
			assert.Empty(t, results)
		}
	})

	t.Run("ClampsK", func(t *testing.T) {
		store := newStore(t)
		for i := range 3 {
			require.NoError(t, store.Insert(ctx, []float32{float32(i), 0}, nil))
		}

		results, err := store.Query(ctx, []float32{0, 0}, 10)
		require.NoError(t, err)
		assert.Len(t, results, 3)
	})

	t.Run("OrderedByDistance", func(t *testing.T) {
		store := newStore(t)

		vectors := [][]float32{{6, 8}, {0, 0}, {0, 4}, {3, 0}}
		for i, vec := range vectors {
			require.NoError(t, store.Insert(ctx, vec, Metadata{"i": i}))
		}

		results, err := store.Query(ctx, []float32{0, 0}, 4)
		require.NoError(t, err)
		require.Len(t, results, 4)

		distances := make([]float32, len(results))
		for i, r := range results {
			distances[i] = r.Distance
		}

		assert.InDeltaSlice(t, []float32{0, 3, 4, 10}, distances, 1e-5)

		for i := 1; i < len(results); i++ {
			assert.LessOrEqual(t, results[i-1].Distance, results[i].Distance)
		}
	})

	t.Run("IdenticalVectorFirst", func(t *testing.T) {
		store := newStore(t)
		require.NoError(t, store.Insert(ctx, []float32{0.5, -0.25}, Metadata{"name": "target"}))
		require.NoError(t, store.Insert(ctx, []float32{3, 3}, Metadata{"name": "far"}))

		results, err := store.Query(ctx, []float32{0.5, -0.25}, 2)
		require.NoError(t, err)
		require.Len(t, results, 2)
		assert.Equal(t, "target", results[0].Metadata["name"])
		assert.InDelta(t, 0, results[0].Distance, 1e-6)
	})

	t.Run("ResizedQuery", func(t *testing.T) {
		store := newStore(t)
		require.NoError(t, store.Insert(ctx, []float32{1, 2}, Metadata{"name": "row"}))

		// The query is truncated to the store dimension before searching.
		results, err := store.Query(ctx, []float32{1, 2, 99, 99}, 1)
		require.NoError(t, err)
		require.Len(t, results, 1)
		assert.InDelta(t, 0, results[0].Distance, 1e-6)
	})

	t.Run("IndexedBackend", func(t *testing.T) {
		store, err := New(func(o *Options) {
			o.Dimension = 4
			o.Clusters = 2
			o.SearchBreadth = 2
		})
		require.NoError(t, err)
		require.Equal(t, "ivf", store.Stats().Backend)

		for i := range 6 {
			require.NoError(t, store.Insert(ctx, []float32{float32(i), 1, 0, 0}, Metadata{"i": i}))
		}

		results, err := store.Query(ctx, []float32{3, 1, 0, 0}, 1)
		require.NoError(t, err)
		require.Len(t, results, 1)
		assert.Equal(t, 3, results[0].Metadata["i"])
		assert.InDelta(t, 0, results[0].Distance, 1e-6)
	})
}

func TestCapacity(t *testing.T) {
	ctx := context.Background()

	t.Run("RetainsLastN", func(t *testing.T) {
		store, err := New(func(o *Options) {
			o.Dimension = 4
			o.MaxSize = 4
			o.Backend = BackendExhaustive
		})
		require.NoError(t, err)

		for i := range 10 {
			require.NoError(t, store.Insert(ctx, []float32{float32(i), 0, 0, 0}, Metadata{"i": i}))
		}

		stats := store.Stats()
		assert.Equal(t, 4, stats.Size)
		assert.Equal(t, 4, stats.MetadataCount)

		// Oldest-first order over exactly the last four inserts.
		for pos, want := range []int{6, 7, 8, 9} {
			assert.Equal(t, want, store.metadata[pos]["i"])
			assert.Equal(t, []float32{float32(want), 0, 0, 0}, store.vectors[pos])
		}

		// The evicted entries are gone: the closest match for an evicted
		// vector is the oldest retained one.
		results, err := store.Query(ctx, []float32{0, 0, 0, 0}, 1)
		require.NoError(t, err)
		require.Len(t, results, 1)
		assert.Equal(t, 6, results[0].Metadata["i"])
	})

	t.Run("IndexedRebuild", func(t *testing.T) {
		store, err := New(func(o *Options) {
			o.Dimension = 4
			o.MaxSize = 5
			o.Clusters = 2
			o.SearchBreadth = 2
		})
		require.NoError(t, err)
		require.Equal(t, "ivf", store.Stats().Backend)

		for i := range 8 {
			require.NoError(t, store.Insert(ctx, []float32{float32(i), 1, 0, 0}, Metadata{"i": i}))
		}

		stats := store.Stats()
		assert.Equal(t, 5, stats.Size)
		assert.Equal(t, 5, stats.MetadataCount)

		// Every retained entry is still found exactly after the rebuilds.
		for i := 3; i < 8; i++ {
			results, err := store.Query(ctx, []float32{float32(i), 1, 0, 0}, 1)
			require.NoError(t, err)
			require.Len(t, results, 1)
			assert.Equal(t, i, results[0].Metadata["i"])
			assert.InDelta(t, 0, results[0].Distance, 1e-6)
		}
	})
}

func TestEndToEnd(t *testing.T) {
	ctx := context.Background()

	store, err := New(func(o *Options) {
		o.Dimension = 4
		o.MaxSize = 3
		o.Backend = BackendExhaustive
	})
	require.NoError(t, err)

	inserts := []struct {
		vec  []float32
		name string
	}{
		{[]float32{1, 0, 0, 0}, "A"},
		{[]float32{0, 1, 0, 0}, "B"},
		{[]float32{0, 0, 1, 0}, "C"},
		{[]float32{0, 0, 0, 1}, "D"},
	}

	for _, in := range inserts {
		require.NoError(t, store.Insert(ctx, in.vec, Metadata{"name": in.name}))
	}

	stats := store.Stats()
	assert.Equal(t, 3, stats.Size)
	assert.Equal(t, 3, stats.MetadataCount)

	results, err := store.Query(ctx, []float32{0, 0, 0, 1}, 1)
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.Equal(t, "D", results[0].Metadata["name"])
	assert.InDelta(t, 0, results[0].Distance, 1e-6)

	// A was evicted by the fourth insert; B, C and D remain.
	results, err = store.Query(ctx, []float32{0, 0, 0, 1}, 10)
	require.NoError(t, err)
	require.Len(t, results, 3)

	names := make([]string, len(results))
	for i, r := range results {
		names[i] = r.Metadata["name"].(string)
	}

	assert.ElementsMatch(t, []string{"B", "C", "D"}, names)
	assert.NotContains(t, names, "A")
}

func TestMetrics(t *testing.T) {
	ctx := context.Background()

	collector := &BasicMetricsCollector{}

	store, err := New(func(o *Options) {
		o.Dimension = 4
		o.MaxSize = 3
		o.Backend = BackendExhaustive
		o.Metrics = collector
	})
	require.NoError(t, err)

	for i := range 5 {
		require.NoError(t, store.Insert(ctx, []float32{float32(i), 0, 0, 0}, nil))
	}

	nan := float32(math.NaN())
	require.NoError(t, store.Insert(ctx, []float32{nan, 0, 0, 0}, nil))

	_, err = store.Query(ctx, []float32{1, 0, 0, 0}, 2)
	require.NoError(t, err)
	_, err = store.Query(ctx, []float32{1, 0, 0, 0}, 2)
	require.NoError(t, err)

	stats := collector.GetStats()
	assert.Equal(t, int64(6), stats.InsertCount)
	assert.Equal(t, int64(0), stats.InsertErrors)
	assert.Equal(t, int64(2), stats.QueryCount)
	assert.Equal(t, int64(0), stats.QueryErrors)
	assert.Equal(t, int64(3), stats.EvictCount)
	assert.Equal(t, int64(1), stats.SanitizeCount)
}

func TestConcurrentAccess(t *testing.T) {
	ctx := context.Background()

	store, err := New(func(o *Options) {
		o.Dimension = 4
		o.MaxSize = 50
		o.Backend = BackendExhaustive
	})
	require.NoError(t, err)

	var g errgroup.Group
	for w := range 4 {
		g.Go(func() error {
			for i := range 25 {
				vec := []float32{float32(w), float32(i), 0, 0}
				if err := store.Insert(ctx, vec, Metadata{"worker": w}); err != nil {
					return err
				}

				if _, err := store.Query(ctx, vec, 3); err != nil {
					return err
				}
			}

			return nil
		})
	}

	require.NoError(t, g.Wait())

	stats := store.Stats()
	assert.Equal(t, 50, stats.Size)
	assert.Equal(t, 50, stats.MetadataCount)
}

func TestAccessors(t *testing.T) {
	store, err := New(func(o *Options) {
		o.Dimension = 8
		o.Epsilon = 1e-9
		o.Backend = BackendExhaustive
	})
	require.NoError(t, err)

	assert.Equal(t, 8, store.Dimension())
	assert.Equal(t, 1e-9, store.Epsilon())
	assert.Equal(t, 0, store.Len())
}

func TestStatsInvariant(t *testing.T) {
	ctx := context.Background()

	store, err := New(func(o *Options) {
		o.Dimension = 4
		o.MaxSize = 3
		o.Backend = BackendExhaustive
	})
	require.NoError(t, err)

	for i := range 7 {
		require.NoError(t, store.Insert(ctx, []float32{float32(i), 0, 0, 0}, Metadata{"i": i}))

		stats := store.Stats()
		assert.Equal(t, stats.Size, stats.MetadataCount, "after insert %d", i)
		assert.LessOrEqual(t, stats.Size, stats.MaxSize)
	}
}
