package queue

import (
	"math/rand"
	"sort"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPriorityQueueMax(t *testing.T) {
	t.Run("top is largest", func(t *testing.T) {
		pq := NewMax(4)
		pq.PushItem(PriorityQueueItem{ID: 1, Distance: 2.0})
		pq.PushItem(PriorityQueueItem{ID: 2, Distance: 5.0})
		pq.PushItem(PriorityQueueItem{ID: 3, Distance: 1.0})

		top, ok := pq.TopItem()
		require.True(t, ok)
		assert.Equal(t, uint32(2), top.ID)
		assert.Equal(t, float32(5.0), top.Distance)
	})

	t.Run("pop order descending", func(t *testing.T) {
		pq := NewMax(8)
		dists := []float32{3, 1, 4, 1.5, 9, 2.6}
		for i, d := range dists {
			pq.PushItem(PriorityQueueItem{ID: uint32(i), Distance: d})
		}

		var popped []float32
		for pq.Len() > 0 {
			item, ok := pq.PopItem()
			require.True(t, ok)
			popped = append(popped, item.Distance)
		}

		assert.True(t, sort.SliceIsSorted(popped, func(i, j int) bool {
			return popped[i] > popped[j]
		}))
	})

	t.Run("empty pop", func(t *testing.T) {
		pq := NewMax(1)
		_, ok := pq.PopItem()
		assert.False(t, ok)
		_, ok = pq.TopItem()
		assert.False(t, ok)
	})
}

func TestPriorityQueueMin(t *testing.T) {
	pq := NewMin(4)
	pq.PushItem(PriorityQueueItem{ID: 1, Distance: 2.0})
	pq.PushItem(PriorityQueueItem{ID: 2, Distance: 5.0})
	pq.PushItem(PriorityQueueItem{ID: 3, Distance: 1.0})

	top, ok := pq.TopItem()
	require.True(t, ok)
	assert.Equal(t, uint32(3), top.ID)

	var popped []float32
	for pq.Len() > 0 {
		item, _ := pq.PopItem()
		popped = append(popped, item.Distance)
	}
	assert.True(t, sort.SliceIsSorted(popped, func(i, j int) bool {
		return popped[i] < popped[j]
	}))
}

func TestPriorityQueueBoundedTopK(t *testing.T) {
	// Replace-top pattern used by the search loops: keep the k closest
	// by evicting the current worst when a closer candidate arrives.
	const k = 5
	rng := rand.New(rand.NewSource(42))

	pq := NewMax(k)
	all := make([]float32, 100)
	for i := range all {
		d := rng.Float32() * 100
		all[i] = d

		if pq.Len() < k {
			pq.PushItem(PriorityQueueItem{ID: uint32(i), Distance: d})
			continue
		}
		top, _ := pq.TopItem()
		if d < top.Distance {
			pq.PopItem()
			pq.PushItem(PriorityQueueItem{ID: uint32(i), Distance: d})
		}
	}

	require.Equal(t, k, pq.Len())

	got := make([]float32, 0, k)
	for pq.Len() > 0 {
		item, _ := pq.PopItem()
		got = append(got, item.Distance)
	}

	sort.Slice(all, func(i, j int) bool { return all[i] < all[j] })
	want := all[:k]
	sort.Slice(got, func(i, j int) bool { return got[i] < got[j] })
	assert.Equal(t, want, got)
}

func TestPriorityQueueReset(t *testing.T) {
	pq := NewMax(2)
	pq.PushItem(PriorityQueueItem{ID: 1, Distance: 1})
	pq.Reset()
	assert.Equal(t, 0, pq.Len())
}
