package index

import (
	"container/heap"
	"sort"
)

// SortResults sorts results by increasing distance, breaking ties by ID.
// This is the canonical result order returned by all backends.
func SortResults(results []SearchResult) {
	sort.Slice(results, func(i, j int) bool {
		if results[i].Distance != results[j].Distance {
			return results[i].Distance < results[j].Distance
		}
		return results[i].ID < results[j].ID
	})
}

// MergeNSearchResults merges multiple sorted lists of SearchResult into a
// single sorted list of size k. All input lists must be sorted by distance
// (ascending).
func MergeNSearchResults(k int, lists ...[]SearchResult) []SearchResult {
	result := make([]SearchResult, 0, k)

	// Filter out empty lists.
	// A small fixed-size array avoids allocation for common probe counts.
	var activeListsBuf [8][]SearchResult
	var activeLists [][]SearchResult
	if len(lists) <= 8 {
		activeLists = activeListsBuf[:0]
	} else {
		activeLists = make([][]SearchResult, 0, len(lists))
	}

	for _, l := range lists {
		if len(l) > 0 {
			activeLists = append(activeLists, l)
		}
	}

	if len(activeLists) == 0 {
		return result
	}
	if len(activeLists) == 1 {
		l := activeLists[0]
		if len(l) > k {
			l = l[:k]
		}
		return append(result, l...)
	}

	// For 2 lists, use simple merge
	if len(activeLists) == 2 {
		mergeSearchResultsInto(&result, activeLists[0], activeLists[1], k)
		return result
	}

	// Use a min-heap for N-way merge
	h := &mergeHeap{}
	heap.Init(h)

	// Initialize heap with first element from each list
	for i, list := range activeLists {
		heap.Push(h, mergeItem{
			res:     list[0],
			listIdx: i,
			elemIdx: 0,
		})
	}

	for h.Len() > 0 && len(result) < k {
		item := heap.Pop(h).(mergeItem)
		result = append(result, item.res)

		// Push next element from the same list
		if item.elemIdx+1 < len(activeLists[item.listIdx]) {
			heap.Push(h, mergeItem{
				res:     activeLists[item.listIdx][item.elemIdx+1],
				listIdx: item.listIdx,
				elemIdx: item.elemIdx + 1,
			})
		}
	}

	return result
}

func mergeSearchResultsInto(dst *[]SearchResult, a, b []SearchResult, k int) {
	i, j := 0, 0
	for len(*dst) < k && (i < len(a) || j < len(b)) {
		if i < len(a) && j < len(b) {
			if a[i].Distance < b[j].Distance {
				*dst = append(*dst, a[i])
				i++
			} else {
				*dst = append(*dst, b[j])
				j++
			}
		} else if i < len(a) {
			*dst = append(*dst, a[i])
			i++
		} else {
			*dst = append(*dst, b[j])
			j++
		}
	}
}

type mergeItem struct {
	res     SearchResult
	listIdx int
	elemIdx int
}

type mergeHeap []mergeItem

func (h mergeHeap) Len() int           { return len(h) }
func (h mergeHeap) Less(i, j int) bool { return h[i].res.Distance < h[j].res.Distance }
func (h mergeHeap) Swap(i, j int)      { h[i], h[j] = h[j], h[i] }

func (h *mergeHeap) Push(x any) {
	*h = append(*h, x.(mergeItem))
}

func (h *mergeHeap) Pop() any {
	old := *h
	n := len(old)
	x := old[n-1]
	*h = old[0 : n-1]
	return x
}
