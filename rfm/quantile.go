package rfm

import (
	"math"
	"sort"
)

const quantiles = 5

// cutByValue splits values into equal-frequency buckets 0..quantiles-1.
// Bucket edges are the linearly interpolated quantiles of the values; a value
// lands in the first bucket whose upper edge is >= the value, the lowest edge
// being inclusive. If ties make two edges coincide the cut falls back to
// cutByRank.
func cutByValue(values []float64) []int {
	sorted := make([]float64, len(values))
	copy(sorted, values)
	sort.Float64s(sorted)

	edges := quantileEdges(sorted)
	for i := 1; i < len(edges); i++ {
		if edges[i] <= edges[i-1] {
			return cutByRank(values)
		}
	}
	return assignBuckets(values, edges)
}

// cutByRank gives every value a distinct ordinal (value first, then input
// position) and cuts the ordinals into equal-frequency buckets.
func cutByRank(values []float64) []int {
	order := make([]int, len(values))
	for i := range order {
		order[i] = i
	}
	sort.SliceStable(order, func(a, b int) bool {
		return values[order[a]] < values[order[b]]
	})

	ranks := make([]float64, len(values))
	sortedRanks := make([]float64, len(values))
	for pos, idx := range order {
		ranks[idx] = float64(pos + 1)
		sortedRanks[pos] = float64(pos + 1)
	}
	return assignBuckets(ranks, quantileEdges(sortedRanks))
}

func quantileEdges(sorted []float64) []float64 {
	n := len(sorted)
	edges := make([]float64, quantiles+1)
	for k := 0; k <= quantiles; k++ {
		pos := float64(k) * float64(n-1) / quantiles
		lo := int(math.Floor(pos))
		if lo >= n-1 {
			edges[k] = sorted[n-1]
			continue
		}
		frac := pos - float64(lo)
		edges[k] = sorted[lo] + frac*(sorted[lo+1]-sorted[lo])
	}
	return edges
}

func assignBuckets(values, edges []float64) []int {
	buckets := make([]int, len(values))
	for i, v := range values {
		b := sort.SearchFloat64s(edges, v) - 1
		if b < 0 {
			b = 0
		}
		if b > quantiles-1 {
			b = quantiles - 1
		}
		buckets[i] = b
	}
	return buckets
}
