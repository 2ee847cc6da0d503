package indicators

import (
	"math"
	"sort"
)

const kmeansMaxIterations = 100

// KMeansResult holds the converged 3-means partition of a scalar series.
// Cluster indices are relabeled so 0 has the lowest member mean and 2 the
// highest.
type KMeansResult struct {
	Assignments []int      // per-value cluster index, 0..2
	Means       [3]float64 // member mean per cluster; NaN for empty clusters
	Sizes       [3]int
}

// KMeans3 partitions scalar values into exactly three clusters. Centroids
// are seeded deterministically at the 25th/50th/75th percentile values, so
// identical inputs always converge to identical assignments (no random
// initialization).
func KMeans3(values []float64) KMeansResult {
	n := len(values)
	assignments := make([]int, n)
	result := KMeansResult{Assignments: assignments}
	if n == 0 {
		for c := range result.Means {
			result.Means[c] = math.NaN()
		}
		return result
	}

	centroids := [3]float64{
		percentile(values, 0.25),
		percentile(values, 0.50),
		percentile(values, 0.75),
	}

	for iter := 0; iter < kmeansMaxIterations; iter++ {
		changed := false
		for i, v := range values {
			best := 0
			bestDist := math.Abs(v - centroids[0])
			for c := 1; c < 3; c++ {
				if d := math.Abs(v - centroids[c]); d < bestDist {
					best = c
					bestDist = d
				}
			}
			if assignments[i] != best {
				assignments[i] = best
				changed = true
			}
		}

		var sums [3]float64
		var counts [3]int
		for i, v := range values {
			sums[assignments[i]] += v
			counts[assignments[i]]++
		}
		for c := 0; c < 3; c++ {
			if counts[c] > 0 {
				centroids[c] = sums[c] / float64(counts[c])
			}
		}

		if !changed && iter > 0 {
			break
		}
	}

	// Relabel clusters by ascending member mean so 0=worst, 2=best.
	var sums [3]float64
	var counts [3]int
	for i, v := range values {
		sums[assignments[i]] += v
		counts[assignments[i]]++
	}
	order := []int{0, 1, 2}
	sort.SliceStable(order, func(a, b int) bool {
		ma, mb := clusterMean(sums[order[a]], counts[order[a]]), clusterMean(sums[order[b]], counts[order[b]])
		switch {
		case math.IsNaN(ma):
			return false
		case math.IsNaN(mb):
			return true
		default:
			return ma < mb
		}
	})
	relabel := [3]int{}
	for newIdx, oldIdx := range order {
		relabel[oldIdx] = newIdx
	}
	for i := range assignments {
		assignments[i] = relabel[assignments[i]]
	}
	for oldIdx := 0; oldIdx < 3; oldIdx++ {
		result.Means[relabel[oldIdx]] = clusterMean(sums[oldIdx], counts[oldIdx])
		result.Sizes[relabel[oldIdx]] = counts[oldIdx]
	}
	return result
}

func clusterMean(sum float64, count int) float64 {
	if count == 0 {
		return math.NaN()
	}
	return sum / float64(count)
}

// percentile computes the q-th linear-interpolated percentile, q in [0,1].
func percentile(values []float64, q float64) float64 {
	sorted := make([]float64, len(values))
	copy(sorted, values)
	sort.Float64s(sorted)

	if len(sorted) == 1 {
		return sorted[0]
	}
	pos := q * float64(len(sorted)-1)
	lo := int(math.Floor(pos))
	hi := int(math.Ceil(pos))
	if lo == hi {
		return sorted[lo]
	}
	frac := pos - float64(lo)
	return sorted[lo] + frac*(sorted[hi]-sorted[lo])
}
