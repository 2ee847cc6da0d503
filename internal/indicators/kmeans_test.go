package indicators

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestKMeans3_WellSeparatedGroups(t *testing.T) {
	values := []float64{1, 1, 1, 5, 5, 5, 9, 9, 9}
	res := KMeans3(values)

	require.Len(t, res.Assignments, len(values))
	assert.Equal(t, []int{0, 0, 0, 1, 1, 1, 2, 2, 2}, res.Assignments)
	assert.Equal(t, [3]int{3, 3, 3}, res.Sizes)
	assert.InDelta(t, 1.0, res.Means[0], 1e-12)
	assert.InDelta(t, 5.0, res.Means[1], 1e-12)
	assert.InDelta(t, 9.0, res.Means[2], 1e-12)
}

func TestKMeans3_LabelsOrderedByMean(t *testing.T) {
	// Input order must not influence label order.
	values := []float64{9, 1, 5, 9, 1, 5, 9, 1, 5}
	res := KMeans3(values)

	assert.Equal(t, []int{2, 0, 1, 2, 0, 1, 2, 0, 1}, res.Assignments)
	assert.True(t, res.Means[0] < res.Means[1])
	assert.True(t, res.Means[1] < res.Means[2])
}

func TestKMeans3_Deterministic(t *testing.T) {
	values := []float64{0.3, 1.7, 2.2, 0.1, 5.5, 4.9, 2.8, 0.2, 5.1}
	first := KMeans3(values)
	second := KMeans3(values)

	assert.Equal(t, first.Assignments, second.Assignments)
	assert.Equal(t, first.Means, second.Means)
	assert.Equal(t, first.Sizes, second.Sizes)
}

func TestKMeans3_IdenticalValues(t *testing.T) {
	values := []float64{2, 2, 2, 2, 2, 2}
	res := KMeans3(values)

	for _, a := range res.Assignments {
		assert.Equal(t, 0, a)
	}
	assert.Equal(t, 6, res.Sizes[0])
	assert.InDelta(t, 2.0, res.Means[0], 1e-12)
	assert.True(t, math.IsNaN(res.Means[1]))
	assert.True(t, math.IsNaN(res.Means[2]))
}

func TestKMeans3_Empty(t *testing.T) {
	res := KMeans3(nil)
	assert.Empty(t, res.Assignments)
	for c := 0; c < 3; c++ {
		assert.True(t, math.IsNaN(res.Means[c]))
		assert.Zero(t, res.Sizes[c])
	}
}

func TestPercentile(t *testing.T) {
	values := []float64{4, 1, 3, 2}
	assert.InDelta(t, 1.0, percentile(values, 0), 1e-12)
	assert.InDelta(t, 2.5, percentile(values, 0.5), 1e-12)
	assert.InDelta(t, 4.0, percentile(values, 1), 1e-12)
	assert.InDelta(t, 7.0, percentile([]float64{7}, 0.75), 1e-12)
}
