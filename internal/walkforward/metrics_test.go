package walkforward

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestComputeWindowMetrics_KnownValues(t *testing.T) {
	actual := []float64{100, 102, 101, 103}
	predicted := []float64{99, 103, 100, 104}

	m := computeWindowMetrics(actual, predicted, false)

	assert.InDelta(t, 1.0, m.MAE, 1e-12)
	assert.InDelta(t, 1.0, m.RMSE, 1e-12)
	assert.InDelta(t, 0.0, m.ME, 1e-12)
	assert.InDelta(t, 1.0, m.MaxError, 1e-12)
	assert.InDelta(t, 0.98534, m.MAPE, 1e-3)
	assert.InDelta(t, 101.5, m.AvgActualPrice, 1e-12)
	// Predicted moves agree with actual moves on every step.
	assert.InDelta(t, 100.0, m.DirectionalAccuracy, 1e-12)
	assert.False(t, m.Enhanced)
}

func TestComputeWindowMetrics_PerfectForecast(t *testing.T) {
	actual := []float64{100, 101, 99, 102, 103}
	m := computeWindowMetrics(actual, actual, true)

	assert.Zero(t, m.MAE)
	assert.Zero(t, m.RMSE)
	assert.Zero(t, m.MaxError)
	assert.InDelta(t, 100.0, m.DirectionalAccuracy, 1e-12)
	assert.InDelta(t, 1.0, m.RSquared, 1e-12)
	assert.True(t, m.Enhanced)
}

func TestComputeWindowMetrics_Bounds(t *testing.T) {
	actual := []float64{100, 98, 103, 97, 105, 101}
	predicted := []float64{101, 99, 101, 99, 103, 104}

	m := computeWindowMetrics(actual, predicted, true)

	assert.GreaterOrEqual(t, m.MAE, 0.0)
	assert.GreaterOrEqual(t, m.RMSE, m.MAE)
	assert.GreaterOrEqual(t, m.MaxError, m.RMSE)
	assert.GreaterOrEqual(t, m.DirectionalAccuracy, 0.0)
	assert.LessOrEqual(t, m.DirectionalAccuracy, 100.0)
	assert.LessOrEqual(t, m.MaxDrawdown, 0.0)
}

func TestComputeWindowMetrics_DegenerateInputs(t *testing.T) {
	m := computeWindowMetrics(nil, nil, false)
	assert.Zero(t, m.MAE)

	// Length mismatch yields an empty metric set rather than a panic.
	m = computeWindowMetrics([]float64{1, 2}, []float64{1}, false)
	assert.Zero(t, m.MAE)
	assert.Zero(t, m.AvgActualPrice)

	// A single point has no direction to score.
	m = computeWindowMetrics([]float64{100}, []float64{99}, false)
	assert.Zero(t, m.DirectionalAccuracy)
	assert.InDelta(t, 1.0, m.MAE, 1e-12)
}

func TestDirectionalAccuracy_OppositeMoves(t *testing.T) {
	actual := []float64{100, 101, 102}
	predicted := []float64{100, 99, 98}
	assert.Zero(t, directionalAccuracy(actual, predicted))
}

func TestMaxDrawdown(t *testing.T) {
	assert.Zero(t, maxDrawdown([]float64{0.01, 0.02, 0.03}))
	assert.InDelta(t, -0.5, maxDrawdown([]float64{0.1, -0.5, 0.2}), 1e-12)
	assert.Zero(t, maxDrawdown(nil))
}

func TestAnnualizedRatios(t *testing.T) {
	// Strictly positive returns: positive Sharpe, Sortino undefined
	// without downside and reported as zero.
	up := []float64{0.02, 0.01, 0.03}
	assert.Greater(t, annualizedSharpe(up), 0.0)
	assert.Zero(t, annualizedSortino(up))

	mixed := []float64{0.02, -0.01, 0.03, -0.02}
	assert.NotZero(t, annualizedSortino(mixed))

	// Constant returns have zero deviation.
	assert.Zero(t, annualizedSharpe([]float64{0.01, 0.01}))
}

func TestRSquared_NoVariance(t *testing.T) {
	assert.Zero(t, rSquared([]float64{5, 5, 5}, []float64{4, 5, 6}))
}

func TestMeanStd(t *testing.T) {
	mean, std := meanStd([]float64{2, 4, 4, 4, 5, 5, 7, 9})
	assert.InDelta(t, 5.0, mean, 1e-12)
	assert.InDelta(t, 2.0, std, 1e-12)

	mean, std = meanStd(nil)
	assert.Zero(t, mean)
	assert.Zero(t, std)
}
