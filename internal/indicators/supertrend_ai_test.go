package indicators

import (
	"math/rand"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	valerrors "github.com/minhtran-quant/forecastval/internal/errors"
	"github.com/minhtran-quant/forecastval/pkg/types"
)

func barsFromCloses(closes []float64) []types.Bar {
	bars := make([]types.Bar, len(closes))
	for i, c := range closes {
		open := c
		if i > 0 {
			open = closes[i-1]
		}
		bars[i] = types.Bar{
			Timestamp: time.Unix(int64(i)*3600, 0),
			Open:      open,
			High:      c + 0.5,
			Low:       c - 0.5,
			Close:     c,
			Volume:    1000,
		}
	}
	return bars
}

// reversalBars rises one point per bar for 50 bars, then falls one point
// per bar for 50 bars, peaking at index 49.
func reversalBars() []types.Bar {
	closes := make([]float64, 100)
	for i := 0; i < 50; i++ {
		closes[i] = 100 + float64(i)
	}
	for i := 50; i < 100; i++ {
		closes[i] = 149 - float64(i-49)
	}
	return barsFromCloses(closes)
}

func noisyTrendBars(n int) []types.Bar {
	rng := rand.New(rand.NewSource(99))
	closes := make([]float64, n)
	closes[0] = 100
	for i := 1; i < n; i++ {
		closes[i] = closes[i-1] + 0.05 + rng.NormFloat64()*0.8
	}
	return barsFromCloses(closes)
}

func TestNewSuperTrendAI_ConfigValidation(t *testing.T) {
	_, err := NewSuperTrendAI(SuperTrendAIConfig{MinMult: 5, MaxMult: 1})
	require.Error(t, err)
	assert.True(t, valerrors.IsConfigError(err))

	st, err := NewSuperTrendAI(DefaultSuperTrendAIConfig())
	require.NoError(t, err)
	assert.Len(t, st.Factors(), 9)
	assert.InDelta(t, 1.0, st.Factors()[0], 1e-9)
	assert.InDelta(t, 5.0, st.Factors()[8], 1e-9)
}

func TestSuperTrendAI_ShortHistoryUnavailable(t *testing.T) {
	st, err := NewSuperTrendAI(DefaultSuperTrendAIConfig())
	require.NoError(t, err)

	res := st.Compute(noisyTrendBars(99))
	require.NotNil(t, res)
	assert.False(t, res.Available)
	assert.Empty(t, res.SuperTrend)
}

func TestSuperTrendAI_ReversalFlip(t *testing.T) {
	st, err := NewSuperTrendAI(DefaultSuperTrendAIConfig())
	require.NoError(t, err)

	res := st.Compute(reversalBars())
	require.True(t, res.Available)

	var flips []int
	for i, s := range res.Signal {
		switch s {
		case -1:
			flips = append(flips, i)
		case 1:
			t.Fatalf("unexpected bullish signal at bar %d", i)
		}
	}
	require.Len(t, flips, 1, "expected exactly one bearish flip")
	assert.GreaterOrEqual(t, flips[0], 50)
	assert.LessOrEqual(t, flips[0], 55)

	// Uptrend holds until the flip, downtrend after it.
	for i := 0; i < flips[0]; i++ {
		assert.Equal(t, 1, res.Trend[i], "bar %d", i)
	}
	for i := flips[0]; i < len(res.Trend); i++ {
		assert.Equal(t, 0, res.Trend[i], "bar %d", i)
	}
}

func TestSuperTrendAI_BestClusterPrefersTighterFactors(t *testing.T) {
	cfgBest := DefaultSuperTrendAIConfig()
	cfgWorst := DefaultSuperTrendAIConfig()
	cfgWorst.FromCluster = ClusterWorst

	stBest, err := NewSuperTrendAI(cfgBest)
	require.NoError(t, err)
	stWorst, err := NewSuperTrendAI(cfgWorst)
	require.NoError(t, err)

	bars := reversalBars()
	best := stBest.Compute(bars)
	worst := stWorst.Compute(bars)
	require.True(t, best.Available)
	require.True(t, worst.Available)

	// On a clean reversal the tighter factors flip earlier and score
	// higher, so the best cluster sits at the low end of the grid.
	assert.Less(t, best.TargetFactor, worst.TargetFactor)
}

func TestSuperTrendAI_Invariants(t *testing.T) {
	st, err := NewSuperTrendAI(DefaultSuperTrendAIConfig())
	require.NoError(t, err)

	bars := noisyTrendBars(300)
	res := st.Compute(bars)
	require.True(t, res.Available)

	require.Len(t, res.SuperTrend, len(bars))
	require.Len(t, res.Trend, len(bars))
	require.Len(t, res.Signal, len(bars))
	require.Len(t, res.FinalUpper, len(bars))
	require.Len(t, res.FinalLower, len(bars))
	require.Len(t, res.PerfAMA, len(bars))

	assert.GreaterOrEqual(t, res.TargetFactor, DefaultMinMult)
	assert.LessOrEqual(t, res.TargetFactor, DefaultMaxMult)
	assert.GreaterOrEqual(t, res.Meta.PerformanceIndex, 0.0)
	assert.LessOrEqual(t, res.Meta.PerformanceIndex, 1.0)

	for i := range bars {
		require.Contains(t, []int{0, 1}, res.Trend[i])
		if res.Trend[i] == 1 {
			assert.Equal(t, res.FinalLower[i], res.SuperTrend[i])
		} else {
			assert.Equal(t, res.FinalUpper[i], res.SuperTrend[i])
		}
		if i > 0 {
			switch {
			case res.Trend[i] == 1 && res.Trend[i-1] == 0:
				assert.Equal(t, 1, res.Signal[i])
			case res.Trend[i] == 0 && res.Trend[i-1] == 1:
				assert.Equal(t, -1, res.Signal[i])
			default:
				assert.Zero(t, res.Signal[i])
			}
		}
	}

	// Every candidate factor is assigned to exactly one cluster.
	assert.Len(t, res.Meta.ClusterAssignments, len(st.Factors()))
	total := 0
	for _, members := range res.Meta.ClusterFactors {
		total += len(members)
	}
	assert.Equal(t, len(st.Factors()), total)
}

func TestSuperTrendAI_Deterministic(t *testing.T) {
	st, err := NewSuperTrendAI(DefaultSuperTrendAIConfig())
	require.NoError(t, err)

	bars := noisyTrendBars(250)
	first := st.Compute(bars)
	second := st.Compute(bars)

	assert.Equal(t, first.TargetFactor, second.TargetFactor)
	assert.Equal(t, first.SuperTrend, second.SuperTrend)
	assert.Equal(t, first.Trend, second.Trend)
	assert.Equal(t, first.Meta.FactorScores, second.Meta.FactorScores)
}

func TestSuperTrendAI_MaxDataCapsScoringWindow(t *testing.T) {
	cfg := DefaultSuperTrendAIConfig()
	cfg.MaxData = 150

	st, err := NewSuperTrendAI(cfg)
	require.NoError(t, err)

	res := st.Compute(noisyTrendBars(400))
	require.True(t, res.Available)
	// The published series still cover the full history.
	assert.Len(t, res.SuperTrend, 400)
	assert.GreaterOrEqual(t, res.TargetFactor, DefaultMinMult)
	assert.LessOrEqual(t, res.TargetFactor, DefaultMaxMult)
}
