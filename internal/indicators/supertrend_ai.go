package indicators

import (
	"fmt"
	"math"

	valerrors "github.com/minhtran-quant/forecastval/internal/errors"
	"github.com/minhtran-quant/forecastval/pkg/types"
)

const (
	// DefaultATRLength is the default span for ATR smoothing.
	DefaultATRLength = 10

	// DefaultMinMult and DefaultMaxMult bound the candidate factor grid.
	DefaultMinMult = 1.0
	DefaultMaxMult = 5.0

	// DefaultFactorStep steps the candidate grid.
	DefaultFactorStep = 0.5

	// DefaultPerfAlpha is the span of the trading-skill EMA.
	DefaultPerfAlpha = 10

	// minBarsRequired is the shortest history the indicator accepts. Below
	// it the indicator reports unavailable rather than failing.
	minBarsRequired = 100
)

// Cluster identifies one of the three performance groups the candidate
// factors are partitioned into.
type Cluster int

const (
	ClusterWorst Cluster = iota
	ClusterAverage
	ClusterBest
)

func (c Cluster) String() string {
	switch c {
	case ClusterWorst:
		return "Worst"
	case ClusterAverage:
		return "Average"
	case ClusterBest:
		return "Best"
	default:
		return "Unknown"
	}
}

// SuperTrendAIConfig configures the adaptive trend indicator.
type SuperTrendAIConfig struct {
	ATRLength   int
	MinMult     float64
	MaxMult     float64
	FactorStep  float64
	PerfAlpha   int
	FromCluster Cluster
	// MaxData caps the number of trailing bars used when scoring factors
	// for clustering stability. Zero means no cap.
	MaxData int
}

// DefaultSuperTrendAIConfig returns the standard parameter set.
func DefaultSuperTrendAIConfig() SuperTrendAIConfig {
	return SuperTrendAIConfig{
		ATRLength:   DefaultATRLength,
		MinMult:     DefaultMinMult,
		MaxMult:     DefaultMaxMult,
		FactorStep:  DefaultFactorStep,
		PerfAlpha:   DefaultPerfAlpha,
		FromCluster: ClusterBest,
	}
}

// SuperTrendAI is an adaptive multi-factor trend indicator: it computes
// the classic ratchet-band trend line for a grid of ATR multipliers,
// scores each with an EMA trading-skill metric, clusters the scores, and
// reruns the trend line with the mean factor of the requested cluster.
type SuperTrendAI struct {
	cfg     SuperTrendAIConfig
	factors []float64
}

// FactorScore pairs a candidate ATR multiplier with its skill score.
type FactorScore struct {
	Factor      float64 `json:"factor"`
	Performance float64 `json:"performance"`
}

// SuperTrendAIResult is the per-bar output table plus selection metadata.
// Available is false when the history is too short; all series are empty
// in that case.
type SuperTrendAIResult struct {
	Available bool

	SuperTrend []float64
	Trend      []int
	FinalUpper []float64
	FinalLower []float64
	PerfAMA    []float64
	Signal     []int
	ATR        []float64

	TargetFactor float64
	Meta         SuperTrendAIMeta
}

// SuperTrendAIMeta records how the target factor was chosen.
type SuperTrendAIMeta struct {
	TargetFactor       float64                 `json:"target_factor"`
	FactorScores       []FactorScore           `json:"factor_scores"`
	ClusterAssignments map[float64]Cluster     `json:"cluster_assignments"`
	ClusterPerformance map[Cluster]float64     `json:"per_cluster_mean_performance"`
	ClusterFactors     map[Cluster][]float64   `json:"cluster_mapping"`
	PerformanceIndex   float64                 `json:"performance_index"`
}

// NewSuperTrendAI validates the configuration and returns the indicator.
// An inverted factor range is a fatal configuration error.
func NewSuperTrendAI(cfg SuperTrendAIConfig) (*SuperTrendAI, error) {
	if cfg.ATRLength <= 0 {
		cfg.ATRLength = DefaultATRLength
	}
	if cfg.PerfAlpha <= 0 {
		cfg.PerfAlpha = DefaultPerfAlpha
	}
	if cfg.FactorStep <= 0 {
		cfg.FactorStep = DefaultFactorStep
	}
	if cfg.MinMult > cfg.MaxMult {
		return nil, valerrors.NewConfigError("supertrend_ai", "new",
			fmt.Sprintf("min_mult %v exceeds max_mult %v", cfg.MinMult, cfg.MaxMult))
	}

	var factors []float64
	for f := cfg.MinMult; f <= cfg.MaxMult+1e-9; f += cfg.FactorStep {
		factors = append(factors, f)
	}

	return &SuperTrendAI{cfg: cfg, factors: factors}, nil
}

// Factors returns the candidate multiplier grid.
func (st *SuperTrendAI) Factors() []float64 { return st.factors }

// Compute recomputes the full indicator over the bar series. Histories
// shorter than the minimum return an unavailable result, not an error.
func (st *SuperTrendAI) Compute(bars []types.Bar) *SuperTrendAIResult {
	if len(bars) < minBarsRequired {
		return &SuperTrendAIResult{Available: false}
	}

	// Factor scoring may be capped to the trailing window to keep the
	// clustering stable on very long histories.
	scoreBars := bars
	if st.cfg.MaxData > 0 && len(bars) > st.cfg.MaxData {
		scoreBars = bars[len(bars)-st.cfg.MaxData:]
	}
	scoreATR := ATRSeries(scoreBars, st.cfg.ATRLength)

	scores := make([]float64, len(st.factors))
	factorScores := make([]FactorScore, len(st.factors))
	for i, factor := range st.factors {
		bands := computeRatchetBands(scoreBars, scoreATR, factor)
		scores[i] = st.scoreTrendLine(scoreBars, bands.SuperTrend)
		factorScores[i] = FactorScore{Factor: factor, Performance: scores[i]}
	}

	km := KMeans3(scores)

	assignments := make(map[float64]Cluster, len(st.factors))
	clusterFactors := map[Cluster][]float64{}
	for i, factor := range st.factors {
		c := Cluster(km.Assignments[i])
		assignments[factor] = c
		clusterFactors[c] = append(clusterFactors[c], factor)
	}
	clusterPerf := map[Cluster]float64{
		ClusterWorst:   km.Means[0],
		ClusterAverage: km.Means[1],
		ClusterBest:    km.Means[2],
	}

	targetFactor := st.cfg.MinMult
	if members := clusterFactors[st.cfg.FromCluster]; len(members) > 0 {
		sum := 0.0
		for _, f := range members {
			sum += f
		}
		targetFactor = sum / float64(len(members))
	}

	// Final pass over the full history with the selected factor.
	atr := ATRSeries(bars, st.cfg.ATRLength)
	bands := computeRatchetBands(bars, atr, targetFactor)

	perfIdx := st.performanceIndex(bars, clusterPerf[st.cfg.FromCluster])
	ama := adaptiveMA(bands.SuperTrend, perfIdx)
	signal := trendSignals(bands.Trend)

	return &SuperTrendAIResult{
		Available:    true,
		SuperTrend:   bands.SuperTrend,
		Trend:        bands.Trend,
		FinalUpper:   bands.FinalUpper,
		FinalLower:   bands.FinalLower,
		PerfAMA:      ama,
		Signal:       signal,
		ATR:          atr,
		TargetFactor: targetFactor,
		Meta: SuperTrendAIMeta{
			TargetFactor:       targetFactor,
			FactorScores:       factorScores,
			ClusterAssignments: assignments,
			ClusterPerformance: clusterPerf,
			ClusterFactors:     clusterFactors,
			PerformanceIndex:   perfIdx,
		},
	}
}

// scoreTrendLine scores a trend line with the EMA-style trading-skill
// metric: smoothed product of yesterday's position sign and today's close
// change.
func (st *SuperTrendAI) scoreTrendLine(bars []types.Bar, trendLine []float64) float64 {
	alpha := 2.0 / float64(st.cfg.PerfAlpha+1)
	perf := 0.0
	for t := 1; t < len(bars); t++ {
		diff := bars[t].Close - bars[t-1].Close
		perf += alpha * (sign(bars[t-1].Close-trendLine[t-1])*diff - perf)
	}
	return perf
}

// performanceIndex normalizes the selected cluster's mean performance by
// the smoothed absolute close change, clamped into [0, 1].
func (st *SuperTrendAI) performanceIndex(bars []types.Bar, clusterMeanPerf float64) float64 {
	if math.IsNaN(clusterMeanPerf) {
		return 0
	}
	den := EMALast(AbsDiffs(types.Closes(bars)), st.cfg.PerfAlpha)
	if den == 0 {
		return 0
	}
	idx := clusterMeanPerf / den
	if idx < 0 {
		return 0
	}
	if idx > 1 {
		return 1
	}
	return idx
}

// ratchetBands holds the three parallel outputs of the band scan.
type ratchetBands struct {
	SuperTrend []float64
	Trend      []int
	FinalUpper []float64
	FinalLower []float64
}

// computeRatchetBands runs the path-dependent band recurrence as an
// explicit left-to-right scan. The final upper band holds its previous
// value while the raw band widens without the close having broken out
// above it; the lower band mirrors the rule. The trend flips up when the
// close crosses the final upper band, down when it crosses the final
// lower band, and otherwise carries.
func computeRatchetBands(bars []types.Bar, atr []float64, factor float64) ratchetBands {
	n := len(bars)
	out := ratchetBands{
		SuperTrend: make([]float64, n),
		Trend:      make([]int, n),
		FinalUpper: make([]float64, n),
		FinalLower: make([]float64, n),
	}
	if n == 0 {
		return out
	}

	hl2 := bars[0].HL2()
	out.FinalUpper[0] = hl2 + factor*atr[0]
	out.FinalLower[0] = hl2 - factor*atr[0]
	out.Trend[0] = 1
	out.SuperTrend[0] = out.FinalLower[0]

	for t := 1; t < n; t++ {
		hl2 = bars[t].HL2()
		rawUpper := hl2 + factor*atr[t]
		rawLower := hl2 - factor*atr[t]
		prevClose := bars[t-1].Close

		out.FinalUpper[t] = rawUpper
		if rawUpper >= out.FinalUpper[t-1] && prevClose <= out.FinalUpper[t-1] {
			out.FinalUpper[t] = out.FinalUpper[t-1]
		}

		out.FinalLower[t] = rawLower
		if rawLower <= out.FinalLower[t-1] && prevClose >= out.FinalLower[t-1] {
			out.FinalLower[t] = out.FinalLower[t-1]
		}

		switch {
		case bars[t].Close > out.FinalUpper[t]:
			out.Trend[t] = 1
		case bars[t].Close < out.FinalLower[t]:
			out.Trend[t] = 0
		default:
			out.Trend[t] = out.Trend[t-1]
		}

		if out.Trend[t] == 1 {
			out.SuperTrend[t] = out.FinalLower[t]
		} else {
			out.SuperTrend[t] = out.FinalUpper[t]
		}
	}
	return out
}

// adaptiveMA tracks the trend line with a fixed blending strength.
func adaptiveMA(trendLine []float64, perfIdx float64) []float64 {
	if len(trendLine) == 0 {
		return nil
	}
	out := make([]float64, len(trendLine))
	out[0] = trendLine[0]
	for t := 1; t < len(trendLine); t++ {
		out[t] = out[t-1] + perfIdx*(trendLine[t]-out[t-1])
	}
	return out
}

// trendSignals emits +1 exactly on 0->1 transitions and -1 on 1->0, with
// no repeats while the trend holds.
func trendSignals(trend []int) []int {
	out := make([]int, len(trend))
	for t := 1; t < len(trend); t++ {
		switch {
		case trend[t] == 1 && trend[t-1] == 0:
			out[t] = 1
		case trend[t] == 0 && trend[t-1] == 1:
			out[t] = -1
		}
	}
	return out
}

func sign(v float64) float64 {
	switch {
	case v > 0:
		return 1
	case v < 0:
		return -1
	default:
		return 0
	}
}
