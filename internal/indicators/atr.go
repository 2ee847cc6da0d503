package indicators

import (
	"math"

	"github.com/minhtran-quant/forecastval/pkg/types"
)

// TrueRangeSeries computes the per-bar true range:
// max(high-low, |high-prevClose|, |low-prevClose|). The first bar has no
// previous close and falls back to high-low.
func TrueRangeSeries(bars []types.Bar) []float64 {
	if len(bars) == 0 {
		return nil
	}
	out := make([]float64, len(bars))
	out[0] = bars[0].High - bars[0].Low
	for i := 1; i < len(bars); i++ {
		prevClose := bars[i-1].Close
		hl := bars[i].High - bars[i].Low
		hc := math.Abs(bars[i].High - prevClose)
		lc := math.Abs(bars[i].Low - prevClose)
		out[i] = math.Max(hl, math.Max(hc, lc))
	}
	return out
}

// ATRSeries is the exponentially smoothed true range with the given span.
func ATRSeries(bars []types.Bar, span int) []float64 {
	return EMASeries(TrueRangeSeries(bars), span)
}
