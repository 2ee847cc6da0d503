package types

import "time"

// Bar is a single OHLCV observation. Bars handed to the validation core are
// assumed ordered by strictly increasing timestamp and immutable for the
// duration of a run.
type Bar struct {
	Timestamp time.Time
	Open      float64
	High      float64
	Low       float64
	Close     float64
	Volume    float64
}

// HL2 returns the midpoint of the bar's high and low prices.
func (b Bar) HL2() float64 {
	return (b.High + b.Low) / 2.0
}

// Closes extracts the close series from a bar slice.
func Closes(bars []Bar) []float64 {
	out := make([]float64, len(bars))
	for i, b := range bars {
		out[i] = b.Close
	}
	return out
}

// Returns computes simple period-over-period returns of the close series.
// The result has len(bars)-1 entries; bars with a zero previous close are
// skipped to keep the series finite.
func Returns(bars []Bar) []float64 {
	if len(bars) < 2 {
		return nil
	}
	out := make([]float64, 0, len(bars)-1)
	for i := 1; i < len(bars); i++ {
		prev := bars[i-1].Close
		if prev == 0 {
			continue
		}
		out = append(out, (bars[i].Close-prev)/prev)
	}
	return out
}
