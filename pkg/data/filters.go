package data

import (
	"time"

	"github.com/minhtran-quant/forecastval/pkg/types"
)

// DefaultBarFilter implements BarFilter over ordered bar series.
type DefaultBarFilter struct{}

// NewDefaultBarFilter creates a bar filter.
func NewDefaultBarFilter() *DefaultBarFilter {
	return &DefaultBarFilter{}
}

// FilterByPeriod keeps the trailing period of bars relative to the final
// bar's timestamp.
func (f *DefaultBarFilter) FilterByPeriod(bars []types.Bar, period time.Duration) []types.Bar {
	if len(bars) == 0 || period <= 0 {
		return bars
	}
	cutoff := bars[len(bars)-1].Timestamp.Add(-period)
	for i, b := range bars {
		if b.Timestamp.After(cutoff) {
			return bars[i:]
		}
	}
	return nil
}

// FilterByDateRange keeps bars with timestamps within [start, end].
func (f *DefaultBarFilter) FilterByDateRange(bars []types.Bar, start, end time.Time) []types.Bar {
	var out []types.Bar
	for _, b := range bars {
		if b.Timestamp.Before(start) || b.Timestamp.After(end) {
			continue
		}
		out = append(out, b)
	}
	return out
}
