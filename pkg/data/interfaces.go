package data

import (
	"time"

	"github.com/minhtran-quant/forecastval/pkg/types"
)

// PriceHistoryProvider supplies an ordered, validated bar sequence. The
// validation core consumes these bars as-is, so providers are where the
// OHLC invariants are enforced.
type PriceHistoryProvider interface {
	// LoadBars loads the historical bar series from the given source.
	LoadBars(source string) ([]types.Bar, error)

	// GetName returns the name of the provider.
	GetName() string
}

// BarFilter narrows a loaded bar series.
type BarFilter interface {
	// FilterByPeriod keeps only the trailing period of bars.
	FilterByPeriod(bars []types.Bar, period time.Duration) []types.Bar

	// FilterByDateRange keeps bars within [start, end].
	FilterByDateRange(bars []types.Bar, start, end time.Time) []types.Bar
}

// CSVColumnMapping defines the column positions for different CSV layouts.
type CSVColumnMapping struct {
	TimestampCol int
	OpenCol      int
	HighCol      int
	LowCol       int
	CloseCol     int
	VolumeCol    int
	MinColumns   int
	DateFormat   string
}

// DefaultCSVFormat is the standard timestamp,open,high,low,close,volume
// layout.
var DefaultCSVFormat = CSVColumnMapping{
	TimestampCol: 0,
	OpenCol:      1,
	HighCol:      2,
	LowCol:       3,
	CloseCol:     4,
	VolumeCol:    5,
	MinColumns:   6,
	DateFormat:   "2006-01-02 15:04:05",
}
