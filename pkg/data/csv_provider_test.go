package data

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	valerrors "github.com/minhtran-quant/forecastval/internal/errors"
	"github.com/minhtran-quant/forecastval/pkg/types"
)

func writeCSV(t *testing.T, rows string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "bars.csv")
	require.NoError(t, os.WriteFile(path, []byte(rows), 0o644))
	return path
}

func TestCSVProvider_LoadBars(t *testing.T) {
	path := writeCSV(t, `timestamp,open,high,low,close,volume
2024-01-01 00:00:00,100,105,99,104,1500
2024-01-01 01:00:00,104,106,103,105,1800
2024-01-01 02:00:00,105,107,104,106,1200
`)

	provider := NewCSVProvider()
	bars, err := provider.LoadBars(path)
	require.NoError(t, err)
	require.Len(t, bars, 3)

	assert.Equal(t, 100.0, bars[0].Open)
	assert.Equal(t, 105.0, bars[0].High)
	assert.Equal(t, 99.0, bars[0].Low)
	assert.Equal(t, 104.0, bars[0].Close)
	assert.Equal(t, 1500.0, bars[0].Volume)
	assert.True(t, bars[0].Timestamp.Before(bars[1].Timestamp))
}

func TestCSVProvider_SkipsUnparseableRows(t *testing.T) {
	path := writeCSV(t, `timestamp,open,high,low,close,volume
2024-01-01 00:00:00,100,105,99,104,1500
not-a-date,104,106,103,105,1800
2024-01-01 02:00:00,abc,107,104,106,1200
2024-01-01 03:00:00,105,107,104,106,1200
`)

	bars, err := NewCSVProvider().LoadBars(path)
	require.NoError(t, err)
	assert.Len(t, bars, 2)
}

func TestCSVProvider_MissingFile(t *testing.T) {
	_, err := NewCSVProvider().LoadBars("/nonexistent/bars.csv")
	require.Error(t, err)
	assert.True(t, valerrors.IsCategory(err, valerrors.ErrorCategoryData))
}

func TestCSVProvider_RejectsInvalidOHLC(t *testing.T) {
	// High below close violates the bar invariant and aborts the load.
	path := writeCSV(t, `timestamp,open,high,low,close,volume
2024-01-01 00:00:00,100,101,99,104,1500
`)

	_, err := NewCSVProvider().LoadBars(path)
	require.Error(t, err)
	assert.True(t, valerrors.IsCategory(err, valerrors.ErrorCategoryData))
}

func TestCSVProvider_RejectsNonIncreasingTimestamps(t *testing.T) {
	path := writeCSV(t, `timestamp,open,high,low,close,volume
2024-01-01 01:00:00,100,105,99,104,1500
2024-01-01 00:00:00,104,106,103,105,1800
`)

	_, err := NewCSVProvider().LoadBars(path)
	require.Error(t, err)
	assert.True(t, valerrors.IsCategory(err, valerrors.ErrorCategoryData))
}

func TestValidateBars(t *testing.T) {
	good := []types.Bar{
		{Timestamp: time.Unix(0, 0), Open: 100, High: 105, Low: 99, Close: 104},
		{Timestamp: time.Unix(60, 0), Open: 104, High: 106, Low: 103, Close: 105},
	}
	assert.NoError(t, ValidateBars(good))
	assert.NoError(t, ValidateBars(nil))

	negative := []types.Bar{{Timestamp: time.Unix(0, 0), Open: -1, High: 105, Low: 99, Close: 104}}
	assert.Error(t, ValidateBars(negative))

	lowAbove := []types.Bar{{Timestamp: time.Unix(0, 0), Open: 100, High: 105, Low: 101, Close: 104}}
	assert.Error(t, ValidateBars(lowAbove))
}

func TestDefaultBarFilter_FilterByPeriod(t *testing.T) {
	base := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	bars := make([]types.Bar, 10)
	for i := range bars {
		bars[i] = types.Bar{Timestamp: base.Add(time.Duration(i) * time.Hour), Open: 1, High: 2, Low: 1, Close: 1}
	}

	filtered := NewDefaultBarFilter().FilterByPeriod(bars, 3*time.Hour)
	require.Len(t, filtered, 3)
	assert.Equal(t, bars[7].Timestamp, filtered[0].Timestamp)

	// Zero period is a no-op.
	assert.Len(t, NewDefaultBarFilter().FilterByPeriod(bars, 0), 10)
}

func TestDefaultBarFilter_FilterByDateRange(t *testing.T) {
	base := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	bars := make([]types.Bar, 5)
	for i := range bars {
		bars[i] = types.Bar{Timestamp: base.Add(time.Duration(i) * time.Hour)}
	}

	out := NewDefaultBarFilter().FilterByDateRange(bars, base.Add(time.Hour), base.Add(3*time.Hour))
	require.Len(t, out, 3)
	assert.Equal(t, bars[1].Timestamp, out[0].Timestamp)
	assert.Equal(t, bars[3].Timestamp, out[2].Timestamp)
}
