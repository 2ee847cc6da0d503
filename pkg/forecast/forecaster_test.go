package forecast

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	valerrors "github.com/minhtran-quant/forecastval/internal/errors"
	"github.com/minhtran-quant/forecastval/pkg/types"
)

func trainBars(closes ...float64) []types.Bar {
	bars := make([]types.Bar, len(closes))
	for i, c := range closes {
		bars[i] = types.Bar{
			Timestamp: time.Unix(int64(i)*3600, 0),
			Open:      c,
			High:      c + 1,
			Low:       c - 1,
			Close:     c,
		}
	}
	return bars
}

func TestNaiveForecaster(t *testing.T) {
	preds, err := NaiveForecaster{}.Forecast(trainBars(100, 101, 102), 3)
	require.NoError(t, err)
	assert.Equal(t, []float64{102, 102, 102}, preds)

	_, err = NaiveForecaster{}.Forecast(nil, 3)
	require.Error(t, err)
	assert.True(t, valerrors.IsInsufficientData(err))
}

func TestDriftForecaster(t *testing.T) {
	// Two points per bar of drift: 100 -> 108 over 4 steps.
	preds, err := DriftForecaster{}.Forecast(trainBars(100, 102, 104, 106, 108), 3)
	require.NoError(t, err)
	require.Len(t, preds, 3)
	assert.InDelta(t, 110, preds[0], 1e-12)
	assert.InDelta(t, 112, preds[1], 1e-12)
	assert.InDelta(t, 114, preds[2], 1e-12)

	_, err = DriftForecaster{}.Forecast(trainBars(100), 3)
	require.Error(t, err)
	assert.True(t, valerrors.IsInsufficientData(err))
}

func TestSMAForecaster(t *testing.T) {
	f := SMAForecaster{Window: 3}
	preds, err := f.Forecast(trainBars(90, 100, 102, 104), 2)
	require.NoError(t, err)
	assert.Equal(t, []float64{102, 102}, preds)

	_, err = f.Forecast(trainBars(100, 101), 2)
	require.Error(t, err)
	assert.True(t, valerrors.IsInsufficientData(err))
}

func TestSMAForecaster_DefaultWindow(t *testing.T) {
	closes := make([]float64, 25)
	for i := range closes {
		closes[i] = 100
	}
	preds, err := SMAForecaster{}.Forecast(trainBars(closes...), 1)
	require.NoError(t, err)
	assert.Equal(t, []float64{100}, preds)
}
