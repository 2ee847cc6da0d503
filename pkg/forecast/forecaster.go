package forecast

import (
	"github.com/minhtran-quant/forecastval/internal/errors"
	"github.com/minhtran-quant/forecastval/pkg/types"
)

// Forecaster is the single capability the validation core requires from a
// model: predict the next horizon closes from a training slice. The core
// imposes no further contract; implementations may wrap arbitrary models
// or sub-ensembles.
type Forecaster interface {
	// Name identifies the forecaster in logs and reports.
	Name() string

	// Forecast returns exactly horizon predictions for the period
	// immediately following the training slice.
	Forecast(train []types.Bar, horizon int) ([]float64, error)
}

// NaiveForecaster repeats the last observed close across the horizon.
type NaiveForecaster struct{}

func (NaiveForecaster) Name() string { return "naive" }

func (NaiveForecaster) Forecast(train []types.Bar, horizon int) ([]float64, error) {
	if len(train) == 0 {
		return nil, errors.NewInsufficientDataError("forecast", "naive", "empty training slice")
	}
	last := train[len(train)-1].Close
	out := make([]float64, horizon)
	for i := range out {
		out[i] = last
	}
	return out, nil
}

// DriftForecaster extrapolates the mean close-to-close change of the
// training slice.
type DriftForecaster struct{}

func (DriftForecaster) Name() string { return "drift" }

func (DriftForecaster) Forecast(train []types.Bar, horizon int) ([]float64, error) {
	if len(train) < 2 {
		return nil, errors.NewInsufficientDataError("forecast", "drift", "need at least 2 training bars")
	}
	first := train[0].Close
	last := train[len(train)-1].Close
	drift := (last - first) / float64(len(train)-1)

	out := make([]float64, horizon)
	for i := range out {
		out[i] = last + drift*float64(i+1)
	}
	return out, nil
}

// SMAForecaster repeats the trailing simple moving average of the close.
type SMAForecaster struct {
	Window int
}

func (f SMAForecaster) Name() string { return "sma" }

func (f SMAForecaster) Forecast(train []types.Bar, horizon int) ([]float64, error) {
	window := f.Window
	if window <= 0 {
		window = 20
	}
	if len(train) < window {
		return nil, errors.NewInsufficientDataError("forecast", "sma", "training slice shorter than window")
	}

	sum := 0.0
	for _, b := range train[len(train)-window:] {
		sum += b.Close
	}
	mean := sum / float64(window)

	out := make([]float64, horizon)
	for i := range out {
		out[i] = mean
	}
	return out, nil
}
