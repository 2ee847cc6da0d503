package forecast

import (
	"fmt"

	"github.com/minhtran-quant/forecastval/internal/errors"
	"github.com/minhtran-quant/forecastval/internal/regime"
	"github.com/minhtran-quant/forecastval/pkg/types"
)

// RegimeAware is implemented by forecasters whose blending depends on the
// volatility regime of the training window. The walk-forward engine
// prefers this path when available.
type RegimeAware interface {
	ForecastRegime(train []types.Bar, horizon int, reg regime.VolatilityRegime) ([]float64, error)
}

// EnsembleForecaster blends N sub-forecasters with a per-regime weight
// vector. Calm regimes lean on the leading components, volatile regimes
// on the trailing ones.
type EnsembleForecaster struct {
	components []Forecaster
	weights    regime.EnsembleWeights
}

// NewEnsembleForecaster validates the weight tables against the component
// count and returns the ensemble.
func NewEnsembleForecaster(components []Forecaster, weights regime.EnsembleWeights) (*EnsembleForecaster, error) {
	if len(components) == 0 {
		return nil, errors.NewConfigError("forecast", "ensemble", "ensemble needs at least one component")
	}
	if weights == nil {
		weights = regime.DefaultEnsembleWeights()
	}
	if err := weights.Validate(len(components)); err != nil {
		return nil, err
	}
	return &EnsembleForecaster{components: components, weights: weights}, nil
}

func (e *EnsembleForecaster) Name() string { return "ensemble" }

// Forecast blends with the regime classified from the training slice's
// own returns.
func (e *EnsembleForecaster) Forecast(train []types.Bar, horizon int) ([]float64, error) {
	sig := regime.Classify(types.Returns(train))
	return e.ForecastRegime(train, horizon, sig.Regime)
}

// ForecastRegime blends component forecasts with the weight vector of the
// given regime.
func (e *EnsembleForecaster) ForecastRegime(train []types.Bar, horizon int, reg regime.VolatilityRegime) ([]float64, error) {
	vec := e.weights.For(reg)

	blended := make([]float64, horizon)
	for i, component := range e.components {
		preds, err := component.Forecast(train, horizon)
		if err != nil {
			return nil, fmt.Errorf("component %s: %w", component.Name(), err)
		}
		if len(preds) != horizon {
			return nil, fmt.Errorf("component %s returned %d predictions, want %d", component.Name(), len(preds), horizon)
		}
		for t := range preds {
			blended[t] += vec[i] * preds[t]
		}
	}
	return blended, nil
}

// Components returns the number of blended sub-forecasters.
func (e *EnsembleForecaster) Components() int { return len(e.components) }
