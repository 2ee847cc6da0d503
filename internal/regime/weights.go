package regime

import (
	"fmt"
	"math"

	valerrors "github.com/minhtran-quant/forecastval/internal/errors"
)

// weightSumTolerance bounds the allowed drift of a weight vector from 1.0.
const weightSumTolerance = 1e-6

// EnsembleWeights maps each regime to a component weight vector used when
// blending sub-forecasters. Every vector must sum to 1.0 within tolerance.
type EnsembleWeights map[VolatilityRegime][]float64

// DefaultEnsembleWeights returns the standard two-component blend: calmer
// regimes lean on the first component, volatile regimes on the second.
func DefaultEnsembleWeights() EnsembleWeights {
	return EnsembleWeights{
		RegimeLow:    {0.60, 0.40},
		RegimeMedium: {0.40, 0.60},
		RegimeHigh:   {0.20, 0.80},
	}
}

// Validate checks that every regime carries the expected component count
// and that each vector sums to 1.0 within tolerance.
func (w EnsembleWeights) Validate(components int) error {
	for _, reg := range []VolatilityRegime{RegimeLow, RegimeMedium, RegimeHigh} {
		vec, ok := w[reg]
		if !ok {
			return valerrors.NewConfigError("regime_weights", "validate",
				fmt.Sprintf("missing weight vector for regime %s", reg))
		}
		if components > 0 && len(vec) != components {
			return valerrors.NewConfigError("regime_weights", "validate",
				fmt.Sprintf("regime %s has %d weights, want %d", reg, len(vec), components))
		}
		sum := 0.0
		for _, v := range vec {
			sum += v
		}
		if math.Abs(sum-1.0) > weightSumTolerance {
			return valerrors.NewConfigError("regime_weights", "validate",
				fmt.Sprintf("regime %s weights sum to %v, want 1.0", reg, sum))
		}
	}
	return nil
}

// For returns the weight vector for a regime, falling back to the LOW
// vector when a regime is not configured.
func (w EnsembleWeights) For(reg VolatilityRegime) []float64 {
	if vec, ok := w[reg]; ok {
		return vec
	}
	return w[RegimeLow]
}
