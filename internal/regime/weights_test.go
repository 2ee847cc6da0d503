package regime

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	valerrors "github.com/minhtran-quant/forecastval/internal/errors"
)

func TestDefaultEnsembleWeights_Valid(t *testing.T) {
	w := DefaultEnsembleWeights()
	require.NoError(t, w.Validate(2))

	for _, reg := range []VolatilityRegime{RegimeLow, RegimeMedium, RegimeHigh} {
		vec := w[reg]
		require.Len(t, vec, 2)
		sum := vec[0] + vec[1]
		assert.InDelta(t, 1.0, sum, 1e-9)
	}
	// Calmer regimes lean on the first component.
	assert.Greater(t, w[RegimeLow][0], w[RegimeHigh][0])
}

func TestEnsembleWeights_ValidateMissingRegime(t *testing.T) {
	w := EnsembleWeights{
		RegimeLow:    {0.5, 0.5},
		RegimeMedium: {0.5, 0.5},
	}
	err := w.Validate(2)
	require.Error(t, err)
	assert.True(t, valerrors.IsConfigError(err))
}

func TestEnsembleWeights_ValidateBadSum(t *testing.T) {
	w := EnsembleWeights{
		RegimeLow:    {0.5, 0.6},
		RegimeMedium: {0.5, 0.5},
		RegimeHigh:   {0.5, 0.5},
	}
	err := w.Validate(2)
	require.Error(t, err)
	assert.True(t, valerrors.IsConfigError(err))
}

func TestEnsembleWeights_ValidateComponentCount(t *testing.T) {
	w := DefaultEnsembleWeights()
	err := w.Validate(3)
	require.Error(t, err)
	assert.True(t, valerrors.IsConfigError(err))

	// Zero skips the length check but still verifies sums.
	assert.NoError(t, w.Validate(0))
}

func TestEnsembleWeights_ForFallsBackToLow(t *testing.T) {
	w := EnsembleWeights{RegimeLow: {0.7, 0.3}}
	assert.Equal(t, []float64{0.7, 0.3}, w.For(RegimeHigh))

	full := DefaultEnsembleWeights()
	assert.Equal(t, full[RegimeMedium], full.For(RegimeMedium))
}
