package errors

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidationError_Message(t *testing.T) {
	err := NewConfigError("splitter", "new", "n_splits must be >= 2")
	assert.Equal(t, "[CONFIG:splitter] new: n_splits must be >= 2", err.Error())

	wrapped := WrapForecastError(errors.New("boom"), "ensemble", 7)
	assert.Contains(t, wrapped.Error(), "FORECAST")
	assert.Contains(t, wrapped.Error(), "window_7")
	assert.Contains(t, wrapped.Error(), "boom")
}

func TestValidationError_Unwrap(t *testing.T) {
	underlying := errors.New("disk on fire")
	err := WrapDataError(underlying, "csv", "load")
	assert.ErrorIs(t, err, underlying)

	assert.Nil(t, WrapDataError(nil, "csv", "load"))
	assert.Nil(t, WrapForecastError(nil, "naive", 0))
}

func TestValidationError_IsFatal(t *testing.T) {
	assert.True(t, NewConfigError("c", "o", "m").IsFatal())
	assert.True(t, NewRunFailedError("c", "m").IsFatal())
	assert.False(t, NewInsufficientDataError("c", "o", "m").IsFatal())
	assert.False(t, WrapForecastError(errors.New("x"), "c", 1).IsFatal())
}

func TestCategoryHelpers(t *testing.T) {
	assert.True(t, IsConfigError(NewConfigError("c", "o", "m")))
	assert.True(t, IsInsufficientData(NewInsufficientDataError("c", "o", "m")))
	assert.True(t, IsRunFailed(NewRunFailedError("c", "m")))

	assert.False(t, IsConfigError(errors.New("plain")))
	assert.False(t, IsRunFailed(nil))
}

func TestCategoryHelpers_SeeThroughWrapping(t *testing.T) {
	inner := NewInsufficientDataError("forecast", "sma", "too short")
	outer := fmt.Errorf("window 3: %w", inner)

	require.True(t, IsInsufficientData(outer))
	assert.False(t, IsConfigError(outer))
}
