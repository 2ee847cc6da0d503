package errors

import (
	"errors"
	"fmt"
)

// ErrorCategory represents different types of errors that the validation
// core can produce.
type ErrorCategory string

const (
	// Fatal configuration problems caught at construction time.
	ErrorCategoryConfiguration ErrorCategory = "CONFIG"

	// Soft shortage of input data; callers degrade instead of aborting.
	ErrorCategoryInsufficientData ErrorCategory = "INSUFFICIENT_DATA"

	// A single forecast window failed; isolated at the window boundary.
	ErrorCategoryForecast ErrorCategory = "FORECAST"

	// The run as a whole produced no usable windows.
	ErrorCategoryRunFailed ErrorCategory = "RUN_FAILED"

	// Problems with supplied market data.
	ErrorCategoryData ErrorCategory = "DATA"
)

// ValidationError is a categorized error with component and operation
// context, used across the splitter, engine and indicator packages.
type ValidationError struct {
	Category   ErrorCategory
	Component  string
	Operation  string
	Message    string
	Underlying error
}

// Error implements the error interface.
func (e *ValidationError) Error() string {
	if e.Underlying != nil {
		return fmt.Sprintf("[%s:%s] %s: %s: %v", e.Category, e.Component, e.Operation, e.Message, e.Underlying)
	}
	return fmt.Sprintf("[%s:%s] %s: %s", e.Category, e.Component, e.Operation, e.Message)
}

// Unwrap returns the underlying error for error unwrapping.
func (e *ValidationError) Unwrap() error {
	return e.Underlying
}

// IsFatal reports whether the error should abort the caller outright.
// Configuration errors are never retried.
func (e *ValidationError) IsFatal() bool {
	return e.Category == ErrorCategoryConfiguration || e.Category == ErrorCategoryRunFailed
}

// NewConfigError creates a fatal configuration error.
func NewConfigError(component, operation, message string) *ValidationError {
	return &ValidationError{
		Category:  ErrorCategoryConfiguration,
		Component: component,
		Operation: operation,
		Message:   message,
	}
}

// NewInsufficientDataError creates a soft data-shortage error.
func NewInsufficientDataError(component, operation, message string) *ValidationError {
	return &ValidationError{
		Category:  ErrorCategoryInsufficientData,
		Component: component,
		Operation: operation,
		Message:   message,
	}
}

// NewRunFailedError signals that a run produced zero successful windows.
func NewRunFailedError(component, message string) *ValidationError {
	return &ValidationError{
		Category:  ErrorCategoryRunFailed,
		Component: component,
		Operation: "run",
		Message:   message,
	}
}

// WrapForecastError wraps a forecaster failure with window context.
func WrapForecastError(err error, component string, window int) *ValidationError {
	if err == nil {
		return nil
	}
	return &ValidationError{
		Category:   ErrorCategoryForecast,
		Component:  component,
		Operation:  fmt.Sprintf("window_%d", window),
		Message:    "forecast failed",
		Underlying: err,
	}
}

// WrapDataError wraps a data loading or validation failure.
func WrapDataError(err error, component, operation string) *ValidationError {
	if err == nil {
		return nil
	}
	return &ValidationError{
		Category:   ErrorCategoryData,
		Component:  component,
		Operation:  operation,
		Message:    "bad market data",
		Underlying: err,
	}
}

// IsCategory reports whether err (or anything it wraps) is a
// ValidationError of the given category.
func IsCategory(err error, category ErrorCategory) bool {
	var ve *ValidationError
	if errors.As(err, &ve) {
		return ve.Category == category
	}
	return false
}

// IsConfigError reports whether err is a fatal configuration error.
func IsConfigError(err error) bool {
	return IsCategory(err, ErrorCategoryConfiguration)
}

// IsInsufficientData reports whether err is a soft data-shortage error.
func IsInsufficientData(err error) bool {
	return IsCategory(err, ErrorCategoryInsufficientData)
}

// IsRunFailed reports whether err marks a run with zero usable windows.
func IsRunFailed(err error) bool {
	return IsCategory(err, ErrorCategoryRunFailed)
}
