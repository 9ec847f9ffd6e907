package core

import (
	"errors"
	"fmt"
)

// Domain errors - centralized error definitions
var (
	// Input errors raised by the inference engine
	ErrInsufficientData       = errors.New("insufficient data for analysis")
	ErrInvalidConfidenceLevel = errors.New("confidence level must lie strictly between 0 and 1")
	ErrInvalidProportion      = errors.New("invalid proportion")
	ErrDivisionByZero         = errors.New("division by zero")

	// Lookup errors
	ErrNotFound = errors.New("resource not found")
)

// Error constructors with context
func NewInsufficientDataError(what string, n, min int) error {
	return fmt.Errorf("%w: %s needs at least %d observations, got %d", ErrInsufficientData, what, min, n)
}

func NewDegenerateDataError(what, reason string) error {
	return fmt.Errorf("%w: %s: %s", ErrInsufficientData, what, reason)
}

func NewConfidenceLevelError(level float64) error {
	return fmt.Errorf("%w: got %v", ErrInvalidConfidenceLevel, level)
}

func NewProportionError(reason string) error {
	return fmt.Errorf("%w: %s", ErrInvalidProportion, reason)
}

func NewDivisionByZeroError(what string) error {
	return fmt.Errorf("%w: %s is zero", ErrDivisionByZero, what)
}

// NewInvalidCountError reports a count pair that a hypothesis test cannot use.
// It matches both ErrInvalidProportion and ErrInsufficientData.
func NewInvalidCountError(successes, total int) error {
	return fmt.Errorf("%w (%w): successes=%d total=%d", ErrInvalidProportion, ErrInsufficientData, successes, total)
}

func NewNotFoundError(resource string, id string) error {
	return fmt.Errorf("%w: %s with id %s", ErrNotFound, resource, id)
}

// Error checking helpers
func IsNotFoundError(err error) bool {
	return errors.Is(err, ErrNotFound)
}

// IsInputError reports whether err is a caller input error from the engine.
func IsInputError(err error) bool {
	return errors.Is(err, ErrInsufficientData) ||
		errors.Is(err, ErrInvalidConfidenceLevel) ||
		errors.Is(err, ErrInvalidProportion) ||
		errors.Is(err, ErrDivisionByZero)
}
