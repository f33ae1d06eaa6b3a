package common

import (
	"errors"
	"fmt"
	"math"
)

var (
	// ErrInvalidParameter matches every *InvalidParameterError via errors.Is.
	ErrInvalidParameter = errors.New("invalid parameter")

	// ErrShape matches every *ShapeError via errors.Is.
	ErrShape = errors.New("shape mismatch")
)

// InvalidParameterError reports a non-positive size, rate or duration, or an empty signal.
type InvalidParameterError struct {
	Name   string
	Value  any
	Reason string
}

func (e *InvalidParameterError) Error() string {
	return fmt.Sprintf("invalid parameter %s=%v: %s", e.Name, e.Value, e.Reason)
}

func (e *InvalidParameterError) Is(target error) bool {
	return target == ErrInvalidParameter
}

// ShapeError reports mismatched lengths between two sequences that must agree.
type ShapeError struct {
	What     string
	Expected int
	Actual   int
}

func (e *ShapeError) Error() string {
	return fmt.Sprintf("%s: expected length %d, got %d", e.What, e.Expected, e.Actual)
}

func (e *ShapeError) Is(target error) bool {
	return target == ErrShape
}

// NewInvalidParameter builds an *InvalidParameterError.
func NewInvalidParameter(name string, value any, reason string) error {
	return &InvalidParameterError{Name: name, Value: value, Reason: reason}
}

// NewShapeError builds a *ShapeError.
func NewShapeError(what string, expected, actual int) error {
	return &ShapeError{What: what, Expected: expected, Actual: actual}
}

// RequirePositive fails with an *InvalidParameterError when value <= 0.
func RequirePositive[T int | float64](name string, value T) error {
	if value <= 0 || math.IsNaN(float64(value)) {
		return NewInvalidParameter(name, value, "must be positive")
	}
	return nil
}
