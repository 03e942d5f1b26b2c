package domain

import "errors"

var (
	// ErrInsufficientHistory is returned by call sites that need a non-empty
	// forecast when the history is shorter than the strategy's minimum window.
	ErrInsufficientHistory = errors.New("insufficient history")
	// ErrInvalidParameter covers non-positive horizons and window sizes.
	ErrInvalidParameter = errors.New("invalid parameter")
	// ErrEmptyInput is returned when statistics are requested over too few records.
	ErrEmptyInput = errors.New("empty input")
	// ErrPeriodOverlap means a combined series would not be strictly increasing.
	ErrPeriodOverlap = errors.New("period overlap")
)

var ErrDatasetNotFound = errors.New("dataset not found")
