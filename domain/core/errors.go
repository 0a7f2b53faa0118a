package core

import (
	"errors"
	"fmt"
)

// Domain errors - centralized error definitions
var (
	// Ingestion errors
	ErrDecodeFailed = errors.New("file could not be decoded")
	ErrEmptyFile    = errors.New("file contains no rows")

	// Analysis policy gates. These halt processing for one file without
	// being treated as failures of the batch.
	ErrNoNumericData  = errors.New("no numeric columns in dataset")
	ErrEmptySelection = errors.New("no columns selected for analysis")

	// Lookup errors
	ErrColumnNotFound   = errors.New("column not found in dataset")
	ErrNotNumeric       = errors.New("column is not numeric")
	ErrTooFewColumns    = errors.New("correlation requires at least two numeric columns")
	ErrInsufficientData = errors.New("insufficient data for analysis")
)

// Error constructors with context
func NewDecodeError(filename string, cause error) error {
	return fmt.Errorf("%w: %s: %v", ErrDecodeFailed, filename, cause)
}

func NewColumnNotFoundError(column string) error {
	return fmt.Errorf("%w: %q", ErrColumnNotFound, column)
}

// Error checking helpers
func IsDecodeError(err error) bool {
	return errors.Is(err, ErrDecodeFailed)
}

func IsPolicyGate(err error) bool {
	return errors.Is(err, ErrNoNumericData) || errors.Is(err, ErrEmptySelection)
}
