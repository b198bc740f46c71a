package nodes

import (
	"errors"
	"fmt"
)

var (
	// ErrOperation is the generic failure every node returns; the wrapped
	// message says what actually went wrong.
	ErrOperation = errors.New("operation failed")
	// ErrInvalidInput marks caller mistakes (missing bucket or key, no
	// images). It always travels wrapped inside ErrOperation.
	ErrInvalidInput = errors.New("invalid input")
)

// inputErrorf builds a validation failure.
func inputErrorf(format string, args ...any) error {
	return fmt.Errorf("%w: %w: %s", ErrOperation, ErrInvalidInput, fmt.Sprintf(format, args...))
}

// opError wraps an underlying failure, keeping its error chain intact so
// callers can still match config sentinels.
func opError(err error) error {
	return fmt.Errorf("%w: %w", ErrOperation, err)
}

// opErrorf builds a failure with context around an underlying error.
func opErrorf(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrOperation, fmt.Sprintf(format, args...))
}
