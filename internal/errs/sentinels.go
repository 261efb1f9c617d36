// Package errs contains sentinel errors used across layers for stable error mapping.
package errs

import (
	"errors"
	"fmt"
)

// Common sentinels across repo/service layers.
var (
	// ErrNotFound indicates the requested entity does not exist.
	ErrNotFound = errors.New("not found")

	// ErrValidation indicates a malformed or incomplete request
	// (missing note, reversed date range, unsupported target status).
	ErrValidation = errors.New("validation")

	// ErrConflict indicates the request conflicts with current asset state
	// (already assigned, already reserved, already disposed, stale version).
	ErrConflict = errors.New("conflict")
)

// NotFoundf wraps ErrNotFound with a reason identifying the missing entity.
func NotFoundf(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrNotFound, fmt.Sprintf(format, args...))
}

// Validationf wraps ErrValidation with a reason naming the failed precondition.
func Validationf(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrValidation, fmt.Sprintf(format, args...))
}

// Conflictf wraps ErrConflict with a reason naming the conflicting state.
func Conflictf(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrConflict, fmt.Sprintf(format, args...))
}
