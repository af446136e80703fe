package collection

import (
	"errors"
	"fmt"
)

var (
	// ErrBusy is returned when a mutation is attempted while another is in flight.
	ErrBusy = errors.New("another change is still being saved")
	// ErrSuperseded is returned by a load whose result was discarded because a
	// newer load started or the owner changed while it was in flight.
	ErrSuperseded = errors.New("load superseded by a newer request")
	// ErrSignedOut is returned for owner-scoped collections when no user is signed in.
	ErrSignedOut = errors.New("not signed in")
	// ErrReadOnly is returned when mutating a catalog collection.
	ErrReadOnly = errors.New("collection is read only")
)

// ValidationError reports a missing or malformed field detected before any
// store call was made.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	if e.Field == "" {
		return e.Reason
	}
	return fmt.Sprintf("%s: %s", e.Field, e.Reason)
}

// Invalid is shorthand for building a *ValidationError.
func Invalid(field, reason string) error {
	return &ValidationError{Field: field, Reason: reason}
}

// IsValidation reports whether err is (or wraps) a *ValidationError.
func IsValidation(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}
