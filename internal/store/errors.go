package store

import (
	"errors"
	"fmt"
)

var (
	// ErrNotFound matches any NotFoundError.
	ErrNotFound = errors.New("record not found")
	// ErrUnknownCollection is returned for collections a backend has no schema for.
	ErrUnknownCollection = errors.New("unknown collection")
	// ErrUnknownColumn is returned when a query or write names a column outside the schema.
	ErrUnknownColumn = errors.New("unknown column")
)

// NotFoundError reports that a mutation target does not exist.
type NotFoundError struct {
	Collection string
	ID         string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s %q not found", e.Collection, e.ID)
}

// Is lets errors.Is(err, ErrNotFound) match.
func (e *NotFoundError) Is(target error) bool {
	return target == ErrNotFound
}

// StoreError wraps a network, auth or server-side failure from a backend.
type StoreError struct {
	Op         string
	Collection string
	Status     int // HTTP status when the backend speaks HTTP; zero otherwise
	Err        error
}

func (e *StoreError) Error() string {
	if e.Status > 0 {
		return fmt.Sprintf("%s %s: status %d: %v", e.Op, e.Collection, e.Status, e.Err)
	}
	return fmt.Sprintf("%s %s: %v", e.Op, e.Collection, e.Err)
}

func (e *StoreError) Unwrap() error { return e.Err }

// Wrap returns err as a StoreError unless it already is one or is a NotFoundError.
func Wrap(op, collection string, err error) error {
	if err == nil {
		return nil
	}
	var se *StoreError
	if errors.As(err, &se) {
		return err
	}
	if errors.Is(err, ErrNotFound) {
		return err
	}
	return &StoreError{Op: op, Collection: collection, Err: err}
}
