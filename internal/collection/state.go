package collection

import "time"

// State is a view's mirror of the last successful load.
type State[T any] struct {
	Items               []T
	Loading             bool
	Loaded              bool // at least one load has succeeded for the current owner
	LastError           error
	LastUpdated         time.Time
	ConsecutiveFailures int // failed loads since the last success
}

// IsOffline returns true when the store has been unreachable for multiple loads.
func (s State[T]) IsOffline() bool {
	return s.ConsecutiveFailures >= 2
}

func (s State[T]) clone() State[T] {
	dup := s
	dup.Items = cloneItems(s.Items)
	return dup
}

func cloneItems[T any](items []T) []T {
	if len(items) == 0 {
		return nil
	}
	dup := make([]T, len(items))
	copy(dup, items)
	return dup
}
