package services

import "errors"

// Error kinds surfaced by the priority engine. Callers match with errors.Is.
var (
	// ErrCaseNotFound is returned when a case id does not exist in the store
	ErrCaseNotFound = errors.New("case not found")

	// ErrInvalidCaseData is returned for malformed case fields (out-of-range
	// priority level, unparsable deadline). Invalid cases are excluded from
	// scored results rather than silently defaulted.
	ErrInvalidCaseData = errors.New("invalid case data")

	// ErrTimeout is returned when a query exceeds the caller's deadline.
	// No partial result is returned alongside it.
	ErrTimeout = errors.New("query timed out")

	// ErrVersionConflict is returned when a concurrent update won the
	// compare-and-swap on a case's version column
	ErrVersionConflict = errors.New("case was modified concurrently")
)
