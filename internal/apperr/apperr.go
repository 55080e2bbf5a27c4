// Package apperr holds the error taxonomy shared by the engines, the storage
// backends and the HTTP layer. Call sites wrap these with fmt.Errorf("...: %w")
// and callers match with errors.Is.
package apperr

import "errors"

var (
	// ErrNotFound is returned when a referenced account, holding or record is absent.
	ErrNotFound = errors.New("not found")
	// ErrInvalidArgument is returned for malformed input such as a negative amount.
	ErrInvalidArgument = errors.New("invalid argument")
	// ErrInvalidState is returned when an operation is valid in form but not in the
	// current state, e.g. selling a symbol with no open holding.
	ErrInvalidState = errors.New("invalid state")
	// ErrUnauthenticated is returned at the storage boundary when no session is active.
	ErrUnauthenticated = errors.New("unauthenticated")
)
