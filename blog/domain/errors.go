package domain

import (
	"errors"
	"fmt"
)

var (
	// ErrNotFound reports that the referenced post id does not resolve in
	// the store.
	ErrNotFound = errors.New("post not found")

	// ErrUnauthorized reports that the authorization gate denied the
	// request. It is always returned before any store mutation occurs.
	ErrUnauthorized = errors.New("unauthorized")

	// ErrConflict reports that a conditional write lost to a concurrent
	// writer: the version identifier resolved before the write no longer
	// matched when the write was submitted.
	ErrConflict = errors.New("version conflict")
)

// ValidationError reports a missing or empty required field.
type ValidationError struct {
	Field string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s is required", e.Field)
}

// BackendError wraps a failure of the underlying filesystem or remote API
// call. The repository surfaces it without retrying; retry policy belongs to
// the caller.
type BackendError struct {
	Op  string
	Err error
}

func (e *BackendError) Error() string {
	return fmt.Sprintf("store: %s: %v", e.Op, e.Err)
}

func (e *BackendError) Unwrap() error {
	return e.Err
}
