package errors

import "errors"

var (
	// ErrNotFound is returned by repositories when no record exists under
	// the requested id.
	ErrNotFound = errors.New("booking not found")
)
