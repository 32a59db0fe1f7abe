package services

import "errors"

var (
	// ErrNotFound is returned when the requested row does not exist or is not
	// visible to the caller.
	ErrNotFound = errors.New("not found")

	// ErrForbidden is returned when a batch touches rows the caller does not own.
	ErrForbidden = errors.New("forbidden")
)
