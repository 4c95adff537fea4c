// pattern: Functional Core

package project

import "errors"

var (
	// ErrNotFound is returned when an identity or path does not exist.
	ErrNotFound = errors.New("not found")
	// ErrAlreadyExists is returned when adding a path that is already registered.
	ErrAlreadyExists = errors.New("already exists")
	// ErrNotADirectory is returned when a path exists but is not a directory.
	ErrNotADirectory = errors.New("not a directory")
	// ErrUnsupported is returned for operations the active mode cannot perform.
	ErrUnsupported = errors.New("not supported in this mode")
)
