package container

import "errors"

// Common errors returned by every backend. Backends wrap them with context,
// so match with errors.Is.
var (
	ErrNotFound    = errors.New("object not found")
	ErrExists      = errors.New("object already exists")
	ErrNotGroup    = errors.New("object is not a group")
	ErrNotBytes    = errors.New("object is not a byte array")
	ErrReadOnly    = errors.New("container is read-only")
	ErrInvalidPath = errors.New("invalid path")
	ErrOutOfRange  = errors.New("window outside array extent")
	ErrClosed      = errors.New("container is closed")
)
