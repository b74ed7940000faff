package vfile

import (
	"errors"
	"fmt"
)

// Kind classifies an Error.
type Kind int

const (
	// KindValidation marks malformed arguments: mode strings, paths, seek
	// origins, negative sizes. Nothing was changed.
	KindValidation Kind = iota + 1
	// KindState marks an operation the handle or object does not allow in its
	// current state, such as writing through a read-only handle.
	KindState
	// KindLock marks an Open refused by the access or writeable attribute.
	KindLock
	// KindStorage marks a failure of the underlying container. Earlier steps
	// of the operation may already have taken effect.
	KindStorage
)

func (k Kind) String() string {
	switch k {
	case KindValidation:
		return "validation error"
	case KindState:
		return "state error"
	case KindLock:
		return "lock error"
	case KindStorage:
		return "storage error"
	default:
		return "unknown error"
	}
}

// Causes carried by Error. Match with errors.Is.
var (
	ErrInvalidMode       = errors.New("invalid mode string")
	ErrInvalidPath       = errors.New("invalid path")
	ErrNotFound          = errors.New("virtual file not found")
	ErrExists            = errors.New("virtual file already exists")
	ErrNotVirtualFile    = errors.New("object is not a virtual file")
	ErrLocked            = errors.New("virtual file is open")
	ErrNotWriteable      = errors.New("virtual file is not writeable")
	ErrReadOnlyContainer = errors.New("container is not writable")
	ErrNotReadable       = errors.New("handle not open for reading")
	ErrNotWritable       = errors.New("handle not open for writing")
	ErrClosed            = errors.New("handle is closed")
	ErrNegativeOffset    = errors.New("negative offset")
	ErrInvalidWhence     = errors.New("invalid seek origin")
	ErrInvalidSize       = errors.New("invalid size")
)

// Error describes a failed virtual file operation.
type Error struct {
	Kind Kind
	Op   string
	Path string
	Err  error
}

func (e *Error) Error() string {
	return fmt.Sprintf("vfile: %s %s: %s: %v", e.Op, e.Path, e.Kind, e.Err)
}

func (e *Error) Unwrap() error { return e.Err }

// KindOf returns the Kind of the first *Error in err's chain, or 0.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return 0
}

func newError(kind Kind, op, path string, err error) *Error {
	return &Error{Kind: kind, Op: op, Path: path, Err: err}
}
