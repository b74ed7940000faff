package vfile

import (
	"fmt"
	"io"
	"math"
)

// Seek sets the position to offset relative to whence, which is one of
// io.SeekStart, io.SeekCurrent or io.SeekEnd, and clears the end-of-file
// flag. Positions past the end are allowed; the file grows on the next
// write. A negative result fails and leaves the position unchanged.
func (f *File) Seek(offset int64, whence int) (int64, error) {
	const op = "seek"
	if err := f.checkOpen(op); err != nil {
		return f.pos, err
	}

	var base int64
	switch whence {
	case io.SeekStart:
	case io.SeekCurrent:
		base = f.pos
	case io.SeekEnd:
		base = f.size
	default:
		return f.pos, f.fail(newError(KindValidation, op, f.path, fmt.Errorf("%w: %d", ErrInvalidWhence, whence)))
	}

	if offset > 0 && base > math.MaxInt64-offset {
		return f.pos, f.fail(newError(KindValidation, op, f.path, fmt.Errorf("%w: %d + %d overflows", ErrInvalidSize, base, offset)))
	}
	next := base + offset
	if next < 0 {
		return f.pos, f.fail(newError(KindValidation, op, f.path, fmt.Errorf("%w: %d", ErrNegativeOffset, next)))
	}
	f.pos = next
	f.eof = false
	f.succeed()
	return f.pos, nil
}

// Rewind moves to the start of the file and clears the error state.
func (f *File) Rewind() error {
	if _, err := f.Seek(0, io.SeekStart); err != nil {
		return err
	}
	f.ClearError()
	return nil
}
