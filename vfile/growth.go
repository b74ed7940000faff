package vfile

import (
	"fmt"
	"math"
)

// Allocate makes sure the file covers [offset, offset+length), growing it to
// exactly offset+length if needed. It never shrinks the file and does
// nothing when length <= 0. Grown bytes have unspecified content.
func (f *File) Allocate(offset, length int64) error {
	const op = "allocate"
	if err := f.checkWrite(op); err != nil {
		return err
	}
	if err := f.allocate(op, offset, length); err != nil {
		return err
	}
	f.succeed()
	return nil
}

func (f *File) allocate(op string, offset, length int64) error {
	if length <= 0 {
		return nil
	}
	if offset < 0 {
		return f.fail(newError(KindValidation, op, f.path, fmt.Errorf("%w: %d", ErrNegativeOffset, offset)))
	}
	if offset > math.MaxInt64-length {
		return f.fail(newError(KindValidation, op, f.path,
			fmt.Errorf("%w: %d bytes at offset %d overflow", ErrInvalidSize, length, offset)))
	}
	end := offset + length
	if end <= f.size {
		return nil
	}
	if err := f.arr.Resize(end); err != nil {
		return f.fail(newError(KindStorage, op, f.path, err))
	}
	f.size = end
	return nil
}

// Truncate sets the length of the file to exactly n bytes, growing or
// shrinking it. The position is left alone.
func (f *File) Truncate(n int64) error {
	const op = "truncate"
	if err := f.checkWrite(op); err != nil {
		return err
	}
	if n < 0 {
		return f.fail(newError(KindValidation, op, f.path, fmt.Errorf("%w: %d", ErrInvalidSize, n)))
	}
	if err := f.arr.Resize(n); err != nil {
		return f.fail(newError(KindStorage, op, f.path, err))
	}
	f.size = n
	f.succeed()
	return nil
}
