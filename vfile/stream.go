package vfile

import (
	"bytes"
	"fmt"
	"io"
	"math"
)

// write is the common path of every write-class operation: append modes
// jump to the end, the file grows to cover the window, then p is written and
// the position advances past it.
func (f *File) write(op string, p []byte) error {
	if err := f.checkWrite(op); err != nil {
		return err
	}
	if f.mode.Appends() {
		f.pos = f.size
	}
	n := int64(len(p))
	if err := f.allocate(op, f.pos, n); err != nil {
		return err
	}
	if n > 0 {
		if _, err := f.arr.WriteAt(p, f.pos); err != nil {
			return f.fail(newError(KindStorage, op, f.path, err))
		}
	}
	f.pos += n
	f.eof = false
	f.succeed()
	return nil
}

// readAt fills p from the current position without moving it.
func (f *File) readAt(op string, p []byte) error {
	if len(p) == 0 {
		return nil
	}
	if _, err := f.arr.ReadAt(p, f.pos); err != nil {
		return f.fail(newError(KindStorage, op, f.path, err))
	}
	return nil
}

// GetChar reads one byte. At the end of the file it returns io.EOF and sets
// the end-of-file flag.
func (f *File) GetChar() (byte, error) {
	const op = "getc"
	if err := f.checkRead(op); err != nil {
		return 0, err
	}
	if f.pos >= f.size {
		f.atEOF()
		return 0, io.EOF
	}
	var b [1]byte
	if err := f.readAt(op, b[:]); err != nil {
		return 0, err
	}
	f.pos++
	f.eof = false
	f.succeed()
	return b[0], nil
}

// PutChar writes one byte.
func (f *File) PutChar(b byte) error {
	return f.write("putc", []byte{b})
}

// Gets reads a line of at most maxLen-1 bytes. It stops after a newline,
// which is kept, after maxLen-1 bytes, or at the end of the file.
//
// If the end of the file is reached before a newline, Gets returns the bytes
// read so far together with io.EOF and sets the end-of-file flag. An empty
// string with io.EOF means nothing was left to read. A maxLen of 1 or less
// reads nothing and returns "".
func (f *File) Gets(maxLen int) (string, error) {
	const op = "gets"
	if err := f.checkRead(op); err != nil {
		return "", err
	}
	if maxLen <= 1 {
		f.eof = false
		f.succeed()
		return "", nil
	}
	if f.pos >= f.size {
		f.atEOF()
		return "", io.EOF
	}

	limit := int64(maxLen - 1)
	remain := f.size - f.pos
	want := min(limit, remain)

	buf := make([]byte, want)
	if err := f.readAt(op, buf); err != nil {
		return "", err
	}
	if i := bytes.IndexByte(buf, '\n'); i >= 0 {
		buf = buf[:i+1]
		f.pos += int64(len(buf))
		f.eof = false
		f.succeed()
		return string(buf), nil
	}

	f.pos += want
	if remain < limit {
		f.atEOF()
		return string(buf), io.EOF
	}
	f.eof = false
	f.succeed()
	return string(buf), nil
}

// Puts writes the bytes of s. No terminator is added.
func (f *File) Puts(s string) error {
	return f.write("puts", []byte(s))
}

func elementBytes(size, count int) (int64, error) {
	if size <= 0 || count < 0 {
		return 0, fmt.Errorf("%w: %d elements of %d bytes", ErrInvalidSize, count, size)
	}
	if count > 0 && int64(size) > math.MaxInt64/int64(count) {
		return 0, fmt.Errorf("%w: %d elements of %d bytes overflows", ErrInvalidSize, count, size)
	}
	return int64(size) * int64(count), nil
}

// ReadElements reads up to count elements of size bytes each into p and
// returns the number of whole elements read.
//
// When fewer than count whole elements remain, it reads as many as there
// are, sets the end-of-file flag and returns io.EOF with the short count.
// Starting at or past the end returns 0 and io.EOF, whatever the count.
func (f *File) ReadElements(p []byte, size, count int) (int, error) {
	const op = "read"
	if err := f.checkRead(op); err != nil {
		return 0, err
	}
	total, err := elementBytes(size, count)
	if err != nil {
		return 0, f.fail(newError(KindValidation, op, f.path, err))
	}
	if int64(len(p)) < total {
		return 0, f.fail(newError(KindValidation, op, f.path,
			fmt.Errorf("%w: buffer of %d bytes for %d", ErrInvalidSize, len(p), total)))
	}

	if f.pos >= f.size {
		f.atEOF()
		return 0, io.EOF
	}

	n := count
	short := total > f.size-f.pos
	if short {
		n = int((f.size - f.pos) / int64(size))
	}

	want := int64(n) * int64(size)
	if err := f.readAt(op, p[:want]); err != nil {
		return 0, err
	}
	f.pos += want

	if short {
		f.atEOF()
		return n, io.EOF
	}
	f.eof = false
	f.succeed()
	return n, nil
}

// WriteElements writes count elements of size bytes each from p and returns
// count. On failure it returns 0; the file may already have grown.
func (f *File) WriteElements(p []byte, size, count int) (int, error) {
	const op = "write"
	if err := f.checkWrite(op); err != nil {
		return 0, err
	}
	total, err := elementBytes(size, count)
	if err != nil {
		return 0, f.fail(newError(KindValidation, op, f.path, err))
	}
	if int64(len(p)) < total {
		return 0, f.fail(newError(KindValidation, op, f.path,
			fmt.Errorf("%w: buffer of %d bytes for %d", ErrInvalidSize, len(p), total)))
	}
	if err := f.write(op, p[:total]); err != nil {
		return 0, err
	}
	return count, nil
}
