package vfile

import (
	"errors"
	"io"
)

var (
	_ io.ReadWriteSeeker = (*File)(nil)
	_ io.Closer          = (*File)(nil)
	_ io.ByteReader      = (*File)(nil)
	_ io.ByteWriter      = (*File)(nil)
	_ io.StringWriter    = (*File)(nil)
)

// Read implements io.Reader. A short read at the end of the file returns the
// bytes read with a nil error; the next call returns io.EOF.
func (f *File) Read(p []byte) (int, error) {
	if len(p) == 0 {
		return 0, f.checkRead("read")
	}
	n, err := f.ReadElements(p, 1, len(p))
	if n > 0 && errors.Is(err, io.EOF) {
		err = nil
	}
	return n, err
}

// Write implements io.Writer.
func (f *File) Write(p []byte) (int, error) {
	if len(p) == 0 {
		return 0, f.checkWrite("write")
	}
	return f.WriteElements(p, 1, len(p))
}

// ReadByte implements io.ByteReader.
func (f *File) ReadByte() (byte, error) { return f.GetChar() }

// WriteByte implements io.ByteWriter.
func (f *File) WriteByte(c byte) error { return f.PutChar(c) }

// WriteString implements io.StringWriter.
func (f *File) WriteString(s string) (int, error) {
	if err := f.Puts(s); err != nil {
		return 0, err
	}
	return len(s), nil
}
