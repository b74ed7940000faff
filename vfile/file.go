package vfile

import (
	"github.com/sirupsen/logrus"

	"github.com/robert-malhotra/go-vfile/container"
)

// File is an open virtual file.
type File struct {
	c    container.Container
	arr  container.ByteArray
	path string
	mode Mode
	log  logrus.FieldLogger

	pos    int64
	size   int64
	eof    bool
	status Status
	closed bool
}

// Path returns the path the file was opened with.
func (f *File) Path() string { return f.path }

// Mode returns the mode the handle is open in.
func (f *File) Mode() Mode { return f.mode }

// Tell returns the current position.
func (f *File) Tell() int64 { return f.pos }

// Size returns the current length of the file.
func (f *File) Size() int64 { return f.size }

func (f *File) checkOpen(op string) error {
	if f.closed {
		return newError(KindState, op, f.path, ErrClosed)
	}
	return nil
}

func (f *File) checkRead(op string) error {
	if err := f.checkOpen(op); err != nil {
		return err
	}
	if !f.mode.CanRead() {
		return f.fail(newError(KindState, op, f.path, ErrNotReadable))
	}
	return nil
}

func (f *File) checkWrite(op string) error {
	if err := f.checkOpen(op); err != nil {
		return err
	}
	if !f.mode.CanWrite() {
		return f.fail(newError(KindState, op, f.path, ErrNotWritable))
	}
	return nil
}
