package vfile

import (
	"errors"

	"github.com/robert-malhotra/go-vfile/container"
)

// Open opens the virtual file at path in the given mode.
//
// The container must be writable for every mode, because opening records the
// access code on the file. Path must be absolute, must not end in "/", and
// every group above it must exist.
//
// Read modes require an existing virtual file. "w" modes replace an existing
// one with an empty file, and "wx" modes refuse to. "a" modes keep the
// existing content and start at its end. A file that is already open fails
// with a KindLock error, as does replacing or appending to a file whose
// writeable attribute is FALSE.
//
// A KindStorage error leaves no new object behind. When it hits a "w" open
// after the old file was deleted, the old content is lost.
func Open(c container.Container, path, mode string, opts ...Option) (*File, error) {
	const op = "open"
	o := applyOptions(opts)

	m, err := ParseMode(mode)
	if err != nil {
		return nil, newError(KindValidation, op, path, err)
	}
	if !c.Writable() {
		return nil, newError(KindState, op, path, ErrReadOnlyContainer)
	}
	if err := checkPath(c, op, path); err != nil {
		return nil, err
	}

	st, err := inspect(c, op, path)
	exists := err == nil
	if err != nil && !errors.Is(err, ErrNotFound) {
		return nil, err
	}

	if exists {
		if st.access != ModeClosed {
			return nil, newError(KindLock, op, path, ErrLocked)
		}
		if m.CanWrite() && !st.writeable {
			return nil, newError(KindLock, op, path, ErrNotWriteable)
		}
	}

	var (
		arr     container.ByteArray
		created bool
	)
	switch {
	case m == ModeRead || m == ModeReadUpdate:
		if !exists {
			return nil, newError(KindValidation, op, path, ErrNotFound)
		}
		arr = st.arr

	case m.Exclusive():
		if exists {
			return nil, newError(KindValidation, op, path, ErrExists)
		}
		if arr, err = create(c, path, o); err != nil {
			return nil, newError(KindStorage, op, path, err)
		}
		created = true

	case m == ModeWrite || m == ModeWriteUpdate:
		if exists {
			if err := c.Delete(path); err != nil {
				return nil, newError(KindStorage, op, path, err)
			}
		}
		if arr, err = create(c, path, o); err != nil {
			return nil, newError(KindStorage, op, path, err)
		}
		created = true

	case m.Appends():
		if exists {
			arr = st.arr
		} else if arr, err = create(c, path, o); err != nil {
			return nil, newError(KindStorage, op, path, err)
		} else {
			created = true
		}
	}

	// A failure from here on removes an object this call created. The
	// content a "w" open replaced is gone either way.
	abort := func(err error) (*File, error) {
		if created {
			if derr := c.Delete(path); derr != nil {
				err = errors.Join(err, derr)
			}
		}
		return nil, newError(KindStorage, op, path, err)
	}

	size, err := arr.Extent()
	if err != nil {
		return abort(err)
	}

	m = m.collapse()
	f := &File{
		c:    c,
		arr:  arr,
		path: path,
		mode: m,
		size: size,
		log:  o.log.WithField("path", path),
	}
	if m.Appends() {
		f.pos = size
	}

	if err := setAccess(arr, m); err != nil {
		return abort(err)
	}
	f.log.WithField("mode", m.String()).WithField("size", size).Debug("virtual file opened")
	return f, nil
}

func create(c container.Container, path string, o *options) (container.ByteArray, error) {
	arr, err := c.CreateBytes(path, o.chunkSize)
	if err != nil {
		return nil, err
	}
	if err := initialize(arr); err != nil {
		if derr := c.Delete(path); derr != nil {
			err = errors.Join(err, derr)
		}
		return nil, err
	}
	return arr, nil
}

// Close flushes the container, releases the access lock and invalidates the
// handle. The handle is unusable afterwards even when Close fails. Closing a
// closed handle is a no-op.
func (f *File) Close() error {
	const op = "close"
	if f.closed {
		return nil
	}
	f.closed = true

	var errs []error
	if err := f.c.Flush(); err != nil {
		errs = append(errs, err)
	}
	if err := setAccess(f.arr, ModeClosed); err != nil {
		errs = append(errs, err)
	}
	if len(errs) > 0 {
		err := newError(KindStorage, op, f.path, errors.Join(errs...))
		f.log.WithError(err).Warn("virtual file closed uncleanly")
		return f.fail(err)
	}
	f.succeed()
	f.log.Debug("virtual file closed")
	return nil
}

// Flush asks the container to make completed writes durable.
func (f *File) Flush() error {
	const op = "flush"
	if err := f.checkOpen(op); err != nil {
		return err
	}
	if err := f.c.Flush(); err != nil {
		return f.fail(newError(KindStorage, op, f.path, err))
	}
	f.succeed()
	return nil
}
