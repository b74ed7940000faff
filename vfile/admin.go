package vfile

import (
	"errors"

	"github.com/robert-malhotra/go-vfile/container"
)

// Info describes a virtual file as recorded in the container.
type Info struct {
	Path      string
	Size      int64
	Writeable bool
	// Access is the persisted access code; Mode is its decoded form.
	// Both are zero when no handle holds the file.
	Access int
	Mode   Mode
}

// IsOpen reports whether the access attribute marks the file as open.
func (i Info) IsOpen() bool { return i.Mode != ModeClosed }

// Stat describes the virtual file at path without opening it.
func Stat(c container.Container, path string) (Info, error) {
	const op = "stat"
	if err := checkPath(c, op, path); err != nil {
		return Info{}, err
	}
	st, err := inspect(c, op, path)
	if err != nil {
		return Info{}, err
	}
	return describe(path, st)
}

func describe(path string, st *state) (Info, error) {
	size, err := st.arr.Extent()
	if err != nil {
		return Info{}, newError(KindStorage, "stat", path, err)
	}
	return Info{
		Path:      path,
		Size:      size,
		Writeable: st.writeable,
		Access:    st.access.Code(),
		Mode:      st.access,
	}, nil
}

// adminTarget resolves a closed virtual file for an administrative change.
func adminTarget(c container.Container, op, path string) (*state, error) {
	if !c.Writable() {
		return nil, newError(KindState, op, path, ErrReadOnlyContainer)
	}
	if err := checkPath(c, op, path); err != nil {
		return nil, err
	}
	return inspect(c, op, path)
}

// SetWriteable changes the writeable attribute of a closed virtual file.
func SetWriteable(c container.Container, path string, writeable bool, opts ...Option) error {
	const op = "set writeable"
	o := applyOptions(opts)

	st, err := adminTarget(c, op, path)
	if err != nil {
		return err
	}
	if st.access != ModeClosed {
		return newError(KindLock, op, path, ErrLocked)
	}
	if err := st.arr.SetAttr(AttrWriteable, formatBool(writeable)); err != nil {
		return newError(KindStorage, op, path, err)
	}
	o.log.WithField("path", path).WithField("writeable", writeable).Info("writeability changed")
	return nil
}

// ForceUnlock resets the access attribute of a virtual file to closed.
//
// It exists to repair locks left behind by handles that were never closed.
// Calling it while a live handle holds the file breaks the single opener
// guarantee for that handle.
func ForceUnlock(c container.Container, path string, opts ...Option) error {
	const op = "force unlock"
	o := applyOptions(opts)

	st, err := adminTarget(c, op, path)
	if err != nil {
		return err
	}
	if st.access == ModeClosed {
		return nil
	}
	if err := setAccess(st.arr, ModeClosed); err != nil {
		return newError(KindStorage, op, path, err)
	}
	o.log.WithField("path", path).WithField("mode", st.access.String()).Warn("stale lock cleared")
	return nil
}

// Remove deletes a closed, writeable virtual file.
func Remove(c container.Container, path string, opts ...Option) error {
	const op = "remove"
	o := applyOptions(opts)

	st, err := adminTarget(c, op, path)
	if err != nil {
		return err
	}
	if st.access != ModeClosed {
		return newError(KindLock, op, path, ErrLocked)
	}
	if !st.writeable {
		return newError(KindLock, op, path, ErrNotWriteable)
	}
	if err := c.Delete(path); err != nil {
		return newError(KindStorage, op, path, err)
	}
	o.log.WithField("path", path).Debug("virtual file removed")
	return nil
}

// WalkFunc is called for every virtual file found by Walk. Returning
// container.ErrStopWalk ends the walk without an error.
type WalkFunc func(info Info) error

// Walk calls fn for every virtual file at or below root, in lexical path
// order. Byte arrays that are not virtual files and groups are skipped.
func Walk(c container.Container, root string, fn WalkFunc) error {
	return container.Walk(c, root, func(path string, typ container.ObjectType, err error) error {
		if err != nil {
			return newError(KindStorage, "walk", path, err)
		}
		if typ != container.TypeBytes {
			return nil
		}
		st, err := inspect(c, "walk", path)
		if errors.Is(err, ErrNotVirtualFile) {
			return nil
		}
		if err != nil {
			return err
		}
		info, err := describe(path, st)
		if err != nil {
			return err
		}
		return fn(info)
	})
}
