package vfile

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cast"

	"github.com/robert-malhotra/go-vfile/container"
)

// Attribute names and values.
const (
	AttrKind      = "kind"
	AttrWriteable = "writeable"
	AttrAccess    = "access"

	KindVirtualFile = "virtual-file"
)

func formatBool(b bool) string {
	if b {
		return "TRUE"
	}
	return "FALSE"
}

// state is the persisted bookkeeping of an existing virtual file.
type state struct {
	arr       container.ByteArray
	writeable bool
	access    Mode
}

// inspect opens the virtual file at path and decodes its attributes. It
// returns ErrNotFound when nothing lives at path and ErrNotVirtualFile when
// something else does.
func inspect(c container.Container, op, path string) (*state, error) {
	arr, err := c.OpenBytes(path)
	switch {
	case errors.Is(err, container.ErrNotFound):
		return nil, newError(KindValidation, op, path, ErrNotFound)
	case errors.Is(err, container.ErrNotBytes):
		return nil, newError(KindValidation, op, path, ErrNotVirtualFile)
	case err != nil:
		return nil, newError(KindStorage, op, path, err)
	}

	kind, ok, err := arr.Attr(AttrKind)
	if err != nil {
		return nil, newError(KindStorage, op, path, err)
	}
	if !ok || kind != KindVirtualFile {
		return nil, newError(KindValidation, op, path, ErrNotVirtualFile)
	}

	st := &state{arr: arr, writeable: true}

	if v, ok, err := arr.Attr(AttrWriteable); err != nil {
		return nil, newError(KindStorage, op, path, err)
	} else if ok {
		st.writeable, err = cast.ToBoolE(strings.TrimSpace(v))
		if err != nil {
			return nil, newError(KindStorage, op, path, fmt.Errorf("bad %s attribute %q: %w", AttrWriteable, v, err))
		}
	}

	if v, ok, err := arr.Attr(AttrAccess); err != nil {
		return nil, newError(KindStorage, op, path, err)
	} else if ok {
		code, err := cast.ToIntE(strings.TrimSpace(v))
		if err != nil || !Mode(code).Valid() {
			return nil, newError(KindStorage, op, path, fmt.Errorf("bad %s attribute %q", AttrAccess, v))
		}
		st.access = Mode(code)
	}
	return st, nil
}

// initialize tags a fresh byte array as a closed, writeable virtual file.
func initialize(arr container.ByteArray) error {
	for _, kv := range [][2]string{
		{AttrKind, KindVirtualFile},
		{AttrWriteable, formatBool(true)},
		{AttrAccess, cast.ToString(ModeClosed.Code())},
	} {
		if err := arr.SetAttr(kv[0], kv[1]); err != nil {
			return err
		}
	}
	return nil
}

func setAccess(arr container.ByteArray, m Mode) error {
	return arr.SetAttr(AttrAccess, cast.ToString(m.Code()))
}

// checkPath validates a virtual file path: absolute, not ending in the
// separator, and below existing groups.
func checkPath(c container.Container, op, path string) error {
	if path == container.Separator || strings.HasSuffix(path, container.Separator) {
		return newError(KindValidation, op, path, ErrInvalidPath)
	}
	if err := container.ValidatePath(path); err != nil {
		return newError(KindValidation, op, path, fmt.Errorf("%w: %v", ErrInvalidPath, err))
	}

	parts := container.SplitPath(path)
	ancestor := container.Separator
	for _, name := range parts[:len(parts)-1] {
		ancestor = container.JoinPath(ancestor, name)
		typ, err := c.Stat(ancestor)
		switch {
		case errors.Is(err, container.ErrNotFound):
			return newError(KindValidation, op, path, fmt.Errorf("%w: missing group %s", ErrNotFound, ancestor))
		case err != nil:
			return newError(KindStorage, op, path, err)
		case typ != container.TypeGroup:
			return newError(KindValidation, op, path, fmt.Errorf("%w: %s is not a group", ErrInvalidPath, ancestor))
		}
	}
	return nil
}
