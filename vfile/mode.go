package vfile

import (
	"fmt"
)

// Mode is the mode a virtual file is opened in. Its numeric value is the
// access code stored in the access attribute.
type Mode int

const (
	// ModeClosed is only ever stored in the access attribute; no live handle
	// has it.
	ModeClosed Mode = iota
	ModeRead
	ModeWrite
	ModeAppend
	ModeReadUpdate
	ModeWriteUpdate
	ModeAppendUpdate
	// ModeWriteExclusive and ModeWriteExclusiveUpdate are produced by
	// ParseMode only. Open turns them into ModeWrite and ModeWriteUpdate
	// once it has checked that the file does not exist.
	ModeWriteExclusive
	ModeWriteExclusiveUpdate
)

var modeNames = [...]string{
	ModeClosed:               "closed",
	ModeRead:                 "r",
	ModeWrite:                "w",
	ModeAppend:               "a",
	ModeReadUpdate:           "r+",
	ModeWriteUpdate:          "w+",
	ModeAppendUpdate:         "a+",
	ModeWriteExclusive:       "wx",
	ModeWriteExclusiveUpdate: "w+x",
}

func (m Mode) String() string {
	if m < 0 || int(m) >= len(modeNames) {
		return fmt.Sprintf("Mode(%d)", int(m))
	}
	return modeNames[m]
}

// Code returns the access code persisted for m.
func (m Mode) Code() int { return int(m) }

// Valid reports whether m is one of the defined modes.
func (m Mode) Valid() bool {
	return m >= ModeClosed && m <= ModeWriteExclusiveUpdate
}

// CanRead reports whether a handle in mode m may read.
func (m Mode) CanRead() bool {
	switch m {
	case ModeRead, ModeReadUpdate, ModeWriteUpdate, ModeAppendUpdate, ModeWriteExclusiveUpdate:
		return true
	}
	return false
}

// CanWrite reports whether a handle in mode m may write.
func (m Mode) CanWrite() bool {
	switch m {
	case ModeWrite, ModeAppend, ModeReadUpdate, ModeWriteUpdate, ModeAppendUpdate,
		ModeWriteExclusive, ModeWriteExclusiveUpdate:
		return true
	}
	return false
}

// Appends reports whether every write in mode m goes to the end of the file.
func (m Mode) Appends() bool {
	return m == ModeAppend || m == ModeAppendUpdate
}

// Exclusive reports whether m requires the file not to exist.
func (m Mode) Exclusive() bool {
	return m == ModeWriteExclusive || m == ModeWriteExclusiveUpdate
}

// collapse maps the exclusive modes onto the mode a handle carries.
func (m Mode) collapse() Mode {
	switch m {
	case ModeWriteExclusive:
		return ModeWrite
	case ModeWriteExclusiveUpdate:
		return ModeWriteUpdate
	}
	return m
}

// ParseMode resolves a stream open mode string.
//
// The string starts with one of 'r', 'w' or 'a', followed by at most one
// '+' and, after 'w' only, at most one 'x', in either order. 'b' and spaces
// are ignored anywhere.
func ParseMode(s string) (Mode, error) {
	var (
		primary byte
		plus    bool
		excl    bool
	)
	for i := 0; i < len(s); i++ {
		ch := s[i]
		switch ch {
		case 'b', ' ':
			continue
		case 'r', 'w', 'a':
			if primary != 0 {
				return 0, fmt.Errorf("%w: %q has more than one of r, w, a", ErrInvalidMode, s)
			}
			if plus || excl {
				return 0, fmt.Errorf("%w: %q must start with r, w or a", ErrInvalidMode, s)
			}
			primary = ch
		case '+':
			if primary == 0 || plus {
				return 0, fmt.Errorf("%w: misplaced '+' in %q", ErrInvalidMode, s)
			}
			plus = true
		case 'x':
			if primary != 'w' || excl {
				return 0, fmt.Errorf("%w: misplaced 'x' in %q", ErrInvalidMode, s)
			}
			excl = true
		default:
			return 0, fmt.Errorf("%w: unexpected %q in %q", ErrInvalidMode, ch, s)
		}
	}

	switch {
	case primary == 'r' && !plus:
		return ModeRead, nil
	case primary == 'r':
		return ModeReadUpdate, nil
	case primary == 'w' && excl && plus:
		return ModeWriteExclusiveUpdate, nil
	case primary == 'w' && excl:
		return ModeWriteExclusive, nil
	case primary == 'w' && plus:
		return ModeWriteUpdate, nil
	case primary == 'w':
		return ModeWrite, nil
	case primary == 'a' && plus:
		return ModeAppendUpdate, nil
	case primary == 'a':
		return ModeAppend, nil
	}
	return 0, fmt.Errorf("%w: %q", ErrInvalidMode, s)
}
