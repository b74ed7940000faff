// Package container defines the storage contract the virtual-file layer is
// built on: a hierarchy of groups holding resizable one-dimensional byte
// arrays, each carrying string attributes.
//
// Backends live in sub-packages: [memory] keeps everything in process,
// [bolt] persists to a single bbolt database file, and [billyfs] maps the
// hierarchy onto a go-billy filesystem.
//
// Paths are absolute and slash separated ("/", "/grp", "/grp/data").
//
// [memory]: github.com/robert-malhotra/go-vfile/container/memory
// [bolt]: github.com/robert-malhotra/go-vfile/container/bolt
// [billyfs]: github.com/robert-malhotra/go-vfile/container/billyfs
package container

import (
	"errors"
	"io"
)

// ObjectType identifies what lives at a path.
type ObjectType int

const (
	TypeGroup ObjectType = iota + 1
	TypeBytes
)

func (t ObjectType) String() string {
	switch t {
	case TypeGroup:
		return "group"
	case TypeBytes:
		return "bytes"
	default:
		return "unknown"
	}
}

// Container is a hierarchical store of groups and byte arrays.
//
// Implementations must be safe for concurrent use by multiple goroutines.
// Mutating calls on a container that is not writable fail with ErrReadOnly.
type Container interface {
	io.Closer

	// Writable reports whether the container accepts mutations.
	Writable() bool

	// Stat reports the type of the object at path, or ErrNotFound.
	Stat(path string) (ObjectType, error)

	// CreateGroup creates an empty group. The parent must be an existing
	// group and path must not exist.
	CreateGroup(path string) error

	// CreateBytes creates a zero-length byte array. chunkSize is a hint for
	// chunked backends; values <= 0 select the backend default.
	CreateBytes(path string, chunkSize int) (ByteArray, error)

	// OpenBytes opens an existing byte array.
	OpenBytes(path string) (ByteArray, error)

	// Delete removes the object at path together with everything below it.
	Delete(path string) error

	// Members lists the names of a group's children in lexical order.
	Members(path string) ([]string, error)

	// Flush asks the backend to make completed writes durable.
	Flush() error
}

// ByteArray is a resizable one-dimensional array of raw bytes with string
// attributes attached.
//
// ReadAt and WriteAt are windowed: the whole window [off, off+len(p)) must
// lie inside the current extent, otherwise they fail with ErrOutOfRange and
// transfer nothing. Growth goes through Resize only. Bytes introduced by
// growth have unspecified content.
type ByteArray interface {
	// Path returns the absolute path of the array.
	Path() string

	// Extent returns the current length in bytes.
	Extent() (int64, error)

	// Resize sets the length to exactly n bytes.
	Resize(n int64) error

	ReadAt(p []byte, off int64) (int, error)
	WriteAt(p []byte, off int64) (int, error)

	// Attr returns the value of an attribute. ok is false when it is unset.
	Attr(name string) (value string, ok bool, err error)

	// SetAttr creates or replaces an attribute.
	SetAttr(name, value string) error

	// Attrs lists attribute names in lexical order.
	Attrs() ([]string, error)
}

// Exists reports whether any object lives at path.
func Exists(c Container, path string) (bool, error) {
	_, err := c.Stat(path)
	if errors.Is(err, ErrNotFound) {
		return false, nil
	}
	return err == nil, err
}

// CheckWindow validates a read/write window against an extent.
func CheckWindow(off int64, n int, extent int64) error {
	if off < 0 || n < 0 || off > extent-int64(n) {
		return ErrOutOfRange
	}
	return nil
}
