// Package bolt implements a persistent container on a single bbolt database
// file.
//
// Every object is a bucket. The root group is the top-level bucket rootKey;
// a group's children are nested buckets named after them. Reserved keys
// start with a NUL byte, which path components may not contain, so they
// never collide with child names:
//
//	\x00type    "g" for groups, "b" for byte arrays
//	\x00meta    byte arrays only: extent, chunk size and filter list
//	\x00attrs   byte arrays only: nested bucket of string attributes
//	\x00chunks  byte arrays only: nested bucket of chunks keyed by
//	            big-endian chunk index; each value is a little-endian
//	            uint32 filter mask followed by the filtered chunk bytes
package bolt

import (
	"errors"
	"fmt"
	"sort"
	"sync/atomic"

	"github.com/sirupsen/logrus"
	bolt "go.etcd.io/bbolt"

	"github.com/robert-malhotra/go-vfile/container"
	"github.com/robert-malhotra/go-vfile/internal/filter"
)

var (
	rootKey   = []byte("\x00root")
	typeKey   = []byte("\x00type")
	metaKey   = []byte("\x00meta")
	attrsKey  = []byte("\x00attrs")
	chunksKey = []byte("\x00chunks")

	typeGroup = []byte("g")
	typeBytes = []byte("b")
)

// Container is a container.Container backed by bbolt.
type Container struct {
	db     *bolt.DB
	path   string
	opts   *options
	log    logrus.FieldLogger
	closed atomic.Bool
}

var _ container.Container = (*Container)(nil)

// Open opens or creates the database at path.
func Open(path string, opts ...Option) (*Container, error) {
	o := defaultOptions()
	for _, opt := range opts {
		if err := opt(o); err != nil {
			return nil, fmt.Errorf("bolt: %w", err)
		}
	}
	if _, err := filter.NewPipeline(o.pipeline()); err != nil {
		return nil, fmt.Errorf("bolt: %w", err)
	}

	db, err := bolt.Open(path, 0600, &bolt.Options{Timeout: o.timeout, ReadOnly: o.readOnly})
	if err != nil {
		return nil, fmt.Errorf("bolt: open %q: %w", path, err)
	}

	c := &Container{
		db:   db,
		path: path,
		opts: o,
		log:  o.log.WithField("container", path),
	}

	if o.readOnly {
		err = db.View(func(tx *bolt.Tx) error {
			if tx.Bucket(rootKey) == nil {
				return fmt.Errorf("bolt: %q has no root group: %w", path, container.ErrNotFound)
			}
			return nil
		})
	} else {
		err = db.Update(func(tx *bolt.Tx) error {
			if tx.Bucket(rootKey) != nil {
				return nil
			}
			root, err := tx.CreateBucket(rootKey)
			if err != nil {
				return err
			}
			return root.Put(typeKey, typeGroup)
		})
	}
	if err != nil {
		db.Close()
		return nil, err
	}

	c.log.WithField("readonly", o.readOnly).Debug("container opened")
	return c, nil
}

// Path returns the database file path.
func (c *Container) Path() string {
	return c.path
}

func (c *Container) Writable() bool {
	return !c.closed.Load() && !c.opts.readOnly
}

func (c *Container) view(fn func(tx *bolt.Tx) error) error {
	if c.closed.Load() {
		return container.ErrClosed
	}
	return c.db.View(fn)
}

func (c *Container) update(fn func(tx *bolt.Tx) error) error {
	if c.closed.Load() {
		return container.ErrClosed
	}
	if c.opts.readOnly {
		return container.ErrReadOnly
	}
	return c.db.Update(fn)
}

func objectType(b *bolt.Bucket) container.ObjectType {
	switch string(b.Get(typeKey)) {
	case string(typeGroup):
		return container.TypeGroup
	case string(typeBytes):
		return container.TypeBytes
	}
	return 0
}

// lookup walks from the root bucket to the bucket at path.
func lookup(tx *bolt.Tx, path string) (*bolt.Bucket, error) {
	if err := container.ValidatePath(path); err != nil {
		return nil, err
	}
	b := tx.Bucket(rootKey)
	if b == nil {
		return nil, fmt.Errorf("bolt: root group missing: %w", container.ErrNotFound)
	}
	for _, name := range container.SplitPath(path) {
		if objectType(b) != container.TypeGroup {
			return nil, fmt.Errorf("bolt: %q: %w", path, container.ErrNotGroup)
		}
		next := b.Bucket([]byte(name))
		if next == nil {
			return nil, fmt.Errorf("bolt: %q: %w", path, container.ErrNotFound)
		}
		b = next
	}
	return b, nil
}

// create adds an empty object bucket below the parent group of path.
func create(tx *bolt.Tx, path string, typ []byte) (*bolt.Bucket, error) {
	if err := container.ValidatePath(path); err != nil {
		return nil, err
	}
	if container.CleanPath(path) == container.Separator {
		return nil, fmt.Errorf("bolt: %q: %w", path, container.ErrExists)
	}
	parent, err := lookup(tx, container.Parent(path))
	if err != nil {
		return nil, err
	}
	if objectType(parent) != container.TypeGroup {
		return nil, fmt.Errorf("bolt: parent of %q: %w", path, container.ErrNotGroup)
	}
	b, err := parent.CreateBucket([]byte(container.Base(path)))
	if errors.Is(err, bolt.ErrBucketExists) {
		return nil, fmt.Errorf("bolt: %q: %w", path, container.ErrExists)
	}
	if err != nil {
		return nil, fmt.Errorf("bolt: create %q: %w", path, err)
	}
	if err := b.Put(typeKey, typ); err != nil {
		return nil, err
	}
	return b, nil
}

func (c *Container) Stat(path string) (container.ObjectType, error) {
	var typ container.ObjectType
	err := c.view(func(tx *bolt.Tx) error {
		b, err := lookup(tx, path)
		if err != nil {
			return err
		}
		typ = objectType(b)
		return nil
	})
	return typ, err
}

func (c *Container) CreateGroup(path string) error {
	return c.update(func(tx *bolt.Tx) error {
		_, err := create(tx, path, typeGroup)
		return err
	})
}

func (c *Container) CreateBytes(path string, chunkSize int) (container.ByteArray, error) {
	if chunkSize <= 0 {
		chunkSize = c.opts.chunkSize
	}
	m := meta{chunkSize: chunkSize, filters: c.opts.pipeline()}
	p, err := filter.NewPipeline(m.filters)
	if err != nil {
		return nil, fmt.Errorf("bolt: %w", err)
	}

	err = c.update(func(tx *bolt.Tx) error {
		b, err := create(tx, path, typeBytes)
		if err != nil {
			return err
		}
		if _, err := b.CreateBucket(attrsKey); err != nil {
			return err
		}
		if _, err := b.CreateBucket(chunksKey); err != nil {
			return err
		}
		return b.Put(metaKey, m.encode())
	})
	if err != nil {
		return nil, err
	}
	return &byteArray{c: c, path: container.CleanPath(path), chunkSize: chunkSize, pipeline: p}, nil
}

func (c *Container) OpenBytes(path string) (container.ByteArray, error) {
	var m meta
	err := c.view(func(tx *bolt.Tx) error {
		var err error
		_, m, err = lookupBytes(tx, path)
		return err
	})
	if err != nil {
		return nil, err
	}
	p, err := filter.NewPipeline(m.filters)
	if err != nil {
		return nil, fmt.Errorf("bolt: %q: %w", path, err)
	}
	return &byteArray{c: c, path: container.CleanPath(path), chunkSize: m.chunkSize, pipeline: p}, nil
}

func (c *Container) Delete(path string) error {
	if container.CleanPath(path) == container.Separator {
		return fmt.Errorf("bolt: cannot delete root: %w", container.ErrInvalidPath)
	}
	return c.update(func(tx *bolt.Tx) error {
		if _, err := lookup(tx, path); err != nil {
			return err
		}
		parent, err := lookup(tx, container.Parent(path))
		if err != nil {
			return err
		}
		return parent.DeleteBucket([]byte(container.Base(path)))
	})
}

func (c *Container) Members(path string) ([]string, error) {
	var names []string
	err := c.view(func(tx *bolt.Tx) error {
		b, err := lookup(tx, path)
		if err != nil {
			return err
		}
		if objectType(b) != container.TypeGroup {
			return fmt.Errorf("bolt: %q: %w", path, container.ErrNotGroup)
		}
		names = []string{}
		return b.ForEach(func(k, v []byte) error {
			if v == nil && len(k) > 0 && k[0] != 0 {
				names = append(names, string(k))
			}
			return nil
		})
	})
	sort.Strings(names)
	return names, err
}

// Flush forces an fdatasync of the database file.
func (c *Container) Flush() error {
	if c.closed.Load() {
		return container.ErrClosed
	}
	if c.opts.readOnly {
		return nil
	}
	if err := c.db.Sync(); err != nil {
		return fmt.Errorf("bolt: sync %q: %w", c.path, err)
	}
	return nil
}

func (c *Container) Close() error {
	if c.closed.Swap(true) {
		return nil
	}
	c.log.Debug("container closed")
	return c.db.Close()
}
