// Package memory implements an in-process container whose byte arrays are
// stored as sparse chunk maps.
package memory

import (
	"fmt"
	"sort"
	"sync"

	"github.com/robert-malhotra/go-vfile/container"
	"github.com/robert-malhotra/go-vfile/internal/chunk"
)

// Option configures a Container.
type Option func(*Container)

// WithReadOnly creates the container in read-only mode.
func WithReadOnly() Option {
	return func(c *Container) {
		c.readOnly = true
	}
}

// WithChunkSize sets the default chunk size for new byte arrays.
func WithChunkSize(n int) Option {
	return func(c *Container) {
		if n > 0 {
			c.chunkSize = n
		}
	}
}

// Container is an in-memory container.Container.
type Container struct {
	mu        sync.RWMutex
	root      *node
	readOnly  bool
	closed    bool
	chunkSize int
}

type node struct {
	typ      container.ObjectType
	children map[string]*node

	// byte array state
	extent    int64
	chunkSize int
	chunks    map[uint64][]byte
	attrs     map[string]string
	removed   bool
}

var _ container.Container = (*Container)(nil)

// New creates an empty container holding only the root group.
func New(opts ...Option) *Container {
	c := &Container{
		root:      newGroup(),
		chunkSize: chunk.DefaultSize,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

func newGroup() *node {
	return &node{typ: container.TypeGroup, children: make(map[string]*node)}
}

// SetReadOnly switches the container between read-only and writable.
func (c *Container) SetReadOnly(readOnly bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.readOnly = readOnly
}

func (c *Container) Writable() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return !c.readOnly && !c.closed
}

// lookup walks to the node at path. Callers hold c.mu.
func (c *Container) lookup(path string) (*node, error) {
	if c.closed {
		return nil, container.ErrClosed
	}
	if err := container.ValidatePath(path); err != nil {
		return nil, err
	}
	n := c.root
	for _, name := range container.SplitPath(path) {
		if n.typ != container.TypeGroup {
			return nil, fmt.Errorf("memory: %q: %w", path, container.ErrNotGroup)
		}
		next, ok := n.children[name]
		if !ok {
			return nil, fmt.Errorf("memory: %q: %w", path, container.ErrNotFound)
		}
		n = next
	}
	return n, nil
}

// parentFor returns the group that will hold a new object at path.
func (c *Container) parentFor(path string) (*node, string, error) {
	if c.closed {
		return nil, "", container.ErrClosed
	}
	if c.readOnly {
		return nil, "", container.ErrReadOnly
	}
	if err := container.ValidatePath(path); err != nil {
		return nil, "", err
	}
	if path == container.Separator {
		return nil, "", fmt.Errorf("memory: %q: %w", path, container.ErrExists)
	}
	parent, err := c.lookup(container.Parent(path))
	if err != nil {
		return nil, "", err
	}
	if parent.typ != container.TypeGroup {
		return nil, "", fmt.Errorf("memory: parent of %q: %w", path, container.ErrNotGroup)
	}
	name := container.Base(path)
	if _, ok := parent.children[name]; ok {
		return nil, "", fmt.Errorf("memory: %q: %w", path, container.ErrExists)
	}
	return parent, name, nil
}

func (c *Container) Stat(path string) (container.ObjectType, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	n, err := c.lookup(path)
	if err != nil {
		return 0, err
	}
	return n.typ, nil
}

func (c *Container) CreateGroup(path string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	parent, name, err := c.parentFor(path)
	if err != nil {
		return err
	}
	parent.children[name] = newGroup()
	return nil
}

func (c *Container) CreateBytes(path string, chunkSize int) (container.ByteArray, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	parent, name, err := c.parentFor(path)
	if err != nil {
		return nil, err
	}
	if chunkSize <= 0 {
		chunkSize = c.chunkSize
	}
	n := &node{
		typ:       container.TypeBytes,
		chunkSize: chunkSize,
		chunks:    make(map[uint64][]byte),
		attrs:     make(map[string]string),
	}
	parent.children[name] = n
	return &byteArray{c: c, n: n, path: container.CleanPath(path)}, nil
}

func (c *Container) OpenBytes(path string) (container.ByteArray, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	n, err := c.lookup(path)
	if err != nil {
		return nil, err
	}
	if n.typ != container.TypeBytes {
		return nil, fmt.Errorf("memory: %q: %w", path, container.ErrNotBytes)
	}
	return &byteArray{c: c, n: n, path: container.CleanPath(path)}, nil
}

func (c *Container) Delete(path string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.readOnly {
		return container.ErrReadOnly
	}
	if container.CleanPath(path) == container.Separator {
		return fmt.Errorf("memory: cannot delete root: %w", container.ErrInvalidPath)
	}
	n, err := c.lookup(path)
	if err != nil {
		return err
	}
	parent, err := c.lookup(container.Parent(path))
	if err != nil {
		return err
	}
	delete(parent.children, container.Base(path))
	markRemoved(n)
	return nil
}

func markRemoved(n *node) {
	n.removed = true
	for _, child := range n.children {
		markRemoved(child)
	}
}

func (c *Container) Members(path string) ([]string, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	n, err := c.lookup(path)
	if err != nil {
		return nil, err
	}
	if n.typ != container.TypeGroup {
		return nil, fmt.Errorf("memory: %q: %w", path, container.ErrNotGroup)
	}
	names := make([]string, 0, len(n.children))
	for name := range n.children {
		names = append(names, name)
	}
	sort.Strings(names)
	return names, nil
}

// Flush is a no-op; memory contents are never durable.
func (c *Container) Flush() error {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if c.closed {
		return container.ErrClosed
	}
	return nil
}

func (c *Container) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.closed = true
	return nil
}
