// Package billyfs implements a container on a go-billy filesystem.
//
// Groups are directories and byte arrays are regular files, so a container
// on osfs is an ordinary directory tree that other tools can inspect. The
// attributes of a byte array live next to it in a hidden YAML sidecar named
// "." + name + AttrSuffix. Object names ending in AttrSuffix are rejected.
//
// Files are contiguous; the chunk size hint of CreateBytes is ignored.
package billyfs

import (
	"errors"
	"fmt"
	"io"
	"os"
	"sort"
	"strings"
	"sync"

	"github.com/go-git/go-billy/v5"
	"github.com/go-git/go-billy/v5/util"
	"github.com/sirupsen/logrus"
	"gopkg.in/yaml.v3"

	"github.com/robert-malhotra/go-vfile/container"
)

// AttrSuffix ends the name of every attribute sidecar file.
const AttrSuffix = ".vfattrs"

// Option configures a Container.
type Option func(*Container)

// WithReadOnly rejects every mutation.
func WithReadOnly() Option {
	return func(c *Container) {
		c.readOnly = true
	}
}

// WithLogger sets the logger.
func WithLogger(l logrus.FieldLogger) Option {
	return func(c *Container) {
		c.log = l
	}
}

// Container is a container.Container stored on a billy.Filesystem.
type Container struct {
	mu       sync.RWMutex
	fs       billy.Filesystem
	readOnly bool
	closed   bool
	log      logrus.FieldLogger
}

var _ container.Container = (*Container)(nil)

// New wraps fs. The root of fs is the root group.
func New(fs billy.Filesystem, opts ...Option) *Container {
	c := &Container{fs: fs, log: logrus.StandardLogger()}
	for _, opt := range opts {
		opt(c)
	}
	c.log = c.log.WithField("container", fs.Root())
	return c
}

func sidecar(path string) string {
	return container.JoinPath(container.Parent(path), "."+container.Base(path)+AttrSuffix)
}

func validate(path string) error {
	if err := container.ValidatePath(path); err != nil {
		return err
	}
	for _, name := range container.SplitPath(path) {
		if strings.HasSuffix(name, AttrSuffix) {
			return fmt.Errorf("%w: component %q uses reserved suffix %q", container.ErrInvalidPath, name, AttrSuffix)
		}
	}
	return nil
}

// translate maps filesystem errors onto container errors.
func translate(op, path string, err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, os.ErrNotExist):
		return fmt.Errorf("billy: %s %q: %w", op, path, container.ErrNotFound)
	case errors.Is(err, os.ErrExist):
		return fmt.Errorf("billy: %s %q: %w", op, path, container.ErrExists)
	}
	return fmt.Errorf("billy: %s %q: %w", op, path, err)
}

func (c *Container) check(write bool) error {
	if c.closed {
		return container.ErrClosed
	}
	if write && c.readOnly {
		return container.ErrReadOnly
	}
	return nil
}

func (c *Container) Writable() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return !c.readOnly && !c.closed
}

// stat reports the object type at path. Callers hold c.mu.
func (c *Container) stat(path string) (container.ObjectType, error) {
	if err := validate(path); err != nil {
		return 0, err
	}
	if path == container.Separator {
		return container.TypeGroup, nil
	}
	// Walk the parents so that a file in the middle of the path reads as
	// "not a group" on every billy implementation.
	parts := container.SplitPath(path)
	cur := container.Separator
	for i, name := range parts {
		cur = container.JoinPath(cur, name)
		info, err := c.fs.Stat(cur)
		if err != nil {
			return 0, translate("stat", path, err)
		}
		if i == len(parts)-1 {
			if info.IsDir() {
				return container.TypeGroup, nil
			}
			return container.TypeBytes, nil
		}
		if !info.IsDir() {
			return 0, fmt.Errorf("billy: stat %q: %w", path, container.ErrNotGroup)
		}
	}
	return 0, nil
}

// prepareCreate checks that path can be created. Callers hold c.mu.
func (c *Container) prepareCreate(path string) error {
	if err := c.check(true); err != nil {
		return err
	}
	if err := validate(path); err != nil {
		return err
	}
	if path == container.Separator {
		return fmt.Errorf("billy: create %q: %w", path, container.ErrExists)
	}
	typ, err := c.stat(container.Parent(path))
	if err != nil {
		return err
	}
	if typ != container.TypeGroup {
		return fmt.Errorf("billy: parent of %q: %w", path, container.ErrNotGroup)
	}
	if _, err := c.fs.Stat(path); err == nil {
		return fmt.Errorf("billy: create %q: %w", path, container.ErrExists)
	}
	return nil
}

func (c *Container) Stat(path string) (container.ObjectType, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if err := c.check(false); err != nil {
		return 0, err
	}
	return c.stat(path)
}

func (c *Container) CreateGroup(path string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if err := c.prepareCreate(path); err != nil {
		return err
	}
	return translate("mkdir", path, c.fs.MkdirAll(path, 0o755))
}

func (c *Container) CreateBytes(path string, _ int) (container.ByteArray, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if err := c.prepareCreate(path); err != nil {
		return nil, err
	}
	f, err := c.fs.Create(path)
	if err != nil {
		return nil, translate("create", path, err)
	}
	if err := f.Close(); err != nil {
		return nil, translate("create", path, err)
	}
	if err := c.fs.Remove(sidecar(path)); err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, translate("create", path, err)
	}
	return &byteArray{c: c, path: container.CleanPath(path)}, nil
}

func (c *Container) OpenBytes(path string) (container.ByteArray, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if err := c.check(false); err != nil {
		return nil, err
	}
	typ, err := c.stat(path)
	if err != nil {
		return nil, err
	}
	if typ != container.TypeBytes {
		return nil, fmt.Errorf("billy: open %q: %w", path, container.ErrNotBytes)
	}
	return &byteArray{c: c, path: container.CleanPath(path)}, nil
}

func (c *Container) Delete(path string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if err := c.check(true); err != nil {
		return err
	}
	if container.CleanPath(path) == container.Separator {
		return fmt.Errorf("billy: cannot delete root: %w", container.ErrInvalidPath)
	}
	typ, err := c.stat(path)
	if err != nil {
		return err
	}
	if typ == container.TypeGroup {
		return translate("remove", path, util.RemoveAll(c.fs, path))
	}
	if err := c.fs.Remove(path); err != nil {
		return translate("remove", path, err)
	}
	if err := c.fs.Remove(sidecar(path)); err != nil && !errors.Is(err, os.ErrNotExist) {
		return translate("remove", path, err)
	}
	return nil
}

func (c *Container) Members(path string) ([]string, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if err := c.check(false); err != nil {
		return nil, err
	}
	typ, err := c.stat(path)
	if err != nil {
		return nil, err
	}
	if typ != container.TypeGroup {
		return nil, fmt.Errorf("billy: list %q: %w", path, container.ErrNotGroup)
	}
	infos, err := c.fs.ReadDir(path)
	if err != nil {
		return nil, translate("list", path, err)
	}
	names := make([]string, 0, len(infos))
	for _, info := range infos {
		if strings.HasSuffix(info.Name(), AttrSuffix) {
			continue
		}
		names = append(names, info.Name())
	}
	sort.Strings(names)
	return names, nil
}

// Flush is a no-op: billy has no sync primitive, and every write closes its
// file before returning.
func (c *Container) Flush() error {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.check(false)
}

func (c *Container) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if !c.closed {
		c.closed = true
		c.log.Debug("container closed")
	}
	return nil
}

func (c *Container) readAttrs(path string) (map[string]string, error) {
	attrs := make(map[string]string)
	f, err := c.fs.Open(sidecar(path))
	if errors.Is(err, os.ErrNotExist) {
		return attrs, nil
	}
	if err != nil {
		return nil, translate("read attrs", path, err)
	}
	defer f.Close()

	raw, err := io.ReadAll(f)
	if err != nil {
		return nil, translate("read attrs", path, err)
	}
	if err := yaml.Unmarshal(raw, &attrs); err != nil {
		return nil, fmt.Errorf("billy: decode attrs of %q: %w", path, err)
	}
	if attrs == nil {
		attrs = make(map[string]string)
	}
	return attrs, nil
}

func (c *Container) writeAttrs(path string, attrs map[string]string) error {
	raw, err := yaml.Marshal(attrs)
	if err != nil {
		return fmt.Errorf("billy: encode attrs of %q: %w", path, err)
	}
	f, err := c.fs.Create(sidecar(path))
	if err != nil {
		return translate("write attrs", path, err)
	}
	if _, err := f.Write(raw); err != nil {
		f.Close()
		return translate("write attrs", path, err)
	}
	return translate("write attrs", path, f.Close())
}
