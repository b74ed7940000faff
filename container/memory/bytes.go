package memory

import (
	"fmt"
	"sort"

	"github.com/robert-malhotra/go-vfile/container"
	"github.com/robert-malhotra/go-vfile/internal/chunk"
)

type byteArray struct {
	c    *Container
	n    *node
	path string
}

func (a *byteArray) Path() string { return a.path }

// check validates the handle. Callers hold a.c.mu.
func (a *byteArray) check(write bool) error {
	if a.c.closed {
		return container.ErrClosed
	}
	if a.n.removed {
		return fmt.Errorf("memory: %q: %w", a.path, container.ErrNotFound)
	}
	if write && a.c.readOnly {
		return container.ErrReadOnly
	}
	return nil
}

func (a *byteArray) Extent() (int64, error) {
	a.c.mu.RLock()
	defer a.c.mu.RUnlock()
	if err := a.check(false); err != nil {
		return 0, err
	}
	return a.n.extent, nil
}

func (a *byteArray) Resize(n int64) error {
	a.c.mu.Lock()
	defer a.c.mu.Unlock()
	if err := a.check(true); err != nil {
		return err
	}
	if n < 0 {
		return fmt.Errorf("memory: resize %q to %d: %w", a.path, n, container.ErrOutOfRange)
	}
	if err := chunk.Resize(chunkStore{a.n}, a.n.chunkSize, a.n.extent, n); err != nil {
		return fmt.Errorf("memory: resize %q: %w", a.path, err)
	}
	a.n.extent = n
	return nil
}

func (a *byteArray) ReadAt(p []byte, off int64) (int, error) {
	a.c.mu.RLock()
	defer a.c.mu.RUnlock()
	if err := a.check(false); err != nil {
		return 0, err
	}
	if err := container.CheckWindow(off, len(p), a.n.extent); err != nil {
		return 0, fmt.Errorf("memory: read %q [%d,+%d): %w", a.path, off, len(p), err)
	}
	if err := chunk.ReadAt(chunkStore{a.n}, a.n.chunkSize, p, off); err != nil {
		return 0, err
	}
	return len(p), nil
}

func (a *byteArray) WriteAt(p []byte, off int64) (int, error) {
	a.c.mu.Lock()
	defer a.c.mu.Unlock()
	if err := a.check(true); err != nil {
		return 0, err
	}
	if err := container.CheckWindow(off, len(p), a.n.extent); err != nil {
		return 0, fmt.Errorf("memory: write %q [%d,+%d): %w", a.path, off, len(p), err)
	}
	if err := chunk.WriteAt(chunkStore{a.n}, a.n.chunkSize, p, off); err != nil {
		return 0, err
	}
	return len(p), nil
}

func (a *byteArray) Attr(name string) (string, bool, error) {
	a.c.mu.RLock()
	defer a.c.mu.RUnlock()
	if err := a.check(false); err != nil {
		return "", false, err
	}
	v, ok := a.n.attrs[name]
	return v, ok, nil
}

func (a *byteArray) SetAttr(name, value string) error {
	a.c.mu.Lock()
	defer a.c.mu.Unlock()
	if err := a.check(true); err != nil {
		return err
	}
	a.n.attrs[name] = value
	return nil
}

func (a *byteArray) Attrs() ([]string, error) {
	a.c.mu.RLock()
	defer a.c.mu.RUnlock()
	if err := a.check(false); err != nil {
		return nil, err
	}
	names := make([]string, 0, len(a.n.attrs))
	for name := range a.n.attrs {
		names = append(names, name)
	}
	sort.Strings(names)
	return names, nil
}

// chunkStore adapts a node's chunk map to chunk.Store.
type chunkStore struct {
	n *node
}

func (s chunkStore) Load(index uint64) ([]byte, bool, error) {
	d, ok := s.n.chunks[index]
	return d, ok, nil
}

func (s chunkStore) Save(index uint64, data []byte) error {
	s.n.chunks[index] = data
	return nil
}

func (s chunkStore) Drop(index uint64) error {
	delete(s.n.chunks, index)
	return nil
}

func (s chunkStore) Indexes(from uint64) ([]uint64, error) {
	var idx []uint64
	for i := range s.n.chunks {
		if i >= from {
			idx = append(idx, i)
		}
	}
	return idx, nil
}
