package billyfs

import (
	"errors"
	"fmt"
	"io"
	"os"
	"sort"

	"github.com/go-git/go-billy/v5"

	"github.com/robert-malhotra/go-vfile/container"
)

type byteArray struct {
	c    *Container
	path string
}

func (a *byteArray) Path() string { return a.path }

// extent returns the file size. Callers hold a.c.mu.
func (a *byteArray) extent() (int64, error) {
	info, err := a.c.fs.Stat(a.path)
	if err != nil {
		return 0, translate("stat", a.path, err)
	}
	if info.IsDir() {
		return 0, fmt.Errorf("billy: stat %q: %w", a.path, container.ErrNotBytes)
	}
	return info.Size(), nil
}

// openRW opens the backing file for in-place modification.
func (a *byteArray) openRW() (billy.File, error) {
	f, err := a.c.fs.OpenFile(a.path, os.O_RDWR, 0o644)
	if err != nil {
		return nil, translate("open", a.path, err)
	}
	return f, nil
}

func (a *byteArray) Extent() (int64, error) {
	a.c.mu.RLock()
	defer a.c.mu.RUnlock()
	if err := a.c.check(false); err != nil {
		return 0, err
	}
	return a.extent()
}

func (a *byteArray) Resize(n int64) error {
	a.c.mu.Lock()
	defer a.c.mu.Unlock()
	if err := a.c.check(true); err != nil {
		return err
	}
	if n < 0 {
		return fmt.Errorf("billy: resize %q to %d: %w", a.path, n, container.ErrOutOfRange)
	}
	f, err := a.openRW()
	if err != nil {
		return err
	}
	if err := f.Truncate(n); err != nil {
		f.Close()
		return translate("truncate", a.path, err)
	}
	return translate("truncate", a.path, f.Close())
}

func (a *byteArray) ReadAt(p []byte, off int64) (int, error) {
	a.c.mu.RLock()
	defer a.c.mu.RUnlock()
	if err := a.c.check(false); err != nil {
		return 0, err
	}
	extent, err := a.extent()
	if err != nil {
		return 0, err
	}
	if err := container.CheckWindow(off, len(p), extent); err != nil {
		return 0, fmt.Errorf("billy: read %q [%d,+%d): %w", a.path, off, len(p), err)
	}
	if len(p) == 0 {
		return 0, nil
	}

	f, err := a.c.fs.Open(a.path)
	if err != nil {
		return 0, translate("open", a.path, err)
	}
	defer f.Close()

	n, err := f.ReadAt(p, off)
	if n == len(p) && errors.Is(err, io.EOF) {
		err = nil
	}
	if err != nil {
		return n, translate("read", a.path, err)
	}
	return n, nil
}

func (a *byteArray) WriteAt(p []byte, off int64) (int, error) {
	a.c.mu.Lock()
	defer a.c.mu.Unlock()
	if err := a.c.check(true); err != nil {
		return 0, err
	}
	extent, err := a.extent()
	if err != nil {
		return 0, err
	}
	if err := container.CheckWindow(off, len(p), extent); err != nil {
		return 0, fmt.Errorf("billy: write %q [%d,+%d): %w", a.path, off, len(p), err)
	}
	if len(p) == 0 {
		return 0, nil
	}

	f, err := a.openRW()
	if err != nil {
		return 0, err
	}
	if _, err := f.Seek(off, io.SeekStart); err != nil {
		f.Close()
		return 0, translate("seek", a.path, err)
	}
	n, err := f.Write(p)
	if err != nil {
		f.Close()
		return n, translate("write", a.path, err)
	}
	return n, translate("write", a.path, f.Close())
}

func (a *byteArray) Attr(name string) (string, bool, error) {
	a.c.mu.RLock()
	defer a.c.mu.RUnlock()
	if err := a.c.check(false); err != nil {
		return "", false, err
	}
	if _, err := a.extent(); err != nil {
		return "", false, err
	}
	attrs, err := a.c.readAttrs(a.path)
	if err != nil {
		return "", false, err
	}
	v, ok := attrs[name]
	return v, ok, nil
}

func (a *byteArray) SetAttr(name, value string) error {
	a.c.mu.Lock()
	defer a.c.mu.Unlock()
	if err := a.c.check(true); err != nil {
		return err
	}
	if _, err := a.extent(); err != nil {
		return err
	}
	attrs, err := a.c.readAttrs(a.path)
	if err != nil {
		return err
	}
	attrs[name] = value
	return a.c.writeAttrs(a.path, attrs)
}

func (a *byteArray) Attrs() ([]string, error) {
	a.c.mu.RLock()
	defer a.c.mu.RUnlock()
	if err := a.c.check(false); err != nil {
		return nil, err
	}
	if _, err := a.extent(); err != nil {
		return nil, err
	}
	attrs, err := a.c.readAttrs(a.path)
	if err != nil {
		return nil, err
	}
	names := make([]string, 0, len(attrs))
	for name := range attrs {
		names = append(names, name)
	}
	sort.Strings(names)
	return names, nil
}
