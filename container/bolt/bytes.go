package bolt

import (
	"encoding/binary"
	"fmt"
	"sort"

	bolt "go.etcd.io/bbolt"

	"github.com/robert-malhotra/go-vfile/container"
	"github.com/robert-malhotra/go-vfile/internal/chunk"
	"github.com/robert-malhotra/go-vfile/internal/filter"
)

type byteArray struct {
	c         *Container
	path      string
	chunkSize int
	pipeline  *filter.Pipeline
}

func lookupBytes(tx *bolt.Tx, path string) (*bolt.Bucket, meta, error) {
	b, err := lookup(tx, path)
	if err != nil {
		return nil, meta{}, err
	}
	if objectType(b) != container.TypeBytes {
		return nil, meta{}, fmt.Errorf("bolt: %q: %w", path, container.ErrNotBytes)
	}
	m, err := decodeMeta(b.Get(metaKey))
	if err != nil {
		return nil, meta{}, fmt.Errorf("bolt: %q: %w", path, err)
	}
	return b, m, nil
}

func (a *byteArray) Path() string { return a.path }

func (a *byteArray) chunks(b *bolt.Bucket) chunkStore {
	return chunkStore{b: b.Bucket(chunksKey), p: a.pipeline}
}

func (a *byteArray) Extent() (int64, error) {
	var extent int64
	err := a.c.view(func(tx *bolt.Tx) error {
		_, m, err := lookupBytes(tx, a.path)
		extent = m.extent
		return err
	})
	return extent, err
}

func (a *byteArray) Resize(n int64) error {
	if n < 0 {
		return fmt.Errorf("bolt: resize %q to %d: %w", a.path, n, container.ErrOutOfRange)
	}
	return a.c.update(func(tx *bolt.Tx) error {
		b, m, err := lookupBytes(tx, a.path)
		if err != nil {
			return err
		}
		if err := chunk.Resize(a.chunks(b), m.chunkSize, m.extent, n); err != nil {
			return fmt.Errorf("bolt: resize %q: %w", a.path, err)
		}
		m.extent = n
		return b.Put(metaKey, m.encode())
	})
}

func (a *byteArray) ReadAt(p []byte, off int64) (int, error) {
	err := a.c.view(func(tx *bolt.Tx) error {
		b, m, err := lookupBytes(tx, a.path)
		if err != nil {
			return err
		}
		if err := container.CheckWindow(off, len(p), m.extent); err != nil {
			return fmt.Errorf("bolt: read %q [%d,+%d): %w", a.path, off, len(p), err)
		}
		return chunk.ReadAt(a.chunks(b), m.chunkSize, p, off)
	})
	if err != nil {
		return 0, err
	}
	return len(p), nil
}

func (a *byteArray) WriteAt(p []byte, off int64) (int, error) {
	err := a.c.update(func(tx *bolt.Tx) error {
		b, m, err := lookupBytes(tx, a.path)
		if err != nil {
			return err
		}
		if err := container.CheckWindow(off, len(p), m.extent); err != nil {
			return fmt.Errorf("bolt: write %q [%d,+%d): %w", a.path, off, len(p), err)
		}
		return chunk.WriteAt(a.chunks(b), m.chunkSize, p, off)
	})
	if err != nil {
		return 0, err
	}
	return len(p), nil
}

func (a *byteArray) Attr(name string) (string, bool, error) {
	var (
		value string
		ok    bool
	)
	err := a.c.view(func(tx *bolt.Tx) error {
		b, _, err := lookupBytes(tx, a.path)
		if err != nil {
			return err
		}
		if v := b.Bucket(attrsKey).Get([]byte(name)); v != nil {
			value, ok = string(v), true
		}
		return nil
	})
	return value, ok, err
}

func (a *byteArray) SetAttr(name, value string) error {
	if name == "" {
		return fmt.Errorf("bolt: %q: empty attribute name", a.path)
	}
	return a.c.update(func(tx *bolt.Tx) error {
		b, _, err := lookupBytes(tx, a.path)
		if err != nil {
			return err
		}
		return b.Bucket(attrsKey).Put([]byte(name), []byte(value))
	})
}

func (a *byteArray) Attrs() ([]string, error) {
	var names []string
	err := a.c.view(func(tx *bolt.Tx) error {
		b, _, err := lookupBytes(tx, a.path)
		if err != nil {
			return err
		}
		names = []string{}
		return b.Bucket(attrsKey).ForEach(func(k, _ []byte) error {
			names = append(names, string(k))
			return nil
		})
	})
	sort.Strings(names)
	return names, err
}

// chunkStore adapts a chunks bucket to chunk.Store, running every chunk
// through the array's filter pipeline.
type chunkStore struct {
	b *bolt.Bucket
	p *filter.Pipeline
}

func chunkKey(index uint64) []byte {
	return binary.BigEndian.AppendUint64(nil, index)
}

func (s chunkStore) Load(index uint64) ([]byte, bool, error) {
	v := s.b.Get(chunkKey(index))
	if v == nil {
		return nil, false, nil
	}
	if len(v) < 4 {
		return nil, false, fmt.Errorf("chunk %d truncated", index)
	}
	mask := binary.LittleEndian.Uint32(v)
	data, err := s.p.Decode(append([]byte(nil), v[4:]...), mask)
	if err != nil {
		return nil, false, err
	}
	return data, true, nil
}

func (s chunkStore) Save(index uint64, data []byte) error {
	enc, mask, err := s.p.Encode(data)
	if err != nil {
		return err
	}
	v := binary.LittleEndian.AppendUint32(make([]byte, 0, 4+len(enc)), mask)
	return s.b.Put(chunkKey(index), append(v, enc...))
}

func (s chunkStore) Drop(index uint64) error {
	return s.b.Delete(chunkKey(index))
}

// Indexes walks the chunk keys from the first one at or above from. Keys are
// big-endian, so cursor order is index order.
func (s chunkStore) Indexes(from uint64) ([]uint64, error) {
	var idx []uint64
	cur := s.b.Cursor()
	for k, _ := cur.Seek(chunkKey(from)); k != nil; k, _ = cur.Next() {
		if len(k) != 8 {
			return nil, fmt.Errorf("bad chunk key %x", k)
		}
		idx = append(idx, binary.BigEndian.Uint64(k))
	}
	return idx, nil
}
