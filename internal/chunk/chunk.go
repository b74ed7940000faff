// Package chunk implements a one-dimensional chunked byte array on top of a
// keyed chunk store.
//
// The array is split into fixed-size chunks numbered from zero. Chunks that
// were never written are absent from the store and read as zero bytes, and a
// stored chunk may be shorter than the chunk size, in which case its missing
// tail also reads as zero. Callers validate windows against the array extent;
// this package only maps windows onto chunks.
package chunk

import "fmt"

// DefaultSize is the chunk size used when none is configured.
const DefaultSize = 4096

// Store loads and saves chunks by index.
type Store interface {
	// Load returns the stored bytes of a chunk. ok is false when the chunk
	// has never been written.
	Load(index uint64) (data []byte, ok bool, err error)

	// Save replaces the stored bytes of a chunk.
	Save(index uint64, data []byte) error

	// Drop removes a chunk. Dropping an absent chunk is not an error.
	Drop(index uint64) error

	// Indexes lists the stored chunks numbered from or above, in any order.
	Indexes(from uint64) ([]uint64, error)
}

// Span is the part of a window that falls inside one chunk.
type Span struct {
	Index  uint64 // chunk number
	Offset int    // start within the chunk
	Length int    // bytes covered
	Pos    int    // start within the caller's buffer
}

// Spans splits the window [off, off+n) into per-chunk spans.
func Spans(off int64, n int, size int) []Span {
	if n <= 0 {
		return nil
	}
	cs := int64(size)
	first := off / cs
	last := (off + int64(n) - 1) / cs
	spans := make([]Span, 0, last-first+1)

	pos := 0
	for idx := first; idx <= last; idx++ {
		start := int64(0)
		if idx == first {
			start = off - idx*cs
		}
		length := int(cs - start)
		if rest := n - pos; length > rest {
			length = rest
		}
		spans = append(spans, Span{Index: uint64(idx), Offset: int(start), Length: length, Pos: pos})
		pos += length
	}
	return spans
}

// Count returns the number of chunks needed to hold extent bytes.
func Count(extent int64, size int) uint64 {
	if extent <= 0 {
		return 0
	}
	return uint64((extent + int64(size) - 1) / int64(size))
}

// ReadAt fills p with the bytes at off.
func ReadAt(s Store, size int, p []byte, off int64) error {
	for _, sp := range Spans(off, len(p), size) {
		data, ok, err := s.Load(sp.Index)
		if err != nil {
			return fmt.Errorf("loading chunk %d: %w", sp.Index, err)
		}
		dst := p[sp.Pos : sp.Pos+sp.Length]
		n := 0
		if ok && sp.Offset < len(data) {
			n = copy(dst, data[sp.Offset:])
		}
		clear(dst[n:])
	}
	return nil
}

// WriteAt stores p at off, loading and rewriting each chunk it touches.
func WriteAt(s Store, size int, p []byte, off int64) error {
	for _, sp := range Spans(off, len(p), size) {
		var data []byte
		if sp.Offset != 0 || sp.Length != size {
			existing, ok, err := s.Load(sp.Index)
			if err != nil {
				return fmt.Errorf("loading chunk %d: %w", sp.Index, err)
			}
			if ok {
				data = existing
			}
		}

		end := sp.Offset + sp.Length
		if len(data) < end {
			grown := make([]byte, end)
			copy(grown, data)
			data = grown
		} else {
			data = append([]byte(nil), data...)
		}
		copy(data[sp.Offset:end], p[sp.Pos:sp.Pos+sp.Length])

		if err := s.Save(sp.Index, data); err != nil {
			return fmt.Errorf("saving chunk %d: %w", sp.Index, err)
		}
	}
	return nil
}

// Resize adjusts the stored chunks for a change of extent from oldExtent to
// newExtent. Growing touches nothing. Shrinking drops the chunks past the new
// end and cuts the boundary chunk, so bytes exposed by a later grow read as
// zero instead of resurfacing old content.
func Resize(s Store, size int, oldExtent, newExtent int64) error {
	if newExtent >= oldExtent {
		return nil
	}

	keep := Count(newExtent, size)
	stored, err := s.Indexes(keep)
	if err != nil {
		return fmt.Errorf("listing chunks from %d: %w", keep, err)
	}
	for _, idx := range stored {
		if err := s.Drop(idx); err != nil {
			return fmt.Errorf("dropping chunk %d: %w", idx, err)
		}
	}

	tail := int(newExtent % int64(size))
	if tail == 0 || keep == 0 {
		return nil
	}
	boundary := keep - 1
	data, ok, err := s.Load(boundary)
	if err != nil {
		return fmt.Errorf("loading chunk %d: %w", boundary, err)
	}
	if !ok || len(data) <= tail {
		return nil
	}
	if err := s.Save(boundary, append([]byte(nil), data[:tail]...)); err != nil {
		return fmt.Errorf("saving chunk %d: %w", boundary, err)
	}
	return nil
}
