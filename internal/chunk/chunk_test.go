package chunk

import (
	"bytes"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type mapStore struct {
	chunks  map[uint64][]byte
	failOn  uint64
	failErr error
	drops   int
}

func newMapStore() *mapStore {
	return &mapStore{chunks: make(map[uint64][]byte)}
}

func (m *mapStore) Load(index uint64) ([]byte, bool, error) {
	if m.failErr != nil && index == m.failOn {
		return nil, false, m.failErr
	}
	d, ok := m.chunks[index]
	return d, ok, nil
}

func (m *mapStore) Save(index uint64, data []byte) error {
	m.chunks[index] = data
	return nil
}

func (m *mapStore) Drop(index uint64) error {
	m.drops++
	delete(m.chunks, index)
	return nil
}

func (m *mapStore) Indexes(from uint64) ([]uint64, error) {
	var idx []uint64
	for i := range m.chunks {
		if i >= from {
			idx = append(idx, i)
		}
	}
	return idx, nil
}

func TestSpans(t *testing.T) {
	tests := []struct {
		name string
		off  int64
		n    int
		want []Span
	}{
		{"empty", 5, 0, nil},
		{"inside one chunk", 2, 3, []Span{{Index: 0, Offset: 2, Length: 3, Pos: 0}}},
		{"exact chunk", 8, 8, []Span{{Index: 1, Offset: 0, Length: 8, Pos: 0}}},
		{"crosses boundary", 6, 4, []Span{
			{Index: 0, Offset: 6, Length: 2, Pos: 0},
			{Index: 1, Offset: 0, Length: 2, Pos: 2},
		}},
		{"three chunks", 7, 10, []Span{
			{Index: 0, Offset: 7, Length: 1, Pos: 0},
			{Index: 1, Offset: 0, Length: 8, Pos: 1},
			{Index: 2, Offset: 0, Length: 1, Pos: 9},
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Spans(tt.off, tt.n, 8))
		})
	}
}

func TestCount(t *testing.T) {
	assert.Equal(t, uint64(0), Count(0, 8))
	assert.Equal(t, uint64(1), Count(1, 8))
	assert.Equal(t, uint64(1), Count(8, 8))
	assert.Equal(t, uint64(2), Count(9, 8))
}

func TestWriteReadAcrossChunks(t *testing.T) {
	s := newMapStore()
	payload := []byte("the quick brown fox jumps")

	require.NoError(t, WriteAt(s, 8, payload, 3))
	assert.Len(t, s.chunks, 4)

	got := make([]byte, len(payload))
	require.NoError(t, ReadAt(s, 8, got, 3))
	assert.Equal(t, payload, got)

	head := make([]byte, 3)
	require.NoError(t, ReadAt(s, 8, head, 0))
	assert.Equal(t, []byte{0, 0, 0}, head)
}

func TestPartialOverwriteKeepsNeighbours(t *testing.T) {
	s := newMapStore()
	require.NoError(t, WriteAt(s, 8, []byte("abcdefgh"), 0))
	require.NoError(t, WriteAt(s, 8, []byte("XY"), 3))

	got := make([]byte, 8)
	require.NoError(t, ReadAt(s, 8, got, 0))
	assert.Equal(t, []byte("abcXYfgh"), got)
}

func TestReadSparseIsZero(t *testing.T) {
	s := newMapStore()
	require.NoError(t, WriteAt(s, 4, []byte{9}, 10))

	got := make([]byte, 11)
	require.NoError(t, ReadAt(s, 4, got, 0))
	assert.Equal(t, append(bytes.Repeat([]byte{0}, 10), 9), got)
}

func TestResizeShrinkThenGrow(t *testing.T) {
	s := newMapStore()
	require.NoError(t, WriteAt(s, 4, []byte("0123456789"), 0))

	require.NoError(t, Resize(s, 4, 10, 5))
	assert.Len(t, s.chunks, 2)
	assert.Equal(t, []byte("4"), s.chunks[1])

	require.NoError(t, Resize(s, 4, 5, 10))
	got := make([]byte, 10)
	require.NoError(t, ReadAt(s, 4, got, 0))
	assert.Equal(t, []byte("01234\x00\x00\x00\x00\x00"), got)

	require.NoError(t, Resize(s, 4, 10, 0))
	assert.Empty(t, s.chunks)
}

func TestResizeSparseDropsOnlyStored(t *testing.T) {
	s := newMapStore()
	const far = int64(1) << 40
	require.NoError(t, WriteAt(s, 16, []byte("ab"), 0))
	require.NoError(t, WriteAt(s, 16, []byte{7}, far))

	require.NoError(t, Resize(s, 16, far+1, 1))
	assert.Equal(t, 1, s.drops)
	assert.Equal(t, map[uint64][]byte{0: []byte("a")}, s.chunks)
}

func TestStoreErrorsPropagate(t *testing.T) {
	s := newMapStore()
	require.NoError(t, WriteAt(s, 4, []byte("abcdef"), 0))
	s.failOn, s.failErr = 1, errors.New("disk gone")

	err := ReadAt(s, 4, make([]byte, 6), 0)
	assert.ErrorIs(t, err, s.failErr)

	err = WriteAt(s, 4, []byte("z"), 5)
	assert.ErrorIs(t, err, s.failErr)
}
