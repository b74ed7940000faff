package vfile

import (
	"bytes"
	"io"
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/robert-malhotra/go-vfile/container"
	"github.com/robert-malhotra/go-vfile/container/memory"
)

func TestCharRoundTrip(t *testing.T) {
	eachBackend(t, func(t *testing.T, c container.Container) {
		var data []byte
		for i := 0; i < 300; i++ {
			data = append(data, byte(i*7))
		}

		f := mustOpen(t, c, "/f", "w")
		for _, b := range data {
			require.NoError(t, f.PutChar(b))
		}
		require.NoError(t, f.Close())

		f = mustOpen(t, c, "/f", "r")
		for i, want := range data {
			got, err := f.GetChar()
			require.NoError(t, err, "byte %d", i)
			require.Equal(t, want, got, "byte %d", i)
		}
		_, err := f.GetChar()
		assert.ErrorIs(t, err, io.EOF)
		assert.True(t, f.Eof())
		require.NoError(t, f.Close())
	})
}

func TestScenarioPutGetChars(t *testing.T) {
	eachBackend(t, func(t *testing.T, c container.Container) {
		f := mustOpen(t, c, "/f", "w")
		require.NoError(t, f.PutChar('a'))
		require.NoError(t, f.PutChar('b'))
		require.NoError(t, f.PutChar('c'))
		require.NoError(t, f.Close())

		f = mustOpen(t, c, "/f", "r")
		for _, want := range []byte("abc") {
			got, err := f.GetChar()
			require.NoError(t, err)
			assert.Equal(t, want, got)
			assert.False(t, f.Eof())
		}
		_, err := f.GetChar()
		assert.ErrorIs(t, err, io.EOF)
		assert.True(t, f.Eof())
		assert.Equal(t, OutcomeEOF, f.Status().Outcome)
		assert.False(t, f.HasError())
		require.NoError(t, f.Close())
	})
}

func TestScenarioScanf(t *testing.T) {
	eachBackend(t, func(t *testing.T, c container.Container) {
		f := mustOpen(t, c, "/f", "w+")
		require.NoError(t, f.Puts("1 2.3 6 dope\n"))
		require.NoError(t, f.Rewind())

		var (
			a, b int
			x    float64
			s    string
		)
		n, err := f.Scanf("%d %f %d %s", &a, &x, &b, &s)
		require.NoError(t, err)
		assert.Equal(t, 4, n)
		assert.Equal(t, 1, a)
		assert.InDelta(t, 2.3, x, 1e-9)
		assert.Equal(t, 6, b)
		assert.Equal(t, "dope", s)
		assert.Equal(t, int64(13), f.Tell())
		require.NoError(t, f.Close())
	})
}

func TestScenarioSeekPastEnd(t *testing.T) {
	eachBackend(t, func(t *testing.T, c container.Container) {
		f := mustOpen(t, c, "/f", "w+")
		pos, err := f.Seek(100, io.SeekStart)
		require.NoError(t, err)
		assert.Equal(t, int64(100), pos)
		assert.Zero(t, f.Size(), "seeking does not grow")

		require.NoError(t, f.PutChar('a'))
		assert.Equal(t, int64(101), f.Size())

		_, err = f.Seek(100, io.SeekStart)
		require.NoError(t, err)
		b, err := f.GetChar()
		require.NoError(t, err)
		assert.Equal(t, byte('a'), b)
		require.NoError(t, f.Close())
	})
}

func TestAppendAlwaysWritesAtEnd(t *testing.T) {
	eachBackend(t, func(t *testing.T, c container.Container) {
		writeFile(t, c, "/f", "0123456789")

		f := mustOpen(t, c, "/f", "a+")
		for _, op := range []func() error{
			func() error { return f.PutChar('x') },
			func() error { return f.Puts("yy") },
			func() error { _, err := f.WriteElements([]byte("zzzz"), 2, 2); return err },
		} {
			_, err := f.Seek(3, io.SeekStart)
			require.NoError(t, err)
			before := f.Size()
			require.NoError(t, op())
			assert.Equal(t, f.Size(), f.Tell())
			assert.Greater(t, f.Size(), before)
		}

		require.NoError(t, f.Rewind())
		got := make([]byte, 17)
		n, err := f.ReadElements(got, 1, 17)
		require.NoError(t, err)
		assert.Equal(t, 17, n)
		assert.Equal(t, "0123456789xyyzzzz", string(got))
		require.NoError(t, f.Close())
	})
}

func TestWriteGrowth(t *testing.T) {
	eachBackend(t, func(t *testing.T, c container.Container) {
		f := mustOpen(t, c, "/f", "w+")
		require.NoError(t, f.Puts("0123456789"))

		tests := []struct {
			pos         int64
			size, count int
		}{
			{0, 2, 2},   // inside
			{8, 4, 3},   // crosses the end
			{40, 1, 1},  // past the end
			{10, 8, 0},  // nothing
			{37, 3, 10}, // many chunks
		}
		for _, tt := range tests {
			_, err := f.Seek(tt.pos, io.SeekStart)
			require.NoError(t, err)
			before := f.Size()
			p := bytes.Repeat([]byte{'#'}, tt.size*tt.count)
			n, err := f.WriteElements(p, tt.size, tt.count)
			require.NoError(t, err)
			assert.Equal(t, tt.count, n)
			assert.Equal(t, max(before, tt.pos+int64(tt.size*tt.count)), f.Size())
			assert.Equal(t, tt.pos+int64(tt.size*tt.count), f.Tell())
		}
		require.NoError(t, f.Close())
	})
}

func TestTruncateExact(t *testing.T) {
	eachBackend(t, func(t *testing.T, c container.Container) {
		f := mustOpen(t, c, "/f", "w+")
		require.NoError(t, f.Puts("hello world"))

		for _, n := range []int64{11, 5, 0, 64, 3, 3, 100} {
			require.NoError(t, f.Truncate(n))
			assert.Equal(t, n, f.Size())
			assert.Equal(t, int64(11), f.Tell(), "truncate leaves the position")
		}

		err := f.Truncate(-1)
		assert.ErrorIs(t, err, ErrInvalidSize)
		assert.Equal(t, KindValidation, KindOf(err))
		assert.Equal(t, int64(100), f.Size())
		require.NoError(t, f.Close())

		info, err := Stat(c, "/f")
		require.NoError(t, err)
		assert.Equal(t, int64(100), info.Size)
	})
}

func TestTruncateShrinkKeepsPrefix(t *testing.T) {
	eachBackend(t, func(t *testing.T, c container.Container) {
		f := mustOpen(t, c, "/f", "w+")
		require.NoError(t, f.Puts("hello world"))

		for _, n := range []int64{11, 5, 3} {
			require.NoError(t, f.Truncate(n))
		}

		require.NoError(t, f.Rewind())
		s, err := f.Gets(100)
		assert.ErrorIs(t, err, io.EOF)
		assert.Equal(t, "hel", s)
		require.NoError(t, f.Close())
	})
}

// sparseBackends are the backends whose arrays do not materialize
// unwritten ranges.
func sparseBackends(t *testing.T, fn func(t *testing.T, c container.Container)) {
	for _, b := range backends {
		if b.name == "billy" {
			continue
		}
		t.Run(b.name, func(t *testing.T) {
			fn(t, b.open(t))
		})
	}
}

func TestTruncateSparse(t *testing.T) {
	sparseBackends(t, func(t *testing.T, c container.Container) {
		const far = int64(1) << 36
		f := mustOpen(t, c, "/f", "w+")
		require.NoError(t, f.Puts("head"))
		_, err := f.Seek(far, io.SeekStart)
		require.NoError(t, err)
		require.NoError(t, f.PutChar('z'))
		assert.Equal(t, far+1, f.Size())

		_, err = f.Seek(far, io.SeekStart)
		require.NoError(t, err)
		b, err := f.GetChar()
		require.NoError(t, err)
		assert.Equal(t, byte('z'), b)

		done := make(chan error, 1)
		go func() { done <- f.Truncate(2) }()
		select {
		case err := <-done:
			require.NoError(t, err)
		case <-time.After(10 * time.Second):
			t.Fatal("truncating a sparse file took too long")
		}
		assert.Equal(t, int64(2), f.Size())

		require.NoError(t, f.Rewind())
		s, err := f.Gets(100)
		assert.ErrorIs(t, err, io.EOF)
		assert.Equal(t, "he", s)
		require.NoError(t, f.Close())
	})
}

func TestPositionOverflow(t *testing.T) {
	eachBackend(t, func(t *testing.T, c container.Container) {
		f := mustOpen(t, c, "/f", "w+")
		pos, err := f.Seek(math.MaxInt64, io.SeekStart)
		require.NoError(t, err)
		assert.Equal(t, int64(math.MaxInt64), pos)

		for name, err := range map[string]error{
			"putc":  f.PutChar('a'),
			"puts":  f.Puts("abc"),
			"alloc": f.Allocate(f.Tell(), 1),
		} {
			assert.ErrorIs(t, err, ErrInvalidSize, name)
			assert.Equal(t, KindValidation, KindOf(err), name)
		}
		_, err = f.WriteElements([]byte("ab"), 1, 2)
		assert.ErrorIs(t, err, ErrInvalidSize)

		assert.Equal(t, int64(math.MaxInt64), f.Tell())
		assert.Zero(t, f.Size())

		_, err = f.Seek(1, io.SeekCurrent)
		assert.ErrorIs(t, err, ErrInvalidSize)
		assert.Equal(t, KindValidation, KindOf(err))
		assert.Equal(t, int64(math.MaxInt64), f.Tell(), "failed seek keeps the position")

		n, err := f.ReadElements(make([]byte, 4), 4, 1)
		assert.ErrorIs(t, err, io.EOF)
		assert.Zero(t, n)
		assert.True(t, f.Eof())

		require.NoError(t, f.Rewind())
		require.NoError(t, f.Puts("ok"))
		assert.Equal(t, int64(2), f.Size())
		require.NoError(t, f.Close())

		info, err := Stat(c, "/f")
		require.NoError(t, err)
		assert.Equal(t, int64(2), info.Size)
	})
}

func TestReadElementsAtEndSetsEOF(t *testing.T) {
	c := memory.New()
	writeFile(t, c, "/f", "abc")
	f := mustOpen(t, c, "/f", "r")

	_, err := f.Seek(0, io.SeekEnd)
	require.NoError(t, err)
	n, err := f.ReadElements(nil, 1, 0)
	assert.ErrorIs(t, err, io.EOF)
	assert.Zero(t, n)
	assert.True(t, f.Eof())
	assert.Equal(t, OutcomeEOF, f.Status().Outcome)

	require.NoError(t, f.Rewind())
	n, err = f.ReadElements(nil, 1, 0)
	require.NoError(t, err)
	assert.Zero(t, n)
	assert.False(t, f.Eof())
	require.NoError(t, f.Close())
}

func TestAllocate(t *testing.T) {
	f := mustOpen(t, memory.New(), "/f", "w+")
	require.NoError(t, f.Allocate(0, 0))
	require.NoError(t, f.Allocate(10, -4))
	assert.Zero(t, f.Size())

	require.NoError(t, f.Allocate(4, 6))
	assert.Equal(t, int64(10), f.Size())
	require.NoError(t, f.Allocate(0, 5))
	assert.Equal(t, int64(10), f.Size(), "allocate never shrinks")
	assert.Zero(t, f.Tell())

	assert.ErrorIs(t, f.Allocate(-1, 5), ErrNegativeOffset)
	require.NoError(t, f.Close())
}

func TestReadElementsClamps(t *testing.T) {
	eachBackend(t, func(t *testing.T, c container.Container) {
		writeFile(t, c, "/f", "abcdefghij")
		f := mustOpen(t, c, "/f", "r")

		_, err := f.Seek(1, io.SeekStart)
		require.NoError(t, err)
		buf := make([]byte, 12)
		n, err := f.ReadElements(buf, 4, 3)
		assert.ErrorIs(t, err, io.EOF)
		assert.Equal(t, 2, n, "floor((10-1)/4)")
		assert.True(t, f.Eof())
		assert.Equal(t, "bcdefghi", string(buf[:8]))
		assert.Equal(t, int64(9), f.Tell())

		n, err = f.ReadElements(buf, 4, 1)
		assert.ErrorIs(t, err, io.EOF)
		assert.Zero(t, n)
		assert.Equal(t, int64(9), f.Tell())

		_, err = f.Seek(0, io.SeekStart)
		require.NoError(t, err)
		assert.False(t, f.Eof(), "seek clears eof")
		n, err = f.ReadElements(buf, 5, 2)
		require.NoError(t, err)
		assert.Equal(t, 2, n)
		assert.False(t, f.Eof())
		assert.Equal(t, "abcdefghij", string(buf[:10]))

		_, err = f.ReadElements(buf, 0, 1)
		assert.ErrorIs(t, err, ErrInvalidSize)
		_, err = f.ReadElements(buf, 4, 4)
		assert.ErrorIs(t, err, ErrInvalidSize, "buffer too small")
		require.NoError(t, f.Close())
	})
}

func TestGets(t *testing.T) {
	c := memory.New()
	writeFile(t, c, "/f", "first line\nsecond\nlast")
	f := mustOpen(t, c, "/f", "r")

	s, err := f.Gets(100)
	require.NoError(t, err)
	assert.Equal(t, "first line\n", s)

	s, err = f.Gets(4)
	require.NoError(t, err)
	assert.Equal(t, "sec", s, "stops after maxLen-1 bytes")
	assert.False(t, f.Eof())

	s, err = f.Gets(100)
	require.NoError(t, err)
	assert.Equal(t, "ond\n", s)

	s, err = f.Gets(5)
	require.NoError(t, err, "exactly maxLen-1 bytes left")
	assert.Equal(t, "last", s)
	assert.False(t, f.Eof())

	s, err = f.Gets(100)
	assert.ErrorIs(t, err, io.EOF)
	assert.Empty(t, s)
	assert.True(t, f.Eof())

	s, err = f.Gets(1)
	require.NoError(t, err)
	assert.Empty(t, s)
	require.NoError(t, f.Close())
}

func TestGetsPartialLineAtEOF(t *testing.T) {
	c := memory.New()
	writeFile(t, c, "/f", "tail")
	f := mustOpen(t, c, "/f", "r")

	s, err := f.Gets(100)
	assert.ErrorIs(t, err, io.EOF)
	assert.Equal(t, "tail", s)
	assert.True(t, f.Eof())
	require.NoError(t, f.Close())
}

func TestPrintfScanfLines(t *testing.T) {
	eachBackend(t, func(t *testing.T, c container.Container) {
		f := mustOpen(t, c, "/f", "w+")
		long := string(bytes.Repeat([]byte{'q'}, 1000))
		for i := 0; i < 3; i++ {
			n, err := f.Printf("%d %s\n", i, long)
			require.NoError(t, err)
			assert.Equal(t, len(long)+3, n)
		}
		n, err := f.Printf("%s", "end")
		require.NoError(t, err)
		assert.Equal(t, 3, n)
		require.NoError(t, f.Rewind())

		for i := 0; i < 3; i++ {
			var (
				got int
				s   string
			)
			n, err := f.Scanf("%d %s", &got, &s)
			require.NoError(t, err)
			assert.Equal(t, 2, n)
			assert.Equal(t, i, got)
			assert.Equal(t, long, s)
		}

		var s string
		n, err = f.Scanf("%s", &s)
		require.NoError(t, err)
		assert.Equal(t, 1, n)
		assert.Equal(t, "end", s)
		assert.True(t, f.Eof())

		n, err = f.Scanf("%s", &s)
		assert.ErrorIs(t, err, io.EOF)
		assert.Zero(t, n)
		require.NoError(t, f.Close())
	})
}

func TestScanfMismatch(t *testing.T) {
	f := mustOpen(t, memory.New(), "/f", "w+")
	require.NoError(t, f.Puts("7 words\n"))
	require.NoError(t, f.Rewind())

	var a, b int
	n, err := f.Scanf("%d %d", &a, &b)
	assert.Equal(t, 1, n)
	assert.Equal(t, 7, a)
	assert.Equal(t, KindValidation, KindOf(err))
	assert.True(t, f.HasError())
	assert.NotEmpty(t, f.DescribeLastError())

	f.ClearError()
	assert.False(t, f.HasError())
	assert.Equal(t, "success", f.DescribeLastError())
	require.NoError(t, f.Close())
}

func TestModeEnforcement(t *testing.T) {
	c := memory.New()
	writeFile(t, c, "/f", "data")

	r := mustOpen(t, c, "/f", "r")
	for name, err := range map[string]error{
		"putc":     r.PutChar('x'),
		"puts":     r.Puts("x"),
		"truncate": r.Truncate(0),
		"allocate": r.Allocate(0, 10),
	} {
		assert.ErrorIs(t, err, ErrNotWritable, name)
		assert.Equal(t, KindState, KindOf(err), name)
	}
	assert.True(t, r.HasError())
	assert.Equal(t, int64(4), r.Size())
	require.NoError(t, r.Close())

	w := mustOpen(t, c, "/f", "a")
	_, err := w.GetChar()
	assert.ErrorIs(t, err, ErrNotReadable)
	_, err = w.Gets(10)
	assert.ErrorIs(t, err, ErrNotReadable)
	_, err = w.Scanf("%s", new(string))
	assert.ErrorIs(t, err, ErrNotReadable)
	require.NoError(t, w.Close())
}

func TestSeek(t *testing.T) {
	c := memory.New()
	writeFile(t, c, "/f", "0123456789")
	f := mustOpen(t, c, "/f", "r")

	tests := []struct {
		offset int64
		whence int
		want   int64
	}{
		{4, io.SeekStart, 4},
		{2, io.SeekCurrent, 6},
		{-3, io.SeekCurrent, 3},
		{-1, io.SeekEnd, 9},
		{5, io.SeekEnd, 15},
		{0, io.SeekStart, 0},
	}
	for _, tt := range tests {
		pos, err := f.Seek(tt.offset, tt.whence)
		require.NoError(t, err)
		assert.Equal(t, tt.want, pos)
		assert.Equal(t, tt.want, f.Tell())
	}

	_, err := f.Seek(-1, io.SeekStart)
	assert.ErrorIs(t, err, ErrNegativeOffset)
	assert.Equal(t, KindValidation, KindOf(err))
	assert.Zero(t, f.Tell(), "failed seek keeps the position")
	assert.True(t, f.HasError())

	_, err = f.Seek(0, 7)
	assert.ErrorIs(t, err, ErrInvalidWhence)

	require.NoError(t, f.Rewind())
	assert.False(t, f.HasError())
	require.NoError(t, f.Close())
}

func TestStatusOverwritten(t *testing.T) {
	f := mustOpen(t, memory.New(), "/f", "w+")
	_, err := f.GetChar()
	assert.ErrorIs(t, err, io.EOF)
	assert.True(t, f.Eof())

	require.NoError(t, f.PutChar('z'))
	assert.False(t, f.Eof(), "writes clear eof")
	assert.Equal(t, OutcomeSuccess, f.Status().Outcome)
	require.NoError(t, f.Close())
}
