package vfile

import (
	"bufio"
	"bytes"
	"io"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/robert-malhotra/go-vfile/container"
	"github.com/robert-malhotra/go-vfile/container/memory"
)

func TestIOCopy(t *testing.T) {
	eachBackend(t, func(t *testing.T, c container.Container) {
		payload := bytes.Repeat([]byte("virtual file payload "), 200)

		f := mustOpen(t, c, "/f", "w")
		n, err := io.Copy(f, bytes.NewReader(payload))
		require.NoError(t, err)
		assert.Equal(t, int64(len(payload)), n)
		require.NoError(t, f.Close())

		f = mustOpen(t, c, "/f", "r")
		got, err := io.ReadAll(f)
		require.NoError(t, err)
		assert.Equal(t, payload, got)
		assert.True(t, f.Eof())
		require.NoError(t, f.Close())
	})
}

func TestIOAdapters(t *testing.T) {
	eachBackend(t, func(t *testing.T, c container.Container) {
		f := mustOpen(t, c, "/f", "w+")
		w := bufio.NewWriter(f)
		_, err := w.WriteString("alpha\nbeta\n")
		require.NoError(t, err)
		require.NoError(t, w.WriteByte('g'))
		require.NoError(t, w.Flush())

		n, err := f.WriteString("amma\n")
		require.NoError(t, err)
		assert.Equal(t, 5, n)

		_, err = f.Seek(0, io.SeekStart)
		require.NoError(t, err)

		var lines []string
		sc := bufio.NewScanner(f)
		for sc.Scan() {
			lines = append(lines, sc.Text())
		}
		require.NoError(t, sc.Err())
		assert.Equal(t, []string{"alpha", "beta", "gamma"}, lines)

		_, err = f.Seek(-5, io.SeekEnd)
		require.NoError(t, err)
		b, err := f.ReadByte()
		require.NoError(t, err)
		assert.Equal(t, byte('a'), b)

		n, err = f.Read(nil)
		require.NoError(t, err)
		assert.Zero(t, n)
		require.NoError(t, f.Close())
	})
}

func TestReaderShortThenEOF(t *testing.T) {
	c := memory.New()
	writeFile(t, c, "/f", "abc")
	f := mustOpen(t, c, "/f", "r")

	buf := make([]byte, 8)
	n, err := f.Read(buf)
	require.NoError(t, err)
	assert.Equal(t, 3, n)

	n, err = f.Read(buf)
	assert.Equal(t, io.EOF, err)
	assert.Zero(t, n)

	var sb strings.Builder
	_, err = f.Seek(0, io.SeekStart)
	require.NoError(t, err)
	_, err = io.Copy(&sb, f)
	require.NoError(t, err)
	assert.Equal(t, "abc", sb.String())
	require.NoError(t, f.Close())
}
