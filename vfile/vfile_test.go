package vfile

import (
	"io"
	"path/filepath"
	"testing"

	"github.com/go-git/go-billy/v5/memfs"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/require"

	"github.com/robert-malhotra/go-vfile/container"
	"github.com/robert-malhotra/go-vfile/container/billyfs"
	"github.com/robert-malhotra/go-vfile/container/bolt"
	"github.com/robert-malhotra/go-vfile/container/memory"
)

var quiet = func() logrus.FieldLogger {
	l := logrus.New()
	l.SetOutput(io.Discard)
	return l
}()

type backend struct {
	name string
	open func(t *testing.T) container.Container
}

var backends = []backend{
	{"memory", func(t *testing.T) container.Container {
		return memory.New(memory.WithChunkSize(16))
	}},
	{"bolt", func(t *testing.T) container.Container {
		c, err := bolt.Open(filepath.Join(t.TempDir(), "vfile.db"),
			bolt.WithChunkSize(16), bolt.WithCompression("zstd", 3), bolt.WithChecksum(), bolt.WithLogger(quiet))
		require.NoError(t, err)
		t.Cleanup(func() { c.Close() })
		return c
	}},
	{"billy", func(t *testing.T) container.Container {
		return billyfs.New(memfs.New(), billyfs.WithLogger(quiet))
	}},
}

// eachBackend runs fn once per container backend.
func eachBackend(t *testing.T, fn func(t *testing.T, c container.Container)) {
	for _, b := range backends {
		t.Run(b.name, func(t *testing.T) {
			fn(t, b.open(t))
		})
	}
}

func mustOpen(t *testing.T, c container.Container, path, mode string) *File {
	t.Helper()
	f, err := Open(c, path, mode, WithLogger(quiet))
	require.NoError(t, err)
	return f
}

// writeFile creates path holding content and closes it.
func writeFile(t *testing.T, c container.Container, path, content string) {
	t.Helper()
	f := mustOpen(t, c, path, "w")
	require.NoError(t, f.Puts(content))
	require.NoError(t, f.Close())
}
