// Package containertest provides a conformance test suite for container
// backends.
//
// Each backend package runs the suite against fresh instances:
//
//	func TestConformance(t *testing.T) {
//	    containertest.TestSuite(t, func(t *testing.T) container.Container {
//	        return memory.New()
//	    })
//	}
package containertest

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/robert-malhotra/go-vfile/container"
)

// Factory returns a fresh, empty, writable container. It may register
// cleanup on t.
type Factory func(t *testing.T) container.Container

// TestSuite runs every conformance test against containers from newC.
func TestSuite(t *testing.T, newC Factory) {
	t.Run("Root", func(t *testing.T) { TestRoot(t, newC(t)) })
	t.Run("Groups", func(t *testing.T) { TestGroups(t, newC(t)) })
	t.Run("InvalidPaths", func(t *testing.T) { TestInvalidPaths(t, newC(t)) })
	t.Run("Bytes", func(t *testing.T) { TestBytes(t, newC(t)) })
	t.Run("Windows", func(t *testing.T) { TestWindows(t, newC(t)) })
	t.Run("Attributes", func(t *testing.T) { TestAttributes(t, newC(t)) })
	t.Run("Delete", func(t *testing.T) { TestDelete(t, newC(t)) })
	t.Run("Walk", func(t *testing.T) { TestWalk(t, newC(t)) })
}

// TestRoot checks the state of a fresh container.
func TestRoot(t *testing.T, c container.Container) {
	assert.True(t, c.Writable())

	typ, err := c.Stat("/")
	require.NoError(t, err)
	assert.Equal(t, container.TypeGroup, typ)

	members, err := c.Members("/")
	require.NoError(t, err)
	assert.Empty(t, members)

	_, err = c.Stat("/missing")
	assert.ErrorIs(t, err, container.ErrNotFound)

	ok, err := container.Exists(c, "/missing")
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, c.Flush())
}

// TestGroups checks group creation and listing.
func TestGroups(t *testing.T, c container.Container) {
	require.NoError(t, c.CreateGroup("/b"))
	require.NoError(t, c.CreateGroup("/a"))
	require.NoError(t, c.CreateGroup("/a/inner"))

	members, err := c.Members("/")
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "b"}, members)

	members, err = c.Members("/a")
	require.NoError(t, err)
	assert.Equal(t, []string{"inner"}, members)

	typ, err := c.Stat("/a/inner")
	require.NoError(t, err)
	assert.Equal(t, container.TypeGroup, typ)

	assert.ErrorIs(t, c.CreateGroup("/a"), container.ErrExists)
	assert.ErrorIs(t, c.CreateGroup("/nope/child"), container.ErrNotFound)

	_, err = c.CreateBytes("/a/data", 0)
	require.NoError(t, err)
	assert.ErrorIs(t, c.CreateGroup("/a/data/sub"), container.ErrNotGroup)

	_, err = c.Members("/a/data")
	assert.ErrorIs(t, err, container.ErrNotGroup)
}

// TestInvalidPaths checks path validation.
func TestInvalidPaths(t *testing.T, c container.Container) {
	for _, p := range []string{"relative", "/trailing/", "/double//slash", "/dot/."} {
		t.Run(p, func(t *testing.T) {
			_, err := c.CreateBytes(p, 0)
			assert.ErrorIs(t, err, container.ErrInvalidPath)
		})
	}
}

// TestBytes checks creation, resize and reopen of byte arrays.
func TestBytes(t *testing.T, c container.Container) {
	a, err := c.CreateBytes("/data", 16)
	require.NoError(t, err)
	assert.Equal(t, "/data", a.Path())

	n, err := a.Extent()
	require.NoError(t, err)
	assert.Zero(t, n)

	_, err = c.CreateBytes("/data", 16)
	assert.ErrorIs(t, err, container.ErrExists)

	require.NoError(t, a.Resize(11))
	_, err = a.WriteAt([]byte("hello world"), 0)
	require.NoError(t, err)

	b, err := c.OpenBytes("/data")
	require.NoError(t, err)
	n, err = b.Extent()
	require.NoError(t, err)
	assert.Equal(t, int64(11), n)

	got := make([]byte, 5)
	_, err = b.ReadAt(got, 6)
	require.NoError(t, err)
	assert.Equal(t, []byte("world"), got)

	require.NoError(t, b.Resize(5))
	n, err = a.Extent()
	require.NoError(t, err)
	assert.Equal(t, int64(5), n)

	got = make([]byte, 5)
	_, err = a.ReadAt(got, 0)
	require.NoError(t, err)
	assert.Equal(t, []byte("hello"), got)

	require.NoError(t, c.CreateGroup("/grp"))
	_, err = c.OpenBytes("/grp")
	assert.ErrorIs(t, err, container.ErrNotBytes)
	_, err = c.OpenBytes("/absent")
	assert.ErrorIs(t, err, container.ErrNotFound)
	_, err = c.CreateBytes("/data/child", 0)
	assert.ErrorIs(t, err, container.ErrNotGroup)
}

// TestWindows checks window bounds and multi-chunk transfers.
func TestWindows(t *testing.T, c container.Container) {
	a, err := c.CreateBytes("/w", 7)
	require.NoError(t, err)

	payload := bytes.Repeat([]byte("0123456789abcdef"), 40)
	require.NoError(t, a.Resize(int64(len(payload))+3))

	_, err = a.WriteAt(payload, 3)
	require.NoError(t, err)

	got := make([]byte, len(payload))
	_, err = a.ReadAt(got, 3)
	require.NoError(t, err)
	assert.Equal(t, payload, got)

	_, err = a.WriteAt([]byte("xy"), int64(len(payload))+2)
	assert.ErrorIs(t, err, container.ErrOutOfRange)
	_, err = a.ReadAt(make([]byte, 4), int64(len(payload)))
	assert.ErrorIs(t, err, container.ErrOutOfRange)
	_, err = a.ReadAt(make([]byte, 1), -1)
	assert.ErrorIs(t, err, container.ErrOutOfRange)

	// Zero-length windows at the end are in range.
	_, err = a.ReadAt(nil, int64(len(payload))+3)
	assert.NoError(t, err)
}

// TestAttributes checks attribute get, set and listing.
func TestAttributes(t *testing.T, c container.Container) {
	a, err := c.CreateBytes("/attrs", 0)
	require.NoError(t, err)

	_, ok, err := a.Attr("kind")
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, a.SetAttr("kind", "virtual-file"))
	require.NoError(t, a.SetAttr("access", "2"))
	require.NoError(t, a.SetAttr("access", "0"))

	b, err := c.OpenBytes("/attrs")
	require.NoError(t, err)

	v, ok, err := b.Attr("access")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "0", v)

	names, err := b.Attrs()
	require.NoError(t, err)
	assert.Equal(t, []string{"access", "kind"}, names)

	// Attributes are independent of the array contents.
	require.NoError(t, b.Resize(3))
	v, _, err = a.Attr("kind")
	require.NoError(t, err)
	assert.Equal(t, "virtual-file", v)
}

// TestDelete checks removal of arrays and groups.
func TestDelete(t *testing.T, c container.Container) {
	require.NoError(t, c.CreateGroup("/g"))
	_, err := c.CreateBytes("/g/one", 0)
	require.NoError(t, err)
	a, err := c.CreateBytes("/two", 0)
	require.NoError(t, err)
	require.NoError(t, a.SetAttr("kind", "x"))

	require.NoError(t, c.Delete("/two"))
	_, err = c.Stat("/two")
	assert.ErrorIs(t, err, container.ErrNotFound)

	// A deleted name can be reused and starts empty.
	b, err := c.CreateBytes("/two", 0)
	require.NoError(t, err)
	_, ok, err := b.Attr("kind")
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, c.Delete("/g"))
	_, err = c.Stat("/g/one")
	assert.ErrorIs(t, err, container.ErrNotFound)

	assert.ErrorIs(t, c.Delete("/g"), container.ErrNotFound)
	assert.Error(t, c.Delete("/"))
}

// TestWalk checks traversal order.
func TestWalk(t *testing.T, c container.Container) {
	require.NoError(t, c.CreateGroup("/z"))
	require.NoError(t, c.CreateGroup("/a"))
	_, err := c.CreateBytes("/a/f", 0)
	require.NoError(t, err)
	_, err = c.CreateBytes("/m", 0)
	require.NoError(t, err)

	var seen []string
	err = container.Walk(c, "/", func(path string, typ container.ObjectType, err error) error {
		require.NoError(t, err)
		seen = append(seen, typ.String()+":"+path)
		return nil
	})
	require.NoError(t, err)
	assert.Equal(t, []string{"group:/", "group:/a", "bytes:/a/f", "bytes:/m", "group:/z"}, seen)

	var count int
	err = container.Walk(c, "/", func(string, container.ObjectType, error) error {
		count++
		if count == 2 {
			return container.ErrStopWalk
		}
		return nil
	})
	require.NoError(t, err)
	assert.Equal(t, 2, count)
}
