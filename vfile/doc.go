// Package vfile implements virtual files: byte-addressable, growable streams
// stored inside a container byte array.
//
// A virtual file reproduces classic stream semantics (open modes, positioned
// reads and writes, line and formatted I/O, truncation and growth, end of
// file and error flags) on top of three container primitives: resizing a
// byte array, windowed reads and writes against it, and string attributes
// attached to it.
//
// Every virtual file carries three attributes:
//
//	kind       "virtual-file"
//	writeable  "TRUE" or "FALSE", changed only while the file is closed
//	access     the numeric code of the mode it is open in, or 0
//
// The access attribute is a cooperative lock. Open refuses a file whose
// access is non-zero and Close resets it, so at most one handle exists for a
// file at a time as long as every caller goes through this package. A lock
// left behind by a process that never closed its handle stays in place until
// [ForceUnlock] clears it.
//
// A *File is not safe for concurrent use.
//
// Example:
//
//	c := memory.New()
//	f, err := vfile.Open(c, "/notes", "w+")
//	if err != nil {
//	    return err
//	}
//	f.Printf("%d %s\n", 42, "answer")
//	f.Rewind()
//	var n int
//	var s string
//	f.Scanf("%d %s", &n, &s)
//	f.Close()
package vfile
