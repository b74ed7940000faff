package vfile

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"strings"
)

// scanChunk is the first line buffer size tried by Scanf.
const scanChunk = 128

// Printf formats according to format and writes the result with Puts. It
// returns the number of bytes written.
func (f *File) Printf(format string, args ...any) (int, error) {
	var buf bytes.Buffer
	fmt.Fprintf(&buf, format, args...)
	if err := f.Puts(buf.String()); err != nil {
		return 0, err
	}
	return buf.Len(), nil
}

// Scanf reads the next line and parses it with fmt.Sscanf. It returns the
// number of arguments successfully filled.
//
// If the file is at its end before anything is read, Scanf returns 0 and
// io.EOF. A final line without a newline is parsed normally and leaves the
// end-of-file flag set.
func (f *File) Scanf(format string, args ...any) (int, error) {
	const op = "scanf"
	line, err := f.readLine()
	if err != nil && (line == "" || !errors.Is(err, io.EOF)) {
		return 0, err
	}
	eof := f.eof

	n, err := fmt.Sscanf(line, format, args...)
	if err != nil {
		return n, f.fail(newError(KindValidation, op, f.path, err))
	}
	f.eof = eof
	f.succeed()
	return n, nil
}

// readLine collects one whole line through Gets, doubling the limit until a
// newline or the end of the file is reached.
func (f *File) readLine() (string, error) {
	var sb strings.Builder
	for limit := scanChunk; ; limit *= 2 {
		part, err := f.Gets(limit)
		sb.WriteString(part)
		if err != nil {
			if errors.Is(err, io.EOF) && sb.Len() > 0 {
				return sb.String(), io.EOF
			}
			return sb.String(), err
		}
		if strings.HasSuffix(part, "\n") {
			return sb.String(), nil
		}
	}
}
