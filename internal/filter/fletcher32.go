package filter

import (
	"fmt"

	"github.com/robert-malhotra/go-vfile/internal/checksum"
)

// Fletcher32 appends a Fletcher-32 checksum on encode and verifies and strips
// it on decode.
type Fletcher32 struct{}

// NewFletcher32 creates a Fletcher-32 filter.
func NewFletcher32() *Fletcher32 {
	return &Fletcher32{}
}

func (f *Fletcher32) ID() uint16 { return IDFletcher32 }

func (f *Fletcher32) Optional() bool { return false }

func (f *Fletcher32) Encode(input []byte) ([]byte, error) {
	out := make([]byte, len(input), len(input)+4)
	copy(out, input)
	return checksum.Append(out, checksum.Fletcher32(input)), nil
}

// Decode verifies the trailing checksum and returns the data without it.
func (f *Fletcher32) Decode(input []byte) ([]byte, error) {
	data, stored, ok := checksum.Split(input)
	if !ok {
		return nil, fmt.Errorf("fletcher32: input too short for checksum")
	}

	if computed := checksum.Fletcher32(data); stored != computed {
		return nil, fmt.Errorf("fletcher32: checksum mismatch (stored=0x%08x, computed=0x%08x)",
			stored, computed)
	}
	return data, nil
}
