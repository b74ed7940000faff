package filter

import (
	"fmt"

	"github.com/klauspost/compress/zstd"
)

// Zstd implements the Zstandard compression filter.
type Zstd struct {
	level zstd.EncoderLevel
}

// NewZstd creates a zstd filter. level uses the zstd command-line scale
// (1-22); zero selects the library default.
func NewZstd(level int) *Zstd {
	l := zstd.SpeedDefault
	if level > 0 {
		l = zstd.EncoderLevelFromZstd(level)
	}
	return &Zstd{level: l}
}

func (f *Zstd) ID() uint16 { return IDZstd }

func (f *Zstd) Optional() bool { return true }

func (f *Zstd) Encode(input []byte) ([]byte, error) {
	enc, err := zstd.NewWriter(nil, zstd.WithEncoderLevel(f.level))
	if err != nil {
		return nil, fmt.Errorf("zstd writer: %w", err)
	}
	defer enc.Close()
	return enc.EncodeAll(input, make([]byte, 0, len(input))), nil
}

func (f *Zstd) Decode(input []byte) ([]byte, error) {
	dec, err := zstd.NewReader(nil)
	if err != nil {
		return nil, fmt.Errorf("zstd reader: %w", err)
	}
	defer dec.Close()

	output, err := dec.DecodeAll(input, nil)
	if err != nil {
		return nil, fmt.Errorf("zstd decompress: %w", err)
	}
	return output, nil
}
