package bolt

import (
	"encoding/binary"
	"fmt"

	"github.com/robert-malhotra/go-vfile/internal/checksum"
	"github.com/robert-malhotra/go-vfile/internal/filter"
)

const metaVersion = 1

// meta is the per-array record stored under metaKey:
//
//	version   uint8
//	extent    uint64
//	chunkSize uint32
//	nfilters  uint8
//	filters   nfilters x (id uint16, level uint8)
//	checksum  uint32 (lookup3 of everything before it)
//
// All integers are little-endian.
type meta struct {
	extent    int64
	chunkSize int
	filters   []filter.Spec
}

func (m meta) encode() []byte {
	b := make([]byte, 0, 18+3*len(m.filters))
	b = append(b, metaVersion)
	b = binary.LittleEndian.AppendUint64(b, uint64(m.extent))
	b = binary.LittleEndian.AppendUint32(b, uint32(m.chunkSize))
	b = append(b, byte(len(m.filters)))
	for _, f := range m.filters {
		b = binary.LittleEndian.AppendUint16(b, f.ID)
		b = append(b, byte(f.Level))
	}
	return checksum.Append(b, checksum.Lookup3(b))
}

func decodeMeta(raw []byte) (meta, error) {
	body, sum, ok := checksum.Split(raw)
	if !ok || len(body) < 14 {
		return meta{}, fmt.Errorf("meta record truncated (%d bytes)", len(raw))
	}
	if got := checksum.Lookup3(body); got != sum {
		return meta{}, fmt.Errorf("meta checksum mismatch (stored=0x%08x, computed=0x%08x)", sum, got)
	}
	if body[0] != metaVersion {
		return meta{}, fmt.Errorf("unsupported meta version %d", body[0])
	}

	m := meta{
		extent:    int64(binary.LittleEndian.Uint64(body[1:9])),
		chunkSize: int(binary.LittleEndian.Uint32(body[9:13])),
	}
	n := int(body[13])
	rest := body[14:]
	if len(rest) != 3*n {
		return meta{}, fmt.Errorf("meta record has %d filter bytes, want %d", len(rest), 3*n)
	}
	for i := 0; i < n; i++ {
		e := rest[3*i:]
		m.filters = append(m.filters, filter.Spec{
			ID:    binary.LittleEndian.Uint16(e),
			Level: int(e[2]),
		})
	}
	if m.chunkSize <= 0 {
		return meta{}, fmt.Errorf("meta record has chunk size %d", m.chunkSize)
	}
	return m, nil
}
