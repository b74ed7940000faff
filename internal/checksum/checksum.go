// Package checksum provides the integrity checksums used by the container
// backends: Fletcher-32 for chunk payloads and Jenkins lookup3 for metadata
// records.
package checksum

import "encoding/binary"

// Lookup3 computes the Jenkins lookup3 (hashlittle) hash of data with an
// initial value of zero.
func Lookup3(data []byte) uint32 {
	initval := uint32(0xdeadbeef) + uint32(len(data))
	a, b, c := initval, initval, initval
	k := data

	// Strictly more than 12 bytes: the last 1-12 bytes always go through the
	// final mix, never the intermediate one.
	for len(k) > 12 {
		a += binary.LittleEndian.Uint32(k[0:4])
		b += binary.LittleEndian.Uint32(k[4:8])
		c += binary.LittleEndian.Uint32(k[8:12])
		a, b, c = mix(a, b, c)
		k = k[12:]
	}

	if len(k) == 0 {
		return c
	}

	for i, v := range k {
		shift := uint(i%4) * 8
		switch i / 4 {
		case 0:
			a += uint32(v) << shift
		case 1:
			b += uint32(v) << shift
		default:
			c += uint32(v) << shift
		}
	}

	_, _, c = final(a, b, c)
	return c
}

func mix(a, b, c uint32) (uint32, uint32, uint32) {
	a -= c
	a ^= rotl(c, 4)
	c += b
	b -= a
	b ^= rotl(a, 6)
	a += c
	c -= b
	c ^= rotl(b, 8)
	b += a
	a -= c
	a ^= rotl(c, 16)
	c += b
	b -= a
	b ^= rotl(a, 19)
	a += c
	c -= b
	c ^= rotl(b, 4)
	b += a
	return a, b, c
}

func final(a, b, c uint32) (uint32, uint32, uint32) {
	c ^= b
	c -= rotl(b, 14)
	a ^= c
	a -= rotl(c, 11)
	b ^= a
	b -= rotl(a, 25)
	c ^= b
	c -= rotl(b, 16)
	a ^= c
	a -= rotl(c, 4)
	b ^= a
	b -= rotl(a, 14)
	c ^= b
	c -= rotl(b, 24)
	return a, b, c
}

func rotl(x uint32, k uint) uint32 {
	return (x << k) | (x >> (32 - k))
}

// Fletcher32 computes the Fletcher-32 checksum of data read as little-endian
// 16-bit words. An odd trailing byte is padded with zero.
func Fletcher32(data []byte) uint32 {
	var sum1, sum2 uint32

	i := 0
	for ; i+1 < len(data); i += 2 {
		sum1 = (sum1 + uint32(binary.LittleEndian.Uint16(data[i:]))) % 65535
		sum2 = (sum2 + sum1) % 65535
	}
	if i < len(data) {
		sum1 = (sum1 + uint32(data[i])) % 65535
		sum2 = (sum2 + sum1) % 65535
	}

	return sum2<<16 | sum1
}

// Append appends the little-endian encoding of sum to b.
func Append(b []byte, sum uint32) []byte {
	return binary.LittleEndian.AppendUint32(b, sum)
}

// Split separates a payload from its trailing 4-byte little-endian checksum.
// ok is false when b is too short to carry one.
func Split(b []byte) (payload []byte, sum uint32, ok bool) {
	if len(b) < 4 {
		return nil, 0, false
	}
	n := len(b) - 4
	return b[:n], binary.LittleEndian.Uint32(b[n:]), true
}
