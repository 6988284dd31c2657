package journal

import "encoding/binary"

// Checksum32 computes the Block List Header's 32-bit big-endian
// word-sum checksum: sum buf as a sequence of big-endian uint32 words,
// treating the 4 bytes at checksumOffset as zero. buf's length must be
// a multiple of 4.
func Checksum32(buf []byte, checksumOffset int) uint32 {
	var sum uint32

	for i := 0; i+4 <= len(buf); i += 4 {
		if i == checksumOffset {
			continue
		}

		sum += binary.BigEndian.Uint32(buf[i : i+4])
	}

	return sum
}
