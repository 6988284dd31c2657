package device

import "encoding/binary"

// apmSignature is the 2-byte big-endian signature ("PM") that opens an
// Apple Partition Map entry at 512-byte block 1 of a partitioned
// medium.
const apmSignature = 0x504D

// ProbePartitions reports the partition shape of a device: -1 means
// the medium is not partitioned, 0 means it is partitioned but this
// probe cannot resolve a usable count (the caller must name a
// partition), and n > 0 is the number of partition-map entries found.
//
// This is a read-only sniff of the classic Apple Partition Map, not a
// full partition driver; a real partition scanner belongs outside
// this module, but the whole-device-refusal policy in the driver
// needs at least this much structural signal from the core.
func ProbePartitions(h *Handle) (int, error) {
	block := make([]byte, 512)

	if err := h.Pread(512, block); err != nil {
		return -1, nil
	}

	if binary.BigEndian.Uint16(block[0:2]) != apmSignature {
		return -1, nil
	}

	count := binary.BigEndian.Uint32(block[4:8])
	if count == 0 {
		return 0, nil
	}

	return int(count), nil
}
