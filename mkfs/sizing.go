package mkfs

// maxHFSAllocationBlocks is the ceiling on drNmAlBlks: HFS allocation
// block numbers are 16 bits wide.
const maxHFSAllocationBlocks = 65535

// HFSSizing is the resolved set of geometry decisions mkfs makes for a
// classic HFS volume before any bytes are written.
type HFSSizing struct {
	BlockSize      uint32
	TotalBlocks    uint32
	CatalogBlocks  uint32
	ExtentsBlocks  uint32
	BitmapBlocks   uint32
	AllocationStart uint16 // drAlBlSt, in 512-byte sectors
}

// HFSPlusSizing is the resolved set of geometry decisions mkfs makes
// for an HFS+ volume before any bytes are written.
type HFSPlusSizing struct {
	BlockSize        uint32
	TotalBlocks      uint32
	CatalogBlocks    uint32
	ExtentsBlocks    uint32
	AttributesBlocks uint32
	AllocationBlocks uint32
}

func roundUp512(n uint64) uint64 {
	return (n + 511) / 512 * 512
}

func ceilDiv(a, b uint64) uint64 {
	return (a + b - 1) / b
}

// ComputeHFSSizing applies the HFS sizing policy: a default block
// size derived from the device size, capped allocation
// block count (recomputing the block size if the cap is exceeded),
// and a catalog file sized to the volume's scale.
func ComputeHFSSizing(deviceSize uint64, blockSizeOverride uint32) HFSSizing {
	blockSize := uint64(blockSizeOverride)
	if blockSize == 0 {
		if deviceSize <= 32*1024*1024 {
			blockSize = 512
		} else {
			blockSize = roundUp512(deviceSize / 65536)
		}
	}

	totalBlocks := deviceSize / blockSize
	if totalBlocks > maxHFSAllocationBlocks {
		blockSize = roundUp512(ceilDiv(deviceSize, maxHFSAllocationBlocks))
		totalBlocks = deviceSize / blockSize

		if totalBlocks > maxHFSAllocationBlocks {
			totalBlocks = maxHFSAllocationBlocks
		}
	}

	catalogBlocks := ceilDiv(totalBlocks, 250)
	if catalogBlocks < 4 {
		catalogBlocks = 4
	}

	extentsBlocks := uint64(1)

	bitmapBytes := ceilDiv(totalBlocks, 8)
	bitmapSectors := ceilDiv(bitmapBytes, 512)
	bitmapBlocks := ceilDiv(bitmapSectors*512, blockSize)
	if bitmapBlocks == 0 {
		bitmapBlocks = 1
	}

	return HFSSizing{
		BlockSize:       uint32(blockSize),
		TotalBlocks:     uint32(totalBlocks),
		CatalogBlocks:   uint32(catalogBlocks),
		ExtentsBlocks:   uint32(extentsBlocks),
		BitmapBlocks:    uint32(bitmapBlocks),
		AllocationStart: uint16(3 + bitmapSectors),
	}
}

// ComputeHFSPlusSizing applies the HFS+ sizing policy.
func ComputeHFSPlusSizing(deviceSize uint64, blockSizeOverride uint32) HFSPlusSizing {
	blockSize := uint64(blockSizeOverride)
	if blockSize == 0 {
		if deviceSize > 1024*1024*1024 {
			blockSize = 4096
		} else {
			blockSize = 512
		}
	}

	totalBlocks := deviceSize / blockSize

	allocationBytes := ceilDiv(totalBlocks, 8)
	allocationBlocks := ceilDiv(allocationBytes, blockSize)
	if allocationBlocks == 0 {
		allocationBlocks = 1
	}

	catalogBlocks := ceilDiv(totalBlocks, 2500)
	if catalogBlocks < 4 {
		catalogBlocks = 4
	}

	return HFSPlusSizing{
		BlockSize:        uint32(blockSize),
		TotalBlocks:       uint32(totalBlocks),
		CatalogBlocks:     uint32(catalogBlocks),
		ExtentsBlocks:     1,
		AttributesBlocks:  1,
		AllocationBlocks:  uint32(allocationBlocks),
	}
}
