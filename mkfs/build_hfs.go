package mkfs

import (
	"time"

	"github.com/jotarandom/go-hfsutils/bytecodec"
	"github.com/jotarandom/go-hfsutils/btree"
	"github.com/jotarandom/go-hfsutils/device"
	"github.com/jotarandom/go-hfsutils/volume"
)

// hfsNodeSize is the fixed B-tree node size classic HFS uses, always
// 512 regardless of the volume's allocation block size.
const hfsNodeSize = 512

// buildHFS lays down a complete classic HFS volume in construction
// order: boot blocks, MDB, volume bitmap, empty catalog and extents
// files, alternate MDB, sync.
func buildHFS(h *device.Handle, label string, sizing HFSSizing, now time.Time) error {
	bootBlocks := make([]byte, 1024)
	bootBlocks[0] = 'L'
	bootBlocks[1] = 'K'

	if err := h.Pwrite(0, bootBlocks); err != nil {
		return err
	}

	bitmapSectors := uint64(sizing.BitmapBlocks) * uint64(sizing.BlockSize) / 512
	if bitmapSectors == 0 {
		bitmapSectors = 1
	}

	vbmStart := uint16(3)
	alBlSt := uint16(3 + bitmapSectors)

	catalogExtent := volume.Extent{StartBlock: sizing.ExtentsBlocks, BlockCount: sizing.CatalogBlocks}
	extentsExtent := volume.Extent{StartBlock: 0, BlockCount: sizing.ExtentsBlocks}

	nowMac := bytecodec.PosixToMac(now.Unix())

	mdb := volume.MDB{
		DrSigWord:  volume.MDBSignature,
		DrCrDate:   nowMac,
		DrLsMod:    nowMac,
		DrAtrb:     volume.AtrbUnmountedCleanly,
		DrVBMSt:    vbmStart,
		DrAllocPtr: 0,
		DrNmAlBlks: uint16(sizing.TotalBlocks),
		DrAlBlkSiz: sizing.BlockSize,
		DrClpSiz:   sizing.BlockSize * 4,
		DrAlBlSt:   alBlSt,
		DrNxtCNID:  volume.CNIDFirstUser,
		DrFreeBks:  uint16(sizing.TotalBlocks) - uint16(sizing.ExtentsBlocks) - uint16(sizing.CatalogBlocks),
		DrVN:       label,
		DrVolBkUp:  0,
		DrVSeqNum:  0,
		DrWrCnt:    0,
		DrXTClpSiz: sizing.BlockSize,
		DrCTClpSiz: sizing.BlockSize,
		DrNmRtDirs: 0,
		DrFilCnt:   0,
		DrDirCnt:   1,
		DrXTFlSize: sizing.ExtentsBlocks * sizing.BlockSize,
		DrXTExtRec: volume.HFSExtentRecord{extentsExtent},
		DrCTFlSize: sizing.CatalogBlocks * sizing.BlockSize,
		DrCTExtRec: volume.HFSExtentRecord{catalogExtent},
	}

	mdbBuf, err := volume.EncodeMDB(mdb)
	if err != nil {
		return err
	}

	if err := h.Pwrite(1024, mdbBuf); err != nil {
		return err
	}

	usedBlocks := sizing.ExtentsBlocks + sizing.CatalogBlocks

	bitmap := make([]byte, bitmapSectors*512)
	for i := uint32(0); i < usedBlocks; i++ {
		bitmap[i/8] |= 0x80 >> (i % 8)
	}

	if err := h.Pwrite(uint64(vbmStart)*512, bitmap); err != nil {
		return err
	}

	extentsHeaderBuf, err := btree.WriteHeaderNodeBytes(hfsNodeSize, 0xFF, 0xBC, sizing.BlockSize, 7)
	if err != nil {
		return err
	}

	extentsAt := uint64(extentsExtent.StartBlock)*uint64(sizing.BlockSize) + uint64(alBlSt)*512
	if err := writePadded(h, extentsAt, extentsHeaderBuf, uint64(sizing.ExtentsBlocks)*uint64(sizing.BlockSize)); err != nil {
		return err
	}

	catalogHeaderBuf, err := btree.WriteHeaderNodeBytes(hfsNodeSize, 0, 0xCF, sizing.BlockSize, 37)
	if err != nil {
		return err
	}

	catalogAt := uint64(catalogExtent.StartBlock)*uint64(sizing.BlockSize) + uint64(alBlSt)*512
	if err := writePadded(h, catalogAt, catalogHeaderBuf, uint64(sizing.CatalogBlocks)*uint64(sizing.BlockSize)); err != nil {
		return err
	}

	if err := h.Pwrite(volume.AlternateOffset(h.DeviceSize()), mdbBuf); err != nil {
		return err
	}

	return h.Sync()
}

// writePadded writes buf at off and zero-fills the remainder of a
// totalSize-byte region, so a freshly formatted system file never
// carries uninitialized bytes past its header node.
func writePadded(h *device.Handle, off uint64, buf []byte, totalSize uint64) error {
	if err := h.Pwrite(off, buf); err != nil {
		return err
	}

	remaining := totalSize - uint64(len(buf))
	if remaining == 0 {
		return nil
	}

	zero := make([]byte, remaining)

	return h.Pwrite(off+uint64(len(buf)), zero)
}
