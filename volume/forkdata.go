package volume

import (
	"fmt"

	"github.com/jotarandom/go-hfsutils/bytecodec"
)

// ExtentCount is the number of extent descriptors inline in a ForkData
// record. A fork needing more extents overflows into the Extents
// Overflow B-tree.
const ExtentCount = 8

// Extent is a contiguous range of allocation blocks assigned to a fork.
// A BlockCount of zero terminates the extent list for that fork.
type Extent struct {
	StartBlock uint32
	BlockCount uint32
}

// ForkData is the 80-byte HFS+ fork descriptor: logical size, clump
// size, total allocated blocks, and up to 8 inline extents.
type ForkData struct {
	LogicalSize uint64
	ClumpSize   uint32
	TotalBlocks uint32
	Extents     [ExtentCount]Extent
}

// ForkDataSize is the fixed on-disk size of a ForkData record.
const ForkDataSize = 80

// DecodeForkData decodes an 80-byte ForkData record at off in buf.
func DecodeForkData(buf []byte, off int) (ForkData, error) {
	var fd ForkData

	logicalSize, err := bytecodec.ReadU64BE(buf, off)
	if err != nil {
		return fd, err
	}

	clumpSize, err := bytecodec.ReadU32BE(buf, off+8)
	if err != nil {
		return fd, err
	}

	totalBlocks, err := bytecodec.ReadU32BE(buf, off+12)
	if err != nil {
		return fd, err
	}

	fd.LogicalSize = logicalSize
	fd.ClumpSize = clumpSize
	fd.TotalBlocks = totalBlocks

	extentsOff := off + 16

	for i := 0; i < ExtentCount; i++ {
		start, err := bytecodec.ReadU32BE(buf, extentsOff+i*8)
		if err != nil {
			return fd, err
		}

		count, err := bytecodec.ReadU32BE(buf, extentsOff+i*8+4)
		if err != nil {
			return fd, err
		}

		fd.Extents[i] = Extent{StartBlock: start, BlockCount: count}
	}

	return fd, nil
}

// EncodeForkData writes fd as an 80-byte ForkData record at off in buf.
func EncodeForkData(buf []byte, off int, fd ForkData) error {
	if err := bytecodec.WriteU64BE(buf, off, fd.LogicalSize); err != nil {
		return err
	}

	if err := bytecodec.WriteU32BE(buf, off+8, fd.ClumpSize); err != nil {
		return err
	}

	if err := bytecodec.WriteU32BE(buf, off+12, fd.TotalBlocks); err != nil {
		return err
	}

	extentsOff := off + 16

	for i, e := range fd.Extents {
		if err := bytecodec.WriteU32BE(buf, extentsOff+i*8, e.StartBlock); err != nil {
			return err
		}

		if err := bytecodec.WriteU32BE(buf, extentsOff+i*8+4, e.BlockCount); err != nil {
			return err
		}
	}

	return nil
}

// Validate checks the fork's invariants, recording any fault on fs.
// field names the fork for error messages (e.g. "catalogFile").
func (fd ForkData) Validate(fs *Findings, field string) {
	if fd.TotalBlocks == 0 && fd.LogicalSize != 0 {
		fs.Add(Finding{
			Severity: Repairable,
			Field:    field,
			Message:  fmt.Sprintf("fork has logical size %d but zero allocated blocks", fd.LogicalSize),
		})
	}
}

// HFSExtentRecord is the three-entry {startBlock:2, blockCount:2} array
// used by the classic HFS MDB for the extents and catalog files'
// initial extents (drXTExtRec / drCTExtRec).
type HFSExtentRecord [3]Extent

// DecodeHFSExtentRecord decodes a 12-byte HFS extent record at off.
func DecodeHFSExtentRecord(buf []byte, off int) (HFSExtentRecord, error) {
	var rec HFSExtentRecord

	for i := 0; i < 3; i++ {
		start, err := bytecodec.ReadU16BE(buf, off+i*4)
		if err != nil {
			return rec, err
		}

		count, err := bytecodec.ReadU16BE(buf, off+i*4+2)
		if err != nil {
			return rec, err
		}

		rec[i] = Extent{StartBlock: uint32(start), BlockCount: uint32(count)}
	}

	return rec, nil
}

// EncodeHFSExtentRecord writes rec as a 12-byte HFS extent record at
// off.
func EncodeHFSExtentRecord(buf []byte, off int, rec HFSExtentRecord) error {
	for i, e := range rec {
		if err := bytecodec.WriteU16BE(buf, off+i*4, uint16(e.StartBlock)); err != nil {
			return err
		}

		if err := bytecodec.WriteU16BE(buf, off+i*4+2, uint16(e.BlockCount)); err != nil {
			return err
		}
	}

	return nil
}
