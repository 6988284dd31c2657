package journal

import "github.com/jotarandom/go-hfsutils/bytecodec"

// BlockListHeaderSize is the on-disk size of a transaction's Block
// List Header: bsize:2, numBlocks:2, checksum:4, reserved[32].
const BlockListHeaderSize = 2 + 2 + 4 + 32

// blockListChecksumOffset is the checksum field's offset within a
// Block List Header.
const blockListChecksumOffset = 4

// BlockInfoSize is the on-disk size of one Block Info entry: bnum:8,
// bsize:4, next:8.
const BlockInfoSize = 8 + 4 + 8

// BlockListHeader is the decoded header of one journal transaction.
type BlockListHeader struct {
	BSize     uint16
	NumBlocks uint16
	Checksum  uint32
}

// DecodeBlockListHeader decodes and checksum-validates a Block List
// Header. buf must cover at least BlockListHeaderSize bytes. A
// checksum mismatch is reported as ErrJournalCorrupt; the decoded
// fields are still returned so the caller can log them.
func DecodeBlockListHeader(buf []byte) (BlockListHeader, error) {
	var b BlockListHeader

	if len(buf) < BlockListHeaderSize {
		return b, bytecodec.ErrOutOfRange
	}

	bsize, err := bytecodec.ReadU16BE(buf, 0)
	if err != nil {
		return b, err
	}

	numBlocks, err := bytecodec.ReadU16BE(buf, 2)
	if err != nil {
		return b, err
	}

	checksum, err := bytecodec.ReadU32BE(buf, blockListChecksumOffset)
	if err != nil {
		return b, err
	}

	b.BSize = bsize
	b.NumBlocks = numBlocks
	b.Checksum = checksum

	computed := Checksum32(buf[:BlockListHeaderSize], blockListChecksumOffset)
	if computed != checksum {
		return b, ErrJournalCorrupt
	}

	return b, nil
}

// BlockInfo is one decoded transaction entry: the volume block to
// write, its payload size, and the journal cursor value to adopt
// after processing it.
type BlockInfo struct {
	BNum  uint64
	BSize uint32
	Next  uint64
}

// DecodeBlockInfo decodes a Block Info entry. buf must cover at least
// BlockInfoSize bytes.
func DecodeBlockInfo(buf []byte) (BlockInfo, error) {
	var b BlockInfo

	if len(buf) < BlockInfoSize {
		return b, bytecodec.ErrOutOfRange
	}

	bnum, err := bytecodec.ReadU64BE(buf, 0)
	if err != nil {
		return b, err
	}

	bsize, err := bytecodec.ReadU32BE(buf, 8)
	if err != nil {
		return b, err
	}

	next, err := bytecodec.ReadU64BE(buf, 12)
	if err != nil {
		return b, err
	}

	b.BNum = bnum
	b.BSize = bsize
	b.Next = next

	return b, nil
}
