package btree

import (
	"github.com/jotarandom/go-hfsutils/bytecodec"
)

// BTreeType values for BTHeaderRec.BTreeType.
const (
	BTreeTypeCatalog = 0x00
	BTreeTypeExtents = 0xFF
)

// KeyCompareType values for BTHeaderRec.KeyCompareType.
const (
	KeyCompareCaseFolding = 0xCF
	KeyCompareBinary      = 0xBC
)

// HeaderRecSize is the on-disk size of a BTHeaderRec, the first of the
// header node's three records.
const HeaderRecSize = 106

// BTHeaderRec is the B-tree header record.
type BTHeaderRec struct {
	TreeDepth     uint16
	RootNode      uint32
	LeafRecords   uint32
	FirstLeafNode uint32
	LastLeafNode  uint32
	NodeSize      uint16
	MaxKeyLength  uint16
	TotalNodes    uint32
	FreeNodes     uint32
	ClumpSize     uint32
	BTreeType     byte
	KeyCompareType byte
	Attributes    uint32
}

// DecodeBTHeaderRec decodes a BTHeaderRec from buf at off.
func DecodeBTHeaderRec(buf []byte, off int) (BTHeaderRec, error) {
	var h BTHeaderRec

	read16 := func(o int) (uint16, error) { return bytecodec.ReadU16BE(buf, off+o) }
	read32 := func(o int) (uint32, error) { return bytecodec.ReadU32BE(buf, off+o) }

	var err error

	if h.TreeDepth, err = read16(0); err != nil {
		return h, err
	}

	if h.RootNode, err = read32(2); err != nil {
		return h, err
	}

	if h.LeafRecords, err = read32(6); err != nil {
		return h, err
	}

	if h.FirstLeafNode, err = read32(10); err != nil {
		return h, err
	}

	if h.LastLeafNode, err = read32(14); err != nil {
		return h, err
	}

	if h.NodeSize, err = read16(18); err != nil {
		return h, err
	}

	if h.MaxKeyLength, err = read16(20); err != nil {
		return h, err
	}

	if h.TotalNodes, err = read32(22); err != nil {
		return h, err
	}

	if h.FreeNodes, err = read32(26); err != nil {
		return h, err
	}

	// reserved1 at +30, 2 bytes

	if h.ClumpSize, err = read32(32); err != nil {
		return h, err
	}

	if off+37 > len(buf) {
		return h, bytecodec.ErrOutOfRange
	}

	h.BTreeType = buf[off+36]
	h.KeyCompareType = buf[off+37]

	if h.Attributes, err = read32(38); err != nil {
		return h, err
	}

	// reserved3[16] (64 bytes) follows, not retained.

	return h, nil
}

// EncodeBTHeaderRec encodes h into a HeaderRecSize-byte record.
func EncodeBTHeaderRec(h BTHeaderRec) []byte {
	buf := make([]byte, HeaderRecSize)

	_ = bytecodec.WriteU16BE(buf, 0, h.TreeDepth)
	_ = bytecodec.WriteU32BE(buf, 2, h.RootNode)
	_ = bytecodec.WriteU32BE(buf, 6, h.LeafRecords)
	_ = bytecodec.WriteU32BE(buf, 10, h.FirstLeafNode)
	_ = bytecodec.WriteU32BE(buf, 14, h.LastLeafNode)
	_ = bytecodec.WriteU16BE(buf, 18, h.NodeSize)
	_ = bytecodec.WriteU16BE(buf, 20, h.MaxKeyLength)
	_ = bytecodec.WriteU32BE(buf, 22, h.TotalNodes)
	_ = bytecodec.WriteU32BE(buf, 26, h.FreeNodes)
	_ = bytecodec.WriteU32BE(buf, 32, h.ClumpSize)
	buf[36] = h.BTreeType
	buf[37] = h.KeyCompareType
	_ = bytecodec.WriteU32BE(buf, 38, h.Attributes)

	return buf
}
