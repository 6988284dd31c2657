// Package btree implements the fixed-size-node B-tree engine shared by
// the HFS/HFS+ Catalog, Extents Overflow, and Attributes B-trees. It
// is parametric over key-compare strategy so a single implementation
// serves all four key families.
package btree

import (
	"fmt"

	"github.com/jotarandom/go-hfsutils/bytecodec"
)

// NodeKind is the one-byte node-descriptor kind field.
type NodeKind byte

const (
	KindIndex  NodeKind = 0x00
	KindHeader NodeKind = 0x01
	KindMap    NodeKind = 0x02
	KindLeaf   NodeKind = 0xFF
)

func (k NodeKind) String() string {
	switch k {
	case KindIndex:
		return "index"
	case KindHeader:
		return "header"
	case KindMap:
		return "map"
	case KindLeaf:
		return "leaf"
	default:
		return fmt.Sprintf("unknown(0x%02X)", byte(k))
	}
}

// IsValid reports whether k is one of the four legal node kinds.
func (k NodeKind) IsValid() bool {
	switch k {
	case KindIndex, KindHeader, KindMap, KindLeaf:
		return true
	default:
		return false
	}
}

// DescriptorSize is the fixed size of a node descriptor, the first 14
// bytes of every node.
const DescriptorSize = 14

// Descriptor is the 14-byte header present at the start of every node.
type Descriptor struct {
	FLink      uint32
	BLink      uint32
	Kind       NodeKind
	Height     uint8
	NumRecords uint16
}

// DecodeDescriptor decodes the 14-byte node descriptor at the start of
// buf.
func DecodeDescriptor(buf []byte) (Descriptor, error) {
	var d Descriptor

	fLink, err := bytecodec.ReadU32BE(buf, 0)
	if err != nil {
		return d, err
	}

	bLink, err := bytecodec.ReadU32BE(buf, 4)
	if err != nil {
		return d, err
	}

	if len(buf) < DescriptorSize {
		return d, fmt.Errorf("btree: node shorter than descriptor size")
	}

	numRecords, err := bytecodec.ReadU16BE(buf, 10)
	if err != nil {
		return d, err
	}

	d.FLink = fLink
	d.BLink = bLink
	d.Kind = NodeKind(buf[8])
	d.Height = buf[9]
	d.NumRecords = numRecords

	return d, nil
}

// EncodeDescriptor writes d as the 14-byte node descriptor at the start
// of buf.
func EncodeDescriptor(buf []byte, d Descriptor) error {
	if err := bytecodec.WriteU32BE(buf, 0, d.FLink); err != nil {
		return err
	}

	if err := bytecodec.WriteU32BE(buf, 4, d.BLink); err != nil {
		return err
	}

	if len(buf) < DescriptorSize {
		return fmt.Errorf("btree: node shorter than descriptor size")
	}

	buf[8] = byte(d.Kind)
	buf[9] = d.Height

	return bytecodec.WriteU16BE(buf, 10, d.NumRecords)
}

// Node is a fully-decoded, fixed-size B-tree node: its descriptor and
// the byte-range of every record, located via the reversed offset
// table at the tail of the node.
type Node struct {
	Descriptor Descriptor
	Records    [][]byte
	raw        []byte
}

// DecodeNode parses buf (exactly nodeSize bytes) into descriptor and
// records. Offsets are validated to be non-decreasing and within
// bounds.
func DecodeNode(buf []byte, nodeSize int) (Node, error) {
	var n Node

	if len(buf) != nodeSize {
		return n, fmt.Errorf("btree: node buffer length %d does not match node size %d", len(buf), nodeSize)
	}

	desc, err := DecodeDescriptor(buf)
	if err != nil {
		return n, err
	}

	n.Descriptor = desc
	n.raw = buf

	numRecords := int(desc.NumRecords)
	if numRecords < 0 || DescriptorSize+2*(numRecords+1) > nodeSize {
		return n, fmt.Errorf("btree: %d records does not fit in a %d-byte node", numRecords, nodeSize)
	}

	// The offset table holds numRecords+1 big-endian 2-byte offsets in
	// reverse order at the tail of the node: table[0] is the free-space
	// offset, table[numRecords] is record 0's start (== DescriptorSize).
	offsets := make([]uint16, numRecords+1)

	for i := 0; i <= numRecords; i++ {
		tableOff := nodeSize - 2*(i+1)

		v, err := bytecodec.ReadU16BE(buf, tableOff)
		if err != nil {
			return n, err
		}

		offsets[i] = v
	}

	records := make([][]byte, numRecords)
	low := uint16(DescriptorSize)

	for i := 0; i < numRecords; i++ {
		// offsets is stored last-to-first; record i's start is
		// offsets[numRecords-i], its end is offsets[numRecords-i-1].
		start := offsets[numRecords-i]
		end := offsets[numRecords-i-1]

		if start < low || start > end || int(end) > nodeSize {
			return n, fmt.Errorf("btree: record %d has invalid offsets [%d:%d]", i, start, end)
		}

		records[i] = buf[start:end]
		low = end
	}

	n.Records = records

	return n, nil
}

// EncodeNode serializes a node descriptor and a list of already-built
// record byte-slices into a nodeSize-byte buffer, writing the offset
// table at the tail.
func EncodeNode(nodeSize int, desc Descriptor, records [][]byte) ([]byte, error) {
	buf := make([]byte, nodeSize)

	desc.NumRecords = uint16(len(records))

	if err := EncodeDescriptor(buf, desc); err != nil {
		return nil, err
	}

	offsets := make([]uint16, len(records)+1)
	cursor := uint16(DescriptorSize)
	offsets[0] = cursor

	for i, rec := range records {
		if int(cursor)+len(rec) > nodeSize {
			return nil, fmt.Errorf("btree: records do not fit in a %d-byte node", nodeSize)
		}

		copy(buf[cursor:], rec)
		cursor += uint16(len(rec))
		offsets[i+1] = cursor
	}

	tableBytes := 2 * (len(records) + 1)
	if int(cursor)+tableBytes > nodeSize {
		return nil, fmt.Errorf("btree: records plus offset table do not fit in a %d-byte node", nodeSize)
	}

	// offsets is in record order (offsets[0] == 14, offsets[n] == free
	// space). The on-disk table is the reverse of that: physical entry
	// e (at nodeSize-2*(e+1)) holds offsets[numRecords-e], so the first
	// table entry (e=0, highest address) is the free-space offset and
	// the last table entry (e=numRecords, lowest address) is record 0's
	// start.
	numRecords := len(records)

	for e := 0; e <= numRecords; e++ {
		tableOff := nodeSize - 2*(e+1)

		if err := bytecodec.WriteU16BE(buf, tableOff, offsets[numRecords-e]); err != nil {
			return nil, err
		}
	}

	return buf, nil
}
