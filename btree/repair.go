package btree

import (
	"github.com/jotarandom/go-hfsutils/volume"
)

// ValidateHeader checks a decoded BTHeaderRec against the bounded set
// of repairs a B-tree header allows: rootNode/firstLeafNode/lastLeafNode
// clamped into [0, totalNodes), freeNodes recomputed from the supplied
// bitmap, and nodeSize coerced to the measured value. totalNodes and
// measuredNodeSize come from the accessor's fork size, not the header
// itself, since a corrupt header cannot be trusted to report its own
// extent.
func ValidateHeader(h *BTHeaderRec, fs *volume.Findings, totalNodes uint32, measuredNodeSize uint16, countFreeNodes func() uint32) {
	if h.NodeSize != measuredNodeSize {
		bad := h.NodeSize
		fs.Repairable("nodeSize", func() error {
			h.NodeSize = measuredNodeSize
			return nil
		}, "header node size %d does not match the fork's actual node size %d", bad, measuredNodeSize)
	}

	if totalNodes > 0 {
		if h.RootNode >= totalNodes {
			bad := h.RootNode
			fs.Repairable("rootNode", func() error {
				h.RootNode = totalNodes - 1
				return nil
			}, "root node %d is out of range [0, %d)", bad, totalNodes)
		}

		if h.FirstLeafNode >= totalNodes {
			bad := h.FirstLeafNode
			fs.Repairable("firstLeafNode", func() error {
				h.FirstLeafNode = totalNodes - 1
				return nil
			}, "first leaf node %d is out of range [0, %d)", bad, totalNodes)
		}

		if h.LastLeafNode >= totalNodes {
			bad := h.LastLeafNode
			fs.Repairable("lastLeafNode", func() error {
				h.LastLeafNode = totalNodes - 1
				return nil
			}, "last leaf node %d is out of range [0, %d)", bad, totalNodes)
		}
	}

	if countFreeNodes != nil {
		actual := countFreeNodes()
		if h.FreeNodes != actual {
			bad := h.FreeNodes
			fs.Repairable("freeNodes", func() error {
				h.FreeNodes = actual
				return nil
			}, "header free node count %d does not match the allocation map's count %d", bad, actual)
		}
	}

	if h.TreeDepth == 0 && h.LeafRecords > 0 {
		fs.Repairable("treeDepth", func() error {
			h.TreeDepth = 1
			return nil
		}, "tree depth is 0 but the tree holds %d leaf records", h.LeafRecords)
	}
}

// CoerceNodeKind repairs an invalid node kind by inferring it from
// reachability: a node reachable by walking fLink from firstLeafNode is
// coerced to leaf, anything else to index.
func CoerceNodeKind(desc *Descriptor, fs *volume.Findings, reachableAsLeaf bool) {
	if desc.Kind.IsValid() {
		return
	}

	bad := desc.Kind
	target := KindIndex
	if reachableAsLeaf {
		target = KindLeaf
	}

	fs.Repairable("kind", func() error {
		desc.Kind = target
		return nil
	}, "node kind %d is not one of the defined kinds", uint8(bad))
}

// WriteHeaderNodeBytes builds the same fresh, empty-tree header node
// as WriteHeaderNode but returns its raw encoded bytes, for a caller
// (mkfs) that writes it straight to a device without needing the
// decoded Node view.
func WriteHeaderNodeBytes(nodeSize int, btreeType byte, keyCompareType byte, clumpSize uint32, maxKeyLength uint16) ([]byte, error) {
	header := BTHeaderRec{
		TreeDepth:      0,
		RootNode:       0,
		LeafRecords:    0,
		FirstLeafNode:  0,
		LastLeafNode:   0,
		NodeSize:       uint16(nodeSize),
		MaxKeyLength:   maxKeyLength,
		TotalNodes:     1,
		FreeNodes:      0,
		ClumpSize:      clumpSize,
		BTreeType:      btreeType,
		KeyCompareType: keyCompareType,
		Attributes:     0,
	}

	headerRecord := EncodeBTHeaderRec(header)
	userData := make([]byte, 128)

	bitmapSize := nodeSize - DescriptorSize - HeaderRecSize - 128 - 8
	if bitmapSize < 0 {
		bitmapSize = 0
	}

	bitmap := make([]byte, bitmapSize)
	bitmap[0] = 0x80 // node 0 (this header node) is allocated

	records := [][]byte{headerRecord, userData, bitmap}

	desc := Descriptor{FLink: 0, BLink: 0, Kind: KindHeader, Height: 0, NumRecords: uint16(len(records))}

	return EncodeNode(nodeSize, desc, records)
}

// WriteHeaderNode synthesizes a fresh, empty-tree header node for
// mkfs: a BTHeaderRec describing zero leaf records, followed by the
// reserved user-data record and a node-allocation bitmap record that
// marks only node 0 (the header node) as allocated, packed into a
// single header-kind Node.
func WriteHeaderNode(nodeSize int, btreeType byte, keyCompareType byte, clumpSize uint32, maxKeyLength uint16) (Node, error) {
	buf, err := WriteHeaderNodeBytes(nodeSize, btreeType, keyCompareType, clumpSize, maxKeyLength)
	if err != nil {
		return Node{}, err
	}

	return DecodeNode(buf, nodeSize)
}
