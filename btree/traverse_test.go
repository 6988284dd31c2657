package btree

import (
	"testing"

	"github.com/jotarandom/go-hfsutils/volume"
)

func catalogRecord(parentID uint32, name string, recordType uint16) []byte {
	key, err := EncodeCatalogKey(CatalogKey{ParentID: parentID, NodeName: name})
	if err != nil {
		panic(err)
	}

	data := make([]byte, 2)
	data[0] = byte(recordType >> 8)
	data[1] = byte(recordType)

	return append(key, data...)
}

func TestTraverse_SingleLeafInOrder(t *testing.T) {
	h := makeTempHandle(t, 1<<20)
	defer h.Close()

	extents := []volume.Extent{{StartBlock: 0, BlockCount: 8}}
	a := NewAccessor(h, 0, 512, extents, 512)

	records := [][]byte{
		catalogRecord(2, "alpha", RecordTypeFile),
		catalogRecord(2, "beta", RecordTypeFile),
	}

	desc := Descriptor{FLink: 0, BLink: 0, Kind: KindLeaf}
	if err := a.PutNode(0, desc, records); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	header := BTHeaderRec{FirstLeafNode: 0, LastLeafNode: 0, LeafRecords: 2, TotalNodes: 1}
	var fs volume.Findings

	got, err := Traverse(a, header, CompareCatalogHFSPlus, &fs)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(got) != 2 {
		t.Fatalf("expected 2 records, got %d", len(got))
	}

	if fs.HasCritical() {
		t.Fatalf("unexpected findings: %v", fs.Items())
	}
}

func TestTraverse_MultiNodeChain(t *testing.T) {
	h := makeTempHandle(t, 1<<20)
	defer h.Close()

	extents := []volume.Extent{{StartBlock: 0, BlockCount: 8}}
	a := NewAccessor(h, 0, 512, extents, 512)

	if err := a.PutNode(0, Descriptor{FLink: 1, Kind: KindLeaf}, [][]byte{
		catalogRecord(2, "alpha", RecordTypeFile),
	}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if err := a.PutNode(1, Descriptor{FLink: 0, Kind: KindLeaf}, [][]byte{
		catalogRecord(2, "beta", RecordTypeFile),
	}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	header := BTHeaderRec{FirstLeafNode: 0, LastLeafNode: 1, LeafRecords: 2, TotalNodes: 2}
	var fs volume.Findings

	got, err := Traverse(a, header, CompareCatalogHFSPlus, &fs)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(got) != 2 {
		t.Fatalf("expected 2 records, got %d", len(got))
	}

	if fs.HasCritical() {
		t.Fatalf("unexpected findings: %v", fs.Items())
	}
}

func TestTraverse_CyclicChainIsDetected(t *testing.T) {
	h := makeTempHandle(t, 1<<20)
	defer h.Close()

	extents := []volume.Extent{{StartBlock: 0, BlockCount: 8}}
	a := NewAccessor(h, 0, 512, extents, 512)

	// Node 0 points to node 1, node 1 points back to itself: a cycle
	// that never reaches fLink == 0.
	if err := a.PutNode(0, Descriptor{FLink: 1, Kind: KindLeaf}, [][]byte{
		catalogRecord(2, "alpha", RecordTypeFile),
	}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if err := a.PutNode(1, Descriptor{FLink: 1, Kind: KindLeaf}, [][]byte{
		catalogRecord(2, "beta", RecordTypeFile),
	}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	header := BTHeaderRec{FirstLeafNode: 0, LastLeafNode: 1, LeafRecords: 2, TotalNodes: 2}
	var fs volume.Findings

	if _, err := Traverse(a, header, CompareCatalogHFSPlus, &fs); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if !fs.HasCritical() {
		t.Fatalf("expected a critical finding for the cyclic chain")
	}
}

func TestTraverse_OutOfOrderKeysIsDetected(t *testing.T) {
	h := makeTempHandle(t, 1<<20)
	defer h.Close()

	extents := []volume.Extent{{StartBlock: 0, BlockCount: 8}}
	a := NewAccessor(h, 0, 512, extents, 512)

	records := [][]byte{
		catalogRecord(2, "zebra", RecordTypeFile),
		catalogRecord(2, "alpha", RecordTypeFile),
	}

	if err := a.PutNode(0, Descriptor{Kind: KindLeaf}, records); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	header := BTHeaderRec{FirstLeafNode: 0, LastLeafNode: 0, LeafRecords: 2, TotalNodes: 1}
	var fs volume.Findings

	if _, err := Traverse(a, header, CompareCatalogHFSPlus, &fs); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if !fs.HasCritical() {
		t.Fatalf("expected a finding for out-of-order keys")
	}
}
