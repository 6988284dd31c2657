package btree

import (
	"testing"

	"github.com/jotarandom/go-hfsutils/volume"
)

func TestValidateHeader_ClampsOutOfRangeNodes(t *testing.T) {
	h := BTHeaderRec{RootNode: 100, FirstLeafNode: 200, LastLeafNode: 300, NodeSize: 512}
	var fs volume.Findings

	ValidateHeader(&h, &fs, 10, 512, nil)

	for _, f := range fs.Items() {
		if f.Repair != nil {
			if err := f.Repair(); err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
		}
	}

	if h.RootNode != 9 || h.FirstLeafNode != 9 || h.LastLeafNode != 9 {
		t.Fatalf("expected all node references clamped to 9, got root=%d first=%d last=%d", h.RootNode, h.FirstLeafNode, h.LastLeafNode)
	}

	if fs.CountBySeverity(volume.Repairable) != 3 {
		t.Fatalf("expected 3 repairable findings, got %d", fs.CountBySeverity(volume.Repairable))
	}
}

func TestValidateHeader_CorrectsNodeSizeAndFreeNodes(t *testing.T) {
	h := BTHeaderRec{NodeSize: 1024, FreeNodes: 7, TotalNodes: 0}
	var fs volume.Findings

	ValidateHeader(&h, &fs, 0, 4096, func() uint32 { return 3 })

	for _, f := range fs.Items() {
		if f.Repair != nil {
			if err := f.Repair(); err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
		}
	}

	if h.NodeSize != 4096 {
		t.Fatalf("expected node size corrected to 4096, got %d", h.NodeSize)
	}

	if h.FreeNodes != 3 {
		t.Fatalf("expected free nodes corrected to 3, got %d", h.FreeNodes)
	}
}

func TestValidateHeader_CleanHeaderHasNoFindings(t *testing.T) {
	h := BTHeaderRec{RootNode: 1, FirstLeafNode: 1, LastLeafNode: 1, NodeSize: 512, FreeNodes: 2, TreeDepth: 1, LeafRecords: 5}
	var fs volume.Findings

	ValidateHeader(&h, &fs, 3, 512, func() uint32 { return 2 })

	if len(fs.Items()) != 0 {
		t.Fatalf("expected no findings on a clean header, got %v", fs.Items())
	}
}

func TestCoerceNodeKind_InvalidKindCoercedToLeafWhenReachable(t *testing.T) {
	desc := Descriptor{Kind: NodeKind(0x7F)}
	var fs volume.Findings

	CoerceNodeKind(&desc, &fs, true)

	for _, f := range fs.Items() {
		if f.Repair != nil {
			if err := f.Repair(); err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
		}
	}

	if desc.Kind != KindLeaf {
		t.Fatalf("expected kind coerced to leaf, got %s", desc.Kind)
	}
}

func TestCoerceNodeKind_InvalidKindCoercedToIndexWhenUnreachable(t *testing.T) {
	desc := Descriptor{Kind: NodeKind(0x7F)}
	var fs volume.Findings

	CoerceNodeKind(&desc, &fs, false)

	for _, f := range fs.Items() {
		if f.Repair != nil {
			if err := f.Repair(); err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
		}
	}

	if desc.Kind != KindIndex {
		t.Fatalf("expected kind coerced to index, got %s", desc.Kind)
	}
}

func TestCoerceNodeKind_ValidKindIsUntouched(t *testing.T) {
	desc := Descriptor{Kind: KindLeaf}
	var fs volume.Findings

	CoerceNodeKind(&desc, &fs, false)

	if len(fs.Items()) != 0 {
		t.Fatalf("expected no findings for an already-valid kind")
	}
}

func TestWriteHeaderNode_ProducesDecodableHeader(t *testing.T) {
	node, err := WriteHeaderNode(512, BTreeTypeCatalog, KeyCompareCaseFolding, 4096, 516)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if node.Descriptor.Kind != KindHeader {
		t.Fatalf("expected header kind, got %s", node.Descriptor.Kind)
	}

	if len(node.Records) != 3 {
		t.Fatalf("expected 3 records (header, user data, bitmap), got %d", len(node.Records))
	}

	h, err := DecodeBTHeaderRec(node.Records[0], 0)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if h.TotalNodes != 1 || h.LeafRecords != 0 {
		t.Fatalf("expected a fresh empty header, got %+v", h)
	}
}
