package btree

import (
	"testing"

	"github.com/jotarandom/go-hfsutils/bytecodec"
)

func TestNode_EncodeDecodeRoundTrip(t *testing.T) {
	records := [][]byte{
		{0x01, 0x02, 0x03},
		{0x04, 0x05},
		{0x06},
	}

	desc := Descriptor{FLink: 0, BLink: 0, Kind: KindLeaf, Height: 1}

	buf, err := EncodeNode(512, desc, records)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	node, err := DecodeNode(buf, 512)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if node.Descriptor.Kind != KindLeaf {
		t.Fatalf("expected leaf kind, got %v", node.Descriptor.Kind)
	}

	if int(node.Descriptor.NumRecords) != len(records) {
		t.Fatalf("expected %d records, got %d", len(records), node.Descriptor.NumRecords)
	}

	for i, want := range records {
		got := node.Records[i]

		if string(got) != string(want) {
			t.Fatalf("record %d mismatch: got %v, want %v", i, got, want)
		}
	}
}

func TestDecodeNode_InvalidKindIsPreserved(t *testing.T) {
	desc := Descriptor{Kind: NodeKind(0x7F)}

	buf, err := EncodeNode(512, desc, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	node, err := DecodeNode(buf, 512)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if node.Descriptor.Kind.IsValid() {
		t.Fatalf("expected 0x7F to be an invalid kind")
	}
}

func TestDecodeNode_CorruptOffsetTableIsRejected(t *testing.T) {
	buf := make([]byte, 512)

	desc := Descriptor{Kind: KindLeaf, NumRecords: 1}
	if err := EncodeDescriptor(buf, desc); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	// Two offset-table entries for 1 record: corrupt them so that one
	// of them (5) points inside the 14-byte node descriptor.
	if err := bytecodec.WriteU16BE(buf, 510, 14); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if err := bytecodec.WriteU16BE(buf, 508, 5); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if _, err := DecodeNode(buf, 512); err == nil {
		t.Fatalf("expected an error for a corrupt offset table")
	}
}
