package btree

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/jotarandom/go-hfsutils/device"
	"github.com/jotarandom/go-hfsutils/volume"
)

func makeTempHandle(t *testing.T, size int64) *device.Handle {
	t.Helper()

	path := filepath.Join(t.TempDir(), "volume.img")

	f, err := os.Create(path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if err := f.Truncate(size); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if err := f.Close(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	h, err := device.OpenWithoutMountCheck(path, device.ReadWrite)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	return h
}

func TestAccessor_SingleExtentRoundTrip(t *testing.T) {
	h := makeTempHandle(t, 1<<20)
	defer h.Close()

	extents := []volume.Extent{{StartBlock: 2, BlockCount: 4}}
	a := NewAccessor(h, 0, 512, extents, 512)

	desc := Descriptor{Kind: KindLeaf, NumRecords: 0}
	if err := a.PutNode(0, desc, nil); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	node, err := a.GetNode(0)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if node.Descriptor.Kind != KindLeaf {
		t.Fatalf("expected leaf kind, got %s", node.Descriptor.Kind)
	}
}

func TestAccessor_MultiExtentResolve(t *testing.T) {
	h := makeTempHandle(t, 1<<20)
	defer h.Close()

	// Two 2-block extents: fork blocks [0,2) live in device blocks
	// [10,12), fork blocks [2,4) live in device blocks [20,22).
	extents := []volume.Extent{
		{StartBlock: 10, BlockCount: 2},
		{StartBlock: 20, BlockCount: 2},
	}
	a := NewAccessor(h, 0, 512, extents, 512)

	// Node index 3 falls in the second extent (fork offset 1536..2048,
	// i.e. fork block 3).
	desc := Descriptor{Kind: KindIndex, NumRecords: 0}
	if err := a.PutNode(3, desc, nil); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	// Confirm it landed at device offset 20*512 + 512 (the second block
	// of the second extent), not at a naive idx*nodeSize offset.
	want := uint64(20*512 + 512)
	got, err := a.resolve(3*512, 512)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(got) != 1 || got[0].deviceOffset != want {
		t.Fatalf("expected single segment at device offset %d, got %+v", want, got)
	}

	node, err := a.GetNode(3)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if node.Descriptor.Kind != KindIndex {
		t.Fatalf("expected index kind, got %s", node.Descriptor.Kind)
	}
}

func TestAccessor_RangePastExtentsErrors(t *testing.T) {
	h := makeTempHandle(t, 1<<20)
	defer h.Close()

	extents := []volume.Extent{{StartBlock: 0, BlockCount: 1}}
	a := NewAccessor(h, 0, 512, extents, 512)

	if _, err := a.GetNode(5); err == nil {
		t.Fatalf("expected an error reading past the fork's allocated extents")
	}
}
