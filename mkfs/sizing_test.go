package mkfs

import "testing"

func TestComputeHFSSizing_SmallVolumeDefaultsTo512(t *testing.T) {
	s := ComputeHFSSizing(8*1024*1024, 0)

	if s.BlockSize != 512 {
		t.Fatalf("expected 512-byte blocks, got %d", s.BlockSize)
	}

	if s.CatalogBlocks < 4 {
		t.Fatalf("expected at least 4 catalog blocks, got %d", s.CatalogBlocks)
	}
}

func TestComputeHFSSizing_CapsAllocationBlocksAt65535(t *testing.T) {
	s := ComputeHFSSizing(2*1024*1024*1024, 0)

	if s.TotalBlocks > maxHFSAllocationBlocks {
		t.Fatalf("expected total blocks capped at %d, got %d", maxHFSAllocationBlocks, s.TotalBlocks)
	}
}

func TestComputeHFSSizing_RespectsBlockSizeOverride(t *testing.T) {
	s := ComputeHFSSizing(8*1024*1024, 2048)

	if s.BlockSize != 2048 {
		t.Fatalf("expected the overridden block size 2048, got %d", s.BlockSize)
	}
}

func TestComputeHFSPlusSizing_SmallVolumeDefaultsTo512(t *testing.T) {
	s := ComputeHFSPlusSizing(8*1024*1024, 0)

	if s.BlockSize != 512 {
		t.Fatalf("expected 512-byte blocks, got %d", s.BlockSize)
	}
}

func TestComputeHFSPlusSizing_LargeVolumeDefaultsTo4096(t *testing.T) {
	s := ComputeHFSPlusSizing(2*1024*1024*1024, 0)

	if s.BlockSize != 4096 {
		t.Fatalf("expected 4096-byte blocks, got %d", s.BlockSize)
	}
}

func TestComputeHFSPlusSizing_CatalogScalesWithVolumeSize(t *testing.T) {
	small := ComputeHFSPlusSizing(1*1024*1024, 0)
	if small.CatalogBlocks != 4 {
		t.Fatalf("expected the 4-block minimum for a small volume, got %d", small.CatalogBlocks)
	}

	large := ComputeHFSPlusSizing(8*1024*1024*1024, 0)
	if large.CatalogBlocks <= 4 {
		t.Fatalf("expected catalog blocks to grow for a large volume, got %d", large.CatalogBlocks)
	}
}

func TestComputeHFSPlusSizing_AllocationFileSizedFromTotalBlocks(t *testing.T) {
	s := ComputeHFSPlusSizing(64*1024*1024, 0)

	minBytes := (uint64(s.TotalBlocks) + 7) / 8
	gotBytes := uint64(s.AllocationBlocks) * uint64(s.BlockSize)

	if gotBytes < minBytes {
		t.Fatalf("allocation file %d bytes too small for %d blocks", gotBytes, s.TotalBlocks)
	}
}
