package volume

import "testing"

func TestForkData_EncodeDecodeRoundTrip(t *testing.T) {
	fd := ForkData{
		LogicalSize: 1 << 20,
		ClumpSize:   4096,
		TotalBlocks: 256,
	}
	fd.Extents[0] = Extent{StartBlock: 10, BlockCount: 256}

	buf := make([]byte, ForkDataSize)

	if err := EncodeForkData(buf, 0, fd); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	got, err := DecodeForkData(buf, 0)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if got != fd {
		t.Fatalf("round-trip mismatch:\n got  %+v\n want %+v", got, fd)
	}
}

func TestHFSExtentRecord_EncodeDecodeRoundTrip(t *testing.T) {
	rec := HFSExtentRecord{
		{StartBlock: 1, BlockCount: 2},
		{StartBlock: 3, BlockCount: 4},
		{StartBlock: 0, BlockCount: 0},
	}

	buf := make([]byte, 12)

	if err := EncodeHFSExtentRecord(buf, 0, rec); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	got, err := DecodeHFSExtentRecord(buf, 0)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if got != rec {
		t.Fatalf("round-trip mismatch:\n got  %+v\n want %+v", got, rec)
	}
}
