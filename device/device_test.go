package device

import (
	"os"
	"path/filepath"
	"testing"
)

func makeTempImage(t *testing.T, size int64) string {
	t.Helper()

	dir := t.TempDir()
	path := filepath.Join(dir, "volume.img")

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

	return path
}

func TestOpenWithoutMountCheck_SizeMatchesFile(t *testing.T) {
	path := makeTempImage(t, 1474560)

	h, err := OpenWithoutMountCheck(path, ReadWrite)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	defer h.Close()

	if h.DeviceSize() != 1474560 {
		t.Fatalf("expected size 1474560, got %d", h.DeviceSize())
	}
}

func TestPwriteDoesNotChangeFileLength(t *testing.T) {
	path := makeTempImage(t, 1474560)

	h, err := OpenWithoutMountCheck(path, ReadWrite)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	defer h.Close()

	payload := make([]byte, 512)
	for i := range payload {
		payload[i] = 0xAA
	}

	if err := h.Pwrite(1024, payload); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	info, err := os.Stat(path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if info.Size() != 1474560 {
		t.Fatalf("formatter changed file length: expected 1474560, got %d", info.Size())
	}
}

func TestPreadShortTransferIsTruncated(t *testing.T) {
	path := makeTempImage(t, 100)

	h, err := OpenWithoutMountCheck(path, ReadOnly)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	defer h.Close()

	buf := make([]byte, 200)

	if err := h.Pread(0, buf); err == nil {
		t.Fatalf("expected a short-read error")
	}
}

func TestOpenWithoutMountCheck_NotFound(t *testing.T) {
	if _, err := OpenWithoutMountCheck(filepath.Join(t.TempDir(), "missing.img"), ReadOnly); err != ErrNotFound {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestProbePartitions_Unpartitioned(t *testing.T) {
	path := makeTempImage(t, 10*1024*1024)

	h, err := OpenWithoutMountCheck(path, ReadOnly)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	defer h.Close()

	n, err := ProbePartitions(h)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if n != -1 {
		t.Fatalf("expected -1 for unpartitioned medium, got %d", n)
	}
}
