package sig

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/jotarandom/go-hfsutils/device"
)

func makeImageWithSignature(t *testing.T, signature [2]byte) *device.Handle {
	t.Helper()

	path := filepath.Join(t.TempDir(), "volume.img")

	f, err := os.Create(path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if err := f.Truncate(2048); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if _, err := f.WriteAt(signature[:], 1024); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if err := f.Close(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	h, err := device.OpenWithoutMountCheck(path, device.ReadOnly)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	t.Cleanup(func() { h.Close() })

	return h
}

func TestDetect(t *testing.T) {
	cases := []struct {
		name string
		sig  [2]byte
		want Kind
	}{
		{"HFS", [2]byte{0x42, 0x44}, HFS},
		{"HFSPlus", [2]byte{0x48, 0x2B}, HFSPlus},
		{"HFSX", [2]byte{0x48, 0x58}, HFSX},
		{"Unknown", [2]byte{0x00, 0x00}, Unknown},
	}

	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			h := makeImageWithSignature(t, c.sig)

			got, err := Detect(h)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}

			if got != c.want {
				t.Fatalf("expected %s, got %s", c.want, got)
			}
		})
	}
}

func TestKind_IsHFSPlusFamily(t *testing.T) {
	if !HFSPlus.IsHFSPlusFamily() {
		t.Fatalf("expected HFSPlus to be in the HFS+ family")
	}

	if !HFSX.IsHFSPlusFamily() {
		t.Fatalf("expected HFSX to be in the HFS+ family")
	}

	if HFS.IsHFSPlusFamily() {
		t.Fatalf("expected HFS not to be in the HFS+ family")
	}
}
