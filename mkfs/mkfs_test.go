package mkfs

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/jotarandom/go-hfsutils/device"
	"github.com/jotarandom/go-hfsutils/volume"
)

func makeTempImage(t *testing.T, size int64) string {
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

	return path
}

func TestFormat_HFS_ProducesACleanVolume(t *testing.T) {
	path := makeTempImage(t, 4*1024*1024)

	opts := Options{
		DevicePath: path,
		Label:      "Test Disk",
		FSType:     HFS,
	}

	if err := Format(opts); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	h, err := device.OpenWithoutMountCheck(path, device.ReadOnly)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	defer h.Close()

	primary, err := volume.ReadPrimary(h)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	var fs volume.Findings

	mdb, err := volume.DecodeMDB(primary, &fs, time.Now())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if fs.HasCritical() {
		t.Fatalf("expected no critical findings, got %v", fs.Items())
	}

	if mdb.DrVN != opts.Label {
		t.Fatalf("expected label %q, got %q", opts.Label, mdb.DrVN)
	}

	if mdb.DrDirCnt < 1 {
		t.Fatalf("expected at least the root directory to be counted")
	}

	equal, err := volume.CompareAlternate(h)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if !equal {
		t.Fatalf("expected the primary and alternate MDB to match")
	}
}

func TestFormat_HFSPlus_ProducesACleanVolume(t *testing.T) {
	path := makeTempImage(t, 16*1024*1024)

	opts := Options{
		DevicePath: path,
		Label:      "Test Plus Disk",
		FSType:     HFSPlus,
	}

	if err := Format(opts); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	h, err := device.OpenWithoutMountCheck(path, device.ReadOnly)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	defer h.Close()

	primary, err := volume.ReadPrimary(h)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	var fs volume.Findings

	vh, err := volume.DecodeVolumeHeader(primary, &fs, time.Now())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if fs.HasCritical() {
		t.Fatalf("expected no critical findings, got %v", fs.Items())
	}

	if vh.FolderCount != 1 {
		t.Fatalf("expected folder count 1, got %d", vh.FolderCount)
	}

	if vh.NextCatalogID != volume.CNIDFirstUser {
		t.Fatalf("expected next catalog ID %d, got %d", volume.CNIDFirstUser, vh.NextCatalogID)
	}

	equal, err := volume.CompareAlternate(h)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if !equal {
		t.Fatalf("expected the primary and alternate Volume Header to match")
	}
}

func TestFormat_RejectsVolumeSmallerThanMinimum(t *testing.T) {
	path := makeTempImage(t, 100*1024)

	opts := Options{DevicePath: path, Label: "Tiny", FSType: HFS}

	if err := Format(opts); err != ErrVolumeTooSmall {
		t.Fatalf("expected ErrVolumeTooSmall, got %v", err)
	}
}

func TestFormat_RejectsInvalidLabel(t *testing.T) {
	path := makeTempImage(t, 4*1024*1024)

	opts := Options{DevicePath: path, Label: "", FSType: HFS}

	if err := Format(opts); err != ErrInvalidLabel {
		t.Fatalf("expected ErrInvalidLabel, got %v", err)
	}
}

func TestFormat_RefusesAlreadyOccupiedDeviceWithoutForce(t *testing.T) {
	path := makeTempImage(t, 4*1024*1024)

	if err := Format(Options{DevicePath: path, Label: "First", FSType: HFS}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	err := Format(Options{DevicePath: path, Label: "Second", FSType: HFS})
	if err != device.ErrDeviceOccupied {
		t.Fatalf("expected ErrDeviceOccupied, got %v", err)
	}
}

func TestFormat_ForceOverwritesOccupiedDevice(t *testing.T) {
	path := makeTempImage(t, 4*1024*1024)

	if err := Format(Options{DevicePath: path, Label: "First", FSType: HFS}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	err := Format(Options{DevicePath: path, Label: "Second", FSType: HFS, Force: true})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}
