package driver

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/jotarandom/go-hfsutils/device"
	"github.com/jotarandom/go-hfsutils/fsck"
	"github.com/jotarandom/go-hfsutils/mkfs"
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

func TestInferProgram(t *testing.T) {
	cases := []struct {
		argv0    string
		kind     ProgramKind
		fsType   mkfs.FSType
		forced   bool
	}{
		{"mkfs.hfs", ProgramMkfs, mkfs.HFS, true},
		{"mkfs.hfs+", ProgramMkfs, mkfs.HFSPlus, true},
		{"mkfs.hfsplus", ProgramMkfs, mkfs.HFSPlus, true},
		{"fsck.hfs", ProgramFsck, mkfs.HFS, true},
		{"fsck.hfs+", ProgramFsck, mkfs.HFSPlus, true},
		{"fsck.hfsplus", ProgramFsck, mkfs.HFSPlus, true},
		{"mount.hfs", ProgramMount, mkfs.HFS, true},
		{"/usr/sbin/fsck.hfs+", ProgramFsck, mkfs.HFSPlus, true},
		{"something-else", ProgramUnknown, mkfs.HFS, false},
	}

	for _, c := range cases {
		kind, fsType, forced := InferProgram(c.argv0)
		if kind != c.kind || fsType != c.fsType || forced != c.forced {
			t.Fatalf("InferProgram(%q) = (%v, %v, %v), want (%v, %v, %v)",
				c.argv0, kind, fsType, forced, c.kind, c.fsType, c.forced)
		}
	}
}

func TestDelegateName(t *testing.T) {
	cases := []struct {
		argv0 string
		want  string
	}{
		{"fsck.hfs", "fsck.hfs+"},
		{"/sbin/fsck.hfs", "/sbin/fsck.hfs+"},
		{"fsck.hfs+", "fsck.hfs+"},
	}

	for _, c := range cases {
		if got := DelegateName(c.argv0); got != c.want {
			t.Fatalf("DelegateName(%q) = %q, want %q", c.argv0, got, c.want)
		}
	}
}

func TestResolveTarget_UnpartitionedMediumUsesDevicePath(t *testing.T) {
	path := makeTempImage(t, 4*1024*1024)

	h, err := device.OpenWithoutMountCheck(path, device.ReadOnly)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	defer h.Close()

	target, err := ResolveTarget(h, path, "", false)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if target != path {
		t.Fatalf("expected target %q, got %q", path, target)
	}
}

func TestResolveTarget_NamedPartitionIsTrusted(t *testing.T) {
	path := makeTempImage(t, 4*1024*1024)

	h, err := device.OpenWithoutMountCheck(path, device.ReadOnly)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	defer h.Close()

	target, err := ResolveTarget(h, path, "/dev/disk0s2", false)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if target != "/dev/disk0s2" {
		t.Fatalf("expected the named partition to be trusted as-is, got %q", target)
	}
}

func TestMkfsExitCode(t *testing.T) {
	cases := []struct {
		err  error
		want int
	}{
		{nil, ExitMkfsSuccess},
		{mkfs.ErrInvalidLabel, ExitMkfsUsage},
		{mkfs.ErrVolumeTooSmall, ExitMkfsUsage},
		{device.ErrDeviceBusy, ExitMkfsSystem},
		{errors.New("boom"), ExitMkfsGeneral},
	}

	for _, c := range cases {
		if got := MkfsExitCode(c.err); got != c.want {
			t.Fatalf("MkfsExitCode(%v) = %d, want %d", c.err, got, c.want)
		}
	}
}

func TestFsckExitCode(t *testing.T) {
	if got := FsckExitCode(fsck.Report{}, nil); got != ExitFsckClean {
		t.Fatalf("expected clean exit code, got %d", got)
	}

	if got := FsckExitCode(fsck.Report{}, fsck.ErrCancelled); got != ExitFsckCancelled {
		t.Fatalf("expected cancelled exit code, got %d", got)
	}

	if got := FsckExitCode(fsck.Report{}, fsck.ErrVolumeHeaderUnrecoverable); got != ExitFsckOperational {
		t.Fatalf("expected operational exit code, got %d", got)
	}

	if got := FsckExitCode(fsck.Report{CorrectedCount: 1}, nil); got != ExitFsckRepaired {
		t.Fatalf("expected repaired exit code, got %d", got)
	}
}

func TestRunMkfsAndRunFsck_RoundTripProducesACleanVolume(t *testing.T) {
	path := makeTempImage(t, 16*1024*1024)

	err := RunMkfs("mkfs.hfs+", path, "", mkfs.Options{Label: "Round Trip"}, false)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	report, err := RunFsck("fsck.hfsplus", nil, nil, path, "", fsck.Options{Force: true}, nil, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if !report.Clean() {
		t.Fatalf("expected a clean report, got %v", report.Findings)
	}
}

func TestRunFsck_PlainHFSNameDelegatesOnHFSPlusVolume(t *testing.T) {
	path := makeTempImage(t, 16*1024*1024)

	if err := mkfs.Format(mkfs.Options{DevicePath: path, Label: "Delegate Target", FSType: mkfs.HFSPlus}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	var delegatedTo string

	execv := func(progname string, argv, envv []string) error {
		delegatedTo = progname
		return nil
	}

	report, err := RunFsck("fsck.hfs", []string{"fsck.hfs", path}, nil, path, "", fsck.Options{}, nil, execv)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if delegatedTo != "fsck.hfs+" {
		t.Fatalf("expected delegation to fsck.hfs+, got %q", delegatedTo)
	}

	if !report.Clean() {
		t.Fatalf("expected the delegated stand-in report to be empty, got %v", report.Findings)
	}
}
