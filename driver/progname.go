// Package driver implements the program-name and partition dispatch
// glue shared by the mkfs, fsck, and mount command-line entry points:
// inferring the target filesystem from argv[0], resolving a whole
// device vs. a named partition, re-exec delegation between the HFS
// and HFS+ variants of fsck, and translating a Report or error into
// the process exit code.
package driver

import (
	"path/filepath"
	"strings"

	"github.com/jotarandom/go-hfsutils/mkfs"
)

// ProgramKind identifies which of the three driver programs is
// running, inferred from argv[0].
type ProgramKind int

const (
	// ProgramUnknown means argv[0] matched none of the recognized
	// prefixes.
	ProgramUnknown ProgramKind = iota
	// ProgramMkfs is mkfs.hfs / mkfs.hfs+ / mkfs.hfsplus.
	ProgramMkfs
	// ProgramFsck is fsck.hfs / fsck.hfs+ / fsck.hfsplus.
	ProgramFsck
	// ProgramMount is mount.hfs / mount.hfs+.
	ProgramMount
)

// InferProgram classifies argv[0] into a program kind and a forced
// filesystem type. mkfs.hfs/fsck.hfs force HFS; mkfs.hfs+,
// mkfs.hfsplus, fsck.hfs+, fsck.hfsplus force HFS+. forced is false
// when the name carries no filesystem hint at all (a generic
// "fsck"/"mkfs" invocation, left to signature detection or -t).
func InferProgram(argv0 string) (kind ProgramKind, fsType mkfs.FSType, forced bool) {
	name := strings.ToLower(filepath.Base(argv0))

	switch {
	case strings.HasPrefix(name, "mkfs"):
		kind = ProgramMkfs
	case strings.HasPrefix(name, "fsck"):
		kind = ProgramFsck
	case strings.HasPrefix(name, "mount"):
		kind = ProgramMount
	default:
		return ProgramUnknown, mkfs.HFS, false
	}

	if strings.Contains(name, "hfs+") || strings.Contains(name, "hfsplus") {
		return kind, mkfs.HFSPlus, true
	}

	if strings.Contains(name, "hfs") {
		return kind, mkfs.HFS, true
	}

	return kind, mkfs.HFS, false
}

// DelegateName returns the program name fsck.hfs re-execs as once it
// detects an HFS+ or HFSX signature on the target device: the same
// basename with its hfs suffix replaced by hfs+, keeping the path's
// directory so the re-exec resolves the sibling binary.
func DelegateName(argv0 string) string {
	dir := filepath.Dir(argv0)
	name := filepath.Base(argv0)

	lower := strings.ToLower(name)

	var delegated string
	switch {
	case strings.Contains(lower, "hfsplus"), strings.Contains(lower, "hfs+"):
		delegated = name
	default:
		idx := strings.LastIndex(lower, "hfs")
		if idx == -1 {
			delegated = name
		} else {
			delegated = name[:idx] + "hfs+" + name[idx+3:]
		}
	}

	if dir == "." {
		return delegated
	}

	return filepath.Join(dir, delegated)
}
