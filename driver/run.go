package driver

import (
	"errors"

	"github.com/jotarandom/go-hfsutils/device"
	"github.com/jotarandom/go-hfsutils/fsck"
	"github.com/jotarandom/go-hfsutils/mkfs"
	"github.com/jotarandom/go-hfsutils/sig"
)

// RunMkfs opens devicePath (and partition, if named), resolves the
// partition dispatch policy, and runs mkfs.Format against the result.
// progname supplies the filesystem-type inference when fsTypeExplicit
// is false, i.e. the caller's -t flag was not given.
func RunMkfs(progname, devicePath, partition string, opts mkfs.Options, fsTypeExplicit bool) error {
	if !fsTypeExplicit {
		if _, inferredType, forced := InferProgram(progname); forced {
			opts.FSType = inferredType
		}
	}

	target, err := resolveDeviceTarget(devicePath, partition, opts.Force)
	if err != nil {
		if errors.Is(err, ErrWholeDeviceOnPartitionedMedium) {
			return mkfs.ErrMediumPartitioned
		}

		return err
	}

	opts.DevicePath = target

	return mkfs.Format(opts)
}

// RunFsck opens devicePath (and partition, if named), resolves the
// partition dispatch policy, and runs fsck.Check against the result.
// When progname is the plain fsck.hfs entry point and the target
// turns out to carry an HFS+ or HFSX signature, it re-execs argv0 as
// DelegateName(argv0) via execv with the same argument list (argv,
// envv) instead of running the HFS-family check itself. If execv
// fails (e.g. no re-exec support on this platform, or no sibling
// binary on PATH), RunFsck falls back to checking the volume locally
// rather than failing the whole invocation.
func RunFsck(progname string, argv, envv []string, devicePath, partition string, opts fsck.Options, ask fsck.AskFunc, execv ExecvFunc) (fsck.Report, error) {
	kind, inferredType, forced := InferProgram(progname)
	canDelegate := kind == ProgramFsck && forced && inferredType == mkfs.HFS

	target, err := resolveDeviceTarget(devicePath, partition, opts.Force)
	if err != nil {
		return fsck.Report{}, err
	}

	mode := device.ReadOnly
	if opts.Repair {
		mode = device.ReadWrite
	}

	h, err := device.Open(target, mode)
	if err != nil {
		return fsck.Report{}, err
	}
	defer h.Close()

	if canDelegate && execv != nil {
		detected, sigErr := sig.Detect(h)
		if sigErr == nil && detected.IsHFSPlusFamily() {
			if execErr := execv(DelegateName(progname), argv, envv); execErr == nil {
				return fsck.Report{}, nil
			}
		}
	}

	return fsck.Check(h, opts, ask)
}

// resolveDeviceTarget probes devicePath read-only to resolve the
// partition dispatch policy, without holding the handle open for the
// caller's actual operation.
func resolveDeviceTarget(devicePath, partition string, force bool) (string, error) {
	probe, err := device.OpenWithoutMountCheck(devicePath, device.ReadOnly)
	if err != nil {
		return "", err
	}
	defer probe.Close()

	return ResolveTarget(probe, devicePath, partition, force)
}
