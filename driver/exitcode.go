package driver

import (
	"errors"

	"github.com/jotarandom/go-hfsutils/device"
	"github.com/jotarandom/go-hfsutils/fsck"
	"github.com/jotarandom/go-hfsutils/mkfs"
)

// Exit codes for mkfs: 0 success; 1 general; 2 usage; 4 operational;
// 8 system.
const (
	ExitMkfsSuccess     = 0
	ExitMkfsGeneral     = 1
	ExitMkfsUsage       = 2
	ExitMkfsOperational = 4
	ExitMkfsSystem      = 8
)

// Exit codes for fsck: 0 clean; 1 repaired; 2 reboot-required (never
// produced); 4 uncorrected; 8 operational; 16 usage; 32 cancelled;
// 128 library.
const (
	ExitFsckClean         = 0
	ExitFsckRepaired      = 1
	ExitFsckRebootNeeded  = 2
	ExitFsckUncorrected   = 4
	ExitFsckOperational   = 8
	ExitFsckUsage         = 16
	ExitFsckCancelled     = 32
	ExitFsckLibraryFailed = 128
)

// MkfsExitCode maps Format's return into the mkfs exit-code contract.
func MkfsExitCode(err error) int {
	switch {
	case err == nil:
		return ExitMkfsSuccess
	case errors.Is(err, mkfs.ErrInvalidLabel), errors.Is(err, ErrAmbiguousPartition),
		errors.Is(err, mkfs.ErrVolumeTooSmall), errors.Is(err, mkfs.ErrMediumPartitioned),
		errors.Is(err, ErrWholeDeviceOnPartitionedMedium):
		return ExitMkfsUsage
	case errors.Is(err, device.ErrDeviceOccupied):
		return ExitMkfsOperational
	case errors.Is(err, device.ErrDeviceBusy), errors.Is(err, device.ErrNotFound), errors.Is(err, device.ErrPermissionDenied):
		return ExitMkfsSystem
	default:
		return ExitMkfsGeneral
	}
}

// FsckExitCode maps Check's (Report, error) pair into the fsck
// exit-code contract. A non-nil library-level err (device I/O,
// unsupported filesystem) takes precedence over the report.
func FsckExitCode(report fsck.Report, err error) int {
	switch {
	case errors.Is(err, fsck.ErrCancelled):
		return ExitFsckCancelled
	case errors.Is(err, ErrAmbiguousPartition):
		return ExitFsckUsage
	case errors.Is(err, fsck.ErrUnsupportedFilesystem), errors.Is(err, fsck.ErrVolumeHeaderUnrecoverable):
		return ExitFsckOperational
	case errors.Is(err, device.ErrDeviceBusy), errors.Is(err, device.ErrNotFound), errors.Is(err, device.ErrPermissionDenied):
		return ExitFsckLibraryFailed
	case err != nil:
		return ExitFsckLibraryFailed
	case report.HasUncorrected():
		return ExitFsckUncorrected
	case report.CorrectedCount > 0:
		return ExitFsckRepaired
	default:
		return ExitFsckClean
	}
}
