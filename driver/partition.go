package driver

import (
	"errors"

	"github.com/jotarandom/go-hfsutils/device"
)

// ErrAmbiguousPartition is returned when the medium's partition count
// cannot be resolved to a single target (the probe reports 0, or more
// than one) and the caller named no partition.
var ErrAmbiguousPartition = errors.New("driver: medium has an ambiguous partition count; a partition must be named")

// ErrWholeDeviceOnPartitionedMedium is returned when the whole device
// is named on a medium that carries exactly one recognizable
// partition, and force was not set to override the refusal.
var ErrWholeDeviceOnPartitionedMedium = errors.New("driver: device is partitioned; name the partition or pass --force")

// ResolveTarget applies the partition dispatch policy against an open
// handle on devicePath: an unpartitioned medium always targets
// devicePath (or an explicitly named partition, trusted as-is); a
// partitioned medium requires either a named partition or, in the
// single-partition case, force to proceed against the whole device.
// partition is the caller-supplied PARTITION argument, empty if none
// was given.
func ResolveTarget(h *device.Handle, devicePath, partition string, force bool) (string, error) {
	n, err := device.ProbePartitions(h)
	if err != nil {
		return "", err
	}

	if partition != "" {
		return partition, nil
	}

	if n == -1 {
		return devicePath, nil
	}

	if n != 1 {
		return "", ErrAmbiguousPartition
	}

	if !force {
		return "", ErrWholeDeviceOnPartitionedMedium
	}

	return devicePath, nil
}
