package mkfs

import "errors"

// MinVolumeSize is the smallest device size Format will accept: 800
// KiB is the smallest acceptable input.
const MinVolumeSize = 800 * 1024

// ErrVolumeTooSmall is returned when the device or requested total
// size is smaller than MinVolumeSize.
var ErrVolumeTooSmall = errors.New("mkfs: volume is smaller than the smallest acceptable size")

// ErrInvalidLabel is returned by ValidateLabel for a label that
// violates the HFS or HFS+ label rules.
var ErrInvalidLabel = errors.New("mkfs: invalid volume label")

// ErrMediumPartitioned is returned when the device carries a
// recognizable partition map and neither a partition was named nor
// Options.Force was set.
var ErrMediumPartitioned = errors.New("mkfs: medium is partitioned")
