package fsck

import "errors"

// ErrUnsupportedFilesystem is returned when the device's signature
// matches none of HFS, HFS+, or HFSX.
var ErrUnsupportedFilesystem = errors.New("fsck: device signature is not a recognized HFS family filesystem")

// ErrVolumeHeaderUnrecoverable is returned when both the primary and
// alternate copies of the volume header fail validation.
var ErrVolumeHeaderUnrecoverable = errors.New("fsck: volume header is critically damaged in both the primary and alternate copies")

// ErrCancelled is returned when the operator declines a repair that
// Check cannot proceed without.
var ErrCancelled = errors.New("fsck: operator declined a required repair")
