// Package device abstracts a block-addressable volume as a seekable,
// fixed-size region supporting absolute-offset reads and writes. It
// never rewrites bytes it was not asked to rewrite, and it never
// changes the underlying file's length.
package device

import "errors"

var (
	// ErrNotFound means the device path does not exist.
	ErrNotFound = errors.New("device: not found")
	// ErrPermissionDenied means the caller lacks access to the device.
	ErrPermissionDenied = errors.New("device: permission denied")
	// ErrBusy means the device is already open exclusively elsewhere.
	ErrBusy = errors.New("device: busy")
	// ErrDeviceBusy means the platform mount probe reports the device
	// is currently mounted.
	ErrDeviceBusy = errors.New("device: mounted, refusing to proceed")
	// ErrDeviceOccupied means the device already carries a recognizable
	// filesystem and force was not requested.
	ErrDeviceOccupied = errors.New("device: already contains a recognizable filesystem")
	// ErrIoTruncated means a pread/pwrite transferred fewer bytes than
	// requested.
	ErrIoTruncated = errors.New("device: short transfer")
)
