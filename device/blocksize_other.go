//go:build !linux

package device

import (
	"errors"
	"os"
)

// blockDeviceSize has no portable implementation outside Linux; callers
// fall back to the regular-file Stat size, which is also correct for
// the common case of formatting a disk image rather than a raw device.
func blockDeviceSize(f *os.File) (int64, error) {
	return 0, errors.New("device: block device size query not supported on this platform")
}
