//go:build linux

package device

import (
	"os"
	"unsafe"

	"golang.org/x/sys/unix"
)

// blkGetSize64 is BLKGETSIZE64 from <linux/fs.h>: it returns the device
// size in bytes as a uint64.
const blkGetSize64 = 0x80081272

// blockDeviceSize asks the kernel for the size of a block device via
// the BLKGETSIZE64 ioctl. Regular files never reach this path; their
// size comes from Stat.
func blockDeviceSize(f *os.File) (int64, error) {
	var size uint64

	_, _, errno := unix.Syscall(unix.SYS_IOCTL, f.Fd(), uintptr(blkGetSize64), uintptr(unsafe.Pointer(&size)))
	if errno != 0 {
		return 0, errno
	}

	return int64(size), nil
}
