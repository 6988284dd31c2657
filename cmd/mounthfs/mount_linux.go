//go:build linux

package main

import (
	"strings"

	"golang.org/x/sys/unix"

	"github.com/jotarandom/go-hfsutils/sig"
)

// mountKernel asks the Linux kernel to mount device at mountpoint,
// through its hfs driver for classic HFS and its hfsplus driver for the
// HFS+ family. HFSX is mounted through the same driver as HFS+; the
// kernel tells the two apart itself from the on-disk signature.
func mountKernel(devicePath, mountpoint string, kind sig.Kind, readOnly bool, extraOpts string) error {
	fstype := "hfs"
	if kind.IsHFSPlusFamily() {
		fstype = "hfsplus"
	}

	var flags uintptr
	if readOnly {
		flags |= unix.MS_RDONLY
	}

	data := extraOpts
	if readOnly && !strings.Contains(data, "ro") {
		if data != "" {
			data += ","
		}

		data += "ro"
	}

	return unix.Mount(devicePath, mountpoint, fstype, flags, data)
}
