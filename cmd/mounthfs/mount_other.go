//go:build !linux

package main

import (
	"errors"

	"github.com/jotarandom/go-hfsutils/sig"
)

// mountKernel has no implementation outside Linux; this platform has
// no in-tree HFS/HFS+ kernel driver for the shim to hand off to.
func mountKernel(devicePath, mountpoint string, kind sig.Kind, readOnly bool, extraOpts string) error {
	return errors.New("mount: kernel mount is only supported on linux")
}
