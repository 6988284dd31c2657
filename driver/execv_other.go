//go:build !linux

package driver

import "errors"

// DefaultExecv has no portable implementation outside Linux; RunFsck
// then falls back to checking the volume in-process with fsck.Check
// instead of replacing its own image.
func DefaultExecv(progname string, argv []string, envv []string) error {
	return errors.New("driver: process re-exec is not supported on this platform")
}
