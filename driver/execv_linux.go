//go:build linux

package driver

import (
	"os/exec"
	"syscall"
)

// DefaultExecv resolves progname against PATH and replaces the
// current process image with it via syscall.Exec. On success it never
// returns.
func DefaultExecv(progname string, argv []string, envv []string) error {
	resolved, err := exec.LookPath(progname)
	if err != nil {
		return err
	}

	return syscall.Exec(resolved, argv, envv)
}
