//go:build linux

package device

import (
	"bufio"
	"os"
	"path/filepath"
	"strings"
)

// IsMounted reports whether path (or the device it resolves to) appears
// as a mount source in /proc/mounts. It errs on the side of "not
// mounted" when /proc/mounts cannot be read, since the mkfs/fsck
// pre-condition check layers its own force/occupied checks on top.
func IsMounted(path string) (bool, error) {
	resolved, err := filepath.EvalSymlinks(path)
	if err != nil {
		resolved = path
	}

	f, err := os.Open("/proc/mounts")
	if err != nil {
		return false, err
	}
	defer f.Close()

	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		fields := strings.Fields(scanner.Text())
		if len(fields) < 2 {
			continue
		}

		if fields[0] == resolved || fields[0] == path {
			return true, nil
		}
	}

	return false, scanner.Err()
}
