package device

import (
	"fmt"
	"io"
	"os"

	"github.com/dsoprea/go-logging"
)

// Mode selects whether Open allows mutation.
type Mode int

const (
	// ReadOnly opens the device for reading only.
	ReadOnly Mode = iota
	// ReadWrite opens the device for reading and writing.
	ReadWrite
)

// Handle is an open block device or regular file standing in for one.
// The core exclusively owns the handle for the duration of a single
// format or check operation and releases it before returning.
type Handle struct {
	f    *os.File
	size int64
}

// Open opens path in the given mode. It runs the platform mount probe
// first; a positive result aborts with ErrDeviceBusy unless the caller
// has already decided to override that (callers needing to bypass the
// probe, e.g. tests against loopback files, should use OpenWithoutMountCheck).
func Open(path string, mode Mode) (h *Handle, err error) {
	defer func() {
		if errRaw := recover(); errRaw != nil {
			var ok bool
			if err, ok = errRaw.(error); ok {
				err = log.Wrap(err)
			} else {
				err = log.Errorf("device.Open: %v", errRaw)
			}
		}
	}()

	mounted, probeErr := IsMounted(path)
	if probeErr == nil && mounted {
		return nil, ErrDeviceBusy
	}

	return OpenWithoutMountCheck(path, mode)
}

// OpenWithoutMountCheck opens path without consulting the mount probe.
// mkfs calls this after performing its own mount check so the check
// can be logged and reported distinctly from a plain open failure; the
// driver also uses it for its read-only partition probe.
func OpenWithoutMountCheck(path string, mode Mode) (*Handle, error) {
	flag := os.O_RDONLY
	if mode == ReadWrite {
		flag = os.O_RDWR
	}

	f, err := os.OpenFile(path, flag, 0)
	if err != nil {
		switch {
		case os.IsNotExist(err):
			return nil, ErrNotFound
		case os.IsPermission(err):
			return nil, ErrPermissionDenied
		default:
			return nil, fmt.Errorf("device: open %q: %w", path, err)
		}
	}

	info, err := f.Stat()
	if err != nil {
		f.Close()
		return nil, fmt.Errorf("device: stat %q: %w", path, err)
	}

	size := info.Size()
	if info.Mode()&os.ModeDevice != 0 {
		if sz, err := blockDeviceSize(f); err == nil {
			size = sz
		}
	}

	return &Handle{f: f, size: size}, nil
}

// Close releases the handle. The core calls this exactly once, at the
// end of a format or check operation.
func (h *Handle) Close() error {
	return h.f.Close()
}

// DeviceSize returns the size, in bytes, of the underlying file or
// block device.
func (h *Handle) DeviceSize() uint64 {
	return uint64(h.size)
}

// Pread reads exactly len(buf) bytes starting at off. A partial
// transfer (other than a reported io.EOF exactly at the requested
// length) is ErrIoTruncated.
func (h *Handle) Pread(off uint64, buf []byte) error {
	n, err := h.f.ReadAt(buf, int64(off))
	if n != len(buf) {
		if err == nil || err == io.EOF {
			err = ErrIoTruncated
		}

		return fmt.Errorf("device: pread at %d: %w", off, err)
	}

	return nil
}

// Pwrite writes exactly len(buf) bytes at off. A short write is a hard
// error, never silently truncated or padded.
func (h *Handle) Pwrite(off uint64, buf []byte) error {
	n, err := h.f.WriteAt(buf, int64(off))
	if n != len(buf) {
		if err == nil {
			err = ErrIoTruncated
		}

		return fmt.Errorf("device: pwrite at %d: %w", off, err)
	}

	return nil
}

// Sync is a durability barrier: it returns only once the kernel
// confirms the writes have been queued to stable storage.
func (h *Handle) Sync() error {
	return h.f.Sync()
}

var _ io.Closer = (*Handle)(nil)
