package volume

import (
	"bytes"
	"fmt"

	"github.com/jotarandom/go-hfsutils/device"
)

// AlternateOffset returns the byte offset of the alternate volume
// structure: always device_size - 1024, never "second-to-last sector".
func AlternateOffset(deviceSize uint64) uint64 {
	return deviceSize - 1024
}

// WritePrimaryAndAlternate writes the same 512-byte structure to the
// primary location (1024) and the alternate location (device_size -
// 1024), in that order, within a single call so the two writes are
// never observed out of sequence.
func WritePrimaryAndAlternate(h *device.Handle, structure []byte) error {
	if len(structure) != 512 {
		return fmt.Errorf("volume: primary/alternate structure must be 512 bytes, got %d", len(structure))
	}

	if err := h.Pwrite(1024, structure); err != nil {
		return err
	}

	return h.Pwrite(AlternateOffset(h.DeviceSize()), structure)
}

// ReadAlternate reads the 512 bytes at the alternate location.
func ReadAlternate(h *device.Handle) ([]byte, error) {
	buf := make([]byte, 512)

	if err := h.Pread(AlternateOffset(h.DeviceSize()), buf); err != nil {
		return nil, err
	}

	return buf, nil
}

// ReadPrimary reads the 512 bytes at the primary location.
func ReadPrimary(h *device.Handle) ([]byte, error) {
	buf := make([]byte, 512)

	if err := h.Pread(1024, buf); err != nil {
		return nil, err
	}

	return buf, nil
}

// CompareAlternate reports whether the primary and alternate copies of
// the volume structure are byte-for-byte identical. RepairAlternate
// overwrites the alternate from the primary. Package fsck calls
// neither: its Phase 1 reads the alternate only when the primary
// signature is not recognized or the primary fails to decode.
func CompareAlternate(h *device.Handle) (equal bool, err error) {
	primary, err := ReadPrimary(h)
	if err != nil {
		return false, err
	}

	alternate, err := ReadAlternate(h)
	if err != nil {
		return false, err
	}

	return bytes.Equal(primary, alternate), nil
}

// RepairAlternate overwrites the alternate copy from the primary.
func RepairAlternate(h *device.Handle) error {
	primary, err := ReadPrimary(h)
	if err != nil {
		return err
	}

	return h.Pwrite(AlternateOffset(h.DeviceSize()), primary)
}
