// Package mkfs synthesizes a fresh, consistent HFS or HFS+ volume
// from sizing options. Format is built as the structural inverse of
// the volume package's decoders: the same field tables and
// construction order, run forwards instead of backwards.
package mkfs

import (
	"time"

	"github.com/dsoprea/go-logging"
	"github.com/dustin/go-humanize"

	"github.com/jotarandom/go-hfsutils/device"
	"github.com/jotarandom/go-hfsutils/sig"
)

// Format synthesizes a volume on opts.DevicePath per opts. It always
// refuses a mounted device, and refuses one that already carries a
// recognizable filesystem unless opts.Force is set. Whole-device vs.
// partition dispatch is the driver package's concern, not this one's.
// The resulting volume is guaranteed to pass the checker without
// repair.
func Format(opts Options) (err error) {
	defer func() {
		if errRaw := recover(); errRaw != nil {
			if asErr, ok := errRaw.(error); ok {
				err = log.Wrap(asErr)
			} else {
				err = log.Errorf("mkfs.Format: %v", errRaw)
			}
		}
	}()

	if err := ValidateLabel(opts.Label, opts.FSType); err != nil {
		return err
	}

	mounted, probeErr := device.IsMounted(opts.DevicePath)
	if probeErr == nil && mounted {
		return device.ErrDeviceBusy
	}

	h, err := device.OpenWithoutMountCheck(opts.DevicePath, device.ReadWrite)
	if err != nil {
		return err
	}
	defer h.Close()

	if !opts.Force {
		if kind, sigErr := sig.Detect(h); sigErr == nil && kind != sig.Unknown {
			return device.ErrDeviceOccupied
		}
	}

	totalSize := opts.TotalSize
	if totalSize == 0 {
		totalSize = h.DeviceSize()
	}

	if totalSize < MinVolumeSize {
		return ErrVolumeTooSmall
	}

	now := time.Now()

	if opts.Verbose {
		log.Infof("formatting %s as %s (%s)", opts.DevicePath, opts.FSType, humanize.Bytes(totalSize))
	}

	switch opts.FSType {
	case HFS:
		sizing := ComputeHFSSizing(totalSize, opts.BlockSize)
		return buildHFS(h, opts.Label, sizing, now)
	case HFSPlus:
		sizing := ComputeHFSPlusSizing(totalSize, opts.BlockSize)
		return buildHFSPlus(h, opts.Label, sizing, opts.Journaling, now)
	default:
		return log.Errorf("mkfs.Format: unknown filesystem type %v", opts.FSType)
	}
}
