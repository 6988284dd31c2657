package fsck

import (
	"time"

	"github.com/dsoprea/go-logging"

	"github.com/jotarandom/go-hfsutils/device"
	"github.com/jotarandom/go-hfsutils/sig"
	"github.com/jotarandom/go-hfsutils/volume"
)

// hfsNodeSize is the fixed node size classic HFS B-trees use.
const hfsNodeSize = 512

// Check runs the six-phase checker against an open device handle,
// classifying and (per opts) correcting every fault it finds, the way
// a recover-wrap-log directory loader keeps going after a non-critical
// fault, generalized here from a single-pass loader into a
// multi-phase accumulator.
func Check(h *device.Handle, opts Options, ask AskFunc) (report Report, err error) {
	defer func() {
		if errRaw := recover(); errRaw != nil {
			if asErr, ok := errRaw.(error); ok {
				err = log.Wrap(asErr)
			} else {
				err = log.Errorf("fsck.Check: %v", errRaw)
			}
		}
	}()

	if opts.YesToAll {
		ask = alwaysYes
	}

	kind, sigErr := sig.Detect(h)
	if sigErr != nil {
		return report, sigErr
	}

	if kind == sig.Unknown {
		alt, altErr := volume.ReadAlternate(h)
		if altErr != nil {
			return report, ErrUnsupportedFilesystem
		}

		switch uint16(alt[0])<<8 | uint16(alt[1]) {
		case volume.MDBSignature:
			kind = sig.HFS
		case volume.SignatureHFSPlus:
			kind = sig.HFSPlus
		case volume.SignatureHFSX:
			kind = sig.HFSX
		default:
			return report, ErrUnsupportedFilesystem
		}
	}

	now := time.Now()

	if kind.IsHFSPlusFamily() {
		return checkHFSPlus(h, kind, opts, ask, now)
	}

	return checkHFS(h, opts, ask, now)
}

// resolveFindings appends every item in fs to report and, when
// opts.Repair allows it, applies each Repairable finding's fix after
// confirming with ask.
func resolveFindings(fs *volume.Findings, opts Options, ask AskFunc, report *Report) {
	for _, f := range fs.Items() {
		report.Findings = append(report.Findings, f)

		if f.Severity != volume.Repairable || f.Repair == nil || !opts.Repair {
			continue
		}

		if ask(f.Message) {
			if err := f.Repair(); err == nil {
				report.CorrectedCount++
			}
		}
	}
}

func extentsOf(rec volume.HFSExtentRecord) []volume.Extent {
	return rec[:]
}

func extentsWithinBounds(fs *volume.Findings, field string, extents []volume.Extent, totalBlocks uint32) {
	for _, e := range extents {
		if e.BlockCount == 0 {
			continue
		}

		if uint64(e.StartBlock)+uint64(e.BlockCount) > uint64(totalBlocks) {
			fs.Critical(field, "extent [%d:%d) lies outside [0, %d)", e.StartBlock, e.StartBlock+e.BlockCount, totalBlocks)
		}
	}
}

func countSetBlocks(bitmap []byte, totalBlocks uint32) uint32 {
	var n uint32

	for i := uint32(0); i < totalBlocks; i++ {
		if int(i/8) >= len(bitmap) {
			break
		}

		if bitmap[i/8]&(0x80>>(i%8)) != 0 {
			n++
		}
	}

	return n
}
