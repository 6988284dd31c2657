package fsck

import (
	"time"

	"github.com/jotarandom/go-hfsutils/btree"
	"github.com/jotarandom/go-hfsutils/device"
	"github.com/jotarandom/go-hfsutils/volume"
)

// checkHFS runs the six-phase check against a classic HFS volume.
// Phases 2 and 6 do not apply to HFS (no journal, no attributes tree)
// and are skipped.
func checkHFS(h *device.Handle, opts Options, ask AskFunc, now time.Time) (Report, error) {
	var report Report

	primary, err := volume.ReadPrimary(h)
	if err != nil {
		return report, err
	}

	var fs volume.Findings

	mdb, err := volume.DecodeMDB(primary, &fs, now)
	if err != nil {
		return report, err
	}

	if fs.HasCritical() {
		declined := false

		alt, altErr := volume.ReadAlternate(h)
		if altErr == nil {
			var altFs volume.Findings

			altMDB, decErr := volume.DecodeMDB(alt, &altFs, now)
			if decErr == nil && !altFs.HasCritical() {
				if opts.Repair {
					if opts.YesToAll || ask("the primary Master Directory Block is damaged; restore it from the alternate copy?") {
						if writeErr := h.Pwrite(1024, alt); writeErr != nil {
							return report, writeErr
						}

						report.CorrectedCount++
						mdb = altMDB
						fs = volume.Findings{}
					} else {
						declined = true
					}
				}
			}
		}

		if fs.HasCritical() {
			resolveFindings(&fs, opts, ask, &report)

			if declined {
				return report, ErrCancelled
			}

			return report, ErrVolumeHeaderUnrecoverable
		}
	}

	dirty := mdb.DrAtrb&volume.AtrbUnmountedCleanly == 0
	if dirty {
		fs.Repairable("drAtrb", func() error {
			mdb.DrAtrb |= volume.AtrbUnmountedCleanly
			return nil
		}, "unmounted-cleanly bit is clear")
	}

	extentsWithinBounds(&fs, "drXTExtRec", extentsOf(mdb.DrXTExtRec), uint32(mdb.DrNmAlBlks))
	extentsWithinBounds(&fs, "drCTExtRec", extentsOf(mdb.DrCTExtRec), uint32(mdb.DrNmAlBlks))

	resolveFindings(&fs, opts, ask, &report)

	if !dirty && !opts.Force {
		return finishHFS(h, &mdb, &report)
	}

	volumeStart := uint64(mdb.DrAlBlSt) * 512
	blockSize := mdb.DrAlBlkSiz

	bitmapBytes := (uint32(mdb.DrNmAlBlks) + 7) / 8

	bitmap := make([]byte, bitmapBytes)
	if err := h.Pread(uint64(mdb.DrVBMSt)*512, bitmap); err == nil {
		var bitmapFs volume.Findings

		setCount := countSetBlocks(bitmap, uint32(mdb.DrNmAlBlks))
		expectedFree := uint32(mdb.DrNmAlBlks) - setCount

		if uint32(mdb.DrFreeBks) != expectedFree {
			bad := mdb.DrFreeBks
			bitmapFs.Repairable("drFreeBks", func() error {
				mdb.DrFreeBks = uint16(expectedFree)
				return nil
			}, "free block count %d does not match the %d blocks the bitmap marks free", bad, expectedFree)
		}

		resolveFindings(&bitmapFs, opts, ask, &report)
	}

	extentsAcc := btree.NewAccessor(h, volumeStart, blockSize, extentsOf(mdb.DrXTExtRec), hfsNodeSize)
	checkHFSBTree(extentsAcc, mdb.DrXTFlSize, btree.CompareExtentsOrAttributes, false, opts, ask, &report)

	catalogAcc := btree.NewAccessor(h, volumeStart, blockSize, extentsOf(mdb.DrCTExtRec), hfsNodeSize)
	checkHFSBTree(catalogAcc, mdb.DrCTFlSize, btree.CompareCatalogHFS, true, opts, ask, &report)

	return finishHFS(h, &mdb, &report)
}

// finishHFS writes the MDB back (primary and alternate) if any phase
// corrected something, then syncs.
func finishHFS(h *device.Handle, mdb *volume.MDB, report *Report) (Report, error) {
	if report.CorrectedCount == 0 {
		return *report, nil
	}

	mdbBuf, err := volume.EncodeMDB(*mdb)
	if err != nil {
		return *report, err
	}

	if err := volume.WritePrimaryAndAlternate(h, mdbBuf); err != nil {
		return *report, err
	}

	return *report, h.Sync()
}

// checkHFSBTree decodes and traverses one system file's B-tree,
// recording every fault onto report. validateCatalog additionally
// checks record types and parent IDs; the MDB's folder and file counts
// are not cross-checked against the catalog records.
func checkHFSBTree(acc *btree.Accessor, forkSize uint32, compare btree.CompareFunc, validateCatalog bool, opts Options, ask AskFunc, report *Report) {
	headerNode, err := acc.GetNode(0)
	if err != nil {
		return
	}

	if len(headerNode.Records) == 0 {
		return
	}

	var fs volume.Findings

	header, err := btree.DecodeBTHeaderRec(headerNode.Records[0], 0)
	if err != nil {
		fs.Critical("btHeaderRec", "%v", err)
		resolveFindings(&fs, opts, ask, report)
		return
	}

	totalNodes := forkSize / uint32(hfsNodeSize)

	btree.ValidateHeader(&header, &fs, totalNodes, uint16(hfsNodeSize), nil)

	records, err := btree.Traverse(acc, header, compare, &fs)
	if err != nil {
		fs.Critical("btree", "%v", err)
	}

	if validateCatalog {
		validateCatalogRecords(records, &fs)
	}

	resolveFindings(&fs, opts, ask, report)
}

func validateCatalogRecords(records []btree.Record, fs *volume.Findings) {
	for _, rec := range records {
		recType, err := btree.ReadCatalogRecordType(rec.Data)
		if err != nil {
			fs.Critical("catalog", "node %d: %v", rec.NodeIndex, err)
			continue
		}

		if !btree.IsValidCatalogRecordType(recType) {
			fs.Critical("catalog", "node %d: record type %d is not one of the defined catalog record types", rec.NodeIndex, recType)
			continue
		}

		key, err := btree.DecodeCatalogKeyHFS(rec.Key)
		if err != nil {
			fs.Critical("catalog", "node %d: %v", rec.NodeIndex, err)
			continue
		}

		if key.ParentID < volume.CNIDParentOfRoot {
			fs.Critical("catalog", "node %d: parent ID %d is below the reserved floor", rec.NodeIndex, key.ParentID)
		}
	}
}
