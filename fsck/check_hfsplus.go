package fsck

import (
	"time"

	"github.com/jotarandom/go-hfsutils/btree"
	"github.com/jotarandom/go-hfsutils/bytecodec"
	"github.com/jotarandom/go-hfsutils/device"
	"github.com/jotarandom/go-hfsutils/journal"
	"github.com/jotarandom/go-hfsutils/sig"
	"github.com/jotarandom/go-hfsutils/volume"
)

// checkHFSPlus runs the six-phase check against an HFS+ or HFSX
// volume. kind selects the catalog key compare strategy: HFSX uses
// binary name comparison, plain HFS+ uses case-folding comparison.
func checkHFSPlus(h *device.Handle, kind sig.Kind, opts Options, ask AskFunc, now time.Time) (Report, error) {
	var report Report

	primary, err := volume.ReadPrimary(h)
	if err != nil {
		return report, err
	}

	var fs volume.Findings

	vh, err := volume.DecodeVolumeHeader(primary, &fs, now)
	if err != nil {
		return report, err
	}

	if fs.HasCritical() {
		declined := false

		alt, altErr := volume.ReadAlternate(h)
		if altErr == nil {
			var altFs volume.Findings

			altVH, decErr := volume.DecodeVolumeHeader(alt, &altFs, now)
			if decErr == nil && !altFs.HasCritical() {
				if opts.Repair {
					if opts.YesToAll || ask("the primary Volume Header is damaged; restore it from the alternate copy?") {
						if writeErr := h.Pwrite(1024, alt); writeErr != nil {
							return report, writeErr
						}

						report.CorrectedCount++
						vh = altVH
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

	dirty := !vh.IsUnmountedCleanly()
	if dirty {
		fs.Repairable("attributes", func() error {
			vh.Attributes |= volume.AttrUnmountedCleanly
			return nil
		}, "unmounted-cleanly bit is clear")
	}

	if opts.Repair {
		vh.CheckedDate = bytecodec.SafeMacTimeNow(now)
	}

	for _, fork := range []struct {
		field string
		fd    volume.ForkData
	}{
		{"allocationFile", vh.AllocationFile},
		{"extentsFile", vh.ExtentsFile},
		{"catalogFile", vh.CatalogFile},
		{"attributesFile", vh.AttributesFile},
		{"startupFile", vh.StartupFile},
	} {
		extentsWithinBounds(&fs, fork.field, fork.fd.Extents[:], vh.TotalBlocks)
	}

	resolveFindings(&fs, opts, ask, &report)

	if vh.IsJournaled() {
		var journalFs volume.Findings

		result, jErr := journal.Replay(h, 0, uint64(vh.JournalInfoBlock)*uint64(vh.BlockSize), vh.BlockSize, opts.Repair, &journalFs)
		if jErr == nil {
			report.JournalReplayed = result.Replayed

			if result.DisableJournal && opts.Repair && (opts.YesToAll || ask("the journal is damaged; disable journaling on this volume?")) {
				vh.Attributes &^= volume.AttrJournaled
				report.JournalDisabled = true
				report.CorrectedCount++
			}
		}

		resolveFindings(&journalFs, opts, ask, &report)
	}

	if !dirty && !opts.Force {
		return finishHFSPlus(h, &vh, &report)
	}

	var bitmapFs volume.Findings

	bitmapBytes := (vh.TotalBlocks + 7) / 8
	bitmapAt := uint64(vh.AllocationFile.Extents[0].StartBlock) * uint64(vh.BlockSize)

	bitmap := make([]byte, bitmapBytes)
	bitmapErr := h.Pread(bitmapAt, bitmap)

	if bitmapErr == nil {
		setCount := countSetBlocks(bitmap, vh.TotalBlocks)
		expectedFree := vh.TotalBlocks - setCount

		if vh.FreeBlocks != expectedFree {
			bad := vh.FreeBlocks
			bitmapFs.Repairable("freeBlocks", func() error {
				vh.FreeBlocks = expectedFree
				return nil
			}, "free block count %d does not match the %d blocks the bitmap marks free", bad, expectedFree)
		}
	}

	resolveFindings(&bitmapFs, opts, ask, &report)

	extentsAcc := btree.NewAccessor(h, 0, vh.BlockSize, vh.ExtentsFile.Extents[:], int(vh.BlockSize))
	checkHFSPlusBTree(extentsAcc, vh.ExtentsFile.LogicalSize, vh.BlockSize, btree.CompareExtentsOrAttributes, opts, ask, &report)

	catalogCompare := btree.CompareCatalogHFSPlus
	if kind == sig.HFSX {
		catalogCompare = btree.CompareCatalogHFSX
	}

	catalogAcc := btree.NewAccessor(h, 0, vh.BlockSize, vh.CatalogFile.Extents[:], int(vh.BlockSize))
	catalogRecords := checkHFSPlusBTree(catalogAcc, vh.CatalogFile.LogicalSize, vh.BlockSize, catalogCompare, opts, ask, &report)

	if catalogRecords != nil {
		var catalogFs volume.Findings
		validateCatalogRecords(catalogRecords, &catalogFs)
		resolveFindings(&catalogFs, opts, ask, &report)
		crossCheckCatalogCounts(catalogRecords, &vh, opts, ask, &report)
	}

	if vh.AttributesFile.TotalBlocks > 0 {
		attributesAcc := btree.NewAccessor(h, 0, vh.BlockSize, vh.AttributesFile.Extents[:], int(vh.BlockSize))
		checkHFSPlusBTree(attributesAcc, vh.AttributesFile.LogicalSize, vh.BlockSize, btree.CompareExtentsOrAttributes, opts, ask, &report)
	}

	return finishHFSPlus(h, &vh, &report)
}

// finishHFSPlus writes the Volume Header back (primary and alternate)
// if any phase corrected something, then syncs.
func finishHFSPlus(h *device.Handle, vh *volume.VolumeHeader, report *Report) (Report, error) {
	if report.CorrectedCount == 0 {
		return *report, nil
	}

	vhBuf, err := volume.EncodeVolumeHeader(*vh)
	if err != nil {
		return *report, err
	}

	if err := volume.WritePrimaryAndAlternate(h, vhBuf); err != nil {
		return *report, err
	}

	return *report, h.Sync()
}

// checkHFSPlusBTree decodes and traverses one system file's B-tree and
// records every fault onto report, returning the decoded leaf records
// for callers (the catalog checker) that need a further semantic pass.
func checkHFSPlusBTree(acc *btree.Accessor, forkLogicalSize uint64, blockSize uint32, compare btree.CompareFunc, opts Options, ask AskFunc, report *Report) []btree.Record {
	headerNode, err := acc.GetNode(0)
	if err != nil {
		return nil
	}

	if len(headerNode.Records) == 0 {
		return nil
	}

	var fs volume.Findings

	header, err := btree.DecodeBTHeaderRec(headerNode.Records[0], 0)
	if err != nil {
		fs.Critical("btHeaderRec", "%v", err)
		resolveFindings(&fs, opts, ask, report)
		return nil
	}

	totalNodes := uint32(forkLogicalSize / uint64(blockSize))

	btree.ValidateHeader(&header, &fs, totalNodes, uint16(blockSize), nil)

	records, err := btree.Traverse(acc, header, compare, &fs)
	if err != nil {
		fs.Critical("btree", "%v", err)
	}

	resolveFindings(&fs, opts, ask, report)

	return records
}

func crossCheckCatalogCounts(records []btree.Record, vh *volume.VolumeHeader, opts Options, ask AskFunc, report *Report) {
	var fs volume.Findings

	var folders, files uint32

	for _, rec := range records {
		recType, err := btree.ReadCatalogRecordType(rec.Data)
		if err != nil {
			continue
		}

		switch recType {
		case btree.RecordTypeFolder:
			folders++
		case btree.RecordTypeFile:
			files++
		}
	}

	// vh.FolderCount includes the root folder, so every folder record
	// counted above is compared against it.
	if vh.FolderCount != folders {
		bad := vh.FolderCount
		fs.Repairable("folderCount", func() error {
			vh.FolderCount = folders
			return nil
		}, "folder count %d does not match the %d folder records found in the catalog", bad, folders)
	}

	if vh.FileCount != files {
		bad := vh.FileCount
		fs.Repairable("fileCount", func() error {
			vh.FileCount = files
			return nil
		}, "file count %d does not match the %d file records found in the catalog", bad, files)
	}

	resolveFindings(&fs, opts, ask, report)
}
