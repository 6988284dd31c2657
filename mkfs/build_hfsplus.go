package mkfs

import (
	"time"

	"github.com/jotarandom/go-hfsutils/bytecodec"
	"github.com/jotarandom/go-hfsutils/btree"
	"github.com/jotarandom/go-hfsutils/device"
	"github.com/jotarandom/go-hfsutils/volume"
)

// singleExtentFork builds a ForkData describing a fork that fits
// entirely in one inline extent, starting immediately after the
// previous fork's allocation.
func singleExtentFork(startBlock, blocks, blockSize uint32) volume.ForkData {
	fd := volume.ForkData{
		LogicalSize: uint64(blocks) * uint64(blockSize),
		ClumpSize:   blockSize,
		TotalBlocks: blocks,
	}
	fd.Extents[0] = volume.Extent{StartBlock: startBlock, BlockCount: blocks}

	return fd
}

// buildHFSPlus lays down a complete HFS+ volume in construction
// order: boot blocks, allocation bitmap, empty extents and attributes
// B-trees, a catalog B-tree seeded with the root folder, then the
// primary and alternate Volume Header together, sync.
func buildHFSPlus(h *device.Handle, label string, sizing HFSPlusSizing, journaling bool, now time.Time) error {
	bootBlocks := make([]byte, 1024)
	if err := h.Pwrite(0, bootBlocks); err != nil {
		return err
	}

	// The boot blocks and the primary Volume Header occupy the first
	// 1536 bytes, so the system files start at the first block after.
	next := (1536 + sizing.BlockSize - 1) / sizing.BlockSize

	allocationFork := singleExtentFork(next, sizing.AllocationBlocks, sizing.BlockSize)
	next += sizing.AllocationBlocks

	extentsFork := singleExtentFork(next, sizing.ExtentsBlocks, sizing.BlockSize)
	next += sizing.ExtentsBlocks

	catalogFork := singleExtentFork(next, sizing.CatalogBlocks, sizing.BlockSize)
	next += sizing.CatalogBlocks

	attributesFork := singleExtentFork(next, sizing.AttributesBlocks, sizing.BlockSize)
	next += sizing.AttributesBlocks

	usedBlocks := next

	bitmap := make([]byte, uint64(sizing.AllocationBlocks)*uint64(sizing.BlockSize))
	for i := uint32(0); i < usedBlocks; i++ {
		bitmap[i/8] |= 0x80 >> (i % 8)
	}

	if err := h.Pwrite(uint64(allocationFork.Extents[0].StartBlock)*uint64(sizing.BlockSize), bitmap); err != nil {
		return err
	}

	extentsHeaderBuf, err := btree.WriteHeaderNodeBytes(int(sizing.BlockSize), 0xFF, 0xBC, sizing.BlockSize, 10)
	if err != nil {
		return err
	}

	extentsAt := uint64(extentsFork.Extents[0].StartBlock) * uint64(sizing.BlockSize)
	if err := writePadded(h, extentsAt, extentsHeaderBuf, extentsFork.LogicalSize); err != nil {
		return err
	}

	attributesHeaderBuf, err := btree.WriteHeaderNodeBytes(int(sizing.BlockSize), 0, 0xCF, sizing.BlockSize, 40)
	if err != nil {
		return err
	}

	attributesAt := uint64(attributesFork.Extents[0].StartBlock) * uint64(sizing.BlockSize)
	if err := writePadded(h, attributesAt, attributesHeaderBuf, attributesFork.LogicalSize); err != nil {
		return err
	}

	catalogAt := uint64(catalogFork.Extents[0].StartBlock) * uint64(sizing.BlockSize)
	if err := writeCatalogBTree(h, catalogAt, int(sizing.BlockSize), now); err != nil {
		return err
	}

	if catalogFork.LogicalSize > 2*uint64(sizing.BlockSize) {
		remaining := catalogFork.LogicalSize - 2*uint64(sizing.BlockSize)

		zero := make([]byte, remaining)
		if err := h.Pwrite(catalogAt+2*uint64(sizing.BlockSize), zero); err != nil {
			return err
		}
	}

	nowMac := bytecodec.PosixToMac(now.Unix())

	attributes := uint32(volume.AttrUnmountedCleanly)
	if journaling {
		attributes |= volume.AttrJournaled
	}

	clumpSize := sizing.BlockSize * 4
	if uint64(sizing.TotalBlocks)*uint64(sizing.BlockSize) < 1024*1024 {
		clumpSize = sizing.BlockSize
	}

	vh := volume.VolumeHeader{
		Signature:          volume.SignatureHFSPlus,
		Version:            volume.VersionHFSPlus,
		Attributes:         attributes,
		LastMountedVersion: 0x31302e30, // "10.0", matching real-world HFS+ volumes' lastMountedVersion convention
		CreateDate:         nowMac,
		ModifyDate:         nowMac,
		CheckedDate:        nowMac,
		FolderCount:        1,
		BlockSize:          sizing.BlockSize,
		TotalBlocks:        sizing.TotalBlocks,
		FreeBlocks:         sizing.TotalBlocks - usedBlocks,
		NextAllocation:     usedBlocks,
		RsrcClumpSize:      clumpSize,
		DataClumpSize:      clumpSize,
		NextCatalogID:      volume.CNIDFirstUser,
		AllocationFile:     allocationFork,
		ExtentsFile:        extentsFork,
		CatalogFile:        catalogFork,
		AttributesFile:     attributesFork,
	}

	vhBuf, err := volume.EncodeVolumeHeader(vh)
	if err != nil {
		return err
	}

	if err := volume.WritePrimaryAndAlternate(h, vhBuf); err != nil {
		return err
	}

	return h.Sync()
}

// writeCatalogBTree writes a two-node catalog B-tree at catalogAt: a
// header node followed by a single leaf node holding the root folder
// record (folderID 2, parentID 1, empty name, valence 0, dates set to
// the folder's creation time).
func writeCatalogBTree(h *device.Handle, catalogAt uint64, nodeSize int, now time.Time) error {
	nowMac := bytecodec.PosixToMac(now.Unix())

	header := btree.BTHeaderRec{
		TreeDepth:      1,
		RootNode:       1,
		LeafRecords:    1,
		FirstLeafNode:  1,
		LastLeafNode:   1,
		NodeSize:       uint16(nodeSize),
		MaxKeyLength:   40,
		TotalNodes:     2,
		FreeNodes:      0,
		ClumpSize:      uint32(nodeSize),
		BTreeType:      0,
		KeyCompareType: 0xCF,
		Attributes:     0,
	}

	headerRecord := btree.EncodeBTHeaderRec(header)
	userData := make([]byte, 128)

	bitmapSize := nodeSize - btree.DescriptorSize - btree.HeaderRecSize - 128 - 8
	if bitmapSize < 0 {
		bitmapSize = 0
	}

	bitmap := make([]byte, bitmapSize)
	bitmap[0] = 0xC0 // nodes 0 (header) and 1 (leaf) are allocated

	headerRecords := [][]byte{headerRecord, userData, bitmap}

	headerDesc := btree.Descriptor{FLink: 1, BLink: 0, Kind: btree.KindHeader, Height: 0, NumRecords: uint16(len(headerRecords))}

	headerNode, err := btree.EncodeNode(nodeSize, headerDesc, headerRecords)
	if err != nil {
		return err
	}

	if err := h.Pwrite(catalogAt, headerNode); err != nil {
		return err
	}

	key, err := btree.EncodeCatalogKey(btree.CatalogKey{ParentID: volume.CNIDParentOfRoot, NodeName: ""})
	if err != nil {
		return err
	}

	folderRecord, err := btree.EncodeCatalogFolderRecord(btree.CatalogFolderRecord{
		FolderID:       volume.CNIDRootFolder,
		Valence:        0,
		CreateDate:     nowMac,
		ContentModDate: nowMac,
		AttrModDate:    nowMac,
		AccessDate:     nowMac,
		BackupDate:     0,
		TextEncoding:   0,
	})
	if err != nil {
		return err
	}

	leafRecord := append(key, folderRecord...)

	leafDesc := btree.Descriptor{FLink: 0, BLink: 0, Kind: btree.KindLeaf, Height: 1, NumRecords: 1}

	leafNode, err := btree.EncodeNode(nodeSize, leafDesc, [][]byte{leafRecord})
	if err != nil {
		return err
	}

	return h.Pwrite(catalogAt+uint64(nodeSize), leafNode)
}
