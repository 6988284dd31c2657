package volume

import (
	"fmt"
	"time"

	"github.com/jotarandom/go-hfsutils/bytecodec"
)

// VolumeHeaderSize is the fixed on-disk size of an HFS+ Volume Header.
const VolumeHeaderSize = 512

const (
	// SignatureHFSPlus is the required signature for plain HFS+.
	SignatureHFSPlus = 0x482B
	// SignatureHFSX is the required signature for the case-sensitive
	// HFS+ variant.
	SignatureHFSX = 0x4858

	// VersionHFSPlus is the required version field for SignatureHFSPlus.
	VersionHFSPlus = 4
	// VersionHFSX is the required version field for SignatureHFSX.
	VersionHFSX = 5
)

// Attribute bits.
const (
	AttrUnmountedCleanly = 1 << 8
	AttrJournaled        = 1 << 13
	AttrVolumeLocked     = 1 << 15
)

// VolumeHeader is the decoded, 512-byte-authoritative form of the HFS+
// Volume Header. Some C sources additionally expose a second,
// fork-less convenience struct; this module exports only this one
// form (see DESIGN.md Open Question 2).
type VolumeHeader struct {
	Signature           uint16
	Version             uint16
	Attributes          uint32
	LastMountedVersion  uint32
	JournalInfoBlock    uint32
	CreateDate          uint32
	ModifyDate          uint32
	BackupDate          uint32
	CheckedDate         uint32
	FileCount           uint32
	FolderCount         uint32
	BlockSize           uint32
	TotalBlocks         uint32
	FreeBlocks          uint32
	NextAllocation      uint32
	RsrcClumpSize       uint32
	DataClumpSize       uint32
	NextCatalogID       uint32
	WriteCount          uint32
	EncodingsBitmap     uint64
	FinderInfo          [32]byte
	AllocationFile      ForkData
	ExtentsFile         ForkData
	CatalogFile         ForkData
	AttributesFile      ForkData
	StartupFile         ForkData
}

// DecodeVolumeHeader decodes a 512-byte buffer as an HFS+ Volume
// Header, recording every invariant breach onto fs.
func DecodeVolumeHeader(buf []byte, fs *Findings, now time.Time) (VolumeHeader, error) {
	var vh VolumeHeader

	if len(buf) != VolumeHeaderSize {
		return vh, fmt.Errorf("volume: Volume Header buffer must be exactly %d bytes, got %d", VolumeHeaderSize, len(buf))
	}

	read16 := func(off int) uint16 { v, _ := bytecodec.ReadU16BE(buf, off); return v }
	read32 := func(off int) uint32 { v, _ := bytecodec.ReadU32BE(buf, off); return v }
	read64 := func(off int) uint64 { v, _ := bytecodec.ReadU64BE(buf, off); return v }

	vh.Signature = read16(0)
	vh.Version = read16(2)
	vh.Attributes = read32(4)
	vh.LastMountedVersion = read32(8)
	vh.JournalInfoBlock = read32(12)
	vh.CreateDate = read32(16)
	vh.ModifyDate = read32(20)
	vh.BackupDate = read32(24)
	vh.CheckedDate = read32(28)
	vh.FileCount = read32(32)
	vh.FolderCount = read32(36)
	vh.BlockSize = read32(40)
	vh.TotalBlocks = read32(44)
	vh.FreeBlocks = read32(48)
	vh.NextAllocation = read32(52)
	vh.RsrcClumpSize = read32(56)
	vh.DataClumpSize = read32(60)
	vh.NextCatalogID = read32(64)
	vh.WriteCount = read32(68)
	vh.EncodingsBitmap = read64(72)
	copy(vh.FinderInfo[:], buf[80:112])

	var err error

	vh.AllocationFile, err = DecodeForkData(buf, 112)
	if err != nil {
		return vh, err
	}

	vh.ExtentsFile, err = DecodeForkData(buf, 192)
	if err != nil {
		return vh, err
	}

	vh.CatalogFile, err = DecodeForkData(buf, 272)
	if err != nil {
		return vh, err
	}

	vh.AttributesFile, err = DecodeForkData(buf, 352)
	if err != nil {
		return vh, err
	}

	vh.StartupFile, err = DecodeForkData(buf, 432)
	if err != nil {
		return vh, err
	}

	validateVolumeHeader(&vh, fs, now)

	return vh, nil
}

func validateVolumeHeader(vh *VolumeHeader, fs *Findings, now time.Time) {
	if vh.Signature != SignatureHFSPlus && vh.Signature != SignatureHFSX {
		fs.Critical("signature", "expected 0x482B or 0x4858, got 0x%04X", vh.Signature)
		return
	}

	wantVersion := uint16(VersionHFSPlus)
	if vh.Signature == SignatureHFSX {
		wantVersion = VersionHFSX
	}

	if vh.Version != wantVersion {
		fs.Critical("version", "expected %d for this signature, got %d", wantVersion, vh.Version)
	}

	if vh.BlockSize == 0 || vh.BlockSize%512 != 0 || vh.BlockSize&(vh.BlockSize-1) != 0 {
		fs.Critical("blockSize", "allocation block size %d is not a power of two >= 512", vh.BlockSize)
	}

	if vh.TotalBlocks == 0 {
		fs.Critical("totalBlocks", "total blocks is zero")
	}

	if vh.FolderCount < 1 {
		fs.Add(Finding{
			Severity: Repairable,
			Field:    "folderCount",
			Message:  "folder count must include at least the root",
			Repair:   func() error { vh.FolderCount = 1; return nil },
		})
	}

	if vh.FreeBlocks > vh.TotalBlocks {
		fs.Add(Finding{
			Severity: Repairable,
			Field:    "freeBlocks",
			Message:  fmt.Sprintf("free blocks %d exceeds total blocks %d", vh.FreeBlocks, vh.TotalBlocks),
			Repair:   func() error { vh.FreeBlocks = vh.TotalBlocks; return nil },
		})
	}

	if vh.RsrcClumpSize == 0 {
		fs.Critical("rsrcClumpSize", "resource-fork clump size must be present and non-zero")
	}

	if vh.DataClumpSize == 0 {
		fs.Critical("dataClumpSize", "data-fork clump size must be present and non-zero")
	}

	if vh.NextCatalogID < CNIDFirstUser {
		fs.Add(Finding{
			Severity: Repairable,
			Field:    "nextCatalogID",
			Message:  fmt.Sprintf("next catalog ID %d is below the reserved floor of %d", vh.NextCatalogID, CNIDFirstUser),
			Repair:   func() error { vh.NextCatalogID = CNIDFirstUser; return nil },
		})
	}

	nowMac := bytecodec.PosixToMac(now.Unix())

	for _, d := range []struct {
		field string
		value uint32
	}{
		{"createDate", vh.CreateDate},
		{"modifyDate", vh.ModifyDate},
		{"backupDate", vh.BackupDate},
	} {
		if d.value > nowMac {
			fs.Advisory(d.field, "%s %d is in the future", d.field, d.value)
		}
	}

	if vh.CheckedDate > nowMac {
		fs.Add(Finding{
			Severity: Repairable,
			Field:    "checkedDate",
			Message:  fmt.Sprintf("checked date %d is in the future", vh.CheckedDate),
			Repair:   func() error { vh.CheckedDate = bytecodec.SafeMacTimeNow(now); return nil },
		})
	}
}

// IsJournaled reports whether the journaled attribute bit is set.
func (vh VolumeHeader) IsJournaled() bool {
	return vh.Attributes&AttrJournaled != 0
}

// IsUnmountedCleanly reports whether the unmounted-cleanly attribute
// bit is set.
func (vh VolumeHeader) IsUnmountedCleanly() bool {
	return vh.Attributes&AttrUnmountedCleanly != 0
}

// EncodeVolumeHeader serializes vh into a 512-byte buffer.
func EncodeVolumeHeader(vh VolumeHeader) ([]byte, error) {
	buf := make([]byte, VolumeHeaderSize)

	write16 := func(off int, v uint16) { _ = bytecodec.WriteU16BE(buf, off, v) }
	write32 := func(off int, v uint32) { _ = bytecodec.WriteU32BE(buf, off, v) }
	write64 := func(off int, v uint64) { _ = bytecodec.WriteU64BE(buf, off, v) }

	write16(0, vh.Signature)
	write16(2, vh.Version)
	write32(4, vh.Attributes)
	write32(8, vh.LastMountedVersion)
	write32(12, vh.JournalInfoBlock)
	write32(16, vh.CreateDate)
	write32(20, vh.ModifyDate)
	write32(24, vh.BackupDate)
	write32(28, vh.CheckedDate)
	write32(32, vh.FileCount)
	write32(36, vh.FolderCount)
	write32(40, vh.BlockSize)
	write32(44, vh.TotalBlocks)
	write32(48, vh.FreeBlocks)
	write32(52, vh.NextAllocation)
	write32(56, vh.RsrcClumpSize)
	write32(60, vh.DataClumpSize)
	write32(64, vh.NextCatalogID)
	write32(68, vh.WriteCount)
	write64(72, vh.EncodingsBitmap)
	copy(buf[80:112], vh.FinderInfo[:])

	if err := EncodeForkData(buf, 112, vh.AllocationFile); err != nil {
		return nil, err
	}

	if err := EncodeForkData(buf, 192, vh.ExtentsFile); err != nil {
		return nil, err
	}

	if err := EncodeForkData(buf, 272, vh.CatalogFile); err != nil {
		return nil, err
	}

	if err := EncodeForkData(buf, 352, vh.AttributesFile); err != nil {
		return nil, err
	}

	if err := EncodeForkData(buf, 432, vh.StartupFile); err != nil {
		return nil, err
	}

	return buf, nil
}
