package volume

import (
	"fmt"
	"time"

	"github.com/jotarandom/go-hfsutils/bytecodec"
)

// MDBSize is the fixed on-disk size of a Master Directory Block.
const MDBSize = 512

// MDBSignature is the required drSigWord value ("BD").
const MDBSignature = 0x4244

// MDB is the decoded form of the classic HFS Master Directory Block.
// Field names match the on-disk names.
type MDB struct {
	DrSigWord      uint16
	DrCrDate       uint32
	DrLsMod        uint32
	DrAtrb         uint16
	DrNmFls        uint16
	DrVBMSt        uint16
	DrAllocPtr     uint16
	DrNmAlBlks     uint16
	DrAlBlkSiz     uint32
	DrClpSiz       uint32
	DrAlBlSt       uint16
	DrNxtCNID      uint32
	DrFreeBks      uint16
	DrVN           string
	DrVolBkUp      uint32
	DrVSeqNum      uint16
	DrWrCnt        uint32
	DrXTClpSiz     uint32
	DrCTClpSiz     uint32
	DrNmRtDirs     uint16
	DrFilCnt       uint32
	DrDirCnt       uint32
	DrFndrInfo     [32]byte
	DrEmbedSigWord uint16
	DrEmbedExtent  Extent
	DrXTFlSize     uint32
	DrXTExtRec     HFSExtentRecord
	DrCTFlSize     uint32
	DrCTExtRec     HFSExtentRecord
}

// DrAtrb bits.
const (
	AtrbUnmountedCleanly = 1 << 8
	AtrbLocked           = 1 << 7
)

// DecodeMDB decodes a 512-byte buffer as a Master Directory Block,
// recording every invariant breach onto fs. A critical breach still
// returns the partially-decoded MDB so the caller can inspect what was
// read, but fs.HasCritical() reports true.
func DecodeMDB(buf []byte, fs *Findings, now time.Time) (MDB, error) {
	var mdb MDB

	if len(buf) != MDBSize {
		return mdb, fmt.Errorf("volume: MDB buffer must be exactly %d bytes, got %d", MDBSize, len(buf))
	}

	read16 := func(off int) uint16 { v, _ := bytecodec.ReadU16BE(buf, off); return v }
	read32 := func(off int) uint32 { v, _ := bytecodec.ReadU32BE(buf, off); return v }

	mdb.DrSigWord = read16(0)
	mdb.DrCrDate = read32(2)
	mdb.DrLsMod = read32(6)
	mdb.DrAtrb = read16(10)
	mdb.DrNmFls = read16(12)
	mdb.DrVBMSt = read16(14)
	mdb.DrAllocPtr = read16(16)
	mdb.DrNmAlBlks = read16(18)
	mdb.DrAlBlkSiz = read32(20)
	mdb.DrClpSiz = read32(24)
	mdb.DrAlBlSt = read16(28)
	mdb.DrNxtCNID = read32(30)
	mdb.DrFreeBks = read16(34)

	vn, err := bytecodec.ReadPString(buf, 36, 28)
	if err != nil {
		fs.Add(Finding{Severity: Critical, Field: "drVN", Message: err.Error()})
	} else {
		mdb.DrVN = vn
	}

	mdb.DrVolBkUp = read32(64)
	mdb.DrVSeqNum = read16(68)
	mdb.DrWrCnt = read32(70)
	mdb.DrXTClpSiz = read32(74)
	mdb.DrCTClpSiz = read32(78)
	mdb.DrNmRtDirs = read16(82)
	mdb.DrFilCnt = read32(84)
	mdb.DrDirCnt = read32(88)
	copy(mdb.DrFndrInfo[:], buf[92:124])
	mdb.DrEmbedSigWord = read16(124)

	embedStart := read16(126)
	embedCount := read16(128)
	mdb.DrEmbedExtent = Extent{StartBlock: uint32(embedStart), BlockCount: uint32(embedCount)}

	mdb.DrXTFlSize = read32(130)

	xtRec, err := DecodeHFSExtentRecord(buf, 134)
	if err != nil {
		fs.Add(Finding{Severity: Critical, Field: "drXTExtRec", Message: err.Error()})
	}
	mdb.DrXTExtRec = xtRec

	mdb.DrCTFlSize = read32(146)

	ctRec, err := DecodeHFSExtentRecord(buf, 150)
	if err != nil {
		fs.Add(Finding{Severity: Critical, Field: "drCTExtRec", Message: err.Error()})
	}
	mdb.DrCTExtRec = ctRec

	validateMDB(&mdb, fs, now)

	return mdb, nil
}

func validateMDB(mdb *MDB, fs *Findings, now time.Time) {
	if mdb.DrSigWord != MDBSignature {
		fs.Critical("drSigWord", "expected 0x4244, got 0x%04X", mdb.DrSigWord)
		return
	}

	nowMac := bytecodec.PosixToMac(now.Unix())

	if mdb.DrCrDate == 0 {
		fs.Critical("drCrDate", "creation date is zero")
	} else if mdb.DrCrDate > nowMac {
		fs.Advisory("drCrDate", "creation date %d is in the future", mdb.DrCrDate)
	}

	if mdb.DrLsMod < mdb.DrCrDate {
		fs.Add(Finding{
			Severity: Repairable,
			Field:    "drLsMod",
			Message:  fmt.Sprintf("last-modified date %d precedes creation date %d", mdb.DrLsMod, mdb.DrCrDate),
			Repair:   func() error { mdb.DrLsMod = mdb.DrCrDate; return nil },
		})
	}

	if mdb.DrAlBlkSiz == 0 || mdb.DrAlBlkSiz%512 != 0 || mdb.DrAlBlkSiz&(mdb.DrAlBlkSiz-1) != 0 {
		fs.Critical("drAlBlkSiz", "allocation block size %d is not a power of two >= 512", mdb.DrAlBlkSiz)
	}

	if mdb.DrNxtCNID < volumeNextCNIDFloor {
		fs.Add(Finding{
			Severity: Repairable,
			Field:    "drNxtCNID",
			Message:  fmt.Sprintf("next catalog ID %d is below the reserved floor of %d", mdb.DrNxtCNID, volumeNextCNIDFloor),
			Repair:   func() error { mdb.DrNxtCNID = volumeNextCNIDFloor; return nil },
		})
	}

	if mdb.DrFreeBks > mdb.DrNmAlBlks {
		fs.Add(Finding{
			Severity: Repairable,
			Field:    "drFreeBks",
			Message:  fmt.Sprintf("free blocks %d exceeds total allocation blocks %d", mdb.DrFreeBks, mdb.DrNmAlBlks),
			Repair:   func() error { mdb.DrFreeBks = mdb.DrNmAlBlks; return nil },
		})
	}

	if mdb.DrDirCnt < 1 {
		fs.Add(Finding{
			Severity: Repairable,
			Field:    "drDirCnt",
			Message:  "directory count must include at least the root",
			Repair:   func() error { mdb.DrDirCnt = 1; return nil },
		})
	}
}

const volumeNextCNIDFloor = CNIDFirstUser

// EncodeMDB serializes mdb into a 512-byte buffer.
func EncodeMDB(mdb MDB) ([]byte, error) {
	buf := make([]byte, MDBSize)

	write16 := func(off int, v uint16) { _ = bytecodec.WriteU16BE(buf, off, v) }
	write32 := func(off int, v uint32) { _ = bytecodec.WriteU32BE(buf, off, v) }

	write16(0, mdb.DrSigWord)
	write32(2, mdb.DrCrDate)
	write32(6, mdb.DrLsMod)
	write16(10, mdb.DrAtrb)
	write16(12, mdb.DrNmFls)
	write16(14, mdb.DrVBMSt)
	write16(16, mdb.DrAllocPtr)
	write16(18, mdb.DrNmAlBlks)
	write32(20, mdb.DrAlBlkSiz)
	write32(24, mdb.DrClpSiz)
	write16(28, mdb.DrAlBlSt)
	write32(30, mdb.DrNxtCNID)
	write16(34, mdb.DrFreeBks)

	if err := bytecodec.WritePString(buf, 36, 28, mdb.DrVN); err != nil {
		return nil, err
	}

	write32(64, mdb.DrVolBkUp)
	write16(68, mdb.DrVSeqNum)
	write32(70, mdb.DrWrCnt)
	write32(74, mdb.DrXTClpSiz)
	write32(78, mdb.DrCTClpSiz)
	write16(82, mdb.DrNmRtDirs)
	write32(84, mdb.DrFilCnt)
	write32(88, mdb.DrDirCnt)
	copy(buf[92:124], mdb.DrFndrInfo[:])
	write16(124, mdb.DrEmbedSigWord)
	write16(126, uint16(mdb.DrEmbedExtent.StartBlock))
	write16(128, uint16(mdb.DrEmbedExtent.BlockCount))
	write32(130, mdb.DrXTFlSize)

	if err := EncodeHFSExtentRecord(buf, 134, mdb.DrXTExtRec); err != nil {
		return nil, err
	}

	write32(146, mdb.DrCTFlSize)

	if err := EncodeHFSExtentRecord(buf, 150, mdb.DrCTExtRec); err != nil {
		return nil, err
	}

	return buf, nil
}
