package btree

import "github.com/jotarandom/go-hfsutils/bytecodec"

// CatalogFolderRecordSize is the fixed on-disk size of a catalog
// folder record's data (the bytes following the key and the 2-byte
// record type already consumed by ReadCatalogRecordType). The full
// record, type included, is 88 bytes.
const CatalogFolderRecordSize = 86

// CatalogFolderRecord is the HFS+ catalog folder record: a folder's
// CNID, valence, and timestamps. BSD permissions and Finder
// info are carried as opaque byte arrays since nothing in this module
// interprets them.
type CatalogFolderRecord struct {
	Flags          uint16
	Valence        uint32
	FolderID       uint32
	CreateDate     uint32
	ContentModDate uint32
	AttrModDate    uint32
	AccessDate     uint32
	BackupDate     uint32
	Permissions    [16]byte
	UserInfo       [16]byte
	FinderInfo     [16]byte
	TextEncoding   uint32
	Reserved       uint32
}

// EncodeCatalogFolderRecord serializes rec as a full catalog leaf
// record value: {recordType:2, data...}, ready to follow a CatalogKey
// in a leaf record.
func EncodeCatalogFolderRecord(rec CatalogFolderRecord) ([]byte, error) {
	buf := make([]byte, 2+CatalogFolderRecordSize)

	if err := bytecodec.WriteU16BE(buf, 0, RecordTypeFolder); err != nil {
		return nil, err
	}

	write16 := func(off int, v uint16) error { return bytecodec.WriteU16BE(buf, off, v) }
	write32 := func(off int, v uint32) error { return bytecodec.WriteU32BE(buf, off, v) }

	if err := write16(2, rec.Flags); err != nil {
		return nil, err
	}

	if err := write32(4, rec.Valence); err != nil {
		return nil, err
	}

	if err := write32(8, rec.FolderID); err != nil {
		return nil, err
	}

	if err := write32(12, rec.CreateDate); err != nil {
		return nil, err
	}

	if err := write32(16, rec.ContentModDate); err != nil {
		return nil, err
	}

	if err := write32(20, rec.AttrModDate); err != nil {
		return nil, err
	}

	if err := write32(24, rec.AccessDate); err != nil {
		return nil, err
	}

	if err := write32(28, rec.BackupDate); err != nil {
		return nil, err
	}

	copy(buf[32:48], rec.Permissions[:])
	copy(buf[48:64], rec.UserInfo[:])
	copy(buf[64:80], rec.FinderInfo[:])

	if err := write32(80, rec.TextEncoding); err != nil {
		return nil, err
	}

	if err := write32(84, rec.Reserved); err != nil {
		return nil, err
	}

	return buf, nil
}

// DecodeCatalogFolderRecord decodes a folder record's data (the bytes
// following the 2-byte record type).
func DecodeCatalogFolderRecord(data []byte) (CatalogFolderRecord, error) {
	var rec CatalogFolderRecord

	if len(data) < CatalogFolderRecordSize {
		return rec, volumeMalformed("catalog folder record shorter than expected")
	}

	read16 := func(off int) (uint16, error) { return bytecodec.ReadU16BE(data, off) }
	read32 := func(off int) (uint32, error) { return bytecodec.ReadU32BE(data, off) }

	var err error

	if rec.Flags, err = read16(0); err != nil {
		return rec, err
	}

	if rec.Valence, err = read32(2); err != nil {
		return rec, err
	}

	if rec.FolderID, err = read32(6); err != nil {
		return rec, err
	}

	if rec.CreateDate, err = read32(10); err != nil {
		return rec, err
	}

	if rec.ContentModDate, err = read32(14); err != nil {
		return rec, err
	}

	if rec.AttrModDate, err = read32(18); err != nil {
		return rec, err
	}

	if rec.AccessDate, err = read32(22); err != nil {
		return rec, err
	}

	if rec.BackupDate, err = read32(26); err != nil {
		return rec, err
	}

	copy(rec.Permissions[:], data[30:46])
	copy(rec.UserInfo[:], data[46:62])
	copy(rec.FinderInfo[:], data[62:78])

	if rec.TextEncoding, err = read32(78); err != nil {
		return rec, err
	}

	if rec.Reserved, err = read32(82); err != nil {
		return rec, err
	}

	return rec, nil
}
