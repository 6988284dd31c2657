package btree

import "github.com/jotarandom/go-hfsutils/bytecodec"

// Catalog record types, the 2-byte value prefixing every catalog
// record's data (immediately after the key).
const (
	RecordTypeFolder       = 1
	RecordTypeFile         = 2
	RecordTypeFolderThread = 3
	RecordTypeFileThread   = 4
)

// IsValidCatalogRecordType reports whether t is one of the four legal
// catalog record types.
func IsValidCatalogRecordType(t uint16) bool {
	switch t {
	case RecordTypeFolder, RecordTypeFile, RecordTypeFolderThread, RecordTypeFileThread:
		return true
	default:
		return false
	}
}

// ReadCatalogRecordType reads the 2-byte record type at the start of a
// catalog record's data (i.e. immediately following its key).
func ReadCatalogRecordType(data []byte) (uint16, error) {
	return bytecodec.ReadU16BE(data, 0)
}
