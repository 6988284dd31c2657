package btree

import (
	"fmt"

	"github.com/jotarandom/go-hfsutils/bytecodec"
)

// hfsCatalogNameCap is the field size (including its own length byte)
// of a classic HFS catalog key's Str31 node name.
const hfsCatalogNameCap = 32

// CatalogKey is the HFS+ catalog B-tree key: {keyLength:2, parentID:4,
// nodeName:UniStr255}.
type CatalogKey struct {
	ParentID uint32
	NodeName string
}

// DecodeCatalogKey decodes a catalog key from its on-disk form,
// including its leading 2-byte keyLength.
func DecodeCatalogKey(buf []byte) (CatalogKey, error) {
	var k CatalogKey

	keyLength, err := bytecodec.ReadU16BE(buf, 0)
	if err != nil {
		return k, err
	}

	if int(keyLength)+2 > len(buf) {
		return k, fmt.Errorf("%w: catalog key length %d exceeds buffer", bytecodec.ErrMalformed, keyLength)
	}

	parentID, err := bytecodec.ReadU32BE(buf, 2)
	if err != nil {
		return k, err
	}

	name, _, err := bytecodec.ReadHFSUniStr255(buf, 6)
	if err != nil {
		return k, err
	}

	k.ParentID = parentID
	k.NodeName = name

	return k, nil
}

// EncodeCatalogKey encodes k, including its leading keyLength. Catalog
// keys are padded to an even length per HFS+ convention.
func EncodeCatalogKey(k CatalogKey) ([]byte, error) {
	buf := make([]byte, 2+4+2+2*255)

	if err := bytecodec.WriteU32BE(buf, 2, k.ParentID); err != nil {
		return nil, err
	}

	n, err := bytecodec.WriteHFSUniStr255(buf, 6, k.NodeName)
	if err != nil {
		return nil, err
	}

	keyLength := 4 + n
	if keyLength%2 != 0 {
		keyLength++
	}

	if err := bytecodec.WriteU16BE(buf, 0, uint16(keyLength)); err != nil {
		return nil, err
	}

	return buf[:2+keyLength], nil
}

// CatalogKeyHFS is the classic HFS catalog B-tree key:
// {keyLength:1, reserved:1, parentID:4, nodeName:Str31}. It has no
// UTF-16 node name and a 1-byte keyLength, unlike CatalogKey's HFS+
// layout.
type CatalogKeyHFS struct {
	ParentID uint32
	NodeName string
}

// DecodeCatalogKeyHFS decodes a classic HFS catalog key from its
// on-disk form, including its leading 1-byte keyLength and reserved
// byte.
func DecodeCatalogKeyHFS(buf []byte) (CatalogKeyHFS, error) {
	var k CatalogKeyHFS

	if len(buf) < 1 {
		return k, fmt.Errorf("%w: catalog key shorter than 1 byte", bytecodec.ErrMalformed)
	}

	keyLength := buf[0]
	if int(keyLength)+1 > len(buf) {
		return k, fmt.Errorf("%w: catalog key length %d exceeds buffer", bytecodec.ErrMalformed, keyLength)
	}

	parentID, err := bytecodec.ReadU32BE(buf, 2)
	if err != nil {
		return k, err
	}

	name, err := bytecodec.ReadPString(buf, 6, hfsCatalogNameCap)
	if err != nil {
		return k, err
	}

	k.ParentID = parentID
	k.NodeName = name

	return k, nil
}

// EncodeCatalogKeyHFS encodes k, including its leading keyLength and
// reserved byte. Catalog keys are padded to an even total length per
// classic HFS convention.
func EncodeCatalogKeyHFS(k CatalogKeyHFS) ([]byte, error) {
	buf := make([]byte, 1+1+4+hfsCatalogNameCap)

	if err := bytecodec.WritePString(buf, 6, hfsCatalogNameCap, k.NodeName); err != nil {
		return nil, err
	}

	if err := bytecodec.WriteU32BE(buf, 2, k.ParentID); err != nil {
		return nil, err
	}

	nameFieldLen := 1 + int(buf[6])
	keyLength := 1 + 4 + nameFieldLen
	if (1+keyLength)%2 != 0 {
		keyLength++
	}

	buf[0] = byte(keyLength)

	return buf[:1+keyLength], nil
}

// ExtentsKey is the Extents Overflow B-tree key: {keyLength:2,
// forkType:1, pad:1, fileID:4, startBlock:4}.
type ExtentsKey struct {
	ForkType   byte
	FileID     uint32
	StartBlock uint32
}

// ExtentsKeySize is the fixed on-disk size of an extents key, including
// its 2-byte keyLength.
const ExtentsKeySize = 12

// DecodeExtentsKey decodes an extents key from its on-disk form.
func DecodeExtentsKey(buf []byte) (ExtentsKey, error) {
	var k ExtentsKey

	if len(buf) < ExtentsKeySize {
		return k, fmt.Errorf("%w: extents key shorter than %d bytes", bytecodec.ErrMalformed, ExtentsKeySize)
	}

	fileID, err := bytecodec.ReadU32BE(buf, 4)
	if err != nil {
		return k, err
	}

	startBlock, err := bytecodec.ReadU32BE(buf, 8)
	if err != nil {
		return k, err
	}

	k.ForkType = buf[2]
	k.FileID = fileID
	k.StartBlock = startBlock

	return k, nil
}

// EncodeExtentsKey encodes k, including its leading keyLength (always
// 10, the record minus the length field itself).
func EncodeExtentsKey(k ExtentsKey) ([]byte, error) {
	buf := make([]byte, ExtentsKeySize)

	if err := bytecodec.WriteU16BE(buf, 0, ExtentsKeySize-2); err != nil {
		return nil, err
	}

	buf[2] = k.ForkType
	buf[3] = 0

	if err := bytecodec.WriteU32BE(buf, 4, k.FileID); err != nil {
		return nil, err
	}

	if err := bytecodec.WriteU32BE(buf, 8, k.StartBlock); err != nil {
		return nil, err
	}

	return buf, nil
}
