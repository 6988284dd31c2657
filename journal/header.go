package journal

import "github.com/jotarandom/go-hfsutils/bytecodec"

// Magic and Endian are the fixed values a valid Journal Header carries.
const (
	Magic  uint32 = 0x4A4E4C78
	Endian uint32 = 0x12345678
)

// HeaderSize is the on-disk size of a Journal Header: magic:4,
// endian:4, start:8, end:8, size:8, blhdrSize:4, checksum:4, jhdrSize:4.
const HeaderSize = 4 + 4 + 8 + 8 + 8 + 4 + 4 + 4

// checksumOffset is the byte offset of the Header's own checksum field
// within its on-disk encoding, zeroed when computing the checksum.
const checksumOffset = 36

// Header is the decoded Journal Header.
type Header struct {
	Magic               uint32
	Endian              uint32
	Start               uint64
	End                 uint64
	Size                uint64
	BlockListHeaderSize uint32
	Checksum            uint32
	HeaderSize          uint32
}

// DecodeHeader decodes a Journal Header from buf, which must cover at
// least HeaderSize bytes.
func DecodeHeader(buf []byte) (Header, error) {
	var h Header

	var err error

	if h.Magic, err = bytecodec.ReadU32BE(buf, 0); err != nil {
		return h, err
	}

	if h.Endian, err = bytecodec.ReadU32BE(buf, 4); err != nil {
		return h, err
	}

	if h.Start, err = bytecodec.ReadU64BE(buf, 8); err != nil {
		return h, err
	}

	if h.End, err = bytecodec.ReadU64BE(buf, 16); err != nil {
		return h, err
	}

	if h.Size, err = bytecodec.ReadU64BE(buf, 24); err != nil {
		return h, err
	}

	if h.BlockListHeaderSize, err = bytecodec.ReadU32BE(buf, 32); err != nil {
		return h, err
	}

	if h.Checksum, err = bytecodec.ReadU32BE(buf, checksumOffset); err != nil {
		return h, err
	}

	if h.HeaderSize, err = bytecodec.ReadU32BE(buf, 40); err != nil {
		return h, err
	}

	return h, nil
}

// EncodeHeader encodes h into a HeaderSize-byte buffer.
func EncodeHeader(h Header) ([]byte, error) {
	buf := make([]byte, HeaderSize)

	if err := bytecodec.WriteU32BE(buf, 0, h.Magic); err != nil {
		return nil, err
	}

	if err := bytecodec.WriteU32BE(buf, 4, h.Endian); err != nil {
		return nil, err
	}

	if err := bytecodec.WriteU64BE(buf, 8, h.Start); err != nil {
		return nil, err
	}

	if err := bytecodec.WriteU64BE(buf, 16, h.End); err != nil {
		return nil, err
	}

	if err := bytecodec.WriteU64BE(buf, 24, h.Size); err != nil {
		return nil, err
	}

	if err := bytecodec.WriteU32BE(buf, 32, h.BlockListHeaderSize); err != nil {
		return nil, err
	}

	if err := bytecodec.WriteU32BE(buf, checksumOffset, h.Checksum); err != nil {
		return nil, err
	}

	if err := bytecodec.WriteU32BE(buf, 40, h.HeaderSize); err != nil {
		return nil, err
	}

	return buf, nil
}

// IsValid reports whether the header's magic and endian fields hold
// their required fixed values.
func (h Header) IsValid() bool {
	return h.Magic == Magic && h.Endian == Endian
}
