package journal

import "github.com/jotarandom/go-hfsutils/bytecodec"

// Journal Info Block flag bits.
const (
	FlagOnOtherDevice uint32 = 1 << 0
	FlagNeedsInit     uint32 = 1 << 1
)

// InfoBlockHeaderSize is the size of the Journal Info Block's decoded
// field prefix: flags:4, deviceSignature[8]:4 each, offset:8, size:8.
// The block's remaining reserved[432] bytes are never decoded; a
// caller patching one field writes only that field's bytes back,
// leaving the reserved region untouched.
const InfoBlockHeaderSize = 4 + 8*4 + 8 + 8

// InfoBlock is the decoded Journal Info Block.
type InfoBlock struct {
	Flags           uint32
	DeviceSignature [8]uint32
	Offset          uint64
	Size            uint64
}

// DecodeInfoBlock decodes a Journal Info Block from its on-disk
// location. buf need only cover InfoBlockHeaderSize bytes.
func DecodeInfoBlock(buf []byte) (InfoBlock, error) {
	var ib InfoBlock

	flags, err := bytecodec.ReadU32BE(buf, 0)
	if err != nil {
		return ib, err
	}

	ib.Flags = flags

	for i := 0; i < 8; i++ {
		v, err := bytecodec.ReadU32BE(buf, 4+4*i)
		if err != nil {
			return ib, err
		}

		ib.DeviceSignature[i] = v
	}

	offset, err := bytecodec.ReadU64BE(buf, 36)
	if err != nil {
		return ib, err
	}

	size, err := bytecodec.ReadU64BE(buf, 44)
	if err != nil {
		return ib, err
	}

	ib.Offset = offset
	ib.Size = size

	return ib, nil
}

// EncodeFlags builds the 4-byte on-disk representation of flags, for
// a caller that patches just the flags field of an already-written
// Journal Info Block.
func EncodeFlags(flags uint32) ([]byte, error) {
	buf := make([]byte, 4)
	if err := bytecodec.WriteU32BE(buf, 0, flags); err != nil {
		return nil, err
	}

	return buf, nil
}
