package bytecodec

import (
	"encoding/binary"
	"fmt"
)

func checkBounds(buf []byte, off, width int) error {
	if off < 0 || width < 0 || off+width > len(buf) {
		return fmt.Errorf("%w: offset %d width %d buffer length %d", ErrOutOfRange, off, width, len(buf))
	}

	return nil
}

// ReadU16BE reads a big-endian uint16 at off, bounds-checked against buf.
func ReadU16BE(buf []byte, off int) (uint16, error) {
	if err := checkBounds(buf, off, 2); err != nil {
		return 0, err
	}

	return binary.BigEndian.Uint16(buf[off:]), nil
}

// ReadU32BE reads a big-endian uint32 at off, bounds-checked against buf.
func ReadU32BE(buf []byte, off int) (uint32, error) {
	if err := checkBounds(buf, off, 4); err != nil {
		return 0, err
	}

	return binary.BigEndian.Uint32(buf[off:]), nil
}

// ReadU64BE reads a big-endian uint64 at off, bounds-checked against buf.
func ReadU64BE(buf []byte, off int) (uint64, error) {
	if err := checkBounds(buf, off, 8); err != nil {
		return 0, err
	}

	return binary.BigEndian.Uint64(buf[off:]), nil
}

// WriteU16BE writes v as a big-endian uint16 at off, bounds-checked
// against buf.
func WriteU16BE(buf []byte, off int, v uint16) error {
	if err := checkBounds(buf, off, 2); err != nil {
		return err
	}

	binary.BigEndian.PutUint16(buf[off:], v)

	return nil
}

// WriteU32BE writes v as a big-endian uint32 at off, bounds-checked
// against buf.
func WriteU32BE(buf []byte, off int, v uint32) error {
	if err := checkBounds(buf, off, 4); err != nil {
		return err
	}

	binary.BigEndian.PutUint32(buf[off:], v)

	return nil
}

// WriteU64BE writes v as a big-endian uint64 at off, bounds-checked
// against buf.
func WriteU64BE(buf []byte, off int, v uint64) error {
	if err := checkBounds(buf, off, 8); err != nil {
		return err
	}

	binary.BigEndian.PutUint64(buf[off:], v)

	return nil
}
