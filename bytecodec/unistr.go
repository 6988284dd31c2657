package bytecodec

import (
	"fmt"
	"unicode/utf16"
)

// MaxUniStrLength is the largest permissible HFS+ UniStr255 length.
const MaxUniStrLength = 255

// ReadHFSUniStr255 decodes an on-disk {length:2, unicode[length]:2 each}
// structure at off. It validates, but does not normalize, the UTF-16
// sequence: every high surrogate must be immediately followed by a low
// surrogate, and no NUL may appear before the final code unit.
func ReadHFSUniStr255(buf []byte, off int) (string, int, error) {
	length, err := ReadU16BE(buf, off)
	if err != nil {
		return "", 0, err
	}

	if length > MaxUniStrLength {
		return "", 0, fmt.Errorf("%w: unistr255 length %d exceeds %d", ErrMalformed, length, MaxUniStrLength)
	}

	payloadOff := off + 2
	byteLen := int(length) * 2

	if err := checkBounds(buf, payloadOff, byteLen); err != nil {
		return "", 0, err
	}

	units := make([]uint16, length)

	for i := 0; i < int(length); i++ {
		u, err := ReadU16BE(buf, payloadOff+i*2)
		if err != nil {
			return "", 0, err
		}

		units[i] = u
	}

	if err := validateUTF16(units); err != nil {
		return "", 0, err
	}

	return string(utf16.Decode(units)), 2 + byteLen, nil
}

// WriteHFSUniStr255 encodes s as an on-disk UniStr255 at off, returning
// the number of bytes written (2 + 2*len(units)).
func WriteHFSUniStr255(buf []byte, off int, s string) (int, error) {
	units := utf16.Encode([]rune(s))

	if len(units) > MaxUniStrLength {
		return 0, fmt.Errorf("%w: encoded name has %d UTF-16 units, max %d", ErrMalformed, len(units), MaxUniStrLength)
	}

	if err := WriteU16BE(buf, off, uint16(len(units))); err != nil {
		return 0, err
	}

	payloadOff := off + 2

	for i, u := range units {
		if err := WriteU16BE(buf, payloadOff+i*2, u); err != nil {
			return 0, err
		}
	}

	return 2 + len(units)*2, nil
}

func validateUTF16(units []uint16) error {
	for i, u := range units {
		switch {
		case u >= 0xD800 && u <= 0xDBFF:
			if i+1 >= len(units) {
				return fmt.Errorf("%w: unpaired high surrogate at index %d", ErrMalformed, i)
			}

			next := units[i+1]
			if next < 0xDC00 || next > 0xDFFF {
				return fmt.Errorf("%w: high surrogate at index %d not followed by low surrogate", ErrMalformed, i)
			}
		case u >= 0xDC00 && u <= 0xDFFF:
			if i == 0 || units[i-1] < 0xD800 || units[i-1] > 0xDBFF {
				return fmt.Errorf("%w: unpaired low surrogate at index %d", ErrMalformed, i)
			}
		case u == 0 && i != len(units)-1:
			return fmt.Errorf("%w: embedded NUL before final code unit at index %d", ErrMalformed, i)
		}
	}

	return nil
}
