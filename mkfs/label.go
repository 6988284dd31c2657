package mkfs

import (
	"fmt"
	"unicode/utf16"

	"github.com/jotarandom/go-hfsutils/bytecodec"
)

// maxHFSLabelBytes is the largest a MacRoman HFS volume name may be:
// a Pascal string with a one-byte length prefix makes 255 bytes the
// hard ceiling, but the field width reserved in the MDB's drVN caps
// it at 27.
const maxHFSLabelBytes = 27

// ValidateLabel checks label against the naming rules of the target
// filesystem: HFS labels are MacRoman, 1-27 bytes, and may not contain
// NUL, ':', or other control characters; HFS+ labels are UTF-16,
// 1-255 units, and may not contain ':'.
func ValidateLabel(label string, fsType FSType) error {
	if label == "" {
		return ErrInvalidLabel
	}

	switch fsType {
	case HFS:
		return validateHFSLabel(label)
	case HFSPlus:
		return validateHFSPlusLabel(label)
	default:
		return fmt.Errorf("%w: unknown filesystem type", ErrInvalidLabel)
	}
}

func validateHFSLabel(label string) error {
	raw, err := bytecodec.EncodeMacRoman(label)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidLabel, err)
	}

	if len(raw) == 0 || len(raw) > maxHFSLabelBytes {
		return fmt.Errorf("%w: label is %d bytes, must be 1-%d", ErrInvalidLabel, len(raw), maxHFSLabelBytes)
	}

	for _, b := range raw {
		if b == ':' || b < 0x20 {
			return fmt.Errorf("%w: label contains a ':' or control character", ErrInvalidLabel)
		}
	}

	return nil
}

func validateHFSPlusLabel(label string) error {
	units := utf16.Encode([]rune(label))

	if len(units) == 0 || len(units) > bytecodec.MaxUniStrLength {
		return fmt.Errorf("%w: label is %d UTF-16 units, must be 1-%d", ErrInvalidLabel, len(units), bytecodec.MaxUniStrLength)
	}

	for _, r := range label {
		if r == ':' {
			return fmt.Errorf("%w: label contains a ':'", ErrInvalidLabel)
		}
	}

	return nil
}
