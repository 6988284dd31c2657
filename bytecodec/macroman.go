package bytecodec

import (
	"golang.org/x/text/encoding/charmap"
)

// DecodeMacRoman converts raw MacRoman bytes (as used by Pascal strings
// in the MDB and by Finder comments) to a UTF-8 string.
func DecodeMacRoman(raw []byte) (string, error) {
	decoded, err := charmap.Macintosh.NewDecoder().Bytes(raw)
	if err != nil {
		return "", err
	}

	return string(decoded), nil
}

// EncodeMacRoman converts a UTF-8 string to raw MacRoman bytes. Runes
// with no MacRoman representation are rejected by the encoder.
func EncodeMacRoman(s string) ([]byte, error) {
	return charmap.Macintosh.NewEncoder().Bytes([]byte(s))
}
