// Package bytecodec translates between host-representable integers,
// strings, and times and their on-disk big-endian encodings. Every
// operation here is pure; none of them perform I/O.
package bytecodec

import "errors"

// ErrOutOfRange is returned when an offset or width falls outside the
// given buffer.
var ErrOutOfRange = errors.New("bytecodec: out of range")

// ErrMalformed is returned when an on-disk structure violates a
// bit-exact invariant (bad length, invalid surrogate, and so on).
var ErrMalformed = errors.New("bytecodec: malformed structure")
