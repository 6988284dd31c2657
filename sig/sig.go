// Package sig classifies a volume as HFS, HFS+, HFSX, or Unknown by
// reading the 2-byte signature at offset 1024.
package sig

import (
	"encoding/binary"

	"github.com/jotarandom/go-hfsutils/device"
)

// Kind identifies the filesystem found at the start of the primary
// volume structure.
type Kind int

const (
	// Unknown means the signature matched none of the recognized
	// values.
	Unknown Kind = iota
	// HFS is the classic 16-bit Hierarchical File System (signature
	// "BD").
	HFS
	// HFSPlus is the extended 32-bit format (signature "H+").
	HFSPlus
	// HFSX is the HFS+ variant with case-sensitive catalog keys
	// (signature "HX").
	HFSX
)

const (
	sigHFS     = 0x4244
	sigHFSPlus = 0x482B
	sigHFSX    = 0x4858

	signatureOffset = 1024
)

func (k Kind) String() string {
	switch k {
	case HFS:
		return "HFS"
	case HFSPlus:
		return "HFS+"
	case HFSX:
		return "HFSX"
	default:
		return "Unknown"
	}
}

// IsHFSPlusFamily reports whether k is structurally an HFS+ volume
// (HFS+ or HFSX share every structure except catalog key comparison).
func (k Kind) IsHFSPlusFamily() bool {
	return k == HFSPlus || k == HFSX
}

// Detect reads the signature at offset 1024 and classifies it.
func Detect(h *device.Handle) (Kind, error) {
	buf := make([]byte, 2)

	if err := h.Pread(signatureOffset, buf); err != nil {
		return Unknown, err
	}

	return classify(binary.BigEndian.Uint16(buf)), nil
}

func classify(signature uint16) Kind {
	switch signature {
	case sigHFS:
		return HFS
	case sigHFSPlus:
		return HFSPlus
	case sigHFSX:
		return HFSX
	default:
		return Unknown
	}
}
