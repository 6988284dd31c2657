package btree

import (
	"fmt"

	"github.com/jotarandom/go-hfsutils/device"
	"github.com/jotarandom/go-hfsutils/volume"
)

// Accessor maps a B-tree's node index space onto a fork's allocation
// extents and reads/writes nodes through a device.Handle, the same
// cluster-to-node indirection an extent-mapped reader/navigator pair
// provides over a cluster chain, generalized here from clusters to
// HFS/HFS+ extents.
type Accessor struct {
	h           *device.Handle
	volumeStart uint64
	blockSize   uint32
	extents     []volume.Extent
	nodeSize    int
}

// NewAccessor builds an Accessor over the given fork extents.
// volumeStart is the device byte offset of allocation block 0 (0 for
// HFS+; drAlBlSt*512 for classic HFS).
func NewAccessor(h *device.Handle, volumeStart uint64, blockSize uint32, extents []volume.Extent, nodeSize int) *Accessor {
	return &Accessor{h: h, volumeStart: volumeStart, blockSize: blockSize, extents: extents, nodeSize: nodeSize}
}

// NodeSize returns the fixed node size this accessor was built with.
func (a *Accessor) NodeSize() int {
	return a.nodeSize
}

type segment struct {
	deviceOffset uint64
	length       int
}

// resolve maps the fork-relative byte range [off, off+length) onto a
// sequence of device-offset segments, following the extent list in
// order. It returns an error if the range runs past the last non-zero
// extent: a fork needing more extents than are inline here would need
// the Extents Overflow B-tree consulted by the caller before building
// this Accessor.
func (a *Accessor) resolve(off int64, length int) ([]segment, error) {
	var segments []segment

	remaining := int64(length)
	cursor := off
	blockCursor := int64(0)
	blockSize := int64(a.blockSize)

	for _, e := range a.extents {
		if e.BlockCount == 0 {
			break
		}

		extentStart := blockCursor * blockSize
		extentEnd := extentStart + int64(e.BlockCount)*blockSize
		blockCursor += int64(e.BlockCount)

		if remaining <= 0 {
			break
		}

		if cursor >= extentEnd {
			continue
		}

		overlapStart := cursor
		if overlapStart < extentStart {
			// A gap before this extent means off starts before any
			// extent covers it, which should never happen for a
			// well-formed request.
			return nil, fmt.Errorf("btree: fork offset %d is not covered by any extent", off)
		}

		overlapLen := extentEnd - overlapStart
		if overlapLen > remaining {
			overlapLen = remaining
		}

		deviceOffset := a.volumeStart + uint64(e.StartBlock)*uint64(a.blockSize) + uint64(overlapStart-extentStart)

		segments = append(segments, segment{deviceOffset: deviceOffset, length: int(overlapLen)})

		cursor += overlapLen
		remaining -= overlapLen
	}

	if remaining > 0 {
		return nil, fmt.Errorf("btree: requested range [%d:%d) extends past the fork's allocated extents", off, off+int64(length))
	}

	return segments, nil
}

func (a *Accessor) readAt(off int64, buf []byte) error {
	segments, err := a.resolve(off, len(buf))
	if err != nil {
		return err
	}

	cursor := 0

	for _, seg := range segments {
		if err := a.h.Pread(seg.deviceOffset, buf[cursor:cursor+seg.length]); err != nil {
			return err
		}

		cursor += seg.length
	}

	return nil
}

func (a *Accessor) writeAt(off int64, buf []byte) error {
	segments, err := a.resolve(off, len(buf))
	if err != nil {
		return err
	}

	cursor := 0

	for _, seg := range segments {
		if err := a.h.Pwrite(seg.deviceOffset, buf[cursor:cursor+seg.length]); err != nil {
			return err
		}

		cursor += seg.length
	}

	return nil
}

// GetNode reads and decodes node idx.
func (a *Accessor) GetNode(idx uint32) (Node, error) {
	buf := make([]byte, a.nodeSize)

	if err := a.readAt(int64(idx)*int64(a.nodeSize), buf); err != nil {
		return Node{}, err
	}

	return DecodeNode(buf, a.nodeSize)
}

// PutNode serializes and writes node idx.
func (a *Accessor) PutNode(idx uint32, desc Descriptor, records [][]byte) error {
	buf, err := EncodeNode(a.nodeSize, desc, records)
	if err != nil {
		return err
	}

	return a.writeAt(int64(idx)*int64(a.nodeSize), buf)
}

// PutRawNode writes an already-encoded, nodeSize-byte buffer at idx.
func (a *Accessor) PutRawNode(idx uint32, buf []byte) error {
	if len(buf) != a.nodeSize {
		return fmt.Errorf("btree: raw node buffer length %d does not match node size %d", len(buf), a.nodeSize)
	}

	return a.writeAt(int64(idx)*int64(a.nodeSize), buf)
}
