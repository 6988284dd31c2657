// Package journal implements the HFS+ write-ahead journal: the
// Journal Info Block and Journal Header codecs, checksum validation,
// and transaction replay. exFAT carries no journal, so the replay loop
// follows the journal's own locate/validate/replay/commit structure,
// decoded in bytecodec's idiom.
package journal

import (
	"github.com/dsoprea/go-logging"

	"github.com/jotarandom/go-hfsutils/device"
	"github.com/jotarandom/go-hfsutils/volume"
)

// Result reports what Replay did.
type Result struct {
	// Replayed is true if at least one transaction was applied.
	Replayed bool
	// DisableJournal is true if the journal was found corrupt and (in
	// repair mode) marked needs-init; the caller owns clearing the
	// Volume Header's journaled attribute bit to match.
	DisableJournal bool
}

// Replay runs the locate/validate/replay/commit algorithm against the
// journal described by a Volume Header with the journaled attribute
// bit set. jibOffset is the absolute device byte
// offset of the Journal Info Block (journalInfoBlock × blockSize).
// Replay must run before any other repair phase, since later phases
// reason over structures that may still live in unreplayed block
// lists.
func Replay(h *device.Handle, volumeStart uint64, jibOffset uint64, blockSize uint32, repair bool, fs *volume.Findings) (result Result, err error) {
	defer func() {
		if errRaw := recover(); errRaw != nil {
			if asErr, ok := errRaw.(error); ok {
				err = log.Wrap(asErr)
			} else {
				err = log.Errorf("journal.Replay: %v", errRaw)
			}
		}
	}()

	jibBuf := make([]byte, InfoBlockHeaderSize)
	if readErr := h.Pread(volumeStart+jibOffset, jibBuf); readErr != nil {
		return Result{}, readErr
	}

	jib, decodeErr := DecodeInfoBlock(jibBuf)
	if decodeErr != nil {
		return Result{}, decodeErr
	}

	if jib.Flags&FlagOnOtherDevice != 0 {
		fs.Critical("journal", "journal lives on another device")
		return Result{}, ErrJournalUnsupported
	}

	if jib.Flags&FlagNeedsInit != 0 {
		return Result{}, nil
	}

	disableOnCorrupt := func(reason string) (Result, error) {
		fs.Critical("journal", "%s", reason)

		if !repair {
			return Result{}, ErrJournalCorrupt
		}

		flagsBuf, encErr := EncodeFlags(jib.Flags | FlagNeedsInit)
		if encErr != nil {
			return Result{}, encErr
		}

		if writeErr := h.Pwrite(volumeStart+jibOffset, flagsBuf); writeErr != nil {
			return Result{}, writeErr
		}

		return Result{DisableJournal: true}, nil
	}

	headerBuf := make([]byte, HeaderSize)
	headerOffset := volumeStart + jib.Offset

	if readErr := h.Pread(headerOffset, headerBuf); readErr != nil {
		return Result{}, readErr
	}

	header, decodeErr := DecodeHeader(headerBuf)
	if decodeErr != nil {
		return Result{}, decodeErr
	}

	if !header.IsValid() {
		return disableOnCorrupt("journal header has an invalid magic or endian marker")
	}

	replayed := false
	cursor := header.Start

	for cursor != header.End {
		blhdrBuf := make([]byte, BlockListHeaderSize)

		if readErr := h.Pread(headerOffset+cursor, blhdrBuf); readErr != nil {
			return Result{}, readErr
		}

		blhdr, blErr := DecodeBlockListHeader(blhdrBuf)
		if blErr == ErrJournalCorrupt {
			return disableOnCorrupt("transaction block list header checksum mismatch")
		} else if blErr != nil {
			return Result{}, blErr
		}

		entryOffset := cursor + BlockListHeaderSize
		prevCursor := cursor

		for i := 0; i < int(blhdr.NumBlocks)-1; i++ {
			infoBuf := make([]byte, BlockInfoSize)

			if readErr := h.Pread(headerOffset+entryOffset, infoBuf); readErr != nil {
				return Result{}, readErr
			}

			info, infoErr := DecodeBlockInfo(infoBuf)
			if infoErr != nil {
				return Result{}, infoErr
			}

			entryOffset += BlockInfoSize

			payload := make([]byte, info.BSize)
			if readErr := h.Pread(headerOffset+entryOffset, payload); readErr != nil {
				return Result{}, readErr
			}

			entryOffset += uint64(info.BSize)

			if repair {
				if writeErr := h.Pwrite(volumeStart+info.BNum*uint64(blockSize), payload); writeErr != nil {
					return Result{}, writeErr
				}
			}

			replayed = true
			cursor = info.Next
		}

		if cursor == prevCursor && cursor != header.End {
			return disableOnCorrupt("transaction advanced the journal cursor by zero bytes")
		}
	}

	if repair && replayed {
		header.Start = header.End

		buf, encErr := EncodeHeader(header)
		if encErr != nil {
			return Result{}, encErr
		}

		if writeErr := h.Pwrite(headerOffset, buf); writeErr != nil {
			return Result{}, writeErr
		}

		if syncErr := h.Sync(); syncErr != nil {
			return Result{}, syncErr
		}
	}

	return Result{Replayed: replayed}, nil
}
