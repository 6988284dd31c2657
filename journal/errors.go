package journal

import "errors"

// ErrJournalUnsupported is returned when the Journal Info Block's
// on-other-device flag is set: the journal body lives on a device this
// core has no way to reach.
var ErrJournalUnsupported = errors.New("journal: journal lives on another device, unsupported")

// ErrJournalCorrupt reports a Journal Header or Block List Header that
// fails validation. DecodeBlockListHeader returns it for any checksum
// mismatch; Replay returns it only in a check-only pass (no repair),
// where the fault can be reported but not cleared.
var ErrJournalCorrupt = errors.New("journal: corrupt")
