package fsck

import "github.com/jotarandom/go-hfsutils/volume"

// Report summarizes one Check pass: every fault recorded across all
// six phases, and how many were actually corrected. The driver maps
// this (plus any returned error) onto the checker's exit codes.
type Report struct {
	Findings        []volume.Finding
	CorrectedCount  int
	JournalReplayed bool
	JournalDisabled bool
}

// FoundCount is how many faults (of any severity) were recorded.
func (r Report) FoundCount() int {
	return len(r.Findings)
}

// Clean reports whether the volume had no faults at all.
func (r Report) Clean() bool {
	return len(r.Findings) == 0
}

// HasUncorrected reports whether at least one fault was recorded but
// never fixed.
func (r Report) HasUncorrected() bool {
	return len(r.Findings) > r.CorrectedCount
}
