// Package fsck implements the six-phase volume checker and repairer:
// Volume header, journal replay, allocation bitmap, Extents B-tree,
// Catalog B-tree, and Attributes B-tree.
package fsck

// Options configures Check.
type Options struct {
	// Repair enables corrective action. Without it, faults are only
	// recorded.
	Repair bool
	// YesToAll answers every Ask question affirmatively, skipping the
	// interactive prompt.
	YesToAll bool
	// Verbose requests progress reporting from Check.
	Verbose bool
	// Force runs every phase even if the volume's dirty bit is clear.
	Force bool
}

// AskFunc is the driver-supplied interactive confirmation hook. Check
// calls it once per repairable fault when Repair is true and
// YesToAll is false.
type AskFunc func(question string) bool

// alwaysYes is the AskFunc used internally when YesToAll is set.
func alwaysYes(string) bool { return true }
