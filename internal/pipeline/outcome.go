package pipeline

import "time"

// State is an item's position in its processing lifecycle. Every item
// starts Discovered and ends in exactly one of the terminal states.
type State int

const (
	StateDiscovered State = iota
	StateExtracting
	StatePairing
	StateCompositing
	StateCompleted
	StateSkipped
)

func (s State) String() string {
	switch s {
	case StateDiscovered:
		return "discovered"
	case StateExtracting:
		return "extracting"
	case StatePairing:
		return "pairing"
	case StateCompositing:
		return "compositing"
	case StateCompleted:
		return "completed"
	case StateSkipped:
		return "skipped"
	default:
		return "unknown"
	}
}

// OutcomeRecord is the per-item result. Records are append-only and kept
// in discovery order so the final report is deterministic.
type OutcomeRecord struct {
	Source string // Base name of the archive or loose file.
	State  State  // StateCompleted or StateSkipped.
	Reason string // Populated for skips.

	Output          string // Written output path; empty for skips.
	Strategy        string // Merge strategy label; empty for skips.
	TimestampSource string
	Degraded        bool   // Timestamp fell back to processing time.
	Note            string // Non-fatal observation, e.g. an unusable overlay.

	Elapsed time.Duration
}

// Completed reports whether the item reached the success terminal state.
func (r OutcomeRecord) Completed() bool {
	return r.State == StateCompleted
}
