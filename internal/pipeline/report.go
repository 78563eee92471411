package pipeline

import (
	"fmt"
	"os"
	"strings"
)

// NeedsReport reports whether any record warrants a line in the skip
// report: skipped items, degraded timestamps, or overlay fallbacks.
func NeedsReport(records []OutcomeRecord) bool {
	for _, rec := range records {
		if reportLine(rec) != "" {
			return true
		}
	}
	return false
}

// WriteReport writes the plain-text skip report, one line per non-clean
// outcome, preserving discovery order.
func WriteReport(path string, records []OutcomeRecord) error {
	var b strings.Builder
	b.WriteString("Skipped items and reasons:\n")
	for _, rec := range records {
		if line := reportLine(rec); line != "" {
			fmt.Fprintf(&b, "- %s\n", line)
		}
	}
	return os.WriteFile(path, []byte(b.String()), 0o644)
}

// reportLine renders one record's report entry, or "" for a clean success.
func reportLine(rec OutcomeRecord) string {
	switch {
	case rec.State == StateSkipped:
		return fmt.Sprintf("%s (%s)", rec.Source, rec.Reason)
	case rec.Degraded && rec.Note != "":
		return fmt.Sprintf("%s (completed; %s; timestamp unresolved, used processing time)", rec.Source, rec.Note)
	case rec.Degraded:
		return fmt.Sprintf("%s (completed; timestamp unresolved, used processing time)", rec.Source)
	case rec.Note != "":
		return fmt.Sprintf("%s (completed; %s)", rec.Source, rec.Note)
	default:
		return ""
	}
}
