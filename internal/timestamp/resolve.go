// Package timestamp picks the single authoritative creation time for an
// item from multiple conflicting sources. Export pipelines tend to inflate
// timestamps toward export time, so the oldest surviving candidate is taken
// as the true capture time.
package timestamp

import "time"

// Sources holds up to three candidate times for one item. A zero value
// means the candidate is absent.
type Sources struct {
	Embedded   time.Time // creation_time from the primary media's own metadata.
	Archive    time.Time // The archive entry's stored modification time.
	Filesystem time.Time // Source file mtime; least trustworthy.
}

// Source labels for logging and the degraded-case report.
const (
	SourceEmbedded   = "embedded"
	SourceArchive    = "archive"
	SourceFilesystem = "filesystem"
	SourceFallback   = "fallback"
)

// Resolved is the chosen timestamp plus provenance. Degraded is set when no
// candidate was available and the current processing time was used; the
// orchestrator records that in the report instead of treating the item as a
// clean success.
type Resolved struct {
	Time     time.Time
	Source   string
	Degraded bool
}

// Resolve returns the minimum (oldest) of the present candidates, in UTC.
// now supplies the fallback clock so tests can pin it.
func Resolve(s Sources, now func() time.Time) Resolved {
	best := Resolved{}
	consider := func(t time.Time, label string) {
		if t.IsZero() {
			return
		}
		t = t.UTC()
		if best.Source == "" || t.Before(best.Time) {
			best.Time = t
			best.Source = label
		}
	}

	consider(s.Embedded, SourceEmbedded)
	consider(s.Archive, SourceArchive)
	consider(s.Filesystem, SourceFilesystem)

	if best.Source == "" {
		return Resolved{Time: now().UTC(), Source: SourceFallback, Degraded: true}
	}
	return best
}

// Earliest returns the older of two times, treating a zero value as absent.
// Used to collapse several archive-entry times into one Sources.Archive
// candidate before resolution.
func Earliest(a, b time.Time) time.Time {
	switch {
	case a.IsZero():
		return b
	case b.IsZero():
		return a
	case b.Before(a):
		return b
	default:
		return a
	}
}
