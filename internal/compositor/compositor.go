package compositor

import (
	"context"
	"errors"
	"time"

	"snapfix/internal/geometry"
	"snapfix/internal/probe"
)

// Sentinel errors carried by Outcome.Err.
var (
	ErrTimeout  = errors.New("timeout")
	ErrNoOutput = errors.New("output file not produced")
)

// Strategy selects how an item is merged, chosen by the primary media kind
// and overlay presence.
type Strategy int

const (
	// StrategyVideoOverlay loops the overlay statically over a time-based
	// primary for its full duration.
	StrategyVideoOverlay Strategy = iota
	// StrategyImageOverlay composites the overlay onto a single photo frame.
	StrategyImageOverlay
	// StrategyPassthroughVideo remuxes a video untouched, stamping only the
	// creation_time metadata.
	StrategyPassthroughVideo
	// StrategyCopy copies a photo byte-for-byte; no subprocess at all.
	StrategyCopy
)

func (s Strategy) String() string {
	switch s {
	case StrategyVideoOverlay:
		return "video-overlay"
	case StrategyImageOverlay:
		return "image-overlay"
	case StrategyPassthroughVideo:
		return "passthrough"
	case StrategyCopy:
		return "copy"
	default:
		return "unknown"
	}
}

// Job is one merge request: inputs, destination, geometry, and the resolved
// creation time to stamp into the output.
type Job struct {
	Strategy Strategy

	PrimaryPath string
	OverlayPath string // Empty for passthrough/copy.
	OutputPath  string

	Geometry     *geometry.Plan // nil for passthrough/copy.
	CreationTime time.Time
}

// Outcome is the result of one merge. TimedOut distinguishes the hard
// wall-clock kill from an ordinary nonzero exit; Stderr carries the
// process's captured error output for the skip report.
type Outcome struct {
	Err      error
	TimedOut bool
	Stderr   string
}

// Ok reports whether the merge completed and the output was verified.
func (o Outcome) Ok() bool { return o.Err == nil }

// Engine is the external compositing capability: probing media metadata and
// merging a primary with its overlay. The ffmpeg-backed implementation
// lives in this package; tests substitute doubles that simulate timeouts
// and nonzero exits without launching a real subprocess.
type Engine interface {
	Probe(ctx context.Context, path string) (*probe.MediaInfo, error)
	Composite(ctx context.Context, job Job) Outcome
}
